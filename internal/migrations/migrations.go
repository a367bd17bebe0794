// Package migrations registers the free-rent schema history.
package migrations

import (
	"context"

	"gorm.io/gorm"

	"free-rent/internal/models"
	"free-rent/migration"
)

func init() {
	for _, m := range All() {
		migration.RegisterMigration(m)
	}
}

// All returns the schema migrations in the order they must run. Owners
// come before the tables referencing them.
func All() []*migration.Migration {
	return []*migration.Migration{
		createTable("20240301000001", "create_property", &models.Property{}),
		createTable("20240301000002", "create_unit_type", &models.UnitType{}),
		createTable("20240301000003", "create_tenant", &models.Tenant{}),
		createTable("20240301000004", "create_pet", &models.Pet{}),
		createTable("20240301000005", "create_vehicle", &models.Vehicle{}),
		createTable("20240301000006", "create_unit", &models.Unit{}),
	}
}

func createTable(version, name string, model models.Entity) *migration.Migration {
	return &migration.Migration{
		Version: version,
		Name:    name,
		Up: func(tx *gorm.DB) error {
			return tx.Migrator().CreateTable(model)
		},
		Down: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(model)
		},
	}
}

// Apply brings db up to the latest schema.
func Apply(ctx context.Context, db *gorm.DB) error {
	_, err := migration.NewMigrator(db).Up(ctx)
	return err
}
