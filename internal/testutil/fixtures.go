// Package testutil builds valid records and throwaway databases for tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"free-rent/internal/migrations"
	"free-rent/internal/models"
)

func Date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func Int(n int) *int { return &n }

func Float(f float64) *float64 { return &f }

func Tenant(first string) *models.Tenant {
	return &models.Tenant{
		FirstName:   first,
		LastName:    "Rivera",
		Phone:       "555-0100",
		Email:       first + "@example.com",
		DateOfBirth: Date(1990, time.April, 2),
	}
}

func Pet(tenantID uint, name string) *models.Pet {
	return &models.Pet{
		TenantID: tenantID,
		Name:     name,
		Species:  "Dog",
		Breed:    "Beagle",
		Age:      Int(4),
		Weight:   Float(22.5),
	}
}

func Vehicle(tenantID uint, plate string) *models.Vehicle {
	return &models.Vehicle{
		TenantID:     tenantID,
		Make:         "Subaru",
		Model:        "Outback",
		Year:         2018,
		Color:        "Green",
		LicensePlate: plate,
	}
}

func Property(name string) *models.Property {
	return &models.Property{
		Name:       name,
		Address:    "12 Elm St",
		City:       "Springfield",
		State:      "OR",
		PostalCode: "97477",
		Country:    "USA",
		TotalUnits: 12,
	}
}

func UnitType(style string) *models.UnitType {
	return &models.UnitType{
		UnitStyleName: style,
		BedroomCount:  2,
		BathroomCount: 1,
	}
}

func Unit(propertyID, unitTypeID uint, number string) *models.Unit {
	return &models.Unit{
		PropertyID: propertyID,
		UnitTypeID: unitTypeID,
		UnitNumber: number,
		IsVacant:   true,
	}
}

// Valid returns a valid record of every kind that needs no foreign keys
// resolved, plus owned records pointing at id 1.
func Valid() []models.Entity {
	return []models.Entity{
		Tenant("Ann"),
		Pet(1, "Rex"),
		Vehicle(1, "ABC123"),
		Property("Maple Court"),
		UnitType("Loft"),
		Unit(1, 1, "101"),
	}
}

// OpenDB returns an empty sqlite memory database with every table created
// and foreign keys enforced.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=1"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, migrations.Apply(context.Background(), db))
	return db
}
