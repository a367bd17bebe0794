package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var ErrNothingToRevert = errors.New("no migrations to revert")

// Migrator applies and reverts migrations against one database.
type Migrator struct {
	db         *gorm.DB
	migrations []*Migration
	now        func() time.Time
}

// NewMigrator returns a Migrator over the globally registered migrations.
func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{
		db:         db,
		migrations: GetRegisteredMigrations(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (m *Migrator) Register(migration *Migration) {
	m.migrations = append(m.migrations, migration)
	sortByVersion(m.migrations)
}

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	return m.db.WithContext(ctx).AutoMigrate(&MigrationRecord{})
}

func (m *Migrator) GetAppliedVersions(ctx context.Context) (map[string]bool, error) {
	records, err := m.History(ctx)
	if err != nil {
		return nil, err
	}
	versions := make(map[string]bool, len(records))
	for _, record := range records {
		versions[record.Version] = true
	}
	return versions, nil
}

// Pending lists the migrations not applied yet, oldest first.
func (m *Migrator) Pending(ctx context.Context) ([]*Migration, error) {
	applied, err := m.GetAppliedVersions(ctx)
	if err != nil {
		return nil, err
	}
	var pending []*Migration
	for _, mr := range m.migrations {
		if !applied[mr.Version] {
			pending = append(pending, mr)
		}
	}
	return pending, nil
}

// Up applies every pending migration, each in its own transaction, and
// returns the ones applied. It stops at the first failure.
func (m *Migrator) Up(ctx context.Context) ([]*Migration, error) {
	pending, err := m.Pending(ctx)
	if err != nil {
		return nil, err
	}
	var applied []*Migration
	for _, mr := range pending {
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := mr.Up(tx); err != nil {
				return err
			}
			return tx.Create(&MigrationRecord{
				Version:   mr.Version,
				Name:      mr.Name,
				AppliedAt: m.now(),
			}).Error
		})
		if err != nil {
			return applied, fmt.Errorf("failed to apply migration %s (%s): %w", mr.Name, mr.Version, err)
		}
		applied = append(applied, mr)
	}
	return applied, nil
}

// Down reverts the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) (*Migration, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return nil, err
	}
	var record MigrationRecord
	err := m.db.WithContext(ctx).Order("applied_at DESC").Order("version DESC").First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNothingToRevert
	}
	if err != nil {
		return nil, err
	}

	var target *Migration
	for _, mr := range m.migrations {
		if mr.Version == record.Version {
			target = mr
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("migration %s (%s) is applied but not registered", record.Name, record.Version)
	}

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := target.Down(tx); err != nil {
			return err
		}
		return tx.Delete(&record).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to revert migration %s: %w", target.Name, err)
	}
	return target, nil
}

// StatusEntry is one registered migration and whether it is applied.
type StatusEntry struct {
	Version   string
	Name      string
	AppliedAt *time.Time
}

func (s StatusEntry) Applied() bool {
	return s.AppliedAt != nil
}

func (m *Migrator) Status(ctx context.Context) ([]StatusEntry, error) {
	records, err := m.History(ctx)
	if err != nil {
		return nil, err
	}
	appliedAt := make(map[string]time.Time, len(records))
	for _, r := range records {
		appliedAt[r.Version] = r.AppliedAt
	}
	entries := make([]StatusEntry, 0, len(m.migrations))
	for _, mr := range m.migrations {
		entry := StatusEntry{Version: mr.Version, Name: mr.Name}
		if at, ok := appliedAt[mr.Version]; ok {
			entry.AppliedAt = &at
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// History returns the applied migrations, most recent first.
func (m *Migrator) History(ctx context.Context) ([]MigrationRecord, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return nil, err
	}
	var records []MigrationRecord
	if err := m.db.WithContext(ctx).Order("applied_at DESC").Order("version DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
