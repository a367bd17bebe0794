package migration

import (
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Migration is one versioned schema change. Up and Down receive the
// transaction the change runs in.
type Migration struct {
	Version string
	Name    string
	Up      func(*gorm.DB) error
	Down    func(*gorm.DB) error
}

// MigrationRecord marks a migration as applied.
type MigrationRecord struct {
	Version   string    `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (MigrationRecord) TableName() string { return "schema_migrations" }

var (
	globalMigrations = make([]*Migration, 0)
	registryMutex    sync.RWMutex
)

func RegisterMigration(migration *Migration) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	globalMigrations = append(globalMigrations, migration)
}

// GetRegisteredMigrations returns the registered migrations ordered by
// version.
func GetRegisteredMigrations() []*Migration {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	migrations := make([]*Migration, len(globalMigrations))
	copy(migrations, globalMigrations)
	sortByVersion(migrations)
	return migrations
}

func ResetMigrations() {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	globalMigrations = make([]*Migration, 0)
}

func sortByVersion(migrations []*Migration) {
	sort.SliceStable(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
}
