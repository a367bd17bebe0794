package schema

import (
	"fmt"
	"sync"

	"free-rent/internal/models"
)

var (
	registry     map[models.Kind]*Table
	registryErr  error
	registryOnce sync.Once
)

func loadRegistry() {
	registry = make(map[models.Kind]*Table, len(models.Kinds))
	for _, kind := range models.Kinds {
		model, err := models.NewOf(kind)
		if err != nil {
			registryErr = err
			return
		}
		table, err := CreateTableFromModel(model)
		if err != nil {
			registryErr = fmt.Errorf("failed to parse %s schema: %w", kind, err)
			return
		}
		registry[kind] = table
	}
}

// Lookup returns the registered table of kind.
func Lookup(kind models.Kind) (*Table, error) {
	registryOnce.Do(loadRegistry)
	if registryErr != nil {
		return nil, registryErr
	}
	table, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	return table, nil
}

// For returns the table of the entity type T.
func For[T models.Entity]() (*Table, error) {
	return Lookup(models.New[T]().Kind())
}

// MustFor is For for package initialisation paths where the models are static.
func MustFor[T models.Entity]() *Table {
	t, err := For[T]()
	if err != nil {
		panic(err)
	}
	return t
}
