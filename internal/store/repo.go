package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"free-rent/internal/models"
	"free-rent/internal/schema"
)

// Filter restricts a listing to rows whose column equals value.
type Filter struct {
	Column string
	Value  any
}

// Repo is the persistence gateway for one entity kind. Every mutation runs
// in its own transaction and every error it returns belongs to the
// ErrPersistence family.
type Repo[T models.Entity] struct {
	db    *gorm.DB
	table *schema.Table
}

func NewRepo[T models.Entity](db *gorm.DB) (*Repo[T], error) {
	table, err := schema.For[T]()
	if err != nil {
		return nil, err
	}
	return &Repo[T]{db: db, table: table}, nil
}

func (r *Repo[T]) Table() *schema.Table {
	return r.table
}

// List returns the rows matching every filter, ordered by id.
func (r *Repo[T]) List(ctx context.Context, filters ...Filter) ([]T, error) {
	q := r.db.WithContext(ctx).Model(models.New[T]()).Order("id")
	for _, f := range filters {
		if _, ok := r.table.Column(f.Column); !ok {
			return nil, ErrInvalidFilter.Msg(fmt.Sprintf("%s has no column %q", r.table.Kind, f.Column))
		}
		q = q.Where(map[string]any{f.Column: f.Value})
	}

	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		log.Ctx(ctx).Error().Err(err).Str("kind", string(r.table.Kind)).Msg("list failed")
		return nil, translate(r.table, err)
	}
	return rows, nil
}

func (r *Repo[T]) Get(ctx context.Context, id uint) (T, error) {
	e := models.New[T]()
	if err := r.db.WithContext(ctx).First(e, id).Error; err != nil {
		var zero T
		return zero, translate(r.table, err)
	}
	return e, nil
}

// Insert stores e under a newly generated id and returns it.
func (r *Repo[T]) Insert(ctx context.Context, e T) (uint, error) {
	e.SetID(0)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.checkReferences(tx, e); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(e).Error
	})
	if err != nil {
		return 0, r.fail(ctx, "insert", 0, err)
	}
	log.Ctx(ctx).Debug().Str("kind", string(r.table.Kind)).Uint("id", e.GetID()).Msg("inserted")
	return e.GetID(), nil
}

// Update overwrites every column of row id with the values of e.
func (r *Repo[T]) Update(ctx context.Context, id uint, e T) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(models.New[T]()).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := r.checkReferences(tx, e); err != nil {
			return err
		}
		e.SetID(id)
		return tx.Model(e).Select("*").Omit("id", clause.Associations).Updates(e).Error
	})
	if err != nil {
		return r.fail(ctx, "update", id, err)
	}
	log.Ctx(ctx).Debug().Str("kind", string(r.table.Kind)).Uint("id", id).Msg("updated")
	return nil
}

// Delete removes row id. Rows that are still referenced are kept and a
// ConstraintError names what references them.
func (r *Repo[T]) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e := models.New[T]()
		if err := tx.First(e, id).Error; err != nil {
			return err
		}
		if owner, ok := any(e).(models.Owner); ok {
			for _, dep := range owner.Dependents() {
				var n int64
				if err := tx.Table(dep.Table).Where(map[string]any{dep.Column: id}).Count(&n).Error; err != nil {
					return err
				}
				if n > 0 {
					return constraintError(dep.Label, fmt.Sprintf("%s %d still has %d %s", r.table.Kind, id, n, dep.Label), nil)
				}
			}
		}
		return tx.Delete(e).Error
	})
	if err != nil {
		return r.fail(ctx, "delete", id, err)
	}
	log.Ctx(ctx).Debug().Str("kind", string(r.table.Kind)).Uint("id", id).Msg("deleted")
	return nil
}

// checkReferences reports the first foreign key of e that points at no row.
func (r *Repo[T]) checkReferences(tx *gorm.DB, e T) error {
	for _, ref := range r.table.References() {
		v, err := r.table.Get(e, ref.Column)
		if err != nil {
			return err
		}
		var n int64
		if err := tx.Table(ref.Table).Where(map[string]any{"id": v}).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return constraintError(ref.Column, fmt.Sprintf("%s %v does not exist", ref.Table, v), nil)
		}
	}
	return nil
}

func (r *Repo[T]) fail(ctx context.Context, op string, id uint, err error) error {
	err = translate(r.table, err)
	ev := log.Ctx(ctx).Warn()
	if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrConstraintViolation) {
		ev = log.Ctx(ctx).Error()
	}
	ev.Err(err).Str("kind", string(r.table.Kind)).Uint("id", id).Msg(op + " failed")
	return err
}
