package tui

import (
	"context"
	"errors"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/huh"
	"gorm.io/gorm"

	"free-rent/internal/editor"
	"free-rent/internal/listview"
	"free-rent/internal/models"
	"free-rent/internal/schema"
	"free-rent/internal/store"
	"free-rent/internal/validate"
)

// pane is an editor.Controller with its entity type erased, so tabs of
// different kinds can share one model.
type pane interface {
	Name() string
	Table() *schema.Table
	State() editor.State
	Notice() editor.Notice
	SearchColumn() string
	SearchQuery() string
	Search(column, query string) error
	Refresh(ctx context.Context) error
	Add() error
	BeginSelect() error
	Select(ctx context.Context, id uint) error
	Cancel() error
	Delete() error
	ConfirmDelete(ctx context.Context) error
	CancelDelete() error

	Len() int
	Rows() ([]table.Row, error)
	Choices() []huh.Option[string]
	CurrentID() uint
	FormValues() map[string]string
	SubmitForm(ctx context.Context, values map[string]string) error
	CanSubmitForm(values map[string]string) bool
}

type editorPane[T models.Entity] struct {
	*editor.Controller[T]
	name string
}

// paneFactory builds a pane, optionally scoped to an owner record.
type paneFactory func(db *gorm.DB, v *validate.Validator, ownerID uint) (pane, error)

func newPane[T models.Entity](name string) paneFactory {
	return func(db *gorm.DB, v *validate.Validator, _ uint) (pane, error) {
		return buildPane[T](name, db, v)
	}
}

// ownedPane lists the records of T whose column points at the owner.
func ownedPane[T models.Entity](name, column string) paneFactory {
	return func(db *gorm.DB, v *validate.Validator, ownerID uint) (pane, error) {
		return buildPane[T](name, db, v, editor.WithScope[T](column, ownerID))
	}
}

func buildPane[T models.Entity](name string, db *gorm.DB, v *validate.Validator, opts ...editor.Option[T]) (*editorPane[T], error) {
	repo, err := store.NewRepo[T](db)
	if err != nil {
		return nil, err
	}
	c, err := editor.New[T](repo, v, opts...)
	if err != nil {
		return nil, err
	}
	return &editorPane[T]{Controller: c, name: name}, nil
}

func (p *editorPane[T]) Name() string { return p.name }

func (p *editorPane[T]) Len() int { return len(p.Records()) }

// Rows renders the visible records as the id followed by the form columns.
func (p *editorPane[T]) Rows() ([]table.Row, error) {
	records, err := p.Visible()
	if err != nil {
		return nil, err
	}
	cols := p.Table().FormColumns()
	rows := make([]table.Row, len(records))
	for i, r := range records {
		values := p.Table().Encode(r)
		row := make(table.Row, 0, len(cols)+1)
		row = append(row, strconv.FormatUint(uint64(r.GetID()), 10))
		for _, c := range cols {
			row = append(row, values[c.DBName])
		}
		rows[i] = row
	}
	return rows, nil
}

// Choices offers every loaded record as a select option keyed by id.
func (p *editorPane[T]) Choices() []huh.Option[string] {
	column := listview.DefaultColumn(p.Table())
	opts := make([]huh.Option[string], 0, p.Len())
	for _, r := range p.Records() {
		id := strconv.FormatUint(uint64(r.GetID()), 10)
		label, _ := p.Table().Value(r, column)
		opts = append(opts, huh.NewOption(id+"  "+label, id))
	}
	return opts
}

func (p *editorPane[T]) CurrentID() uint {
	switch p.State() {
	case editor.Editing, editor.ConfirmingDelete:
		return p.Current().GetID()
	}
	return 0
}

// FormValues seeds the form: defaults when adding, the loaded record when
// editing.
func (p *editorPane[T]) FormValues() map[string]string {
	if p.State() == editor.Adding {
		return p.Table().Encode(p.Blank())
	}
	return p.Table().Encode(p.Current())
}

// SubmitForm decodes form text over the record being worked on and submits
// it. Text that does not parse is reported like a validation failure.
func (p *editorPane[T]) SubmitForm(ctx context.Context, values map[string]string) error {
	candidate, err := p.candidate(values)
	if err != nil {
		return err
	}
	return p.Submit(ctx, candidate)
}

// CanSubmitForm reports whether the form input would be accepted.
func (p *editorPane[T]) CanSubmitForm(values map[string]string) bool {
	candidate, err := p.candidate(values)
	return err == nil && p.CanSubmit(candidate)
}

func (p *editorPane[T]) candidate(values map[string]string) (T, error) {
	candidate := p.Blank()
	if p.State() == editor.Editing {
		if err := p.Table().Decode(p.Table().Encode(p.Current()), candidate); err != nil {
			return candidate, err
		}
	}
	if err := p.Table().Decode(values, candidate); err != nil {
		var decodeErr *schema.DecodeError
		if errors.As(err, &decodeErr) {
			return candidate, &validate.Error{Kind: p.Table().Kind, Fields: decodeErr.Fields}
		}
		return candidate, err
	}
	return candidate, nil
}
