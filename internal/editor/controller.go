// Package editor holds the per-entity add, edit and delete workflow as an
// explicit state machine that any surface can drive.
package editor

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/rs/zerolog/log"

	"free-rent/internal/listview"
	"free-rent/internal/models"
	"free-rent/internal/schema"
	"free-rent/internal/store"
	"free-rent/internal/validate"
)

var (
	ErrInvalidTransition = errors.New("action not allowed in current state")
	ErrUnchanged         = errors.New("record unchanged")
)

// Gateway is the persistence a Controller needs. *store.Repo satisfies it.
type Gateway[T models.Entity] interface {
	List(ctx context.Context, filters ...store.Filter) ([]T, error)
	Get(ctx context.Context, id uint) (T, error)
	Insert(ctx context.Context, e T) (uint, error)
	Update(ctx context.Context, id uint, e T) error
	Delete(ctx context.Context, id uint) error
}

// Controller drives one entity kind through Browsing, Adding, Selecting,
// Editing and ConfirmingDelete. It is not safe for concurrent use.
type Controller[T models.Entity] struct {
	gw        Gateway[T]
	table     *schema.Table
	validator *validate.Validator

	scopeColumn string
	scopeID     uint

	state   State
	records []T
	current T
	column  string
	query   string
	notice  Notice
}

type Option[T models.Entity] func(*Controller[T])

// WithScope restricts the controller to rows whose column equals id and
// stamps id onto every record it adds.
func WithScope[T models.Entity](column string, id uint) Option[T] {
	return func(c *Controller[T]) {
		c.scopeColumn = column
		c.scopeID = id
	}
}

func New[T models.Entity](gw Gateway[T], v *validate.Validator, opts ...Option[T]) (*Controller[T], error) {
	table, err := schema.For[T]()
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = validate.New()
	}
	c := &Controller[T]{
		gw:        gw,
		table:     table,
		validator: v,
		state:     Browsing,
		column:    listview.DefaultColumn(table),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.scopeColumn != "" {
		if _, ok := table.Column(c.scopeColumn); !ok {
			return nil, schema.UnknownColumn(table, c.scopeColumn)
		}
	}
	return c, nil
}

func (c *Controller[T]) State() State         { return c.state }
func (c *Controller[T]) Table() *schema.Table { return c.table }
func (c *Controller[T]) Notice() Notice       { return c.notice }
func (c *Controller[T]) Records() []T         { return c.records }
func (c *Controller[T]) SearchColumn() string { return c.column }
func (c *Controller[T]) SearchQuery() string  { return c.query }

// Current is the record loaded for editing. It is the zero value outside
// Editing and ConfirmingDelete.
func (c *Controller[T]) Current() T {
	return c.current
}

// Blank returns a new candidate with defaults and scope applied.
func (c *Controller[T]) Blank() T {
	e := models.Blank[T]()
	c.applyScope(e)
	return e
}

// Search sets the list filter. It never queries the store.
func (c *Controller[T]) Search(column, query string) error {
	if _, ok := c.table.Column(column); !ok {
		return schema.UnknownColumn(c.table, column)
	}
	c.column, c.query = column, query
	return nil
}

// Visible returns the loaded records that match the current search.
func (c *Controller[T]) Visible() ([]T, error) {
	return listview.Filter(c.table, c.records, c.column, c.query)
}

// Refresh reloads the records from the store.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	var filters []store.Filter
	if c.scopeColumn != "" {
		filters = append(filters, store.Filter{Column: c.scopeColumn, Value: c.scopeID})
	}
	records, err := c.gw.List(ctx, filters...)
	if err != nil {
		c.notice = Notice{Kind: NoticeError, Text: fmt.Sprintf("could not load %s records", c.table.Kind)}
		return err
	}
	c.records = records
	return nil
}

func (c *Controller[T]) Add() error {
	if c.state != Browsing {
		return c.reject("add")
	}
	c.notice = Notice{}
	c.setState(Adding)
	return nil
}

// BeginSelect starts picking a record to edit or view.
func (c *Controller[T]) BeginSelect() error {
	if c.state != Browsing {
		return c.reject("select")
	}
	c.notice = Notice{}
	c.setState(Selecting)
	return nil
}

// Select loads record id for editing. A record that vanished returns the
// controller to Browsing.
func (c *Controller[T]) Select(ctx context.Context, id uint) error {
	if c.state != Selecting {
		return c.reject("select")
	}
	e, err := c.gw.Get(ctx, id)
	if err != nil {
		return c.failed(ctx, err)
	}
	c.current = e
	c.setState(Editing)
	return nil
}

// Cancel discards the in-progress work. From ConfirmingDelete it goes back
// to Editing, from anywhere else to Browsing.
func (c *Controller[T]) Cancel() error {
	switch c.state {
	case ConfirmingDelete:
		return c.CancelDelete()
	case Adding, Selecting, Editing:
		c.toBrowsing()
		c.notice = Notice{}
		return nil
	}
	return c.reject("cancel")
}

// Validate lists the failing fields of candidate after scope is applied.
func (c *Controller[T]) Validate(candidate T) []string {
	c.applyScope(candidate)
	return c.validator.Validate(candidate)
}

// Changed reports whether candidate differs from the loaded record.
func (c *Controller[T]) Changed(candidate T) bool {
	if c.state != Editing {
		return true
	}
	before, after := c.table.Encode(c.current), c.table.Encode(candidate)
	delete(before, "id")
	delete(after, "id")
	return !maps.Equal(before, after)
}

// CanSubmit is the submit control's enabled state: a valid candidate when
// adding, a valid and changed one when editing.
func (c *Controller[T]) CanSubmit(candidate T) bool {
	switch c.state {
	case Adding:
		return len(c.Validate(candidate)) == 0
	case Editing:
		return len(c.Validate(candidate)) == 0 && c.Changed(candidate)
	}
	return false
}

// Submit persists candidate. Invalid or unchanged candidates never reach
// the store and leave the state as it is.
func (c *Controller[T]) Submit(ctx context.Context, candidate T) error {
	if c.state != Adding && c.state != Editing {
		return c.reject("submit")
	}
	if fields := c.Validate(candidate); len(fields) > 0 {
		c.notice = Notice{Kind: NoticeInvalid, Text: "please fix the highlighted fields", Fields: fields}
		return &validate.Error{Kind: c.table.Kind, Fields: fields}
	}
	if !c.Changed(candidate) {
		c.notice = Notice{Kind: NoticeInfo, Text: "nothing to save"}
		return ErrUnchanged
	}

	var err error
	var verb string
	if c.state == Adding {
		_, err = c.gw.Insert(ctx, candidate)
		verb = "added"
	} else {
		err = c.gw.Update(ctx, c.current.GetID(), candidate)
		verb = "updated"
	}
	if err != nil {
		return c.failed(ctx, err)
	}

	c.toBrowsing()
	c.notice = Notice{Kind: NoticeInfo, Text: fmt.Sprintf("%s %s", c.table.Kind, verb)}
	return c.Refresh(ctx)
}

// Delete asks for confirmation before deleting the loaded record.
func (c *Controller[T]) Delete() error {
	if c.state != Editing {
		return c.reject("delete")
	}
	c.setState(ConfirmingDelete)
	return nil
}

func (c *Controller[T]) ConfirmDelete(ctx context.Context) error {
	if c.state != ConfirmingDelete {
		return c.reject("confirm delete")
	}
	if err := c.gw.Delete(ctx, c.current.GetID()); err != nil {
		return c.failed(ctx, err)
	}
	c.toBrowsing()
	c.notice = Notice{Kind: NoticeInfo, Text: fmt.Sprintf("%s deleted", c.table.Kind)}
	return c.Refresh(ctx)
}

func (c *Controller[T]) CancelDelete() error {
	if c.state != ConfirmingDelete {
		return c.reject("cancel delete")
	}
	c.setState(Editing)
	return nil
}

// failed turns a gateway error into a notice and the matching state.
func (c *Controller[T]) failed(ctx context.Context, err error) error {
	var ce *store.ConstraintError
	switch {
	case errors.As(err, &ce):
		c.notice = Notice{Kind: NoticeConflict, Text: ce.Error()}
		if ce.Field != "" {
			c.notice.Fields = []string{ce.Field}
		}
		if c.state == ConfirmingDelete {
			c.setState(Editing)
		}
	case errors.Is(err, store.ErrNotFound):
		c.toBrowsing()
		c.notice = Notice{Kind: NoticeError, Text: fmt.Sprintf("that %s no longer exists", c.table.Kind)}
		if rerr := c.Refresh(ctx); rerr != nil {
			log.Ctx(ctx).Error().Err(rerr).Msg("refresh after stale record failed")
		}
	default:
		c.toBrowsing()
		c.notice = Notice{Kind: NoticeError, Text: "the database could not complete the request"}
	}
	return err
}

func (c *Controller[T]) applyScope(e T) {
	if c.scopeColumn == "" {
		return
	}
	if err := c.table.Assign(e, c.scopeColumn, c.scopeID); err != nil {
		log.Error().Err(err).Str("kind", string(c.table.Kind)).Msg("failed to apply scope")
	}
}

func (c *Controller[T]) toBrowsing() {
	var zero T
	c.current = zero
	c.setState(Browsing)
}

func (c *Controller[T]) setState(s State) {
	log.Debug().Str("kind", string(c.table.Kind)).Stringer("from", c.state).Stringer("to", s).Msg("editor state")
	c.state = s
}

func (c *Controller[T]) reject(action string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, action, c.state)
}
