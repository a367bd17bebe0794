package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	GORMSchema "gorm.io/gorm/schema"

	"free-rent/internal/models"
)

// Table represents a gorm model and the ordered columns forms work with
type Table struct {
	*GORMSchema.Schema
	Kind    models.Kind
	Columns []*Column
	byName  map[string]*Column
}

func (t *Table) TableName() string {
	return t.Table
}

func (t *Table) TableColumns() []*Column {
	return t.Columns
}

// FormColumns returns the columns an operator edits, in display order.
func (t *Table) FormColumns() []*Column {
	cols := make([]*Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !c.Spec.Hidden {
			cols = append(cols, c)
		}
	}
	return cols
}

// Column looks up a column by its database name.
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// ColumnNames lists every column name in display order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.DBName
	}
	return names
}

// Specs returns the pure-data description of the form columns.
func (t *Table) Specs() []FieldSpec {
	cols := t.FormColumns()
	specs := make([]FieldSpec, len(cols))
	for i, c := range cols {
		specs[i] = c.Spec
	}
	return specs
}

// Encode renders every column of e as text keyed by column name.
func (t *Table) Encode(e models.Entity) map[string]string {
	rv := t.modelValue(e)
	out := make(map[string]string, len(t.Columns))
	for _, c := range t.Columns {
		out[c.DBName] = c.Format(rv)
	}
	return out
}

// Row renders e in column order.
func (t *Table) Row(e models.Entity) []string {
	rv := t.modelValue(e)
	row := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		row[i] = c.Format(rv)
	}
	return row
}

// Value renders a single column of e.
func (t *Table) Value(e models.Entity, name string) (string, error) {
	c, ok := t.byName[name]
	if !ok {
		return "", UnknownColumn(t, name)
	}
	return c.Format(t.modelValue(e)), nil
}

// Decode parses form text into e. Columns missing from values are left
// untouched; unparsable values are reported together in a DecodeError.
func (t *Table) Decode(values map[string]string, e models.Entity) error {
	rv := t.modelValue(e)
	var bad []string
	for _, c := range t.Columns {
		raw, ok := values[c.DBName]
		if !ok || c.PrimaryKey {
			continue
		}
		if err := c.Parse(rv, raw); err != nil {
			bad = append(bad, c.DBName)
		}
	}
	if len(bad) > 0 {
		return &DecodeError{Fields: bad}
	}
	return nil
}

// Assign sets column name of e to value, converting numeric kinds.
func (t *Table) Assign(e models.Entity, name string, value any) error {
	c, ok := t.byName[name]
	if !ok {
		return UnknownColumn(t, name)
	}
	fv := c.value(t.modelValue(e))
	v := reflect.ValueOf(value)
	if !v.IsValid() || !v.Type().ConvertibleTo(fv.Type()) {
		return fmt.Errorf("cannot assign %T to %s.%s", value, t.Kind, name)
	}
	fv.Set(v.Convert(fv.Type()))
	return nil
}

// Get returns the Go value held in column name of e.
func (t *Table) Get(e models.Entity, name string) (any, error) {
	c, ok := t.byName[name]
	if !ok {
		return nil, UnknownColumn(t, name)
	}
	return c.value(t.modelValue(e)).Interface(), nil
}

// Reference is a foreign key column and the table it points at.
type Reference struct {
	Column string
	Table  string
}

// References lists the belongs-to foreign keys of the table.
func (t *Table) References() []Reference {
	var refs []Reference
	for _, rel := range t.Relationships.Relations {
		if rel.Type != GORMSchema.BelongsTo {
			continue
		}
		for _, ref := range rel.References {
			if ref.OwnPrimaryKey {
				continue
			}
			refs = append(refs, Reference{Column: ref.ForeignKey.DBName, Table: rel.FieldSchema.Table})
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		return t.position(refs[i].Column) < t.position(refs[j].Column)
	})
	return refs
}

// UniqueColumns lists the columns carrying a unique constraint.
func (t *Table) UniqueColumns() []string {
	var names []string
	for _, c := range t.Columns {
		if _, ok := c.TagSettings["UNIQUEINDEX"]; ok || c.Unique {
			names = append(names, c.DBName)
		}
	}
	return names
}

func (t *Table) position(name string) int {
	for i, c := range t.Columns {
		if c.DBName == name {
			return i
		}
	}
	return len(t.Columns)
}

func (t *Table) modelValue(e models.Entity) reflect.Value {
	return reflect.ValueOf(e).Elem()
}

// UnknownColumn reports a column name the table does not have.
func UnknownColumn(t *Table, name string) error {
	return fmt.Errorf("%s has no column %q", t.Kind, name)
}

// DecodeError lists columns whose text could not be parsed.
type DecodeError struct {
	Fields []string
}

func (e *DecodeError) Error() string {
	return "invalid value for " + strings.Join(e.Fields, ", ")
}

var parseCache = &sync.Map{}

func CreateTableFromModel(model models.Entity) (*Table, error) {
	modelSchema, err := GORMSchema.Parse(model, parseCache, GORMSchema.NamingStrategy{})
	if err != nil {
		return nil, err
	}

	table := &Table{
		Schema:  modelSchema,
		Kind:    model.Kind(),
		Columns: make([]*Column, 0, len(modelSchema.Fields)),
		byName:  make(map[string]*Column),
	}
	for _, field := range modelSchema.Fields {
		if field.DBName == "" {
			continue
		}
		if _, seen := table.byName[field.DBName]; seen {
			continue
		}
		column := newColumn(field)
		table.Columns = append(table.Columns, column)
		table.byName[field.DBName] = column
	}

	return table, nil
}
