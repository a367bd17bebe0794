package schema

import (
	"context"
	"reflect"
	"strconv"
	"strings"
	"time"

	GORMSchema "gorm.io/gorm/schema"
)

// FieldType is the semantic type a form renders for a column.
type FieldType string

const (
	TypeText    FieldType = "text"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeEnum    FieldType = "enum"
	TypeDate    FieldType = "date"
)

// DateLayout is the only accepted textual form of a date.
const DateLayout = "2006-01-02"

// FieldSpec describes one column of an entity. It carries no behavior.
type FieldSpec struct {
	Name           string    `json:"name"`
	Label          string    `json:"label"`
	Type           FieldType `json:"type"`
	Required       bool      `json:"required"`
	Multiline      bool      `json:"multiline,omitempty"`
	Options        []string  `json:"options,omitempty"`
	Min            *float64  `json:"min,omitempty"`
	Max            *float64  `json:"max,omitempty"`
	MaxCurrentYear bool      `json:"max_current_year,omitempty"`
	Earliest       string    `json:"earliest,omitempty"`
	MaxToday       bool      `json:"max_today,omitempty"`
	Hidden         bool      `json:"hidden,omitempty"`
}

// Column represents a gorm field together with its form description
type Column struct {
	*GORMSchema.Field
	Spec FieldSpec
}

func (c *Column) Type() FieldType {
	return c.Spec.Type
}

func (c *Column) ColumnName() string {
	return c.DBName
}

func (c *Column) ColumnTag() reflect.StructTag {
	return c.Tag
}

func newColumn(field *GORMSchema.Field) *Column {
	label := field.Tag.Get("label")
	spec := FieldSpec{
		Name:      field.DBName,
		Label:     label,
		Hidden:    label == "" || label == "-",
		Multiline: strings.EqualFold(field.TagSettings["TYPE"], "text"),
	}
	if spec.Hidden {
		spec.Label = field.Name
	}

	base := field.FieldType
	if base.Kind() == reflect.Ptr {
		base = base.Elem()
	}
	switch {
	case base == reflect.TypeOf(time.Time{}):
		spec.Type = TypeDate
	case base.Kind() == reflect.Bool:
		spec.Type = TypeBoolean
	case isNumeric(base.Kind()):
		spec.Type = TypeNumber
	default:
		spec.Type = TypeText
	}

	for _, rule := range strings.Split(field.Tag.Get("validate"), ",") {
		name, arg, _ := strings.Cut(rule, "=")
		switch name {
		case "required":
			spec.Required = true
		case "oneof":
			spec.Type = TypeEnum
			spec.Options = strings.Fields(arg)
			spec.Multiline = false
		case "min":
			if f, err := strconv.ParseFloat(arg, 64); err == nil {
				spec.Min = &f
			}
		case "max":
			if f, err := strconv.ParseFloat(arg, 64); err == nil {
				spec.Max = &f
			}
		case "notfutureyear":
			spec.MaxCurrentYear = true
		case "pastdate":
			spec.Earliest = "1900-01-01"
			spec.MaxToday = true
		}
	}
	return &Column{Field: field, Spec: spec}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// value returns the addressable struct field backing the column.
func (c *Column) value(model reflect.Value) reflect.Value {
	return c.ReflectValueOf(context.Background(), model)
}

// Format renders the column value of model as form text.
func (c *Column) Format(model reflect.Value) string {
	fv := c.value(model)
	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return ""
		}
		fv = fv.Elem()
	}
	if t, ok := fv.Interface().(time.Time); ok {
		if t.IsZero() {
			return ""
		}
		return t.Format(DateLayout)
	}
	switch fv.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(fv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(fv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(fv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(fv.Float(), 'f', -1, 64)
	case reflect.String:
		return fv.String()
	}
	return ""
}

// Parse stores raw into the column of model. Empty input clears the field.
func (c *Column) Parse(model reflect.Value, raw string) error {
	raw = strings.TrimSpace(raw)
	fv := c.value(model)
	target := fv.Type()
	if target.Kind() == reflect.Ptr {
		if raw == "" {
			fv.Set(reflect.Zero(target))
			return nil
		}
		elem := reflect.New(target.Elem())
		if err := parseInto(elem.Elem(), raw); err != nil {
			return err
		}
		fv.Set(elem)
		return nil
	}
	if raw == "" {
		fv.Set(reflect.Zero(target))
		return nil
	}
	return parseInto(fv, raw)
}

func parseInto(fv reflect.Value, raw string) error {
	if fv.Type() == reflect.TypeOf(time.Time{}) {
		t, err := time.ParseInLocation(DateLayout, raw, time.UTC)
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(t))
		return nil
	}
	switch fv.Kind() {
	case reflect.Bool:
		switch strings.ToLower(raw) {
		case "yes", "y":
			fv.SetBool(true)
			return nil
		case "no", "n":
			fv.SetBool(false)
			return nil
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetFloat(f)
	case reflect.String:
		fv.SetString(raw)
	}
	return nil
}
