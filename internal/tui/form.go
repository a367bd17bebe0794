package tui

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"free-rent/internal/schema"
)

var (
	errNotNumber = errors.New("must be a number")
	errNotDate   = errors.New("use YYYY-MM-DD")
)

// recordForm is the huh form for one record. Field values live in the
// form state so the form can be rebuilt without losing input.
type recordForm struct {
	title   string
	specs   []schema.FieldSpec
	text    map[string]*string
	flags   map[string]*bool
	choices map[string][]huh.Option[string]
	invalid map[string]bool
	width   int

	Form *huh.Form
}

// newRecordForm builds a form over specs seeded with values. choices turns
// a column into a select over the given options.
func newRecordForm(title string, specs []schema.FieldSpec, values map[string]string, choices map[string][]huh.Option[string]) *recordForm {
	f := &recordForm{
		title:   title,
		specs:   specs,
		text:    make(map[string]*string, len(specs)),
		flags:   make(map[string]*bool),
		choices: choices,
		invalid: make(map[string]bool),
	}
	for _, spec := range specs {
		v := values[spec.Name]
		if spec.Type == schema.TypeBoolean {
			b, _ := strconv.ParseBool(v)
			f.flags[spec.Name] = &b
			continue
		}
		if opts := choices[spec.Name]; len(opts) > 0 && !hasOption(opts, v) {
			v = opts[0].Value
		}
		f.text[spec.Name] = &v
	}
	f.build()
	return f
}

func hasOption(opts []huh.Option[string], v string) bool {
	return slices.ContainsFunc(opts, func(o huh.Option[string]) bool { return o.Value == v })
}

func (f *recordForm) build() {
	fields := make([]huh.Field, 0, len(f.specs))
	for _, spec := range f.specs {
		fields = append(fields, f.field(spec))
	}
	f.Form = huh.NewForm(huh.NewGroup(fields...).Title(f.title)).
		WithShowHelp(false).
		WithTheme(huh.ThemeDracula())
	if f.width > 0 {
		f.Form.WithWidth(f.width)
	}
}

func (f *recordForm) field(spec schema.FieldSpec) huh.Field {
	title := spec.Label
	if spec.Required {
		title += " *"
	}
	desc := ""
	if f.invalid[spec.Name] {
		desc = "invalid " + strings.ToLower(spec.Label)
	}

	if spec.Type == schema.TypeBoolean {
		return huh.NewConfirm().
			Title(title).
			Description(desc).
			Affirmative("Yes").
			Negative("No").
			Value(f.flags[spec.Name])
	}

	value := f.text[spec.Name]
	if opts := f.choices[spec.Name]; len(opts) > 0 {
		return huh.NewSelect[string]().
			Title(title).
			Description(desc).
			Options(opts...).
			Value(value)
	}
	if spec.Type == schema.TypeEnum {
		opts := huh.NewOptions(spec.Options...)
		if !spec.Required {
			opts = append([]huh.Option[string]{huh.NewOption("(none)", "")}, opts...)
		}
		return huh.NewSelect[string]().
			Title(title).
			Description(desc).
			Options(opts...).
			Value(value)
	}
	if spec.Multiline {
		return huh.NewText().
			Title(title).
			Description(desc).
			Lines(3).
			Value(value)
	}

	input := huh.NewInput().
		Title(title).
		Description(desc).
		Value(value)
	switch spec.Type {
	case schema.TypeNumber:
		input.Placeholder(numberHint(spec)).Validate(parsesAsNumber)
	case schema.TypeDate:
		input.Placeholder("YYYY-MM-DD").Validate(parsesAsDate)
	}
	return input
}

func numberHint(spec schema.FieldSpec) string {
	switch {
	case spec.Min != nil && spec.Max != nil:
		return fmt.Sprintf("%g-%g", *spec.Min, *spec.Max)
	case spec.Min != nil && spec.MaxCurrentYear:
		return fmt.Sprintf("%g-%d", *spec.Min, time.Now().Year())
	case spec.Min != nil:
		return fmt.Sprintf("at least %g", *spec.Min)
	}
	return ""
}

func parsesAsNumber(s string) error {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return errNotNumber
	}
	return nil
}

func parsesAsDate(s string) error {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	if _, err := time.Parse(schema.DateLayout, s); err != nil {
		return errNotDate
	}
	return nil
}

// Values returns the form input keyed by column name.
func (f *recordForm) Values() map[string]string {
	out := make(map[string]string, len(f.text)+len(f.flags))
	for name, v := range f.text {
		out[name] = *v
	}
	for name, b := range f.flags {
		out[name] = strconv.FormatBool(*b)
	}
	return out
}

// Set overwrites one field and rebuilds the form.
func (f *recordForm) Set(name, value string) {
	if b, ok := f.flags[name]; ok {
		*b, _ = strconv.ParseBool(value)
	} else if v, ok := f.text[name]; ok {
		*v = value
	}
	f.build()
}

// MarkInvalid flags fields on the next build.
func (f *recordForm) MarkInvalid(fields []string) {
	clear(f.invalid)
	for _, name := range fields {
		f.invalid[name] = true
	}
	f.build()
}

func (f *recordForm) SetWidth(width int) {
	f.width = width
	f.Form.WithWidth(width)
}
