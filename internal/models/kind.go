package models

import (
	"fmt"
	"reflect"
	"time"
)

// Kind names a manageable entity. The value doubles as the table name.
type Kind string

const (
	KindTenant   Kind = "tenant"
	KindPet      Kind = "pet"
	KindVehicle  Kind = "vehicle"
	KindProperty Kind = "property"
	KindUnitType Kind = "unit_type"
	KindUnit     Kind = "unit"
)

// EarliestDate bounds every calendar field from below.
var EarliestDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// Kinds lists every entity kind in dashboard order.
var Kinds = []Kind{KindTenant, KindPet, KindVehicle, KindProperty, KindUnitType, KindUnit}

// Entity is implemented by pointers to every persisted model.
type Entity interface {
	Kind() Kind
	GetID() uint
	SetID(id uint)
}

// Dependent is a table holding a foreign key to the owning entity.
type Dependent struct {
	Table  string
	Column string
	Label  string
}

// Owner is implemented by entities that other rows reference.
// Deleting an owner with live dependents is refused.
type Owner interface {
	Dependents() []Dependent
}

// Defaulter is implemented by entities whose new records start with
// non-zero values.
type Defaulter interface {
	ApplyDefaults()
}

// Blank returns a new record of T with its defaults applied.
func Blank[T Entity]() T {
	e := New[T]()
	if d, ok := any(e).(Defaulter); ok {
		d.ApplyDefaults()
	}
	return e
}

var prototypes = map[Kind]func() Entity{
	KindTenant:   func() Entity { return &Tenant{} },
	KindPet:      func() Entity { return &Pet{} },
	KindVehicle:  func() Entity { return &Vehicle{} },
	KindProperty: func() Entity { return &Property{} },
	KindUnitType: func() Entity { return &UnitType{} },
	KindUnit:     func() Entity { return &Unit{} },
}

// NewOf returns an empty entity of the given kind.
func NewOf(kind Kind) (Entity, error) {
	fn, ok := prototypes[kind]
	if !ok {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	return fn(), nil
}

// New allocates a zero value for the pointer type T.
func New[T Entity]() T {
	var zero T
	return reflect.New(reflect.TypeOf(zero).Elem()).Interface().(T)
}

// ParseKind accepts a kind name, its plural, or the dashed URL form.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "tenant", "tenants":
		return KindTenant, nil
	case "pet", "pets":
		return KindPet, nil
	case "vehicle", "vehicles":
		return KindVehicle, nil
	case "property", "properties":
		return KindProperty, nil
	case "unit_type", "unit-type", "unit_types", "unit-types", "types":
		return KindUnitType, nil
	case "unit", "units":
		return KindUnit, nil
	}
	return "", fmt.Errorf("unknown entity kind %q", s)
}
