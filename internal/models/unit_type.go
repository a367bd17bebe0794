package models

import "time"

// FuelTypes are the accepted range and furnace fuels.
var FuelTypes = []string{"gas", "electric"}

// UnitType represents a floor plan style shared by units
type UnitType struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UnitStyleName string     `gorm:"not null;uniqueIndex" json:"unit_style_name" label:"Unit Style Name" validate:"required"`
	BedroomCount  int        `gorm:"not null" json:"bedroom_count" label:"Bedroom Count" validate:"required,min=1"`
	BathroomCount int        `gorm:"not null" json:"bathroom_count" label:"Bathroom Count" validate:"required,min=1"`
	SqFootage     *int       `json:"sq_footage" label:"Square Footage" validate:"omitempty,min=0"`
	HasBalcony    bool       `json:"has_balcony" label:"Has Balcony"`
	HasVaulted    bool       `json:"has_vaulted" label:"Has Vaulted Ceiling"`
	ExteriorType  string     `json:"exterior_type" label:"Exterior Type"`
	HasWasher     bool       `json:"has_washer" label:"Has Washer"`
	HasDryer      bool       `json:"has_dryer" label:"Has Dryer"`
	RangeType     string     `json:"range_type" label:"Range Type" validate:"omitempty,oneof=gas electric"`
	FurnaceType   string     `json:"furnace_type" label:"Furnace Type" validate:"omitempty,oneof=gas electric"`
	IsFurnished   bool       `json:"is_furnished" label:"Is Furnished"`
	DateRenovated *time.Time `gorm:"type:date" json:"date_renovated" label:"Date Renovated" validate:"omitempty,pastdate"`
	OtherInfo     string     `gorm:"type:text" json:"other_info" label:"Other Info"`
}

func (UnitType) TableName() string { return string(KindUnitType) }

func (*UnitType) Kind() Kind      { return KindUnitType }
func (u *UnitType) GetID() uint   { return u.ID }
func (u *UnitType) SetID(id uint) { u.ID = id }

func (*UnitType) Dependents() []Dependent {
	return []Dependent{{Table: string(KindUnit), Column: "unit_type_id", Label: "units"}}
}
