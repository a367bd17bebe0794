package models

// Unit represents a rentable space inside a property
type Unit struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PropertyID uint      `gorm:"not null;index" json:"property_id" label:"Property ID" validate:"required"`
	Property   *Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:RESTRICT" json:"-" validate:"-"`
	UnitTypeID uint      `gorm:"not null;index" json:"unit_type_id" label:"Unit Type ID" validate:"required"`
	UnitType   *UnitType `gorm:"foreignKey:UnitTypeID;constraint:OnDelete:RESTRICT" json:"-" validate:"-"`
	UnitNumber string    `gorm:"not null" json:"unit_number" label:"Unit Number" validate:"required"`
	IsVacant   bool      `json:"is_vacant" label:"Vacant"`
	Notes      string    `gorm:"type:text" json:"notes" label:"Notes"`
}

func (Unit) TableName() string { return string(KindUnit) }

func (*Unit) Kind() Kind      { return KindUnit }
func (u *Unit) GetID() uint   { return u.ID }
func (u *Unit) SetID(id uint) { u.ID = id }

// ApplyDefaults marks a new unit vacant.
func (u *Unit) ApplyDefaults() { u.IsVacant = true }
