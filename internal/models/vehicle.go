package models

// Vehicle represents a car registered to a tenant
type Vehicle struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	TenantID     uint    `gorm:"not null;index" json:"tenant_id" validate:"required"`
	Tenant       *Tenant `gorm:"foreignKey:TenantID;constraint:OnDelete:RESTRICT" json:"-" validate:"-"`
	Make         string  `gorm:"not null" json:"make" label:"Make" validate:"required"`
	Model        string  `gorm:"not null" json:"model" label:"Model" validate:"required"`
	Year         int     `gorm:"not null" json:"year" label:"Year" validate:"required,min=1900,notfutureyear"`
	Color        string  `gorm:"not null" json:"color" label:"Color" validate:"required"`
	LicensePlate string  `gorm:"not null" json:"license_plate" label:"License Plate" validate:"required"`
	Notes        string  `gorm:"type:text" json:"notes" label:"Notes"`
}

func (Vehicle) TableName() string { return string(KindVehicle) }

func (*Vehicle) Kind() Kind      { return KindVehicle }
func (v *Vehicle) GetID() uint   { return v.ID }
func (v *Vehicle) SetID(id uint) { v.ID = id }
