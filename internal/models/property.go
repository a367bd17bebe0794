package models

// Property represents a managed building or complex
type Property struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null" json:"name" label:"Property Name" validate:"required"`
	Address      string `gorm:"not null" json:"address" label:"Address" validate:"required"`
	City         string `gorm:"not null" json:"city" label:"City" validate:"required"`
	State        string `gorm:"not null" json:"state" label:"State" validate:"required"`
	PostalCode   string `gorm:"not null" json:"postal_code" label:"Postal Code" validate:"required"`
	Country      string `gorm:"not null" json:"country" label:"Country" validate:"required"`
	TotalUnits   int    `gorm:"not null" json:"total_units" label:"Total Units" validate:"required,min=1"`
	ManagerName  string `json:"manager_name" label:"Manager Name"`
	ManagerEmail string `json:"manager_email" label:"Manager Email"`
	ManagerPhone string `json:"manager_phone" label:"Manager Phone"`
	Notes        string `gorm:"type:text" json:"notes" label:"Notes"`
}

func (Property) TableName() string { return string(KindProperty) }

func (*Property) Kind() Kind      { return KindProperty }
func (p *Property) GetID() uint   { return p.ID }
func (p *Property) SetID(id uint) { p.ID = id }

func (*Property) Dependents() []Dependent {
	return []Dependent{{Table: string(KindUnit), Column: "property_id", Label: "units"}}
}
