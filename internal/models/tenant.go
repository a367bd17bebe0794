package models

import "time"

// EmergencyRelationships are the accepted emergency contact relationships.
var EmergencyRelationships = []string{"Spouse", "Parent", "Sibling", "Child", "Friend", "Other"}

// Tenant represents a person renting a unit
type Tenant struct {
	ID                           uint       `gorm:"primaryKey" json:"id"`
	FirstName                    string     `gorm:"not null" json:"first_name" label:"First Name" validate:"required"`
	MiddleName                   string     `json:"middle_name" label:"Middle Name"`
	LastName                     string     `gorm:"not null" json:"last_name" label:"Last Name" validate:"required"`
	Phone                        string     `gorm:"not null" json:"phone" label:"Phone" validate:"required"`
	Cell                         string     `json:"cell" label:"Cell"`
	Email                        string     `gorm:"not null" json:"email" label:"Email" validate:"required"`
	DateOfBirth                  *time.Time `gorm:"type:date;not null" json:"date_of_birth" label:"Date of Birth" validate:"required,pastdate"`
	EmergencyContactName         string     `json:"emergency_contact_name" label:"Emergency Contact Name"`
	EmergencyContactPhone        string     `json:"emergency_contact_phone" label:"Emergency Contact Phone"`
	EmergencyContactRelationship string     `json:"emergency_contact_relationship" label:"Emergency Contact Relationship" validate:"omitempty,oneof=Spouse Parent Sibling Child Friend Other"`
	Notes                        string     `gorm:"type:text" json:"notes" label:"Notes"`
}

func (Tenant) TableName() string { return string(KindTenant) }

func (*Tenant) Kind() Kind      { return KindTenant }
func (t *Tenant) GetID() uint   { return t.ID }
func (t *Tenant) SetID(id uint) { t.ID = id }

// FullName is the label used when picking a tenant.
func (t *Tenant) FullName() string { return t.FirstName + " " + t.LastName }

func (*Tenant) Dependents() []Dependent {
	return []Dependent{
		{Table: string(KindPet), Column: "tenant_id", Label: "pets"},
		{Table: string(KindVehicle), Column: "tenant_id", Label: "vehicles"},
	}
}
