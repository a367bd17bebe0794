package models

// Species are the accepted pet species.
var Species = []string{"Dog", "Cat", "Bird", "Fish", "Reptile", "Other"}

// Pet represents an animal owned by a tenant
type Pet struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	TenantID uint     `gorm:"not null;index" json:"tenant_id" validate:"required"`
	Tenant   *Tenant  `gorm:"foreignKey:TenantID;constraint:OnDelete:RESTRICT" json:"-" validate:"-"`
	Name     string   `gorm:"not null" json:"name" label:"Name" validate:"required"`
	Species  string   `gorm:"not null" json:"species" label:"Species" validate:"required,oneof=Dog Cat Bird Fish Reptile Other"`
	Breed    string   `gorm:"not null" json:"breed" label:"Breed" validate:"required"`
	Age      *int     `gorm:"not null" json:"age" label:"Age" validate:"required,min=0,max=100"`
	Weight   *float64 `gorm:"not null" json:"weight" label:"Weight" validate:"required,min=0,max=300"`
	Notes    string   `gorm:"type:text" json:"notes" label:"Notes"`
}

func (Pet) TableName() string { return string(KindPet) }

func (*Pet) Kind() Kind      { return KindPet }
func (p *Pet) GetID() uint   { return p.ID }
func (p *Pet) SetID(id uint) { p.ID = id }
