package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Firm is a business customer: either a direct customer or a sub-dealer.
// A firm has at most one customer profile; assigning another replaces it.
// Table: firmalar
type Firm struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uk_firmalar_uuid" json:"uuid"`
	Name         string           `gorm:"column:unvan;size:255;not null" json:"name"`
	Type         SalesChannel     `gorm:"column:tipi;size:20;not null;index:idx_firmalar_tipi" json:"type"`
	ProfileID    *uint            `gorm:"column:musteri_profil_id;index:idx_firmalar_musteri_profil_id" json:"profile_id,omitempty"`
	Profile      *CustomerProfile `gorm:"foreignKey:ProfileID;references:ID" json:"profile,omitempty"`
	ParentFirmID *uint            `gorm:"column:ust_bayi_id;index:idx_firmalar_ust_bayi_id" json:"parent_firm_id,omitempty"`

	// CRM metadata, not used for pricing
	Email     *string `gorm:"column:eposta;size:255" json:"email,omitempty"`
	Phone     *string `gorm:"column:telefon;size:32" json:"phone,omitempty"`
	City      *string `gorm:"column:sehir;size:128" json:"city,omitempty"`
	TaxNumber *string `gorm:"column:vergi_no;size:32" json:"tax_number,omitempty"`

	IsActive  *bool     `gorm:"column:aktif;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Firm) TableName() string {
	return "firmalar"
}

// BeforeCreate ensures UUID is set for Firm
func (f *Firm) BeforeCreate(tx *gorm.DB) error {
	if f.UUID == uuid.Nil {
		f.UUID = uuid.New()
	}
	return nil
}

func (f *Firm) Active() bool {
	return f.IsActive != nil && *f.IsActive
}

type FirmFilter struct {
	ID        *uint         `json:"id,omitempty"`
	UUID      *uuid.UUID    `json:"uuid,omitempty"`
	Type      *SalesChannel `json:"type,omitempty"`
	ProfileID *uint         `json:"profile_id,omitempty"`
	IsActive  *bool         `json:"is_active,omitempty"`
}
