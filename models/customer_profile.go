package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerProfile is a named discount tier ("VIP", "Toptan") assignable to a firm.
// GeneralDiscountPercent is signed: negative is a discount, positive a surcharge.
type CustomerProfile struct {
	ID                     uint            `gorm:"primaryKey" json:"id"`
	Name                   string          `gorm:"column:profil_adi;size:255;not null;uniqueIndex:uk_musteri_profilleri_profil_adi" json:"name"`
	GeneralDiscountPercent decimal.Decimal `gorm:"column:genel_indirim_yuzdesi;type:numeric(6,2);not null;default:0" json:"general_discount_percent"`
	Description            *string         `gorm:"column:aciklama;type:text" json:"description,omitempty"`
	CreatedAt              time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt              time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (CustomerProfile) TableName() string {
	return "musteri_profilleri"
}

type CustomerProfileFilter struct {
	ID   *uint   `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
}
