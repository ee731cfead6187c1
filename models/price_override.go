package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerPriceOverride is a fixed net unit price for one (product, firm, channel).
// While valid it replaces every computed price for that line.
// Table: musteri_ozel_fiyatlar
type CustomerPriceOverride struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uk_musteri_ozel_fiyatlar_uuid" json:"uuid"`
	ProductID uint            `gorm:"column:urun_id;not null;index:idx_musteri_ozel_fiyatlar_lookup,priority:1" json:"product_id"`
	FirmID    uint            `gorm:"column:firma_id;not null;index:idx_musteri_ozel_fiyatlar_lookup,priority:2" json:"firm_id"`
	Channel   SalesChannel    `gorm:"column:musteri_tipi;size:20;not null;index:idx_musteri_ozel_fiyatlar_lookup,priority:3" json:"channel"`
	NetPrice  decimal.Decimal `gorm:"column:ozel_net_fiyat;type:numeric(12,2);not null" json:"net_price"`
	StartDate *time.Time      `gorm:"column:baslangic_tarihi;type:date" json:"start_date,omitempty"`
	EndDate   *time.Time      `gorm:"column:bitis_tarihi;type:date" json:"end_date,omitempty"`
	CreatedAt time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_musteri_ozel_fiyatlar_created_at" json:"created_at"`
}

func (CustomerPriceOverride) TableName() string {
	return "musteri_ozel_fiyatlar"
}

// BeforeCreate ensures UUID is set for CustomerPriceOverride
func (o *CustomerPriceOverride) BeforeCreate(tx *gorm.DB) error {
	if o.UUID == uuid.Nil {
		o.UUID = uuid.New()
	}
	return nil
}

type CustomerPriceOverrideFilter struct {
	ID        *uint         `json:"id,omitempty"`
	UUID      *uuid.UUID    `json:"uuid,omitempty"`
	ProductID *uint         `json:"product_id,omitempty"`
	FirmID    *uint         `json:"firm_id,omitempty"`
	Channel   *SalesChannel `json:"channel,omitempty"`
}
