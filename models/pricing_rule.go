package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RuleScope is how broadly a pricing rule applies
type RuleScope string

const (
	RuleScopeGlobal   RuleScope = "global"
	RuleScopeCategory RuleScope = "category"
	RuleScopeProduct  RuleScope = "product"
)

func (s RuleScope) IsValid() bool {
	switch s {
	case RuleScopeGlobal, RuleScopeCategory, RuleScopeProduct:
		return true
	}
	return false
}

// PricingRule is a scoped, signed percentage adjustment on the list price.
// Rules are never updated in place; admins delete and recreate them.
// Lower Priority wins. Start/End dates are inclusive; nil is unbounded.
// Table: fiyat_kurallari
type PricingRule struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UUID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uk_fiyat_kurallari_uuid" json:"uuid"`
	Name        string          `gorm:"column:kural_adi;size:255;not null" json:"name"`
	Scope       RuleScope       `gorm:"column:kapsam;size:20;not null" json:"scope"`
	CategoryID  *uint           `gorm:"column:kategori_id;index:idx_fiyat_kurallari_kategori_id" json:"category_id,omitempty"`
	ProductID   *uint           `gorm:"column:urun_id;index:idx_fiyat_kurallari_urun_id" json:"product_id,omitempty"`
	Channel     SalesChannel    `gorm:"column:musteri_tipi;size:20;not null;index:idx_fiyat_kurallari_musteri_tipi" json:"channel"`
	FirmID      *uint           `gorm:"column:firma_id;index:idx_fiyat_kurallari_firma_id" json:"firm_id,omitempty"`
	MinQuantity int             `gorm:"column:min_adet;not null;default:0" json:"min_quantity"`
	Percentage  decimal.Decimal `gorm:"column:yuzde_degisim;type:numeric(6,2);not null" json:"percentage"`
	Priority    int             `gorm:"column:oncelik;not null;default:0" json:"priority"`
	StartDate   *time.Time      `gorm:"column:baslangic_tarihi;type:date" json:"start_date,omitempty"`
	EndDate     *time.Time      `gorm:"column:bitis_tarihi;type:date" json:"end_date,omitempty"`
	CreatedAt   time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_fiyat_kurallari_created_at" json:"created_at"`
}

func (PricingRule) TableName() string {
	return "fiyat_kurallari"
}

// BeforeCreate ensures UUID is set for PricingRule
func (r *PricingRule) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	return nil
}

// ScopeConsistent reports whether exactly the target the scope demands is set:
// global has neither, category has only CategoryID, product has only ProductID.
func (r *PricingRule) ScopeConsistent() bool {
	switch r.Scope {
	case RuleScopeGlobal:
		return r.CategoryID == nil && r.ProductID == nil
	case RuleScopeCategory:
		return r.CategoryID != nil && r.ProductID == nil
	case RuleScopeProduct:
		return r.ProductID != nil && r.CategoryID == nil
	}
	return false
}

// PricingRuleFilter narrows the candidate set loaded for matching.
// ProductID/CategoryID select rules whose scope could target them.
type PricingRuleFilter struct {
	ID         *uint         `json:"id,omitempty"`
	UUID       *uuid.UUID    `json:"uuid,omitempty"`
	Channel    *SalesChannel `json:"channel,omitempty"`
	Scope      *RuleScope    `json:"scope,omitempty"`
	FirmID     *uint         `json:"firm_id,omitempty"`
	ProductID  *uint         `json:"product_id,omitempty"`
	CategoryID *uint         `json:"category_id,omitempty"`
}
