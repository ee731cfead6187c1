package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrOrderLineImmutable is returned by the OrderLine update hook
var ErrOrderLineImmutable = errors.New("order line is immutable once persisted")

// OrderStatus values are stored with their original labels
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Beklemede"
	OrderStatusProcessing OrderStatus = "Hazırlanıyor"
	OrderStatusShipped    OrderStatus = "Yola Çıktı"
	OrderStatusDelivered  OrderStatus = "Teslim Edildi"
	OrderStatusCancelled  OrderStatus = "İptal Edildi"
)

var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:  nil,
	OrderStatusCancelled:  nil,
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s
func (s OrderStatus) IsTerminal() bool {
	return s.IsValid() && len(orderStatusTransitions[s]) == 0
}

// CanTransitionTo reports whether next directly follows s
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is a firm's purchase. Totals are computed once at creation from the
// frozen line prices and never recomputed.
// Table: siparisler
type Order struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UUID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uk_siparisler_uuid" json:"uuid"`
	FirmID     uint            `gorm:"column:firma_id;not null;index:idx_siparisler_firma_id" json:"firm_id"`
	Firm       *Firm           `gorm:"foreignKey:FirmID;references:ID" json:"firm,omitempty"`
	Channel    SalesChannel    `gorm:"column:musteri_tipi;size:20;not null" json:"channel"`
	OrderDate  time.Time       `gorm:"column:siparis_tarihi;type:date;not null;index:idx_siparisler_siparis_tarihi" json:"order_date"`
	Status     OrderStatus     `gorm:"column:durum;size:32;not null;default:'Beklemede';index:idx_siparisler_durum" json:"status"`
	NetTotal   decimal.Decimal `gorm:"column:toplam_tutar_net;type:numeric(14,2);not null" json:"net_total"`
	VATRate    decimal.Decimal `gorm:"column:kdv_orani;type:numeric(5,2);not null" json:"vat_rate"`
	VATTotal   decimal.Decimal `gorm:"column:kdv_tutari;type:numeric(14,2);not null" json:"vat_total"`
	GrossTotal decimal.Decimal `gorm:"column:toplam_tutar_brut;type:numeric(14,2);not null" json:"gross_total"`
	Notes      *string         `gorm:"column:notlar;type:text" json:"notes,omitempty"`
	QuoteID    *string         `gorm:"column:teklif_id;size:64;uniqueIndex:uk_siparisler_teklif_id" json:"quote_id,omitempty"`
	Lines      []OrderLine     `gorm:"foreignKey:OrderID;references:ID" json:"lines,omitempty"`
	CreatedAt  time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_siparisler_created_at" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Order) TableName() string {
	return "siparisler"
}

// BeforeCreate ensures UUID is set for Order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.UUID == uuid.Nil {
		o.UUID = uuid.New()
	}
	return nil
}

// PriceSource records where a line's unit price came from
type PriceSource string

const (
	PriceSourceOverride PriceSource = "override"
	PriceSourceComputed PriceSource = "computed"
)

func (s PriceSource) IsValid() bool {
	return s == PriceSourceOverride || s == PriceSourceComputed
}

// OrderLine is owned by its Order. UnitPrice is the price at that moment
// (o_anki_satis_fiyati) and is a historical fact.
// Table: siparis_detay
type OrderLine struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"column:siparis_id;not null;index:idx_siparis_detay_siparis_id" json:"order_id"`
	ProductID     uint            `gorm:"column:urun_id;not null;index:idx_siparis_detay_urun_id" json:"product_id"`
	Quantity      int             `gorm:"column:miktar;not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"column:o_anki_satis_fiyati;type:numeric(12,2);not null" json:"unit_price"`
	LineTotal     decimal.Decimal `gorm:"column:toplam_fiyat;type:numeric(14,2);not null" json:"line_total"`
	PriceSource   PriceSource     `gorm:"column:fiyat_kaynagi;size:16;not null" json:"price_source"`
	AppliedRuleID *uint           `gorm:"column:uygulanan_kural_id" json:"applied_rule_id,omitempty"`
	CreatedAt     time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (OrderLine) TableName() string {
	return "siparis_detay"
}

// BeforeUpdate refuses any update of a persisted line
func (l *OrderLine) BeforeUpdate(tx *gorm.DB) error {
	return ErrOrderLineImmutable
}

type OrderFilter struct {
	ID            *uint        `json:"id,omitempty"`
	UUID          *uuid.UUID   `json:"uuid,omitempty"`
	FirmID        *uint        `json:"firm_id,omitempty"`
	Status        *OrderStatus `json:"status,omitempty"`
	QuoteID       *string      `json:"quote_id,omitempty"`
	CreatedAfter  *time.Time   `json:"created_after,omitempty"`
	CreatedBefore *time.Time   `json:"created_before,omitempty"`
}
