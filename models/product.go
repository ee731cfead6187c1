package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item with one list price per sales channel.
// Table: urunler
type Product struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	CategoryID uint          `gorm:"column:kategori_id;not null;index:idx_urunler_kategori_id" json:"category_id"`
	Category   *Category     `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	Name       LocalizedText `gorm:"column:ad;type:jsonb;serializer:json;not null" json:"name"`
	StockCode  *string       `gorm:"column:stok_kodu;size:64;uniqueIndex:uk_urunler_stok_kodu" json:"stock_code,omitempty"`

	// DistributorPurchasePrice is what the distributor pays; never used as a selling price
	DistributorPurchasePrice decimal.NullDecimal `gorm:"column:distributor_alis_fiyati;type:numeric(12,2)" json:"distributor_purchase_price"`
	SubDealerPrice           decimal.NullDecimal `gorm:"column:satis_fiyati_alt_bayi;type:numeric(12,2)" json:"sub_dealer_price"`
	CustomerPrice            decimal.NullDecimal `gorm:"column:satis_fiyati_musteri;type:numeric(12,2)" json:"customer_price"`

	IsActive  *bool     `gorm:"column:aktif;default:true;index:idx_urunler_aktif" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Product) TableName() string {
	return "urunler"
}

// ListPrice returns the base price column for the channel. Valid is false when the column is NULL.
func (p *Product) ListPrice(channel SalesChannel) decimal.NullDecimal {
	switch channel {
	case ChannelCustomer:
		return p.CustomerPrice
	case ChannelSubDealer:
		return p.SubDealerPrice
	default:
		return decimal.NullDecimal{}
	}
}

func (p *Product) Active() bool {
	return p.IsActive != nil && *p.IsActive
}

type ProductFilter struct {
	ID         *uint   `json:"id,omitempty"`
	IDs        []uint  `json:"ids,omitempty"`
	CategoryID *uint   `json:"category_id,omitempty"`
	StockCode  *string `json:"stock_code,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}
