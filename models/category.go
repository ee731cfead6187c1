package models

import "time"

// Category groups products. Observed hierarchy is one level deep:
// a top category with subcategories pointing to it via ParentID.
type Category struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	ParentID  *uint         `gorm:"column:ust_kategori_id;index:idx_kategoriler_ust_kategori_id" json:"parent_id,omitempty"`
	Parent    *Category     `gorm:"foreignKey:ParentID;references:ID" json:"parent,omitempty"`
	Name      LocalizedText `gorm:"column:ad;type:jsonb;serializer:json;not null" json:"name"`
	Slug      string        `gorm:"size:255;not null;uniqueIndex:uk_kategoriler_slug" json:"slug"`
	CreatedAt time.Time     `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time     `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Category) TableName() string {
	return "kategoriler"
}

func (c *Category) IsTopLevel() bool {
	return c.ParentID == nil
}

type CategoryFilter struct {
	ID       *uint   `json:"id,omitempty"`
	ParentID *uint   `json:"parent_id,omitempty"`
	Slug     *string `json:"slug,omitempty"`
	TopLevel *bool   `json:"top_level,omitempty"`
}
