package catalog

import "time"

// Product represents the product table. One row per simple product and one
// per variable-product family (variations live in product_variant).
type Product struct {
	ID               uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	BusinessID       uint      `gorm:"column:business_id;index:idx_product_business;not null" json:"business_id"`
	Name             string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Slug             string    `gorm:"column:slug;type:varchar(255);not null;index:idx_product_slug" json:"slug"`
	Description      string    `gorm:"column:description;type:text" json:"description,omitempty"`
	ShortDescription string    `gorm:"column:short_description;type:text" json:"short_description,omitempty"`
	SKU              *string   `gorm:"column:sku;type:varchar(64);index:idx_product_sku" json:"sku,omitempty"`
	Price            int64     `gorm:"column:price;not null;default:0" json:"price"`
	CompareAtPrice   *int64    `gorm:"column:compare_at_price" json:"compare_at_price,omitempty"`
	TrackInventory   bool      `gorm:"column:track_inventory;not null;default:false" json:"track_inventory"`
	InventoryQty     int       `gorm:"column:inventory_qty;not null;default:0" json:"inventory_qty"`
	Published        bool      `gorm:"column:published;not null;default:false" json:"published"`
	Featured         bool      `gorm:"column:featured;not null;default:false" json:"featured"`
	Weight           *float64  `gorm:"column:weight;type:decimal(12,4)" json:"weight,omitempty"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
	Images   []ProductImage   `gorm:"foreignKey:ProductID" json:"images,omitempty"`
}

func (Product) TableName() string {
	return "product"
}
