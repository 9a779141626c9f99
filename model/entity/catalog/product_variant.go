package catalog

import (
	"gorm.io/datatypes"
)

// ProductVariant represents the product_variant table. One row per WooCommerce
// variation, owned by its parent Product. Options holds the raw attribute
// name→value mapping as opaque JSON, not normalized into option-type rows.
type ProductVariant struct {
	ID             uint              `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	ProductID      uint              `gorm:"column:product_id;index:idx_variant_product;not null" json:"product_id"`
	Name           string            `gorm:"column:name;type:varchar(255);not null" json:"name"`
	SKU            *string           `gorm:"column:sku;type:varchar(64);index:idx_variant_sku" json:"sku,omitempty"`
	Price          int64             `gorm:"column:price;not null;default:0" json:"price"`
	CompareAtPrice *int64            `gorm:"column:compare_at_price" json:"compare_at_price,omitempty"`
	InventoryQty   int               `gorm:"column:inventory_qty;not null;default:0" json:"inventory_qty"`
	ImageURL       *string           `gorm:"column:image_url;type:varchar(2048)" json:"image_url,omitempty"`
	Options        datatypes.JSONMap `gorm:"column:options" json:"options,omitempty"`
}

func (ProductVariant) TableName() string {
	return "product_variant"
}
