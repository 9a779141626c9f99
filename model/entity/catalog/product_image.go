package catalog

// ProductImage represents the product_image table. SortOrder preserves the
// source column order from the import.
type ProductImage struct {
	ID        uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	ProductID uint    `gorm:"column:product_id;index:idx_image_product;not null" json:"product_id"`
	URL       string  `gorm:"column:url;type:varchar(2048);not null" json:"url"`
	SortOrder int     `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	ThumbPath *string `gorm:"column:thumb_path;type:varchar(512)" json:"thumb_path,omitempty"`
}

func (ProductImage) TableName() string {
	return "product_image"
}
