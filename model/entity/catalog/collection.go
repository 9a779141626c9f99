package catalog

import "time"

// Collection represents the collection table. Upserted by (business_id, slug)
// during imports that create collections from WooCommerce categories.
type Collection struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	BusinessID uint      `gorm:"column:business_id;uniqueIndex:idx_collection_business_slug;not null" json:"business_id"`
	Name       string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Slug       string    `gorm:"column:slug;type:varchar(255);uniqueIndex:idx_collection_business_slug;not null" json:"slug"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Collection) TableName() string {
	return "collection"
}

// CollectionProduct represents the collection_product join table. The
// composite primary key makes re-adding an existing pair a conflict, which
// the repository inserts with DoNothing (skip-duplicates semantics).
type CollectionProduct struct {
	CollectionID uint `gorm:"column:collection_id;primaryKey" json:"collection_id"`
	ProductID    uint `gorm:"column:product_id;primaryKey" json:"product_id"`
}

func (CollectionProduct) TableName() string {
	return "collection_product"
}
