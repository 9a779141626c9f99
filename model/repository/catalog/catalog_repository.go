package catalog

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalogEntity "storefront.GO/model/entity/catalog"
)

const skuBatchSize = 500

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ExistingSKUs batch-queries which of the given SKUs already exist for a
// business and returns sku -> product id. Input is chunked so arbitrarily
// large imports stay within placeholder limits.
func (r *CatalogRepository) ExistingSKUs(businessID uint, skus []string) (map[string]uint, error) {
	type skuRow struct {
		ID  uint   `gorm:"column:id"`
		SKU string `gorm:"column:sku"`
	}
	m := make(map[string]uint, len(skus))
	for i := 0; i < len(skus); i += skuBatchSize {
		end := i + skuBatchSize
		if end > len(skus) {
			end = len(skus)
		}
		var chunk []skuRow
		err := r.db.Table("product").Select("id, sku").
			Where("business_id = ? AND sku IN ?", businessID, skus[i:end]).
			Find(&chunk).Error
		if err != nil {
			return nil, err
		}
		for _, e := range chunk {
			m[e.SKU] = e.ID
		}
	}
	return m, nil
}

// FindBySKU returns the product with the given SKU for a business, or nil
// when no such product exists.
func (r *CatalogRepository) FindBySKU(businessID uint, sku string) (*catalogEntity.Product, error) {
	var p catalogEntity.Product
	err := r.db.Where("business_id = ? AND sku = ?", businessID, sku).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepository) FindProductByID(id uint) (*catalogEntity.Product, error) {
	var p catalogEntity.Product
	err := r.db.Preload("Variants").Preload("Images").First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepository) FindProductBySlug(businessID uint, slug string) (*catalogEntity.Product, error) {
	var p catalogEntity.Product
	err := r.db.Preload("Variants").Preload("Images").
		Where("business_id = ? AND slug = ?", businessID, slug).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns a page of products for a business with variants and
// images preloaded.
func (r *CatalogRepository) ListProducts(businessID uint, limit, offset int) ([]catalogEntity.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	var products []catalogEntity.Product
	err := r.db.Preload("Variants").Preload("Images").
		Where("business_id = ?", businessID).
		Order("id").Limit(limit).Offset(offset).
		Find(&products).Error
	return products, err
}

// AllProducts returns every product for a business with variants preloaded
// (used by the search indexer after an import run).
func (r *CatalogRepository) AllProducts(businessID uint) ([]catalogEntity.Product, error) {
	var products []catalogEntity.Product
	err := r.db.Preload("Variants").Where("business_id = ?", businessID).Find(&products).Error
	return products, err
}

// CountProducts uses raw SQL for minimal overhead.
func (r *CatalogRepository) CountProducts(businessID uint) (int64, error) {
	var count int64
	err := r.db.Raw("SELECT COUNT(*) FROM product WHERE business_id = ?", businessID).Scan(&count).Error
	return count, err
}

func (r *CatalogRepository) CreateProduct(p *catalogEntity.Product) error {
	return r.db.Create(p).Error
}

// UpdateProductFields overwrites the scalar fields of an existing product.
// Images and collection links are deliberately untouched; only the create
// path attaches those.
func (r *CatalogRepository) UpdateProductFields(id uint, p *catalogEntity.Product) error {
	return r.db.Model(&catalogEntity.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":              p.Name,
		"description":       p.Description,
		"short_description": p.ShortDescription,
		"price":             p.Price,
		"compare_at_price":  p.CompareAtPrice,
		"track_inventory":   p.TrackInventory,
		"inventory_qty":     p.InventoryQty,
		"published":         p.Published,
		"featured":          p.Featured,
		"weight":            p.Weight,
	}).Error
}

func (r *CatalogRepository) AddImages(images []catalogEntity.ProductImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.Create(&images).Error
}

func (r *CatalogRepository) CreateVariant(v *catalogEntity.ProductVariant) error {
	return r.db.Create(v).Error
}

// UpsertCollection finds the collection keyed by (business_id, slug) or
// creates it. Re-running with the same slug yields the same row.
func (r *CatalogRepository) UpsertCollection(businessID uint, name, slug string) (*catalogEntity.Collection, error) {
	var c catalogEntity.Collection
	err := r.db.Where("business_id = ? AND slug = ?", businessID, slug).First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	c = catalogEntity.Collection{BusinessID: businessID, Name: name, Slug: slug}
	if err := r.db.Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// LinkProducts bulk-inserts collection_product join rows. Existing pairs are
// skipped, not errored.
func (r *CatalogRepository) LinkProducts(links []catalogEntity.CollectionProduct) error {
	if len(links) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

func (r *CatalogRepository) Collections(businessID uint) ([]catalogEntity.Collection, error) {
	var collections []catalogEntity.Collection
	err := r.db.Where("business_id = ?", businessID).Order("name").Find(&collections).Error
	return collections, err
}

// CollectionProductCount returns the number of join rows for a collection.
func (r *CatalogRepository) CollectionProductCount(collectionID uint) (int64, error) {
	var count int64
	err := r.db.Model(&catalogEntity.CollectionProduct{}).
		Where("collection_id = ?", collectionID).Count(&count).Error
	return count, err
}
