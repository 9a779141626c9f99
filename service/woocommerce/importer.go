package woocommerce

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	catalogEntity "storefront.GO/model/entity/catalog"
	catalogRepo "storefront.GO/model/repository/catalog"
)

type importOutcome int

const (
	outcomeCreated importOutcome = iota
	outcomeUpdated
	outcomeSkipped
)

// ImportProducts executes the create/update/skip decisions for the given
// records. Callers pass only the valid subset of a validation run; IsValid is
// not re-checked here.
//
// One product's failure is recorded in the result and does not stop the
// remaining products. Within a single product, the whole create path (base
// row, images, variants, collection links) runs in one transaction, so a
// partial family is never persisted.
func ImportProducts(db *gorm.DB, products []*ParsedProduct, opts ImportOptions) (*ImportResult, error) {
	if opts.OnDuplicateSKU == "" {
		opts.OnDuplicateSKU = DuplicateSkip
	}
	result := &ImportResult{Errors: []ImportError{}}

	var simples, variables, variations []*ParsedProduct
	for _, p := range products {
		switch p.Type {
		case TypeVariable:
			variables = append(variables, p)
		case TypeVariation:
			variations = append(variations, p)
		default:
			simples = append(simples, p)
		}
	}

	// Category -> collection id mapping, built once up front and threaded
	// through the per-product functions.
	collections := make(map[string]uint)
	if opts.CreateCollections {
		collections = upsertCollections(db, products, opts.BusinessID)
	}

	for _, p := range simples {
		outcome, err := importSimple(db, p, collections, opts)
		if err != nil {
			result.Errors = append(result.Errors, ImportError{Product: p.Name, Error: err.Error()})
			continue
		}
		if outcome == outcomeSkipped {
			result.Skipped++
		} else {
			result.Imported++
		}
	}

	for _, p := range variables {
		children := childVariations(p, variations)
		if err := importVariable(db, p, children, collections, opts); err != nil {
			result.Errors = append(result.Errors, ImportError{Product: p.Name, Error: err.Error()})
			continue
		}
		result.Imported++
	}

	return result, nil
}

// upsertCollections creates one Collection per distinct category name across
// all input products, regardless of type. A failed upsert loses only that
// category; the import goes on without it and its products simply are not
// associated.
func upsertCollections(db *gorm.DB, products []*ParsedProduct, businessID uint) map[string]uint {
	repo := catalogRepo.NewCatalogRepository(db)
	mapping := make(map[string]uint)
	for _, p := range products {
		for _, name := range p.Categories {
			if _, done := mapping[name]; done {
				continue
			}
			c, err := repo.UpsertCollection(businessID, name, Slugify(name))
			if err != nil {
				log.Printf("import: collection %q: %v", name, err)
				continue
			}
			mapping[name] = c.ID
		}
	}
	return mapping
}

func importSimple(db *gorm.DB, p *ParsedProduct, collections map[string]uint, opts ImportOptions) (importOutcome, error) {
	repo := catalogRepo.NewCatalogRepository(db)

	if p.SKU != "" {
		existing, err := repo.FindBySKU(opts.BusinessID, p.SKU)
		if err != nil {
			return 0, fmt.Errorf("lookup SKU %s: %w", p.SKU, err)
		}
		if existing != nil {
			switch opts.OnDuplicateSKU {
			case DuplicateSkip:
				return outcomeSkipped, nil
			case DuplicateUpdate:
				// Scalar fields only; images and collection links belong to
				// the create path.
				if err := repo.UpdateProductFields(existing.ID, productEntity(p, opts.BusinessID)); err != nil {
					return 0, fmt.Errorf("update %s: %w", p.Name, err)
				}
				return outcomeUpdated, nil
			}
			// create_new: fall through, two products end up sharing the SKU
		}
	}

	entity := productEntity(p, opts.BusinessID)
	err := db.Transaction(func(tx *gorm.DB) error {
		txRepo := catalogRepo.NewCatalogRepository(tx)
		if err := txRepo.CreateProduct(entity); err != nil {
			return err
		}
		if opts.ImportImages {
			if err := addImages(txRepo, entity.ID, p.Images, opts); err != nil {
				return err
			}
		}
		return linkCategories(txRepo, entity.ID, p.Categories, collections)
	})
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", p.Name, err)
	}
	return outcomeCreated, nil
}

// importVariable creates a variable-product family: the base product, the
// variable row's own images, one variant per variation and the collection
// links, all in one transaction.
//
// TODO: variable products get no duplicate-SKU pre-check, unlike the
// simple-product path; align the two once the dashboard exposes a duplicate
// policy for families.
func importVariable(db *gorm.DB, p *ParsedProduct, variations []*ParsedProduct, collections map[string]uint, opts ImportOptions) error {
	base := productEntity(p, opts.BusinessID)
	base.InventoryQty = 0 // stock lives on the variants
	base.TrackInventory = len(variations) > 0
	if len(variations) > 0 {
		// Roll the family pricing up from the variations; the variable row's
		// own price is a placeholder used only when it has no children.
		base.Price = variations[0].Price
		var compareAt *int64
		for _, v := range variations {
			if v.Price < base.Price {
				base.Price = v.Price
			}
			if v.CompareAtPrice != nil && (compareAt == nil || *v.CompareAtPrice < *compareAt) {
				compareAt = v.CompareAtPrice
			}
		}
		base.CompareAtPrice = compareAt
	}

	return db.Transaction(func(tx *gorm.DB) error {
		repo := catalogRepo.NewCatalogRepository(tx)
		if err := repo.CreateProduct(base); err != nil {
			return err
		}
		if opts.ImportImages {
			if err := addImages(repo, base.ID, p.Images, opts); err != nil {
				return err
			}
		}
		for _, v := range variations {
			if err := repo.CreateVariant(variantEntity(base.ID, v)); err != nil {
				return fmt.Errorf("variant %s: %w", v.VariantName, err)
			}
		}
		return linkCategories(repo, base.ID, p.Categories, collections)
	})
}

// childVariations returns the variation rows linked to a variable product by
// the source system's row id. The link is only meaningful within one run.
func childVariations(parent *ParsedProduct, variations []*ParsedProduct) []*ParsedProduct {
	var out []*ParsedProduct
	for _, v := range variations {
		if v.ParentID != "" && v.ParentID == parent.WooID {
			out = append(out, v)
		}
	}
	return out
}

func addImages(repo *catalogRepo.CatalogRepository, productID uint, urls []string, opts ImportOptions) error {
	if len(urls) == 0 {
		return nil
	}
	rows := make([]catalogEntity.ProductImage, 0, len(urls))
	for i, url := range urls {
		img := catalogEntity.ProductImage{ProductID: productID, URL: url, SortOrder: i}
		if opts.Media != nil {
			thumb, err := opts.Media.FetchThumb(url, fmt.Sprintf("%d-%d", productID, i))
			if err != nil {
				log.Printf("import: thumbnail %s: %v", url, err)
			} else {
				img.ThumbPath = &thumb
			}
		}
		rows = append(rows, img)
	}
	return repo.AddImages(rows)
}

// linkCategories associates a product with the collections its categories
// resolved to. Categories with no resolved collection (creation disabled or
// failed) are silently dropped.
func linkCategories(repo *catalogRepo.CatalogRepository, productID uint, categories []string, collections map[string]uint) error {
	var links []catalogEntity.CollectionProduct
	for _, name := range categories {
		if id, ok := collections[name]; ok {
			links = append(links, catalogEntity.CollectionProduct{CollectionID: id, ProductID: productID})
		}
	}
	return repo.LinkProducts(links)
}

func productEntity(p *ParsedProduct, businessID uint) *catalogEntity.Product {
	return &catalogEntity.Product{
		BusinessID:       businessID,
		Name:             p.Name,
		Slug:             Slugify(p.Name),
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		SKU:              strPtr(p.SKU),
		Price:            p.Price,
		CompareAtPrice:   p.CompareAtPrice,
		TrackInventory:   p.TrackInventory,
		InventoryQty:     p.InventoryQty,
		Published:        p.Published,
		Featured:         p.Featured,
		Weight:           p.Weight,
	}
}

func variantEntity(productID uint, v *ParsedProduct) *catalogEntity.ProductVariant {
	variant := &catalogEntity.ProductVariant{
		ProductID:      productID,
		Name:           variantName(v),
		SKU:            strPtr(v.SKU),
		Price:          v.Price,
		CompareAtPrice: v.CompareAtPrice,
		InventoryQty:   v.InventoryQty,
	}
	if len(v.Images) > 0 {
		variant.ImageURL = strPtr(v.Images[0])
	}
	if len(v.Attributes) > 0 {
		options := make(datatypes.JSONMap, len(v.Attributes))
		for k, val := range v.Attributes {
			options[k] = val
		}
		variant.Options = options
	}
	return variant
}

// variantName falls back to the joined attribute values when the parser did
// not derive one.
func variantName(v *ParsedProduct) string {
	if v.VariantName != "" {
		return v.VariantName
	}
	keys := make([]string, 0, len(v.Attributes))
	for k := range v.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, v.Attributes[k])
	}
	return strings.Join(values, " / ")
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
