package woocommerce

import (
	"fmt"

	"gorm.io/gorm"

	catalogRepo "storefront.GO/model/repository/catalog"
)

// Validate checks parsed records against each other and against the store's
// existing catalog, mutating Errors/Warnings/IsValid in place, then
// partitions them. Read-only against the store.
//
// Duplicate SKUs inside the same upload are hard errors: two rows claiming
// one SKU is an unresolvable ambiguity. A SKU that already exists in the
// store is only a warning, because all three duplicate policies are valid
// business choices deferred to import time.
func Validate(db *gorm.DB, businessID uint, products []*ParsedProduct) (*ValidationResult, error) {
	// Intra-import duplicates: sku -> human-readable row number of the first
	// occurrence (+2: header row plus 1-indexing).
	firstSeen := make(map[string]int, len(products))
	for i, p := range products {
		if p.SKU == "" {
			continue
		}
		if row, dup := firstSeen[p.SKU]; dup {
			p.AddError(fmt.Sprintf("Duplicate SKU in import (row %d)", row))
			continue
		}
		firstSeen[p.SKU] = i + 2
	}

	// Cross-store duplicates: one batch query, never per-row.
	skus := make([]string, 0, len(firstSeen))
	for sku := range firstSeen {
		skus = append(skus, sku)
	}
	existing, err := catalogRepo.NewCatalogRepository(db).ExistingSKUs(businessID, skus)
	if err != nil {
		return nil, fmt.Errorf("lookup existing SKUs: %w", err)
	}
	for _, p := range products {
		if p.SKU == "" {
			continue
		}
		if _, ok := existing[p.SKU]; ok {
			p.AddWarning("SKU already exists in your store - will skip or update")
		}
	}

	result := &ValidationResult{
		Valid:   make([]*ParsedProduct, 0, len(products)),
		Invalid: make([]*ParsedProduct, 0),
		Summary: ValidationSummary{
			Total:  len(products),
			ByType: make(map[string]int),
		},
	}
	for _, p := range products {
		if p.IsValid {
			result.Valid = append(result.Valid, p)
		} else {
			result.Invalid = append(result.Invalid, p)
		}
		result.Summary.ByType[p.Type]++
		// Image tally covers invalid rows too; the operator sees the full
		// upload's media volume.
		result.Summary.TotalImages += len(p.Images)
	}
	result.Summary.Valid = len(result.Valid)
	result.Summary.Invalid = len(result.Invalid)
	return result, nil
}
