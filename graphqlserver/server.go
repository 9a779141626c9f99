package graphqlserver

import (
	"context"
	"encoding/json"
	"math"
	"strconv"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"gorm.io/gorm"

	"storefront.GO/graphql"
	gqlmodels "storefront.GO/graphql/models"
	gqlregistry "storefront.GO/graphql/registry"
	catalogEntity "storefront.GO/model/entity/catalog"
	catalogRepo "storefront.GO/model/repository/catalog"
)

// RootResolver is the root for graphql-go. All catalog queries are scoped by
// an explicit businessId argument rather than request headers.
type RootResolver struct {
	DB *gorm.DB
}

// Query returns the query resolver.
func (r *RootResolver) Query() *QueryResolver {
	return &QueryResolver{repo: catalogRepo.NewCatalogRepository(r.DB)}
}

// QueryResolver implements Query fields over the catalog repository.
type QueryResolver struct {
	repo *catalogRepo.CatalogRepository
}

// ProductsArgs matches the products query arguments (defaults in schema: pageSize=20, currentPage=1).
type ProductsArgs struct {
	BusinessID  gql.ID
	PageSize    int32
	CurrentPage int32
}

func (r *QueryResolver) Products(ctx context.Context, args ProductsArgs) ([]*gqlmodels.Product, error) {
	businessID, err := parseBusinessID(args.BusinessID)
	if err != nil {
		return nil, err
	}
	ps, cp := int(args.PageSize), int(args.CurrentPage)
	if ps <= 0 {
		ps = 20
	}
	if cp <= 0 {
		cp = 1
	}
	products, err := r.repo.ListProducts(businessID, ps, (cp-1)*ps)
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.Product, 0, len(products))
	for i := range products {
		out = append(out, mapProduct(&products[i]))
	}
	return out, nil
}

// ProductArgs matches the product query arguments.
type ProductArgs struct {
	BusinessID gql.ID
	SKU        *string
	Slug       *string
}

func (r *QueryResolver) Product(ctx context.Context, args ProductArgs) (*gqlmodels.Product, error) {
	businessID, err := parseBusinessID(args.BusinessID)
	if err != nil {
		return nil, err
	}
	var p *catalogEntity.Product
	switch {
	case args.SKU != nil && *args.SKU != "":
		p, err = r.repo.FindBySKU(businessID, *args.SKU)
		if err == nil && p != nil {
			// Reload with variants and images
			p, err = r.repo.FindProductByID(p.ID)
		}
	case args.Slug != nil && *args.Slug != "":
		p, err = r.repo.FindProductBySlug(businessID, *args.Slug)
	}
	if err != nil || p == nil {
		return nil, err
	}
	return mapProduct(p), nil
}

// CollectionsArgs matches the collections query arguments.
type CollectionsArgs struct {
	BusinessID gql.ID
}

func (r *QueryResolver) Collections(ctx context.Context, args CollectionsArgs) ([]*gqlmodels.Collection, error) {
	businessID, err := parseBusinessID(args.BusinessID)
	if err != nil {
		return nil, err
	}
	collections, err := r.repo.Collections(businessID)
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.Collection, 0, len(collections))
	for _, c := range collections {
		out = append(out, &gqlmodels.Collection{
			ID:   gql.ID(strconv.FormatUint(uint64(c.ID), 10)),
			Name: c.Name,
			Slug: c.Slug,
		})
	}
	return out, nil
}

// ExtensionArgs for _extension(name, args).
type ExtensionArgs struct {
	Name string
	Args *string
}

func (r *QueryResolver) Extension(ctx context.Context, args ExtensionArgs) (*string, error) {
	var m map[string]interface{}
	if args.Args != nil && *args.Args != "" {
		_ = json.Unmarshal([]byte(*args.Args), &m)
	}
	if m == nil {
		m = make(map[string]interface{})
	}
	out, err := gqlregistry.Resolve(ctx, args.Name, m)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func parseBusinessID(id gql.ID) (uint, error) {
	n, err := strconv.ParseUint(string(id), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}

// cents narrows a stored price to the schema's 32-bit Int. Values past the
// Int range saturate instead of wrapping negative.
func cents(v int64) int32 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}

func mapProduct(p *catalogEntity.Product) *gqlmodels.Product {
	out := &gqlmodels.Product{
		ID:             gql.ID(strconv.FormatUint(uint64(p.ID), 10)),
		Name:           p.Name,
		Slug:           p.Slug,
		SKU:            p.SKU,
		Price:          cents(p.Price),
		TrackInventory: p.TrackInventory,
		InventoryQty:   int32(p.InventoryQty),
		Published:      p.Published,
		Featured:       p.Featured,
		Weight:         p.Weight,
	}
	if p.Description != "" {
		out.Description = &p.Description
	}
	if p.ShortDescription != "" {
		out.ShortDescription = &p.ShortDescription
	}
	if p.CompareAtPrice != nil {
		v := cents(*p.CompareAtPrice)
		out.CompareAtPrice = &v
	}
	for i := range p.Variants {
		out.Variants = append(out.Variants, mapVariant(&p.Variants[i]))
	}
	for i := range p.Images {
		img := p.Images[i]
		out.Images = append(out.Images, &gqlmodels.Image{
			URL:       img.URL,
			SortOrder: int32(img.SortOrder),
			ThumbPath: img.ThumbPath,
		})
	}
	return out
}

func mapVariant(v *catalogEntity.ProductVariant) *gqlmodels.Variant {
	out := &gqlmodels.Variant{
		ID:           gql.ID(strconv.FormatUint(uint64(v.ID), 10)),
		Name:         v.Name,
		SKU:          v.SKU,
		Price:        cents(v.Price),
		InventoryQty: int32(v.InventoryQty),
		ImageURL:     v.ImageURL,
	}
	if v.CompareAtPrice != nil {
		c := cents(*v.CompareAtPrice)
		out.CompareAtPrice = &c
	}
	return out
}

// NewSchema parses the schema and returns a graphql-go Schema.
func NewSchema(db *gorm.DB) (*gql.Schema, error) {
	return gql.ParseSchema(graphql.Schema(), &RootResolver{DB: db}, gql.UseFieldResolvers())
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}
