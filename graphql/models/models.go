package models

import (
	gql "github.com/graph-gophers/graphql-go"
)

// Product is the GraphQL shape of a catalog product. Prices are integer cents.
type Product struct {
	ID               gql.ID
	Name             string
	Slug             string
	Description      *string
	ShortDescription *string
	SKU              *string
	Price            int32
	CompareAtPrice   *int32
	TrackInventory   bool
	InventoryQty     int32
	Published        bool
	Featured         bool
	Weight           *float64
	Variants         []*Variant
	Images           []*Image
}

type Variant struct {
	ID             gql.ID
	Name           string
	SKU            *string
	Price          int32
	CompareAtPrice *int32
	InventoryQty   int32
	ImageURL       *string
}

type Image struct {
	URL       string
	SortOrder int32
	ThumbPath *string
}

type Collection struct {
	ID   gql.ID
	Name string
	Slug string
}
