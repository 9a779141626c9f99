package woocommerce

// Product types as they appear in a WooCommerce export.
const (
	TypeSimple    = "simple"
	TypeVariable  = "variable"
	TypeVariation = "variation"
)

// Duplicate-SKU policies for an import run.
const (
	DuplicateSkip      = "skip"
	DuplicateUpdate    = "update"
	DuplicateCreateNew = "create_new"
)

// RawRow mirrors one record of a WooCommerce product export. Lookup is by
// header name, never by column position; the parser decodes the header-keyed
// row map into this struct with mapstructure.
type RawRow struct {
	ID               string `mapstructure:"ID"`
	Type             string `mapstructure:"Type"`
	SKU              string `mapstructure:"SKU"`
	Name             string `mapstructure:"Name"`
	Published        string `mapstructure:"Published"`
	IsFeatured       string `mapstructure:"Is featured?"`
	ShortDescription string `mapstructure:"Short description"`
	Description      string `mapstructure:"Description"`
	RegularPrice     string `mapstructure:"Regular price"`
	SalePrice        string `mapstructure:"Sale price"`
	Categories       string `mapstructure:"Categories"`
	Tags             string `mapstructure:"Tags"`
	InStock          string `mapstructure:"In stock?"`
	Stock            string `mapstructure:"Stock"`
	WeightGrams      string `mapstructure:"Weight (g)"`
	Images           string `mapstructure:"Images"`
	Parent           string `mapstructure:"Parent"`
	Attribute1Name   string `mapstructure:"Attribute 1 name"`
	Attribute1Value  string `mapstructure:"Attribute 1 value(s)"`
	Attribute2Name   string `mapstructure:"Attribute 2 name"`
	Attribute2Value  string `mapstructure:"Attribute 2 value(s)"`
	Attribute3Name   string `mapstructure:"Attribute 3 name"`
	Attribute3Value  string `mapstructure:"Attribute 3 value(s)"`
	Attribute4Name   string `mapstructure:"Attribute 4 name"`
	Attribute4Value  string `mapstructure:"Attribute 4 value(s)"`
}

// attributePairs returns the repeating attribute columns in column order.
func (r *RawRow) attributePairs() [][2]string {
	return [][2]string{
		{r.Attribute1Name, r.Attribute1Value},
		{r.Attribute2Name, r.Attribute2Value},
		{r.Attribute3Name, r.Attribute3Value},
		{r.Attribute4Name, r.Attribute4Value},
	}
}

// ParsedProduct is the normalized in-memory record derived from one RawRow.
// Records live only for the duration of one import session; they are never
// persisted as-is.
type ParsedProduct struct {
	WooID            string            `json:"woo_id"`
	Type             string            `json:"type"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	ShortDescription string            `json:"short_description"`
	SKU              string            `json:"sku"`
	Price            int64             `json:"price"` // cents
	CompareAtPrice   *int64            `json:"compare_at_price,omitempty"`
	TrackInventory   bool              `json:"track_inventory"`
	InventoryQty     int               `json:"inventory_qty"`
	Published        bool              `json:"published"`
	Featured         bool              `json:"featured"`
	Categories       []string          `json:"categories,omitempty"`
	Tags             []string          `json:"tags,omitempty"`
	Weight           *float64          `json:"weight,omitempty"` // kilograms
	Images           []string          `json:"images,omitempty"`
	ParentID         string            `json:"parent_id,omitempty"`
	VariantName      string            `json:"variant_name,omitempty"`
	Attributes       map[string]string `json:"attributes,omitempty"`

	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// AddError appends a validation error and clears the valid flag. The importer
// trusts IsValid without re-deriving it, so this is the only way errors are
// ever attached.
func (p *ParsedProduct) AddError(msg string) {
	p.Errors = append(p.Errors, msg)
	p.IsValid = false
}

// AddWarning appends an informational finding. Warnings never affect IsValid.
func (p *ParsedProduct) AddWarning(msg string) {
	p.Warnings = append(p.Warnings, msg)
}

// ValidationSummary tallies one validation pass.
type ValidationSummary struct {
	Total       int            `json:"total"`
	Valid       int            `json:"valid"`
	Invalid     int            `json:"invalid"`
	ByType      map[string]int `json:"by_type"`
	TotalImages int            `json:"total_images"`
}

// ValidationResult partitions the parsed records after validation.
type ValidationResult struct {
	Valid   []*ParsedProduct  `json:"valid"`
	Invalid []*ParsedProduct  `json:"invalid"`
	Summary ValidationSummary `json:"summary"`
}

// ImportOptions configures an import run.
type ImportOptions struct {
	BusinessID        uint   `json:"business_id"`
	OnDuplicateSKU    string `json:"on_duplicate_sku"` // skip | update | create_new
	ImportImages      bool   `json:"import_images"`
	CreateCollections bool   `json:"create_collections_from_categories"`

	// Media generates local webp thumbnails for imported images when set.
	// Failures are soft; the image row keeps its source URL either way.
	Media Thumbnailer `json:"-"`
}

// Thumbnailer fetches an image URL and stores an optimized thumbnail,
// returning the stored path. Implemented by service/media.
type Thumbnailer interface {
	FetchThumb(url, name string) (string, error)
}

// ImportError records a single product's failure.
type ImportError struct {
	Product string `json:"product"`
	Error   string `json:"error"`
}

// ImportResult holds counters from an import run.
type ImportResult struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}
