package woocommerce

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Parse reads a WooCommerce product export and returns one ParsedProduct per
// data row, in input order. It fails only on tokenizer-level CSV errors;
// semantically invalid rows come back with IsValid=false and populated
// Errors/Warnings instead.
func Parse(r io.Reader) ([]*ParsedProduct, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	// Exports saved from Excel carry a BOM on the first header
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV rows: %w", err)
	}

	products := make([]*ParsedProduct, 0, len(rows))
	for _, row := range rows {
		raw, err := decodeRow(headers, row)
		if err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		// Blank/footer rows carry neither an ID nor a Type
		if raw.ID == "" && raw.Type == "" {
			continue
		}
		products = append(products, parseRow(raw))
	}
	return products, nil
}

// decodeRow maps a positional CSV record to a RawRow via the header names.
func decodeRow(headers []string, row []string) (*RawRow, error) {
	m := make(map[string]interface{}, len(headers))
	for i, h := range headers {
		if i < len(row) {
			m[h] = strings.TrimSpace(row[i])
		}
	}
	var raw RawRow
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &raw,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(m); err != nil {
		return nil, err
	}
	return &raw, nil
}

// parseRow derives the normalized record and accumulates row-level findings.
func parseRow(raw *RawRow) *ParsedProduct {
	p := &ParsedProduct{
		WooID:            raw.ID,
		Type:             raw.Type,
		Name:             raw.Name,
		Description:      raw.Description,
		ShortDescription: raw.ShortDescription,
		SKU:              raw.SKU,
		Published:        raw.Published == "1",
		Featured:         raw.IsFeatured == "1",
		Categories:       splitList(raw.Categories, ',', '>'),
		Tags:             splitList(raw.Tags, ','),
		Images:           splitList(raw.Images, ','),
		ParentID:         strings.TrimPrefix(raw.Parent, "id:"),
		IsValid:          true,
	}

	regular := parseMoney(raw.RegularPrice)
	sale := parseMoney(raw.SalePrice)
	price := regular
	if sale > 0 {
		price = sale
	}
	p.Price = toCents(price)
	if sale > 0 && sale < regular {
		compareAt := toCents(regular)
		p.CompareAtPrice = &compareAt
	}

	// Inventory: presence of the Stock field decides tracking; visibility
	// gates the quantity.
	p.TrackInventory = raw.Stock != ""
	qty := 0
	if raw.Stock != "" {
		n, err := strconv.Atoi(raw.Stock)
		if err != nil {
			p.AddWarning("Invalid stock quantity, defaulting to 0")
		} else {
			qty = n
		}
	}
	if raw.InStock != "1" {
		qty = 0
	}
	p.InventoryQty = qty

	if grams := parseMoney(raw.WeightGrams); grams > 0 {
		kg := grams / 1000
		p.Weight = &kg
	}

	// Attribute pairs contribute only when both name and value are non-empty.
	var values []string
	for _, pair := range raw.attributePairs() {
		name, value := pair[0], pair[1]
		if name == "" || value == "" {
			continue
		}
		if p.Attributes == nil {
			p.Attributes = make(map[string]string, 4)
		}
		p.Attributes[name] = value
		values = append(values, value)
	}
	if p.Type == TypeVariation && len(values) > 0 {
		p.VariantName = strings.Join(values, " / ")
	}

	if p.Name == "" {
		p.AddError("Product name is required")
	}
	// Variable rows carry a placeholder price; real pricing comes from the
	// variation rows.
	if p.Price <= 0 && p.Type != TypeVariable {
		p.AddError("Price must be greater than 0")
	}
	if len(p.Images) == 0 && p.Type == TypeSimple {
		p.AddWarning("No images found")
	}

	return p
}

// toCents converts a decimal price to integer cents, rounding half away
// from zero.
func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

func parseMoney(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// splitList splits on any of the given separators, trims each token and
// drops empties. WooCommerce category paths use ">" inside comma-separated
// lists; both act as separators here.
func splitList(s string, seps ...rune) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool {
		for _, sep := range seps {
			if r == sep {
				return true
			}
		}
		return false
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
