package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"

	catalogEntity "storefront.GO/model/entity/catalog"
)

var (
	indexerInstance *Indexer
	indexerOnce     sync.Once
)

// GetIndexer returns the singleton Indexer.
func GetIndexer() *Indexer {
	indexerOnce.Do(func() {
		indexerInstance = NewIndexer()
	})
	return indexerInstance
}

// Indexer pushes imported products into Elasticsearch for storefront search.
// When ELASTICSEARCH_HOST is unset the client stays nil and every call is a
// no-op; imports never depend on search being up.
type Indexer struct {
	client *elasticsearch.Client
	prefix string
}

func NewIndexer() *Indexer {
	prefix := os.Getenv("ELASTICSEARCH_INDEX_PREFIX")
	if prefix == "" {
		prefix = "storefront"
	}
	host := os.Getenv("ELASTICSEARCH_HOST")
	if host == "" || os.Getenv("IMPORT_SEARCH_INDEX") == "off" {
		return &Indexer{prefix: prefix}
	}

	cfg := elasticsearch.Config{
		Addresses: []string{host},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return &Indexer{prefix: prefix}
	}
	return &Indexer{client: client, prefix: prefix}
}

func (ix *Indexer) Enabled() bool {
	return ix.client != nil
}

// indexDoc is the search document shape, flat for simple matching.
type indexDoc struct {
	ID           uint     `json:"id"`
	BusinessID   uint     `json:"business_id"`
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description,omitempty"`
	SKU          string   `json:"sku,omitempty"`
	Price        int64    `json:"price"`
	Published    bool     `json:"published"`
	VariantNames []string `json:"variant_names,omitempty"`
}

// IndexProducts bulk-indexes products into <prefix>_catalog_product_<businessID>.
func (ix *Indexer) IndexProducts(ctx context.Context, businessID uint, products []catalogEntity.Product) error {
	if ix.client == nil || len(products) == 0 {
		return nil
	}
	index := fmt.Sprintf("%s_catalog_product_%d", ix.prefix, businessID)

	var buf bytes.Buffer
	for _, p := range products {
		doc := indexDoc{
			ID:          p.ID,
			BusinessID:  p.BusinessID,
			Name:        p.Name,
			Slug:        p.Slug,
			Description: p.Description,
			Price:       p.Price,
			Published:   p.Published,
		}
		if p.SKU != nil {
			doc.SKU = *p.SKU
		}
		for _, v := range p.Variants {
			doc.VariantNames = append(doc.VariantNames, v.Name)
		}

		meta := fmt.Sprintf(`{"index":{"_index":%q,"_id":"%d"}}`, index, p.ID)
		buf.WriteString(meta)
		buf.WriteByte('\n')
		body, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal product %d: %w", p.ID, err)
		}
		buf.Write(body)
		buf.WriteByte('\n')
	}

	res, err := ix.client.Bulk(bytes.NewReader(buf.Bytes()),
		ix.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("bulk index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("bulk index: %s", res.String())
	}
	return nil
}
