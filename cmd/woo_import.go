package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"storefront.GO/config"
	mediaService "storefront.GO/service/media"
	wooService "storefront.GO/service/woocommerce"
)

var (
	wooFile        string
	wooBusiness    uint
	wooOnDuplicate string
	wooImages      bool
	wooThumbs      bool
	wooNoColls     bool
	wooDryRun      bool
)

var wooImportCmd = &cobra.Command{
	Use:   "woo:import",
	Short: "Import products from a WooCommerce CSV export",
	Run: func(cmd *cobra.Command, args []string) {
		start := time.Now()

		f, err := os.Open(wooFile)
		if err != nil {
			fmt.Printf("Failed to open CSV: %v\n", err)
			return
		}
		defer f.Close()

		products, err := wooService.Parse(f)
		if err != nil {
			fmt.Printf("Parse failed: %v\n", err)
			return
		}

		config.LoadAppConfig()
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}

		res, err := wooService.Validate(db, wooBusiness, products)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			return
		}

		for _, p := range res.Invalid {
			for _, e := range p.Errors {
				fmt.Printf("  [error] %s: %s\n", p.Name, e)
			}
		}
		for _, p := range res.Valid {
			for _, w := range p.Warnings {
				fmt.Printf("  [warn] %s: %s\n", p.Name, w)
			}
		}

		if wooDryRun {
			fmt.Printf(`
=== Validation Report ===
CSV rows:       %d
Valid:          %d
Invalid:        %d
Images:         %d
Total time:     %s
=========================
`, res.Summary.Total, res.Summary.Valid, res.Summary.Invalid,
				res.Summary.TotalImages, time.Since(start).Round(time.Millisecond))
			return
		}

		if wooThumbs {
			wooImages = true
		}
		opts := wooService.ImportOptions{
			BusinessID:        wooBusiness,
			OnDuplicateSKU:    wooOnDuplicate,
			ImportImages:      wooImages,
			CreateCollections: !wooNoColls,
		}
		if wooThumbs {
			opts.Media = mediaService.NewOptimizer(config.AppConfig.MediaDir)
		}

		imp, err := wooService.ImportProducts(db, res.Valid, opts)
		if err != nil {
			fmt.Printf("Import failed: %v\n", err)
			return
		}

		for _, e := range imp.Errors {
			fmt.Printf("  [error] %s: %s\n", e.Product, e.Error)
		}

		fmt.Printf(`
=== Import Report ===
CSV rows:       %d
Valid:          %d
Invalid:        %d
Imported:       %d
Skipped:        %d
Errors:         %d
Total time:     %s
=====================
`, res.Summary.Total, res.Summary.Valid, res.Summary.Invalid,
			imp.Imported, imp.Skipped, len(imp.Errors),
			time.Since(start).Round(time.Millisecond))
	},
}

func init() {
	wooImportCmd.Flags().StringVarP(&wooFile, "file", "f", "", "CSV file path (required)")
	wooImportCmd.MarkFlagRequired("file")
	wooImportCmd.Flags().UintVarP(&wooBusiness, "business", "b", 0, "Business ID to import into (required)")
	wooImportCmd.MarkFlagRequired("business")
	wooImportCmd.Flags().StringVar(&wooOnDuplicate, "on-duplicate-sku", "skip", "What to do with SKUs already in the store: skip, update or create_new")
	wooImportCmd.Flags().BoolVar(&wooImages, "images", false, "Import image URLs")
	wooImportCmd.Flags().BoolVar(&wooThumbs, "thumbs", false, "Also fetch images and generate local webp thumbnails (implies --images)")
	wooImportCmd.Flags().BoolVar(&wooNoColls, "no-collections", false, "Do not create collections from WooCommerce categories")
	wooImportCmd.Flags().BoolVar(&wooDryRun, "dry-run", false, "Parse and validate only, import nothing")
	rootCmd.AddCommand(wooImportCmd)
}
