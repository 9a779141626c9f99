package servicetest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	catalogEntity "storefront.GO/model/entity/catalog"
	wooService "storefront.GO/service/woocommerce"
)

func catalogDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&catalogEntity.Product{},
		&catalogEntity.ProductVariant{},
		&catalogEntity.ProductImage{},
		&catalogEntity.Collection{},
		&catalogEntity.CollectionProduct{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestImport_SimpleCreate(t *testing.T) {
	db := catalogDB(t)
	products := parseCSV(t,
		"ID,Type,SKU,Name,Published,Regular price,Categories,In stock?,Stock,Images\n"+
			"1,simple,TEE-1,Classic Tee,1,25.00,\"Clothing, Sale\",1,7,\"https://cdn/a.jpg, https://cdn/b.jpg\"\n")

	res, err := wooService.ImportProducts(db, products, wooService.ImportOptions{
		BusinessID:        1,
		ImportImages:      true,
		CreateCollections: true,
	})
	if err != nil {
		t.Fatalf("ImportProducts: %v", err)
	}
	if res.Imported != 1 || res.Skipped != 0 || len(res.Errors) != 0 {
		t.Fatalf("result = %+v, want 1 imported", res)
	}

	var p catalogEntity.Product
	if err := db.Preload("Images").First(&p).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if p.Slug != "classic-tee" || p.SKU == nil || *p.SKU != "TEE-1" {
		t.Errorf("product = {Slug:%s SKU:%v}", p.Slug, p.SKU)
	}
	if p.Price != 2500 || !p.TrackInventory || p.InventoryQty != 7 || !p.Published {
		t.Errorf("product = %+v", p)
	}
	if len(p.Images) != 2 || p.Images[0].SortOrder != 0 || p.Images[1].SortOrder != 1 {
		t.Errorf("images = %+v, want 2 ordered rows", p.Images)
	}

	var colls []catalogEntity.Collection
	db.Order("slug").Find(&colls)
	if len(colls) != 2 || colls[0].Slug != "clothing" || colls[1].Slug != "sale" {
		t.Fatalf("collections = %+v", colls)
	}
	var links int64
	db.Model(&catalogEntity.CollectionProduct{}).Where("product_id = ?", p.ID).Count(&links)
	if links != 2 {
		t.Errorf("links = %d, want 2", links)
	}
}

func TestImport_DuplicateSkip(t *testing.T) {
	db := catalogDB(t)
	sku := "TEE-1"
	if err := db.Create(&catalogEntity.Product{BusinessID: 1, Name: "Existing", Slug: "existing", SKU: &sku, Price: 100}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	products := parseCSV(t,
		"ID,Type,SKU,Name,Regular price\n"+
			"1,simple,TEE-1,Incoming,5.00\n")

	res, err := wooService.ImportProducts(db, products, wooService.ImportOptions{BusinessID: 1})
	if err != nil {
		t.Fatalf("ImportProducts: %v", err)
	}
	if res.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", res.Skipped)
	}
	if res.Imported != 0 {
		t.Errorf("Imported = %d, want 0 (skips are not imports)", res.Imported)
	}
	var count int64
	db.Model(&catalogEntity.Product{}).Count(&count)
	if count != 1 {
		t.Errorf("product count = %d, want 1", count)
	}
}

func TestImport_DuplicateUpdate_ImagesUntouched(t *testing.T) {
	db := catalogDB(t)
	sku := "TEE-1"
	existing := catalogEntity.Product{BusinessID: 1, Name: "Old name", Slug: "old-name", SKU: &sku, Price: 100}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := db.Create(&catalogEntity.ProductImage{ProductID: existing.ID, URL: "https://cdn/original.jpg"}).Error; err != nil {
		t.Fatalf("seed image: %v", err)
	}

	products := parseCSV(t,
		"ID,Type,SKU,Name,Regular price,Images\n"+
			"1,simple,TEE-1,New name,9.00,https://cdn/new.jpg\n")

	res, err := wooService.ImportProducts(db, products, wooService.ImportOptions{
		BusinessID:     1,
		OnDuplicateSKU: wooService.DuplicateUpdate,
		ImportImages:   true,
	})
	if err != nil {
		t.Fatalf("ImportProducts: %v", err)
	}
	if res.Imported != 1 {
		t.Errorf("Imported = %d, want 1", res.Imported)
	}

	var p catalogEntity.Product
	db.First(&p, existing.ID)
	if p.Name != "New name" || p.Price != 900 {
		t.Errorf("product = {Name:%s Price:%d}, want updated scalars", p.Name, p.Price)
	}
	// The update path only writes scalar fields; the image set stays as-is.
	var images []catalogEntity.ProductImage
	db.Where("product_id = ?", existing.ID).Find(&images)
	if len(images) != 1 || images[0].URL != "https://cdn/original.jpg" {
		t.Errorf("images = %+v, want the original row only", images)
	}
}

func TestImport_DuplicateCreateNew(t *testing.T) {
	db := catalogDB(t)
	sku := "TEE-1"
	if err := db.Create(&catalogEntity.Product{BusinessID: 1, Name: "Existing", Slug: "existing", SKU: &sku, Price: 100}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	products := parseCSV(t,
		"ID,Type,SKU,Name,Regular price\n"+
			"1,simple,TEE-1,Doppelganger,5.00\n")

	res, err := wooService.ImportProducts(db, products, wooService.ImportOptions{
		BusinessID:     1,
		OnDuplicateSKU: wooService.DuplicateCreateNew,
	})
	if err != nil {
		t.Fatalf("ImportProducts: %v", err)
	}
	if res.Imported != 1 || res.Skipped != 0 {
		t.Errorf("result = %+v, want 1 imported", res)
	}
	var count int64
	db.Model(&catalogEntity.Product{}).Where("sku = ?", sku).Count(&count)
	if count != 2 {
		t.Errorf("products sharing SKU = %d, want 2", count)
	}
}

func TestImport_VariableFamily(t *testing.T) {
	db := catalogDB(t)
	products := parseCSV(t,
		"ID,Type,SKU,Name,Regular price,Sale price,Categories,In stock?,Stock,Images,Parent,Attribute 1 name,Attribute 1 value(s)\n"+
			"10,variable,HOODIE,Zip Hoodie,0,,Clothing,1,,https://cdn/family.jpg,,Color,\"Red, Blue\"\n"+
			"11,variation,HOODIE-R,Zip Hoodie,15.00,,,1,4,https://cdn/red.jpg,id:10,Color,Red\n"+
			"12,variation,HOODIE-B,Zip Hoodie,20.00,12.50,,1,2,https://cdn/blue.jpg,id:10,Color,Blue\n")

	res, err := wooService.ImportProducts(db, products, wooService.ImportOptions{
		BusinessID:        1,
		ImportImages:      true,
		CreateCollections: true,
	})
	if err != nil {
		t.Fatalf("ImportProducts: %v", err)
	}
	if res.Imported != 1 || len(res.Errors) != 0 {
		t.Fatalf("result = %+v, want the family counted once", res)
	}

	var p catalogEntity.Product
	if err := db.Preload("Variants").Preload("Images").First(&p).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	// Family price is the cheapest variation, not the placeholder.
	if p.Price != 1250 {
		t.Errorf("Price = %d, want 1250", p.Price)
	}
	if p.CompareAtPrice == nil || *p.CompareAtPrice != 2000 {
		t.Errorf("CompareAtPrice = %v, want 2000", p.CompareAtPrice)
	}
	if !p.TrackInventory || p.InventoryQty != 0 {
		t.Errorf("inventory = {Track:%v Qty:%d}, want tracked with qty on variants", p.TrackInventory, p.InventoryQty)
	}
	if len(p.Images) != 1 || p.Images[0].URL != "https://cdn/family.jpg" {
		t.Errorf("images = %+v, want the variable row's own image", p.Images)
	}

	if len(p.Variants) != 2 {
		t.Fatalf("variants = %d, want 2", len(p.Variants))
	}
	byName := map[string]catalogEntity.ProductVariant{}
	for _, v := range p.Variants {
		byName[v.Name] = v
	}
	red, ok := byName["Red"]
	if !ok {
		t.Fatalf("variant names = %v, want Red", byName)
	}
	if red.Price != 1500 || red.InventoryQty != 4 {
		t.Errorf("red = {Price:%d Qty:%d}", red.Price, red.InventoryQty)
	}
	if red.ImageURL == nil || *red.ImageURL != "https://cdn/red.jpg" {
		t.Errorf("red.ImageURL = %v", red.ImageURL)
	}
	if red.Options["Color"] != "Red" {
		t.Errorf("red.Options = %v, want Color=Red", red.Options)
	}
	blue := byName["Blue"]
	if blue.Price != 1250 || blue.CompareAtPrice == nil || *blue.CompareAtPrice != 2000 {
		t.Errorf("blue = {Price:%d CompareAt:%v}", blue.Price, blue.CompareAtPrice)
	}
}

func TestImport_CollectionsReused(t *testing.T) {
	db := catalogDB(t)
	opts := wooService.ImportOptions{BusinessID: 1, CreateCollections: true}

	first := parseCSV(t, "ID,Type,Name,Regular price,Categories\n1,simple,One,5.00,Sale\n")
	if _, err := wooService.ImportProducts(db, first, opts); err != nil {
		t.Fatalf("first import: %v", err)
	}
	second := parseCSV(t, "ID,Type,Name,Regular price,Categories\n2,simple,Two,6.00,Sale\n")
	if _, err := wooService.ImportProducts(db, second, opts); err != nil {
		t.Fatalf("second import: %v", err)
	}

	var count int64
	db.Model(&catalogEntity.Collection{}).Count(&count)
	if count != 1 {
		t.Errorf("collection count = %d, want 1 (reused across imports)", count)
	}
	var links int64
	db.Model(&catalogEntity.CollectionProduct{}).Count(&links)
	if links != 2 {
		t.Errorf("links = %d, want 2", links)
	}
}

func TestImport_CollectionsDisabled(t *testing.T) {
	db := catalogDB(t)
	products := parseCSV(t, "ID,Type,Name,Regular price,Categories\n1,simple,One,5.00,Sale\n")

	if _, err := wooService.ImportProducts(db, products, wooService.ImportOptions{BusinessID: 1}); err != nil {
		t.Fatalf("ImportProducts: %v", err)
	}
	var count int64
	db.Model(&catalogEntity.Collection{}).Count(&count)
	if count != 0 {
		t.Errorf("collection count = %d, want 0", count)
	}
}

func TestImport_FailureIsolation(t *testing.T) {
	db := catalogDB(t)
	products := parseCSV(t,
		"ID,Type,SKU,Name,Regular price,Images\n"+
			"1,simple,TEE-A,Alpha,5.00,https://cdn/a.jpg\n"+
			"2,simple,TEE-B,Beta,6.00,\n")

	// Sabotage the image table so Alpha's transaction fails after the base
	// row insert. Beta carries no images and must still go through.
	if err := db.Migrator().DropTable(&catalogEntity.ProductImage{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	res, err := wooService.ImportProducts(db, products, wooService.ImportOptions{
		BusinessID:   1,
		ImportImages: true,
	})
	if err != nil {
		t.Fatalf("ImportProducts: %v", err)
	}
	if res.Imported != 1 {
		t.Errorf("Imported = %d, want processing to continue past the failure", res.Imported)
	}
	if len(res.Errors) != 1 || res.Errors[0].Product != "Alpha" {
		t.Fatalf("errors = %+v, want one entry for Alpha", res.Errors)
	}

	// Alpha's base row rolls back with its images; Beta survives.
	var orphans int64
	db.Model(&catalogEntity.Product{}).Where("name = ?", "Alpha").Count(&orphans)
	if orphans != 0 {
		t.Errorf("orphaned base rows = %d, want 0", orphans)
	}
	var survivors int64
	db.Model(&catalogEntity.Product{}).Where("name = ?", "Beta").Count(&survivors)
	if survivors != 1 {
		t.Errorf("surviving products = %d, want 1", survivors)
	}
}

func TestImport_FamilyRollback(t *testing.T) {
	db := catalogDB(t)
	products := parseCSV(t,
		"ID,Type,SKU,Name,Regular price,Parent,Attribute 1 name,Attribute 1 value(s)\n"+
			"10,variable,HOODIE,Zip Hoodie,0,,Color,Red\n"+
			"11,variation,HOODIE-R,Zip Hoodie,15.00,id:10,Color,Red\n")

	if err := db.Migrator().DropTable(&catalogEntity.ProductVariant{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	res, err := wooService.ImportProducts(db, products, wooService.ImportOptions{BusinessID: 1})
	if err != nil {
		t.Fatalf("ImportProducts: %v", err)
	}
	if res.Imported != 0 || len(res.Errors) != 1 || res.Errors[0].Product != "Zip Hoodie" {
		t.Fatalf("result = %+v, want only an error entry for the family", res)
	}

	// The base row must not outlive its failed variants.
	var count int64
	db.Model(&catalogEntity.Product{}).Count(&count)
	if count != 0 {
		t.Errorf("product rows = %d, want full family rollback", count)
	}
}
