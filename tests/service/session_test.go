package servicetest

import (
	"context"
	"errors"
	"testing"

	wooService "storefront.GO/service/woocommerce"
)

func TestSessionStore_Roundtrip(t *testing.T) {
	store := wooService.NewMemorySessionStore()
	ctx := context.Background()

	sess := &wooService.ImportSession{
		BusinessID: 7,
		Products: []*wooService.ParsedProduct{
			{Name: "Classic Tee", SKU: "TEE-1", Price: 1999, IsValid: true},
		},
	}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("Save did not assign a session id")
	}

	got, err := store.Load(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.BusinessID != 7 || len(got.Products) != 1 || got.Products[0].SKU != "TEE-1" {
		t.Errorf("loaded = %+v", got)
	}

	store.Delete(ctx, sess.ID)
	if _, err := store.Load(ctx, sess.ID); !errors.Is(err, wooService.ErrSessionNotFound) {
		t.Errorf("after delete err = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStore_UnknownID(t *testing.T) {
	store := wooService.NewMemorySessionStore()
	if _, err := store.Load(context.Background(), "nope"); !errors.Is(err, wooService.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}
