package session

import (
	"sync"
	"testing"
)

func TestStoreReturnsSameSessionPerUser(t *testing.T) {
	store := NewStore(testCatalog(100))

	a := store.Session(7)
	b := store.Session(7)
	if a != b {
		t.Fatalf("expected the same session for one user")
	}
	if store.Session(8) == a {
		t.Fatalf("expected distinct sessions for distinct users")
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", store.Len())
	}
}

func TestStoreSessionsAreIndependent(t *testing.T) {
	cat := testCatalog(100, 200)
	store := NewStore(cat)

	first := store.Session(1)
	second := store.Session(2)

	first.ViewProducts()
	first.AddToCart(1)
	first.AddToCart(2)

	view, err := second.ViewCart()
	if err != nil {
		t.Fatalf("view cart failed: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("sessions must not share carts, got %d lines", len(view.Lines))
	}

	if _, err := first.Checkout(); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if len(second.ViewOrders(0).Orders) != 0 {
		t.Fatalf("sessions must not share ledgers")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore(testCatalog(100))

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		userID := int64(i % 3)
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := store.Session(userID)
			s.ViewProducts()
			s.AddToCart(1)
		}()
	}
	wg.Wait()

	if store.Len() != 3 {
		t.Fatalf("expected 3 sessions, got %d", store.Len())
	}
}
