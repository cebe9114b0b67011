package session

import (
	"sync"
	"testing"

	"github.com/amezhanov/storefront-backend/internal/catalog"
	"github.com/amezhanov/storefront-backend/pkg/enums"
	pkgerrors "github.com/amezhanov/storefront-backend/pkg/errors"
)

func testCatalog(prices ...int64) *catalog.Catalog {
	cat := catalog.New()
	products := make([]catalog.Product, 0, len(prices))
	for i := range prices {
		products = append(products, catalog.Product{
			DisplayName:  "Product",
			UnitPrice:    prices[i],
			Description:  "desc",
			AvailableQty: 10,
		})
	}
	cat.Replace(products)
	return cat
}

func TestViewProductsStartsBrowsingAtFirst(t *testing.T) {
	cat := testCatalog(100, 200, 300)
	s := newSession(1, cat)

	view, err := s.ViewProducts()
	if err != nil {
		t.Fatalf("view products failed: %v", err)
	}
	if view.Position != 1 || view.Of != 3 {
		t.Fatalf("expected position 1 of 3, got %d of %d", view.Position, view.Of)
	}
	if s.State() != enums.SessionStateBrowsing {
		t.Fatalf("expected browsing state, got %s", s.State())
	}
}

func TestViewProductsOnEmptyCatalogIsUnavailable(t *testing.T) {
	s := newSession(1, catalog.New())

	if _, err := s.ViewProducts(); !pkgerrors.Is(err, pkgerrors.CodeCatalogUnavailable) {
		t.Fatalf("expected CATALOG_UNAVAILABLE, got %v", err)
	}
	if s.State() != enums.SessionStateIdle {
		t.Fatalf("refused transition must keep state, got %s", s.State())
	}

	meta := pkgerrors.MetadataFor(pkgerrors.CodeCatalogUnavailable)
	if !meta.Retryable {
		t.Fatalf("unavailable catalog must surface a retry affordance")
	}
}

func TestCursorClampsAtBothEnds(t *testing.T) {
	cat := testCatalog(100, 200)
	s := newSession(1, cat)
	s.ViewProducts()

	view, err := s.PreviousProduct()
	if err != nil {
		t.Fatalf("previous failed: %v", err)
	}
	if view.Position != 1 {
		t.Fatalf("previous at first product must stay put, got %d", view.Position)
	}

	s.NextProduct()
	view, _ = s.NextProduct()
	if view.Position != 2 {
		t.Fatalf("next at last product must stay put, got %d", view.Position)
	}
	view, _ = s.NextProduct()
	if view.Position != 2 {
		t.Fatalf("no wraparound expected, got %d", view.Position)
	}
}

func TestNavigationOutsideBrowsingRestartsAtFirst(t *testing.T) {
	cat := testCatalog(100, 200)
	s := newSession(1, cat)

	view, err := s.NextProduct()
	if err != nil {
		t.Fatalf("next from idle failed: %v", err)
	}
	if view.Position != 1 {
		t.Fatalf("expected to enter browsing at first product, got %d", view.Position)
	}
	if s.State() != enums.SessionStateBrowsing {
		t.Fatalf("expected browsing state, got %s", s.State())
	}
}

func TestCursorClampsWhenCatalogShrinks(t *testing.T) {
	cat := testCatalog(100, 200, 300)
	s := newSession(1, cat)
	s.ViewProducts()
	s.NextProduct()
	s.NextProduct() // cursor at position 3

	cat.Replace([]catalog.Product{{DisplayName: "Only", UnitPrice: 1}})

	view, err := s.NextProduct()
	if err != nil {
		t.Fatalf("next after shrink failed: %v", err)
	}
	if view.Position != 1 || view.Of != 1 {
		t.Fatalf("cursor must clamp into the new generation, got %d of %d", view.Position, view.Of)
	}
}

func TestAddToCartKeepsStateAndAccumulates(t *testing.T) {
	cat := testCatalog(100)
	s := newSession(1, cat)
	s.ViewProducts()

	add, err := s.AddToCart(1)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if add.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", add.Quantity)
	}
	if s.State() != enums.SessionStateBrowsing {
		t.Fatalf("add must not change state, got %s", s.State())
	}

	add, _ = s.AddToCart(1)
	if add.Quantity != 2 {
		t.Fatalf("repeated add must accumulate, got %d", add.Quantity)
	}

	if _, err := s.AddToCart(99); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for unknown index, got %v", err)
	}
}

func TestCheckoutFlow(t *testing.T) {
	cat := testCatalog(100, 250)
	s := newSession(1, cat)
	s.ViewProducts()
	s.AddToCart(1)
	s.AddToCart(1)
	s.AddToCart(2)

	cartView, err := s.ViewCart()
	if err != nil {
		t.Fatalf("view cart failed: %v", err)
	}
	if cartView.Total != 450 {
		t.Fatalf("expected cart total 450, got %d", cartView.Total)
	}
	if cartView.UnitCount() != 3 {
		t.Fatalf("expected 3 units, got %d", cartView.UnitCount())
	}
	if s.State() != enums.SessionStateViewingCart {
		t.Fatalf("expected viewing cart state, got %s", s.State())
	}

	order, err := s.Checkout()
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if order.Total != 450 || order.ID != 1 {
		t.Fatalf("unexpected order %+v", order)
	}

	if _, err := s.Checkout(); !pkgerrors.Is(err, pkgerrors.CodeEmptyCart) {
		t.Fatalf("expected EMPTY_CART on second checkout, got %v", err)
	}
	if s.State() != enums.SessionStateViewingCart {
		t.Fatalf("refused checkout must not change state, got %s", s.State())
	}

	ordersView := s.ViewOrders(0)
	if len(ordersView.Orders) != 1 || ordersView.Orders[0].ID != 1 {
		t.Fatalf("unexpected order history %+v", ordersView.Orders)
	}
	if s.State() != enums.SessionStateViewingOrders {
		t.Fatalf("expected viewing orders state, got %s", s.State())
	}
}

func TestViewCartSurfacesStaleReferences(t *testing.T) {
	cat := testCatalog(100)
	s := newSession(1, cat)
	s.ViewProducts()
	s.AddToCart(1)

	cat.Replace([]catalog.Product{{DisplayName: "Other", UnitPrice: 1}})

	if _, err := s.ViewCart(); !pkgerrors.Is(err, pkgerrors.CodeStaleReference) {
		t.Fatalf("expected STALE_REFERENCE, got %v", err)
	}

	// Clearing recovers the session.
	s.ClearCart()
	view, err := s.ViewCart()
	if err != nil {
		t.Fatalf("view cart after clear failed: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(view.Lines))
	}
}

func TestConcurrentAddsSerialize(t *testing.T) {
	cat := testCatalog(100)
	s := newSession(1, cat)
	s.ViewProducts()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.AddToCart(1); err != nil {
				t.Errorf("add failed: %v", err)
			}
		}()
	}
	wg.Wait()

	view, err := s.ViewCart()
	if err != nil {
		t.Fatalf("view cart failed: %v", err)
	}
	if view.UnitCount() != 20 {
		t.Fatalf("expected 20 units after 20 adds, got %d", view.UnitCount())
	}
}
