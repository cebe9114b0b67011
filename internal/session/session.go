package session

import (
	"sync"

	"github.com/amezhanov/storefront-backend/internal/cart"
	"github.com/amezhanov/storefront-backend/internal/catalog"
	"github.com/amezhanov/storefront-backend/internal/orders"
	"github.com/amezhanov/storefront-backend/pkg/enums"
	pkgerrors "github.com/amezhanov/storefront-backend/pkg/errors"
)

// Session composes one user's cart, order ledger and browsing cursor
// over the shared catalog. Every operation runs under the session mutex,
// so actions for one user never interleave; different users only share
// the catalog, which they read through immutable snapshots.
type Session struct {
	mu sync.Mutex

	userID  int64
	state   enums.SessionState
	cursor  int
	cart    *cart.Cart
	ledger  *orders.Ledger
	catalog *catalog.Catalog
}

func newSession(userID int64, cat *catalog.Catalog) *Session {
	return &Session{
		userID:  userID,
		state:   enums.SessionStateIdle,
		cart:    cart.New(),
		ledger:  orders.NewLedger(),
		catalog: cat,
	}
}

// UserID returns the owning user.
func (s *Session) UserID() int64 {
	return s.userID
}

// State returns the current navigation state.
func (s *Session) State() enums.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ViewProducts starts browsing at the first product. An empty catalog
// refuses the transition with a retryable unavailable error.
func (s *Session) ViewProducts() (ProductView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.catalog.Snapshot()
	if snap.Empty() {
		return ProductView{}, pkgerrors.New(pkgerrors.CodeCatalogUnavailable, "no products available")
	}

	s.state = enums.SessionStateBrowsing
	s.cursor = 0
	return s.currentView(snap), nil
}

// NextProduct advances the cursor. At the last product the cursor stays
// put; there is no wraparound.
func (s *Session) NextProduct() (ProductView, error) {
	return s.move(+1)
}

// PreviousProduct moves the cursor back, clamped at the first product.
func (s *Session) PreviousProduct() (ProductView, error) {
	return s.move(-1)
}

func (s *Session) move(delta int) (ProductView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.catalog.Snapshot()
	if snap.Empty() {
		return ProductView{}, pkgerrors.New(pkgerrors.CodeCatalogUnavailable, "no products available")
	}

	if s.state != enums.SessionStateBrowsing {
		// Navigation outside browsing behaves like "view products".
		s.state = enums.SessionStateBrowsing
		s.cursor = 0
		return s.currentView(snap), nil
	}

	s.cursor = clamp(s.cursor+delta, 0, snap.Size()-1)
	return s.currentView(snap), nil
}

// currentView clamps the cursor into the snapshot first; the catalog may
// have shrunk since the last navigation.
func (s *Session) currentView(snap catalog.Snapshot) ProductView {
	s.cursor = clamp(s.cursor, 0, snap.Size()-1)
	product, _ := snap.Get(s.cursor + 1)
	return newProductView(product, s.cursor+1, snap.Size())
}

// AddToCart adds one unit of the product at the given catalog index.
// The navigation state does not change. Retries strictly increase the
// quantity; the operation is safe to repeat but not idempotent.
func (s *Session) AddToCart(index int) (AddView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.catalog.Snapshot()
	if snap.Empty() {
		return AddView{}, pkgerrors.New(pkgerrors.CodeCatalogUnavailable, "no products available")
	}

	line, err := s.cart.Add(snap, index)
	if err != nil {
		return AddView{}, err
	}
	return AddView{
		Name:      line.Product.DisplayName,
		Quantity:  line.Quantity,
		CartLines: s.cart.Len(),
	}, nil
}

// ViewCart resolves the cart against the current catalog. Stale entries
// surface as an error; the state still moves to viewing the cart so the
// user can clear it.
func (s *Session) ViewCart() (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = enums.SessionStateViewingCart

	snap := s.catalog.Snapshot()
	lines, err := s.cart.Lines(snap)
	if err != nil {
		return CartView{}, err
	}
	return newCartView(lines), nil
}

// ClearCart drops every cart entry.
func (s *Session) ClearCart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = enums.SessionStateViewingCart
	s.cart.Clear()
	return CartView{Lines: []CartLineView{}}
}

// Checkout finalizes the cart into an order. Refusals (empty cart, stale
// references) leave both cart and ledger untouched.
func (s *Session) Checkout() (OrderView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.ledger.Checkout(s.cart, s.catalog.Snapshot())
	if err != nil {
		return OrderView{}, err
	}
	s.state = enums.SessionStateViewingCart
	return newOrderView(order), nil
}

// ViewOrders lists the most recent orders, oldest first. A non-positive
// limit uses the ledger default.
func (s *Session) ViewOrders(limit int) OrdersView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = enums.SessionStateViewingOrders

	history := s.ledger.History(limit)
	views := make([]OrderView, 0, len(history))
	for _, order := range history {
		views = append(views, newOrderView(order))
	}
	return OrdersView{Orders: views}
}

func newCartView(lines []cart.Line) CartView {
	view := CartView{Lines: make([]CartLineView, 0, len(lines))}
	for _, line := range lines {
		subtotal := line.Subtotal()
		view.Lines = append(view.Lines, CartLineView{
			Name:      line.Product.DisplayName,
			UnitPrice: line.Product.UnitPrice,
			Quantity:  line.Quantity,
			Subtotal:  subtotal,
		})
		view.Total += subtotal
	}
	return view
}

func clamp(value, low, high int) int {
	if high < low {
		return low
	}
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
