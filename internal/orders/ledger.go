package orders

import (
	"time"

	"github.com/amezhanov/storefront-backend/internal/cart"
	"github.com/amezhanov/storefront-backend/internal/catalog"
	"github.com/amezhanov/storefront-backend/pkg/enums"
	pkgerrors "github.com/amezhanov/storefront-backend/pkg/errors"
)

// DefaultHistoryLimit caps how many past orders a history view shows
// when the caller does not ask for a specific count.
const DefaultHistoryLimit = 5

// LineItem is a value snapshot of one cart line at checkout time.
// Mutating the cart or replacing the catalog afterwards cannot touch it.
type LineItem struct {
	Product  catalog.Product
	Quantity int
	Subtotal int64
}

// Order is an immutable finalized purchase.
type Order struct {
	ID        int
	LineItems []LineItem
	Total     int64
	Status    enums.OrderStatus
	CreatedAt time.Time
}

// ItemCount returns the total number of units across line items.
func (o Order) ItemCount() int {
	count := 0
	for _, item := range o.LineItems {
		count += item.Quantity
	}
	return count
}

// Ledger is one user's append-only order history. Orders get sequential
// IDs starting at 1 and live for the process lifetime only. Not safe for
// concurrent use; the owning session serializes access.
type Ledger struct {
	orders []Order
	now    func() time.Time
}

func NewLedger() *Ledger {
	return &Ledger{now: time.Now}
}

// NewLedgerWithClock injects the timestamp source, for tests.
func NewLedgerWithClock(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{now: now}
}

// Checkout converts the cart's current contents into an immutable Order
// and clears the cart. Snapshot and clear are one step from the caller's
// point of view: on any error the cart is untouched and no order exists.
func (l *Ledger) Checkout(c *cart.Cart, snap catalog.Snapshot) (Order, error) {
	if c.IsEmpty() {
		return Order{}, pkgerrors.New(pkgerrors.CodeEmptyCart, "nothing to check out")
	}

	lines, err := c.Lines(snap)
	if err != nil {
		return Order{}, err
	}

	items := make([]LineItem, 0, len(lines))
	var total int64
	for _, line := range lines {
		subtotal := line.Subtotal()
		items = append(items, LineItem{
			Product:  line.Product,
			Quantity: line.Quantity,
			Subtotal: subtotal,
		})
		total += subtotal
	}

	order := Order{
		ID:        len(l.orders) + 1,
		LineItems: items,
		Total:     total,
		Status:    enums.OrderStatusProcessing,
		CreatedAt: l.now(),
	}
	l.orders = append(l.orders, order)
	c.Clear()

	return order, nil
}

// History returns the most recent orders in chronological append order.
// A non-positive limit falls back to DefaultHistoryLimit.
func (l *Ledger) History(limit int) []Order {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	start := len(l.orders) - limit
	if start < 0 {
		start = 0
	}
	history := make([]Order, len(l.orders)-start)
	copy(history, l.orders[start:])
	return history
}

// Len returns how many orders the ledger holds.
func (l *Ledger) Len() int {
	return len(l.orders)
}
