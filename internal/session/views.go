package session

import (
	"time"

	"github.com/amezhanov/storefront-backend/internal/catalog"
	"github.com/amezhanov/storefront-backend/internal/orders"
)

// The view records are render-agnostic: the transport layer decides how
// to format them (chat message, JSON, whatever).

// ProductView describes the product under the browsing cursor.
type ProductView struct {
	Name         string
	UnitPrice    int64
	Description  string
	AvailableQty int
	CatalogIndex int
	Position     int // 1-based position in the catalog
	Of           int // catalog size
}

func newProductView(p catalog.Product, position, size int) ProductView {
	return ProductView{
		Name:         p.DisplayName,
		UnitPrice:    p.UnitPrice,
		Description:  p.Description,
		AvailableQty: p.AvailableQty,
		CatalogIndex: p.CatalogIndex,
		Position:     position,
		Of:           size,
	}
}

// CartLineView is one resolved cart line.
type CartLineView struct {
	Name      string
	UnitPrice int64
	Quantity  int
	Subtotal  int64
}

// CartView is the full cart with its total.
type CartView struct {
	Lines []CartLineView
	Total int64
}

// UnitCount returns the number of units across all lines.
func (v CartView) UnitCount() int {
	count := 0
	for _, line := range v.Lines {
		count += line.Quantity
	}
	return count
}

// AddView confirms an add-to-cart action.
type AddView struct {
	Name      string
	Quantity  int
	CartLines int
}

// OrderView summarizes one finalized order.
type OrderView struct {
	ID        int
	Total     int64
	ItemCount int
	Status    string
	CreatedAt time.Time
}

func newOrderView(o orders.Order) OrderView {
	return OrderView{
		ID:        o.ID,
		Total:     o.Total,
		ItemCount: o.ItemCount(),
		Status:    o.Status.String(),
		CreatedAt: o.CreatedAt,
	}
}

// OrdersView lists recent orders in chronological append order.
type OrdersView struct {
	Orders []OrderView
}
