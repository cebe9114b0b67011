package storefront

import (
	"time"

	"github.com/amezhanov/storefront-backend/internal/session"
)

type productResponse struct {
	Name         string `json:"name"`
	UnitPrice    int64  `json:"unit_price"`
	Description  string `json:"description"`
	AvailableQty int    `json:"available_qty"`
	CatalogIndex int    `json:"catalog_index"`
	Position     int    `json:"position"`
	Of           int    `json:"of"`
}

func newProductResponse(view session.ProductView) productResponse {
	return productResponse{
		Name:         view.Name,
		UnitPrice:    view.UnitPrice,
		Description:  view.Description,
		AvailableQty: view.AvailableQty,
		CatalogIndex: view.CatalogIndex,
		Position:     view.Position,
		Of:           view.Of,
	}
}

type addResponse struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	CartLines int    `json:"cart_lines"`
}

type cartLineResponse struct {
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

type cartResponse struct {
	Lines     []cartLineResponse `json:"lines"`
	Total     int64              `json:"total"`
	UnitCount int                `json:"unit_count"`
}

func newCartResponse(view session.CartView) cartResponse {
	resp := cartResponse{
		Lines:     make([]cartLineResponse, 0, len(view.Lines)),
		Total:     view.Total,
		UnitCount: view.UnitCount(),
	}
	for _, line := range view.Lines {
		resp.Lines = append(resp.Lines, cartLineResponse{
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal,
		})
	}
	return resp
}

type orderResponse struct {
	ID        int       `json:"id"`
	Total     int64     `json:"total"`
	ItemCount int       `json:"item_count"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func newOrderResponse(view session.OrderView) orderResponse {
	return orderResponse{
		ID:        view.ID,
		Total:     view.Total,
		ItemCount: view.ItemCount,
		Status:    view.Status,
		CreatedAt: view.CreatedAt,
	}
}

type ordersResponse struct {
	Orders []orderResponse `json:"orders"`
}

func newOrdersResponse(view session.OrdersView) ordersResponse {
	resp := ordersResponse{Orders: make([]orderResponse, 0, len(view.Orders))}
	for _, order := range view.Orders {
		resp.Orders = append(resp.Orders, newOrderResponse(order))
	}
	return resp
}
