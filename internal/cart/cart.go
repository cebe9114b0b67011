package cart

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/amezhanov/storefront-backend/internal/catalog"
	pkgerrors "github.com/amezhanov/storefront-backend/pkg/errors"
)

// entry is one cart position. It remembers the catalog generation it was
// added under; resolving it against any other generation is a stale
// reference, even if the index still exists there.
type entry struct {
	index int
	genID uuid.UUID
	qty   int
}

// Cart holds one user's pending purchase. It is not safe for concurrent
// use; the owning session serializes access.
type Cart struct {
	entries []entry
}

func New() *Cart {
	return &Cart{}
}

// Line is a cart entry resolved against a catalog snapshot.
type Line struct {
	Product  catalog.Product
	Quantity int
}

// Subtotal is the line's contribution to the cart total.
func (l Line) Subtotal() int64 {
	return l.Product.UnitPrice * int64(l.Quantity)
}

// Add increments the quantity for the given catalog index by one,
// creating the entry at quantity 1 if absent. The index must resolve in
// the provided snapshot. Repeated adds strictly increase the quantity.
func (c *Cart) Add(snap catalog.Snapshot, index int) (Line, error) {
	product, ok := snap.Get(index)
	if !ok {
		return Line{}, pkgerrors.New(pkgerrors.CodeNotFound,
			fmt.Sprintf("product %d is not in the current catalog", index))
	}

	for i := range c.entries {
		if c.entries[i].index == index && c.entries[i].genID == snap.GenerationID {
			c.entries[i].qty++
			return Line{Product: product, Quantity: c.entries[i].qty}, nil
		}
	}

	c.entries = append(c.entries, entry{index: index, genID: snap.GenerationID, qty: 1})
	return Line{Product: product, Quantity: 1}, nil
}

// Clear removes every entry.
func (c *Cart) Clear() {
	c.entries = nil
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.entries)
}

// IsEmpty reports whether the cart has no entries.
func (c *Cart) IsEmpty() bool {
	return len(c.entries) == 0
}

// Lines resolves every entry against the snapshot, in insertion order.
// Any entry from another generation makes the whole resolution a stale
// reference; nothing is silently dropped or repriced.
func (c *Cart) Lines(snap catalog.Snapshot) ([]Line, error) {
	var stale []int
	lines := make([]Line, 0, len(c.entries))
	for _, e := range c.entries {
		if e.genID != snap.GenerationID {
			stale = append(stale, e.index)
			continue
		}
		product, ok := snap.Get(e.index)
		if !ok {
			stale = append(stale, e.index)
			continue
		}
		lines = append(lines, Line{Product: product, Quantity: e.qty})
	}
	if len(stale) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStaleReference,
			"cart references products from a previous catalog").
			WithDetails(map[string]any{"stale_indices": stale})
	}
	return lines, nil
}

// Total sums unit price times quantity over all lines, failing on any
// stale reference.
func (c *Cart) Total(snap catalog.Snapshot) (int64, error) {
	lines, err := c.Lines(snap)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, line := range lines {
		total += line.Subtotal()
	}
	return total, nil
}
