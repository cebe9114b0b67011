package catalog

import (
	"sync"

	"github.com/google/uuid"
)

// Product is one listing inside a catalog generation. Products are
// immutable once the generation is published; they are discarded
// wholesale on the next Replace, never patched individually.
type Product struct {
	CatalogIndex int
	ExternalID   string
	SKU          string
	DisplayName  string
	UnitPrice    int64
	Description  string
	AvailableQty int
}

// Catalog is the shared, atomically replaceable product collection.
// Readers always observe a single generation; a Replace swaps the whole
// generation under the write lock, so no mix of old and new products is
// ever visible.
type Catalog struct {
	mu  sync.RWMutex
	gen generation
}

type generation struct {
	id       uuid.UUID
	products []Product
}

func New() *Catalog {
	return &Catalog{}
}

// Replace publishes a new generation built from the given products.
// Catalog indices are assigned contiguously starting at 1, in input
// order. Returns the new generation ID.
func (c *Catalog) Replace(products []Product) uuid.UUID {
	gen := generation{
		id:       uuid.New(),
		products: make([]Product, len(products)),
	}
	for i, p := range products {
		p.CatalogIndex = i + 1
		gen.products[i] = p
	}

	c.mu.Lock()
	c.gen = gen
	c.mu.Unlock()

	return gen.id
}

// Snapshot returns a consistent view of the current generation. All
// multi-step reads (cart resolution, totals, browsing) should work
// against one snapshot so a concurrent Replace cannot split them across
// generations.
func (c *Catalog) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{GenerationID: c.gen.id, products: c.gen.products}
}

// Get resolves a catalog index against the current generation.
func (c *Catalog) Get(index int) (Product, bool) {
	return c.Snapshot().Get(index)
}

// Size returns the number of products in the current generation.
func (c *Catalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.gen.products)
}

// GenerationID returns the ID of the current generation, or uuid.Nil
// before the first Replace.
func (c *Catalog) GenerationID() uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen.id
}

// Snapshot is an immutable view of one catalog generation.
type Snapshot struct {
	GenerationID uuid.UUID

	products []Product
}

// Get resolves a 1-based catalog index within this snapshot.
func (s Snapshot) Get(index int) (Product, bool) {
	if index < 1 || index > len(s.products) {
		return Product{}, false
	}
	return s.products[index-1], true
}

// List returns the products of this snapshot in catalog order. The
// returned slice is shared; callers must not mutate it.
func (s Snapshot) List() []Product {
	return s.products
}

// Size returns the number of products in this snapshot.
func (s Snapshot) Size() int {
	return len(s.products)
}

// Empty reports whether the snapshot holds no products.
func (s Snapshot) Empty() bool {
	return len(s.products) == 0
}
