package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amezhanov/storefront-backend/pkg/logger"
	"github.com/amezhanov/storefront-backend/pkg/metrics"
)

const (
	// Descriptions are display-bounded; anything longer is cut at a rune
	// boundary and marked.
	descriptionMaxRunes = 150
	truncationMarker    = "..."

	// Stock sentinel used when the stock lookup cannot supply a figure.
	defaultAvailableQty = 10
)

// RawItem is one unnormalized listing from the external source.
type RawItem struct {
	ExternalID string
	SKU        string
	Name       string
}

// ProductSource is the external marketplace capability the refresher
// consumes. Every call is a single best-effort attempt; the refresher
// performs no retries.
type ProductSource interface {
	ListProducts(ctx context.Context, limit int) ([]RawItem, error)
	GetPrices(ctx context.Context, ids []string) (map[string]int64, error)
	GetStocks(ctx context.Context, ids []string) (map[string]int, error)
	GetDescription(ctx context.Context, id string) (string, error)
}

// RefreshResult reports what a refresh did. SourceFailed distinguishes
// "the listing call failed, previous generation kept" from "the source
// genuinely returned no products".
type RefreshResult struct {
	Size         int
	GenerationID uuid.UUID
	SourceFailed bool
}

// Refresher pulls raw items from the source, normalizes them into
// Products and atomically publishes a new catalog generation. All source
// failures are absorbed here; none escape to callers.
type Refresher struct {
	source  ProductSource
	catalog *Catalog
	limit   int
	logg    *logger.Logger
	metrics *metrics.RefreshMetrics
}

func NewRefresher(source ProductSource, cat *Catalog, limit int, logg *logger.Logger, m *metrics.RefreshMetrics) (*Refresher, error) {
	if source == nil {
		return nil, fmt.Errorf("product source required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if limit <= 0 {
		limit = 100
	}
	return &Refresher{
		source:  source,
		catalog: cat,
		limit:   limit,
		logg:    logg,
		metrics: m,
	}, nil
}

// Refresh replaces the catalog with a freshly normalized generation.
// When the primary listing call fails the previous generation is left
// intact and the result is flagged as degraded.
func (r *Refresher) Refresh(ctx context.Context) RefreshResult {
	start := time.Now()
	defer func() {
		r.metrics.ObserveDuration(time.Since(start))
	}()

	raw, err := r.source.ListProducts(ctx, r.limit)
	if err != nil {
		r.metrics.IncFailure()
		if r.logg != nil {
			r.logg.Error(ctx, "catalog refresh: listing call failed, keeping previous generation", err)
		}
		return RefreshResult{
			Size:         r.catalog.Size(),
			GenerationID: r.catalog.GenerationID(),
			SourceFailed: true,
		}
	}

	ids := make([]string, 0, len(raw))
	for _, item := range raw {
		if item.ExternalID != "" {
			ids = append(ids, item.ExternalID)
		}
	}

	prices, err := r.source.GetPrices(ctx, ids)
	if err != nil {
		if r.logg != nil {
			r.logg.Warn(ctx, "catalog refresh: price lookup failed, items without prices will be excluded")
		}
		prices = nil
	}

	stocks, err := r.source.GetStocks(ctx, ids)
	if err != nil {
		if r.logg != nil {
			r.logg.Warn(ctx, "catalog refresh: stock lookup failed, falling back to default quantity")
		}
		stocks = nil
	}

	products := make([]Product, 0, len(raw))
	for _, item := range raw {
		product, ok := r.normalize(ctx, item, prices, stocks)
		if !ok {
			continue
		}
		products = append(products, product)
	}

	genID := r.catalog.Replace(products)
	r.metrics.IncSuccess()
	r.metrics.SetCatalogSize(len(products))

	if r.logg != nil {
		logCtx := r.logg.WithGenerationID(ctx, genID.String())
		logCtx = r.logg.WithFields(logCtx, map[string]any{
			"raw_items": len(raw),
			"published": len(products),
		})
		r.logg.Info(logCtx, "catalog refresh: published new generation")
	}

	return RefreshResult{Size: len(products), GenerationID: genID}
}

// normalize applies the construction invariants: a non-empty display
// name and a positive price are mandatory, everything else degrades to
// a fallback.
func (r *Refresher) normalize(ctx context.Context, item RawItem, prices map[string]int64, stocks map[string]int) (Product, bool) {
	name := strings.TrimSpace(item.Name)
	if name == "" {
		name = strings.TrimSpace(item.SKU)
	}
	if name == "" {
		r.metrics.IncExcluded("no name")
		return Product{}, false
	}

	price, ok := prices[item.ExternalID]
	if !ok || price <= 0 {
		r.metrics.IncExcluded("no price")
		return Product{}, false
	}

	qty, ok := stocks[item.ExternalID]
	if !ok || qty < 0 {
		qty = defaultAvailableQty
	}

	description := r.resolveDescription(ctx, item)

	return Product{
		ExternalID:   item.ExternalID,
		SKU:          item.SKU,
		DisplayName:  name,
		UnitPrice:    price,
		Description:  description,
		AvailableQty: qty,
	}, true
}

func (r *Refresher) resolveDescription(ctx context.Context, item RawItem) string {
	description := ""
	if item.ExternalID != "" {
		text, err := r.source.GetDescription(ctx, item.ExternalID)
		if err != nil {
			if r.logg != nil {
				r.logg.Debug(ctx, "catalog refresh: description lookup failed for "+item.ExternalID)
			}
		} else {
			description = strings.TrimSpace(text)
		}
	}
	if description == "" {
		description = synthesizeDescription(item)
	}
	return truncateDescription(description)
}

func synthesizeDescription(item RawItem) string {
	if sku := strings.TrimSpace(item.SKU); sku != "" {
		return fmt.Sprintf("Item %s", sku)
	}
	if item.ExternalID != "" {
		return fmt.Sprintf("Item %s", item.ExternalID)
	}
	return "No description available"
}

func truncateDescription(text string) string {
	runes := []rune(text)
	if len(runes) <= descriptionMaxRunes {
		return text
	}
	return string(runes[:descriptionMaxRunes]) + truncationMarker
}
