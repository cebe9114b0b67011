package ozon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/amezhanov/storefront-backend/internal/catalog"
	"github.com/amezhanov/storefront-backend/pkg/config"
	pkgerrors "github.com/amezhanov/storefront-backend/pkg/errors"
	"github.com/amezhanov/storefront-backend/pkg/logger"
)

const (
	headerClientID = "Client-Id"
	headerAPIKey   = "Api-Key"

	productListPath        = "/v2/product/list"
	productInfoListPath    = "/v2/product/info/list"
	productPricesPath      = "/v4/product/info/prices"
	productStocksPath      = "/v3/product/info/stocks"
	productDescriptionPath = "/v1/product/info/description"
)

var (
	errClientIDRequired = errors.New("ozon client id is required")
	errAPIKeyRequired   = errors.New("ozon api key is required")
)

// Client wraps the Ozon seller API with centralized auth headers,
// timeouts and error mapping. It implements catalog.ProductSource; each
// call is a single best-effort attempt and failures map to typed
// dependency errors.
type Client struct {
	baseURL  string
	clientID string
	apiKey   string
	http     *http.Client
	logger   *logger.Logger
}

// NewClient validates the credentials and builds the wrapper.
func NewClient(cfg config.OzonConfig, logg *logger.Logger) (*Client, error) {
	clientID := strings.TrimSpace(cfg.ClientID)
	if clientID == "" {
		return nil, errClientIDRequired
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api-seller.ozon.ru"
	}

	return &Client{
		baseURL:  baseURL,
		clientID: clientID,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logg,
	}, nil
}

type productListRequest struct {
	Limit  int               `json:"limit"`
	Filter productListFilter `json:"filter"`
}

type productListFilter struct {
	Visibility string `json:"visibility"`
}

type productListResponse struct {
	Result struct {
		Items []struct {
			ProductID int64  `json:"product_id"`
			OfferID   string `json:"offer_id"`
		} `json:"items"`
	} `json:"result"`
}

type productInfoListRequest struct {
	ProductID []int64 `json:"product_id"`
}

type productInfoListResponse struct {
	Result struct {
		Items []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"items"`
	} `json:"result"`
}

// ListProducts pulls the raw listing and attaches display names from the
// product info endpoint. A failed name lookup degrades to SKU-only raw
// items instead of failing the listing.
func (c *Client) ListProducts(ctx context.Context, limit int) ([]catalog.RawItem, error) {
	if limit <= 0 {
		limit = 100
	}

	var list productListResponse
	err := c.post(ctx, productListPath, productListRequest{
		Limit:  limit,
		Filter: productListFilter{Visibility: "ALL"},
	}, &list)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(list.Result.Items))
	for _, item := range list.Result.Items {
		ids = append(ids, item.ProductID)
	}

	names := map[int64]string{}
	if len(ids) > 0 {
		var info productInfoListResponse
		if err := c.post(ctx, productInfoListPath, productInfoListRequest{ProductID: ids}, &info); err != nil {
			if c.logger != nil {
				c.logger.Warn(ctx, "ozon: product info lookup failed, names unavailable")
			}
		} else {
			for _, item := range info.Result.Items {
				names[item.ID] = item.Name
			}
		}
	}

	items := make([]catalog.RawItem, 0, len(list.Result.Items))
	for _, item := range list.Result.Items {
		items = append(items, catalog.RawItem{
			ExternalID: strconv.FormatInt(item.ProductID, 10),
			SKU:        item.OfferID,
			Name:       names[item.ProductID],
		})
	}
	return items, nil
}

type pricesRequest struct {
	Filter idFilter `json:"filter"`
	Limit  int      `json:"limit"`
}

type idFilter struct {
	ProductID  []int64 `json:"product_id"`
	Visibility string  `json:"visibility,omitempty"`
}

type pricesResponse struct {
	Result struct {
		Items []struct {
			ProductID int64 `json:"product_id"`
			Price     struct {
				Price string `json:"price"`
			} `json:"price"`
		} `json:"items"`
	} `json:"result"`
}

// GetPrices resolves whole-unit prices per external ID. Unparseable
// price strings are skipped; the refresher excludes those items.
func (c *Client) GetPrices(ctx context.Context, ids []string) (map[string]int64, error) {
	productIDs, err := parseIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(productIDs) == 0 {
		return map[string]int64{}, nil
	}

	var resp pricesResponse
	err = c.post(ctx, productPricesPath, pricesRequest{
		Filter: idFilter{ProductID: productIDs},
		Limit:  len(productIDs),
	}, &resp)
	if err != nil {
		return nil, err
	}

	prices := make(map[string]int64, len(resp.Result.Items))
	for _, item := range resp.Result.Items {
		value, err := strconv.ParseFloat(item.Price.Price, 64)
		if err != nil {
			if c.logger != nil {
				c.logger.Warn(ctx, fmt.Sprintf("ozon: unparseable price %q for product %d", item.Price.Price, item.ProductID))
			}
			continue
		}
		prices[strconv.FormatInt(item.ProductID, 10)] = int64(value)
	}
	return prices, nil
}

type stocksRequest struct {
	Filter idFilter `json:"filter"`
	Limit  int      `json:"limit"`
}

type stocksResponse struct {
	Result struct {
		Items []struct {
			ProductID int64 `json:"product_id"`
			Stocks    []struct {
				Present int `json:"present"`
			} `json:"stocks"`
		} `json:"items"`
	} `json:"result"`
}

// GetStocks resolves available quantity per external ID, summed across
// warehouses.
func (c *Client) GetStocks(ctx context.Context, ids []string) (map[string]int, error) {
	productIDs, err := parseIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(productIDs) == 0 {
		return map[string]int{}, nil
	}

	var resp stocksResponse
	err = c.post(ctx, productStocksPath, stocksRequest{
		Filter: idFilter{ProductID: productIDs, Visibility: "ALL"},
		Limit:  len(productIDs),
	}, &resp)
	if err != nil {
		return nil, err
	}

	stocks := make(map[string]int, len(resp.Result.Items))
	for _, item := range resp.Result.Items {
		total := 0
		for _, stock := range item.Stocks {
			total += stock.Present
		}
		stocks[strconv.FormatInt(item.ProductID, 10)] = total
	}
	return stocks, nil
}

type descriptionRequest struct {
	ProductID int64 `json:"product_id"`
}

type descriptionResponse struct {
	Result struct {
		Description string `json:"description"`
	} `json:"result"`
}

// GetDescription resolves the free-text description for one product.
func (c *Client) GetDescription(ctx context.Context, id string) (string, error) {
	productID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}

	var resp descriptionResponse
	if err := c.post(ctx, productDescriptionPath, descriptionRequest{ProductID: productID}, &resp); err != nil {
		return "", err
	}
	return resp.Result.Description, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode ozon request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build ozon request")
	}
	req.Header.Set(headerClientID, c.clientID)
	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call "+path)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("%s returned status %d", path, resp.StatusCode)).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+path+" response")
	}
	return nil
}

func parseIDs(ids []string) ([]int64, error) {
	parsed := make([]int64, 0, len(ids))
	for _, id := range ids {
		value, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id "+id)
		}
		parsed = append(parsed, value)
	}
	return parsed, nil
}
