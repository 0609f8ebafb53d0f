package turn14

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xndroli/lucrative-growth-app/internal/logger"
	"github.com/xndroli/lucrative-growth-app/internal/models"
)

// Client is an authenticated HTTP client for the Turn14 distributor API.
// It performs no retries; retry policy belongs to the reconciliation engine.
type Client struct {
	productionURL string
	sandboxURL    string
	baseURL       string
	token         string
	httpClient    *http.Client
	logger        *logger.Logger
}

func NewClient(productionURL, sandboxURL string, logger *logger.Logger) *Client {
	return &Client{
		productionURL: productionURL,
		sandboxURL:    sandboxURL,
		baseURL:       productionURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Authenticate exchanges the merchant's credentials for a bearer token and
// pins the client to the sandbox or production environment.
func (c *Client) Authenticate(ctx context.Context, key, secret string, env models.Turn14Env) error {
	c.baseURL = c.productionURL
	if env == models.Turn14EnvSandbox {
		c.baseURL = c.sandboxURL
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", key)
	form.Set("client_secret", secret)

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransientError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden ||
		resp.StatusCode == http.StatusBadRequest {
		return &AuthError{Message: "invalid client credentials"}
	}
	if resp.StatusCode != http.StatusOK {
		return normalizeStatus(resp, "token")
	}

	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}
	if auth.AccessToken == "" {
		return &AuthError{Message: "empty access token"}
	}

	c.token = auth.AccessToken
	c.logger.Debug("Authenticated against Turn14 %s environment", env)
	return nil
}

// ListBrands fetches the brands available to the merchant account.
func (c *Client) ListBrands(ctx context.Context) ([]Brand, error) {
	var out struct {
		Data []Brand `json:"data"`
	}
	if err := c.get(ctx, "/brands", nil, "brands", &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ListInventory fetches one page of items, optionally filtered by brand
// and category.
func (c *Client) ListInventory(ctx context.Context, filter InventoryFilter, page int) (*ItemPage, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", page))
	if filter.Brand != "" {
		q.Set("brand", filter.Brand)
	}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}

	var out ItemPage
	if err := c.get(ctx, "/items", q, "items", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProduct fetches a single item by SKU.
func (c *Client) GetProduct(ctx context.Context, sku string) (*Item, error) {
	var out struct {
		Data Item `json:"data"`
	}
	if err := c.get(ctx, "/items/"+url.PathEscape(sku), nil, "sku "+sku, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// GetPricing fetches current distributor pricing for the given SKUs.
func (c *Client) GetPricing(ctx context.Context, skus []string) (map[string]float64, error) {
	q := url.Values{}
	q.Set("skus", strings.Join(skus, ","))

	var out struct {
		Data map[string]float64 `json:"data"`
	}
	if err := c.get(ctx, "/pricing", q, "pricing", &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetStock fetches current stock levels for the given SKUs.
func (c *Client) GetStock(ctx context.Context, skus []string) (map[string]int, error) {
	q := url.Values{}
	q.Set("skus", strings.Join(skus, ","))

	var out struct {
		Data map[string]int `json:"data"`
	}
	if err := c.get(ctx, "/inventory", q, "stock", &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ListVehicles fetches one page of the distributor vehicle database.
func (c *Client) ListVehicles(ctx context.Context, filter VehicleFilter, page int) (*VehiclePage, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", page))
	if filter.Make != "" {
		q.Set("make", filter.Make)
	}
	if filter.Year != 0 {
		q.Set("year", fmt.Sprintf("%d", filter.Year))
	}

	var out VehiclePage
	if err := c.get(ctx, "/vehicles", q, "vehicles", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCompatibility fetches the vehicle fitment rows for one SKU.
func (c *Client) GetCompatibility(ctx context.Context, sku string) ([]Fitment, error) {
	var out struct {
		Data []Fitment `json:"data"`
	}
	if err := c.get(ctx, "/items/"+url.PathEscape(sku)+"/fitments", nil, "fitments for "+sku, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, resource string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and network failures are per-item transient failures.
		return &TransientError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return normalizeStatus(resp, resource)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
