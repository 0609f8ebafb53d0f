package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xndroli/lucrative-growth-app/internal/logger"
)

// Client talks to the Shopify Admin REST API for one shop.
type Client struct {
	shopDomain  string
	accessToken string
	apiVersion  string
	httpClient  *http.Client
	logger      *logger.Logger
}

var _ Publisher = (*Client)(nil)

func NewClient(shopDomain, accessToken, apiVersion string, logger *logger.Logger) *Client {
	return &Client{
		shopDomain:  shopDomain,
		accessToken: accessToken,
		apiVersion:  apiVersion,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// CreateListing creates the product in Shopify. If a product with the same
// SKU handle already exists the existing identifiers are returned, so a
// retried create never duplicates a listing.
func (c *Client) CreateListing(ctx context.Context, listing *Listing) (*ListingIDs, error) {
	if existing, err := c.findBySKU(ctx, listing.SKU); err == nil && existing != nil {
		return existing, nil
	}

	payload := productEnvelope{
		Product: Product{
			Title:       listing.Title,
			BodyHTML:    listing.Description,
			Vendor:      listing.Brand,
			ProductType: listing.Category,
			Handle:      handleForSKU(listing.SKU),
			Status:      "active",
			Variants: []Variant{{
				SKU:               listing.SKU,
				Price:             fmt.Sprintf("%.2f", listing.Price),
				InventoryQuantity: listing.Quantity,
			}},
		},
	}

	var created productEnvelope
	if err := c.do(ctx, "POST", c.url("/products.json"), payload, &created); err != nil {
		return nil, err
	}
	if len(created.Product.Variants) == 0 {
		return nil, fmt.Errorf("shopify returned product %d with no variants", created.Product.ID)
	}

	return &ListingIDs{
		ProductID: fmt.Sprintf("%d", created.Product.ID),
		VariantID: fmt.Sprintf("%d", created.Product.Variants[0].ID),
	}, nil
}

// UpdateInventory sets the absolute quantity on a variant.
func (c *Client) UpdateInventory(ctx context.Context, variantID string, quantity int) error {
	payload := variantEnvelope{Variant: Variant{InventoryQuantity: quantity}}
	return c.do(ctx, "PUT", c.url("/variants/"+variantID+".json"), payload, nil)
}

// UpdatePrice sets the price on a variant.
func (c *Client) UpdatePrice(ctx context.Context, variantID string, price float64) error {
	payload := variantEnvelope{Variant: Variant{Price: fmt.Sprintf("%.2f", price)}}
	return c.do(ctx, "PUT", c.url("/variants/"+variantID+".json"), payload, nil)
}

// findBySKU looks the SKU up by its deterministic handle.
func (c *Client) findBySKU(ctx context.Context, sku string) (*ListingIDs, error) {
	var resp struct {
		Products []Product `json:"products"`
	}
	url := c.url("/products.json") + "?handle=" + handleForSKU(sku)
	if err := c.do(ctx, "GET", url, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Products) == 0 || len(resp.Products[0].Variants) == 0 {
		return nil, nil
	}
	return &ListingIDs{
		ProductID: fmt.Sprintf("%d", resp.Products[0].ID),
		VariantID: fmt.Sprintf("%d", resp.Products[0].Variants[0].ID),
	}, nil
}

func (c *Client) url(path string) string {
	return fmt.Sprintf("https://%s.myshopify.com/admin/api/%s%s", c.shopDomain, c.apiVersion, path)
}

func (c *Client) do(ctx context.Context, method, url string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("shopify API request failed: %d - %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// handleForSKU derives a stable URL handle from a distributor SKU.
func handleForSKU(sku string) string {
	return "t14-" + strings.ToLower(strings.ReplaceAll(sku, " ", "-"))
}
