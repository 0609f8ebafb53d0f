package shopify

import (
	"context"
)

// Listing is the canonical payload for publishing one distributor item to
// the merchant's storefront.
type Listing struct {
	SKU         string
	Title       string
	Description string
	Brand       string
	Category    string
	Price       float64
	Quantity    int
	Images      []string
}

// ListingIDs identifies the storefront product/variant a listing became.
type ListingIDs struct {
	ProductID string
	VariantID string
}

// Publisher writes catalog state into the merchant's storefront. Calls must
// be idempotent from the caller's perspective: a retried failed call must
// not double-create.
type Publisher interface {
	CreateListing(ctx context.Context, listing *Listing) (*ListingIDs, error)
	UpdateInventory(ctx context.Context, variantID string, quantity int) error
	UpdatePrice(ctx context.Context, variantID string, price float64) error
}
