package sync

import (
	"context"
	"fmt"
	"math"

	"github.com/xndroli/lucrative-growth-app/internal/models"
	"github.com/xndroli/lucrative-growth-app/internal/shopify"
	"github.com/xndroli/lucrative-growth-app/internal/store"
	"github.com/xndroli/lucrative-growth-app/internal/turn14"
)

func (e *Engine) syncPricing(ctx context.Context, merchantID string, filter *store.ProductFilter, flush progressFunc) (*SyncResult, error) {
	if _, err := e.setup(ctx, merchantID); err != nil {
		return nil, err
	}

	products, err := e.catalog.ListSyncable(ctx, merchantID, filter)
	if err != nil {
		return nil, err
	}

	storefront := e.storefronts(merchantID)
	result := &SyncResult{TotalItems: len(products)}

	for i := range products {
		p := &products[i]
		if err := e.syncProductPricing(ctx, p, storefront); err != nil {
			result.recordFailure(p.SKU, err)
			if recErr := e.catalog.RecordSyncError(ctx, p.ID, err.Error(), e.now()); recErr != nil {
				e.logger.Error("Failed to record sync error for %s: %v", p.SKU, recErr)
			}
		} else {
			result.recordSuccess()
		}
		if flush != nil {
			flush(result)
		}
	}

	e.logger.Info("Pricing sync for %s: %d/%d succeeded", merchantID, result.SuccessItems, result.TotalItems)
	return result, nil
}

// syncProductPricing recomputes the marked-up price from the current
// distributor price and writes it out only when something changed, to avoid
// redundant storefront API calls.
func (e *Engine) syncProductPricing(ctx context.Context, p *models.TrackedProduct, storefront shopify.Publisher) error {
	pricing, err := e.distributor.GetPricing(ctx, []string{p.SKU})
	if err != nil {
		return err
	}
	distributorPrice, ok := pricing[p.SKU]
	if !ok {
		return &turn14.NotFoundError{Resource: "pricing for sku " + p.SKU}
	}

	finalPrice := ApplyMarkup(distributorPrice, p.MarkupPercent)
	if distributorPrice == p.OriginalPrice && finalPrice == p.CurrentPrice {
		return e.catalog.MarkSynced(ctx, p.ID, e.now())
	}

	if err := storefront.UpdatePrice(ctx, p.ShopifyVariantID, finalPrice); err != nil {
		return fmt.Errorf("storefront price write failed: %w", err)
	}
	return e.catalog.UpdatePrice(ctx, p.ID, distributorPrice, finalPrice, e.now())
}

// ApplyMarkup computes the customer-facing price from the distributor price
// and a percentage markup, rounded to cents.
func ApplyMarkup(price, markupPercent float64) float64 {
	return math.Round(price*(1+markupPercent/100)*100) / 100
}
