package sync

import (
	"context"
	"fmt"

	"github.com/xndroli/lucrative-growth-app/internal/models"
	"github.com/xndroli/lucrative-growth-app/internal/shopify"
	"github.com/xndroli/lucrative-growth-app/internal/store"
	"github.com/xndroli/lucrative-growth-app/internal/turn14"
)

func (e *Engine) syncInventory(ctx context.Context, merchantID string, filter *store.ProductFilter, flush progressFunc) (*SyncResult, error) {
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
		if err := e.syncProductInventory(ctx, p, storefront); err != nil {
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

	e.logger.Info("Inventory sync for %s: %d/%d succeeded", merchantID, result.SuccessItems, result.TotalItems)
	return result, nil
}

// syncProductInventory reconciles one product's stock level. The storefront
// is only written when the distributor quantity actually changed.
func (e *Engine) syncProductInventory(ctx context.Context, p *models.TrackedProduct, storefront shopify.Publisher) error {
	stock, err := e.distributor.GetStock(ctx, []string{p.SKU})
	if err != nil {
		return err
	}
	qty, ok := stock[p.SKU]
	if !ok {
		return &turn14.NotFoundError{Resource: "stock for sku " + p.SKU}
	}

	if qty == p.InventoryQty {
		return e.catalog.MarkSynced(ctx, p.ID, e.now())
	}

	if err := storefront.UpdateInventory(ctx, p.ShopifyVariantID, qty); err != nil {
		return fmt.Errorf("storefront inventory write failed: %w", err)
	}
	return e.catalog.UpdateQuantity(ctx, p.ID, qty, e.now())
}
