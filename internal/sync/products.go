package sync

import (
	"context"
	"fmt"

	"github.com/xndroli/lucrative-growth-app/internal/models"
	"github.com/xndroli/lucrative-growth-app/internal/shopify"
	"github.com/xndroli/lucrative-growth-app/internal/turn14"
)

func (e *Engine) syncNewProducts(ctx context.Context, merchantID string, settings models.SyncSettings, flush progressFunc) (*SyncResult, error) {
	if err := settings.Validate(); err != nil {
		return nil, &ConfigError{MerchantID: merchantID, Reason: err.Error()}
	}

	cfg, err := e.setup(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	brands := cfg.SelectedBrands
	if len(settings.BrandFilter) > 0 {
		brands = settings.BrandFilter
	}
	if len(brands) == 0 {
		return nil, &ConfigError{MerchantID: merchantID, Reason: "no brands selected"}
	}

	// One up-front SKU set instead of a per-item existence query.
	existing, err := e.catalog.ExistingSKUSet(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	storefront := e.storefronts(merchantID)
	result := &SyncResult{}
	imported := 0

	for _, brand := range brands {
		if imported >= settings.MaxNewProducts {
			break
		}

		page := 1
		for imported < settings.MaxNewProducts {
			itemPage, err := e.distributor.ListInventory(ctx, turn14.InventoryFilter{Brand: brand}, page)
			if err != nil {
				// A dead brand listing is isolated like any other item
				// failure; the remaining brands still import.
				result.TotalItems++
				result.recordFailure("brand:"+brand, err)
				if flush != nil {
					flush(result)
				}
				break
			}

			for _, item := range itemPage.Items {
				if imported >= settings.MaxNewProducts {
					break
				}
				if _, tracked := existing[item.SKU]; tracked {
					// Already imported on an earlier run; re-import is a no-op.
					continue
				}

				result.TotalItems++
				if err := e.importProduct(ctx, merchantID, item, settings, storefront); err != nil {
					result.recordFailure(item.SKU, err)
				} else {
					result.recordSuccess()
				}
				existing[item.SKU] = struct{}{}
				imported++
				if flush != nil {
					flush(result)
				}
			}

			if !itemPage.HasMore() {
				break
			}
			page++
		}
	}

	e.logger.Info("New-product sync for %s: %d imported, %d failed", merchantID, result.SuccessItems, result.FailedItems)
	return result, nil
}

// importProduct creates the storefront listing first, then the tracking row,
// so a tracked product always refers to a listing that exists.
func (e *Engine) importProduct(ctx context.Context, merchantID string, item turn14.Item, settings models.SyncSettings, storefront shopify.Publisher) error {
	price := ApplyMarkup(item.Price, settings.DefaultMarkup)

	ids, err := storefront.CreateListing(ctx, &shopify.Listing{
		SKU:      item.SKU,
		Title:    item.Name,
		Brand:    item.Brand,
		Category: item.Category,
		Price:    price,
		Quantity: item.Stock,
		Images:   item.Images,
	})
	if err != nil {
		return fmt.Errorf("storefront listing create failed: %w", err)
	}

	now := e.now()
	product := &models.TrackedProduct{
		MerchantID:       merchantID,
		SKU:              item.SKU,
		Title:            item.Name,
		Brand:            item.Brand,
		ShopifyProductID: ids.ProductID,
		ShopifyVariantID: ids.VariantID,
		OriginalPrice:    item.Price,
		CurrentPrice:     price,
		MarkupPercent:    settings.DefaultMarkup,
		InventoryQty:     item.Stock,
		SyncStatus:       models.SyncStatusActive,
		LastSyncedAt:     &now,
	}
	if item.Category != "" {
		product.Category = &item.Category
	}
	return e.catalog.Create(ctx, product)
}
