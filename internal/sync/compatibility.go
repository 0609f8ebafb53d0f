package sync

import (
	"context"

	"github.com/xndroli/lucrative-growth-app/internal/models"
	"github.com/xndroli/lucrative-growth-app/internal/store"
	"github.com/xndroli/lucrative-growth-app/internal/turn14"
)

// SyncProductCompatibility refreshes the vehicle fitment edges for one SKU.
// The edge set is fully replaced rather than merged, which keeps the
// operation idempotent: two consecutive runs against unchanged distributor
// data yield the same final set.
func (e *Engine) SyncProductCompatibility(ctx context.Context, merchantID, sku string) (*CompatibilityResult, error) {
	if _, err := e.setup(ctx, merchantID); err != nil {
		return nil, err
	}
	return e.syncProductCompatibility(ctx, merchantID, sku)
}

// syncProductCompatibility assumes setup has already run.
func (e *Engine) syncProductCompatibility(ctx context.Context, merchantID, sku string) (*CompatibilityResult, error) {
	product, err := e.catalog.GetBySKU(ctx, merchantID, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &turn14.NotFoundError{Resource: "tracked product " + sku}
	}

	fitments, err := e.distributor.GetCompatibility(ctx, sku)
	if err != nil {
		return nil, err
	}

	edges := make([]models.CompatibilityEdge, 0, len(fitments))
	for _, f := range fitments {
		edges = append(edges, models.CompatibilityEdge{
			MerchantID:  merchantID,
			ProductID:   product.ID,
			Year:        f.Year,
			Make:        f.Make,
			Model:       f.Model,
			Submodel:    f.Submodel,
			EngineNotes: f.EngineNotes,
			IsUniversal: f.IsUniversal,
		})
	}

	if err := e.vehicles.ReplaceEdges(ctx, merchantID, product.ID, edges); err != nil {
		return nil, err
	}

	return &CompatibilityResult{Processed: len(fitments), Created: len(edges)}, nil
}

// BulkSyncCompatibility resyncs fitment for up to opts.Limit syncable
// products, under full job bookkeeping, with the same per-item failure
// isolation as the inventory and pricing passes.
func (e *Engine) BulkSyncCompatibility(ctx context.Context, merchantID string, opts BulkCompatibilityOptions) (*BulkCompatibilityResult, error) {
	job := &models.SyncJob{
		MerchantID: merchantID,
		SyncType:   models.SyncTypeCompatibility,
		Status:     models.JobStatusPending,
	}
	if err := e.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	if err := e.jobs.Start(ctx, job.ID, e.now()); err != nil {
		return nil, err
	}

	result, err := e.bulkSyncCompatibility(ctx, merchantID, opts, job.ID)
	if err != nil {
		e.failJob(ctx, job, err)
		return nil, err
	}

	e.completeJob(ctx, job, &SyncResult{
		TotalItems:     result.Processed,
		ProcessedItems: result.Processed,
		SuccessItems:   result.Successful,
		FailedItems:    result.Failed,
		Errors:         result.Errors,
	})
	return result, nil
}

func (e *Engine) bulkSyncCompatibility(ctx context.Context, merchantID string, opts BulkCompatibilityOptions, jobID string) (*BulkCompatibilityResult, error) {
	if _, err := e.setup(ctx, merchantID); err != nil {
		return nil, err
	}

	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	products, err := e.catalog.ListSyncable(ctx, merchantID, &store.ProductFilter{
		Brand: opts.BrandFilter,
		Limit: opts.Limit,
	})
	if err != nil {
		return nil, err
	}

	result := &BulkCompatibilityResult{}
	for _, p := range products {
		result.Processed++
		if _, err := e.syncProductCompatibility(ctx, merchantID, p.SKU); err != nil {
			result.Failed++
			if len(result.Errors) < MaxResultErrors {
				result.Errors = append(result.Errors, ItemError{SKU: p.SKU, Error: err.Error()})
			}
		} else {
			result.Successful++
		}
		if err := e.jobs.UpdateProgress(ctx, jobID, len(products), result.Processed, result.Successful, result.Failed); err != nil {
			e.logger.Error("Failed to flush compatibility sync progress: %v", err)
		}
	}

	e.logger.Info("Bulk compatibility sync for %s: %d/%d succeeded", merchantID, result.Successful, result.Processed)
	return result, nil
}
