package sync

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/xndroli/lucrative-growth-app/internal/logger"
	"github.com/xndroli/lucrative-growth-app/internal/models"
	"github.com/xndroli/lucrative-growth-app/internal/shopify"
	"github.com/xndroli/lucrative-growth-app/internal/store"
	"github.com/xndroli/lucrative-growth-app/internal/turn14"
)

// DistributorClient is the slice of the Turn14 client the engine consumes.
type DistributorClient interface {
	Authenticate(ctx context.Context, key, secret string, env models.Turn14Env) error
	ListInventory(ctx context.Context, filter turn14.InventoryFilter, page int) (*turn14.ItemPage, error)
	GetPricing(ctx context.Context, skus []string) (map[string]float64, error)
	GetStock(ctx context.Context, skus []string) (map[string]int, error)
	ListVehicles(ctx context.Context, filter turn14.VehicleFilter, page int) (*turn14.VehiclePage, error)
	GetCompatibility(ctx context.Context, sku string) ([]turn14.Fitment, error)
}

// Catalog is the tracked-product store surface the engine writes through.
type Catalog interface {
	Create(ctx context.Context, p *models.TrackedProduct) error
	GetBySKU(ctx context.Context, merchantID, sku string) (*models.TrackedProduct, error)
	ListSyncable(ctx context.Context, merchantID string, filter *store.ProductFilter) ([]models.TrackedProduct, error)
	ExistingSKUSet(ctx context.Context, merchantID string) (map[string]struct{}, error)
	UpdateQuantity(ctx context.Context, id string, qty int, at time.Time) error
	UpdatePrice(ctx context.Context, id string, original, current float64, at time.Time) error
	MarkSynced(ctx context.Context, id string, at time.Time) error
	RecordSyncError(ctx context.Context, id string, message string, at time.Time) error
}

// VehicleCatalog is the vehicle/compatibility store surface the engine
// writes through.
type VehicleCatalog interface {
	UpsertVehicle(ctx context.Context, v *models.VehicleRecord) (bool, error)
	ReplaceEdges(ctx context.Context, merchantID, productID string, edges []models.CompatibilityEdge) error
}

// JobLedger records run outcomes.
type JobLedger interface {
	Create(ctx context.Context, job *models.SyncJob) error
	Start(ctx context.Context, id string, at time.Time) error
	UpdateProgress(ctx context.Context, id string, total, processed, success, failed int) error
	Complete(ctx context.Context, id string, at time.Time, total, processed, success, failed int, results string) error
	Fail(ctx context.Context, id string, at time.Time, message string) error
}

// ConfigSource resolves and annotates merchant distributor configs.
type ConfigSource interface {
	Get(ctx context.Context, merchantID string) (*models.DistributorConfig, error)
	RecordValidation(ctx context.Context, merchantID string, ok bool, message *string, at time.Time) error
}

// EventSink receives job lifecycle events.
type EventSink interface {
	PublishCompleted(ctx context.Context, job *models.SyncJob) error
	PublishFailed(ctx context.Context, job *models.SyncJob, cause string) error
}

// StorefrontFactory resolves the storefront publisher for one merchant.
type StorefrontFactory func(merchantID string) shopify.Publisher

// Engine computes and applies catalog deltas between the distributor and the
// merchant storefront. Operations are idempotent and individually resumable;
// within a batch, items are processed one at a time and per-item failures
// never abort the batch.
type Engine struct {
	distributor DistributorClient
	storefronts StorefrontFactory
	catalog     Catalog
	vehicles    VehicleCatalog
	jobs        JobLedger
	configs     ConfigSource
	events      EventSink
	logger      *logger.Logger
	now         func() time.Time
}

func NewEngine(
	distributor DistributorClient,
	storefronts StorefrontFactory,
	catalog Catalog,
	vehicles VehicleCatalog,
	jobs JobLedger,
	configs ConfigSource,
	events EventSink,
	logger *logger.Logger,
) *Engine {
	return &Engine{
		distributor: distributor,
		storefronts: storefronts,
		catalog:     catalog,
		vehicles:    vehicles,
		jobs:        jobs,
		configs:     configs,
		events:      events,
		logger:      logger,
		now:         time.Now,
	}
}

// progressFunc flushes in-flight counters after every item.
type progressFunc func(r *SyncResult)

// setup loads and checks the merchant's distributor config and
// authenticates against the distributor. Any error here is fatal to the
// whole run and raised before item processing begins.
func (e *Engine) setup(ctx context.Context, merchantID string) (*models.DistributorConfig, error) {
	cfg, err := e.configs.Get(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, &ConfigError{MerchantID: merchantID, Reason: "not configured"}
	}
	if !cfg.IsActive {
		return nil, &ConfigError{MerchantID: merchantID, Reason: "connection disabled"}
	}

	if err := e.distributor.Authenticate(ctx, cfg.APIKey, cfg.APISecret, cfg.Environment); err != nil {
		var authErr *turn14.AuthError
		if errors.As(err, &authErr) {
			msg := authErr.Error()
			if recErr := e.configs.RecordValidation(ctx, merchantID, false, &msg, e.now()); recErr != nil {
				e.logger.Error("Failed to record validation failure for %s: %v", merchantID, recErr)
			}
		}
		return nil, err
	}
	return cfg, nil
}

// Run executes one named sync type under full job bookkeeping. The ledger
// row is created pending, moved to running, and closed completed or failed;
// an error escaping the operation is recorded and re-raised so the caller
// still observes the failure.
func (e *Engine) Run(ctx context.Context, merchantID string, syncType models.SyncType, settings models.SyncSettings, scheduleID *string) (*SyncResult, error) {
	job := &models.SyncJob{
		MerchantID: merchantID,
		ScheduleID: scheduleID,
		SyncType:   syncType,
		Status:     models.JobStatusPending,
	}
	if err := e.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	if err := e.jobs.Start(ctx, job.ID, e.now()); err != nil {
		return nil, err
	}

	flush := func(r *SyncResult) {
		if err := e.jobs.UpdateProgress(ctx, job.ID, r.TotalItems, r.ProcessedItems, r.SuccessItems, r.FailedItems); err != nil {
			e.logger.Error("Failed to flush job progress for %s: %v", job.ID, err)
		}
	}

	var result *SyncResult
	var err error
	switch syncType {
	case models.SyncTypeInventory:
		result, err = e.syncInventory(ctx, merchantID, nil, flush)
	case models.SyncTypePricing:
		result, err = e.syncPricing(ctx, merchantID, nil, flush)
	case models.SyncTypeProducts:
		result, err = e.syncNewProducts(ctx, merchantID, settings, flush)
	case models.SyncTypeFull:
		result, err = e.fullSync(ctx, merchantID, settings, flush)
	default:
		err = &ConfigError{MerchantID: merchantID, Reason: "unsupported sync type " + string(syncType)}
	}

	if err != nil {
		e.failJob(ctx, job, err)
		return nil, err
	}

	e.completeJob(ctx, job, result)
	return result, nil
}

func (e *Engine) failJob(ctx context.Context, job *models.SyncJob, cause error) {
	if err := e.jobs.Fail(ctx, job.ID, e.now(), cause.Error()); err != nil {
		e.logger.Error("Failed to mark job %s failed: %v", job.ID, err)
	}
	if err := e.events.PublishFailed(ctx, job, cause.Error()); err != nil {
		e.logger.Error("Failed to publish failure event for job %s: %v", job.ID, err)
	}
}

func (e *Engine) completeJob(ctx context.Context, job *models.SyncJob, result *SyncResult) {
	serialized, err := json.Marshal(result)
	if err != nil {
		e.logger.Error("Failed to serialize results for job %s: %v", job.ID, err)
	}
	err = e.jobs.Complete(ctx, job.ID, e.now(),
		result.TotalItems, result.ProcessedItems, result.SuccessItems, result.FailedItems,
		string(serialized))
	if err != nil {
		e.logger.Error("Failed to mark job %s completed: %v", job.ID, err)
	}

	job.TotalItems = result.TotalItems
	job.ProcessedItems = result.ProcessedItems
	job.SuccessItems = result.SuccessItems
	job.FailedItems = result.FailedItems
	if err := e.events.PublishCompleted(ctx, job); err != nil {
		e.logger.Error("Failed to publish completion event for job %s: %v", job.ID, err)
	}
}

// SyncInventory reconciles stock levels for the merchant's active products.
func (e *Engine) SyncInventory(ctx context.Context, merchantID string, filter *store.ProductFilter) (*SyncResult, error) {
	return e.syncInventory(ctx, merchantID, filter, nil)
}

// SyncPricing reconciles distributor and marked-up prices.
func (e *Engine) SyncPricing(ctx context.Context, merchantID string, filter *store.ProductFilter) (*SyncResult, error) {
	return e.syncPricing(ctx, merchantID, filter, nil)
}

// SyncNewProducts imports not-yet-tracked SKUs from the merchant's selected
// brands.
func (e *Engine) SyncNewProducts(ctx context.Context, merchantID string, settings models.SyncSettings) (*SyncResult, error) {
	return e.syncNewProducts(ctx, merchantID, settings, nil)
}

// FullSync runs inventory, pricing and new-product sync sequentially and
// returns the merged result with per-phase breakdowns.
func (e *Engine) FullSync(ctx context.Context, merchantID string, settings models.SyncSettings) (*SyncResult, error) {
	return e.fullSync(ctx, merchantID, settings, nil)
}

// fullSync keeps the fixed phase order: identity and stock are reconciled
// before new work is added, and a partially failed phase does not block the
// later phases unless the failure is fatal (auth/config).
func (e *Engine) fullSync(ctx context.Context, merchantID string, settings models.SyncSettings, flush progressFunc) (*SyncResult, error) {
	merged := &SyncResult{Phases: make(map[models.SyncType]*SyncResult)}

	phases := []struct {
		syncType models.SyncType
		run      func(progressFunc) (*SyncResult, error)
	}{
		{models.SyncTypeInventory, func(f progressFunc) (*SyncResult, error) {
			return e.syncInventory(ctx, merchantID, nil, f)
		}},
		{models.SyncTypePricing, func(f progressFunc) (*SyncResult, error) {
			return e.syncPricing(ctx, merchantID, nil, f)
		}},
		{models.SyncTypeProducts, func(f progressFunc) (*SyncResult, error) {
			return e.syncNewProducts(ctx, merchantID, settings, f)
		}},
	}

	for _, phase := range phases {
		phaseFlush := progressFunc(nil)
		if flush != nil {
			phaseFlush = func(r *SyncResult) {
				combined := &SyncResult{}
				combined.merge(merged)
				combined.merge(r)
				flush(combined)
			}
		}

		result, err := phase.run(phaseFlush)
		if err != nil {
			if isFatal(err) {
				return merged, err
			}
			// Phase setup failed for a non-fatal reason; record it and
			// keep going so one broken phase cannot block the others.
			merged.Phases[phase.syncType] = &SyncResult{}
			merged.recordFailure("phase:"+string(phase.syncType), err)
			continue
		}
		merged.Phases[phase.syncType] = result
		merged.merge(result)
	}

	return merged, nil
}

// isFatal reports whether an error invalidates the whole run rather than a
// single phase or item.
func isFatal(err error) bool {
	var authErr *turn14.AuthError
	var cfgErr *ConfigError
	return errors.As(err, &authErr) || errors.As(err, &cfgErr)
}
