package sync

import (
	"github.com/xndroli/lucrative-growth-app/internal/models"
)

// MaxResultErrors caps the per-SKU error list carried on a result so job
// records stay bounded no matter how badly a batch goes.
const MaxResultErrors = 50

// ItemError is one per-SKU failure surfaced to the merchant.
type ItemError struct {
	SKU   string `json:"sku"`
	Error string `json:"error"`
}

// SyncResult aggregates one batch operation's outcome.
type SyncResult struct {
	TotalItems     int                             `json:"total_items"`
	ProcessedItems int                             `json:"processed_items"`
	SuccessItems   int                             `json:"success_items"`
	FailedItems    int                             `json:"failed_items"`
	Errors         []ItemError                     `json:"errors,omitempty"`
	Phases         map[models.SyncType]*SyncResult `json:"phases,omitempty"`
}

func (r *SyncResult) recordSuccess() {
	r.ProcessedItems++
	r.SuccessItems++
}

func (r *SyncResult) recordFailure(sku string, err error) {
	r.ProcessedItems++
	r.FailedItems++
	if len(r.Errors) < MaxResultErrors {
		r.Errors = append(r.Errors, ItemError{SKU: sku, Error: err.Error()})
	}
}

// merge folds a phase result into a full-sync aggregate.
func (r *SyncResult) merge(other *SyncResult) {
	r.TotalItems += other.TotalItems
	r.ProcessedItems += other.ProcessedItems
	r.SuccessItems += other.SuccessItems
	r.FailedItems += other.FailedItems
	for _, e := range other.Errors {
		if len(r.Errors) >= MaxResultErrors {
			break
		}
		r.Errors = append(r.Errors, e)
	}
}

// VehicleSyncResult is the outcome of a vehicle-database sync.
type VehicleSyncResult struct {
	Processed int `json:"processed"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Failed    int `json:"failed"`
}

// CompatibilityResult is the outcome of one per-SKU compatibility resync.
type CompatibilityResult struct {
	Processed int `json:"processed"`
	Created   int `json:"created"`
}

// BulkCompatibilityResult aggregates a bulk compatibility pass.
type BulkCompatibilityResult struct {
	Processed  int         `json:"processed"`
	Successful int         `json:"successful"`
	Failed     int         `json:"failed"`
	Errors     []ItemError `json:"errors,omitempty"`
}

// BulkCompatibilityOptions bound and narrow a bulk compatibility pass.
type BulkCompatibilityOptions struct {
	Limit       int
	BrandFilter string
}
