package sync

import (
	"context"

	"github.com/xndroli/lucrative-growth-app/internal/models"
	"github.com/xndroli/lucrative-growth-app/internal/turn14"
)

// SyncVehicleDatabase upserts every distributor vehicle by its natural key,
// under full job bookkeeping. Vehicles that vanish upstream are never
// deleted here, only left untouched for later deactivation.
func (e *Engine) SyncVehicleDatabase(ctx context.Context, merchantID string) (*VehicleSyncResult, error) {
	job := &models.SyncJob{
		MerchantID: merchantID,
		SyncType:   models.SyncTypeVehicles,
		Status:     models.JobStatusPending,
	}
	if err := e.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	if err := e.jobs.Start(ctx, job.ID, e.now()); err != nil {
		return nil, err
	}

	result, err := e.syncVehicleDatabase(ctx, merchantID, job.ID)
	if err != nil {
		e.failJob(ctx, job, err)
		return nil, err
	}

	e.completeJob(ctx, job, &SyncResult{
		TotalItems:     result.Processed,
		ProcessedItems: result.Processed,
		SuccessItems:   result.Created + result.Updated,
		FailedItems:    result.Failed,
	})
	return result, nil
}

func (e *Engine) syncVehicleDatabase(ctx context.Context, merchantID, jobID string) (*VehicleSyncResult, error) {
	if _, err := e.setup(ctx, merchantID); err != nil {
		return nil, err
	}

	result := &VehicleSyncResult{}
	page := 1
	for {
		vehiclePage, err := e.distributor.ListVehicles(ctx, turn14.VehicleFilter{}, page)
		if err != nil {
			return nil, err
		}

		for _, v := range vehiclePage.Vehicles {
			result.Processed++
			record := &models.VehicleRecord{
				Turn14VehicleID: v.ID,
				Year:            v.Year,
				Make:            v.Make,
				Model:           v.Model,
				Submodel:        v.Submodel,
				Engine:          v.Engine,
				Transmission:    v.Transmission,
				DriveType:       v.DriveType,
				BodyStyle:       v.BodyStyle,
				IsActive:        true,
			}
			created, err := e.vehicles.UpsertVehicle(ctx, record)
			if err != nil {
				result.Failed++
				e.logger.Error("Vehicle upsert failed for %d %s %s: %v", v.Year, v.Make, v.Model, err)
				continue
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}

		if err := e.jobs.UpdateProgress(ctx, jobID, result.Processed, result.Processed, result.Created+result.Updated, result.Failed); err != nil {
			e.logger.Error("Failed to flush vehicle sync progress: %v", err)
		}

		if !vehiclePage.HasMore() {
			break
		}
		page++
	}

	e.logger.Info("Vehicle database sync: %d processed, %d created, %d updated", result.Processed, result.Created, result.Updated)
	return result, nil
}
