// Package scheduler computes run times for recurring sync definitions and
// drives their execution.
package scheduler

import (
	"time"

	"github.com/xndroli/lucrative-growth-app/internal/models"
)

// dailyRunHour is the local hour daily and weekly schedules fire at.
const dailyRunHour = 2

// ComputeNextRun returns when a schedule with the given frequency should
// fire next, relative to now. Manual schedules never auto-fire and get nil.
func ComputeNextRun(frequency models.SyncFrequency, now time.Time) *time.Time {
	switch frequency {
	case models.FrequencyHourly:
		t := now.Add(time.Hour)
		return &t
	case models.FrequencyDaily:
		d := now.AddDate(0, 0, 1)
		t := time.Date(d.Year(), d.Month(), d.Day(), dailyRunHour, 0, 0, 0, now.Location())
		return &t
	case models.FrequencyWeekly:
		d := now.AddDate(0, 0, 7)
		t := time.Date(d.Year(), d.Month(), d.Day(), dailyRunHour, 0, 0, 0, now.Location())
		return &t
	default:
		return nil
	}
}
