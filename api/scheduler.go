/*
scheduler.go - Availability restore job

PURPOSE:
  An approved holiday marks its owner unavailable. Nothing in the
  request flow flips the flag back when the leave ends, so a background
  job runs daily, finds unavailable permanents whose approved leaves
  have all ended, and restores their availability.

DESIGN:
  - cron-driven (default: every day shortly after midnight)
  - the detection query lives in the store; the job only iterates ids
  - idempotent: a restored collaborator no longer matches the query

USAGE:
  scheduler := NewAvailabilityScheduler(store, log, "15 0 * * *")
  if err := scheduler.Start(); err != nil { ... }
  // ... later
  scheduler.Stop()

SEE ALSO:
  - store/sqlite: LeaveEndedCollaborators, SetAvailability
  - staff/collaborator.go: ConsumeHolidayBalance sets the flag
*/
package api

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/convivio/roster-engine/schedule"
	"github.com/convivio/roster-engine/store/sqlite"
)

// AvailabilityScheduler restores availability after leave ends.
type AvailabilityScheduler struct {
	Store *sqlite.Store

	spec string
	cron *cron.Cron
	log  zerolog.Logger
}

// NewAvailabilityScheduler creates a scheduler with a cron spec in the
// standard five-field format.
func NewAvailabilityScheduler(store *sqlite.Store, log zerolog.Logger, spec string) *AvailabilityScheduler {
	return &AvailabilityScheduler{
		Store: store,
		spec:  spec,
		cron:  cron.New(),
		log:   log.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the job and begins the cron loop.
func (as *AvailabilityScheduler) Start() error {
	if _, err := as.cron.AddFunc(as.spec, as.RunNow); err != nil {
		return err
	}
	as.cron.Start()
	as.log.Info().Str("spec", as.spec).Msg("availability scheduler started")
	return nil
}

// Stop halts the cron loop, waiting for a running job to finish.
func (as *AvailabilityScheduler) Stop() {
	ctx := as.cron.Stop()
	<-ctx.Done()
	as.log.Info().Msg("availability scheduler stopped")
}

// RunNow performs one restore pass immediately.
func (as *AvailabilityScheduler) RunNow() {
	ctx := context.Background()
	today := schedule.Today()

	ids, err := as.Store.LeaveEndedCollaborators(ctx, today)
	if err != nil {
		as.log.Error().Err(err).Msg("availability check failed")
		return
	}

	restored := 0
	for _, id := range ids {
		if err := as.Store.SetAvailability(ctx, id, true); err != nil {
			as.log.Error().Err(err).Int("collaborator", id).Msg("availability restore failed")
			continue
		}
		restored++
	}

	if restored > 0 {
		as.log.Info().Int("restored", restored).Msg("availability restored after leave")
	}
}
