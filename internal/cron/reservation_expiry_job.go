package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/minsukang/storelink-backend/internal/inventory"
	"github.com/minsukang/storelink-backend/pkg/db/models"
	"github.com/minsukang/storelink-backend/pkg/enums"
	"github.com/minsukang/storelink-backend/pkg/logger"
	"github.com/minsukang/storelink-backend/pkg/metrics"
)

const defaultExpiryBatchSize = 200

// txRunner is the transaction surface jobs need from the db client.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ReservationExpiryJobParams configure the expired-hold sweep.
type ReservationExpiryJobParams struct {
	Logger      *logger.Logger
	DB          txRunner
	Inventories inventory.Repository
	Holds       inventory.HoldRepository
	Metrics     *metrics.InventoryMetrics
	BatchSize   int
}

// NewReservationExpiryJob builds the cron job that returns abandoned
// reservations to the available pool.
func NewReservationExpiryJob(params ReservationExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Inventories == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if params.Holds == nil {
		return nil, fmt.Errorf("hold repository required")
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultExpiryBatchSize
	}
	return &reservationExpiryJob{
		logg:        params.Logger,
		db:          params.DB,
		inventories: params.Inventories,
		holds:       params.Holds,
		stats:       params.Metrics,
		batchSize:   batchSize,
		now:         time.Now,
	}, nil
}

type reservationExpiryJob struct {
	logg        *logger.Logger
	db          txRunner
	inventories inventory.Repository
	holds       inventory.HoldRepository
	stats       *metrics.InventoryMetrics
	batchSize   int
	now         func() time.Time
}

func (j *reservationExpiryJob) Name() string { return "reservation-expiry" }

func (j *reservationExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC()
	holds, err := j.holds.ListExpiredActive(ctx, cutoff, j.batchSize)
	if err != nil {
		return fmt.Errorf("list expired holds: %w", err)
	}

	released := 0
	var errs []error
	for _, hold := range holds {
		if err := j.expireHold(ctx, hold); err != nil {
			errs = append(errs, fmt.Errorf("hold %s: %w", hold.ID, err))
			j.stats.IncExpiredHold(metrics.OutcomeError)
			continue
		}
		released++
		j.stats.IncExpiredHold(metrics.OutcomeApplied)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"holds_found":    len(holds),
		"holds_released": released,
	})
	j.logg.Info(logCtx, "reservation expiry sweep complete")
	return multierr.Combine(errs...)
}

// expireHold settles one hold: the status transition and the reservation
// release commit together. A hold whose transition loses the race was settled
// by a release or confirm in the meantime and is skipped.
func (j *reservationExpiryJob) expireHold(ctx context.Context, hold models.ReservationHold) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		moved, err := j.holds.WithTx(tx).Transition(ctx, hold.ID, enums.ReservationHoldStatusExpired)
		if err != nil {
			return err
		}
		if !moved {
			return nil
		}

		result, err := j.inventories.WithTx(tx).ReleaseReservation(ctx, hold.InventoryID, hold.Quantity)
		if err != nil {
			return err
		}
		if !result.Success {
			// The ledger holds less than this hold claims. Keep the hold
			// expired so the sweep does not retry it forever, but flag the
			// inconsistency.
			logCtx := j.logg.WithInventoryID(ctx, hold.InventoryID.String())
			logCtx = j.logg.WithField(logCtx, "hold_id", hold.ID.String())
			j.logg.Warn(logCtx, "expired hold exceeds reserved quantity; hold marked expired without release")
		}
		return nil
	})
}
