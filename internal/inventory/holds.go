package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minsukang/storelink-backend/pkg/db/models"
	"github.com/minsukang/storelink-backend/pkg/enums"
	pkgerrors "github.com/minsukang/storelink-backend/pkg/errors"
)

// HoldRepository tracks reservation holds. Status transitions are guarded
// updates so a hold can only leave the active state once, even when the expiry
// sweep races a confirmation.
type HoldRepository interface {
	WithTx(tx *gorm.DB) HoldRepository

	Create(ctx context.Context, hold *models.ReservationHold) error
	GetActiveByReference(ctx context.Context, inventoryID uuid.UUID, refType enums.InventoryReferenceType, refID string) (*models.ReservationHold, error)
	ListExpiredActive(ctx context.Context, cutoff time.Time, limit int) ([]models.ReservationHold, error)
	Transition(ctx context.Context, id uuid.UUID, to enums.ReservationHoldStatus) (bool, error)
}

type holdRepository struct {
	db *gorm.DB
}

// NewHoldRepository returns a hold repository bound to the provided database.
func NewHoldRepository(db *gorm.DB) HoldRepository {
	return &holdRepository{db: db}
}

func (r *holdRepository) WithTx(tx *gorm.DB) HoldRepository {
	if tx == nil {
		return r
	}
	return &holdRepository{db: tx}
}

func (r *holdRepository) Create(ctx context.Context, hold *models.ReservationHold) error {
	if hold.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "hold quantity must be positive")
	}
	if hold.Status == "" {
		hold.Status = enums.ReservationHoldStatusActive
	}
	if err := r.db.WithContext(ctx).Create(hold).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err,
			fmt.Sprintf("insert reservation hold (inventory_id=%s)", hold.InventoryID))
	}
	return nil
}

func (r *holdRepository) GetActiveByReference(ctx context.Context, inventoryID uuid.UUID, refType enums.InventoryReferenceType, refID string) (*models.ReservationHold, error) {
	var hold models.ReservationHold
	err := r.db.WithContext(ctx).
		Where("inventory_id = ? AND reference_type = ? AND reference_id = ? AND status = ?",
			inventoryID, refType, refID, enums.ReservationHoldStatusActive).
		Order("created_at ASC").
		First(&hold).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "active reservation hold not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation hold")
	}
	return &hold, nil
}

func (r *holdRepository) ListExpiredActive(ctx context.Context, cutoff time.Time, limit int) ([]models.ReservationHold, error) {
	var holds []models.ReservationHold
	query := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", enums.ReservationHoldStatusActive, cutoff).
		Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&holds).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list expired holds")
	}
	return holds, nil
}

// Transition moves an active hold to a terminal status. Returns false when the
// hold already left the active state.
func (r *holdRepository) Transition(ctx context.Context, id uuid.UUID, to enums.ReservationHoldStatus) (bool, error) {
	if to == enums.ReservationHoldStatusActive {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "cannot transition a hold back to active")
	}
	res := r.db.WithContext(ctx).
		Model(&models.ReservationHold{}).
		Where("id = ? AND status = ?", id, enums.ReservationHoldStatusActive).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "transition reservation hold")
	}
	return res.RowsAffected == 1, nil
}
