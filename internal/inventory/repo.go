package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minsukang/storelink-backend/pkg/db/models"
	pkgerrors "github.com/minsukang/storelink-backend/pkg/errors"
)

// MutationResult is the snapshot every ledger mutation returns. The values are
// read by the same statement that performs the write, so under concurrency they
// are exact for the committed mutation. On a guard failure (Success=false) the
// snapshot comes from a separate best-effort read and is observational only.
type MutationResult struct {
	Success          bool
	PreviousQuantity int
	CurrentQuantity  int
	PreviousReserved int
	CurrentReserved  int
}

// AvailableQuantity is the sellable amount after the mutation.
func (r MutationResult) AvailableQuantity() int {
	return r.CurrentQuantity - r.CurrentReserved
}

// QuantityDelta is the signed physical stock change this mutation applied.
func (r MutationResult) QuantityDelta() int {
	return r.CurrentQuantity - r.PreviousQuantity
}

// Repository owns the inventory ledger rows. Every mutation is a single
// conditional UPDATE: the guard predicate and the write execute as one
// statement so concurrent callers can never act on a stale read.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, inv *models.Inventory) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Inventory, error)
	GetByProductOption(ctx context.Context, productID uuid.UUID, optionID *uuid.UUID) (*models.Inventory, error)

	IncreaseQuantity(ctx context.Context, id uuid.UUID, amount int) (MutationResult, error)
	DecreaseQuantity(ctx context.Context, id uuid.UUID, amount int) (MutationResult, error)
	Reserve(ctx context.Context, id uuid.UUID, amount int) (MutationResult, error)
	ReleaseReservation(ctx context.Context, id uuid.UUID, amount int) (MutationResult, error)
	ConfirmReservation(ctx context.Context, id uuid.UUID, amount int) (MutationResult, error)
	Adjust(ctx context.Context, id uuid.UUID, delta int) (MutationResult, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, inv *models.Inventory) error {
	if inv.Quantity < 0 || inv.ReservedQuantity < 0 || inv.ReservedQuantity > inv.Quantity {
		return pkgerrors.New(pkgerrors.CodeValidation, "initial quantities violate ledger invariants")
	}
	if err := r.db.WithContext(ctx).Create(inv).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err,
			fmt.Sprintf("insert inventory (product_id=%s)", inv.ProductID))
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Inventory, error) {
	var inv models.Inventory
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found")
		}
		return nil, err
	}
	return &inv, nil
}

func (r *repository) GetByProductOption(ctx context.Context, productID uuid.UUID, optionID *uuid.UUID) (*models.Inventory, error) {
	query := r.db.WithContext(ctx).Where("product_id = ?", productID)
	if optionID != nil {
		query = query.Where("option_id = ?", *optionID)
	} else {
		query = query.Where("option_id IS NULL")
	}

	var inv models.Inventory
	if err := query.First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found")
		}
		return nil, err
	}
	return &inv, nil
}

// snapshotRow matches the RETURNING column aliases of the mutation statements.
type snapshotRow struct {
	PreviousQuantity int
	CurrentQuantity  int
	PreviousReserved int
	CurrentReserved  int
}

func (s snapshotRow) toResult() MutationResult {
	return MutationResult{
		Success:          true,
		PreviousQuantity: s.PreviousQuantity,
		CurrentQuantity:  s.CurrentQuantity,
		PreviousReserved: s.PreviousReserved,
		CurrentReserved:  s.CurrentReserved,
	}
}

// IncreaseQuantity adds physical stock. It has no stock guard, so zero affected
// rows means the ledger row does not exist.
func (r *repository) IncreaseQuantity(ctx context.Context, id uuid.UUID, amount int) (MutationResult, error) {
	if amount <= 0 {
		return MutationResult{}, pkgerrors.New(pkgerrors.CodeValidation, "increase amount must be positive")
	}

	const query = `
UPDATE inventories
SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
RETURNING quantity - ? AS previous_quantity,
          quantity AS current_quantity,
          reserved_quantity AS previous_reserved,
          reserved_quantity AS current_reserved`

	var row snapshotRow
	res := r.db.WithContext(ctx).Raw(query, amount, id, amount).Scan(&row)
	if res.Error != nil {
		return MutationResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "increase quantity")
	}
	if res.RowsAffected == 0 {
		return MutationResult{}, pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found")
	}
	return row.toResult(), nil
}

// DecreaseQuantity removes physical stock, guarded by quantity >= amount.
// Insufficient stock is not an error: the caller gets Success=false plus the
// current snapshot.
func (r *repository) DecreaseQuantity(ctx context.Context, id uuid.UUID, amount int) (MutationResult, error) {
	if amount <= 0 {
		return MutationResult{}, pkgerrors.New(pkgerrors.CodeValidation, "decrease amount must be positive")
	}

	const query = `
UPDATE inventories
SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND quantity >= ?
RETURNING quantity + ? AS previous_quantity,
          quantity AS current_quantity,
          reserved_quantity AS previous_reserved,
          reserved_quantity AS current_reserved`

	var row snapshotRow
	res := r.db.WithContext(ctx).Raw(query, amount, id, amount, amount).Scan(&row)
	if res.Error != nil {
		return MutationResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "decrease quantity")
	}
	if res.RowsAffected == 0 {
		return r.guardFailure(ctx, id)
	}
	return row.toResult(), nil
}

// Reserve holds available stock against an unconfirmed order, guarded by
// quantity - reserved_quantity >= amount.
func (r *repository) Reserve(ctx context.Context, id uuid.UUID, amount int) (MutationResult, error) {
	if amount <= 0 {
		return MutationResult{}, pkgerrors.New(pkgerrors.CodeValidation, "reserve amount must be positive")
	}

	const query = `
UPDATE inventories
SET reserved_quantity = reserved_quantity + ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND quantity - reserved_quantity >= ?
RETURNING quantity AS previous_quantity,
          quantity AS current_quantity,
          reserved_quantity - ? AS previous_reserved,
          reserved_quantity AS current_reserved`

	var row snapshotRow
	res := r.db.WithContext(ctx).Raw(query, amount, id, amount, amount).Scan(&row)
	if res.Error != nil {
		return MutationResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve stock")
	}
	if res.RowsAffected == 0 {
		return r.guardFailure(ctx, id)
	}
	return row.toResult(), nil
}

// ReleaseReservation returns held stock to the available pool, guarded by
// reserved_quantity >= amount.
func (r *repository) ReleaseReservation(ctx context.Context, id uuid.UUID, amount int) (MutationResult, error) {
	if amount <= 0 {
		return MutationResult{}, pkgerrors.New(pkgerrors.CodeValidation, "release amount must be positive")
	}

	const query = `
UPDATE inventories
SET reserved_quantity = reserved_quantity - ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND reserved_quantity >= ?
RETURNING quantity AS previous_quantity,
          quantity AS current_quantity,
          reserved_quantity + ? AS previous_reserved,
          reserved_quantity AS current_reserved`

	var row snapshotRow
	res := r.db.WithContext(ctx).Raw(query, amount, id, amount, amount).Scan(&row)
	if res.Error != nil {
		return MutationResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "release reservation")
	}
	if res.RowsAffected == 0 {
		return r.guardFailure(ctx, id)
	}
	return row.toResult(), nil
}

// ConfirmReservation converts held stock into an actual deduction. Both fields
// change in the same statement; a crash can never observe one without the other.
func (r *repository) ConfirmReservation(ctx context.Context, id uuid.UUID, amount int) (MutationResult, error) {
	if amount <= 0 {
		return MutationResult{}, pkgerrors.New(pkgerrors.CodeValidation, "confirm amount must be positive")
	}

	const query = `
UPDATE inventories
SET quantity = quantity - ?, reserved_quantity = reserved_quantity - ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND reserved_quantity >= ?
RETURNING quantity + ? AS previous_quantity,
          quantity AS current_quantity,
          reserved_quantity + ? AS previous_reserved,
          reserved_quantity AS current_reserved`

	var row snapshotRow
	res := r.db.WithContext(ctx).Raw(query, amount, amount, id, amount, amount, amount).Scan(&row)
	if res.Error != nil {
		return MutationResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "confirm reservation")
	}
	if res.RowsAffected == 0 {
		return r.guardFailure(ctx, id)
	}
	return row.toResult(), nil
}

// Adjust applies a signed correction: positive deltas delegate to the increase
// path, negative deltas run the guarded decrease. A zero delta is a caller bug.
func (r *repository) Adjust(ctx context.Context, id uuid.UUID, delta int) (MutationResult, error) {
	if delta == 0 {
		return MutationResult{}, pkgerrors.New(pkgerrors.CodeValidation, "adjustment delta must be non-zero")
	}
	if delta > 0 {
		return r.IncreaseQuantity(ctx, id, delta)
	}
	return r.DecreaseQuantity(ctx, id, -delta)
}

// guardFailure reads the row after a conditional update matched nothing. The
// read is non-authoritative; it only distinguishes "row missing" from
// "insufficient stock" and gives the caller something to report.
func (r *repository) guardFailure(ctx context.Context, id uuid.UUID) (MutationResult, error) {
	inv, err := r.GetByID(ctx, id)
	if err != nil {
		return MutationResult{}, err
	}
	return MutationResult{
		Success:          false,
		PreviousQuantity: inv.Quantity,
		CurrentQuantity:  inv.Quantity,
		PreviousReserved: inv.ReservedQuantity,
		CurrentReserved:  inv.ReservedQuantity,
	}, nil
}
