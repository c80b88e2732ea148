package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minsukang/storelink-backend/pkg/db/models"
	"github.com/minsukang/storelink-backend/pkg/enums"
	pkgerrors "github.com/minsukang/storelink-backend/pkg/errors"
	"github.com/minsukang/storelink-backend/pkg/pagination"
)

// TransactionInput carries the fields shared by all transaction constructors.
// Amount is always the magnitude of the movement except for adjustments, where
// it is the signed delta.
type TransactionInput struct {
	InventoryID      uuid.UUID
	Reason           enums.InventoryTransactionReason
	Amount           int
	PreviousQuantity int
	CurrentQuantity  int
	ReferenceType    *enums.InventoryReferenceType
	ReferenceID      *string
	Note             *string
	ProcessedBy      *string
}

func (in TransactionInput) validateReason(want enums.InventoryTransactionType) error {
	if !in.Reason.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid transaction reason %s", in.Reason))
	}
	if category := in.Reason.Category(); category != want {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("reason %s belongs to category %s, not %s", in.Reason, category, want))
	}
	if in.ReferenceType != nil && !in.ReferenceType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid reference type %s", *in.ReferenceType))
	}
	return nil
}

func (in TransactionInput) build(txType enums.InventoryTransactionType, signedQuantity int) *models.InventoryTransaction {
	return &models.InventoryTransaction{
		InventoryID:      in.InventoryID,
		Type:             txType,
		Reason:           in.Reason,
		Quantity:         signedQuantity,
		PreviousQuantity: in.PreviousQuantity,
		CurrentQuantity:  in.CurrentQuantity,
		ReferenceType:    in.ReferenceType,
		ReferenceID:      in.ReferenceID,
		Note:             in.Note,
		ProcessedBy:      in.ProcessedBy,
	}
}

// NewInboundTransaction records a stock increase. Quantity is stored positive.
func NewInboundTransaction(in TransactionInput) (*models.InventoryTransaction, error) {
	if in.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inbound amount must be positive")
	}
	if err := in.validateReason(enums.InventoryTransactionTypeInbound); err != nil {
		return nil, err
	}
	if in.CurrentQuantity != in.PreviousQuantity+in.Amount {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inbound snapshot does not add up")
	}
	return in.build(enums.InventoryTransactionTypeInbound, in.Amount), nil
}

// NewOutboundTransaction records a stock decrease. Quantity is stored negative.
func NewOutboundTransaction(in TransactionInput) (*models.InventoryTransaction, error) {
	if in.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "outbound amount must be positive")
	}
	if err := in.validateReason(enums.InventoryTransactionTypeOutbound); err != nil {
		return nil, err
	}
	if in.CurrentQuantity != in.PreviousQuantity-in.Amount {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "outbound snapshot does not add up")
	}
	return in.build(enums.InventoryTransactionTypeOutbound, -in.Amount), nil
}

// NewAdjustmentTransaction records a signed correction. Quantity keeps the
// caller's sign.
func NewAdjustmentTransaction(in TransactionInput) (*models.InventoryTransaction, error) {
	if in.Amount == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjustment delta must be non-zero")
	}
	if err := in.validateReason(enums.InventoryTransactionTypeAdjustment); err != nil {
		return nil, err
	}
	if in.CurrentQuantity != in.PreviousQuantity+in.Amount {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjustment snapshot does not add up")
	}
	return in.build(enums.InventoryTransactionTypeAdjustment, in.Amount), nil
}

// TransactionRepository appends and reads the movement log. There is no update
// or delete: corrections happen by appending a compensating entry.
type TransactionRepository interface {
	WithTx(tx *gorm.DB) TransactionRepository

	Create(ctx context.Context, tx *models.InventoryTransaction) error
	ListByInventory(ctx context.Context, inventoryID uuid.UUID, params pagination.Params) ([]models.InventoryTransaction, string, error)
	ListByReference(ctx context.Context, refType enums.InventoryReferenceType, refID string) ([]models.InventoryTransaction, error)
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository returns a transaction log repository bound to the
// provided database.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) WithTx(tx *gorm.DB) TransactionRepository {
	if tx == nil {
		return r
	}
	return &transactionRepository{db: tx}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.InventoryTransaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err,
			fmt.Sprintf("append inventory transaction (inventory_id=%s)", tx.InventoryID))
	}
	return nil
}

// ListByInventory pages the movement log newest-first with a cursor on
// (created_at, id). The extra row fetched beyond the limit decides whether a
// next cursor is emitted.
func (r *transactionRepository) ListByInventory(ctx context.Context, inventoryID uuid.UUID, params pagination.Params) ([]models.InventoryTransaction, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Where("inventory_id = ?", inventoryID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "transaction cursor")
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.InventoryTransaction
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory transactions")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

func (r *transactionRepository) ListByReference(ctx context.Context, refType enums.InventoryReferenceType, refID string) ([]models.InventoryTransaction, error) {
	var rows []models.InventoryTransaction
	err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", refType, refID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions by reference")
	}
	return rows, nil
}
