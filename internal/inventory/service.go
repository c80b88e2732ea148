package inventory

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minsukang/storelink-backend/pkg/config"
	"github.com/minsukang/storelink-backend/pkg/db"
	"github.com/minsukang/storelink-backend/pkg/db/models"
	"github.com/minsukang/storelink-backend/pkg/enums"
	pkgerrors "github.com/minsukang/storelink-backend/pkg/errors"
	"github.com/minsukang/storelink-backend/pkg/logger"
	"github.com/minsukang/storelink-backend/pkg/metrics"
	"github.com/minsukang/storelink-backend/pkg/pagination"
	"github.com/minsukang/storelink-backend/pkg/redis"
)

// Operation labels used for logging and metrics.
const (
	opReceive = "receive"
	opShip    = "ship"
	opReserve = "reserve"
	opRelease = "release"
	opConfirm = "confirm"
	opAdjust  = "adjust"
)

// MovementInput carries the common fields of a stock movement request.
type MovementInput struct {
	InventoryID   uuid.UUID
	Amount        int
	Reason        enums.InventoryTransactionReason
	ReferenceType *enums.InventoryReferenceType
	ReferenceID   *string
	Note          *string
	ProcessedBy   *string
}

// AdjustInput carries a signed stock correction.
type AdjustInput struct {
	InventoryID   uuid.UUID
	Delta         int
	Reason        enums.InventoryTransactionReason
	ReferenceType *enums.InventoryReferenceType
	ReferenceID   *string
	Note          *string
	ProcessedBy   *string
}

// ReserveInput creates a reservation plus its tracking hold.
type ReserveInput struct {
	InventoryID   uuid.UUID
	Amount        int
	ReferenceType enums.InventoryReferenceType
	ReferenceID   string
	ExpiresAt     *time.Time
}

// ReservationInput addresses an existing reservation by its reference.
type ReservationInput struct {
	InventoryID   uuid.UUID
	Amount        int
	ReferenceType enums.InventoryReferenceType
	ReferenceID   string
	Reason        enums.InventoryTransactionReason
	Note          *string
	ProcessedBy   *string
}

// MutationOutcome is what every movement operation reports back. When Success
// is false the stock guard rejected the movement, nothing was written, and
// Transaction is nil.
type MutationOutcome struct {
	InventoryID       uuid.UUID                    `json:"inventory_id"`
	Success           bool                         `json:"success"`
	PreviousQuantity  int                          `json:"previous_quantity"`
	CurrentQuantity   int                          `json:"current_quantity"`
	ReservedQuantity  int                          `json:"reserved_quantity"`
	AvailableQuantity int                          `json:"available_quantity"`
	Transaction       *models.InventoryTransaction `json:"transaction,omitempty"`
}

func outcomeFrom(id uuid.UUID, result MutationResult) *MutationOutcome {
	return &MutationOutcome{
		InventoryID:       id,
		Success:           result.Success,
		PreviousQuantity:  result.PreviousQuantity,
		CurrentQuantity:   result.CurrentQuantity,
		ReservedQuantity:  result.CurrentReserved,
		AvailableQuantity: result.AvailableQuantity(),
	}
}

// Service orchestrates the inventory ledger: every physical stock movement
// and its log entry commit in the same database transaction.
type Service interface {
	CreateInventory(ctx context.Context, productID uuid.UUID, optionID *uuid.UUID, initialQuantity int) (*models.Inventory, error)
	GetInventory(ctx context.Context, id uuid.UUID) (*models.Inventory, error)
	GetInventoryByProductOption(ctx context.Context, productID uuid.UUID, optionID *uuid.UUID) (*models.Inventory, error)
	GetAvailability(ctx context.Context, id uuid.UUID) (int, error)

	ReceiveStock(ctx context.Context, input MovementInput) (*MutationOutcome, error)
	ShipStock(ctx context.Context, input MovementInput) (*MutationOutcome, error)
	AdjustStock(ctx context.Context, input AdjustInput) (*MutationOutcome, error)

	Reserve(ctx context.Context, input ReserveInput) (*MutationOutcome, error)
	ReleaseReservation(ctx context.Context, input ReservationInput) (*MutationOutcome, error)
	ConfirmReservation(ctx context.Context, input ReservationInput) (*MutationOutcome, error)

	ListTransactions(ctx context.Context, inventoryID uuid.UUID, params pagination.Params) ([]models.InventoryTransaction, string, error)
	ListTransactionsByReference(ctx context.Context, refType enums.InventoryReferenceType, refID string) ([]models.InventoryTransaction, error)
}

type service struct {
	client       *db.Client
	inventories  Repository
	transactions TransactionRepository
	holds        HoldRepository
	logg         *logger.Logger
	cache        *redis.Client
	stats        *metrics.InventoryMetrics
	cfg          config.InventoryConfig
}

// NewService wires the inventory service. Cache and stats are optional.
func NewService(
	client *db.Client,
	inventories Repository,
	transactions TransactionRepository,
	holds HoldRepository,
	logg *logger.Logger,
	cache *redis.Client,
	stats *metrics.InventoryMetrics,
	cfg config.InventoryConfig,
) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if inventories == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if transactions == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	if holds == nil {
		return nil, fmt.Errorf("hold repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		client:       client,
		inventories:  inventories,
		transactions: transactions,
		holds:        holds,
		logg:         logg,
		cache:        cache,
		stats:        stats,
		cfg:          cfg,
	}, nil
}

func (s *service) CreateInventory(ctx context.Context, productID uuid.UUID, optionID *uuid.UUID, initialQuantity int) (*models.Inventory, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if initialQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "initial quantity must not be negative")
	}
	inv := &models.Inventory{
		ProductID: productID,
		OptionID:  optionID,
		Quantity:  initialQuantity,
	}
	if err := s.inventories.Create(ctx, inv); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "inventory already exists for this product and option")
		}
		return nil, err
	}
	return inv, nil
}

func (s *service) GetInventory(ctx context.Context, id uuid.UUID) (*models.Inventory, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory id is required")
	}
	return s.inventories.GetByID(ctx, id)
}

func (s *service) GetInventoryByProductOption(ctx context.Context, productID uuid.UUID, optionID *uuid.UUID) (*models.Inventory, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.inventories.GetByProductOption(ctx, productID, optionID)
}

// GetAvailability serves the sellable quantity, preferring the short-lived
// cache. Cache misses and cache errors both fall through to the database.
func (s *service) GetAvailability(ctx context.Context, id uuid.UUID) (int, error) {
	if id == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "inventory id is required")
	}
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, s.cache.AvailabilityKey(id.String())); err == nil {
			if cached, parseErr := strconv.Atoi(raw); parseErr == nil {
				return cached, nil
			}
		}
	}

	inv, err := s.inventories.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	available := inv.AvailableQuantity()
	if s.cache != nil {
		_ = s.cache.Set(ctx, s.cache.AvailabilityKey(id.String()), available, s.cfg.AvailabilityCacheTTL)
	}
	return available, nil
}

// ReceiveStock adds physical stock and appends the inbound log entry.
func (s *service) ReceiveStock(ctx context.Context, input MovementInput) (*MutationOutcome, error) {
	outcome, err := s.applyMovement(ctx, opReceive, input,
		func(ctx context.Context, repo Repository) (MutationResult, error) {
			return repo.IncreaseQuantity(ctx, input.InventoryID, input.Amount)
		},
		NewInboundTransaction,
	)
	return outcome, err
}

// ShipStock removes physical stock directly, without touching reservations,
// and appends the outbound log entry.
func (s *service) ShipStock(ctx context.Context, input MovementInput) (*MutationOutcome, error) {
	outcome, err := s.applyMovement(ctx, opShip, input,
		func(ctx context.Context, repo Repository) (MutationResult, error) {
			return repo.DecreaseQuantity(ctx, input.InventoryID, input.Amount)
		},
		NewOutboundTransaction,
	)
	return outcome, err
}

// AdjustStock applies a signed correction and appends the adjustment entry.
func (s *service) AdjustStock(ctx context.Context, input AdjustInput) (*MutationOutcome, error) {
	movement := MovementInput{
		InventoryID:   input.InventoryID,
		Amount:        input.Delta,
		Reason:        input.Reason,
		ReferenceType: input.ReferenceType,
		ReferenceID:   input.ReferenceID,
		Note:          input.Note,
		ProcessedBy:   input.ProcessedBy,
	}
	outcome, err := s.applyMovement(ctx, opAdjust, movement,
		func(ctx context.Context, repo Repository) (MutationResult, error) {
			return repo.Adjust(ctx, input.InventoryID, input.Delta)
		},
		NewAdjustmentTransaction,
	)
	return outcome, err
}

// Reserve holds available stock and records the tracking hold in the same
// transaction. Reservations move no physical stock, so no log entry is written.
func (s *service) Reserve(ctx context.Context, input ReserveInput) (*MutationOutcome, error) {
	if input.InventoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory id is required")
	}
	if !input.ReferenceType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid reference type %q", input.ReferenceType))
	}
	if input.ReferenceID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference id is required")
	}

	expiresAt := time.Now().UTC().Add(s.cfg.ReservationTTL)
	if input.ExpiresAt != nil {
		expiresAt = input.ExpiresAt.UTC()
	}

	var outcome *MutationOutcome
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		result, err := s.inventories.WithTx(tx).Reserve(ctx, input.InventoryID, input.Amount)
		if err != nil {
			return err
		}
		outcome = outcomeFrom(input.InventoryID, result)
		if !result.Success {
			return nil
		}
		return s.holds.WithTx(tx).Create(ctx, &models.ReservationHold{
			InventoryID:   input.InventoryID,
			Quantity:      input.Amount,
			Status:        enums.ReservationHoldStatusActive,
			ReferenceType: input.ReferenceType,
			ReferenceID:   input.ReferenceID,
			ExpiresAt:     expiresAt,
		})
	})
	s.finishMutation(ctx, opReserve, input.InventoryID, outcome, err)
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// ReleaseReservation returns held stock to the available pool. The matching
// hold, if one exists, is marked released; holds are bookkeeping and their
// absence never blocks the ledger operation.
func (s *service) ReleaseReservation(ctx context.Context, input ReservationInput) (*MutationOutcome, error) {
	return s.settleReservation(ctx, opRelease, input)
}

// ConfirmReservation converts held stock into a shipment: quantity and
// reserved quantity drop together and an outbound log entry is appended.
func (s *service) ConfirmReservation(ctx context.Context, input ReservationInput) (*MutationOutcome, error) {
	return s.settleReservation(ctx, opConfirm, input)
}

func (s *service) ListTransactions(ctx context.Context, inventoryID uuid.UUID, params pagination.Params) ([]models.InventoryTransaction, string, error) {
	if inventoryID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "inventory id is required")
	}
	if _, err := s.inventories.GetByID(ctx, inventoryID); err != nil {
		return nil, "", err
	}
	return s.transactions.ListByInventory(ctx, inventoryID, params)
}

func (s *service) ListTransactionsByReference(ctx context.Context, refType enums.InventoryReferenceType, refID string) ([]models.InventoryTransaction, error) {
	if !refType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid reference type %q", refType))
	}
	if refID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference id is required")
	}
	return s.transactions.ListByReference(ctx, refType, refID)
}

type mutationFn func(ctx context.Context, repo Repository) (MutationResult, error)
type transactionFn func(in TransactionInput) (*models.InventoryTransaction, error)

// applyMovement runs one ledger mutation and, when it succeeds, appends its
// log entry inside the same database transaction. A guard failure commits
// nothing and reports Success=false.
func (s *service) applyMovement(ctx context.Context, op string, input MovementInput, mutate mutationFn, buildTx transactionFn) (*MutationOutcome, error) {
	if input.InventoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory id is required")
	}

	var outcome *MutationOutcome
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		result, err := mutate(ctx, s.inventories.WithTx(tx))
		if err != nil {
			return err
		}
		outcome = outcomeFrom(input.InventoryID, result)
		if !result.Success {
			return nil
		}

		record, err := buildTx(TransactionInput{
			InventoryID:      input.InventoryID,
			Reason:           input.Reason,
			Amount:           transactionAmount(op, input.Amount, result),
			PreviousQuantity: result.PreviousQuantity,
			CurrentQuantity:  result.CurrentQuantity,
			ReferenceType:    input.ReferenceType,
			ReferenceID:      input.ReferenceID,
			Note:             input.Note,
			ProcessedBy:      input.ProcessedBy,
		})
		if err != nil {
			return err
		}
		if err := s.transactions.WithTx(tx).Create(ctx, record); err != nil {
			return err
		}
		outcome.Transaction = record
		return nil
	})
	s.finishMutation(ctx, op, input.InventoryID, outcome, err)
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// transactionAmount derives the quantity to log: adjustments record the signed
// delta the mutation actually applied, other operations record the magnitude.
func transactionAmount(op string, amount int, result MutationResult) int {
	if op == opAdjust {
		return result.QuantityDelta()
	}
	if amount < 0 {
		return -amount
	}
	return amount
}

func (s *service) settleReservation(ctx context.Context, op string, input ReservationInput) (*MutationOutcome, error) {
	if input.InventoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory id is required")
	}
	if !input.ReferenceType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid reference type %q", input.ReferenceType))
	}
	if input.ReferenceID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference id is required")
	}

	var outcome *MutationOutcome
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.inventories.WithTx(tx)

		var result MutationResult
		var err error
		if op == opConfirm {
			result, err = repo.ConfirmReservation(ctx, input.InventoryID, input.Amount)
		} else {
			result, err = repo.ReleaseReservation(ctx, input.InventoryID, input.Amount)
		}
		if err != nil {
			return err
		}
		outcome = outcomeFrom(input.InventoryID, result)
		if !result.Success {
			return nil
		}

		if op == opConfirm {
			reason := input.Reason
			if reason == "" {
				reason = enums.InventoryReasonOrderShipment
			}
			refType := input.ReferenceType
			record, err := NewOutboundTransaction(TransactionInput{
				InventoryID:      input.InventoryID,
				Reason:           reason,
				Amount:           input.Amount,
				PreviousQuantity: result.PreviousQuantity,
				CurrentQuantity:  result.CurrentQuantity,
				ReferenceType:    &refType,
				ReferenceID:      &input.ReferenceID,
				Note:             input.Note,
				ProcessedBy:      input.ProcessedBy,
			})
			if err != nil {
				return err
			}
			if err := s.transactions.WithTx(tx).Create(ctx, record); err != nil {
				return err
			}
			outcome.Transaction = record
		}

		return s.settleHold(ctx, tx, op, input)
	})
	s.finishMutation(ctx, op, input.InventoryID, outcome, err)
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (s *service) settleHold(ctx context.Context, tx *gorm.DB, op string, input ReservationInput) error {
	holds := s.holds.WithTx(tx)
	hold, err := holds.GetActiveByReference(ctx, input.InventoryID, input.ReferenceType, input.ReferenceID)
	if err != nil {
		if coded := pkgerrors.As(err); coded != nil && coded.Code() == pkgerrors.CodeNotFound {
			return nil
		}
		return err
	}

	to := enums.ReservationHoldStatusReleased
	if op == opConfirm {
		to = enums.ReservationHoldStatusConfirmed
	}
	if _, err := holds.Transition(ctx, hold.ID, to); err != nil {
		return err
	}
	return nil
}

// finishMutation handles the bookkeeping shared by all movement operations:
// metrics, logging, and availability cache invalidation.
func (s *service) finishMutation(ctx context.Context, op string, id uuid.UUID, outcome *MutationOutcome, err error) {
	switch {
	case err != nil:
		s.stats.IncMutation(op, metrics.OutcomeError)
		s.logg.Error(s.logg.WithInventoryID(ctx, id.String()), fmt.Sprintf("inventory %s failed", op), err)
	case outcome != nil && !outcome.Success:
		s.stats.IncMutation(op, metrics.OutcomeRejected)
		s.logg.Warn(s.logg.WithInventoryID(ctx, id.String()), fmt.Sprintf("inventory %s rejected by stock guard", op))
	default:
		s.stats.IncMutation(op, metrics.OutcomeApplied)
		if s.cache != nil {
			_ = s.cache.Del(ctx, s.cache.AvailabilityKey(id.String()))
		}
	}
}
