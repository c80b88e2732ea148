package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/minsukang/storelink-backend/api/middleware"
	"github.com/minsukang/storelink-backend/api/responses"
	"github.com/minsukang/storelink-backend/api/validators"
	"github.com/minsukang/storelink-backend/internal/inventory"
	"github.com/minsukang/storelink-backend/pkg/enums"
	pkgerrors "github.com/minsukang/storelink-backend/pkg/errors"
	"github.com/minsukang/storelink-backend/pkg/logger"
	"github.com/minsukang/storelink-backend/pkg/pagination"
)

// CreateInventory opens a ledger row for a product or product option.
func CreateInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload createInventoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var optionID *uuid.UUID
		if payload.OptionID != nil {
			oid, err := uuid.Parse(*payload.OptionID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid option id"))
				return
			}
			optionID = &oid
		}

		inv, err := svc.CreateInventory(r.Context(), productID, optionID, payload.InitialQuantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, inv)
	}
}

// GetInventory returns one ledger row by id.
func GetInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "inventoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inv, err := svc.GetInventory(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, inv)
	}
}

// GetAvailability returns the sellable quantity (on hand minus reserved).
func GetAvailability(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "inventoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		available, err := svc.GetAvailability(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"inventory_id":       id,
			"available_quantity": available,
		})
	}
}

// ReceiveStock records inbound stock.
func ReceiveStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return serviceUnavailable(logg)
	}
	return movementHandler(logg, "insufficient stock", svc.ReceiveStock)
}

// ShipStock records outbound stock against on-hand quantity.
func ShipStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return serviceUnavailable(logg)
	}
	return movementHandler(logg, "insufficient stock", svc.ShipStock)
}

func serviceUnavailable(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
	}
}

func movementHandler(
	logg *logger.Logger,
	rejectMsg string,
	apply func(context.Context, inventory.MovementInput) (*inventory.MutationOutcome, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "inventoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload movementRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		outcome, err := apply(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeOutcome(r.Context(), logg, w, outcome, rejectMsg)
	}
}

// AdjustStock applies a signed stock correction.
func AdjustStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "inventoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adjustRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		outcome, err := svc.AdjustStock(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeOutcome(r.Context(), logg, w, outcome, "insufficient stock")
	}
}

// Reserve holds sellable stock for a pending order.
func Reserve(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "inventoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload reserveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		refType, err := enums.ParseInventoryReferenceType(strings.TrimSpace(payload.ReferenceType))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid reference type"))
			return
		}

		outcome, err := svc.Reserve(r.Context(), inventory.ReserveInput{
			InventoryID:   id,
			Amount:        payload.Amount,
			ReferenceType: refType,
			ReferenceID:   payload.ReferenceID,
			ExpiresAt:     payload.ExpiresAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeOutcome(r.Context(), logg, w, outcome, "insufficient available stock")
	}
}

// ReleaseReservation returns held stock to the sellable pool.
func ReleaseReservation(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return serviceUnavailable(logg)
	}
	return reservationHandler(logg, "insufficient reserved stock", svc.ReleaseReservation)
}

// ConfirmReservation converts held stock into a shipment.
func ConfirmReservation(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return serviceUnavailable(logg)
	}
	return reservationHandler(logg, "insufficient reserved stock", svc.ConfirmReservation)
}

func reservationHandler(
	logg *logger.Logger,
	rejectMsg string,
	settle func(context.Context, inventory.ReservationInput) (*inventory.MutationOutcome, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "inventoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload reservationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		outcome, err := settle(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeOutcome(r.Context(), logg, w, outcome, rejectMsg)
	}
}

// ListInventoryTransactions pages one inventory's log newest first.
func ListInventoryTransactions(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "inventoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, nextCursor, err := svc.ListTransactions(r.Context(), id, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"transactions": entries,
			"next_cursor":  nextCursor,
		})
	}
}

// ListTransactionsByReference returns every log entry tied to one business document.
func ListTransactionsByReference(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refType, err := enums.ParseInventoryReferenceType(strings.TrimSpace(r.URL.Query().Get("reference_type")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid reference type"))
			return
		}

		refID := strings.TrimSpace(r.URL.Query().Get("reference_id"))
		entries, err := svc.ListTransactionsByReference(r.Context(), refType, refID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"transactions": entries})
	}
}

// writeOutcome maps a guard rejection to a conflict response carrying the
// quantity snapshot; nothing about a rejection is a server error.
func writeOutcome(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, outcome *inventory.MutationOutcome, rejectMsg string) {
	if outcome != nil && !outcome.Success {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeConflict, rejectMsg).WithDetails(outcome))
		return
	}
	responses.WriteSuccess(w, outcome)
}

type createInventoryRequest struct {
	ProductID       string  `json:"product_id" validate:"required,uuid"`
	OptionID        *string `json:"option_id,omitempty" validate:"omitempty,uuid"`
	InitialQuantity int     `json:"initial_quantity" validate:"gte=0"`
}

type movementRequest struct {
	Amount        int     `json:"amount" validate:"required,gt=0"`
	Reason        string  `json:"reason" validate:"required"`
	ReferenceType *string `json:"reference_type,omitempty"`
	ReferenceID   *string `json:"reference_id,omitempty"`
	Note          *string `json:"note,omitempty"`
}

func (req movementRequest) toInput(ctx context.Context, id uuid.UUID) (inventory.MovementInput, error) {
	reason, err := enums.ParseInventoryTransactionReason(strings.TrimSpace(req.Reason))
	if err != nil {
		return inventory.MovementInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid reason")
	}

	refType, err := parseOptionalReferenceType(req.ReferenceType)
	if err != nil {
		return inventory.MovementInput{}, err
	}

	return inventory.MovementInput{
		InventoryID:   id,
		Amount:        req.Amount,
		Reason:        reason,
		ReferenceType: refType,
		ReferenceID:   req.ReferenceID,
		Note:          req.Note,
		ProcessedBy:   actorPointer(ctx),
	}, nil
}

type adjustRequest struct {
	Delta         int     `json:"delta" validate:"required"`
	Reason        string  `json:"reason" validate:"required"`
	ReferenceType *string `json:"reference_type,omitempty"`
	ReferenceID   *string `json:"reference_id,omitempty"`
	Note          *string `json:"note,omitempty"`
}

func (req adjustRequest) toInput(ctx context.Context, id uuid.UUID) (inventory.AdjustInput, error) {
	reason, err := enums.ParseInventoryTransactionReason(strings.TrimSpace(req.Reason))
	if err != nil {
		return inventory.AdjustInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid reason")
	}

	refType, err := parseOptionalReferenceType(req.ReferenceType)
	if err != nil {
		return inventory.AdjustInput{}, err
	}

	return inventory.AdjustInput{
		InventoryID:   id,
		Delta:         req.Delta,
		Reason:        reason,
		ReferenceType: refType,
		ReferenceID:   req.ReferenceID,
		Note:          req.Note,
		ProcessedBy:   actorPointer(ctx),
	}, nil
}

type reserveRequest struct {
	Amount        int        `json:"amount" validate:"required,gt=0"`
	ReferenceType string     `json:"reference_type" validate:"required"`
	ReferenceID   string     `json:"reference_id" validate:"required"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

type reservationRequest struct {
	Amount        int     `json:"amount" validate:"required,gt=0"`
	ReferenceType string  `json:"reference_type" validate:"required"`
	ReferenceID   string  `json:"reference_id" validate:"required"`
	Reason        *string `json:"reason,omitempty"`
	Note          *string `json:"note,omitempty"`
}

func (req reservationRequest) toInput(ctx context.Context, id uuid.UUID) (inventory.ReservationInput, error) {
	refType, err := enums.ParseInventoryReferenceType(strings.TrimSpace(req.ReferenceType))
	if err != nil {
		return inventory.ReservationInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid reference type")
	}

	input := inventory.ReservationInput{
		InventoryID:   id,
		Amount:        req.Amount,
		ReferenceType: refType,
		ReferenceID:   req.ReferenceID,
		Note:          req.Note,
		ProcessedBy:   actorPointer(ctx),
	}

	if req.Reason != nil {
		reason, err := enums.ParseInventoryTransactionReason(strings.TrimSpace(*req.Reason))
		if err != nil {
			return inventory.ReservationInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid reason")
		}
		input.Reason = reason
	}

	return input, nil
}

func parseOptionalReferenceType(raw *string) (*enums.InventoryReferenceType, error) {
	if raw == nil {
		return nil, nil
	}
	refType, err := enums.ParseInventoryReferenceType(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid reference type")
	}
	return &refType, nil
}

func actorPointer(ctx context.Context) *string {
	if actor := middleware.ActorFromContext(ctx); actor != "" {
		return &actor
	}
	return nil
}
