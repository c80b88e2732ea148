package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minsukang/storelink-backend/internal/inventory"
	"github.com/minsukang/storelink-backend/pkg/db/models"
	"github.com/minsukang/storelink-backend/pkg/enums"
	pkgerrors "github.com/minsukang/storelink-backend/pkg/errors"
	"github.com/minsukang/storelink-backend/pkg/logger"
	"github.com/minsukang/storelink-backend/pkg/pagination"
	"github.com/minsukang/storelink-backend/pkg/types"
)

type stubInventoryService struct {
	outcome *inventory.MutationOutcome
	inv     *models.Inventory
	entries []models.InventoryTransaction
	cursor  string
	avail   int
	err     error

	lastMovement    *inventory.MovementInput
	lastReserve     *inventory.ReserveInput
	lastReservation *inventory.ReservationInput
}

func (s *stubInventoryService) CreateInventory(ctx context.Context, productID uuid.UUID, optionID *uuid.UUID, initialQuantity int) (*models.Inventory, error) {
	return s.inv, s.err
}

func (s *stubInventoryService) GetInventory(ctx context.Context, id uuid.UUID) (*models.Inventory, error) {
	return s.inv, s.err
}

func (s *stubInventoryService) GetInventoryByProductOption(ctx context.Context, productID uuid.UUID, optionID *uuid.UUID) (*models.Inventory, error) {
	return s.inv, s.err
}

func (s *stubInventoryService) GetAvailability(ctx context.Context, id uuid.UUID) (int, error) {
	return s.avail, s.err
}

func (s *stubInventoryService) ReceiveStock(ctx context.Context, input inventory.MovementInput) (*inventory.MutationOutcome, error) {
	s.lastMovement = &input
	return s.outcome, s.err
}

func (s *stubInventoryService) ShipStock(ctx context.Context, input inventory.MovementInput) (*inventory.MutationOutcome, error) {
	s.lastMovement = &input
	return s.outcome, s.err
}

func (s *stubInventoryService) AdjustStock(ctx context.Context, input inventory.AdjustInput) (*inventory.MutationOutcome, error) {
	return s.outcome, s.err
}

func (s *stubInventoryService) Reserve(ctx context.Context, input inventory.ReserveInput) (*inventory.MutationOutcome, error) {
	s.lastReserve = &input
	return s.outcome, s.err
}

func (s *stubInventoryService) ReleaseReservation(ctx context.Context, input inventory.ReservationInput) (*inventory.MutationOutcome, error) {
	s.lastReservation = &input
	return s.outcome, s.err
}

func (s *stubInventoryService) ConfirmReservation(ctx context.Context, input inventory.ReservationInput) (*inventory.MutationOutcome, error) {
	s.lastReservation = &input
	return s.outcome, s.err
}

func (s *stubInventoryService) ListTransactions(ctx context.Context, inventoryID uuid.UUID, params pagination.Params) ([]models.InventoryTransaction, string, error) {
	return s.entries, s.cursor, s.err
}

func (s *stubInventoryService) ListTransactionsByReference(ctx context.Context, refType enums.InventoryReferenceType, refID string) ([]models.InventoryTransaction, error) {
	return s.entries, s.err
}

func controllerLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test", Output: io.Discard})
}

func inventoryRequest(method, target, param string, body []byte) *http.Request {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("inventoryId", param)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestReceiveStockSuccess(t *testing.T) {
	invID := uuid.New()
	stub := &stubInventoryService{outcome: &inventory.MutationOutcome{
		InventoryID:       invID,
		Success:           true,
		PreviousQuantity:  10,
		CurrentQuantity:   16,
		AvailableQuantity: 16,
	}}
	handler := ReceiveStock(stub, controllerLogger())

	body := []byte(`{"amount":6,"reason":"WMS_INBOUND","note":"restock"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, inventoryRequest(http.MethodPost, "/api/v1/inventories/"+invID.String()+"/receive", invID.String(), body))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.lastMovement)
	assert.Equal(t, invID, stub.lastMovement.InventoryID)
	assert.Equal(t, 6, stub.lastMovement.Amount)
	assert.Equal(t, enums.InventoryReasonWMSInbound, stub.lastMovement.Reason)

	var envelope struct {
		Data inventory.MutationOutcome `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.True(t, envelope.Data.Success)
	assert.Equal(t, 16, envelope.Data.CurrentQuantity)
}

func TestShipStockGuardRejectionMapsToConflict(t *testing.T) {
	invID := uuid.New()
	stub := &stubInventoryService{outcome: &inventory.MutationOutcome{
		InventoryID:       invID,
		Success:           false,
		PreviousQuantity:  4,
		CurrentQuantity:   4,
		AvailableQuantity: 4,
	}}
	handler := ShipStock(stub, controllerLogger())

	body := []byte(`{"amount":9,"reason":"ORDER_SHIPMENT"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, inventoryRequest(http.MethodPost, "/api/v1/inventories/"+invID.String()+"/ship", invID.String(), body))

	require.Equal(t, http.StatusConflict, rec.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, string(pkgerrors.CodeConflict), envelope.Error.Code)
	require.NotNil(t, envelope.Error.Details, "rejection must carry the quantity snapshot")

	snapshot, ok := envelope.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(4), snapshot["current_quantity"])
	assert.Equal(t, false, snapshot["success"])
}

func TestShipStockRejectsUnknownReason(t *testing.T) {
	invID := uuid.New()
	stub := &stubInventoryService{}
	handler := ShipStock(stub, controllerLogger())

	body := []byte(`{"amount":9,"reason":"NOT_A_REASON"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, inventoryRequest(http.MethodPost, "/api/v1/inventories/"+invID.String()+"/ship", invID.String(), body))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, stub.lastMovement, "invalid payloads must not reach the service")
}

func TestReceiveStockRejectsInvalidInventoryID(t *testing.T) {
	handler := ReceiveStock(&stubInventoryService{}, controllerLogger())

	body := []byte(`{"amount":1,"reason":"WMS_INBOUND"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, inventoryRequest(http.MethodPost, "/api/v1/inventories/nope/receive", "not-a-uuid", body))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReserveForwardsReference(t *testing.T) {
	invID := uuid.New()
	stub := &stubInventoryService{outcome: &inventory.MutationOutcome{
		InventoryID:       invID,
		Success:           true,
		CurrentQuantity:   100,
		ReservedQuantity:  30,
		AvailableQuantity: 70,
	}}
	handler := Reserve(stub, controllerLogger())

	body := []byte(`{"amount":30,"reference_type":"ORDER","reference_id":"order-77"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, inventoryRequest(http.MethodPost, "/api/v1/inventories/"+invID.String()+"/reserve", invID.String(), body))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.lastReserve)
	assert.Equal(t, enums.InventoryReferenceOrder, stub.lastReserve.ReferenceType)
	assert.Equal(t, "order-77", stub.lastReserve.ReferenceID)
}

func TestConfirmReservationGuardRejection(t *testing.T) {
	invID := uuid.New()
	stub := &stubInventoryService{outcome: &inventory.MutationOutcome{
		InventoryID: invID,
		Success:     false,
	}}
	handler := ConfirmReservation(stub, controllerLogger())

	body := []byte(`{"amount":5,"reference_type":"ORDER","reference_id":"order-77"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, inventoryRequest(http.MethodPost, "/api/v1/inventories/"+invID.String()+"/confirm", invID.String(), body))

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateInventoryReturnsCreated(t *testing.T) {
	productID := uuid.New()
	stub := &stubInventoryService{inv: &models.Inventory{ProductID: productID, Quantity: 0}}
	handler := CreateInventory(stub, controllerLogger())

	body := []byte(`{"product_id":"` + productID.String() + `","initial_quantity":0}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventories", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateInventoryDuplicateConflict(t *testing.T) {
	productID := uuid.New()
	stub := &stubInventoryService{err: pkgerrors.New(pkgerrors.CodeConflict, "inventory already exists for this product and option")}
	handler := CreateInventory(stub, controllerLogger())

	body := []byte(`{"product_id":"` + productID.String() + `","initial_quantity":3}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventories", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestListInventoryTransactionsRejectsBadLimit(t *testing.T) {
	invID := uuid.New()
	handler := ListInventoryTransactions(&stubInventoryService{}, controllerLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, inventoryRequest(http.MethodGet, "/api/v1/inventories/"+invID.String()+"/transactions?limit=9999", invID.String(), nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTransactionsByReferenceRequiresValidType(t *testing.T) {
	handler := ListTransactionsByReference(&stubInventoryService{}, controllerLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory-transactions?reference_type=BOGUS&reference_id=x", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAvailability(t *testing.T) {
	invID := uuid.New()
	handler := GetAvailability(&stubInventoryService{avail: 42}, controllerLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, inventoryRequest(http.MethodGet, "/api/v1/inventories/"+invID.String()+"/availability", invID.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, float64(42), envelope.Data["available_quantity"])
}
