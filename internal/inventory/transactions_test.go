package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/minsukang/storelink-backend/pkg/enums"
	pkgerrors "github.com/minsukang/storelink-backend/pkg/errors"
	"github.com/minsukang/storelink-backend/pkg/pagination"
)

func TestNewInboundTransaction(t *testing.T) {
	inventoryID := uuid.New()
	record, err := NewInboundTransaction(TransactionInput{
		InventoryID:      inventoryID,
		Reason:           enums.InventoryReasonWMSInbound,
		Amount:           10,
		PreviousQuantity: 5,
		CurrentQuantity:  15,
	})
	if err != nil {
		t.Fatalf("inbound: %v", err)
	}
	if record.Type != enums.InventoryTransactionTypeInbound {
		t.Fatalf("unexpected type %s", record.Type)
	}
	if record.Quantity != 10 {
		t.Fatalf("inbound quantity must be stored positive, got %d", record.Quantity)
	}
	if record.CurrentQuantity != record.PreviousQuantity+record.Quantity {
		t.Fatalf("snapshot chain broken: %+v", record)
	}
}

func TestNewOutboundTransactionStoresNegative(t *testing.T) {
	record, err := NewOutboundTransaction(TransactionInput{
		InventoryID:      uuid.New(),
		Reason:           enums.InventoryReasonOrderShipment,
		Amount:           4,
		PreviousQuantity: 10,
		CurrentQuantity:  6,
	})
	if err != nil {
		t.Fatalf("outbound: %v", err)
	}
	if record.Quantity != -4 {
		t.Fatalf("outbound quantity must be stored negative, got %d", record.Quantity)
	}
	if record.CurrentQuantity != record.PreviousQuantity+record.Quantity {
		t.Fatalf("snapshot chain broken: %+v", record)
	}
}

func TestNewAdjustmentTransactionKeepsSign(t *testing.T) {
	for _, tc := range []struct {
		delta    int
		previous int
		current  int
	}{
		{delta: 3, previous: 10, current: 13},
		{delta: -2, previous: 10, current: 8},
	} {
		record, err := NewAdjustmentTransaction(TransactionInput{
			InventoryID:      uuid.New(),
			Reason:           enums.InventoryReasonManualAdjustment,
			Amount:           tc.delta,
			PreviousQuantity: tc.previous,
			CurrentQuantity:  tc.current,
		})
		if err != nil {
			t.Fatalf("delta %d: %v", tc.delta, err)
		}
		if record.Quantity != tc.delta {
			t.Fatalf("delta %d: stored %d", tc.delta, record.Quantity)
		}
	}
}

func TestTransactionConstructorsRejectMismatchedReason(t *testing.T) {
	// ORDER_SHIPMENT is an outbound reason; the inbound constructor must
	// refuse it.
	_, err := NewInboundTransaction(TransactionInput{
		InventoryID:      uuid.New(),
		Reason:           enums.InventoryReasonOrderShipment,
		Amount:           5,
		PreviousQuantity: 0,
		CurrentQuantity:  5,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = NewOutboundTransaction(TransactionInput{
		InventoryID:      uuid.New(),
		Reason:           enums.InventoryReasonDamage,
		Amount:           5,
		PreviousQuantity: 5,
		CurrentQuantity:  0,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = NewAdjustmentTransaction(TransactionInput{
		InventoryID:      uuid.New(),
		Reason:           enums.InventoryTransactionReason("NOT_A_REASON"),
		Amount:           1,
		PreviousQuantity: 1,
		CurrentQuantity:  2,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown reason, got %v", err)
	}
}

func TestTransactionConstructorsRejectBrokenSnapshot(t *testing.T) {
	_, err := NewInboundTransaction(TransactionInput{
		InventoryID:      uuid.New(),
		Reason:           enums.InventoryReasonWMSInbound,
		Amount:           5,
		PreviousQuantity: 10,
		CurrentQuantity:  14,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTransactionRepository_ListByInventoryPagination(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	repo := NewTransactionRepository(conn)
	inventoryID := uuid.New()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	quantity := 0
	for i := 0; i < 5; i++ {
		quantity += 2
		record, err := NewInboundTransaction(TransactionInput{
			InventoryID:      inventoryID,
			Reason:           enums.InventoryReasonWMSInbound,
			Amount:           2,
			PreviousQuantity: quantity - 2,
			CurrentQuantity:  quantity,
		})
		if err != nil {
			t.Fatalf("build record %d: %v", i, err)
		}
		record.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("append record %d: %v", i, err)
		}
	}

	page, next, err := repo.ListByInventory(ctx, inventoryID, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(page) != 2 || next == "" {
		t.Fatalf("expected full first page with cursor, got %d rows next=%q", len(page), next)
	}
	if !page[0].CreatedAt.After(page[1].CreatedAt) {
		t.Fatalf("expected newest-first ordering, got %v then %v", page[0].CreatedAt, page[1].CreatedAt)
	}

	seen := map[uuid.UUID]bool{page[0].ID: true, page[1].ID: true}
	total := 2
	for next != "" {
		page, next, err = repo.ListByInventory(ctx, inventoryID, pagination.Params{Limit: 2, Cursor: next})
		if err != nil {
			t.Fatalf("follow cursor: %v", err)
		}
		for _, row := range page {
			if seen[row.ID] {
				t.Fatalf("row %s returned twice", row.ID)
			}
			seen[row.ID] = true
		}
		total += len(page)
	}
	if total != 5 {
		t.Fatalf("expected 5 rows across pages, got %d", total)
	}
}

func TestTransactionRepository_ListByInventoryRejectsBadCursor(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(newTestDB(t))

	_, _, err := repo.ListByInventory(ctx, uuid.New(), pagination.Params{Cursor: "not-a-cursor"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTransactionRepository_ListByReference(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	repo := NewTransactionRepository(conn)

	refType := enums.InventoryReferenceOrder
	refID := "order-123"
	record, err := NewOutboundTransaction(TransactionInput{
		InventoryID:      uuid.New(),
		Reason:           enums.InventoryReasonOrderShipment,
		Amount:           1,
		PreviousQuantity: 1,
		CurrentQuantity:  0,
		ReferenceType:    &refType,
		ReferenceID:      &refID,
	})
	if err != nil {
		t.Fatalf("build record: %v", err)
	}
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("append record: %v", err)
	}

	rows, err := repo.ListByReference(ctx, refType, refID)
	if err != nil {
		t.Fatalf("list by reference: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != record.ID {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	rows, err = repo.ListByReference(ctx, refType, "order-999")
	if err != nil {
		t.Fatalf("list unknown reference: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}
