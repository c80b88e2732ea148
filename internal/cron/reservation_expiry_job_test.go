package cron

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/minsukang/storelink-backend/internal/inventory"
	"github.com/minsukang/storelink-backend/pkg/config"
	"github.com/minsukang/storelink-backend/pkg/db"
	"github.com/minsukang/storelink-backend/pkg/db/models"
	"github.com/minsukang/storelink-backend/pkg/enums"
	"github.com/minsukang/storelink-backend/pkg/logger"
)

type expiryHarness struct {
	job    Job
	client *db.Client
	now    time.Time
}

func newExpiryHarness(t *testing.T) *expiryHarness {
	t.Helper()
	ctx := context.Background()

	client, err := db.New(ctx, config.DBConfig{
		DSN:    "file:expiry_" + uuid.NewString() + "?mode=memory&cache=shared",
		Driver: "sqlite",
	}, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.DB().AutoMigrate(&models.Inventory{}, &models.InventoryTransaction{}, &models.ReservationHold{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	now := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	logg := logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard})
	job, err := NewReservationExpiryJob(ReservationExpiryJobParams{
		Logger:      logg,
		DB:          client,
		Inventories: inventory.NewRepository(client.DB()),
		Holds:       inventory.NewHoldRepository(client.DB()),
	})
	if err != nil {
		t.Fatalf("build job: %v", err)
	}
	job.(*reservationExpiryJob).now = func() time.Time { return now }

	return &expiryHarness{job: job, client: client, now: now}
}

func (h *expiryHarness) seed(t *testing.T, quantity, reserved int) *models.Inventory {
	t.Helper()
	inv := &models.Inventory{ProductID: uuid.New(), Quantity: quantity, ReservedQuantity: reserved}
	if err := h.client.DB().Create(inv).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
	return inv
}

func (h *expiryHarness) addHold(t *testing.T, inventoryID uuid.UUID, quantity int, status enums.ReservationHoldStatus, expiresAt time.Time) *models.ReservationHold {
	t.Helper()
	hold := &models.ReservationHold{
		InventoryID:   inventoryID,
		Quantity:      quantity,
		Status:        status,
		ReferenceType: enums.InventoryReferenceOrder,
		ReferenceID:   "order-" + uuid.NewString(),
		ExpiresAt:     expiresAt,
	}
	if err := h.client.DB().Create(hold).Error; err != nil {
		t.Fatalf("seed hold: %v", err)
	}
	return hold
}

func TestReservationExpiryJobReleasesExpiredHolds(t *testing.T) {
	h := newExpiryHarness(t)
	inv := h.seed(t, 50, 20)

	expired := h.addHold(t, inv.ID, 12, enums.ReservationHoldStatusActive, h.now.Add(-time.Hour))
	fresh := h.addHold(t, inv.ID, 8, enums.ReservationHoldStatusActive, h.now.Add(time.Hour))

	if err := h.job.Run(context.Background()); err != nil {
		t.Fatalf("run job: %v", err)
	}

	var stored models.Inventory
	if err := h.client.DB().First(&stored, "id = ?", inv.ID).Error; err != nil {
		t.Fatalf("reload inventory: %v", err)
	}
	if stored.ReservedQuantity != 8 {
		t.Fatalf("expected 12 of 20 reserved released, got reserved %d", stored.ReservedQuantity)
	}
	if stored.Quantity != 50 {
		t.Fatalf("expiry must not touch physical quantity, got %d", stored.Quantity)
	}

	var holds []models.ReservationHold
	if err := h.client.DB().Order("expires_at ASC").Find(&holds).Error; err != nil {
		t.Fatalf("reload holds: %v", err)
	}
	byID := map[uuid.UUID]enums.ReservationHoldStatus{}
	for _, hold := range holds {
		byID[hold.ID] = hold.Status
	}
	if byID[expired.ID] != enums.ReservationHoldStatusExpired {
		t.Fatalf("expected expired status, got %s", byID[expired.ID])
	}
	if byID[fresh.ID] != enums.ReservationHoldStatusActive {
		t.Fatalf("fresh hold must stay active, got %s", byID[fresh.ID])
	}
}

func TestReservationExpiryJobSkipsSettledHolds(t *testing.T) {
	h := newExpiryHarness(t)
	inv := h.seed(t, 30, 5)

	// Already confirmed: the sweep must leave both the hold and the ledger alone.
	h.addHold(t, inv.ID, 5, enums.ReservationHoldStatusConfirmed, h.now.Add(-time.Hour))

	if err := h.job.Run(context.Background()); err != nil {
		t.Fatalf("run job: %v", err)
	}

	var stored models.Inventory
	if err := h.client.DB().First(&stored, "id = ?", inv.ID).Error; err != nil {
		t.Fatalf("reload inventory: %v", err)
	}
	if stored.ReservedQuantity != 5 {
		t.Fatalf("settled hold must not be released, got reserved %d", stored.ReservedQuantity)
	}
}

func TestReservationExpiryJobMarksInconsistentHoldExpired(t *testing.T) {
	h := newExpiryHarness(t)
	// Ledger says only 3 reserved, but the hold claims 10.
	inv := h.seed(t, 30, 3)
	hold := h.addHold(t, inv.ID, 10, enums.ReservationHoldStatusActive, h.now.Add(-time.Hour))

	if err := h.job.Run(context.Background()); err != nil {
		t.Fatalf("run job: %v", err)
	}

	var stored models.ReservationHold
	if err := h.client.DB().First(&stored, "id = ?", hold.ID).Error; err != nil {
		t.Fatalf("reload hold: %v", err)
	}
	if stored.Status != enums.ReservationHoldStatusExpired {
		t.Fatalf("inconsistent hold must still expire, got %s", stored.Status)
	}

	var ledger models.Inventory
	if err := h.client.DB().First(&ledger, "id = ?", inv.ID).Error; err != nil {
		t.Fatalf("reload inventory: %v", err)
	}
	if ledger.ReservedQuantity != 3 {
		t.Fatalf("guarded release must not underflow, got reserved %d", ledger.ReservedQuantity)
	}
}
