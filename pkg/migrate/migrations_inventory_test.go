package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minsukang/storelink-backend/pkg/migrate"
)

func TestInventoryMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_inventories.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS inventories",
		"CHECK (quantity >= 0)",
		"CHECK (reserved_quantity >= 0)",
		"CHECK (reserved_quantity <= quantity)",
		"FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE",
		"ux_inventories_product_option",
		"WHERE option_id IS NULL",
		"DROP TABLE IF EXISTS inventories",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestTransactionMigrationEnforcesChain(t *testing.T) {
	content := readMigration(t, "*_create_inventory_transactions.sql")

	checks := []string{
		"CREATE TYPE inventory_transaction_type_enum",
		"CREATE TYPE inventory_transaction_reason_enum",
		"CREATE TYPE inventory_reference_type_enum",
		"CHECK (quantity <> 0)",
		"CHECK (current_quantity = previous_quantity + quantity)",
		"ix_inventory_transactions_inventory_created",
		"ix_inventory_transactions_reference",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestReservationHoldMigration(t *testing.T) {
	content := readMigration(t, "*_create_reservation_holds.sql")

	checks := []string{
		"CREATE TYPE reservation_hold_status_enum",
		"CHECK (quantity > 0)",
		"ix_reservation_holds_status_expires",
		"FOREIGN KEY (inventory_id) REFERENCES inventories(id) ON DELETE CASCADE",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migration dir invalid: %v", err)
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %s", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
