package profile

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/nerrad567/staffgate/internal/auth"
	"github.com/nerrad567/staffgate/internal/infrastructure/database"
	_ "github.com/nerrad567/staffgate/migrations" // registers the schema
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "profile-test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return db.DB
}

// seedAccount inserts an owning account and returns its id.
func seedAccount(t *testing.T, db *sql.DB, email string) string {
	t.Helper()
	account := &auth.Account{Username: "seed", Email: email, PasswordHash: "h"}
	if err := auth.NewAccountRepository(db).Create(context.Background(), account); err != nil {
		t.Fatalf("seeding account: %v", err)
	}
	return account.ID
}

func validInput() Input {
	return Input{
		EmployeeID:    "E001",
		Name:          "Alice",
		DepartmentID:  2,
		DesignationID: 3,
		DateJoined:    "2024-01-15",
	}
}
