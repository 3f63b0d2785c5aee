package auth

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/staffgate/internal/infrastructure/database"
	"github.com/nerrad567/staffgate/internal/infrastructure/logging"
	_ "github.com/nerrad567/staffgate/migrations" // registers the schema
)

const testSecret = "test-secret-key-at-least-32-chars!"

// testDB creates a temporary SQLite database with the full schema applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "auth-test.db"),
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

// fastParams keeps Argon2id cheap in tests.
func fastParams() Argon2idParams {
	return Argon2idParams{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}
}

func testHasher() *Hasher {
	return NewArgon2idHasher(fastParams())
}

func testTokens(t *testing.T, now func() time.Time) *TokenService {
	t.Helper()
	tokens, err := NewTokenService(TokenConfig{Secret: testSecret, Issuer: "staffgate", TTL: time.Hour, Now: now})
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return tokens
}

func testService(t *testing.T) (*Service, *SQLiteAccountRepository) {
	t.Helper()
	repo := NewAccountRepository(testDB(t))
	svc, err := NewService(repo, testHasher(), testTokens(t, nil), logging.Discard().Logger)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc, repo
}

// seedTestAccount inserts an account with the given password.
func seedTestAccount(t *testing.T, repo AccountRepository, email, password string) *Account {
	t.Helper()
	hash, err := testHasher().Hash(password)
	if err != nil {
		t.Fatalf("hashing seed password: %v", err)
	}
	account := &Account{Username: "seed", Email: email, PasswordHash: hash}
	if err := repo.Create(context.Background(), account); err != nil {
		t.Fatalf("seeding account: %v", err)
	}
	return account
}
