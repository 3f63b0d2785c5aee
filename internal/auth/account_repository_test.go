package auth

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestAccountRepository_CreateAndGet(t *testing.T) {
	repo := NewAccountRepository(testDB(t))
	ctx := context.Background()

	account := &Account{
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: "$argon2id$stub",
	}
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if account.ID == "" {
		t.Fatal("Create() should generate an ID")
	}
	if account.CreatedAt.IsZero() {
		t.Error("Create() should set CreatedAt")
	}

	got, err := repo.GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("Username = %q, want %q", got.Username, "alice")
	}
	if got.Email != "alice@x.com" {
		t.Errorf("Email = %q, want %q", got.Email, "alice@x.com")
	}
	if got.PasswordHash != "$argon2id$stub" {
		t.Errorf("PasswordHash = %q, want %q", got.PasswordHash, "$argon2id$stub")
	}

	byEmail, err := repo.GetByEmail(ctx, "alice@x.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if byEmail.ID != account.ID {
		t.Errorf("GetByEmail().ID = %q, want %q", byEmail.ID, account.ID)
	}
}

func TestAccountRepository_GetByEmail_NotFound(t *testing.T) {
	repo := NewAccountRepository(testDB(t))

	_, err := repo.GetByEmail(context.Background(), "nobody@x.com")
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrAccountNotFound", err)
	}
}

func TestAccountRepository_EmailIsCaseSensitive(t *testing.T) {
	repo := NewAccountRepository(testDB(t))
	ctx := context.Background()

	seedTestAccount(t, repo, "alice@x.com", "pw")

	if _, err := repo.GetByEmail(ctx, "Alice@X.com"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("GetByEmail(different case) error = %v, want ErrAccountNotFound", err)
	}
	other := &Account{Username: "alice2", Email: "Alice@X.com", PasswordHash: "h"}
	if err := repo.Create(ctx, other); err != nil {
		t.Errorf("Create(different case) error = %v, want nil", err)
	}
}

func TestAccountRepository_DuplicateEmail(t *testing.T) {
	repo := NewAccountRepository(testDB(t))
	ctx := context.Background()

	seedTestAccount(t, repo, "alice@x.com", "pw")

	dup := &Account{Username: "other", Email: "alice@x.com", PasswordHash: "h"}
	err := repo.Create(ctx, dup)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("Create() duplicate error = %v, want ErrDuplicateEmail", err)
	}
}

func TestAccountRepository_DuplicateID(t *testing.T) {
	repo := NewAccountRepository(testDB(t))
	ctx := context.Background()

	first := &Account{ID: "acc-fixed", Username: "a", Email: "a@x.com", PasswordHash: "h"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	second := &Account{ID: "acc-fixed", Username: "b", Email: "b@x.com", PasswordHash: "h"}
	err := repo.Create(ctx, second)
	if err == nil || errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("Create() with duplicate id error = %v, want a non-email error", err)
	}
}

func TestAccountRepository_ConcurrentDuplicateEmail(t *testing.T) {
	repo := NewAccountRepository(testDB(t))
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, &Account{Username: "racer", Email: "race@x.com", PasswordHash: "h"})
		}(i)
	}
	wg.Wait()

	var created, duplicates int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, ErrDuplicateEmail):
			duplicates++
		default:
			t.Errorf("Create() unexpected error = %v", err)
		}
	}
	if created != 1 || duplicates != workers-1 {
		t.Errorf("created=%d duplicates=%d, want 1 and %d", created, duplicates, workers-1)
	}
}

func TestAccountRepository_UpdatePasswordHash(t *testing.T) {
	repo := NewAccountRepository(testDB(t))
	ctx := context.Background()

	account := seedTestAccount(t, repo, "alice@x.com", "pw")

	if err := repo.UpdatePasswordHash(ctx, account.ID, "new-hash"); err != nil {
		t.Fatalf("UpdatePasswordHash() error = %v", err)
	}
	got, err := repo.GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.PasswordHash != "new-hash" {
		t.Errorf("PasswordHash = %q, want %q", got.PasswordHash, "new-hash")
	}

	if err := repo.UpdatePasswordHash(ctx, "acc-missing", "x"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("UpdatePasswordHash(missing) error = %v, want ErrAccountNotFound", err)
	}
}

func TestAccountRepository_Delete(t *testing.T) {
	repo := NewAccountRepository(testDB(t))
	ctx := context.Background()

	account := seedTestAccount(t, repo, "alice@x.com", "pw")

	if err := repo.Delete(ctx, account.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, account.ID); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrAccountNotFound", err)
	}
	if err := repo.Delete(ctx, account.ID); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrAccountNotFound", err)
	}
}

func TestAccountRepository_StoreFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewAccountRepository(db)
	ctx := context.Background()
	diskErr := errors.New("disk I/O error")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accounts")).WillReturnError(diskErr)
	err = repo.Create(ctx, &Account{Username: "a", Email: "a@x.com", PasswordHash: "h"})
	if !errors.Is(err, diskErr) || errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("Create() error = %v, want wrapped disk error", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE email = ?")).
		WithArgs("a@x.com").
		WillReturnError(diskErr)
	_, err = repo.GetByEmail(ctx, "a@x.com")
	if !errors.Is(err, diskErr) || errors.Is(err, ErrAccountNotFound) {
		t.Errorf("GetByEmail() error = %v, want wrapped disk error", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}
