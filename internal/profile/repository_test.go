package profile

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSQLiteRepository_SaveAndGet(t *testing.T) {
	db := testDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()
	accountID := seedAccount(t, db, "alice@x.com")

	saved, err := repo.Save(ctx, accountID, validInput())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.DepartmentName != "Engineering" {
		t.Errorf("DepartmentName = %q, want %q", saved.DepartmentName, "Engineering")
	}
	if saved.DesignationName != "Senior Software Engineer" {
		t.Errorf("DesignationName = %q, want %q", saved.DesignationName, "Senior Software Engineer")
	}

	got, err := repo.GetByAccount(ctx, accountID)
	if err != nil {
		t.Fatalf("GetByAccount() error = %v", err)
	}
	if got.EmployeeID != "E001" || got.Name != "Alice" || got.DateJoined != "2024-01-15" {
		t.Errorf("GetByAccount() = %+v", got)
	}
	if got.AccountID != accountID {
		t.Errorf("AccountID = %q, want %q", got.AccountID, accountID)
	}
}

func TestSQLiteRepository_SaveReplacesExisting(t *testing.T) {
	db := testDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()
	accountID := seedAccount(t, db, "alice@x.com")

	first, err := repo.Save(ctx, accountID, validInput())
	if err != nil {
		t.Fatalf("first Save() error = %v", err)
	}

	in := validInput()
	in.Name = "Alice Smith"
	in.DesignationID = 4
	second, err := repo.Save(ctx, accountID, in)
	if err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	if second.Name != "Alice Smith" || second.DesignationName != "Manager" {
		t.Errorf("second Save() = %+v", second)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed on update: %v -> %v", first.CreatedAt, second.CreatedAt)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM employees WHERE account_id = ?", accountID).Scan(&count); err != nil {
		t.Fatalf("counting profiles: %v", err)
	}
	if count != 1 {
		t.Errorf("profiles for account = %d, want 1", count)
	}
}

func TestSQLiteRepository_TrimsFields(t *testing.T) {
	db := testDB(t)
	repo := NewSQLiteRepository(db)
	accountID := seedAccount(t, db, "alice@x.com")

	in := validInput()
	in.EmployeeID = "  E001 "
	in.Name = " Alice "
	saved, err := repo.Save(context.Background(), accountID, in)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.EmployeeID != "E001" || saved.Name != "Alice" {
		t.Errorf("Save() did not trim: %+v", saved)
	}
}

func TestSQLiteRepository_EmployeeIDTaken(t *testing.T) {
	db := testDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	alice := seedAccount(t, db, "alice@x.com")
	bob := seedAccount(t, db, "bob@x.com")

	if _, err := repo.Save(ctx, alice, validInput()); err != nil {
		t.Fatalf("Save(alice) error = %v", err)
	}
	_, err := repo.Save(ctx, bob, validInput())
	if !errors.Is(err, ErrEmployeeIDTaken) {
		t.Errorf("Save(bob) error = %v, want ErrEmployeeIDTaken", err)
	}
}

func TestSQLiteRepository_InvalidReference(t *testing.T) {
	db := testDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()
	accountID := seedAccount(t, db, "alice@x.com")

	tests := []struct {
		name  string
		in    func() Input
		field string
	}{
		{"department", func() Input { in := validInput(); in.DepartmentID = 999; return in }, "department_id"},
		{"designation", func() Input { in := validInput(); in.DesignationID = 999; return in }, "designation_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Save(ctx, accountID, tt.in())
			if !errors.Is(err, ErrInvalidReference) {
				t.Fatalf("Save() error = %v, want ErrInvalidReference", err)
			}
			var refErr *ReferenceError
			if !errors.As(err, &refErr) || refErr.Field != tt.field {
				t.Errorf("Save() error = %v, want ReferenceError on %s", err, tt.field)
			}
		})
	}

	if _, err := repo.GetByAccount(ctx, accountID); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("rejected save left a profile behind: %v", err)
	}
}

func TestSQLiteRepository_OwnerMissing(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))

	_, err := repo.Save(context.Background(), "acc-gone", validInput())
	if !errors.Is(err, ErrOwnerNotFound) {
		t.Errorf("Save() error = %v, want ErrOwnerNotFound", err)
	}
}

func TestSQLiteRepository_ValidationRejectedBeforeStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	in := validInput()
	in.Name = ""
	_, err = NewSQLiteRepository(db).Save(context.Background(), "acc-1", in)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Save() error = %v, want ErrValidation", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected store access: %v", err)
	}
}

func TestSQLiteRepository_GetByAccount_NotFound(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))

	_, err := repo.GetByAccount(context.Background(), "acc-none")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("GetByAccount() error = %v, want ErrProfileNotFound", err)
	}
}

func TestSQLiteRepository_CascadeOnAccountDelete(t *testing.T) {
	db := testDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()
	accountID := seedAccount(t, db, "alice@x.com")

	if _, err := repo.Save(ctx, accountID, validInput()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", accountID); err != nil {
		t.Fatalf("deleting account: %v", err)
	}
	if _, err := repo.GetByAccount(ctx, accountID); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("GetByAccount() after account delete error = %v, want ErrProfileNotFound", err)
	}
}

func TestSQLiteRepository_ReferenceLists(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	depts, err := repo.ListDepartments(ctx)
	if err != nil {
		t.Fatalf("ListDepartments() error = %v", err)
	}
	if len(depts) != 5 || depts[0].Name != "Human Resources" {
		t.Errorf("ListDepartments() = %+v", depts)
	}

	desigs, err := repo.ListDesignations(ctx)
	if err != nil {
		t.Fatalf("ListDesignations() error = %v", err)
	}
	if len(desigs) != 5 || desigs[4].Name != "Director" {
		t.Errorf("ListDesignations() = %+v", desigs)
	}
}

func TestSQLiteRepository_StoreFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewSQLiteRepository(db)
	ctx := context.Background()
	diskErr := errors.New("disk I/O error")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO employees")).WillReturnError(diskErr)
	if _, err := repo.Save(ctx, "acc-1", validInput()); !errors.Is(err, diskErr) {
		t.Errorf("Save() error = %v, want wrapped disk error", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM employees e")).WithArgs("acc-1").WillReturnError(diskErr)
	_, err = repo.GetByAccount(ctx, "acc-1")
	if !errors.Is(err, diskErr) || errors.Is(err, ErrProfileNotFound) {
		t.Errorf("GetByAccount() error = %v, want wrapped disk error", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM departments")).WillReturnError(diskErr)
	if _, err := repo.ListDepartments(ctx); !errors.Is(err, diskErr) {
		t.Errorf("ListDepartments() error = %v, want wrapped disk error", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}
