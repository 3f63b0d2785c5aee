package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/staffgate/internal/infrastructure/database"
)

// Repository persists employee profiles keyed by owning account.
type Repository interface {
	// Save creates or replaces the account's profile and returns the
	// stored view.
	Save(ctx context.Context, accountID string, in Input) (*View, error)
	GetByAccount(ctx context.Context, accountID string) (*View, error)
	ListDepartments(ctx context.Context) ([]Department, error)
	ListDesignations(ctx context.Context) ([]Designation, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed profile repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save validates in and upserts the profile owned by accountID.
func (r *SQLiteRepository) Save(ctx context.Context, accountID string, in Input) (*View, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	in = normalise(in)

	now := time.Now().UTC().Format(time.RFC3339)

	const query = `
		INSERT INTO employees (employee_id, account_id, name, department_id, designation_id, date_joined, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			employee_id    = excluded.employee_id,
			name           = excluded.name,
			department_id  = excluded.department_id,
			designation_id = excluded.designation_id,
			date_joined    = excluded.date_joined,
			updated_at     = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		in.EmployeeID, accountID, in.Name,
		int64(in.DepartmentID), int64(in.DesignationID),
		in.DateJoined, now, now,
	)
	if err != nil {
		switch {
		case database.IsUniqueViolation(err) && database.UniqueViolationColumn(err) == "employees.employee_id":
			return nil, ErrEmployeeIDTaken
		case database.IsForeignKeyViolation(err):
			return nil, r.diagnoseReference(ctx, in)
		}
		return nil, fmt.Errorf("saving profile for %s: %w", accountID, err)
	}

	return r.GetByAccount(ctx, accountID)
}

// diagnoseReference works out which foreign key a failed save broke.
// SQLite does not name the violated key.
func (r *SQLiteRepository) diagnoseReference(ctx context.Context, in Input) error {
	var deptOK, desigOK bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM departments WHERE id = ?),
		        EXISTS(SELECT 1 FROM designations WHERE id = ?)`,
		int64(in.DepartmentID), int64(in.DesignationID),
	).Scan(&deptOK, &desigOK)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidReference, err)
	}

	switch {
	case !deptOK:
		return &ReferenceError{Field: "department_id", ID: int64(in.DepartmentID)}
	case !desigOK:
		return &ReferenceError{Field: "designation_id", ID: int64(in.DesignationID)}
	default:
		return ErrOwnerNotFound
	}
}

// GetByAccount returns the account's profile joined with reference names.
func (r *SQLiteRepository) GetByAccount(ctx context.Context, accountID string) (*View, error) {
	const query = `
		SELECT e.account_id, e.employee_id, e.name,
		       e.department_id, d.name, e.designation_id, g.name,
		       e.date_joined, e.created_at, e.updated_at
		FROM employees e
		JOIN departments d ON d.id = e.department_id
		JOIN designations g ON g.id = e.designation_id
		WHERE e.account_id = ?`

	var v View
	var createdAt, updatedAt string
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&v.AccountID, &v.EmployeeID, &v.Name,
		&v.DepartmentID, &v.DepartmentName, &v.DesignationID, &v.DesignationName,
		&v.DateJoined, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("querying profile for %s: %w", accountID, err)
	}

	v.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	v.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &v, nil
}

// ListDepartments returns all departments ordered by id.
func (r *SQLiteRepository) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM departments ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying departments: %w", err)
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("scanning department: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating departments: %w", err)
	}
	return out, nil
}

// ListDesignations returns all designations ordered by id.
func (r *SQLiteRepository) ListDesignations(ctx context.Context) ([]Designation, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM designations ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying designations: %w", err)
	}
	defer rows.Close()

	var out []Designation
	for rows.Next() {
		var d Designation
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("scanning designation: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating designations: %w", err)
	}
	return out, nil
}
