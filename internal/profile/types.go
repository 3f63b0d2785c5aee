package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of date_joined.
const DateLayout = "2006-01-02"

// Department is a reference row.
type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Designation is a reference row.
type Designation struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RefID is a reference-table id. It decodes from a JSON number or a
// numeric string, since HTML forms submit select values as strings.
// Zero means absent.
type RefID int64

// UnmarshalJSON implements json.Unmarshaler.
func (id *RefID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*id = 0
			return nil
		}
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid reference id %s", data)
	}
	*id = RefID(n)
	return nil
}

// Input carries the caller-supplied profile fields.
type Input struct {
	EmployeeID    string `json:"employee_id"`
	Name          string `json:"name"`
	DepartmentID  RefID  `json:"department_id"`
	DesignationID RefID  `json:"designation_id"`
	DateJoined    string `json:"date_joined"`
}

// View is a stored profile joined with its reference names.
type View struct {
	AccountID       string    `json:"-"`
	EmployeeID      string    `json:"employee_id"`
	Name            string    `json:"name"`
	DepartmentID    int64     `json:"department_id"`
	DepartmentName  string    `json:"department_name"`
	DesignationID   int64     `json:"designation_id"`
	DesignationName string    `json:"designation_name"`
	DateJoined      string    `json:"date_joined"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
