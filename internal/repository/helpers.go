package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
)

// timeLayout is a fixed-width UTC layout so stored timestamps compare
// correctly as text in SQLite range queries.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// formatTime renders t in UTC using timeLayout.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses a timestamp written by formatTime. Plain RFC3339 values
// are accepted too.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, s)
	}
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// parseNullableTime parses a sql.NullString into a *time.Time.
// Returns nil if the value is NULL or empty.
func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil, otherwise returns the formatted string.
func nullableTimeToString(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// normalizePage clamps page to >= 1 and pageSize to [1, maxPageSize],
// defaulting a non-positive size.
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// stateClause renders a SQL predicate matching any of the expected states.
// render formats one (active, paused) pair, e.g. "(active = 1 AND paused = 0)".
func stateClause(expected []domain.State, render func(active, paused bool) string) (string, error) {
	if len(expected) == 0 {
		return "", fmt.Errorf("%w: at least one expected state is required", domain.ErrInvalidInput)
	}
	parts := make([]string, 0, len(expected))
	for _, st := range expected {
		if !st.Valid() {
			return "", fmt.Errorf("%w: unknown state %q", domain.ErrInvalidInput, st)
		}
		parts = append(parts, render(st.Flags()))
	}
	return "(" + strings.Join(parts, " OR ") + ")", nil
}

// stateIn reports whether st is one of expected.
func stateIn(st domain.State, expected []domain.State) bool {
	for _, e := range expected {
		if e == st {
			return true
		}
	}
	return false
}

// validateOwner rejects blank owner ids before they reach a query.
func validateOwner(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return fmt.Errorf("%w: owner id is required", domain.ErrInvalidInput)
	}
	return nil
}
