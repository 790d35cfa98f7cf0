package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/worklog/internal/db"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const sessionColumns = `id, owner_id, project_id, started_at, ended_at, active, paused, paused_at, note, created_at, updated_at`

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo.
func NewSQLiteSessionRepo(db db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: db}
}

var _ SessionRepo = (*SQLiteSessionRepo)(nil)

// Create inserts s, assigning an id when empty. The partial unique index on
// active sessions turns a racing second start into ErrDuplicateActiveSession.
func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `INSERT INTO sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.OwnerID,
		s.ProjectID,
		formatTime(s.StartedAt),
		nullableTimeToString(s.EndedAt),
		boolToInt(s.Active),
		boolToInt(s.Paused),
		nullableTimeToString(s.PausedAt),
		s.Note,
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
	)
	if err != nil {
		if isActiveSessionConflict(err) {
			return domain.ErrDuplicateActiveSession
		}
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`
	return r.scanSession(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteSessionRepo) FindActiveByOwner(ctx context.Context, ownerID string) (*domain.Session, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE owner_id = ? AND active = 1`
	return r.scanSession(r.db.QueryRowContext(ctx, query, ownerID))
}

func (r *SQLiteSessionRepo) ExistsActiveByOwner(ctx context.Context, ownerID string) (bool, error) {
	if err := validateOwner(ownerID); err != nil {
		return false, err
	}
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM sessions WHERE owner_id = ? AND active = 1)`, ownerID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking active session: %w", err)
	}
	return intToBool(exists), nil
}

func (r *SQLiteSessionRepo) UpdateIfState(ctx context.Context, s *domain.Session, expected ...domain.State) error {
	if err := s.Validate(); err != nil {
		return err
	}
	clause, err := stateClause(expected, func(active, paused bool) string {
		return fmt.Sprintf("(active = %d AND paused = %d)", boolToInt(active), boolToInt(paused))
	})
	if err != nil {
		return err
	}

	query := `UPDATE sessions
		SET ended_at = ?, active = ?, paused = ?, paused_at = ?, note = ?, updated_at = ?
		WHERE id = ? AND owner_id = ? AND ` + clause
	res, err := r.db.ExecContext(ctx, query,
		nullableTimeToString(s.EndedAt),
		boolToInt(s.Active),
		boolToInt(s.Paused),
		nullableTimeToString(s.PausedAt),
		s.Note,
		formatTime(s.UpdatedAt),
		s.ID,
		s.OwnerID,
	)
	if err != nil {
		if isActiveSessionConflict(err) {
			return domain.ErrDuplicateActiveSession
		}
		return fmt.Errorf("updating session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading update result: %w", err)
	}
	if n == 1 {
		return nil
	}

	// Nothing matched: either the row is gone or its state moved on.
	if _, err := r.FindByID(ctx, s.ID); err != nil {
		return err
	}
	return domain.ErrStateConflict
}

func (r *SQLiteSessionRepo) ListByOwner(ctx context.Context, ownerID string, page, pageSize int) (domain.SessionPage, error) {
	if err := validateOwner(ownerID); err != nil {
		return domain.SessionPage{}, err
	}
	page, pageSize = normalizePage(page, pageSize)

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sessions WHERE owner_id = ?`, ownerID,
	).Scan(&total); err != nil {
		return domain.SessionPage{}, fmt.Errorf("counting sessions: %w", err)
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE owner_id = ?
		ORDER BY started_at DESC, id DESC
		LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, ownerID, pageSize, (page-1)*pageSize)
	if err != nil {
		return domain.SessionPage{}, fmt.Errorf("listing sessions by owner: %w", err)
	}
	defer rows.Close()

	sessions, err := r.scanSessions(rows)
	if err != nil {
		return domain.SessionPage{}, err
	}
	return domain.SessionPage{
		Sessions:   sessions,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}, nil
}

func (r *SQLiteSessionRepo) ListCompletedByOwnerAndProject(ctx context.Context, ownerID, projectID string) ([]*domain.Session, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE owner_id = ? AND project_id = ? AND active = 0 AND ended_at IS NOT NULL
		ORDER BY started_at`
	return r.listCompleted(ctx, "listing completed sessions by project", query, ownerID, projectID)
}

func (r *SQLiteSessionRepo) ListCompletedByOwnerAndDateRange(ctx context.Context, ownerID string, start, end time.Time) ([]*domain.Session, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE owner_id = ? AND active = 0 AND ended_at IS NOT NULL
		  AND started_at >= ? AND started_at < ?
		ORDER BY started_at`
	return r.listCompleted(ctx, "listing completed sessions by date range", query, ownerID, formatTime(start), formatTime(end))
}

func (r *SQLiteSessionRepo) ListCompletedByOwnerAndYear(ctx context.Context, ownerID string, year int, loc *time.Location) ([]*domain.Session, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	start, end := domain.YearBounds(year, loc)
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE owner_id = ? AND active = 0 AND ended_at IS NOT NULL
		  AND ended_at >= ? AND ended_at < ?
		ORDER BY ended_at`
	return r.listCompleted(ctx, "listing completed sessions by year", query, ownerID, formatTime(start), formatTime(end))
}

func (r *SQLiteSessionRepo) DeleteAllByProject(ctx context.Context, projectID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE project_id = ?`, projectID)
	if err != nil {
		return 0, fmt.Errorf("deleting sessions by project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading delete result: %w", err)
	}
	return n, nil
}

func (r *SQLiteSessionRepo) listCompleted(ctx context.Context, op, query string, args ...any) ([]*domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSession scans a single session from a *sql.Row.
func (r *SQLiteSessionRepo) scanSession(row *sql.Row) (*domain.Session, error) {
	s, err := scanSessionRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, err
	}
	return s, nil
}

// scanSessions scans multiple sessions from *sql.Rows.
func (r *SQLiteSessionRepo) scanSessions(rows *sql.Rows) ([]*domain.Session, error) {
	var sessions []*domain.Session
	for rows.Next() {
		s, err := scanSessionRow(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

func scanSessionRow(row rowScanner) (*domain.Session, error) {
	var s domain.Session
	var startedAtStr, createdAtStr, updatedAtStr string
	var endedAt, pausedAt sql.NullString
	var active, paused int

	err := row.Scan(
		&s.ID, &s.OwnerID, &s.ProjectID, &startedAtStr, &endedAt,
		&active, &paused, &pausedAt, &s.Note, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	s.Active = intToBool(active)
	s.Paused = intToBool(paused)

	if s.StartedAt, err = parseTime(startedAtStr); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if s.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if s.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	if s.EndedAt, err = parseNullableTime(endedAt); err != nil {
		return nil, fmt.Errorf("parsing ended_at: %w", err)
	}
	if s.PausedAt, err = parseNullableTime(pausedAt); err != nil {
		return nil, fmt.Errorf("parsing paused_at: %w", err)
	}
	return &s, nil
}

// isActiveSessionConflict reports whether err is the unique-index violation
// raised when a second active session is written for an owner.
func isActiveSessionConflict(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	if code != sqlite3.SQLITE_CONSTRAINT && code != sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "owner_id")
}
