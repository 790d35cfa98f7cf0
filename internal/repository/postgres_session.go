package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/worklog/internal/db"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// PostgresSessionRepo implements SessionRepo on a pgx connection pool.
type PostgresSessionRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresSessionRepo creates a new PostgresSessionRepo.
func NewPostgresSessionRepo(pool *pgxpool.Pool) *PostgresSessionRepo {
	return &PostgresSessionRepo{pool: pool}
}

var _ SessionRepo = (*PostgresSessionRepo)(nil)

func (r *PostgresSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (`+sessionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.OwnerID, s.ProjectID, s.StartedAt.UTC(), utcPtr(s.EndedAt),
		s.Active, s.Paused, utcPtr(s.PausedAt), s.Note, s.CreatedAt.UTC(), s.UpdatedAt.UTC(),
	)
	if err != nil {
		if isPgActiveSessionConflict(err) {
			return domain.ErrDuplicateActiveSession
		}
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (r *PostgresSessionRepo) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	return r.findOne(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
}

func (r *PostgresSessionRepo) FindActiveByOwner(ctx context.Context, ownerID string) (*domain.Session, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	return r.findOne(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE owner_id = $1 AND active`, ownerID)
}

func (r *PostgresSessionRepo) ExistsActiveByOwner(ctx context.Context, ownerID string) (bool, error) {
	if err := validateOwner(ownerID); err != nil {
		return false, err
	}
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM sessions WHERE owner_id = $1 AND active)`, ownerID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking active session: %w", err)
	}
	return exists, nil
}

func (r *PostgresSessionRepo) UpdateIfState(ctx context.Context, s *domain.Session, expected ...domain.State) error {
	if err := s.Validate(); err != nil {
		return err
	}
	clause, err := stateClause(expected, func(active, paused bool) string {
		return fmt.Sprintf("(active = %t AND paused = %t)", active, paused)
	})
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE sessions
		 SET ended_at = $1, active = $2, paused = $3, paused_at = $4, note = $5, updated_at = $6
		 WHERE id = $7 AND owner_id = $8 AND `+clause,
		utcPtr(s.EndedAt), s.Active, s.Paused, utcPtr(s.PausedAt), s.Note, s.UpdatedAt.UTC(),
		s.ID, s.OwnerID,
	)
	if err != nil {
		if isPgActiveSessionConflict(err) {
			return domain.ErrDuplicateActiveSession
		}
		return fmt.Errorf("updating session: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	if _, err := r.FindByID(ctx, s.ID); err != nil {
		return err
	}
	return domain.ErrStateConflict
}

func (r *PostgresSessionRepo) ListByOwner(ctx context.Context, ownerID string, page, pageSize int) (domain.SessionPage, error) {
	if err := validateOwner(ownerID); err != nil {
		return domain.SessionPage{}, err
	}
	page, pageSize = normalizePage(page, pageSize)

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM sessions WHERE owner_id = $1`, ownerID,
	).Scan(&total); err != nil {
		return domain.SessionPage{}, fmt.Errorf("counting sessions: %w", err)
	}

	sessions, err := r.list(ctx, "listing sessions by owner",
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE owner_id = $1
		 ORDER BY started_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		ownerID, pageSize, (page-1)*pageSize,
	)
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

func (r *PostgresSessionRepo) ListCompletedByOwnerAndProject(ctx context.Context, ownerID, projectID string) ([]*domain.Session, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	return r.list(ctx, "listing completed sessions by project",
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE owner_id = $1 AND project_id = $2 AND NOT active AND ended_at IS NOT NULL
		 ORDER BY started_at`,
		ownerID, projectID,
	)
}

func (r *PostgresSessionRepo) ListCompletedByOwnerAndDateRange(ctx context.Context, ownerID string, start, end time.Time) ([]*domain.Session, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	return r.list(ctx, "listing completed sessions by date range",
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE owner_id = $1 AND NOT active AND ended_at IS NOT NULL
		   AND started_at >= $2 AND started_at < $3
		 ORDER BY started_at`,
		ownerID, start.UTC(), end.UTC(),
	)
}

func (r *PostgresSessionRepo) ListCompletedByOwnerAndYear(ctx context.Context, ownerID string, year int, loc *time.Location) ([]*domain.Session, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	start, end := domain.YearBounds(year, loc)
	return r.list(ctx, "listing completed sessions by year",
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE owner_id = $1 AND NOT active AND ended_at IS NOT NULL
		   AND ended_at >= $2 AND ended_at < $3
		 ORDER BY ended_at`,
		ownerID, start.UTC(), end.UTC(),
	)
}

func (r *PostgresSessionRepo) DeleteAllByProject(ctx context.Context, projectID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE project_id = $1`, projectID)
	if err != nil {
		return 0, fmt.Errorf("deleting sessions by project: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresSessionRepo) findOne(ctx context.Context, query string, args ...any) (*domain.Session, error) {
	s, err := scanPgSession(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, err
	}
	return s, nil
}

func (r *PostgresSessionRepo) list(ctx context.Context, op, query string, args ...any) ([]*domain.Session, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		s, err := scanPgSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sessions, nil
}

func scanPgSession(row pgx.Row) (*domain.Session, error) {
	var s domain.Session
	var endedAt, pausedAt *time.Time
	err := row.Scan(
		&s.ID, &s.OwnerID, &s.ProjectID, &s.StartedAt, &endedAt,
		&s.Active, &s.Paused, &pausedAt, &s.Note, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	s.StartedAt = s.StartedAt.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	s.EndedAt = utcPtr(endedAt)
	s.PausedAt = utcPtr(pausedAt)
	return &s, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func isPgActiveSessionConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == pgUniqueViolation &&
		pgErr.ConstraintName == db.ActiveSessionIndex
}
