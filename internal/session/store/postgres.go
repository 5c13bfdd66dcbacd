package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"plenario/internal/session/models"
	id "plenario/pkg/domain"
	"plenario/pkg/platform/sentinel"
	txcontext "plenario/pkg/platform/tx"
)

// PostgresStore persists sessions and agenda rows in PostgreSQL. The agenda
// order constraint is deferred, so a reorder swap inside one transaction
// commits cleanly.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed session store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const sessionColumns = `id, sequence, year, ordinal, session_type, session_date, start_time, end_time,
	status, minutes_status, minutes_file, administrative_matters, president_id, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, session *models.Session) error {
	var president any
	if session.PresidentID != nil {
		president = session.PresidentID.String()
	}
	query := `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		session.ID.String(), session.Sequence, session.Year, session.Ordinal,
		string(session.Type), session.Date, session.StartTime, session.EndTime,
		string(session.Status), string(session.MinutesStatus), session.MinutesFile,
		session.AdministrativeMatters, president, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, sessionID id.SessionID) (*models.Session, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, sessionID.String(),
	)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return session, nil
}

func (s *PostgresStore) Update(ctx context.Context, session *models.Session) error {
	query := `
		UPDATE sessions
		SET status = $2, minutes_status = $3, minutes_file = $4, start_time = $5,
		    end_time = $6, administrative_matters = $7, updated_at = $8
		WHERE id = $1
	`
	result, err := s.execer(ctx).ExecContext(ctx, query,
		session.ID.String(), string(session.Status), string(session.MinutesStatus),
		session.MinutesFile, session.StartTime, session.EndTime,
		session.AdministrativeMatters, session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Session, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions ORDER BY session_date DESC, ordinal DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []*models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, session)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AddResource(ctx context.Context, row *models.SessionResource) error {
	query := `
		INSERT INTO session_resources (id, session_id, resource_id, agenda_order, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		row.ID.String(), row.SessionID.String(), row.ResourceID.String(),
		row.Order, row.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert session resource: %w", err)
	}
	return nil
}

func (s *PostgresStore) RemoveResource(ctx context.Context, sessionID id.SessionID, resourceID id.ResourceID) error {
	result, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM session_resources WHERE session_id = $1 AND resource_id = $2`,
		sessionID.String(), resourceID.String(),
	)
	if err != nil {
		return fmt.Errorf("delete session resource: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session resource: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Agenda(ctx context.Context, sessionID id.SessionID) ([]*models.SessionResource, error) {
	query := `
		SELECT id, session_id, resource_id, agenda_order, created_at
		FROM session_resources
		WHERE session_id = $1
		ORDER BY agenda_order, created_at
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, sessionID.String())
	if err != nil {
		return nil, fmt.Errorf("list agenda: %w", err)
	}
	defer rows.Close()

	var out []*models.SessionResource
	for rows.Next() {
		var row models.SessionResource
		var rawID, rawSession, rawResource string
		if err := rows.Scan(&rawID, &rawSession, &rawResource, &row.Order, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan agenda row: %w", err)
		}
		parsedID, err := id.ParseSessionResourceID(rawID)
		if err != nil {
			return nil, fmt.Errorf("scan agenda row id: %w", err)
		}
		parsedSession, err := id.ParseSessionID(rawSession)
		if err != nil {
			return nil, fmt.Errorf("scan agenda session id: %w", err)
		}
		parsedResource, err := id.ParseResourceID(rawResource)
		if err != nil {
			return nil, fmt.Errorf("scan agenda resource id: %w", err)
		}
		row.ID = parsedID
		row.SessionID = parsedSession
		row.ResourceID = parsedResource
		out = append(out, &row)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateOrder(ctx context.Context, rowID id.SessionResourceID, order int) error {
	result, err := s.execer(ctx).ExecContext(ctx,
		`UPDATE session_resources SET agenda_order = $2 WHERE id = $1`,
		rowID.String(), order,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update agenda order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update agenda order: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// SessionsFor implements the publication store's agenda lookup.
func (s *PostgresStore) SessionsFor(ctx context.Context, resourceID id.ResourceID) ([]id.SessionID, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT session_id FROM session_resources WHERE resource_id = $1`,
		resourceID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions for resource: %w", err)
	}
	defer rows.Close()

	var out []id.SessionID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		parsed, err := id.ParseSessionID(raw)
		if err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		out = append(out, parsed)
	}
	return out, rows.Err()
}

func scanSession(row interface{ Scan(dest ...any) error }) (*models.Session, error) {
	var session models.Session
	var rawID, rawType, rawStatus, rawMinutes string
	var rawPresident sql.NullString
	if err := row.Scan(&rawID, &session.Sequence, &session.Year, &session.Ordinal,
		&rawType, &session.Date, &session.StartTime, &session.EndTime,
		&rawStatus, &rawMinutes, &session.MinutesFile, &session.AdministrativeMatters,
		&rawPresident, &session.CreatedAt, &session.UpdatedAt); err != nil {
		return nil, err
	}
	parsedID, err := id.ParseSessionID(rawID)
	if err != nil {
		return nil, err
	}
	session.ID = parsedID
	session.Type = models.SessionType(rawType)
	session.Status = models.Status(rawStatus)
	session.MinutesStatus = models.MinutesStatus(rawMinutes)
	if rawPresident.Valid {
		president, err := id.ParseUserID(rawPresident.String)
		if err != nil {
			return nil, err
		}
		session.PresidentID = &president
	}
	return &session, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
