package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"plenario/internal/publication/models"
	id "plenario/pkg/domain"
	"plenario/pkg/platform/sentinel"
	txcontext "plenario/pkg/platform/tx"
)

// PostgresStore persists the publication ledger in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed publication store.
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

const publicationColumns = `id, pub_type, number, pub_date, resource_id, session_id, observations, created_by, created_at`

func (s *PostgresStore) Create(ctx context.Context, publication *models.Publication) error {
	var resourceID, sessionID any
	if publication.ResourceID != nil {
		resourceID = publication.ResourceID.String()
	}
	if publication.SessionID != nil {
		sessionID = publication.SessionID.String()
	}
	query := `
		INSERT INTO publications (` + publicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		publication.ID.String(), string(publication.Type), publication.Number,
		publication.Date, resourceID, sessionID, publication.Observations,
		publication.CreatedBy.String(), publication.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert publication: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, publicationID id.PublicationID) (*models.Publication, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+publicationColumns+` FROM publications WHERE id = $1`,
		publicationID.String(),
	)
	publication, err := scanPublication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find publication: %w", err)
	}
	return publication, nil
}

func (s *PostgresStore) ForResource(ctx context.Context, resourceID id.ResourceID) ([]*models.Publication, error) {
	query := `
		SELECT ` + publicationColumns + ` FROM publications
		WHERE resource_id = $1
		ORDER BY pub_date DESC, number DESC
	`
	return s.queryList(ctx, query, resourceID.String())
}

// ForSessionsContaining returns SESSAO entries of every session whose agenda
// carries the resource.
func (s *PostgresStore) ForSessionsContaining(ctx context.Context, resourceID id.ResourceID) ([]*models.Publication, error) {
	query := `
		SELECT ` + publicationColumns + ` FROM publications p
		WHERE p.pub_type = 'SESSAO'
		  AND p.session_id IN (
			SELECT sr.session_id FROM session_resources sr WHERE sr.resource_id = $1
		  )
		ORDER BY pub_date DESC, number DESC
	`
	return s.queryList(ctx, query, resourceID.String())
}

func (s *PostgresStore) ForSession(ctx context.Context, sessionID id.SessionID) ([]*models.Publication, error) {
	query := `
		SELECT ` + publicationColumns + ` FROM publications
		WHERE session_id = $1
		ORDER BY pub_date DESC, number DESC
	`
	return s.queryList(ctx, query, sessionID.String())
}

func (s *PostgresStore) queryList(ctx context.Context, query string, args ...any) ([]*models.Publication, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list publications: %w", err)
	}
	defer rows.Close()

	var out []*models.Publication
	for rows.Next() {
		publication, err := scanPublication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan publication: %w", err)
		}
		out = append(out, publication)
	}
	return out, rows.Err()
}

func scanPublication(row interface{ Scan(dest ...any) error }) (*models.Publication, error) {
	var p models.Publication
	var rawID, rawType, rawCreatedBy string
	var rawResource, rawSession sql.NullString
	if err := row.Scan(&rawID, &rawType, &p.Number, &p.Date, &rawResource, &rawSession,
		&p.Observations, &rawCreatedBy, &p.CreatedAt); err != nil {
		return nil, err
	}
	parsedID, err := id.ParsePublicationID(rawID)
	if err != nil {
		return nil, err
	}
	p.ID = parsedID
	p.Type = models.Type(rawType)
	createdBy, err := id.ParseUserID(rawCreatedBy)
	if err != nil {
		return nil, err
	}
	p.CreatedBy = createdBy
	if rawResource.Valid {
		resourceID, err := id.ParseResourceID(rawResource.String)
		if err != nil {
			return nil, err
		}
		p.ResourceID = &resourceID
	}
	if rawSession.Valid {
		sessionID, err := id.ParseSessionID(rawSession.String)
		if err != nil {
			return nil, err
		}
		p.SessionID = &sessionID
	}
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
