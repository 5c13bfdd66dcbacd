package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"plenario/internal/subject/models"
	id "plenario/pkg/domain"
	"plenario/pkg/platform/sentinel"
	txcontext "plenario/pkg/platform/tx"
)

// PostgresStore persists subjects and classification links in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed subject store.
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

func (s *PostgresStore) CreateSubject(ctx context.Context, subject *models.Subject) error {
	var parent any
	if subject.ParentID != nil {
		parent = subject.ParentID.String()
	}
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO subjects (id, name, parent_id, active) VALUES ($1, $2, $3, $4)`,
		subject.ID.String(), subject.Name, parent, subject.Active,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert subject: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, subjectID id.SubjectID) (*models.Subject, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT id, name, parent_id, active FROM subjects WHERE id = $1`, subjectID.String(),
	)
	subject, err := scanSubject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find subject: %w", err)
	}
	return subject, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Subject, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT id, name, parent_id, active FROM subjects ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var out []*models.Subject
	for rows.Next() {
		subject, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		out = append(out, subject)
	}
	return out, rows.Err()
}

// ReplaceLinks swaps the full link set of a resource. Runs as delete plus
// inserts; the caller wraps it in a transaction.
func (s *PostgresStore) ReplaceLinks(ctx context.Context, resourceID id.ResourceID, links []models.SubjectLink) error {
	exec := s.execer(ctx)
	if _, err := exec.ExecContext(ctx,
		`DELETE FROM subject_links WHERE resource_id = $1`, resourceID.String(),
	); err != nil {
		return fmt.Errorf("clear subject links: %w", err)
	}
	for _, link := range links {
		if _, err := exec.ExecContext(ctx,
			`INSERT INTO subject_links (resource_id, subject_id, is_primary) VALUES ($1, $2, $3)`,
			link.ResourceID.String(), link.SubjectID.String(), link.IsPrimary,
		); err != nil {
			if isUniqueViolation(err) {
				return sentinel.ErrConflict
			}
			return fmt.Errorf("insert subject link: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) LinksFor(ctx context.Context, resourceID id.ResourceID) ([]models.SubjectLink, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT resource_id, subject_id, is_primary
		 FROM subject_links WHERE resource_id = $1
		 ORDER BY is_primary DESC, subject_id`,
		resourceID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list subject links: %w", err)
	}
	defer rows.Close()

	var out []models.SubjectLink
	for rows.Next() {
		var rawResource, rawSubject string
		var link models.SubjectLink
		if err := rows.Scan(&rawResource, &rawSubject, &link.IsPrimary); err != nil {
			return nil, fmt.Errorf("scan subject link: %w", err)
		}
		parsedResource, err := id.ParseResourceID(rawResource)
		if err != nil {
			return nil, fmt.Errorf("scan subject link resource id: %w", err)
		}
		parsedSubject, err := id.ParseSubjectID(rawSubject)
		if err != nil {
			return nil, fmt.Errorf("scan subject link subject id: %w", err)
		}
		link.ResourceID = parsedResource
		link.SubjectID = parsedSubject
		out = append(out, link)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ResourceCounts(ctx context.Context) (map[id.SubjectID]int, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT subject_id, COUNT(*) FROM subject_links GROUP BY subject_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("count subject links: %w", err)
	}
	defer rows.Close()

	out := make(map[id.SubjectID]int)
	for rows.Next() {
		var rawSubject string
		var count int
		if err := rows.Scan(&rawSubject, &count); err != nil {
			return nil, fmt.Errorf("scan subject count: %w", err)
		}
		parsed, err := id.ParseSubjectID(rawSubject)
		if err != nil {
			return nil, fmt.Errorf("scan subject count id: %w", err)
		}
		out[parsed] = count
	}
	return out, rows.Err()
}

func scanSubject(row interface{ Scan(dest ...any) error }) (*models.Subject, error) {
	var subject models.Subject
	var rawID string
	var rawParent sql.NullString
	if err := row.Scan(&rawID, &subject.Name, &rawParent, &subject.Active); err != nil {
		return nil, err
	}
	parsed, err := id.ParseSubjectID(rawID)
	if err != nil {
		return nil, err
	}
	subject.ID = parsed
	if rawParent.Valid {
		parent, err := id.ParseSubjectID(rawParent.String)
		if err != nil {
			return nil, err
		}
		subject.ParentID = &parent
	}
	return &subject, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
