package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"plenario/internal/resource/models"
	id "plenario/pkg/domain"
	"plenario/pkg/platform/sentinel"
	txcontext "plenario/pkg/platform/tx"
)

// PostgresStore persists resources in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed resource store.
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

func (s *PostgresStore) Create(ctx context.Context, resource *models.Resource) error {
	query := `
		INSERT INTO resources (id, sequence, year, number, process_number, status, judged, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		resource.ID.String(), resource.Sequence, resource.Year, resource.Number,
		resource.ProcessNumber, string(resource.Status), resource.Judged,
		resource.CreatedAt, resource.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert resource: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, resourceID id.ResourceID) (*models.Resource, error) {
	query := `
		SELECT id, sequence, year, number, process_number, status, judged, created_at, updated_at
		FROM resources WHERE id = $1
	`
	row := s.execer(ctx).QueryRowContext(ctx, query, resourceID.String())
	resource, err := scanResource(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find resource: %w", err)
	}
	return resource, nil
}

func (s *PostgresStore) Update(ctx context.Context, resource *models.Resource) error {
	query := `
		UPDATE resources
		SET status = $2, judged = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := s.execer(ctx).ExecContext(ctx, query,
		resource.ID.String(), string(resource.Status), resource.Judged, resource.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update resource: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update resource: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Resource, error) {
	query := `
		SELECT id, sequence, year, number, process_number, status, judged, created_at, updated_at
		FROM resources ORDER BY year, sequence
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var out []*models.Resource
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		out = append(out, resource)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AppendTramitation(ctx context.Context, tramitation *models.Tramitation) error {
	query := `
		INSERT INTO tramitations (id, resource_id, from_status, to_status, actor_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		tramitation.ID, tramitation.ResourceID.String(),
		string(tramitation.FromStatus), string(tramitation.ToStatus),
		tramitation.ActorID.String(), tramitation.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert tramitation: %w", err)
	}
	return nil
}

func (s *PostgresStore) TramitationsFor(ctx context.Context, resourceID id.ResourceID) ([]*models.Tramitation, error) {
	query := `
		SELECT id, resource_id, from_status, to_status, actor_id, occurred_at
		FROM tramitations WHERE resource_id = $1 ORDER BY occurred_at
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, resourceID.String())
	if err != nil {
		return nil, fmt.Errorf("list tramitations: %w", err)
	}
	defer rows.Close()

	var out []*models.Tramitation
	for rows.Next() {
		var t models.Tramitation
		var resID, actorID string
		var from, to string
		if err := rows.Scan(&t.ID, &resID, &from, &to, &actorID, &t.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan tramitation: %w", err)
		}
		parsedRes, err := id.ParseResourceID(resID)
		if err != nil {
			return nil, fmt.Errorf("scan tramitation resource id: %w", err)
		}
		parsedActor, err := id.ParseUserID(actorID)
		if err != nil {
			return nil, fmt.Errorf("scan tramitation actor id: %w", err)
		}
		t.ResourceID = parsedRes
		t.ActorID = parsedActor
		t.FromStatus = models.Status(from)
		t.ToStatus = models.Status(to)
		out = append(out, &t)
	}
	return out, rows.Err()
}

// Judged reports judgment presence for each given resource.
func (s *PostgresStore) Judged(ctx context.Context, resourceIDs []id.ResourceID) (map[id.ResourceID]bool, error) {
	out := make(map[id.ResourceID]bool, len(resourceIDs))
	for _, resourceID := range resourceIDs {
		var judged bool
		err := s.execer(ctx).QueryRowContext(ctx,
			`SELECT judged FROM resources WHERE id = $1`, resourceID.String(),
		).Scan(&judged)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, sentinel.ErrNotFound
			}
			return nil, fmt.Errorf("load judgment flag: %w", err)
		}
		out[resourceID] = judged
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResource(row rowScanner) (*models.Resource, error) {
	var r models.Resource
	var rawID, rawStatus string
	if err := row.Scan(&rawID, &r.Sequence, &r.Year, &r.Number, &r.ProcessNumber,
		&rawStatus, &r.Judged, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	parsed, err := id.ParseResourceID(rawID)
	if err != nil {
		return nil, err
	}
	r.ID = parsed
	r.Status = models.Status(rawStatus)
	return &r, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
