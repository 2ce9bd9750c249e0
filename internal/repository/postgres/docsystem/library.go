package docsystem

import (
	"context"
	"encoding/json"
	"fmt"

	models "reportdesk/internal/domain/models/docsystem"
	docsysRepo "reportdesk/internal/domain/repositories/docsystem"
	"reportdesk/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLibraryRepository stores one report-library forest per user
type PostgresLibraryRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewLibraryRepository creates a new report library repository
func NewLibraryRepository(config *postgres.RepositoryConfig) docsysRepo.LibraryRepository {
	return &PostgresLibraryRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Get returns the user's library
func (r *PostgresLibraryRepository) Get(ctx context.Context, userID string) (models.Forest, error) {
	query := fmt.Sprintf(`SELECT structure FROM %s WHERE user_id = $1 FOR UPDATE`, r.tables.Libraries)

	var raw []byte
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, userID).Scan(&raw); err != nil {
		return nil, postgres.MapNotFound(err, "get report library", "report library of "+userID)
	}

	library := models.Forest{}
	if err := json.Unmarshal(raw, &library); err != nil {
		return nil, fmt.Errorf("decode report library: %w", err)
	}
	return library, nil
}

// Save upserts the user's library
func (r *PostgresLibraryRepository) Save(ctx context.Context, userID string, library models.Forest) error {
	raw, err := marshalList(library)
	if err != nil {
		return fmt.Errorf("encode report library: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, structure, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET structure = EXCLUDED.structure, updated_at = EXCLUDED.updated_at
	`, r.tables.Libraries)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, userID, raw); err != nil {
		return fmt.Errorf("save report library: %w", err)
	}
	return nil
}
