package docsystem

import (
	"context"
	"fmt"
	"time"

	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/docsystem"
	docsysRepo "reportdesk/internal/domain/repositories/docsystem"
	"reportdesk/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUploadRepository implements the UploadRepository interface
type PostgresUploadRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewUploadRepository creates a new uploads repository
func NewUploadRepository(config *postgres.RepositoryConfig) docsysRepo.UploadRepository {
	return &PostgresUploadRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const uploadColumns = `id, name, content, file_type, file_size, url, description, status, upload_date`

// Create inserts a staged upload
func (r *PostgresUploadRepository) Create(ctx context.Context, userID string, node *models.DocumentNode) error {
	uploadDate := time.Now()
	if node.UploadDate != nil {
		uploadDate = *node.UploadDate
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.tables.Uploads, uploadColumns)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		userID,
		node.ID,
		node.Name,
		node.Content,
		node.FileType,
		node.FileSize,
		node.URL,
		node.Description,
		node.Status,
		uploadDate,
	)
	if err != nil {
		return postgres.MapDuplicate(err, "create upload", "upload", node.ID)
	}

	return nil
}

// GetByID retrieves one upload
func (r *PostgresUploadRepository) GetByID(ctx context.Context, id, userID string) (*models.DocumentNode, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND user_id = $2`, uploadColumns, r.tables.Uploads)

	executor := postgres.GetExecutor(ctx, r.pool)
	node, err := scanUpload(executor.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, postgres.MapNotFound(err, "get upload", "upload "+id)
	}
	return node, nil
}

// ListByUser returns the user's uploads in upload order
func (r *PostgresUploadRepository) ListByUser(ctx context.Context, userID string) ([]*models.DocumentNode, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 ORDER BY seq`, uploadColumns, r.tables.Uploads)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	nodes := []*models.DocumentNode{}
	for rows.Next() {
		node, err := scanUpload(rows)
		if err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		nodes = append(nodes, node)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate uploads: %w", err)
	}
	return nodes, nil
}

// UpdateMetadata writes name, description and status
func (r *PostgresUploadRepository) UpdateMetadata(ctx context.Context, userID string, node *models.DocumentNode) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, status = $3
		WHERE id = $4 AND user_id = $5
	`, r.tables.Uploads)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, node.Name, node.Description, node.Status, node.ID, userID)
	if err != nil {
		return fmt.Errorf("update upload: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("upload %s: %w", node.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes an upload
func (r *PostgresUploadRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, r.tables.Uploads)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete upload: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("upload %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanUpload(row pgx.Row) (*models.DocumentNode, error) {
	var (
		node       models.DocumentNode
		uploadDate time.Time
	)
	err := row.Scan(
		&node.ID,
		&node.Name,
		&node.Content,
		&node.FileType,
		&node.FileSize,
		&node.URL,
		&node.Description,
		&node.Status,
		&uploadDate,
	)
	if err != nil {
		return nil, err
	}
	node.Type = models.NodeTypeFile
	node.UploadDate = &uploadDate
	return &node, nil
}
