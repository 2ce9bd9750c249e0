package docsystem

import (
	"context"
	"encoding/json"
	"fmt"

	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/docsystem"
	docsysRepo "reportdesk/internal/domain/repositories/docsystem"
	"reportdesk/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresReportRepository implements the ReportRepository interface.
// Structure and attachment lists are stored as JSONB.
type PostgresReportRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewReportRepository creates a new report repository
func NewReportRepository(config *postgres.RepositoryConfig) docsysRepo.ReportRepository {
	return &PostgresReportRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new report
func (r *PostgresReportRepository) Create(ctx context.Context, report *models.Report) error {
	structure, styleFiles, biddingFiles, err := encodeReport(report)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, name, structure, style_doc_files, bidding_files, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.Reports)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err = executor.Exec(ctx, query,
		report.ID,
		report.UserID,
		report.Name,
		structure,
		styleFiles,
		biddingFiles,
		report.CreatedAt,
		report.UpdatedAt,
	)
	if err != nil {
		return postgres.MapDuplicate(err, "create report", "report", report.ID)
	}

	return nil
}

// Update replaces the mutable parts of a report; created_at is untouched
func (r *PostgresReportRepository) Update(ctx context.Context, report *models.Report) error {
	structure, styleFiles, biddingFiles, err := encodeReport(report)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, structure = $2, style_doc_files = $3, bidding_files = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7
		RETURNING created_at
	`, r.tables.Reports)

	executor := postgres.GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		report.Name,
		structure,
		styleFiles,
		biddingFiles,
		report.UpdatedAt,
		report.ID,
		report.UserID,
	).Scan(&report.CreatedAt)
	if err != nil {
		return postgres.MapNotFound(err, "update report", "report "+report.ID)
	}

	return nil
}

// GetByID retrieves a report by ID
func (r *PostgresReportRepository) GetByID(ctx context.Context, id, userID string) (*models.Report, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, structure, style_doc_files, bidding_files, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Reports)

	var (
		report                              models.Report
		structure, styleFiles, biddingFiles []byte
	)
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, userID).Scan(
		&report.ID,
		&report.UserID,
		&report.Name,
		&structure,
		&styleFiles,
		&biddingFiles,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapNotFound(err, "get report", "report "+id)
	}

	if err := json.Unmarshal(structure, &report.Structure); err != nil {
		return nil, fmt.Errorf("decode report %s structure: %w", id, err)
	}
	if err := json.Unmarshal(styleFiles, &report.StyleDocFiles); err != nil {
		return nil, fmt.Errorf("decode report %s style files: %w", id, err)
	}
	if err := json.Unmarshal(biddingFiles, &report.BiddingFiles); err != nil {
		return nil, fmt.Errorf("decode report %s bidding files: %w", id, err)
	}

	return &report, nil
}

// ListByUser retrieves report summaries, ordered by updated_at DESC
func (r *PostgresReportRepository) ListByUser(ctx context.Context, userID string) ([]models.ReportSummary, error) {
	query := fmt.Sprintf(`
		SELECT id, name, created_at, updated_at
		FROM %s
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, r.tables.Reports)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	reports := []models.ReportSummary{}
	for rows.Next() {
		var s models.ReportSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	return reports, nil
}

// Delete removes a report
func (r *PostgresReportRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, r.tables.Reports)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func encodeReport(report *models.Report) (structure, styleFiles, biddingFiles []byte, err error) {
	if structure, err = marshalList(report.Structure); err != nil {
		return nil, nil, nil, fmt.Errorf("encode report structure: %w", err)
	}
	if styleFiles, err = marshalList(report.StyleDocFiles); err != nil {
		return nil, nil, nil, fmt.Errorf("encode style files: %w", err)
	}
	if biddingFiles, err = marshalList(report.BiddingFiles); err != nil {
		return nil, nil, nil, fmt.Errorf("encode bidding files: %w", err)
	}
	return structure, styleFiles, biddingFiles, nil
}

// marshalList encodes a nil slice as [] so the NOT NULL JSONB columns
// always hold an array
func marshalList[T any](list []T) ([]byte, error) {
	if list == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(list)
}
