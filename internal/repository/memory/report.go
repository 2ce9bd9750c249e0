// Package memory provides in-process repositories used when no database is
// configured, and as fakes in service tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/docsystem"
	docsysRepo "reportdesk/internal/domain/repositories/docsystem"
)

// ReportRepository keeps reports in a map. Reports are stored as JSON so
// callers never share structure with the store.
type ReportRepository struct {
	mu      sync.RWMutex
	reports map[string][]byte // key: userID + "/" + id
}

// NewReportRepository creates an empty in-memory report repository
func NewReportRepository() docsysRepo.ReportRepository {
	return &ReportRepository{reports: make(map[string][]byte)}
}

func reportKey(userID, id string) string { return userID + "/" + id }

// Create inserts a report
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := reportKey(report.UserID, report.ID)
	if _, exists := r.reports[key]; exists {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("report %s already exists", report.ID),
			ResourceType: "report",
			ResourceID:   report.ID,
		}
	}
	return r.put(key, report)
}

// Update replaces a report, keeping the stored CreatedAt
func (r *ReportRepository) Update(ctx context.Context, report *models.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := reportKey(report.UserID, report.ID)
	existing, err := r.get(key)
	if err != nil {
		return err
	}
	report.CreatedAt = existing.CreatedAt
	return r.put(key, report)
}

// GetByID retrieves a report
func (r *ReportRepository) GetByID(ctx context.Context, id, userID string) (*models.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(reportKey(userID, id))
}

// ListByUser returns summaries, most recently updated first
func (r *ReportRepository) ListByUser(ctx context.Context, userID string) ([]models.ReportSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := []models.ReportSummary{}
	for key := range r.reports {
		report, err := r.get(key)
		if err != nil {
			return nil, err
		}
		if report.UserID != userID {
			continue
		}
		summaries = append(summaries, models.ReportSummary{
			ID:        report.ID,
			Name:      report.Name,
			CreatedAt: report.CreatedAt,
			UpdatedAt: report.UpdatedAt,
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

// Delete removes a report
func (r *ReportRepository) Delete(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := reportKey(userID, id)
	if _, ok := r.reports[key]; !ok {
		return fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
	}
	delete(r.reports, key)
	return nil
}

func (r *ReportRepository) put(key string, report *models.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	r.reports[key] = data
	return nil
}

func (r *ReportRepository) get(key string) (*models.Report, error) {
	data, ok := r.reports[key]
	if !ok {
		return nil, fmt.Errorf("report %s: %w", key, domain.ErrNotFound)
	}
	var report models.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}
