package docsystem

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"reportdesk/internal/config"
	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/docsystem"
	"reportdesk/internal/domain/repositories"
	docsysRepo "reportdesk/internal/domain/repositories/docsystem"
	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/service/docsystem/treeops"
)

type reportService struct {
	reportRepo docsysRepo.ReportRepository
	txManager  repositories.TransactionManager
	ids        treeops.IDGenerator
	now        func() time.Time
	logger     *slog.Logger
}

// NewReportService creates a new report service
func NewReportService(
	reportRepo docsysRepo.ReportRepository,
	txManager repositories.TransactionManager,
	ids treeops.IDGenerator,
	logger *slog.Logger,
) docsysSvc.ReportService {
	return &reportService{
		reportRepo: reportRepo,
		txManager:  txManager,
		ids:        ids,
		now:        time.Now,
		logger:     logger,
	}
}

// SaveReport creates or replaces a report
func (s *reportService) SaveReport(ctx context.Context, req *docsysSvc.SaveReportRequest) (*models.Report, error) {
	if err := validateSaveReport(req); err != nil {
		return nil, err
	}

	now := s.now()
	report := &models.Report{
		ID:            req.ID,
		UserID:        req.UserID,
		Name:          strings.TrimSpace(req.Name),
		Structure:     treeops.Clone(req.Structure),
		StyleDocFiles: nonNil(req.StyleDocFiles),
		BiddingFiles:  nonNil(req.BiddingFiles),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if report.ID == "" {
		report.ID = s.ids.NewID(treeops.PrefixReportCopy)
		if err := s.reportRepo.Create(ctx, report); err != nil {
			return nil, err
		}
		s.logger.Info("report created", "id", report.ID, "name", report.Name, "user_id", report.UserID)
		return report, nil
	}

	// Update keeps the stored CreatedAt and writes it back into report
	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}
	s.logger.Info("report updated", "id", report.ID, "name", report.Name, "user_id", report.UserID)
	return report, nil
}

// GetReport retrieves a saved report
func (s *reportService) GetReport(ctx context.Context, id, userID string) (*models.Report, error) {
	return s.reportRepo.GetByID(ctx, id, userID)
}

// ListReports returns the user's report summaries
func (s *reportService) ListReports(ctx context.Context, userID string) ([]models.ReportSummary, error) {
	return s.reportRepo.ListByUser(ctx, userID)
}

// DeleteReport removes a saved report
func (s *reportService) DeleteReport(ctx context.Context, id, userID string) error {
	if err := s.reportRepo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("report deleted", "id", id, "user_id", userID)
	return nil
}

// AddAttachment appends file metadata to one of the report's lists
func (s *reportService) AddAttachment(ctx context.Context, req *docsysSvc.AddAttachmentRequest) (*models.UploadedFile, error) {
	name, err := validateName("attachment name", req.Name, config.MaxNodeNameLength)
	if err != nil {
		return nil, err
	}
	if req.Size < 0 || req.Size > config.MaxUploadSize {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("attachment %q has invalid size %d", name, req.Size)}
	}

	file := models.UploadedFile{
		ID:         s.ids.NewID("file-"),
		Name:       name,
		Size:       req.Size,
		Type:       req.Type,
		UploadDate: s.now(),
		Content:    req.Content,
	}

	err = s.modify(ctx, req.ReportID, req.UserID, func(report *models.Report) error {
		list, err := attachmentList(report, req.Kind)
		if err != nil {
			return err
		}
		*list = append(*list, file)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("attachment added",
		"report_id", req.ReportID,
		"kind", req.Kind,
		"file_id", file.ID,
	)
	return &file, nil
}

// RemoveAttachment drops a file from one of the report's lists
func (s *reportService) RemoveAttachment(ctx context.Context, reportID, userID string, kind models.AttachmentKind, fileID string) error {
	err := s.modify(ctx, reportID, userID, func(report *models.Report) error {
		list, err := attachmentList(report, kind)
		if err != nil {
			return err
		}
		before := len(*list)
		*list = slices.DeleteFunc(*list, func(f models.UploadedFile) bool { return f.ID == fileID })
		if len(*list) == before {
			return fmt.Errorf("attachment %s: %w", fileID, domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("attachment removed", "report_id", reportID, "kind", kind, "file_id", fileID)
	return nil
}

// modify runs a read-modify-write of one report in a transaction
func (s *reportService) modify(ctx context.Context, id, userID string, fn func(*models.Report) error) error {
	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		report, err := s.reportRepo.GetByID(txCtx, id, userID)
		if err != nil {
			return err
		}
		if err := fn(report); err != nil {
			return err
		}
		report.UpdatedAt = s.now()
		return s.reportRepo.Update(txCtx, report)
	})
}

func attachmentList(report *models.Report, kind models.AttachmentKind) (*[]models.UploadedFile, error) {
	switch kind {
	case models.AttachmentStyle:
		return &report.StyleDocFiles, nil
	case models.AttachmentBidding:
		return &report.BiddingFiles, nil
	default:
		return nil, fmt.Errorf("%w: unknown attachment kind %q", domain.ErrValidation, kind)
	}
}

func nonNil(files []models.UploadedFile) []models.UploadedFile {
	if files == nil {
		return []models.UploadedFile{}
	}
	return files
}
