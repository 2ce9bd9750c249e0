package docsystem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportdesk/internal/config"
	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/docsystem"
	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/repository/memory"
	"reportdesk/internal/service/docsystem/treeops"
)

// steppingClock advances one minute per call
func steppingClock(start time.Time) func() time.Time {
	current := start.Add(-time.Minute)
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

func newReportService() *reportService {
	svc := NewReportService(
		memory.NewReportRepository(),
		memory.NewTransactionManager(),
		&treeops.SequenceGenerator{},
		discardLogger(),
	).(*reportService)
	svc.now = steppingClock(generatedAt)
	return svc
}

func TestReportService_SaveCreatesThenUpdates(t *testing.T) {
	svc := newReportService()
	ctx := context.Background()

	created, err := svc.SaveReport(ctx, &docsysSvc.SaveReportRequest{
		UserID:    "u1",
		Name:      " 投标书 ",
		Structure: chapterStructure(),
	})
	require.NoError(t, err)
	assert.Equal(t, "report-1", created.ID)
	assert.Equal(t, "投标书", created.Name)
	assert.NotNil(t, created.StyleDocFiles)
	assert.NotNil(t, created.BiddingFiles)

	updated, err := svc.SaveReport(ctx, &docsysSvc.SaveReportRequest{
		ID:        created.ID,
		UserID:    "u1",
		Name:      "投标书 v2",
		Structure: chapterStructure()[:1],
	})
	require.NoError(t, err)
	assert.WithinDuration(t, created.CreatedAt, updated.CreatedAt, 0, "CreatedAt kept")
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	stored, err := svc.GetReport(ctx, created.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, "投标书 v2", stored.Name)
	require.Len(t, stored.Structure, 1)
	assert.Equal(t, "ch-1", stored.Structure[0].NodeID())
	assert.Len(t, stored.Structure[0].(*models.ReportFolder).Children, 1)
}

func TestReportService_SaveDoesNotAliasInput(t *testing.T) {
	svc := newReportService()
	structure := chapterStructure()

	report, err := svc.SaveReport(context.Background(), &docsysSvc.SaveReportRequest{UserID: "u1", Name: "r", Structure: structure})
	require.NoError(t, err)

	structure[0].(*models.ReportFolder).Name = "changed"
	assert.Equal(t, "第一章", report.Structure[0].NodeName())
}

func TestReportService_SaveRejections(t *testing.T) {
	svc := newReportService()
	ctx := context.Background()

	tests := []struct {
		name    string
		req     docsysSvc.SaveReportRequest
		wantErr error
	}{
		{"blank name", docsysSvc.SaveReportRequest{UserID: "u1", Name: " ", Structure: chapterStructure()}, domain.ErrEmptyName},
		{"empty structure", docsysSvc.SaveReportRequest{UserID: "u1", Name: "r"}, domain.ErrEmptyStructure},
		{"no user", docsysSvc.SaveReportRequest{Name: "r", Structure: chapterStructure()}, domain.ErrValidation},
		{"multi-line name", docsysSvc.SaveReportRequest{UserID: "u1", Name: "a\nb", Structure: chapterStructure()}, domain.ErrValidation},
		{"unknown id", docsysSvc.SaveReportRequest{ID: "report-404", UserID: "u1", Name: "r", Structure: chapterStructure()}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveReport(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReportService_ListNewestFirst(t *testing.T) {
	svc := newReportService()
	ctx := context.Background()

	for _, name := range []string{"旧", "新"} {
		_, err := svc.SaveReport(ctx, &docsysSvc.SaveReportRequest{UserID: "u1", Name: name, Structure: chapterStructure()})
		require.NoError(t, err)
	}
	_, err := svc.SaveReport(ctx, &docsysSvc.SaveReportRequest{UserID: "u2", Name: "别人的", Structure: chapterStructure()})
	require.NoError(t, err)

	summaries, err := svc.ListReports(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "新", summaries[0].Name)
	assert.Equal(t, "旧", summaries[1].Name)

	empty, err := svc.ListReports(ctx, "u3")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestReportService_OwnerScoping(t *testing.T) {
	svc := newReportService()
	ctx := context.Background()

	report, err := svc.SaveReport(ctx, &docsysSvc.SaveReportRequest{UserID: "u1", Name: "r", Structure: chapterStructure()})
	require.NoError(t, err)

	_, err = svc.GetReport(ctx, report.ID, "u2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteReport(ctx, report.ID, "u2"), domain.ErrNotFound)

	require.NoError(t, svc.DeleteReport(ctx, report.ID, "u1"))
	_, err = svc.GetReport(ctx, report.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReportService_Attachments(t *testing.T) {
	svc := newReportService()
	ctx := context.Background()

	report, err := svc.SaveReport(ctx, &docsysSvc.SaveReportRequest{UserID: "u1", Name: "r", Structure: chapterStructure()})
	require.NoError(t, err)

	file, err := svc.AddAttachment(ctx, &docsysSvc.AddAttachmentRequest{
		ReportID: report.ID,
		UserID:   "u1",
		Kind:     models.AttachmentBidding,
		Name:     " 招标文件.pdf ",
		Size:     4096,
		Type:     models.FileTypePDF,
	})
	require.NoError(t, err)
	assert.Equal(t, "招标文件.pdf", file.Name)
	assert.Regexp(t, `^file-`, file.ID)

	stored, err := svc.GetReport(ctx, report.ID, "u1")
	require.NoError(t, err)
	require.Len(t, stored.BiddingFiles, 1)
	assert.Empty(t, stored.StyleDocFiles)
	assert.True(t, stored.UpdatedAt.After(report.UpdatedAt))

	err = svc.RemoveAttachment(ctx, report.ID, "u1", models.AttachmentStyle, file.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "wrong list")

	require.NoError(t, svc.RemoveAttachment(ctx, report.ID, "u1", models.AttachmentBidding, file.ID))
	stored, err = svc.GetReport(ctx, report.ID, "u1")
	require.NoError(t, err)
	assert.Empty(t, stored.BiddingFiles)
}

func TestReportService_AttachmentRejections(t *testing.T) {
	svc := newReportService()
	ctx := context.Background()

	report, err := svc.SaveReport(ctx, &docsysSvc.SaveReportRequest{UserID: "u1", Name: "r", Structure: chapterStructure()})
	require.NoError(t, err)

	base := docsysSvc.AddAttachmentRequest{ReportID: report.ID, UserID: "u1", Kind: models.AttachmentStyle, Name: "a.docx"}

	unknownKind := base
	unknownKind.Kind = "cover"
	_, err = svc.AddAttachment(ctx, &unknownKind)
	assert.ErrorIs(t, err, domain.ErrValidation)

	tooBig := base
	tooBig.Size = config.MaxUploadSize + 1
	_, err = svc.AddAttachment(ctx, &tooBig)
	assert.ErrorIs(t, err, domain.ErrValidation)

	missing := base
	missing.ReportID = "report-404"
	_, err = svc.AddAttachment(ctx, &missing)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
