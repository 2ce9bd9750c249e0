package docsystem

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/docsystem"
	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/service/docsystem/treeops"
)

// PrefixSession marks editing session ids
const PrefixSession = "session-"

type sessionService struct {
	reducer   *SessionReducer
	library   docsysSvc.LibraryService
	documents docsysSvc.DocumentLibrary
	uploads   docsysSvc.UploadsService
	reports   docsysSvc.ReportService
	assembler docsysSvc.ReportAssembler
	renderer  docsysSvc.ReportRenderer
	ids       treeops.IDGenerator
	ttl       time.Duration
	now       func() time.Time
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[string]*docsysSvc.Session
}

// SessionDeps groups the collaborators of the session service
type SessionDeps struct {
	Reducer   *SessionReducer
	Library   docsysSvc.LibraryService
	Documents docsysSvc.DocumentLibrary
	Uploads   docsysSvc.UploadsService
	Reports   docsysSvc.ReportService
	Assembler docsysSvc.ReportAssembler
	Renderer  docsysSvc.ReportRenderer
	IDs       treeops.IDGenerator
}

// NewSessionService creates the in-memory editing session service.
// Sessions idle for longer than ttl are dropped.
func NewSessionService(deps SessionDeps, ttl time.Duration, logger *slog.Logger) docsysSvc.SessionService {
	return &sessionService{
		reducer:   deps.Reducer,
		library:   deps.Library,
		documents: deps.Documents,
		uploads:   deps.Uploads,
		reports:   deps.Reports,
		assembler: deps.Assembler,
		renderer:  deps.Renderer,
		ids:       deps.IDs,
		ttl:       ttl,
		now:       time.Now,
		logger:    logger,
		sessions:  make(map[string]*docsysSvc.Session),
	}
}

// Open starts a blank session, or one loaded from a saved report
func (s *sessionService) Open(ctx context.Context, userID, reportID string) (*docsysSvc.Session, error) {
	if userID == "" {
		return nil, &domain.ValidationError{Message: "user id is required"}
	}

	session := &docsysSvc.Session{
		ID:        s.ids.NewID(PrefixSession),
		UserID:    userID,
		Structure: models.Forest{},
		Expanded:  []string{},
		UpdatedAt: s.now(),
	}
	if reportID != "" {
		report, err := s.reports.GetReport(ctx, reportID, userID)
		if err != nil {
			return nil, err
		}
		session.ReportID = report.ID
		session.Name = report.Name
		session.Structure = report.Structure
	}

	s.mu.Lock()
	s.evictIdle()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Info("session opened", "session_id", session.ID, "report_id", reportID, "user_id", userID)
	return copySession(session), nil
}

// Get returns the current state of a session
func (s *sessionService) Get(_ context.Context, userID, sessionID string) (*docsysSvc.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return copySession(session), nil
}

// Execute runs one command. Sources are loaded before the session lock is
// taken; the reduce itself is serialized per service.
func (s *sessionService) Execute(ctx context.Context, userID, sessionID string, cmd *docsysSvc.Command) (*docsysSvc.CommandResult, error) {
	if cmd == nil {
		return nil, &domain.ValidationError{Message: "command is required"}
	}

	var (
		library models.Forest
		pools   []*models.DocumentPool
		err     error
	)
	if cmd.NeedsLibrary() {
		if library, err = s.library.GetLibrary(ctx, userID); err != nil {
			return nil, err
		}
	}
	if cmd.NeedsPools() {
		if pools, err = s.pools(ctx, userID); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	input := *current
	input.Library = library
	input.Pools = pools

	result, err := s.reducer.Reduce(&input, cmd)
	if err != nil {
		return nil, err
	}

	next := result.Session
	next.Library, next.Pools = nil, nil
	next.UpdatedAt = s.now()
	s.sessions[sessionID] = next

	s.logger.Debug("session command applied", "session_id", sessionID, "kind", cmd.Kind)
	return result, nil
}

// Folders lists the session's report folders for parent and target pickers
func (s *sessionService) Folders(ctx context.Context, userID, sessionID string) ([]docsysSvc.FolderChoice, error) {
	session, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	folders := treeops.CollectFolders(session.Structure)
	choices := make([]docsysSvc.FolderChoice, 0, len(folders))
	for _, f := range folders {
		choices = append(choices, docsysSvc.FolderChoice{
			ID:   f.ID,
			Name: f.Name,
			Path: treeops.ReportPath(session.Structure, f.ID),
		})
	}
	return choices, nil
}

// Save stores the session as a report. Attachments of an existing report
// are kept.
func (s *sessionService) Save(ctx context.Context, userID, sessionID string) (*models.Report, error) {
	session, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	req := &docsysSvc.SaveReportRequest{
		ID:        session.ReportID,
		UserID:    userID,
		Name:      session.Name,
		Structure: session.Structure,
	}
	if session.ReportID != "" {
		existing, err := s.reports.GetReport(ctx, session.ReportID, userID)
		if err != nil {
			return nil, err
		}
		req.StyleDocFiles = existing.StyleDocFiles
		req.BiddingFiles = existing.BiddingFiles
	}

	report, err := s.reports.SaveReport(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if current, ok := s.sessions[sessionID]; ok {
		updated := *current
		updated.ReportID = report.ID
		s.sessions[sessionID] = &updated
	}
	s.mu.Unlock()

	return report, nil
}

// Export assembles the session's report as text or HTML
func (s *sessionService) Export(ctx context.Context, userID, sessionID string, format docsysSvc.ExportFormat) (*docsysSvc.ExportResult, error) {
	session, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	text, err := s.assembler.Serialize(session.Structure, session.Name, s.now())
	if err != nil {
		return nil, err
	}

	switch format {
	case "", docsysSvc.ExportText:
		return &docsysSvc.ExportResult{
			FileName:    s.assembler.FileName(session.Name),
			ContentType: "text/plain; charset=utf-8",
			Body:        text,
		}, nil
	case docsysSvc.ExportHTML:
		html, err := s.renderer.RenderHTML(ctx, session.Name, text)
		if err != nil {
			return nil, fmt.Errorf("render report html: %w", err)
		}
		return &docsysSvc.ExportResult{
			FileName:    strings.TrimSuffix(s.assembler.FileName(session.Name), ".txt") + ".html",
			ContentType: "text/html; charset=utf-8",
			Body:        html,
		}, nil
	default:
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unsupported export format %q", format)}
	}
}

// Close drops a session
func (s *sessionService) Close(_ context.Context, userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.lookup(userID, sessionID); err != nil {
		return err
	}
	delete(s.sessions, sessionID)
	s.logger.Info("session closed", "session_id", sessionID)
	return nil
}

// pools returns the shared document library first, then the user's uploads
func (s *sessionService) pools(ctx context.Context, userID string) ([]*models.DocumentPool, error) {
	uploads, err := s.uploads.Pool(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load uploads pool: %w", err)
	}
	return []*models.DocumentPool{s.documents.Pool(), uploads}, nil
}

// lookup must be called with mu held. Sessions of other users are reported
// as missing.
func (s *sessionService) lookup(userID, sessionID string) (*docsysSvc.Session, error) {
	session, ok := s.sessions[sessionID]
	if !ok || session.UserID != userID {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("session %s not found", sessionID)}
	}
	return session, nil
}

// evictIdle must be called with mu held
func (s *sessionService) evictIdle() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, session := range s.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			s.logger.Debug("session expired", "session_id", id)
		}
	}
}
