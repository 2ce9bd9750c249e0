package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportdesk/internal/config"
	"reportdesk/internal/content"
	models "reportdesk/internal/domain/models/docsystem"
	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/httputil"
	"reportdesk/internal/middleware"
	"reportdesk/internal/repository/memory"
	docsys "reportdesk/internal/service/docsystem"
	"reportdesk/internal/service/docsystem/converter"
	"reportdesk/internal/service/docsystem/export"
	"reportdesk/internal/service/docsystem/scan"
	"reportdesk/internal/service/docsystem/treeops"
)

type testServer struct {
	handler http.Handler
	pool    *models.DocumentPool
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "tech"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tech", "01_datasheet.pdf"), []byte("%PDF-1.7 datasheet"), 0o644))

	documents := scan.NewLibrary(scan.NewLibraryScanner(root, scan.LibraryBaseURL), logger)
	require.NoError(t, documents.Rescan(t.Context()))

	ids := &treeops.SequenceGenerator{}
	tx := memory.NewTransactionManager()
	registry := converter.NewConverterRegistry()

	library := docsys.NewLibraryService(memory.NewLibraryRepository(), tx, config.DefaultLibrarySeed(), ids, logger)
	uploads := docsys.NewUploadsService(memory.NewUploadRepository(), registry, ids, logger)
	reports := docsys.NewReportService(memory.NewReportRepository(), tx, ids, logger)
	tree := docsys.NewTreeService(docsys.NewContentAnalyzer(), logger)
	resolver := content.NewResolver(content.Options{
		Mounts: []content.Mount{{Prefix: scan.LibraryBaseURL, Dir: root}},
	}, logger)

	sessions := docsys.NewSessionService(docsys.SessionDeps{
		Reducer:   docsys.NewSessionReducer(docsys.NewApplyEngine(ids, logger), docsys.NewDocumentLinkEngine(ids, logger), ids, logger),
		Library:   library,
		Documents: documents,
		Uploads:   uploads,
		Reports:   reports,
		Assembler: docsys.NewReportAssembler(logger),
		Renderer:  export.NewHTMLRenderer(logger),
		IDs:       ids,
	}, time.Hour, logger)

	mux := NewRouter(Handlers{
		Sessions:  NewSessionHandler(sessions, logger),
		Library:   NewLibraryHandler(library, logger),
		Uploads:   NewUploadHandler(uploads, tree, logger),
		Reports:   NewReportHandler(reports, logger),
		Documents: NewDocumentHandler(documents, uploads, tree, docsys.NewDocumentContentService(documents, uploads, resolver, registry, logger), logger),
	}, StaticDir{Prefix: scan.LibraryBaseURL, Dir: root})

	return &testServer{
		handler: middleware.Identity("")(mux),
		pool:    documents.Pool(),
	}
}

func (s *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set(httputil.UserIDHeader, "u1")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) datasheetID(t *testing.T) string {
	t.Helper()
	for _, n := range s.pool.Nodes() {
		if n.IsFile() {
			return n.ID
		}
	}
	t.Fatal("no library file scanned")
	return ""
}

func TestSessionFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sessionID := decode[docsysSvc.Session](t, rec).ID
	base := "/api/sessions/" + sessionID

	rec = s.do(t, http.MethodPost, base+"/commands", docsysSvc.Command{Kind: docsysSvc.CmdCreateFolder, Name: "Chapter 1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	folderID := decode[docsysSvc.CommandResult](t, rec).CreatedIDs[0]

	link := docsysSvc.Command{Kind: docsysSvc.CmdLinkDocument, NodeID: s.datasheetID(t), TargetID: folderID}
	rec = s.do(t, http.MethodPost, base+"/commands", link)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	linked := decode[docsysSvc.CommandResult](t, rec)
	assert.Equal(t, 1, linked.Added)

	rec = s.do(t, http.MethodPost, base+"/commands", link)
	assert.Equal(t, http.StatusConflict, rec.Code)
	problem := decode[map[string]any](t, rec)
	assert.Equal(t, linked.CreatedIDs[0], problem["resourceId"])

	rec = s.do(t, http.MethodGet, base+"/export", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unnamed report")

	rec = s.do(t, http.MethodPost, base+"/commands", docsysSvc.Command{Kind: docsysSvc.CmdSetName, Name: "Bid"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, base+"/export?format=text", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=Bid.txt`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "\n## Chapter 1\n")
	assert.Contains(t, rec.Body.String(), "\n### datasheet\n")

	rec = s.do(t, http.MethodGet, base+"/export?format=html", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h2")

	rec = s.do(t, http.MethodPost, base+"/save", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report := decode[models.Report](t, rec)

	rec = s.do(t, http.MethodGet, "/api/reports/"+report.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionFoldersAndLinkFolder(t *testing.T) {
	s := newTestServer(t)
	base := "/api/sessions/" + decode[docsysSvc.Session](t, s.do(t, http.MethodPost, "/api/sessions", nil)).ID

	rec := s.do(t, http.MethodPost, base+"/commands", docsysSvc.Command{Kind: docsysSvc.CmdCreateFolder, Name: "Chapter 1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	chapterID := decode[docsysSvc.CommandResult](t, rec).CreatedIDs[0]

	rec = s.do(t, http.MethodPost, base+"/commands", docsysSvc.Command{Kind: docsysSvc.CmdCreateFolder, Name: "Part A", TargetID: chapterID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	partID := decode[docsysSvc.CommandResult](t, rec).CreatedIDs[0]

	rec = s.do(t, http.MethodGet, base+"/folders", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []docsysSvc.FolderChoice{
		{ID: chapterID, Name: "Chapter 1", Path: treeops.RootPathLabel},
		{ID: partID, Name: "Part A", Path: "Chapter 1 / Part A"},
	}, decode[[]docsysSvc.FolderChoice](t, rec))

	techID := s.pool.Roots()[0].ID
	rec = s.do(t, http.MethodPost, base+"/commands", docsysSvc.Command{Kind: docsysSvc.CmdLinkFolder, NodeID: techID, TargetID: partID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	linked := decode[docsysSvc.CommandResult](t, rec)
	assert.Equal(t, 1, linked.Added)

	rec = s.do(t, http.MethodPost, base+"/commands", docsysSvc.Command{Kind: docsysSvc.CmdLinkFolder, NodeID: s.datasheetID(t), TargetID: partID})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "a file is not a folder")

	rec = s.do(t, http.MethodGet, "/api/sessions/missing/folders", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommandErrors(t *testing.T) {
	s := newTestServer(t)
	sessionID := decode[docsysSvc.Session](t, s.do(t, http.MethodPost, "/api/sessions", nil)).ID
	target := "/api/sessions/" + sessionID + "/commands"

	rec := s.do(t, http.MethodPost, target, map[string]string{"kind": "rename", "node": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown field")

	rec = s.do(t, http.MethodPost, target, docsysSvc.Command{Kind: docsysSvc.CmdLinkDocument, NodeID: s.datasheetID(t)})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "no target folder")
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	rec = s.do(t, http.MethodPost, target, docsysSvc.Command{Kind: docsysSvc.CmdDelete, NodeID: "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMissingIdentity(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/library", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLibraryRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/library", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[models.Forest](t, rec), 3)

	rec = s.do(t, http.MethodPost, "/api/library/directories", map[string]string{"name": "Appendix"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	dir := decode[models.ReportFolder](t, rec)

	rec = s.do(t, http.MethodPatch, "/api/library/directories/"+dir.ID, map[string]string{"name": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/library/directories/"+dir.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUploadRoutes(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("quarterly budget review"))
	require.NoError(t, err)
	require.NoError(t, form.WriteField("description", "meeting"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set(httputil.UserIDHeader, "u1")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	upload := decode[models.DocumentNode](t, rec)
	assert.Equal(t, models.StatusLocal, upload.Status)

	rec = s.do(t, http.MethodGet, "/api/documents/search?source=uploads&q=BUDGET&fields=content", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	hits := decode[[]models.SearchHit](t, rec)
	require.Len(t, hits, 1)
	assert.Equal(t, upload.ID, hits[0].ID)

	rec = s.do(t, http.MethodGet, "/api/documents/"+upload.ID+"/content", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "quarterly budget review", decode[map[string]any](t, rec)["content"])

	rec = s.do(t, http.MethodPost, "/api/uploads/"+upload.ID+"/confirm", map[string]string{"serverId": "srv-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/uploads", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tree := decode[models.TreeNode](t, rec)
	require.Len(t, tree.Documents, 1)
	assert.Equal(t, "srv-1", tree.Documents[0].Status)

	rec = s.do(t, http.MethodDelete, "/api/uploads/"+upload.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDocumentRoutes(t *testing.T) {
	s := newTestServer(t)
	id := s.datasheetID(t)

	rec := s.do(t, http.MethodGet, "/api/documents/tree", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tree := decode[models.TreeNode](t, rec)
	require.Len(t, tree.Folders, 1)
	assert.Equal(t, "tech", tree.Folders[0].Name)

	rec = s.do(t, http.MethodGet, "/api/documents/"+id+"/content", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.FileTypePDF, rec.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.7 datasheet", rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/documents/search?source=elsewhere&q=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/documents/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/files/library/tech/01_datasheet.pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	rec = s.do(t, http.MethodPost, "/api/documents/rescan", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReportRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/reports", map[string]any{"name": "R", "structure": []any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	structure := models.Forest{&models.ReportFolder{ID: "c1", Name: "C1", Children: models.Forest{}}}
	rec = s.do(t, http.MethodPost, "/api/reports", map[string]any{"name": "R", "structure": structure})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	report := decode[models.Report](t, rec)

	rec = s.do(t, http.MethodPost, "/api/reports/"+report.ID+"/attachments", map[string]any{"kind": "style", "name": "style.docx", "size": 10})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	file := decode[models.UploadedFile](t, rec)

	rec = s.do(t, http.MethodDelete, "/api/reports/"+report.ID+"/attachments/style/"+file.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/reports", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.ReportSummary](t, rec), 1)

	rec = s.do(t, http.MethodDelete, "/api/reports/"+report.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
