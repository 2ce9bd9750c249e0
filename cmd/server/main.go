package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"reportdesk/internal/config"
	"reportdesk/internal/content"
	"reportdesk/internal/domain/repositories"
	docsysRepo "reportdesk/internal/domain/repositories/docsystem"
	"reportdesk/internal/handler"
	"reportdesk/internal/middleware"
	"reportdesk/internal/repository/memory"
	"reportdesk/internal/repository/postgres"
	postgresDocsys "reportdesk/internal/repository/postgres/docsystem"
	serviceDocsys "reportdesk/internal/service/docsystem"
	"reportdesk/internal/service/docsystem/converter"
	"reportdesk/internal/service/docsystem/export"
	"reportdesk/internal/service/docsystem/scan"
	"reportdesk/internal/service/docsystem/treeops"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

// stores is the persistence behind the services
type stores struct {
	txManager repositories.TransactionManager
	library   docsysRepo.LibraryRepository
	reports   docsysRepo.ReportRepository
	uploads   docsysRepo.UploadRepository
	close     func()
}

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open stores: %v", err)
	}
	defer st.close()

	// Report-library templates for new users
	seed := config.DefaultLibrarySeed()
	if cfg.LibrarySeedFile != "" {
		seed, err = config.LoadLibrarySeed(cfg.LibrarySeedFile)
		if err != nil {
			log.Fatalf("Failed to load library seed: %v", err)
		}
		logger.Info("library seed loaded", "file", cfg.LibrarySeedFile, "directories", len(seed.Directories))
	}

	// Shared document library
	documents := scan.NewLibrary(scan.NewLibraryScanner(cfg.LibraryRoot, scan.LibraryBaseURL), logger)
	if err := documents.Rescan(ctx); err != nil {
		log.Fatalf("Failed to scan document library: %v", err)
	}

	// Files already on disk under the uploads root
	uploadsScanner := scan.NewUploadsScanner(cfg.UploadsRoot, scan.UploadsBaseURL, logger)
	if _, err := uploadsScanner.Import(ctx, st.uploads); err != nil {
		log.Fatalf("Failed to import uploads: %v", err)
	}

	if cfg.LibraryWatch {
		watcher, err := scan.NewWatcher(documents, cfg.WatchDebounce, logger)
		if err != nil {
			log.Fatalf("Failed to create library watcher: %v", err)
		}
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Error("library watcher stopped", "error", err)
			}
		}()
	}

	// Content fetching
	s3Client, err := content.NewS3Client(ctx, content.S3Config{
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		log.Fatalf("Failed to create S3 client: %v", err)
	}
	resolver := content.NewResolver(content.Options{
		Mounts: []content.Mount{
			{Prefix: scan.LibraryBaseURL, Dir: cfg.LibraryRoot},
			{Prefix: scan.UploadsBaseURL, Dir: cfg.UploadsRoot},
		},
		HTTP:        &http.Client{Timeout: 30 * time.Second},
		S3:          s3Client,
		MaxBytes:    cfg.MaxFetchSize,
		RemoteHosts: cfg.RemoteHosts,
	}, logger)

	// Create document services
	ids := treeops.UUIDGenerator{}
	registry := converter.NewConverterRegistry()
	libraryService := serviceDocsys.NewLibraryService(st.library, st.txManager, seed, ids, logger)
	uploadsService := serviceDocsys.NewUploadsService(st.uploads, registry, ids, logger)
	reportService := serviceDocsys.NewReportService(st.reports, st.txManager, ids, logger)
	treeService := serviceDocsys.NewTreeService(serviceDocsys.NewContentAnalyzer(), logger)
	contentService := serviceDocsys.NewDocumentContentService(documents, uploadsService, resolver, registry, logger)
	sessionService := serviceDocsys.NewSessionService(serviceDocsys.SessionDeps{
		Reducer: serviceDocsys.NewSessionReducer(
			serviceDocsys.NewApplyEngine(ids, logger),
			serviceDocsys.NewDocumentLinkEngine(ids, logger),
			ids,
			logger,
		),
		Library:   libraryService,
		Documents: documents,
		Uploads:   uploadsService,
		Reports:   reportService,
		Assembler: serviceDocsys.NewReportAssembler(logger),
		Renderer:  export.NewHTMLRenderer(logger),
		IDs:       ids,
	}, cfg.SessionTTL, logger)

	logger.Info("services initialized", "documents", documents.Pool().Len())

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := handler.NewRouter(handler.Handlers{
		Sessions:  handler.NewSessionHandler(sessionService, logger),
		Library:   handler.NewLibraryHandler(libraryService, logger),
		Uploads:   handler.NewUploadHandler(uploadsService, treeService, logger),
		Reports:   handler.NewReportHandler(reportService, logger),
		Documents: handler.NewDocumentHandler(documents, uploadsService, treeService, contentService, logger),
	},
		handler.StaticDir{Prefix: scan.LibraryBaseURL, Dir: cfg.LibraryRoot},
		handler.StaticDir{Prefix: scan.UploadsBaseURL, Dir: cfg.UploadsRoot},
	)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Identity → Routes
	h = middleware.Identity(cfg.DefaultUserID)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be outermost to answer OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "X-User-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  60 * time.Second, // uploads up to MaxUploadSize
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	<-shutdownDone
}

// openStores connects to Postgres and migrates it, or falls back to
// in-memory stores when no database is configured
func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory stores (data is lost on restart)")
		return &stores{
			txManager: memory.NewTransactionManager(),
			library:   memory.NewLibraryRepository(),
			reports:   memory.NewReportRepository(),
			uploads:   memory.NewUploadRepository(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected",
		"max_conns", pool.Config().MaxConns,
		"min_conns", pool.Config().MinConns,
	)

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.RunMigrations(ctx, pool, tables); err != nil {
		pool.Close()
		return nil, err
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	return &stores{
		txManager: postgres.NewTransactionManager(pool, logger),
		library:   postgresDocsys.NewLibraryRepository(repoConfig),
		reports:   postgresDocsys.NewReportRepository(repoConfig),
		uploads:   postgresDocsys.NewUploadRepository(repoConfig),
		close:     pool.Close,
	}, nil
}
