package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"reportdesk/internal/config"
	docsysSvc "reportdesk/internal/domain/services/docsystem"
	"reportdesk/internal/repository/postgres"
	postgresDocsys "reportdesk/internal/repository/postgres/docsystem"
	serviceDocsys "reportdesk/internal/service/docsystem"
	"reportdesk/internal/service/docsystem/converter"
	"reportdesk/internal/service/docsystem/scan"
	"reportdesk/internal/service/docsystem/treeops"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only run migrations, don't seed data")
	clearData := flag.Bool("clear-data", false, "Clear the user's reports, library and uploads (keep schema)")
	userID := flag.String("user", "demo", "User to seed")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("🌱 Seeding database (environment: %s, prefix: %s, user: %s)", cfg.Environment, cfg.TablePrefix, *userID)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Running migrations...")
	if err := postgres.RunMigrations(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		return
	}

	log.Println("🧹 Clearing existing data...")
	if err := clearUserData(ctx, pool, tables, *userID); err != nil {
		log.Fatalf("Failed to clear data: %v", err)
	}
	if *clearData {
		log.Println("✅ Data cleared")
		return
	}

	seed, err := config.LoadLibrarySeed(cfg.LibrarySeedFile)
	if err != nil {
		log.Fatalf("Failed to load library seed: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	txManager := postgres.NewTransactionManager(pool, logger)
	uploadRepo := postgresDocsys.NewUploadRepository(repoConfig)
	ids := treeops.UUIDGenerator{}
	libraryService := serviceDocsys.NewLibraryService(postgresDocsys.NewLibraryRepository(repoConfig), txManager, seed, ids, logger)
	reportService := serviceDocsys.NewReportService(postgresDocsys.NewReportRepository(repoConfig), txManager, ids, logger)
	uploadsService := serviceDocsys.NewUploadsService(uploadRepo, converter.NewConverterRegistry(), ids, logger)

	// First read stores the seeded library
	library, err := libraryService.GetLibrary(ctx, *userID)
	if err != nil {
		log.Fatalf("Failed to seed report library: %v", err)
	}
	log.Printf("✅ Report library seeded (%d directories)", len(library))

	report, err := reportService.SaveReport(ctx, &docsysSvc.SaveReportRequest{
		UserID:    *userID,
		Name:      "示例投标文件",
		Structure: treeops.Clone(library),
	})
	if err != nil {
		log.Fatalf("Failed to create sample report: %v", err)
	}
	log.Printf("✅ Sample report created (ID: %s)", report.ID)

	note, err := uploadsService.Add(ctx, &docsysSvc.AddUploadRequest{
		UserID:      *userID,
		Filename:    "项目说明.md",
		Content:     []byte("# 项目说明\n\n本项目用于演示报告编辑流程。"),
		Description: "示例上传",
	})
	if err != nil {
		log.Fatalf("Failed to create sample upload: %v", err)
	}
	log.Printf("✅ Sample upload created (ID: %s)", note.ID)

	imported, err := scan.NewUploadsScanner(cfg.UploadsRoot, scan.UploadsBaseURL, logger).Import(ctx, uploadRepo)
	if err != nil {
		log.Fatalf("Failed to import uploads: %v", err)
	}
	log.Printf("✅ Imported %d uploads from %s", imported, cfg.UploadsRoot)

	log.Println("🎉 Seeding complete!")
}

// dropAllTables drops every prefixed table, goose's version table included,
// so the next migration run starts fresh
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	for _, table := range []string{
		tables.Uploads,
		tables.Libraries,
		tables.Reports,
		tables.Prefix + "goose_db_version",
	} {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}
	return nil
}

// clearUserData deletes one user's rows from every table
func clearUserData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, userID string) error {
	for _, table := range []string{tables.Uploads, tables.Libraries, tables.Reports} {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table+" WHERE user_id = $1", userID); err != nil {
			return err
		}
	}
	return nil
}
