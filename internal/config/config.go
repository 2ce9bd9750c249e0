package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string // empty runs the server on in-memory stores
	CORSOrigins string
	TablePrefix string
	// Requests without an X-User-ID header act as this user; empty rejects them
	DefaultUserID string
	// Document library
	LibraryRoot     string // directory scanned into the shared document library
	UploadsRoot     string // uploads/<user>/<task>/<file>, imported at startup
	LibrarySeedFile string // YAML report-library templates for new users
	LibraryWatch    bool
	WatchDebounce   time.Duration
	// Editing sessions idle longer than this are dropped
	SessionTTL time.Duration
	// Content fetching for s3:// document URLs
	S3Region    string
	S3Endpoint  string // MinIO or other S3-compatible endpoint
	S3AccessKey string // empty uses the default AWS credential chain
	S3SecretKey string
	// Largest document body fetched for a URL
	MaxFetchSize int64
	// http(s) hosts and s3 buckets document URLs may point at
	RemoteHosts []string
	// Logging
	LogDir      string
	LogMaxFiles int
	// Debug flags
	Debug bool // Enables debug logging
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: tablePrefix,
		// Identity
		DefaultUserID: getEnv("DEFAULT_USER_ID", ""),
		// Document library
		LibraryRoot:     getEnv("LIBRARY_ROOT", "public/library"),
		UploadsRoot:     getEnv("UPLOADS_ROOT", "public/uploads"),
		LibrarySeedFile: getEnv("LIBRARY_SEED_FILE", ""),
		LibraryWatch:    getEnv("LIBRARY_WATCH", "true") == "true",
		WatchDebounce:   getDuration("LIBRARY_WATCH_DEBOUNCE", 500*time.Millisecond),
		SessionTTL:      getDuration("SESSION_TTL", 12*time.Hour),
		// Content fetching
		S3Region:     getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:   getEnv("S3_ENDPOINT", ""),
		S3AccessKey:  getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:  getEnv("S3_SECRET_KEY", ""),
		MaxFetchSize: int64(getInt("MAX_FETCH_SIZE", MaxUploadSize)),
		RemoteHosts:  getList("CONTENT_REMOTE_HOSTS"),
		// Logging
		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getInt("LOG_MAX_FILES", 10),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true" // Enable DEBUG in dev/test by default
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

// getList splits a comma-separated variable, dropping blank entries
func getList(key string) []string {
	var values []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
