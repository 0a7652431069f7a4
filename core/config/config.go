package config

import (
	"path/filepath"
	"strings"
	"time"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App        AppConfig
	Paths      PathsConfig
	Database   DatabaseConfig
	AI         AIConfig
	WorkerPool WorkerPoolConfig
	APIKeys    APIKeysConfig
}

type AppConfig struct {
	Version            string
	Port               string
	Debug              bool
	Environment        string
	BasePath           string
	TrustedProxies     []string
	BaseUrl            string
	CorsAllowedOrigins []string
	ServerID           string
	MaxUploadBytes     int64
}

type PathsConfig struct {
	BaseDir  string
	Storages string
	Uploads  string
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string // File path for SQLite, DB Name for Postgres
	ValkeyEnabled   bool
	ValkeyAddress   string
	ValkeyPassword  string
	ValkeyDB        int
	ValkeyKeyPrefix string
}

type AIConfig struct {
	Provider         string // "openai" (default) or "gemini"
	Model            string
	MinRequestDelay  time.Duration
	SessionTTL       time.Duration
	TruncateStrategy string // "first-chunk" (default) or "rotate"
}

type WorkerPoolConfig struct {
	Size      int
	QueueSize int
}

type APIKeysConfig struct {
	OpenAI string
	Gemini string
}

// Global provides access to the loaded configuration globally (Migration Helper)
var Global *Config

// LoadConfig loads configuration from Environment Variables or defaults.
func LoadConfig() (*Config, error) {
	baseDir := getEnv("APP_BASE_DIR", "storages")

	debug := getEnvBool("APP_DEBUG", false) || getEnvBool("DEBUG", false)

	corsOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if v := getEnv("APP_CORS_ALLOWED_ORIGINS", ""); v != "" {
		corsOrigins = strings.Split(v, ",")
	}

	appCfg := AppConfig{
		Version:            "v1.0.0",
		Port:               getEnv("APP_PORT", "3000"),
		Debug:              debug,
		Environment:        getEnv("APP_ENV", "development"),
		BasePath:           getEnv("APP_BASE_PATH", ""),
		BaseUrl:            getEnv("APP_BASE_URL", "http://localhost:3000"),
		CorsAllowedOrigins: corsOrigins,
		ServerID:           getEnv("SERVER_ID", ""),
		MaxUploadBytes:     getEnvInt64("APP_MAX_UPLOAD_BYTES", 20*1024*1024),
	}
	if v := getEnv("APP_TRUSTED_PROXIES", ""); v != "" {
		appCfg.TrustedProxies = strings.Split(v, ",")
	}

	pathsCfg := PathsConfig{
		BaseDir:  baseDir,
		Storages: baseDir,
		Uploads:  getEnv("PATH_UPLOADS", filepath.Join(baseDir, "uploads")),
	}

	dbCfg := DatabaseConfig{
		Driver:          getEnv("DB_DRIVER", "sqlite"),
		Name:            getEnv("DB_NAME", filepath.Join(pathsCfg.Storages, "study.db")),
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		ValkeyEnabled:   getEnvBool("VALKEY_ENABLED", false),
		ValkeyAddress:   getEnv("VALKEY_ADDRESS", "localhost:6379"),
		ValkeyPassword:  getEnv("VALKEY_PASSWORD", ""),
		ValkeyDB:        getEnvInt("VALKEY_DB", 0),
		ValkeyKeyPrefix: getEnv("VALKEY_KEY_PREFIX", "azstudy:"),
	}

	aiCfg := AIConfig{
		Provider:         strings.ToLower(getEnv("AI_PROVIDER", "openai")),
		Model:            getEnv("AI_MODEL", "gpt-4"),
		MinRequestDelay:  time.Duration(getEnvInt("AI_MIN_REQUEST_DELAY_MS", 1000)) * time.Millisecond,
		SessionTTL:       time.Duration(getEnvInt("AI_SESSION_TTL_MINUTES", 240)) * time.Minute,
		TruncateStrategy: strings.ToLower(getEnv("AI_TRUNCATE_STRATEGY", "first-chunk")),
	}

	cfg := &Config{
		App:        appCfg,
		Paths:      pathsCfg,
		Database:   dbCfg,
		AI:         aiCfg,
		WorkerPool: WorkerPoolConfig{Size: getEnvInt("INGEST_WORKER_POOL_SIZE", 6), QueueSize: getEnvInt("INGEST_WORKER_QUEUE_SIZE", 250)},
		APIKeys: APIKeysConfig{
			OpenAI: getEnv("OPENAI_API_KEY", ""),
			Gemini: getEnv("GEMINI_API_KEY", ""),
		},
	}

	Global = cfg
	return cfg, nil
}
