package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr   string `yaml:"addr"`
	LogDir string `yaml:"log_dir"`

	BackendURL     string        `yaml:"backend_url"`
	BackendTimeout time.Duration `yaml:"backend_timeout"`

	Identity IdentityConfig `yaml:"identity"`

	ChatViewTTL  time.Duration `yaml:"chat_view_ttl"`
	CORSOrigins  []string      `yaml:"cors_origins"`
	ContentFile  string        `yaml:"content_file"`
	IngestMaxMiB int64         `yaml:"ingest_max_mib"`

	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBName     string `yaml:"db_name"`

	MinIOEndpoint  string `yaml:"minio_endpoint"`
	MinIOAccessKey string `yaml:"minio_access_key"`
	MinIOSecretKey string `yaml:"minio_secret_key"`
	MinIOBucket    string `yaml:"minio_bucket"`
	MinIOSecure    bool   `yaml:"minio_secure"`
}

// IdentityConfig describes the external identity provider whose session
// tokens this server verifies. Either JWKSURL or HMACSecret must be set.
type IdentityConfig struct {
	Issuer        string        `yaml:"issuer"`
	Audience      string        `yaml:"audience"`
	JWKSURL       string        `yaml:"jwks_url"`
	JWKSRefresh   time.Duration `yaml:"jwks_refresh"`
	HMACSecret    string        `yaml:"hmac_secret"`
	SessionCookie string        `yaml:"session_cookie"`
	SignInURL     string        `yaml:"sign_in_url"`
	SignUpURL     string        `yaml:"sign_up_url"`
}

func (c Config) DatabaseEnabled() bool {
	return c.DBHost != "" && c.DBName != ""
}

func (c Config) StorageEnabled() bool {
	return c.MinIOEndpoint != "" && c.MinIOBucket != ""
}

func LoadConfig() Config {
	// .env is optional; real deployments inject the environment directly
	_ = godotenv.Load()

	cfg := Config{
		Addr:   getEnv("ADDR", ":8080"),
		LogDir: getEnv("LOG_DIR", "./logs"),

		BackendURL:     strings.TrimRight(getEnv("BACKEND_URL", "http://127.0.0.1:8000"), "/"),
		BackendTimeout: getEnvAsDuration("BACKEND_TIMEOUT", 5*time.Minute),

		Identity: IdentityConfig{
			Issuer:        getEnv("IDP_ISSUER", ""),
			Audience:      getEnv("IDP_AUDIENCE", ""),
			JWKSURL:       getEnv("IDP_JWKS_URL", ""),
			JWKSRefresh:   getEnvAsDuration("IDP_JWKS_REFRESH", time.Hour),
			HMACSecret:    getEnv("IDP_HMAC_SECRET", ""),
			SessionCookie: getEnv("IDP_SESSION_COOKIE", "__session"),
			SignInURL:     getEnv("IDP_SIGN_IN_URL", ""),
			SignUpURL:     getEnv("IDP_SIGN_UP_URL", ""),
		},

		ChatViewTTL:  getEnvAsDuration("CHAT_VIEW_TTL", 30*time.Minute),
		CORSOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		ContentFile:  getEnv("CONTENT_FILE", ""),
		IngestMaxMiB: int64(getEnvAsInt("INGEST_MAX_MIB", 32)),

		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", ""),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "legalai-ingest"),
		MinIOSecure:    getEnvAsBool("MINIO_SECURE", false),
	}

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := cfg.Overlay(path); err != nil {
			panic("failed to load config file: " + err.Error())
		}
	}
	return cfg
}

// Overlay reads a YAML file on top of cfg. Keys missing from the file keep
// their current values.
func (c *Config) Overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	c.BackendURL = strings.TrimRight(c.BackendURL, "/")
	return nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
