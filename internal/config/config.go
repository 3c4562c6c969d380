package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	MongoURI  string        `yaml:"mongo_uri"`
	DBName    string        `yaml:"db_name"`
	DBTimeout time.Duration `yaml:"db_timeout"`

	JWTSecret       string        `yaml:"jwt_secret"`
	JWTIssuer       string        `yaml:"jwt_issuer"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`

	CookieSecure   bool   `yaml:"cookie_secure"`
	CookieSameSite string `yaml:"cookie_same_site"`
	CookieDomain   string `yaml:"cookie_domain"`

	UploadDir     string        `yaml:"upload_dir"`
	UploadBaseURL string        `yaml:"upload_base_url"`
	UploadTimeout time.Duration `yaml:"upload_timeout"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	LoginRatePerMin int    `yaml:"login_rate_per_min"`
	CORSOrigin      string `yaml:"cors_origin"`
}

// Default returns the configuration used when neither a file nor the
// environment says otherwise.
func Default() *Config {
	return &Config{
		Port:            "4000",
		LogLevel:        "info",
		DBName:          "food-del",
		DBTimeout:       5 * time.Second,
		JWTIssuer:       "foodapi",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 10 * 24 * time.Hour,
		CookieSecure:    true,
		CookieSameSite:  "lax",
		UploadDir:       "uploads",
		UploadBaseURL:   "/images",
		UploadTimeout:   10 * time.Second,
		LoginRatePerMin: 20,
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and finally the environment (.env is loaded first if present).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env not loaded", slog.String("error", err.Error()))
	}

	cfg := Default()
	if err := loadYAML(os.Getenv("CONFIG_FILE"), cfg); err != nil {
		return nil, err
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnvOrDefault("PORT", cfg.Port)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.MongoURI = getEnvOrDefault("MONGO_URI", cfg.MongoURI)
	cfg.DBName = getEnvOrDefault("DB_NAME", cfg.DBName)
	cfg.DBTimeout = getDurationEnv("DB_TIMEOUT", cfg.DBTimeout, time.Second)

	cfg.JWTSecret = getEnvOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = getEnvOrDefault("JWT_ISSUER", cfg.JWTIssuer)
	cfg.AccessTokenTTL = getDurationEnv("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL, time.Minute)
	cfg.RefreshTokenTTL = getDurationEnv("REFRESH_TOKEN_TTL", cfg.RefreshTokenTTL, 24*time.Hour)

	cfg.CookieSecure = getBoolEnv("COOKIE_SECURE", cfg.CookieSecure)
	cfg.CookieSameSite = strings.ToLower(getEnvOrDefault("COOKIE_SAME_SITE", cfg.CookieSameSite))
	cfg.CookieDomain = getEnvOrDefault("COOKIE_DOMAIN", cfg.CookieDomain)

	cfg.UploadDir = getEnvOrDefault("UPLOAD_DIR", cfg.UploadDir)
	cfg.UploadBaseURL = getEnvOrDefault("UPLOAD_BASE_URL", cfg.UploadBaseURL)
	cfg.UploadTimeout = getDurationEnv("UPLOAD_TIMEOUT", cfg.UploadTimeout, time.Second)

	cfg.RedisAddr = getEnvOrDefault("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnvOrDefault("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getIntEnv("REDIS_DB", cfg.RedisDB)

	cfg.LoginRatePerMin = getIntEnv("LOGIN_RATE_PER_MIN", cfg.LoginRatePerMin)
	cfg.CORSOrigin = getEnvOrDefault("CORS_ORIGIN", cfg.CORSOrigin)
}

// Validate rejects configurations the server cannot run safely with.
func (c *Config) Validate() error {
	var missing []string
	if c.MongoURI == "" {
		missing = append(missing, "MONGO_URI")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET too short (min 32 chars)")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		return fmt.Errorf("REFRESH_TOKEN_TTL must be longer than ACCESS_TOKEN_TTL")
	}
	if c.DBTimeout <= 0 {
		return fmt.Errorf("DB_TIMEOUT must be positive")
	}
	if c.UploadTimeout <= 0 {
		return fmt.Errorf("UPLOAD_TIMEOUT must be positive")
	}
	switch c.CookieSameSite {
	case "lax", "strict", "none":
	default:
		return fmt.Errorf("COOKIE_SAME_SITE must be lax, strict or none")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv reads a positive integer count of unit (minutes for access
// tokens, days for refresh tokens).
func getDurationEnv(key string, defaultValue time.Duration, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
