package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"dinehub/internal/pkg/signature"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode   string
	Port      string
	Database  DatabaseConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	QR        QRConfig
	Sweep     SweepConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
	Metrics   MetricsConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// CookieConfig holds the access token cookie settings
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// QRConfig holds membership QR signing and verification settings
type QRConfig struct {
	Secret          string
	FreshnessWindow time.Duration
	FutureSkew      time.Duration
	ImageSize       int
}

// SweepConfig holds the expiration sweeper schedule
type SweepConfig struct {
	Enabled  bool
	Schedule string
	Lookback time.Duration
}

// RateLimitConfig holds the per-IP request limits and the QR verification throttle
type RateLimitConfig struct {
	APIPerMinute    int
	AuthPerMinute   int
	VerifyPerSecond float64
	VerifyBurst     int
}

// AdminConfig holds the seeded administrator account
type AdminConfig struct {
	Username string
	Password string
	Email    string
}

// MetricsConfig controls the prometheus endpoint
type MetricsConfig struct {
	Enabled bool
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	config, err := FromEnv()
	if err != nil {
		return nil, err
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", config.AppMode)
	return config, nil
}

// FromEnv builds the configuration from the process environment only
func FromEnv() (*Config, error) {
	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	qr, err := loadQRConfig()
	if err != nil {
		return nil, err
	}

	sweep, err := loadSweepConfig()
	if err != nil {
		return nil, err
	}

	database, err := loadDatabaseConfig(appMode)
	if err != nil {
		return nil, err
	}

	return &Config{
		AppMode:   appMode,
		Port:      getEnv("PORT", "3000"),
		Database:  database,
		JWT:       loadJWTConfig(appMode),
		Cookie:    loadCookieConfig(appMode),
		QR:        qr,
		Sweep:     sweep,
		RateLimit: loadRateLimitConfig(),
		Admin:     loadAdminConfig(),
		Metrics:   MetricsConfig{Enabled: getBool("METRICS_ENABLED", true)},
	}, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) (DatabaseConfig, error) {
	prefix := modePrefix(mode)

	lifetime, err := getDuration("DB_CONN_MAX_LIFETIME", time.Hour)
	if err != nil {
		return DatabaseConfig{}, err
	}
	maxOpen := getInt("DB_MAX_OPEN_CONNS", 100)
	maxIdle := getInt("DB_MAX_IDLE_CONNS", 10)
	if maxIdle > maxOpen {
		maxIdle = maxOpen
	}

	return DatabaseConfig{
		Host:            getEnv(prefix+"DB_HOST", "localhost"),
		Port:            getEnv(prefix+"DB_PORT", "3306"),
		User:            getEnv(prefix+"DB_USER", "root"),
		Password:        getEnv(prefix+"DB_PASS", ""),
		DBName:          getEnv(prefix+"DB_NAME", "dinehub"),
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: lifetime,
	}, nil
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "60"))

	return JWTConfig{
		Secret:          getEnv(prefix+"JWT_SECRET", "default_secret"),
		AccessTokenMins: accessMins,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := modePrefix(mode)

	return CookieConfig{
		Secure:   getBool(prefix+"COOKIE_SECURE", mode == "prod"),
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// loadQRConfig loads the signing secret; a missing or short secret is fatal
func loadQRConfig() (QRConfig, error) {
	secret := os.Getenv("QR_SIGNATURE_SECRET")
	if err := signature.ValidateSecret(secret); err != nil {
		return QRConfig{}, fmt.Errorf("QR_SIGNATURE_SECRET: %w", err)
	}

	freshness, err := getDuration("QR_FRESHNESS_WINDOW", 10*time.Minute)
	if err != nil {
		return QRConfig{}, err
	}
	skew, err := getDuration("QR_FUTURE_SKEW", time.Minute)
	if err != nil {
		return QRConfig{}, err
	}
	size, _ := strconv.Atoi(getEnv("QR_IMAGE_SIZE", "256"))

	return QRConfig{
		Secret:          secret,
		FreshnessWindow: freshness,
		FutureSkew:      skew,
		ImageSize:       size,
	}, nil
}

// loadSweepConfig loads the expiration sweeper settings
func loadSweepConfig() (SweepConfig, error) {
	lookback, err := getDuration("MEMBERSHIP_SWEEP_LOOKBACK", 24*time.Hour)
	if err != nil {
		return SweepConfig{}, err
	}

	return SweepConfig{
		Enabled:  getBool("MEMBERSHIP_SWEEP_ENABLED", true),
		Schedule: getEnv("MEMBERSHIP_SWEEP_CRON", "0 0 * * *"),
		Lookback: lookback,
	}, nil
}

// loadRateLimitConfig loads the request limits
func loadRateLimitConfig() RateLimitConfig {
	perSecond, err := strconv.ParseFloat(getEnv("VERIFY_RATE_PER_SECOND", "5"), 64)
	if err != nil || perSecond <= 0 {
		perSecond = 5
	}
	burst := getInt("VERIFY_RATE_BURST", 20)

	return RateLimitConfig{
		APIPerMinute:    getInt("API_RATE_PER_MINUTE", 100),
		AuthPerMinute:   getInt("AUTH_RATE_PER_MINUTE", 5),
		VerifyPerSecond: perSecond,
		VerifyBurst:     burst,
	}
}

// loadAdminConfig loads the seeded administrator account
func loadAdminConfig() AdminConfig {
	return AdminConfig{
		Username: getEnv("ADMIN_USERNAME", "admin"),
		Password: getEnv("ADMIN_PASSWORD", ""),
		Email:    getEnv("ADMIN_EMAIL", "admin@dinehub.local"),
	}
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt gets a positive integer environment variable with default value
func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// getBool gets a boolean environment variable with default value
func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}

// getDuration gets a duration environment variable such as "10m" or "24h"
func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: '%s'", key, raw)
	}
	return d, nil
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://dinehub.app"
	}
	return origins
}
