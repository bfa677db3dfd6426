package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Seed       SeedConfig
}

type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	RunMigrations bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	AllowedOrigins []string
}

// AttendanceConfig holds the geofence and shift window settings.
type AttendanceConfig struct {
	CenterLatitude   float64
	CenterLongitude  float64
	RadiusKm         float64
	EarlyMinutes     int
	LateMinutes      int
	EnforceShiftGate bool
	EnforceGeofence  bool
	StaleSweepEvery  time.Duration
}

// SeedConfig describes the admin account created at startup when set.
type SeedConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", slog.String("error", err.Error()))
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	runMigrations, err := strconv.ParseBool(getEnv("DB_RUN_MIGRATIONS", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_RUN_MIGRATIONS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:          getEnv("DB_HOST", "localhost"),
		Port:          dbPort,
		User:          getEnv("DB_USER", "postgres"),
		Password:      getEnv("DB_PASSWORD", ""),
		Name:          getEnv("DB_NAME", "absensi"),
		SSLMode:       getEnv("DB_SSL_MODE", "disable"),
		RunMigrations: runMigrations,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "Asia/Jakarta"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "24h"),
	}

	// Attendance configuration
	att := AttendanceConfig{}
	if att.CenterLatitude, err = getEnvFloat("ATTENDANCE_CENTER_LAT", 0); err != nil {
		return nil, err
	}
	if att.CenterLongitude, err = getEnvFloat("ATTENDANCE_CENTER_LON", 0); err != nil {
		return nil, err
	}
	if att.RadiusKm, err = getEnvFloat("ATTENDANCE_RADIUS_KM", 5); err != nil {
		return nil, err
	}
	if att.EarlyMinutes, err = getEnvInt("ATTENDANCE_EARLY_MINUTES", 15); err != nil {
		return nil, err
	}
	if att.LateMinutes, err = getEnvInt("ATTENDANCE_LATE_MINUTES", 15); err != nil {
		return nil, err
	}
	if att.EnforceShiftGate, err = strconv.ParseBool(getEnv("ATTENDANCE_ENFORCE_SHIFT_WINDOW", "false")); err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_ENFORCE_SHIFT_WINDOW: %w", err)
	}
	if att.EnforceGeofence, err = strconv.ParseBool(getEnv("ATTENDANCE_ENFORCE_GEOFENCE", "false")); err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_ENFORCE_GEOFENCE: %w", err)
	}
	if att.StaleSweepEvery, err = time.ParseDuration(getEnv("STALE_SWEEP_INTERVAL", "0s")); err != nil {
		return nil, fmt.Errorf("invalid STALE_SWEEP_INTERVAL: %w", err)
	}
	config.Attendance = att

	config.Seed = SeedConfig{
		AdminName:     getEnv("SEED_ADMIN_NAME", "Admin"),
		AdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
		AdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.Attendance.RadiusKm <= 0 {
		return fmt.Errorf("ATTENDANCE_RADIUS_KM must be positive")
	}
	if c.Attendance.EarlyMinutes < 0 || c.Attendance.LateMinutes < 0 {
		return fmt.Errorf("ATTENDANCE_EARLY_MINUTES and ATTENDANCE_LATE_MINUTES must not be negative")
	}
	if c.Attendance.StaleSweepEvery < 0 {
		return fmt.Errorf("STALE_SWEEP_INTERVAL must not be negative")
	}
	if c.Seed.AdminEmail != "" && len(c.Seed.AdminPassword) < 8 {
		return fmt.Errorf("SEED_ADMIN_PASSWORD must be at least 8 characters")
	}
	return nil
}

// Location returns the configured timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AccessTTL returns the parsed access token lifetime.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.JWT.AccessExpiration)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
