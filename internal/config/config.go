package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Storage    StorageConfig
	Database   DatabaseConfig
	MongoDB    MongoDBConfig
	Attendance AttendanceConfig
	SMTP       SMTPConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
}

// StorageConfig selects where the collections are kept.
type StorageConfig struct {
	Type     string // memory, local, postgres, mongo, none
	BasePath string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

type MongoDBConfig struct {
	URI  string
	Name string
}

// AttendanceConfig holds the work-hour thresholds.
type AttendanceConfig struct {
	WorkStartTime       string
	WorkEndTime         string
	LateThresholdMin    int
	OvertimeThresholdHr float64
	ApplyLateThreshold  bool
	Timezone            string
	AbsenceScanInterval time.Duration
}

// SMTPConfig holds mail settings for alert delivery. An empty Host disables mail.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func Load() (*Config, error) {
	// A missing .env is fine; the environment may already be populated.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	config.Storage = StorageConfig{
		Type:     strings.ToLower(getEnv("STORAGE_TYPE", "local")),
		BasePath: getEnv("STORAGE_BASE_PATH", "./data"),
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))
	if err != nil || dbMaxConns <= 0 {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %q", getEnv("DB_MAX_CONNS", ""))
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(dbMaxConns),
	}

	config.MongoDB = MongoDBConfig{
		URI:  getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		Name: getEnv("MONGODB_NAME", "attendance"),
	}

	// Attendance configuration
	lateThreshold, err := strconv.Atoi(getEnv("LATE_THRESHOLD_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid LATE_THRESHOLD_MINUTES: %w", err)
	}

	overtimeThreshold, err := strconv.ParseFloat(getEnv("OVERTIME_THRESHOLD_HOURS", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OVERTIME_THRESHOLD_HOURS: %w", err)
	}

	applyLate, err := strconv.ParseBool(getEnv("APPLY_LATE_THRESHOLD", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid APPLY_LATE_THRESHOLD: %w", err)
	}

	scanInterval, err := time.ParseDuration(getEnv("ABSENCE_SCAN_INTERVAL", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid ABSENCE_SCAN_INTERVAL: %w", err)
	}

	config.Attendance = AttendanceConfig{
		WorkStartTime:       getEnv("WORK_START_TIME", "11:30"),
		WorkEndTime:         getEnv("WORK_END_TIME", "17:00"),
		LateThresholdMin:    lateThreshold,
		OvertimeThresholdHr: overtimeThreshold,
		ApplyLateThreshold:  applyLate,
		Timezone:            getEnv("TIMEZONE", "Local"),
		AbsenceScanInterval: scanInterval,
	}

	// SMTP configuration
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "attendance@localhost"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "memory", "local", "postgres", "mongo", "none":
	default:
		return fmt.Errorf("STORAGE_TYPE must be one of memory, local, postgres, mongo, none")
	}
	if c.Storage.Type == "postgres" && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Storage.Type == "mongo" && c.MongoDB.URI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}
	if _, err := time.Parse("15:04", c.Attendance.WorkStartTime); err != nil {
		return fmt.Errorf("WORK_START_TIME must be HH:MM")
	}
	if _, err := time.Parse("15:04", c.Attendance.WorkEndTime); err != nil {
		return fmt.Errorf("WORK_END_TIME must be HH:MM")
	}
	if c.Attendance.LateThresholdMin < 0 {
		return fmt.Errorf("LATE_THRESHOLD_MINUTES must not be negative")
	}
	if c.Attendance.OvertimeThresholdHr < 0 {
		return fmt.Errorf("OVERTIME_THRESHOLD_HOURS must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	return nil
}

// Location resolves TIMEZONE. "Local" and "" mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Attendance.Timezone == "" || c.Attendance.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Attendance.Timezone)
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

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
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
