package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                   string
	DatabaseURL            string
	JWTSecret              string
	DataEncryptionKey      string
	FrontendDir            string
	FrontendURL            string
	Environment            string
	LogLevel               string
	SeedAdminEmail         string
	SeedAdminPassword      string
	SeedAdminName          string
	AllowSelfSignup        bool
	EmailFrom              string
	EmailEnabled           bool
	SMTPHost               string
	SMTPPort               int
	SMTPUser               string
	SMTPPassword           string
	SMTPUseTLS             bool
	RunMigrations          bool
	RunSeed                bool
	MaxBodyBytes           int64
	RateLimitPerMinute     int
	ScanRateLimitPerMinute int
	MetricsEnabled         bool
	AccessTokenTTL         time.Duration
	PasswordResetTTL       time.Duration
	ResetCleanupInterval   time.Duration
	AttendanceCooldown     time.Duration
	AttendanceShiftStart   string
	AttendanceShiftEnd     string
	AttendanceTimezone     string
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:                   getEnv("APP_ADDR", ":5004"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		DataEncryptionKey:      getEnv("DATA_ENCRYPTION_KEY", ""),
		FrontendDir:            getEnv("FRONTEND_DIR", "frontend/dist"),
		FrontendURL:            getEnv("FRONTEND_URL", "http://localhost:5173"),
		Environment:            getEnv("APP_ENV", "development"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		SeedAdminEmail:         getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword:      getEnv("SEED_ADMIN_PASSWORD", ""),
		SeedAdminName:          getEnv("SEED_ADMIN_NAME", "Administrator"),
		AllowSelfSignup:        getEnvBool("ALLOW_SELF_SIGNUP", false),
		EmailFrom:              getEnv("EMAIL_FROM", "no-reply@example.com"),
		EmailEnabled:           getEnvBool("EMAIL_ENABLED", false),
		SMTPHost:               getEnv("SMTP_HOST", ""),
		SMTPPort:               getEnvInt("SMTP_PORT", 587),
		SMTPUser:               getEnv("SMTP_USER", ""),
		SMTPPassword:           getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:             getEnvBool("SMTP_USE_TLS", true),
		RunMigrations:          getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:                getEnvBool("RUN_SEED", true),
		MaxBodyBytes:           int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:     getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		ScanRateLimitPerMinute: getEnvInt("SCAN_RATE_LIMIT_PER_MINUTE", 30),
		MetricsEnabled:         getEnvBool("METRICS_ENABLED", true),
		AccessTokenTTL:         getEnvDuration("ACCESS_TOKEN_TTL", 8*time.Hour),
		PasswordResetTTL:       getEnvDuration("PASSWORD_RESET_TTL", time.Hour),
		ResetCleanupInterval:   getEnvDuration("RESET_CLEANUP_INTERVAL", time.Hour),
		AttendanceCooldown:     getEnvDuration("ATTENDANCE_COOLDOWN", 2*time.Minute),
		AttendanceShiftStart:   getEnv("ATTENDANCE_SHIFT_START", "09:00"),
		AttendanceShiftEnd:     getEnv("ATTENDANCE_SHIFT_END", "17:00"),
		AttendanceTimezone:     getEnv("ATTENDANCE_TIMEZONE", "Local"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// Location resolves AttendanceTimezone. The calendar "today" of the
// attendance store is evaluated in this location.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.AttendanceTimezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// ShiftBounds returns the default shift as offsets from midnight.
func (c Config) ShiftBounds() (time.Duration, time.Duration, error) {
	start, err := ParseClockTime(c.AttendanceShiftStart)
	if err != nil {
		return 0, 0, fmt.Errorf("ATTENDANCE_SHIFT_START: %w", err)
	}
	end, err := ParseClockTime(c.AttendanceShiftEnd)
	if err != nil {
		return 0, 0, fmt.Errorf("ATTENDANCE_SHIFT_END: %w", err)
	}
	return start, end, nil
}

// ParseClockTime parses "HH:MM" or "HH:MM:SS" into an offset from midnight.
func ParseClockTime(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	layouts := []string{"15:04:05", "15:04"}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return time.Duration(parsed.Hour())*time.Hour +
				time.Duration(parsed.Minute())*time.Minute +
				time.Duration(parsed.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("invalid clock time %q", value)
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.IsProduction() {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be changed or RUN_SEED disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.ScanRateLimitPerMinute <= 0 {
		return fmt.Errorf("SCAN_RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	if c.AttendanceCooldown <= 0 {
		return fmt.Errorf("ATTENDANCE_COOLDOWN must be positive")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("ATTENDANCE_TIMEZONE: %w", err)
	}
	start, end, err := c.ShiftBounds()
	if err != nil {
		return err
	}
	if end <= start {
		return fmt.Errorf("ATTENDANCE_SHIFT_END must be after ATTENDANCE_SHIFT_START")
	}
	return nil
}
