package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env         string
	Port        string
	FrontendURL string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// ReferenceTimezone is the zone in which calendar days, weekdays and
	// hours of day are evaluated for statistics and achievements.
	ReferenceTimezone string

	// OpenFoodFacts
	OFFBaseURL string
	OFFTimeout time.Duration

	// Mail
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	MailFromName string
	DemoMode     bool

	// Expiration reminders
	NotifyEnabled   bool
	NotifyInterval  time.Duration
	NotifyDaysAhead int

	// Machine-to-machine endpoints
	PipelineAPIKey string

	// Avatar storage
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PublicBaseURL   string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:         getEnv("ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "foodtracker"),
		DBPassword: getEnv("DB_PASSWORD", "foodtracker"),
		DBName:     getEnv("DB_NAME", "foodtracker"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "foodtracker.db"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		ReferenceTimezone: getEnv("REFERENCE_TIMEZONE", "Europe/Warsaw"),

		OFFBaseURL: getEnv("OFF_BASE_URL", "https://world.openfoodfacts.org"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", "noreply@foodtracker.local"),
		MailFromName: getEnv("MAIL_FROM_NAME", "FoodTracker"),
		DemoMode:     getEnvBool("DEMO_MODE", false),

		NotifyEnabled:   getEnvBool("NOTIFY_ENABLED", true),
		NotifyDaysAhead: getEnvInt("NOTIFY_DAYS_AHEAD", 7),

		PipelineAPIKey: getEnv("PIPELINE_API_KEY", ""),

		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Region:          getEnv("S3_REGION", "eu-central-1"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
	}

	config.SMTPPort = getEnvInt("SMTP_PORT", 587)
	config.JWTExpirationDur = getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour)
	config.OFFTimeout = getEnvDuration("OFF_TIMEOUT", 10*time.Second)
	config.NotifyInterval = getEnvDuration("NOTIFY_INTERVAL", 24*time.Hour)

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// Location resolves ReferenceTimezone, falling back to UTC when the zone
// database does not know it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReferenceTimezone)
	if err != nil {
		log.Printf("Warning: unknown REFERENCE_TIMEZONE '%s', falling back to UTC\n", c.ReferenceTimezone)
		return time.UTC
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getEnvInt(key string, defaultValue int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %t\n", key, raw, defaultValue)
		return defaultValue
	}
	return b
}
