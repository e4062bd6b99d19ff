package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string
	SNSRegion      string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	AdminUsername string
	AdminEmail    string
	AdminPassword string

	OTP OTPConfig

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PostgresDSN   string
	MongoURI      string
	MongoDatabase string

	MailBackend    string // "smtp" | "resend" | "sendgrid" | "log"
	MailFrom       string
	SMTPHost       string
	SMTPPort       string
	SMTPUsername   string
	SMTPPassword   string
	ResendAPIKey   string
	SendGridAPIKey string

	AllowedOrigins []string // CORS allowed origins
}

// OTPConfig controls code issuance, verification grants and record eviction.
type OTPConfig struct {
	Store          string // "dynamo" | "redis" | "postgres" | "mongo" | "memory"
	TTL            time.Duration
	GrantTTL       time.Duration
	ResendCooldown time.Duration
	CodePepper     string
	SweepSchedule  string // cron spec for stores without native expiry
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Admins       string
	Sessions     string
	Files        string
	OTPs         string
	Applications string
	Candidates   string
	Facilities   string
	Bookings     string
	Leaves       string
	Complaints   string
	Budgets      string
	Cheaters     string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Admins:       getEnv("DYNAMO_TABLE_ADMINS", "admins"),
			Sessions:     getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			Files:        getEnv("DYNAMO_TABLE_FILES", "files"),
			OTPs:         getEnv("DYNAMO_TABLE_OTPS", "otp_records"),
			Applications: getEnv("DYNAMO_TABLE_APPLICATIONS", "job_applications"),
			Candidates:   getEnv("DYNAMO_TABLE_CANDIDATES", "candidates"),
			Facilities:   getEnv("DYNAMO_TABLE_FACILITIES", "facilities"),
			Bookings:     getEnv("DYNAMO_TABLE_BOOKINGS", "booking_requests"),
			Leaves:       getEnv("DYNAMO_TABLE_LEAVES", "leaves"),
			Complaints:   getEnv("DYNAMO_TABLE_COMPLAINTS", "complaints"),
			Budgets:      getEnv("DYNAMO_TABLE_BUDGETS", "budgets"),
			Cheaters:     getEnv("DYNAMO_TABLE_CHEATERS", "cheating_reports"),
		},
		S3BucketName:      getEnv("S3_BUCKET_NAME", "campus-portal-files"),
		SNSRegion:         getEnv("SNS_REGION", "us-east-1"),
		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         getEnvDuration("JWT_EXPIRY", 24*time.Hour),
		AdminUsername:     getEnv("ADMIN_USERNAME", ""),
		AdminEmail:        getEnv("ADMIN_EMAIL", ""),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		OTP: OTPConfig{
			Store:          getEnv("OTP_STORE", "dynamo"),
			TTL:            getEnvDuration("OTP_TTL", 10*time.Minute),
			GrantTTL:       getEnvDuration("VERIFICATION_GRANT_TTL", 15*time.Minute),
			ResendCooldown: getEnvDuration("OTP_RESEND_COOLDOWN", 0),
			CodePepper:     getEnv("OTP_CODE_PEPPER", ""),
			SweepSchedule:  getEnv("OTP_SWEEP_SCHEDULE", "*/5 * * * *"),
		},
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		PostgresDSN:    getEnv("POSTGRES_DSN", ""),
		MongoURI:       getEnv("MONGODB_URI", ""),
		MongoDatabase:  getEnv("MONGODB_DATABASE", "campus_portal"),
		MailBackend:    getEnv("MAIL_BACKEND", "smtp"),
		MailFrom:       getEnv("MAIL_FROM", "noreply@example.com"),
		SMTPHost:       getEnv("SMTP_HOST", "localhost"),
		SMTPPort:       getEnv("SMTP_PORT", "1025"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		ResendAPIKey:   getEnv("RESEND_API_KEY", ""),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("10m", "90s").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
