package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Code store backends.
const (
	CodeStoreRedis  = "redis"
	CodeStoreDynamo = "dynamo"
)

// Config holds all runtime configuration loaded from environment variables.
// It is built once at startup and passed by pointer to every constructor.
type Config struct {
	AppPort        string
	AppEnv         string
	LogLevel       string
	ErrorLogFile   string
	RequestTimeout time.Duration

	JWTSecret        string
	JWTIssuer        string
	JWTExpiry        time.Duration
	RefreshTokenTTL  time.Duration
	MFACodeTTL       time.Duration
	ResetLinkTTL     time.Duration
	ResetPasswordURL string
	RequireAdminMFA  bool

	CodeStore     string // "redis" | "dynamo"
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users          string
	UserEmails     string
	RefreshTokens  string
	EphemeralCodes string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ErrorLogFile:   getEnv("ERROR_LOG_FILE", "logs/error.log"),
		RequestTimeout: getEnvSeconds("REQUEST_TIMEOUT", 15),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTIssuer:        getEnv("JWT_ISS", ""),
		JWTExpiry:        getEnvSeconds("JWT_EXPIRES_IN", 900),
		RefreshTokenTTL:  getEnvSeconds("REFRESH_TOKEN_EXPIRES_IN", 30*24*60*60),
		MFACodeTTL:       getEnvSeconds("MFA_CODE_TTL", 300),
		ResetLinkTTL:     getEnvSeconds("RESET_LINK_TTL", 900),
		ResetPasswordURL: getEnv("RESET_PASSWORD_URL", "http://localhost:5173/reset-password/"),
		RequireAdminMFA:  getEnvBool("REQUIRE_ADMIN_MFA", false),

		CodeStore:     getEnv("CODE_STORE", CodeStoreRedis),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:          getEnv("DYNAMO_TABLE_USERS", "users"),
			UserEmails:     getEnv("DYNAMO_TABLE_USER_EMAILS", "user_emails"),
			RefreshTokens:  getEnv("DYNAMO_TABLE_REFRESH_TOKENS", "refresh_tokens"),
			EphemeralCodes: getEnv("DYNAMO_TABLE_EPHEMERAL_CODES", "ephemeral_codes"),
		},

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
	}
}

// Production reports whether cookies must carry the Secure attribute.
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

// Validate rejects configurations the token and code services cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	if c.JWTIssuer == "" {
		errs = append(errs, errors.New("JWT_ISS is not set"))
	}
	if c.JWTExpiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be positive"))
	}
	if c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("REFRESH_TOKEN_EXPIRES_IN must be positive"))
	}
	if c.MFACodeTTL <= 0 {
		errs = append(errs, errors.New("MFA_CODE_TTL must be positive"))
	}
	if c.ResetLinkTTL <= 0 {
		errs = append(errs, errors.New("RESET_LINK_TTL must be positive"))
	}
	switch c.CodeStore {
	case CodeStoreRedis, CodeStoreDynamo:
	default:
		errs = append(errs, errors.New("CODE_STORE must be redis or dynamo"))
	}
	return errors.Join(errs...)
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

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvSeconds reads an integer number of seconds.
func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}
