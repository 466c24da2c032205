package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	Env     string
	BaseURL string

	// MySQL DSN for the auth event log. Empty disables the log.
	DatabaseDSN string

	JWTSecret  string
	SessionTTL time.Duration

	Firebase FirebaseConfig
	SMTP     SMTPConfig

	SupportEmail       string
	AdminLandingSuffix string
	ResetContinuePath  string
	AllowedOrigins     []string

	RateLimit float64
	RateBurst int
}

type FirebaseConfig struct {
	CredentialsFile string
	ProjectID       string
	// Web API key, needed for the identity toolkit REST calls.
	APIKey     string
	AdminTopic string
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		sessionTTL = 24 * time.Hour
	}

	rateLimit, err := strconv.ParseFloat(getEnv("RATE_LIMIT", "5"), 64)
	if err != nil {
		rateLimit = 5
	}
	rateBurst, err := strconv.Atoi(getEnv("RATE_BURST", "10"))
	if err != nil {
		rateBurst = 10
	}

	return &Config{
		Port:    getEnv("PORT", "8080"),
		Env:     getEnv("ENV", "development"),
		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		DatabaseDSN: getEnv("DATABASE_DSN", ""),

		JWTSecret:  getEnvOrPanic("JWT_SECRET"),
		SessionTTL: sessionTTL,

		Firebase: FirebaseConfig{
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", "serviceAccount.json"),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			APIKey:          getEnv("FIREBASE_API_KEY", ""),
			AdminTopic:      getEnv("FIREBASE_ADMIN_TOPIC", "admins"),
		},

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},

		SupportEmail:       getEnv("SUPPORT_EMAIL", "support@example.com"),
		AdminLandingSuffix: getEnv("ADMIN_LANDING_SUFFIX", "/dashboard"),
		ResetContinuePath:  getEnv("RESET_CONTINUE_PATH", "/login/hmo"),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		RateLimit: rateLimit,
		RateBurst: rateBurst,
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ResetContinueURL is where the provider sends people after they reset a password.
func (c *Config) ResetContinueURL() string {
	return c.BaseURL + c.ResetContinuePath
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
