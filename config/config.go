package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Sources
	OLXURL        string
	ImobiliareURL string
	StoriaURL     string
	TrimbitasuURL string

	// Fetching
	FetchMode       string // "browser" or "static"
	ChromeBin       string
	NavigateTimeout time.Duration
	SettleDelay     time.Duration
	WaitTimeout     time.Duration
	MaxRetries      int
	ScreenshotDir   string
	SourceStaggerMs int

	// Seen-set
	StoreBackend     string // "file" or "postgres"
	SeenPath         string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Digest
	CriteriaPath string
	OpenAIKey    string
	OpenAIModel  string
	MinListings  int
	MaxListings  int

	// Delivery
	DeliveryMode     string // "email", "telegram" or "stdout"
	DeliveryAttempts int
	EmailUser        string
	EmailPass        string
	EmailTo          string
	SMTPHost         string
	SMTPPort         int
	TelegramToken    string
	TelegramChatID   int64

	RunInterval   time.Duration
	CSVOutputPath string
	LogDebug      bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		OLXURL:        getEnv("OLX_URL", ""),
		ImobiliareURL: getEnv("IMOBILIARE_URL", ""),
		StoriaURL:     getEnv("STORIA_URL", ""),
		TrimbitasuURL: getEnv("TRIMBITASU_URL", ""),

		FetchMode:       strings.ToLower(getEnv("FETCH_MODE", "browser")),
		ChromeBin:       getEnv("CHROME_BIN", ""),
		NavigateTimeout: getEnvDuration("NAVIGATE_TIMEOUT", 60*time.Second),
		SettleDelay:     getEnvDuration("SETTLE_DELAY", 3*time.Second),
		WaitTimeout:     getEnvDuration("WAIT_TIMEOUT", 15*time.Second),
		MaxRetries:      getEnvInt("MAX_RETRIES", 2),
		ScreenshotDir:   getEnv("SCREENSHOT_DIR", ""),
		SourceStaggerMs: getEnvInt("SOURCE_STAGGER_MS", 0),

		StoreBackend:     strings.ToLower(getEnv("STORE_BACKEND", "file")),
		SeenPath:         getEnv("SEEN_PATH", "./data/seen_listings.json"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "housing"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "housing123"),
		PostgresDB:       getEnv("POSTGRES_DB", "housing_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		CriteriaPath: getEnv("CRITERIA_PATH", "criteria.yaml"),
		OpenAIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		MinListings:  getEnvInt("DIGEST_MIN_LISTINGS", 8),
		MaxListings:  getEnvInt("DIGEST_MAX_LISTINGS", 15),

		DeliveryMode:     strings.ToLower(getEnv("DELIVERY_MODE", "email")),
		DeliveryAttempts: getEnvInt("DELIVERY_ATTEMPTS", 3),
		EmailUser:        getEnv("EMAIL_USER", ""),
		EmailPass:        getEnv("EMAIL_PASS", ""),
		EmailTo:          getEnv("EMAIL_TO", ""),
		SMTPHost:         getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:         getEnvInt("SMTP_PORT", 465),
		TelegramToken:    getEnv("TELEGRAM_TOKEN", ""),
		TelegramChatID:   int64(getEnvInt("TELEGRAM_CHAT_ID", 0)),

		RunInterval:   getEnvDuration("RUN_INTERVAL", 0),
		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", ""),
		LogDebug:      getEnvBool("LOG_DEBUG", false),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("90s", "72h") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if n, err := strconv.Atoi(val); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
