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
	Addr string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTTTL      time.Duration

	CatalogCSV string
	// DBDSN enables the Postgres borrow event log when set.
	DBDSN     string
	DBTimeout time.Duration

	LogLevel  string
	LogFormat string

	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	MaxBodyBytes       int64
	EnableHSTS         bool
}

// LoadEnvFiles reads .env and .env.local without overriding variables already
// present in the process environment.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

func Load() (Config, error) {
	LoadEnvFiles()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, fmt.Errorf("missing required environment variable: %s", "JWT_SECRET")
	}

	ttl, err := getEnvAsDuration("JWT_TTL", time.Hour)
	if err != nil {
		return Config{}, err
	}
	dbTimeout, err := getEnvAsDuration("DB_TIMEOUT", 3*time.Second)
	if err != nil {
		return Config{}, err
	}
	rps, err := getEnvAsFloat("RATE_LIMIT_RPS", 20)
	if err != nil {
		return Config{}, err
	}
	burst, err := getEnvAsInt("RATE_LIMIT_BURST", 40)
	if err != nil {
		return Config{}, err
	}
	maxBody, err := getEnvAsInt("MAX_BODY_BYTES", 1<<20)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Addr:               getEnv("APP_ADDR", ":8080"),
		JWTSecret:          secret,
		JWTIssuer:          getEnv("JWT_ISSUER", "bookcatalog"),
		JWTAudience:        getEnv("JWT_AUDIENCE", "bookcatalog-clients"),
		JWTTTL:             ttl,
		CatalogCSV:         getEnv("CATALOG_CSV", "data/books.csv"),
		DBDSN:              os.Getenv("DB_DSN"),
		DBTimeout:          dbTimeout,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		RateLimitRPS:       rps,
		RateLimitBurst:     burst,
		MaxBodyBytes:       int64(maxBody),
		EnableHSTS:         getEnvAsBool("ENABLE_HSTS", false),
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvAsFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvAsDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvAsBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// RedactDSN hides credentials in a connection string for logging.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
