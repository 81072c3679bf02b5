package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

const (
	// AuthModeToken identifies callers only by a signed bearer token.
	AuthModeToken = "token"
	// AuthModeAsserted additionally trusts the "userId" body field when no token is sent.
	AuthModeAsserted = "asserted"
)

// Config holds every runtime setting of the server
type Config struct {
	ServerPort  string
	StoreDriver string
	DBPath      string
	DB          *DBConfig
	Mongo       *MongoConfig

	JWTSecret          string
	JWTExpirationHours int64
	AuthMode           string

	SeedAdmin     bool
	AdminLogin    string
	AdminPassword string

	LogFile     string
	CORSOrigins []string

	ResendAPIKey string
	FromEmail    string
	NotifyEmail  string
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:    getEnv("SERVER_PORT", "3001"),
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", DriverFile)),
		DBPath:        getEnv("DB_PATH", "db.json"),
		JWTSecret:     os.Getenv("JWT_SECRET_KEY"),
		AuthMode:      strings.ToLower(getEnv("AUTH_MODE", AuthModeToken)),
		AdminLogin:    getEnv("ADMIN_LOGIN", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		LogFile:       os.Getenv("LOG_FILE"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "*")),
		ResendAPIKey:  os.Getenv("RESEND_API_KEY"),
		FromEmail:     getEnv("FROM_EMAIL", "portal@example.com"),
		NotifyEmail:   os.Getenv("NOTIFY_EMAIL"),
	}

	jwtExpHours, err := strconv.ParseInt(getEnv("JWT_EXPIRATION_HOURS", "24"), 10, 64)
	if err != nil {
		log.Printf("Invalid JWT_EXPIRATION_HOURS, defaulting to 24: %v", err)
		jwtExpHours = 24
	}
	cfg.JWTExpirationHours = jwtExpHours

	seed, err := strconv.ParseBool(getEnv("SEED_ADMIN", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_ADMIN value: %w", err)
	}
	cfg.SeedAdmin = seed

	switch cfg.AuthMode {
	case AuthModeToken, AuthModeAsserted:
	default:
		return nil, fmt.Errorf("unknown AUTH_MODE %q (want %q or %q)", cfg.AuthMode, AuthModeToken, AuthModeAsserted)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}

	switch cfg.StoreDriver {
	case DriverFile:
	case DriverPostgres:
		if cfg.DB, err = LoadDBConfig(); err != nil {
			return nil, err
		}
	case DriverMongo:
		if cfg.Mongo, err = LoadMongoConfig(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
