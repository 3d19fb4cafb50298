// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Inquiry store backends.
const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// SMTP holds outbound mail settings. Host == "" disables e-mail.
type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// S3 holds gallery bucket settings. Bucket == "" selects local media.
type S3 struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// Config is the full server configuration.
type Config struct {
	Addr     string
	LogLevel string

	InquiryStore  string
	DatabaseURL   string
	MongoURL      string
	MongoDatabase string

	RedisURL         string
	ContactRateLimit int
	CORSOrigins      []string

	AdminPassword     string
	AdminPasswordHash string

	// BackendURL locates the inquiry API for the admin view.
	// Empty means this server, see AdminAPIURL.
	BackendURL string

	MediaDir string
	S3       S3
	SMTP     SMTP
}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:              getEnv("ADDR", ":8080"),
		LogLevel:          getEnv("LOG_LEVEL", "INFO"),
		InquiryStore:      strings.ToLower(getEnv("INQUIRY_STORE", StorePostgres)),
		DatabaseURL:       getEnv("DATABASE_URL", "postgres://kv:kv@localhost:5432/kv?sslmode=disable"),
		MongoURL:          getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDatabase:     getEnv("DB_NAME", "kvbuilders"),
		RedisURL:          os.Getenv("REDIS_URL"),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "*")),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		BackendURL:        strings.TrimRight(os.Getenv("BACKEND_URL"), "/"),
		MediaDir:          getEnv("MEDIA_DIR", "./media"),
		S3: S3{
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    getEnv("AWS_REGION", "ap-south-1"),
			AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
		SMTP: SMTP{
			Host:     os.Getenv("SMTP_HOST"),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("FROM_EMAIL"),
		},
	}

	var err error
	if cfg.ContactRateLimit, err = getEnvInt("CONTACT_RATE_LIMIT", 5); err != nil {
		return Config{}, err
	}
	if cfg.SMTP.Port, err = getEnvInt("SMTP_PORT", 587); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("config: ADDR: %w", err)
	}
	if c.InquiryStore != StorePostgres && c.InquiryStore != StoreMongo {
		return fmt.Errorf("config: INQUIRY_STORE must be %q or %q, got %q", StorePostgres, StoreMongo, c.InquiryStore)
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return errors.New("config: ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
	}
	if c.ContactRateLimit <= 0 {
		return fmt.Errorf("config: CONTACT_RATE_LIMIT must be positive, got %d", c.ContactRateLimit)
	}
	if c.SMTP.Host != "" && c.SMTP.From == "" {
		return errors.New("config: FROM_EMAIL is required when SMTP_HOST is set")
	}
	return nil
}

// AdminAPIURL is the inquiry API base the admin view calls: BackendURL when
// set, otherwise this server's own listener over loopback. It never depends
// on the incoming request.
func (c Config) AdminAPIURL() string {
	if c.BackendURL != "" {
		return c.BackendURL
	}
	host, port, _ := net.SplitHostPort(c.Addr)
	switch host {
	case "", "0.0.0.0":
		host = "127.0.0.1"
	case "::":
		host = "::1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
