package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL   string
	DBAutoMigrate bool

	JWTSecret []byte
	TokenTTL  time.Duration

	AdminUsername string
	AdminPassword string

	RequestTimeout time.Duration
	BodyLimit      string
	CSRFEnabled    bool
	CookieSecure   bool

	DeletePolicy string

	KafkaBrokers   []string
	KafkaItemTopic string
	KafkaCartTopic string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "online-store"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBAutoMigrate: EnvBoolDefault("DB_AUTO_MIGRATE", false),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		TokenTTL:  EnvDurationDefault("TOKEN_TTL", time.Hour),

		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		RequestTimeout: EnvDurationDefault("REQUEST_TIMEOUT", 10*time.Second),
		BodyLimit:      EnvDefault("BODY_LIMIT", "8M"),
		CSRFEnabled:    EnvBoolDefault("CSRF_ENABLED", false),
		CookieSecure:   EnvBoolDefault("COOKIE_SECURE", true),

		DeletePolicy: EnvDefault("CATALOG_DELETE_POLICY", "cascade"),

		KafkaBrokers:   CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaItemTopic: EnvDefault("KAFKA_ITEM_TOPIC", "item_events"),
		KafkaCartTopic: EnvDefault("KAFKA_CART_TOPIC", "cart_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "items"),
	}
}

// Validate reports every required key that is missing or malformed.
func (c Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("missing required env DATABASE_URL"))
	}
	if len(c.JWTSecret) == 0 {
		errs = append(errs, errors.New("missing required env JWT_SECRET"))
	}
	if c.DeletePolicy != "cascade" && c.DeletePolicy != "keep" {
		errs = append(errs, fmt.Errorf("CATALOG_DELETE_POLICY must be cascade or keep, got %q", c.DeletePolicy))
	}
	if (c.AdminUsername == "") != (c.AdminPassword == "") {
		errs = append(errs, errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must be set together"))
	}
	return errors.Join(errs...)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
