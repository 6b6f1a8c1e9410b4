package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "TOKEN_TTL", "CATALOG_DELETE_POLICY", "KAFKA_BROKERS", "ES_INDEX", "DB_AUTO_MIGRATE", "CSRF_ENABLED", "COOKIE_SECURE"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "cascade", cfg.DeletePolicy)
	assert.Nil(t, cfg.KafkaBrokers)
	assert.Equal(t, "items", cfg.ESIndex)
	assert.False(t, cfg.DBAutoMigrate)
	assert.False(t, cfg.CSRFEnabled)
	assert.True(t, cfg.CookieSecure)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("CATALOG_DELETE_POLICY", "keep")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.DBAutoMigrate)
	assert.Equal(t, "keep", cfg.DeletePolicy)
}

func TestEnvHelpers_InvalidFallBack(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_DUR", "soon")
	t.Setenv("X_BOOL", "maybe")

	assert.Equal(t, 7, EnvIntDefault("X_INT", 7))
	assert.Equal(t, time.Second, EnvDurationDefault("X_DUR", time.Second))
	assert.True(t, EnvBoolDefault("X_BOOL", true))
}

func TestValidate(t *testing.T) {
	cfg := Config{DatabaseURL: "postgres://x", JWTSecret: []byte("s"), DeletePolicy: "cascade"}
	assert.NoError(t, cfg.Validate())

	cfg.DeletePolicy = "wipe"
	cfg.JWTSecret = nil
	err := cfg.Validate()
	assert.ErrorContains(t, err, "JWT_SECRET")
	assert.ErrorContains(t, err, "CATALOG_DELETE_POLICY")
}
