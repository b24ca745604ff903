package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"RESTOPS_APP_NAME":                os.Getenv("RESTOPS_APP_NAME"),
		"RESTOPS_APP_ENV":                 os.Getenv("RESTOPS_APP_ENV"),
		"RESTOPS_APP_PORT":                os.Getenv("RESTOPS_APP_PORT"),
		"RESTOPS_DATABASE_HOST":           os.Getenv("RESTOPS_DATABASE_HOST"),
		"RESTOPS_DATABASE_PORT":           os.Getenv("RESTOPS_DATABASE_PORT"),
		"RESTOPS_DATABASE_USER":           os.Getenv("RESTOPS_DATABASE_USER"),
		"RESTOPS_DATABASE_PASSWORD":       os.Getenv("RESTOPS_DATABASE_PASSWORD"),
		"RESTOPS_DATABASE_DBNAME":         os.Getenv("RESTOPS_DATABASE_DBNAME"),
		"RESTOPS_DATABASE_SSLMODE":        os.Getenv("RESTOPS_DATABASE_SSLMODE"),
		"RESTOPS_DATABASE_MAX_OPEN_CONNS": os.Getenv("RESTOPS_DATABASE_MAX_OPEN_CONNS"),
		"RESTOPS_DATABASE_MAX_IDLE_CONNS": os.Getenv("RESTOPS_DATABASE_MAX_IDLE_CONNS"),
		"RESTOPS_LEDGER_IDEMPOTENCY_KEY_TTL": os.Getenv("RESTOPS_LEDGER_IDEMPOTENCY_KEY_TTL"),
		"RESTOPS_JWT_SECRET":                 os.Getenv("RESTOPS_JWT_SECRET"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "restops-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "restops", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 24*time.Hour, cfg.Ledger.IdempotencyKeyTTL)
		assert.Equal(t, 5*time.Minute, cfg.Ledger.BalanceMetricsInterval)
		assert.Equal(t, 30*time.Second, cfg.Printing.RenderTimeout)
	})

	t.Run("loads values from environment variables with RESTOPS prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("RESTOPS_APP_NAME", "test-app")
		os.Setenv("RESTOPS_APP_ENV", "testing")
		os.Setenv("RESTOPS_APP_PORT", "9000")
		os.Setenv("RESTOPS_DATABASE_HOST", "testdb.local")
		os.Setenv("RESTOPS_DATABASE_PORT", "5433")
		os.Setenv("RESTOPS_DATABASE_USER", "testuser")
		os.Setenv("RESTOPS_DATABASE_PASSWORD", "testpass")
		os.Setenv("RESTOPS_DATABASE_DBNAME", "testdb")
		os.Setenv("RESTOPS_DATABASE_SSLMODE", "require")
		os.Setenv("RESTOPS_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("RESTOPS_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("RESTOPS_LEDGER_IDEMPOTENCY_KEY_TTL", "48h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, 48*time.Hour, cfg.Ledger.IdempotencyKeyTTL)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("RESTOPS_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("RESTOPS_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("RESTOPS_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("RESTOPS_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"RESTOPS_APP_ENV":               os.Getenv("RESTOPS_APP_ENV"),
		"RESTOPS_JWT_SECRET":            os.Getenv("RESTOPS_JWT_SECRET"),
		"RESTOPS_DATABASE_PASSWORD":     os.Getenv("RESTOPS_DATABASE_PASSWORD"),
		"RESTOPS_DATABASE_SSLMODE":      os.Getenv("RESTOPS_DATABASE_SSLMODE"),
		"RESTOPS_SWAGGER_ENABLED":       os.Getenv("RESTOPS_SWAGGER_ENABLED"),
		"RESTOPS_SWAGGER_REQUIRE_AUTH":  os.Getenv("RESTOPS_SWAGGER_REQUIRE_AUTH"),
		"RESTOPS_SWAGGER_ALLOWED_IPS":   os.Getenv("RESTOPS_SWAGGER_ALLOWED_IPS"),
		"RESTOPS_PROFILER_ENABLED":      os.Getenv("RESTOPS_PROFILER_ENABLED"),
		"RESTOPS_PROFILER_SERVER_ADDRESS": os.Getenv("RESTOPS_PROFILER_SERVER_ADDRESS"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	setValidProductionBase := func() {
		os.Setenv("RESTOPS_APP_ENV", "production")
		os.Setenv("RESTOPS_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("RESTOPS_DATABASE_PASSWORD", "secure-password")
		os.Setenv("RESTOPS_DATABASE_SSLMODE", "require")
		os.Setenv("RESTOPS_SWAGGER_ENABLED", "false")
	}

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("RESTOPS_JWT_SECRET")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("RESTOPS_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("RESTOPS_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("RESTOPS_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	t.Run("fails if swagger enabled without protection in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("RESTOPS_SWAGGER_ENABLED", "true")
		os.Setenv("RESTOPS_SWAGGER_REQUIRE_AUTH", "false")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "swagger endpoint must be disabled, require authentication, or have IP restriction")
	})

	t.Run("passes with swagger enabled and require_auth in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("RESTOPS_SWAGGER_ENABLED", "true")
		os.Setenv("RESTOPS_SWAGGER_REQUIRE_AUTH", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Swagger.Enabled)
		assert.True(t, cfg.Swagger.RequireAuth)
	})

	t.Run("requires profiler server address when profiling enabled", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("RESTOPS_PROFILER_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "profiler.server_address is required")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "pass%40word%23123")
	})

	t.Run("handles empty password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.NotEmpty(t, dsn)
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}
