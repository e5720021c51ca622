package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "ramen-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "http://localhost:8080", cfg.App.PublicBaseURL)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "ramen", cfg.Database.DBName)
		assert.Equal(t, "console", cfg.Mail.Driver)
		assert.Equal(t, 5*time.Hour, cfg.TimeClock.SuggestBreakAfter)
		assert.Equal(t, 30*time.Minute, cfg.TimeClock.SuggestedBreak)
		assert.Equal(t, "0.08875", cfg.Commerce.TaxRate)
		assert.False(t, cfg.Assistant.Enabled())
		assert.NotEmpty(t, cfg.JWT.Secret)
	})

	t.Run("loads values from environment variables with RAMEN prefix", func(t *testing.T) {
		t.Setenv("RAMEN_APP_NAME", "test-app")
		t.Setenv("RAMEN_APP_PORT", "9000")
		t.Setenv("RAMEN_APP_PUBLIC_BASE_URL", "https://shop.example.com/")
		t.Setenv("RAMEN_DATABASE_HOST", "testdb.local")
		t.Setenv("RAMEN_DATABASE_PORT", "5433")
		t.Setenv("RAMEN_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("RAMEN_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("RAMEN_ASSISTANT_API_KEY", "key")
		t.Setenv("RAMEN_TIMECLOCK_ROUND_TO_QUARTER_HOUR", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "https://shop.example.com", cfg.App.PublicBaseURL)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Assistant.Enabled())
		assert.True(t, cfg.TimeClock.RoundToQuarterHour)
		assert.Equal(t, "test-app", cfg.Telemetry.ServiceName)
	})

	t.Run("rejects idle conns above open conns", func(t *testing.T) {
		t.Setenv("RAMEN_DATABASE_MAX_OPEN_CONNS", "5")
		t.Setenv("RAMEN_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("smtp driver requires host", func(t *testing.T) {
		t.Setenv("RAMEN_MAIL_DRIVER", "smtp")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mail.host")
	})

	t.Run("unknown mail driver is rejected", func(t *testing.T) {
		t.Setenv("RAMEN_MAIL_DRIVER", "pigeon")

		_, err := Load()
		require.Error(t, err)
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setProd := func(t *testing.T) {
		t.Setenv("RAMEN_APP_ENV", "production")
		t.Setenv("RAMEN_JWT_SECRET", "a-very-long-secret-key-that-is-at-least-32-chars")
		t.Setenv("RAMEN_DATABASE_PASSWORD", "secret")
		t.Setenv("RAMEN_DATABASE_SSLMODE", "require")
		t.Setenv("RAMEN_MAIL_DRIVER", "smtp")
		t.Setenv("RAMEN_MAIL_HOST", "smtp.example.com")
	}

	t.Run("valid production config loads", func(t *testing.T) {
		setProd(t)
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
	})

	t.Run("short jwt secret fails", func(t *testing.T) {
		setProd(t)
		t.Setenv("RAMEN_JWT_SECRET", "short")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("missing jwt secret fails", func(t *testing.T) {
		setProd(t)
		t.Setenv("RAMEN_JWT_SECRET", "")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("ssl disabled fails", func(t *testing.T) {
		setProd(t)
		t.Setenv("RAMEN_DATABASE_SSLMODE", "disable")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})

	t.Run("debug logging fails", func(t *testing.T) {
		setProd(t)
		t.Setenv("RAMEN_LOG_LEVEL", "debug")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.level")
	})

	t.Run("console mail fails", func(t *testing.T) {
		setProd(t)
		t.Setenv("RAMEN_MAIL_DRIVER", "console")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("open swagger fails", func(t *testing.T) {
		setProd(t)
		t.Setenv("RAMEN_SWAGGER_ENABLED", "true")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "swagger")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "ramen",
		Password: "p@ss word",
		DBName:   "shop",
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://ramen:p%40ss%20word@db:5432/shop?sslmode=disable", d.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
}
