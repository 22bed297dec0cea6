package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearCRMEnv unsets every CRM_ variable for the duration of the test
func clearCRMEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "CRM_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearCRMEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "crm-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "crm", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
		assert.Equal(t, 200*time.Millisecond, cfg.Log.SlowQueryThreshold)
		assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
		assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	})

	t.Run("applies CRM business defaults", func(t *testing.T) {
		clearCRMEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, LeadEmailScopeActiveOpen, cfg.CRM.LeadEmailScope)
		assert.Equal(t, 30*time.Second, cfg.CRM.ConversionLockTTL)
		assert.Equal(t, "Qualification", cfg.CRM.DefaultOpportunityStage)
		assert.Equal(t, 50, cfg.CRM.DefaultOpportunityProbability)
		assert.Equal(t, "ACC", cfg.CRM.AccountNumberPrefix)
	})

	t.Run("loads values from environment variables with CRM prefix", func(t *testing.T) {
		clearCRMEnv(t)
		t.Setenv("CRM_APP_NAME", "test-app")
		t.Setenv("CRM_APP_ENV", "testing")
		t.Setenv("CRM_APP_PORT", "9000")
		t.Setenv("CRM_DATABASE_HOST", "testdb.local")
		t.Setenv("CRM_DATABASE_PORT", "5433")
		t.Setenv("CRM_DATABASE_USER", "testuser")
		t.Setenv("CRM_DATABASE_PASSWORD", "testpass")
		t.Setenv("CRM_DATABASE_DBNAME", "testdb")
		t.Setenv("CRM_DATABASE_SSLMODE", "require")
		t.Setenv("CRM_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("CRM_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("CRM_REDIS_ENABLED", "true")
		t.Setenv("CRM_CRM_LEAD_EMAIL_SCOPE", "active")
		t.Setenv("CRM_CRM_CONVERSION_LOCK_TTL", "5s")

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
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, LeadEmailScopeActive, cfg.CRM.LeadEmailScope)
		assert.Equal(t, 5*time.Second, cfg.CRM.ConversionLockTTL)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearCRMEnv(t)
		t.Setenv("CRM_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("CRM_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects zero MaxOpenConns", func(t *testing.T) {
		clearCRMEnv(t)
		t.Setenv("CRM_DATABASE_MAX_OPEN_CONNS", "0")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_open_conns must be positive")
	})

	t.Run("reports every problem at once", func(t *testing.T) {
		clearCRMEnv(t)
		t.Setenv("CRM_TELEMETRY_SAMPLING_RATIO", "2")
		t.Setenv("CRM_CRM_LEAD_EMAIL_SCOPE", "all")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.sampling_ratio")
		assert.Contains(t, err.Error(), "crm.lead_email_scope")
	})

	t.Run("parses durations and lists from the environment", func(t *testing.T) {
		clearCRMEnv(t)
		t.Setenv("CRM_DATABASE_CONN_MAX_LIFETIME", "90m")
		t.Setenv("CRM_HTTP_CORS_ALLOW_ORIGINS", "https://app.example.com,https://admin.example.com")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 90*time.Minute, cfg.Database.ConnMaxLifetime)
		assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.HTTP.CORSAllowOrigins)
	})

	t.Run("reads an explicit config file", func(t *testing.T) {
		clearCRMEnv(t)
		path := filepath.Join(t.TempDir(), "crm.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
[app]
port = "9090"

[crm]
account_number_prefix = "CUS"
`), 0o600))
		t.Setenv("CRM_CONFIG_FILE", path)
		t.Setenv("CRM_APP_PORT", "9191")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "9191", cfg.App.Port)
		assert.Equal(t, "CUS", cfg.CRM.AccountNumberPrefix)
		assert.Equal(t, "crm-backend", cfg.App.Name)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearCRMEnv(t)
		t.Setenv("CRM_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("rejects unknown lead email scope", func(t *testing.T) {
		clearCRMEnv(t)
		t.Setenv("CRM_CRM_LEAD_EMAIL_SCOPE", "everything")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "crm.lead_email_scope")
	})

	t.Run("rejects probability out of range", func(t *testing.T) {
		clearCRMEnv(t)
		t.Setenv("CRM_CRM_DEFAULT_OPPORTUNITY_PROBABILITY", "150")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "crm.default_opportunity_probability")
	})

	t.Run("rejects sampling ratio above one", func(t *testing.T) {
		clearCRMEnv(t)
		t.Setenv("CRM_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearCRMEnv(t)
		t.Setenv("CRM_APP_ENV", "production")
		t.Setenv("CRM_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("CRM_DATABASE_PASSWORD", "secure-password")
		t.Setenv("CRM_DATABASE_SSLMODE", "require")
	}

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		setValidProductionBase(t)
		os.Unsetenv("CRM_JWT_SECRET")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("CRM_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		os.Unsetenv("CRM_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("CRM_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("rejects wildcard CORS in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("CRM_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
		assert.True(t, cfg.IsProduction())
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

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})

	t.Run("brackets IPv6 hosts", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "::1", Port: 5432, User: "u", DBName: "db", SSLMode: "disable"}
		assert.Contains(t, cfg.DSN(), "[::1]:5432")
	})
}
