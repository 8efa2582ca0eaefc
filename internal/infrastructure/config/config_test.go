package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/remindify-test.db")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("GATEWAY_QUERY_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Driver != "sqlite" || cfg.Database.GetDSN() != "/tmp/remindify-test.db" {
		t.Fatalf("database config mismatch: %+v", cfg.Database)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("port: got %d want 9090", cfg.Server.Port)
	}
	if cfg.Gateway.QueryTimeout != 2*time.Second {
		t.Fatalf("query timeout: got %v want 2s", cfg.Gateway.QueryTimeout)
	}
	if cfg.Auth.SessionCookie != "remindify_session" {
		t.Fatalf("session cookie default not applied: %q", cfg.Auth.SessionCookie)
	}

	loc, err := cfg.App.Location()
	if err != nil || loc.String() != "UTC" {
		t.Fatalf("location: got %v, %v", loc, err)
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mongo")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "unsupported database driver") {
		t.Fatalf("expected driver error, got %v", err)
	}
}

func TestLoad_RejectsUnknownTimezone(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("APP_TIMEZONE", "Mars/Olympus_Mons")

	if _, err := Load(); err == nil {
		t.Fatalf("expected timezone error")
	}
}

func TestAuthConfigValidate(t *testing.T) {
	cfg := AuthConfig{
		GoogleClientID:     "id",
		GoogleClientSecret: "secret",
		SessionSecret:      defaultSessionSecret,
		SessionTTL:         time.Hour,
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("default session secret must be rejected")
	}

	cfg.SessionSecret = "a-real-secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.GoogleClientSecret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("missing google secret must be rejected")
	}
}

func TestDatabaseConfigGetDSN_Postgres(t *testing.T) {
	cfg := DatabaseConfig{
		Driver:   "postgres",
		Host:     "db",
		Port:     5432,
		User:     "u",
		Password: "p",
		Name:     "remindify",
		SSLMode:  "disable",
	}

	want := "host=db port=5432 user=u password=p dbname=remindify sslmode=disable"
	if got := cfg.GetDSN(); got != want {
		t.Fatalf("dsn mismatch: got %q want %q", got, want)
	}
}
