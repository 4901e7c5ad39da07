package config

import (
	"os"
	"testing"
)

func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-jwt-secret-key")
	t.Setenv("GEMINI_API_KEY", "test-gemini-key")
}

func TestLoad_Success(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.JWT.Secret != "test-jwt-secret-key" {
		t.Errorf("JWT.Secret = %q, want %q", cfg.JWT.Secret, "test-jwt-secret-key")
	}
	if cfg.Gemini.APIKey != "test-gemini-key" {
		t.Errorf("Gemini.APIKey = %q, want %q", cfg.Gemini.APIKey, "test-gemini-key")
	}
	if cfg.Gemini.Model != "gemini-1.5-flash" {
		t.Errorf("Gemini.Model = %q, want %q", cfg.Gemini.Model, "gemini-1.5-flash")
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5432)
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("GEMINI_API_KEY", "test-gemini-key")
	os.Unsetenv("JWT_SECRET")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for missing JWT_SECRET, got nil")
	}
}

func TestLoad_MissingGeminiKey(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GEMINI_API_KEY", "")
	os.Unsetenv("GEMINI_API_KEY")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for missing GEMINI_API_KEY, got nil")
	}
}

func TestLoad_InvalidDBPort(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("DB_PORT", "not-a-number")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for invalid DB_PORT, got nil")
	}
}

func TestLoad_OTPValidation(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("OTP_ENABLED", "true")
	os.Unsetenv("SMTP_HOST")
	os.Unsetenv("SMTP_FROM")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error when OTP_ENABLED without SMTP settings, got nil")
	}

	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "noreply@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed with SMTP settings present: %v", err)
	}
	if !cfg.SMTP.OTPEnabled {
		t.Error("SMTP.OTPEnabled = false, want true")
	}
}

func TestLoad_SchedulerTimes(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("SCHEDULER_TIMES", "03:30, 15:00 ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Scheduler.ScheduleTimes) != 2 {
		t.Fatalf("Scheduler.ScheduleTimes len = %d, want 2", len(cfg.Scheduler.ScheduleTimes))
	}
	if cfg.Scheduler.ScheduleTimes[0] != "03:30" || cfg.Scheduler.ScheduleTimes[1] != "15:00" {
		t.Errorf("Scheduler.ScheduleTimes = %v, want [03:30 15:00]", cfg.Scheduler.ScheduleTimes)
	}
}
