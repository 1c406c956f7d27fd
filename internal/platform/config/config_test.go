package config

import "testing"

func TestValidateRequiresDatabaseURL(t *testing.T) {
	cfg := Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestValidateProductionGuards(t *testing.T) {
	cfg := Config{
		DatabaseURL: "postgres://localhost/sams",
		Environment: "production",
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("production without JWT_SECRET must fail validation")
	}

	cfg.JWTSecret = "secret"
	cfg.RunSeed = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("production seed without admin password must fail validation")
	}

	cfg.SeedAdminPassword = "changed"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateEmailNeedsHost(t *testing.T) {
	cfg := Config{
		DatabaseURL:  "postgres://localhost/sams",
		EmailEnabled: true,
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("enabled email without SMTP_HOST must fail validation")
	}
}
