package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("DATA_SERVICE_URL", "https://project.example.co")
	os.Setenv("DATA_SERVICE_KEY", "anon-key")
	defer os.Unsetenv("DATA_SERVICE_URL")
	defer os.Unsetenv("DATA_SERVICE_KEY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DataServiceURL != "https://project.example.co" {
		t.Errorf("expected DATA_SERVICE_URL to be set, got %s", cfg.DataServiceURL)
	}

	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %s", cfg.Env)
	}

	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("expected default CORS origin, got %v", cfg.CORSOrigins)
	}
}

func TestValidate_RequiresDataService(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"missing url", Config{DataServiceKey: "k"}, false},
		{"missing key", Config{DataServiceURL: "https://p.example.co"}, false},
		{"bad scheme", Config{DataServiceURL: "ftp://p.example.co", DataServiceKey: "k"}, false},
		{"valid", Config{DataServiceURL: "https://p.example.co", DataServiceKey: "k"}, true},
	}
	for _, tc := range cases {
		err := tc.cfg.Validate()
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}
