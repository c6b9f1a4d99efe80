package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseFlags(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"-host", "127.0.0.1",
		"-port", "8080",
		"-token-secret", "s3cret",
		"-token-ttl", "60",
		"-db-url", "test.sqlite",
		"-debug",
	})
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	if cfg.Addr != "127.0.0.1:8080" {
		t.Errorf("Addr = %q, want %q", cfg.Addr, "127.0.0.1:8080")
	}
	if cfg.TokenTTL != time.Minute {
		t.Errorf("TokenTTL = %v, want %v", cfg.TokenTTL, time.Minute)
	}
	if cfg.DBUrl != "test.sqlite" {
		t.Errorf("DBUrl = %q, want %q", cfg.DBUrl, "test.sqlite")
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if cfg.PublicDir != "public" {
		t.Errorf("PublicDir = %q, want default %q", cfg.PublicDir, "public")
	}
}

func TestParseFlagsMissingSecret(t *testing.T) {
	t.Setenv("STUDY_TOKEN_SECRET", "")

	_, err := ParseFlags(nil)
	if err == nil {
		t.Fatal("expected error for missing token secret")
	}
}

func TestParseFlagsEnvironment(t *testing.T) {
	t.Setenv("STUDY_TOKEN_SECRET", "from-env")
	t.Setenv("STUDY_PORT", "9000")
	t.Setenv("STUDY_DB_URL", "env.sqlite")

	cfg, err := ParseFlags([]string{"-db-url", "flag.sqlite"})
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	if cfg.TokenSecret != "from-env" {
		t.Errorf("TokenSecret = %q, want %q", cfg.TokenSecret, "from-env")
	}
	if cfg.Addr != "0.0.0.0:9000" {
		t.Errorf("Addr = %q, want %q", cfg.Addr, "0.0.0.0:9000")
	}
	if cfg.DBUrl != "flag.sqlite" {
		t.Errorf("DBUrl = %q, want flag to win over env", cfg.DBUrl)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	if err := os.WriteFile(file, []byte("STUDY_TEST_DOTENV=loaded\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("STUDY_TEST_DOTENV") })

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), file); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("STUDY_TEST_DOTENV"); got != "loaded" {
		t.Errorf("STUDY_TEST_DOTENV = %q, want %q", got, "loaded")
	}
}

func TestUrl(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"0.0.0.0:80", "http://localhost:80"},
		{"10.0.0.1:8080", "http://10.0.0.1:8080"},
	}

	for _, tt := range tests {
		cfg := Config{Addr: tt.addr}
		if got := cfg.Url(); got != tt.want {
			t.Errorf("Url() for %q = %q, want %q", tt.addr, got, tt.want)
		}
	}
}
