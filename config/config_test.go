package config

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir stands in for t.Chdir, which requires Go 1.24: it changes the
// working directory and restores it when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func TestLoadConfigReadsDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "PORT=9090\nDB_NAME=dotenv_db\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)
	// t.Setenv registers restoration of any outer value; the variables
	// must then be truly unset so the .env values apply.
	t.Setenv("PORT", "")
	t.Setenv("DB_NAME", "")
	os.Unsetenv("PORT")
	os.Unsetenv("DB_NAME")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090 from .env", cfg.Port)
	}
	if cfg.DBName != "dotenv_db" {
		t.Errorf("DBName = %q, want dotenv_db from .env", cfg.DBName)
	}
}

func TestLoadConfigEnvVarWinsOverDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=9090\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)
	t.Setenv("PORT", "7777")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "7777" {
		t.Errorf("Port = %q, want 7777 from the environment", cfg.Port)
	}
}

func TestLoadConfigDefaultsWithoutDotEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want default 8080", cfg.Port)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("DBDriver = %q, want default postgres", cfg.DBDriver)
	}
}
