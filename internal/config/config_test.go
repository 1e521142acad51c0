package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.ImportInterval != 24*time.Hour {
		t.Errorf("expected 24h interval, got %v", cfg.ImportInterval)
	}
	if cfg.ImportStartHour != 0 {
		t.Errorf("expected start hour 0, got %d", cfg.ImportStartHour)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := applyEnv(&cfg, envMap(map[string]string{
		"IMPORT_INTERVAL":   "3600",
		"IMPORT_START_HOUR": "6",
		"MOODLOG_DB":        "/tmp/m.db",
		"MOODLOG_DATA_DIR":  "/srv/exports",
		"MOODLOG_ADDR":      ":9000",
		"MOODLOG_DEBUG":     "true",
	}))
	if err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.ImportInterval != time.Hour || cfg.ImportStartHour != 6 {
		t.Errorf("unexpected schedule: %+v", cfg)
	}
	if cfg.DBPath != "/tmp/m.db" || cfg.DataDir != "/srv/exports" || cfg.Addr != ":9000" || !cfg.Debug {
		t.Errorf("unexpected paths: %+v", cfg)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	for _, key := range []string{"IMPORT_INTERVAL", "IMPORT_START_HOUR", "MOODLOG_DEBUG"} {
		cfg := Default()
		if err := applyEnv(&cfg, envMap(map[string]string{key: "nope"})); err == nil {
			t.Errorf("%s: expected error", key)
		}
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"hour too high":  func(c *Config) { c.ImportStartHour = 24 },
		"hour negative":  func(c *Config) { c.ImportStartHour = -1 },
		"zero interval":  func(c *Config) { c.ImportInterval = 0 },
		"empty db":       func(c *Config) { c.DBPath = "" },
		"empty data dir": func(c *Config) { c.DataDir = "" },
		"zero poll":      func(c *Config) { c.PollPeriod = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moodlog.yaml")
	data := "db: /var/lib/moodlog.db\ndata_dir: /srv/exports\nimport_interval: 600\nimport_start_hour: 3\npoll_period: 60\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := loadFile(path, &cfg); err != nil {
		t.Fatalf("load file: %v", err)
	}
	if cfg.DBPath != "/var/lib/moodlog.db" || cfg.DataDir != "/srv/exports" {
		t.Errorf("unexpected paths: %+v", cfg)
	}
	if cfg.ImportInterval != 10*time.Minute || cfg.PollPeriod != time.Minute || cfg.ImportStartHour != 3 {
		t.Errorf("unexpected schedule: %+v", cfg)
	}
	if cfg.Addr != ":5000" {
		t.Errorf("unset fields should keep defaults, got addr %q", cfg.Addr)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moodlog.yaml")
	os.WriteFile(path, []byte("import_start_hour: 3\n"), 0o644)
	t.Setenv("IMPORT_START_HOUR", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ImportStartHour != 7 {
		t.Errorf("expected env to win, got %d", cfg.ImportStartHour)
	}
}

func TestLoadRejectsBadHour(t *testing.T) {
	t.Setenv("IMPORT_START_HOUR", "25")
	if _, err := Load(""); err == nil {
		t.Error("expected error for hour 25")
	}
}
