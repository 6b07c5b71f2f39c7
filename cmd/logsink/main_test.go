package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/HorseArcher567/logsink/pkg/xlog/rotate"

	"github.com/spf13/cobra"
)

func newSinkCmd(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addSinkFlags(cmd)
	cmd.Flags().String("console-level", "", "")
	cmd.Flags().Bool("truncate", false, "")
	cmd.Flags().Bool("disabled", false, "")
	return cmd
}

func TestFramework_Defaults(t *testing.T) {
	fw, err := framework(newSinkCmd(t))
	if err != nil {
		t.Fatalf("framework() error = %v", err)
	}

	cfg := fw.LoggerCfg
	if cfg.Dir != "logs" || cfg.File != "app.log" || cfg.LevelsFile != "logger.ini" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Rotate != "" || cfg.ConsoleLevel != "" || cfg.Truncate || cfg.Disabled {
		t.Errorf("unset flags must not be applied: %+v", cfg)
	}
}

func TestFramework_AppConfigAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	content := `logger:
  dir: /var/log/svc
  file: svc.log
  levels_file: /etc/svc/levels.ini
  console_level: warn
  rotate: date
  max_age: 7
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newSinkCmd(t)
	for name, value := range map[string]string{
		"app-config":    path,
		"file":          "override.log",
		"console-level": "error",
		"truncate":      "true",
	} {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatal(err)
		}
	}

	fw, err := framework(cmd)
	if err != nil {
		t.Fatalf("framework() error = %v", err)
	}

	cfg := fw.LoggerCfg
	if cfg.Dir != "/var/log/svc" {
		t.Errorf("Dir = %q, want value from app config", cfg.Dir)
	}
	if cfg.File != "override.log" {
		t.Errorf("File = %q, want flag value", cfg.File)
	}
	if cfg.LevelsFile != "/etc/svc/levels.ini" {
		t.Errorf("LevelsFile = %q", cfg.LevelsFile)
	}
	if cfg.ConsoleLevel != "error" || !cfg.Truncate {
		t.Errorf("flag overrides not applied: %+v", cfg)
	}
	if cfg.Rotate != "date" || cfg.MaxAge != 7 {
		t.Errorf("rotation settings lost: %+v", cfg)
	}

	rcfg, err := cfg.RotateConfig()
	if err != nil {
		t.Fatalf("RotateConfig() error = %v", err)
	}
	if rcfg.Mode != rotate.FullDate || rcfg.Path() != filepath.Join("/var/log/svc", "override.log") {
		t.Errorf("unexpected rotate config %+v", rcfg)
	}
}

func TestFramework_MissingAppConfig(t *testing.T) {
	cmd := newSinkCmd(t)
	if err := cmd.Flags().Set("app-config", filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
		t.Fatal(err)
	}
	if _, err := framework(cmd); err == nil {
		t.Error("expected error for missing app config")
	}
}
