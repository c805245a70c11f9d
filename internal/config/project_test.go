package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadProjectConfigFindsParent(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	cfgPath := filepath.Join(root, projectConfigFileName)
	content := `
# kesim varsayılanları
default_output = "./out"
mode = "Accurate"
workers = 3
volume = 0
temp_dir = '/tmp/vc'
download_dir = downloads
remote = "gdrive"
remote_path = "videos/#shorts" # yorum
retry = 2
retry_delay = "1s"
report_format = "json"

[ignored]
unknown_key = 1
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, foundPath, err := LoadProjectConfig(nested)
	if err != nil {
		t.Fatalf("LoadProjectConfig failed: %v", err)
	}
	if cfg == nil {
		t.Fatalf("expected config, got nil")
	}
	if foundPath != cfgPath {
		t.Fatalf("unexpected config path: %s", foundPath)
	}
	if cfg.Mode != "accurate" {
		t.Fatalf("unexpected mode: %s", cfg.Mode)
	}
	if cfg.Workers != 3 {
		t.Fatalf("unexpected workers: %d", cfg.Workers)
	}
	if !cfg.HasVolume || cfg.Volume != 0 {
		t.Fatalf("expected explicit zero volume, got %d (set=%v)", cfg.Volume, cfg.HasVolume)
	}
	if cfg.TempDir != "/tmp/vc" || cfg.DownloadDir != "downloads" {
		t.Fatalf("unexpected dirs: %s %s", cfg.TempDir, cfg.DownloadDir)
	}
	if cfg.RemotePath != "videos/#shorts" {
		t.Fatalf("unexpected remote path: %s", cfg.RemotePath)
	}
	if cfg.Retry != 2 || cfg.RetryDelay != time.Second {
		t.Fatalf("unexpected retry: %d %s", cfg.Retry, cfg.RetryDelay)
	}
	if cfg.ReportFormat != "json" {
		t.Fatalf("unexpected report format: %s", cfg.ReportFormat)
	}
}

func TestLoadProjectConfigMissingFile(t *testing.T) {
	cfg, path, err := LoadProjectConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadProjectConfig failed: %v", err)
	}
	if cfg != nil {
		t.Fatalf("expected nil config for missing file")
	}
	if path != "" {
		t.Fatalf("expected empty path, got: %s", path)
	}
}

func TestLoadProjectConfigInvalidValue(t *testing.T) {
	cases := []string{
		"volume = 250",
		"workers = many",
		"retry_delay = \"soon\"",
		"mode",
	}
	for _, content := range cases {
		root := t.TempDir()
		cfgPath := filepath.Join(root, projectConfigFileName)
		if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if _, _, err := LoadProjectConfig(root); err == nil {
			t.Fatalf("expected error for %q", content)
		}
	}
}
