package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const projectConfigFileName = ".videocutter.toml"

// ProjectConfig proje bazlı CLI varsayılanlarını tutar.
// Sıfır değerler "ayarlanmadı" anlamına gelir, Volume için HasVolume bakılır.
type ProjectConfig struct {
	DefaultOutput string
	Mode          string
	Workers       int
	Volume        int
	HasVolume     bool
	TempDir       string
	DownloadDir   string
	Remote        string
	RemotePath    string
	Retry         int
	RetryDelay    time.Duration
	ReportFormat  string
}

// LoadProjectConfig currentDir'den yukarı doğru .videocutter.toml arar.
// Dosya yoksa (nil, "", nil) döner.
func LoadProjectConfig(currentDir string) (*ProjectConfig, string, error) {
	path, err := findProjectConfigPath(currentDir)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return nil, "", nil
	}

	cfg, err := parseProjectConfig(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func findProjectConfigPath(startDir string) (string, error) {
	if strings.TrimSpace(startDir) == "" {
		return "", errors.New("geçersiz çalışma dizini")
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, projectConfigFileName)
		info, statErr := os.Stat(candidate)
		if statErr == nil && !info.IsDir() {
			return candidate, nil
		}
		if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
			return "", statErr
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func parseProjectConfig(path string) (*ProjectConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := &ProjectConfig{}
	scanner := bufio.NewScanner(f)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(stripInlineComment(scanner.Text()))
		if line == "" {
			continue
		}
		// Tablolar desteklenmez, yalnızca top-level key/value okunur
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%s:%d geçersiz satır", path, lineNo)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			return nil, fmt.Errorf("%s:%d geçersiz key/value", path, lineNo)
		}

		if err := assignProjectConfigValue(cfg, key, value); err != nil {
			return nil, fmt.Errorf("%s:%d %s: %w", path, lineNo, key, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (cfg *ProjectConfig) validate() error {
	switch {
	case cfg.Workers < 0:
		return fmt.Errorf("workers 0 veya daha büyük olmalı")
	case cfg.HasVolume && (cfg.Volume < 0 || cfg.Volume > 200):
		return fmt.Errorf("volume 0-200 aralığında olmalı")
	case cfg.Retry < 0:
		return fmt.Errorf("retry 0 veya daha büyük olmalı")
	case cfg.RetryDelay < 0:
		return fmt.Errorf("retry_delay negatif olamaz")
	}
	return nil
}

func assignProjectConfigValue(cfg *ProjectConfig, key, raw string) error {
	texts := map[string]*string{
		"default_output": &cfg.DefaultOutput,
		"temp_dir":       &cfg.TempDir,
		"download_dir":   &cfg.DownloadDir,
		"remote":         &cfg.Remote,
		"remote_path":    &cfg.RemotePath,
	}
	lowered := map[string]*string{
		"mode":          &cfg.Mode,
		"report_format": &cfg.ReportFormat,
	}
	ints := map[string]*int{
		"workers": &cfg.Workers,
		"retry":   &cfg.Retry,
	}

	if dst, ok := texts[key]; ok {
		v, err := parseTomlString(raw)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
	if dst, ok := lowered[key]; ok {
		v, err := parseTomlString(raw)
		if err != nil {
			return err
		}
		*dst = strings.ToLower(strings.TrimSpace(v))
		return nil
	}
	if dst, ok := ints[key]; ok {
		v, err := parseTomlInt(raw)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}

	switch key {
	case "volume":
		v, err := parseTomlInt(raw)
		if err != nil {
			return err
		}
		cfg.Volume = v
		cfg.HasVolume = true
	case "retry_delay":
		v, err := parseTomlDuration(raw)
		if err != nil {
			return err
		}
		cfg.RetryDelay = v
	}
	// Bilinmeyen anahtarlar görmezden gelinir
	return nil
}

func parseTomlString(v string) (string, error) {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && ((v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'')) {
		return v[1 : len(v)-1], nil
	}
	if strings.ContainsAny(v, "\"'") {
		return "", fmt.Errorf("geçersiz string değer")
	}
	// Kısa yazım: key = value (tırnaksız)
	return v, nil
}

func parseTomlInt(v string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("geçersiz sayı değeri")
	}
	return parsed, nil
}

func parseTomlDuration(v string) (time.Duration, error) {
	str, err := parseTomlString(v)
	if err != nil {
		return 0, err
	}
	d, err := time.ParseDuration(str)
	if err != nil {
		return 0, fmt.Errorf("geçersiz süre değeri")
	}
	return d, nil
}

func stripInlineComment(line string) string {
	inSingle, inDouble := false, false
	for i, r := range line {
		switch {
		case r == '\'' && !inDouble:
			inSingle = !inSingle
		case r == '"' && !inSingle:
			inDouble = !inDouble
		case r == '#' && !inSingle && !inDouble:
			return line[:i]
		}
	}
	return line
}
