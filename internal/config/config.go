package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// dirEnv yapılandırma dizinini değiştirmek için kullanılan çevre değişkeni
const dirEnv = "VIDEOCUTTER_CONFIG_DIR"

// AppConfig uygulama yapılandırmasını tutar
type AppConfig struct {
	FirstRunCompleted bool   `json:"first_run_completed"`
	DefaultOutputDir  string `json:"default_output_dir,omitempty"`
	DownloadDir       string `json:"download_dir,omitempty"`
	RemotePath        string `json:"remote_path,omitempty"`
	Remote            string `json:"remote,omitempty"`
}

// Dir yapılandırma dizinini döner (~/.videocutter)
func Dir() (string, error) {
	if dir := os.Getenv(dirEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".videocutter"), nil
}

func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig yapılandırmayı dosyadan okur.
// Dosya yoksa veya bozuksa varsayılan config döner.
func LoadConfig() (*AppConfig, error) {
	path, err := configPath()
	if err != nil {
		return &AppConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &AppConfig{}, nil
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return &AppConfig{}, nil
	}
	return &cfg, nil
}

// SaveConfig yapılandırmayı geçici dosyaya yazıp yerine taşır,
// yarıda kalan yazma mevcut config'i bozmaz.
func SaveConfig(cfg *AppConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data, 0644)
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Update config'i okur, fn ile değiştirir ve kaydeder
func Update(fn func(cfg *AppConfig)) error {
	cfg, _ := LoadConfig()
	fn(cfg)
	return SaveConfig(cfg)
}

// IsFirstRun uygulamanın ilk kez çalıştırılıp çalıştırılmadığını kontrol eder
func IsFirstRun() bool {
	cfg, _ := LoadConfig()
	return !cfg.FirstRunCompleted
}

// MarkFirstRunDone ilk çalıştırma tamamlandı olarak işaretler
func MarkFirstRunDone() error {
	return Update(func(cfg *AppConfig) { cfg.FirstRunCompleted = true })
}
