package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const rcloneConfigFileName = "rclone.conf"

// RcloneConfigPath kayıtlı rclone config dosyasının yolu
func RcloneConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, rcloneConfigFileName), nil
}

// SaveRcloneConfig rclone config içeriğini yalnızca kullanıcının okuyabileceği şekilde kaydeder
func SaveRcloneConfig(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("rclone config içeriği boş")
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	path := filepath.Join(dir, rcloneConfigFileName)
	if err := writeFileAtomic(path, []byte(content), 0600); err != nil {
		return "", err
	}
	return path, nil
}

// LoadRcloneConfig kayıtlı rclone config içeriğini döner.
// Kayıt yoksa ("", nil) döner.
func LoadRcloneConfig() (string, error) {
	path, err := RcloneConfigPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ClearRcloneConfig kayıtlı rclone config'i siler
func ClearRcloneConfig() error {
	path, err := RcloneConfigPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ResolveRcloneConfig explicit dosya verilmişse onu, yoksa kayıtlı config'i okur
func ResolveRcloneConfig(explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		data, err := os.ReadFile(explicit)
		if err != nil {
			return "", fmt.Errorf("rclone config okunamadı: %w", err)
		}
		return string(data), nil
	}
	content, err := LoadRcloneConfig()
	if err != nil {
		return "", err
	}
	if content == "" {
		return "", fmt.Errorf("rclone config bulunamadı: --rclone-config verin veya 'videocutter rclone-config set FILE' ile kaydedin")
	}
	return content, nil
}
