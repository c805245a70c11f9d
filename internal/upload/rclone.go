package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mlihgenel/videocutter-cli/internal/execx"
	"github.com/mlihgenel/videocutter-cli/internal/logging"
)

var (
	// ErrNoRemotes rclone config içinde hiç remote yoksa döner
	ErrNoRemotes = errors.New("rclone config içinde remote bulunamadı")
	// ErrInvalidConfig içerik rclone config formatında değilse döner
	ErrInvalidConfig = errors.New("geçersiz rclone config")
	// ErrRcloneMissing rclone çalıştırılamadığında döner
	ErrRcloneMissing = errors.New("rclone yüklü değil")
)

const (
	versionTimeout = 5 * time.Second
	listTimeout    = 10 * time.Second
)

// ValidateConfig içeriğin en az bir [remote] bölümü ve type anahtarı taşıdığını kontrol eder
func ValidateConfig(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: içerik boş", ErrInvalidConfig)
	}
	if !strings.Contains(content, "[") || !strings.Contains(content, "type") {
		return fmt.Errorf("%w: [remote] bölümü ve type anahtarı gerekli", ErrInvalidConfig)
	}
	return nil
}

// Uploader rclone ile dosya yükler.
// Config içeriği geçici bir dosyaya yazılır, Close ile silinir.
type Uploader struct {
	Rclone     string
	ConfigPath string
	Runner     execx.Runner
	Logger     *zap.Logger
}

// NewUploader config içeriğini doğrular ve yalnızca kullanıcının okuyabileceği geçici dosyaya yazar
func NewUploader(rclone, content string, runner execx.Runner, logger *zap.Logger) (*Uploader, error) {
	if err := ValidateConfig(content); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp("", "videocutter-rclone-*.conf")
	if err != nil {
		return nil, fmt.Errorf("geçici config oluşturulamadı: %w", err)
	}
	if err := f.Chmod(0600); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("geçici config izinleri ayarlanamadı: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("geçici config yazılamadı: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("geçici config yazılamadı: %w", err)
	}

	return &Uploader{Rclone: rclone, ConfigPath: f.Name(), Runner: runner, Logger: logging.OrNop(logger)}, nil
}

// Close geçici config dosyasını siler
func (u *Uploader) Close() error {
	if u.ConfigPath == "" {
		return nil
	}
	err := os.Remove(u.ConfigPath)
	u.ConfigPath = ""
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// CheckInstalled rclone version komutunun çalıştığını kontrol eder
func (u *Uploader) CheckInstalled(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	if _, err := u.Runner.Run(ctx, u.Rclone, "version"); err != nil {
		return fmt.Errorf("%w: %v", ErrRcloneMissing, err)
	}
	return nil
}

// ListRemotes config'deki remote adlarını ':' olmadan döner
func (u *Uploader) ListRemotes(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	out, err := u.Runner.Run(ctx, u.Rclone, "listremotes", "--config", u.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("remote listesi alınamadı: %w", err)
	}
	return ParseRemotes(string(out)), nil
}

// ParseRemotes "gdrive:\nbackup:\n" çıktısını remote adlarına çevirir
func ParseRemotes(out string) []string {
	var remotes []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSuffix(strings.TrimSpace(line), ":")
		if line != "" {
			remotes = append(remotes, line)
		}
	}
	return remotes
}

// SelectRemote istenen remote'u doğrular; boşsa ilk remote seçilir
func SelectRemote(remotes []string, requested string) (string, error) {
	if len(remotes) == 0 {
		return "", ErrNoRemotes
	}
	requested = strings.TrimSuffix(strings.TrimSpace(requested), ":")
	if requested == "" {
		return remotes[0], nil
	}
	for _, r := range remotes {
		if r == requested {
			return r, nil
		}
	}
	return "", fmt.Errorf("remote bulunamadı: %s (mevcut: %s)", requested, strings.Join(remotes, ", "))
}

// Destination remote:path hedefini üretir
func Destination(remote, remotePath string) string {
	return remote + ":" + strings.TrimPrefix(strings.TrimSpace(remotePath), "/")
}

// Upload dosyayı remote:path hedefine kopyalar, rclone çıktısını satır satır iletir
func (u *Uploader) Upload(ctx context.Context, file, remote, remotePath string, onLine func(string)) error {
	info, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("dosya bulunamadı: %s", file)
	}
	if info.IsDir() {
		return fmt.Errorf("klasör yüklenemez: %s", file)
	}
	if err := u.CheckInstalled(ctx); err != nil {
		return err
	}

	dest := Destination(remote, remotePath)
	logging.OrNop(u.Logger).Debug("yükleme başlıyor",
		zap.String("file", filepath.Base(file)),
		zap.String("dest", dest),
	)

	args := []string{
		"copy", file, dest,
		"--config", u.ConfigPath,
		"--progress",
		"--stats", "1s",
		"--stats-one-line",
	}
	if err := u.Runner.Stream(ctx, onLine, u.Rclone, args...); err != nil {
		return fmt.Errorf("yükleme başarısız: %w", err)
	}
	return nil
}
