package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/mlihgenel/videocutter-cli/internal/execx"
)

// ========================================
// Harici Araç Tespiti
// FFmpeg / FFprobe (kesme, birleştirme), yt-dlp (indirme), rclone (yükleme)
// ========================================

// ErrToolNotFound araç sistemde bulunamadığında döner
var ErrToolNotFound = errors.New("araç bulunamadı")

// Tool aranacak harici bir programı tanımlar
type Tool struct {
	Name        string
	Binary      string
	EnvVar      string
	VersionArgs []string
	InstallHint string
}

var (
	FFmpeg = Tool{
		Name:        "FFmpeg",
		Binary:      "ffmpeg",
		EnvVar:      "FFMPEG_PATH",
		VersionArgs: []string{"-version"},
		InstallHint: "  macOS:   brew install ffmpeg\n" +
			"  Ubuntu:  sudo apt install ffmpeg\n" +
			"  Windows: https://ffmpeg.org/download.html",
	}
	FFprobe = Tool{
		Name:        "FFprobe",
		Binary:      "ffprobe",
		EnvVar:      "FFPROBE_PATH",
		VersionArgs: []string{"-version"},
		InstallHint: "  FFprobe FFmpeg paketiyle birlikte gelir",
	}
	YtDlp = Tool{
		Name:        "yt-dlp",
		Binary:      "yt-dlp",
		EnvVar:      "YTDLP_PATH",
		VersionArgs: []string{"--version"},
		InstallHint: "  macOS:   brew install yt-dlp\n" +
			"  Linux:   pip install yt-dlp\n" +
			"  Windows: winget install yt-dlp.yt-dlp",
	}
	Rclone = Tool{
		Name:        "rclone",
		Binary:      "rclone",
		EnvVar:      "RCLONE_PATH",
		VersionArgs: []string{"version"},
		InstallHint: "  macOS:   brew install rclone\n" +
			"  Ubuntu:  sudo apt-get install rclone\n" +
			"  Windows: https://rclone.org/downloads/",
	}
)

// All durum kontrolünde gösterilen araçlar
func All() []Tool {
	return []Tool{FFmpeg, FFprobe, YtDlp, Rclone}
}

// ByName araç adından (büyük/küçük harf duyarsız) Tool döner
func ByName(name string) (Tool, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, t := range All() {
		if strings.ToLower(t.Binary) == key || strings.ToLower(t.Name) == key {
			return t, true
		}
	}
	return Tool{}, false
}

// Find aracın çalıştırılabilir yolunu bulur.
// Sıra: çevre değişkeni, PATH, işletim sistemine göre bilinen yollar.
func Find(t Tool) (string, error) {
	if t.EnvVar != "" {
		if envPath := os.Getenv(t.EnvVar); envPath != "" {
			if _, err := os.Stat(envPath); err == nil {
				return envPath, nil
			}
		}
	}

	if path, err := exec.LookPath(t.Binary); err == nil {
		return path, nil
	}

	for _, candidate := range knownPaths(t.Binary) {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s. Lütfen yükleyin:\n%s\n  Veya %s çevre değişkenini ayarlayın",
		ErrToolNotFound, t.Name, t.InstallHint, t.EnvVar)
}

// Resolve aracı bulur, bulunamazsa çıplak binary adını döner.
// Komut yine de çalıştırılır ve hata Runner'dan gelir.
func Resolve(t Tool) string {
	if path, err := Find(t); err == nil {
		return path
	}
	return t.Binary
}

// IsAvailable aracın yüklü olup olmadığını kontrol eder
func IsAvailable(t Tool) bool {
	_, err := Find(t)
	return err == nil
}

func knownPaths(binary string) []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"/opt/homebrew/bin/" + binary, "/usr/local/bin/" + binary}
	case "linux":
		return []string{"/usr/bin/" + binary, "/usr/local/bin/" + binary, "/snap/bin/" + binary}
	case "windows":
		return []string{`C:\Program Files\` + binary + `\` + binary + `.exe`}
	}
	return nil
}

// Status harici bir aracın durumunu temsil eder
type Status struct {
	Name      string `json:"name"`
	Binary    string `json:"binary"`
	Available bool   `json:"available"`
	Path      string `json:"path,omitempty"`
	Version   string `json:"version,omitempty"`
}

// CheckDependencies tüm harici bağımlılıkları kontrol eder
func CheckDependencies(ctx context.Context, runner execx.Runner) []Status {
	statuses := make([]Status, 0, len(All()))
	for _, t := range All() {
		st := Status{Name: t.Name, Binary: t.Binary}
		if path, err := Find(t); err == nil {
			st.Available = true
			st.Path = path
			st.Version = probeVersion(ctx, runner, path, t.VersionArgs)
		}
		statuses = append(statuses, st)
	}
	return statuses
}

func probeVersion(ctx context.Context, runner execx.Runner, path string, args []string) string {
	if runner == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := runner.Run(ctx, path, args...)
	if err != nil {
		return ""
	}
	return FirstLine(string(out))
}

// FirstLine çıktının ilk boş olmayan satırını döner
func FirstLine(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
