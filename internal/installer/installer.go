package installer

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/mlihgenel/videocutter-cli/internal/tools"
)

// InstallInfo kurulum bilgisini tutar
type InstallInfo struct {
	ToolName    string
	Command     string
	Args        []string
	Description string
	ManualURL   string
	Supported   bool // Otomatik kurulum destekleniyor mu
}

// DetectPackageManager mevcut paket yöneticisini tespit eder
func DetectPackageManager() string {
	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = []string{"brew"}
	case "linux":
		candidates = []string{"apt", "dnf", "yum", "pacman"}
	case "windows":
		candidates = []string{"choco", "winget"}
	}
	for _, pm := range candidates {
		if _, err := exec.LookPath(pm); err == nil {
			return pm
		}
	}
	return ""
}

// packageSpec bir aracın paket yöneticilerindeki adları
type packageSpec struct {
	name      string
	manualURL string
	packages  map[string]string
}

var packageSpecs = map[string]packageSpec{
	"ffmpeg": {
		name:      "FFmpeg",
		manualURL: "https://ffmpeg.org/download.html",
		packages: map[string]string{
			"brew": "ffmpeg", "apt": "ffmpeg", "dnf": "ffmpeg", "yum": "ffmpeg",
			"pacman": "ffmpeg", "choco": "ffmpeg", "winget": "Gyan.FFmpeg",
		},
	},
	"yt-dlp": {
		name:      "yt-dlp",
		manualURL: "https://github.com/yt-dlp/yt-dlp#installation",
		packages: map[string]string{
			"brew": "yt-dlp", "apt": "yt-dlp", "dnf": "yt-dlp",
			"pacman": "yt-dlp", "choco": "yt-dlp", "winget": "yt-dlp.yt-dlp",
		},
	},
	"rclone": {
		name:      "rclone",
		manualURL: "https://rclone.org/install/",
		packages: map[string]string{
			"brew": "rclone", "apt": "rclone", "dnf": "rclone", "yum": "rclone",
			"pacman": "rclone", "choco": "rclone", "winget": "Rclone.Rclone",
		},
	},
}

// GetInstallInfo belirli bir araç için kurulum bilgilerini döner
func GetInstallInfo(toolName string) InstallInfo {
	return installInfoFor(toolName, DetectPackageManager())
}

func installInfoFor(toolName, pm string) InstallInfo {
	key := strings.ToLower(strings.TrimSpace(toolName))
	// ffprobe ffmpeg paketiyle gelir
	if key == "ffprobe" {
		key = "ffmpeg"
	}

	spec, ok := packageSpecs[key]
	if !ok {
		return InstallInfo{ToolName: toolName, Supported: false}
	}

	info := InstallInfo{ToolName: spec.name, ManualURL: spec.manualURL}
	pkg, ok := spec.packages[pm]
	if !ok {
		return info
	}

	switch pm {
	case "brew":
		info.Command = "brew"
		info.Args = []string{"install", pkg}
	case "apt", "dnf", "yum":
		info.Command = "sudo"
		info.Args = []string{pm, "install", "-y", pkg}
	case "pacman":
		info.Command = "sudo"
		info.Args = []string{"pacman", "-S", "--noconfirm", pkg}
	case "choco":
		info.Command = "choco"
		info.Args = []string{"install", pkg, "-y"}
	case "winget":
		info.Command = "winget"
		info.Args = []string{"install", pkg}
	default:
		return info
	}

	info.Description = info.Command + " " + strings.Join(info.Args, " ")
	info.Supported = true
	return info
}

// InstallTool belirli bir aracı kurar
func InstallTool(toolName string) (string, error) {
	info := GetInstallInfo(toolName)

	if !info.Supported {
		return "", fmt.Errorf(
			"%s otomatik olarak kurulamıyor.\nManuel kurulum: %s",
			info.ToolName, info.ManualURL,
		)
	}

	cmd := exec.Command(info.Command, info.Args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s kurulumu başarısız: %w", info.ToolName, err)
	}

	return info.Description, nil
}

// GetMissingToolNames eksik araçların isimlerini döner
func GetMissingToolNames(names []string) []string {
	var missing []string
	for _, name := range names {
		t, ok := tools.ByName(name)
		if !ok {
			continue
		}
		if !tools.IsAvailable(t) {
			missing = append(missing, name)
		}
	}
	return missing
}
