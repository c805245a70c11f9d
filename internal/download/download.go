package download

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mlihgenel/videocutter-cli/internal/execx"
	"github.com/mlihgenel/videocutter-cli/internal/logging"
)

// Format en yüksek çözünürlüklü mp4 video + m4a ses, yoksa en iyi tek dosya
const Format = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"

// DefaultTemplate isim verilmediğinde kullanılan yt-dlp çıktı şablonu
const DefaultTemplate = "%(title)s.%(ext)s"

// DefaultDir indirme klasörü belirtilmediğinde kullanılır
const DefaultDir = "downloads"

// Info indirmeden önce alınan video bilgisi
type Info struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	Uploader    string  `json:"uploader"`
	ViewCount   int64   `json:"view_count"`
	WebpageURL  string  `json:"webpage_url"`
	FormatCount int     `json:"-"`
	MaxHeight   int     `json:"-"`
}

type rawInfo struct {
	Info
	Formats []struct {
		Height *int `json:"height"`
	} `json:"formats"`
}

// Progress yt-dlp ilerleme satırından çıkarılan bilgi
type Progress struct {
	Percent float64
	Total   string
	Speed   string
	ETA     string
}

// Downloader yt-dlp ile video indirir
type Downloader struct {
	YtDlp     string
	OutputDir string
	Runner    execx.Runner
	Logger    *zap.Logger
}

// New verilen klasöre indiren bir Downloader oluşturur; klasör yoksa oluşturulur
func New(ytdlp, outputDir string, runner execx.Runner, logger *zap.Logger) (*Downloader, error) {
	if strings.TrimSpace(outputDir) == "" {
		outputDir = DefaultDir
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("indirme klasörü oluşturulamadı: %w", err)
	}
	return &Downloader{YtDlp: ytdlp, OutputDir: outputDir, Runner: runner, Logger: logging.OrNop(logger)}, nil
}

// Info URL'deki videonun bilgisini indirmeden döner
func (d *Downloader) Info(ctx context.Context, url string) (Info, error) {
	if strings.TrimSpace(url) == "" {
		return Info{}, fmt.Errorf("URL boş olamaz")
	}
	out, err := d.Runner.Run(ctx, d.YtDlp, "-J", "--no-warnings", "--no-playlist", url)
	if err != nil {
		return Info{}, fmt.Errorf("video bilgisi alınamadı: %w", err)
	}
	return ParseInfo(out)
}

// ParseInfo yt-dlp -J çıktısını çözer
func ParseInfo(data []byte) (Info, error) {
	var raw rawInfo
	if err := json.Unmarshal(data, &raw); err != nil {
		return Info{}, fmt.Errorf("yt-dlp çıktısı çözülemedi: %w", err)
	}
	info := raw.Info
	if info.Title == "" {
		info.Title = "Unknown"
	}
	if info.Uploader == "" {
		info.Uploader = "Unknown"
	}
	info.FormatCount = len(raw.Formats)
	for _, f := range raw.Formats {
		if f.Height != nil && *f.Height > info.MaxHeight {
			info.MaxHeight = *f.Height
		}
	}
	return info, nil
}

// OutputTemplate indirme klasörü ve isteğe bağlı isimden yt-dlp şablonu üretir.
// Uzantısız isimlere %(ext)s eklenir.
func (d *Downloader) OutputTemplate(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return filepath.Join(d.OutputDir, DefaultTemplate)
	}
	if filepath.Ext(name) == "" {
		name += ".%(ext)s"
	}
	return filepath.Join(d.OutputDir, name)
}

// Args indirme için yt-dlp argümanlarını üretir
func (d *Downloader) Args(url, name string) []string {
	return []string{
		"-f", Format,
		"--merge-output-format", "mp4",
		"--recode-video", "mp4",
		"-o", d.OutputTemplate(name),
		"--no-playlist",
		"--newline",
		"--progress",
		"--print", "after_move:filepath",
		url,
	}
}

// Download videoyu indirir ve oluşan dosyanın yolunu döner
func (d *Downloader) Download(ctx context.Context, url, name string, onProgress func(Progress)) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("URL boş olamaz")
	}
	log := logging.OrNop(d.Logger)

	var finalPath string
	err := d.Runner.Stream(ctx, func(line string) {
		if p, ok := ParseProgress(line); ok {
			if onProgress != nil {
				onProgress(p)
			}
			return
		}
		if isFilePathLine(line) {
			finalPath = line
			return
		}
		log.Debug("yt-dlp", zap.String("line", line))
	}, d.YtDlp, d.Args(url, name)...)
	if err != nil {
		return "", fmt.Errorf("indirme başarısız: %w", err)
	}
	if finalPath == "" {
		return "", fmt.Errorf("indirilen dosyanın yolu alınamadı")
	}
	return finalPath, nil
}

var progressRe = regexp.MustCompile(`^\[download\]\s+([\d.]+)%\s+of\s+~?\s*(\S+)(?:\s+at\s+(\S+))?(?:\s+ETA\s+(\S+))?`)

// ParseProgress "[download]  12.3% of 45.67MiB at 1.23MiB/s ETA 00:30" satırlarını çözer
func ParseProgress(line string) (Progress, bool) {
	m := progressRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Progress{}, false
	}
	percent, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Progress{}, false
	}
	return Progress{Percent: percent, Total: m[2], Speed: m[3], ETA: m[4]}, true
}

func isFilePathLine(line string) bool {
	if line == "" || strings.HasPrefix(line, "[") {
		return false
	}
	if strings.HasPrefix(line, "WARNING:") || strings.HasPrefix(line, "ERROR:") {
		return false
	}
	return filepath.Ext(line) != ""
}
