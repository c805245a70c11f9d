package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mlihgenel/videocutter-cli/internal/execx"
	"github.com/mlihgenel/videocutter-cli/internal/logging"
	"github.com/mlihgenel/videocutter-cli/internal/timecode"
)

// ErrInvalidVolume ses seviyesi 0-200 aralığında değilse döner
var ErrInvalidVolume = errors.New("ses seviyesi 0-200 arasında olmalı")

// SupportedExtensions seçim ekranlarında önerilen ses dosyası uzantıları
var SupportedExtensions = []string{".mp3", ".wav", ".aac", ".m4a", ".flac", ".ogg", ".wma"}

// IsAudioFile uzantının desteklenen ses formatlarından biri olup olmadığını döner
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Overlayer videoya ek ses izi ekler
type Overlayer struct {
	FFmpeg  string
	Runner  execx.Runner
	Logger  *zap.Logger
	Verbose bool
}

// New yeni bir Overlayer oluşturur
func New(ffmpeg string, runner execx.Runner, logger *zap.Logger) *Overlayer {
	return &Overlayer{FFmpeg: ffmpeg, Runner: runner, Logger: logging.OrNop(logger)}
}

func volumeFactor(volume int) string {
	return timecode.FormatFFmpeg(float64(volume) / 100)
}

func (o *Overlayer) prefix() []string {
	if o.Verbose {
		return nil
	}
	return []string{"-loglevel", "error"}
}

// MixArgs videonun kendi sesini yeni sesle karıştıran ffmpeg argümanları
func (o *Overlayer) MixArgs(video, audio string, volume int, output string) []string {
	args := o.prefix()
	return append(args,
		"-i", video,
		"-i", audio,
		"-filter_complex",
		fmt.Sprintf("[1:a]volume=%s[a1];[0:a][a1]amix=inputs=2:duration=first[aout]", volumeFactor(volume)),
		"-map", "0:v",
		"-map", "[aout]",
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		"-y", output,
	)
}

// ReplaceArgs sesi olmayan videoya yeni sesi ekleyen ffmpeg argümanları
func (o *Overlayer) ReplaceArgs(video, audio string, volume int, output string) []string {
	args := o.prefix()
	return append(args,
		"-i", video,
		"-i", audio,
		"-filter:a", "volume="+volumeFactor(volume),
		"-map", "0:v",
		"-map", "1:a",
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		"-y", output,
	)
}

// Overlay ses dosyasını videoya ekler.
// Video ses akışı içermiyorsa karıştırma başarısız olur ve doğrudan ses eklenir.
func (o *Overlayer) Overlay(ctx context.Context, video, audio string, volume int, output string) error {
	if volume < 0 || volume > 200 {
		return fmt.Errorf("%w: %d", ErrInvalidVolume, volume)
	}
	if _, err := os.Stat(video); err != nil {
		return fmt.Errorf("video dosyası bulunamadı: %s", video)
	}
	if _, err := os.Stat(audio); err != nil {
		return fmt.Errorf("ses dosyası bulunamadı: %s", audio)
	}

	log := logging.OrNop(o.Logger)
	_, mixErr := o.Runner.Run(ctx, o.FFmpeg, o.MixArgs(video, audio, volume, output)...)
	if mixErr == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	log.Debug("amix başarısız, ses doğrudan eklenecek", zap.Error(mixErr))

	if _, err := o.Runner.Run(ctx, o.FFmpeg, o.ReplaceArgs(video, audio, volume, output)...); err != nil {
		return fmt.Errorf("ses eklenemedi: %w", err)
	}
	return nil
}

// TempPath kesilmiş videonun ses eklenmeden önce yazılacağı yol: <stem>_temp<ext>
func TempPath(output string) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + "_temp" + ext
}
