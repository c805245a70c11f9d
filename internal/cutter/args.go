package cutter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mlihgenel/videocutter-cli/internal/timecode"
)

func logArgs(verbose bool) []string {
	if verbose {
		return nil
	}
	return []string{"-loglevel", "error"}
}

// SegmentArgs tek segmenti kesen ffmpeg argümanlarını üretir
func SegmentArgs(mode Mode, input string, seg timecode.Segment, volume int, noAudio bool, verbose bool, output string) []string {
	args := logArgs(verbose)
	args = append(args,
		"-ss", timecode.FormatFFmpeg(seg.Start),
		"-i", input,
		"-t", timecode.FormatFFmpeg(seg.Duration()),
	)

	muted := noAudio || volume == 0

	if !mode.Reencode() {
		args = append(args, "-c", "copy", "-avoid_negative_ts", "1")
		if muted {
			args = append(args, "-an")
		}
		return append(args, "-y", output)
	}

	args = append(args, "-c:v", "libx264", "-preset", "medium", "-crf", "23")
	if muted {
		args = append(args, "-an")
	} else {
		args = append(args, "-c:a", "aac", "-b:a", "128k")
		if volume != 100 {
			args = append(args, "-af", "volume="+volumeFactor(volume))
		}
	}
	return append(args, "-strict", "experimental", "-y", output)
}

// ConcatArgs segment listesini birleştiren ffmpeg argümanlarını üretir
func ConcatArgs(listPath string, verbose bool, output string) []string {
	args := logArgs(verbose)
	return append(args, "-f", "concat", "-safe", "0", "-i", listPath, "-c", "copy", "-y", output)
}

func volumeFactor(volume int) string {
	return timecode.FormatFFmpeg(float64(volume) / 100)
}

// FragmentName geçici klasördeki segment dosya adı, number 1 tabanlıdır
func FragmentName(number int, ext string) string {
	if ext == "" {
		ext = ".mp4"
	}
	return fmt.Sprintf("segment_%03d%s", number, ext)
}

func escapeConcatPath(path string) string {
	return strings.ReplaceAll(path, "'", "'\\''")
}

// ConcatList FFmpeg concat demuxer listesi içeriğini üretir
func ConcatList(files []string) (string, error) {
	var sb strings.Builder
	for _, f := range files {
		absPath, err := filepath.Abs(f)
		if err != nil {
			return "", err
		}
		sb.WriteString(fmt.Sprintf("file '%s'\n", escapeConcatPath(absPath)))
	}
	return sb.String(), nil
}

func writeConcatList(files []string, dir string) (string, error) {
	content, err := ConcatList(files)
	if err != nil {
		return "", err
	}
	listPath := filepath.Join(dir, "concat_list.txt")
	if err := os.WriteFile(listPath, []byte(content), 0644); err != nil {
		return "", err
	}
	return listPath, nil
}
