package execx

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mlihgenel/videocutter-cli/internal/logging"
)

// Runner harici bir programı çalıştıran soyutlama.
// Testlerde sahte bir Runner ile ffmpeg/yt-dlp/rclone çağrıları taklit edilir.
type Runner interface {
	// Run komutu çalıştırır ve stdout+stderr birleşik çıktısını döner
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	// Stream komutu çalıştırır ve her çıktı satırını onLine'a iletir
	Stream(ctx context.Context, onLine func(line string), name string, args ...string) error
}

// CommandError başarısız bir harici komutun bilgisini taşır
type CommandError struct {
	Name   string
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("%s hatası: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%s hatası: %v\n%s", e.Name, e.Err, out)
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExecRunner os/exec tabanlı varsayılan Runner
type ExecRunner struct {
	Logger *zap.Logger
}

// NewRunner logger ile yeni bir ExecRunner oluşturur
func NewRunner(logger *zap.Logger) *ExecRunner {
	return &ExecRunner{Logger: logging.OrNop(logger)}
}

func (r *ExecRunner) logger() *zap.Logger {
	return logging.OrNop(r.Logger)
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	log := r.logger()
	log.Debug("komut çalıştırılıyor", zap.String("cmd", name), zap.Strings("args", args))

	started := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		// Beklenen hatalar da buraya düşer, uyarı seviyesi çağıranın kararıdır
		log.Debug("komut başarısız",
			zap.String("cmd", name),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err),
		)
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return out, &CommandError{Name: name, Args: args, Output: string(out), Err: err}
	}

	log.Debug("komut tamamlandı", zap.String("cmd", name), zap.Duration("elapsed", time.Since(started)))
	return out, nil
}

// tailLines hata mesajında gösterilecek son satır sayısı
const tailLines = 20

func (r *ExecRunner) Stream(ctx context.Context, onLine func(line string), name string, args ...string) error {
	log := r.logger()
	log.Debug("komut çalıştırılıyor (stream)", zap.String("cmd", name), zap.Strings("args", args))

	pr, pw := io.Pipe()
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		return &CommandError{Name: name, Args: args, Err: err}
	}

	waitErr := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		pw.CloseWithError(err)
		waitErr <- err
	}()

	var tail []string
	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(ScanLinesCR)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tail = append(tail, line)
		if len(tail) > tailLines {
			tail = tail[1:]
		}
		if onLine != nil {
			onLine(line)
		}
	}
	// Okuma yarıda kalırsa process'in pipe'a yazarken takılmaması için kalan çıktıyı boşalt
	_, _ = io.Copy(io.Discard, pr)

	if err := <-waitErr; err != nil {
		log.Debug("komut başarısız", zap.String("cmd", name), zap.Error(err))
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return &CommandError{Name: name, Args: args, Output: strings.Join(tail, "\n"), Err: err}
	}
	return nil
}

// ScanLinesCR satırları hem \n hem \r ile ayırır.
// ffmpeg ve rclone ilerleme satırlarını \r ile günceller.
func ScanLinesCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
