package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mlihgenel/videocutter-cli/internal/audio"
	"github.com/mlihgenel/videocutter-cli/internal/config"
	"github.com/mlihgenel/videocutter-cli/internal/cutter"
	"github.com/mlihgenel/videocutter-cli/internal/download"
	"github.com/mlihgenel/videocutter-cli/internal/execx"
	"github.com/mlihgenel/videocutter-cli/internal/logging"
	"github.com/mlihgenel/videocutter-cli/internal/timecode"
	"github.com/mlihgenel/videocutter-cli/internal/upload"
)

const (
	StepDownload = "download"
	StepCut      = "cut"
	StepAudio    = "audio"
	StepUpload   = "upload"
)

// Job uçtan uca tek bir işlem: indir → kes → ses ekle → yükle
type Job struct {
	URL          string
	DownloadDir  string
	DownloadName string

	Input    string
	Segments []timecode.Segment
	Output   string
	// OutputDir Output boşken varsayılan çıktı adının yazılacağı dizin
	OutputDir  string
	Mode       cutter.Mode
	Workers    int
	Volume     int
	NoAudio    bool
	TempDir    string
	Retry      int
	RetryDelay time.Duration

	AudioFile   string
	AudioVolume int

	Upload     bool
	Remote     string
	RemotePath string
	// RcloneConfig doğrudan config içeriği; boşsa RcloneConfigFile veya kayıtlı config okunur
	RcloneConfig     string
	RcloneConfigFile string
}

// Tools harici programların yolları
type Tools struct {
	FFmpeg  string
	FFprobe string
	YtDlp   string
	Rclone  string
}

// Event adım ilerlemesini bildirir.
// Total > 0 ise Current/Total oranı ilerleme olarak gösterilebilir.
type Event struct {
	Step    string
	Message string
	Current float64
	Total   float64
}

// Result workflow çalıştırma sonucunu tutar.
type Result struct {
	Input       string         `json:"input"`
	FinalOutput string         `json:"final_output"`
	Destination string         `json:"destination,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	EndedAt     time.Time      `json:"ended_at"`
	Duration    time.Duration  `json:"duration"`
	Steps       []StepResult   `json:"steps"`
	Cut         *cutter.Result `json:"-"`
}

// StepResult tek bir adımın sonucunu tutar.
type StepResult struct {
	Index    int           `json:"index"`
	Type     string        `json:"type"`
	Input    string        `json:"input"`
	Output   string        `json:"output"`
	Duration time.Duration `json:"duration"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
}

// Executor Job'ları çalıştırır
type Executor struct {
	Tools   Tools
	Runner  execx.Runner
	Logger  *zap.Logger
	Verbose bool
	OnEvent func(Event)
}

func (e *Executor) emit(ev Event) {
	if e.OnEvent != nil {
		e.OnEvent(ev)
	}
}

func (e *Executor) log() *zap.Logger {
	return logging.OrNop(e.Logger)
}

type stepFunc func(ctx context.Context, input string) (string, error)

// Execute adımları sırayla çalıştırır, ilk hatada durur.
func (e *Executor) Execute(ctx context.Context, job Job) (Result, error) {
	started := time.Now()
	result := Result{Input: job.Input, StartedAt: started}

	finish := func(err error) (Result, error) {
		result.EndedAt = time.Now()
		result.Duration = result.EndedAt.Sub(result.StartedAt)
		return result, err
	}

	if job.Upload && job.RcloneConfig == "" {
		content, err := config.ResolveRcloneConfig(job.RcloneConfigFile)
		if err != nil {
			return finish(err)
		}
		job.RcloneConfig = content
	}
	if job.Upload {
		if err := upload.ValidateConfig(job.RcloneConfig); err != nil {
			return finish(err)
		}
	}
	if job.AudioFile != "" {
		if _, err := os.Stat(job.AudioFile); err != nil {
			return finish(fmt.Errorf("ses dosyası bulunamadı: %s", job.AudioFile))
		}
	}

	type step struct {
		name string
		run  stepFunc
	}
	var steps []step
	if job.URL != "" {
		steps = append(steps, step{StepDownload, func(ctx context.Context, _ string) (string, error) {
			return e.download(ctx, job)
		}})
	}

	var temps []string
	defer func() {
		for _, p := range temps {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				e.log().Warn("geçici dosya silinemedi", zap.String("path", p), zap.Error(err))
			}
		}
	}()

	steps = append(steps, step{StepCut, func(ctx context.Context, input string) (string, error) {
		output := job.Output
		if strings.TrimSpace(output) == "" {
			output = cutter.DefaultOutputPath(input)
			if strings.TrimSpace(job.OutputDir) != "" {
				output = filepath.Join(job.OutputDir, filepath.Base(output))
			}
		}
		job.Output = output
		if job.AudioFile != "" {
			output = audio.TempPath(output)
			temps = append(temps, output)
		}
		res, err := e.cut(ctx, job, input, output)
		result.Cut = &res
		return output, err
	}})
	if job.AudioFile != "" {
		steps = append(steps, step{StepAudio, func(ctx context.Context, input string) (string, error) {
			e.emit(Event{Step: StepAudio, Message: "ses ekleniyor: " + filepath.Base(job.AudioFile)})
			o := audio.New(e.Tools.FFmpeg, e.Runner, e.Logger)
			o.Verbose = e.Verbose
			return job.Output, o.Overlay(ctx, input, job.AudioFile, job.AudioVolume, job.Output)
		}})
	}
	if job.Upload {
		steps = append(steps, step{StepUpload, func(ctx context.Context, input string) (string, error) {
			dest, err := e.upload(ctx, job, input)
			result.Destination = dest
			return dest, err
		}})
	}

	current := job.Input
	for i, s := range steps {
		stepStart := time.Now()
		e.log().Debug("adım başlıyor", zap.String("step", s.name), zap.String("input", current))
		output, err := s.run(ctx, current)

		sr := StepResult{
			Index:    i + 1,
			Type:     s.name,
			Input:    current,
			Output:   output,
			Duration: time.Since(stepStart),
			Success:  err == nil,
		}
		if err != nil {
			sr.Error = err.Error()
		}
		result.Steps = append(result.Steps, sr)
		if err != nil {
			return finish(fmt.Errorf("%s adımı başarısız: %w", s.name, err))
		}

		if s.name == StepDownload {
			result.Input = output
		}
		// upload hedefi yerel bir dosya değildir, sonraki girdi değişmez
		if s.name != StepUpload {
			current = output
		}
	}

	result.FinalOutput = current
	return finish(nil)
}

func (e *Executor) download(ctx context.Context, job Job) (string, error) {
	d, err := download.New(e.Tools.YtDlp, job.DownloadDir, e.Runner, e.Logger)
	if err != nil {
		return "", err
	}

	if info, err := d.Info(ctx, job.URL); err == nil {
		e.emit(Event{Step: StepDownload, Message: fmt.Sprintf("%s (%s, %dp)",
			info.Title, timecode.FormatHuman(info.Duration), info.MaxHeight)})
	} else {
		e.log().Debug("video bilgisi alınamadı", zap.Error(err))
	}

	return d.Download(ctx, job.URL, job.DownloadName, func(p download.Progress) {
		e.emit(Event{
			Step:    StepDownload,
			Message: fmt.Sprintf("%.1f%% / %s %s", p.Percent, p.Total, p.Speed),
			Current: p.Percent,
			Total:   100,
		})
	})
}

func (e *Executor) cut(ctx context.Context, job Job, input, output string) (cutter.Result, error) {
	c := cutter.New(e.Tools.FFmpeg, e.Tools.FFprobe, e.Runner, e.Logger)
	return c.Cut(ctx, cutter.Options{
		Input:      input,
		Segments:   job.Segments,
		Output:     output,
		Mode:       job.Mode,
		Workers:    job.Workers,
		Volume:     job.Volume,
		NoAudio:    job.NoAudio,
		TempDir:    job.TempDir,
		Retry:      job.Retry,
		RetryDelay: job.RetryDelay,
		Verbose:    e.Verbose,
		OnProgress: func(p cutter.Progress) {
			ev := Event{Step: StepCut, Current: float64(p.Completed), Total: float64(p.Total)}
			switch p.Stage {
			case cutter.StageCut:
				ev.Message = fmt.Sprintf("segment %d/%d", p.Completed, p.Total)
			case cutter.StageConcat:
				ev.Message = "segmentler birleştiriliyor"
			case cutter.StageDone:
				ev.Message = "kesme tamamlandı"
			}
			e.emit(ev)
		},
	})
}

func (e *Executor) upload(ctx context.Context, job Job, file string) (string, error) {
	u, err := upload.NewUploader(e.Tools.Rclone, job.RcloneConfig, e.Runner, e.Logger)
	if err != nil {
		return "", err
	}
	defer u.Close()

	remotes, err := u.ListRemotes(ctx)
	if err != nil {
		return "", err
	}
	remote, err := upload.SelectRemote(remotes, job.Remote)
	if err != nil {
		return "", err
	}

	dest := upload.Destination(remote, job.RemotePath)
	e.emit(Event{Step: StepUpload, Message: "yükleniyor: " + dest})
	err = u.Upload(ctx, file, remote, job.RemotePath, func(line string) {
		e.emit(Event{Step: StepUpload, Message: line})
	})
	return dest, err
}
