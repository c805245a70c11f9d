package cutter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mlihgenel/videocutter-cli/internal/batch"
	"github.com/mlihgenel/videocutter-cli/internal/execx"
	"github.com/mlihgenel/videocutter-cli/internal/logging"
	"github.com/mlihgenel/videocutter-cli/internal/timecode"
)

// ErrInvalidVolume ses seviyesi 0-200 aralığında değilse döner
var ErrInvalidVolume = errors.New("ses seviyesi 0-200 arasında olmalı")

// Stage ilerleme olayının ait olduğu aşama
type Stage string

const (
	StageCut    Stage = "cut"
	StageConcat Stage = "concat"
	StageDone   Stage = "done"
)

// Progress kesme ilerlemesini bildirir
type Progress struct {
	Stage     Stage
	Completed int
	Total     int
	Segment   int
	Err       error
}

// Options kesme işleminin parametreleri
type Options struct {
	Input    string
	Segments []timecode.Segment
	Output   string
	Mode     Mode
	Workers  int
	// Volume yüzde olarak ses seviyesi, 0 sessiz
	Volume     int
	NoAudio    bool
	TempDir    string
	Retry      int
	RetryDelay time.Duration
	Verbose    bool
	OnProgress func(Progress)
}

// Command çalıştırılacak tek bir ffmpeg çağrısı
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for _, a := range c.Args {
		if a == "" || strings.ContainsAny(a, " '\"[];") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// Plan kuru çalıştırma çıktısı
type Plan struct {
	Mode          Mode
	Workers       int
	TotalDuration float64
	Commands      []Command
	Warnings      []string
}

// Result kesme işleminin sonucu
type Result struct {
	Output         string
	Mode           Mode
	Workers        int
	SegmentCount   int
	OutputDuration float64
	InputDuration  float64
	CutTime        time.Duration
	ConcatTime     time.Duration
	TotalTime      time.Duration
	Segments       []batch.JobResult
	Warnings       []string
}

// Speed çıktı süresinin gerçek süreye oranı (örn: 4.2x)
func (r Result) Speed() float64 {
	if r.TotalTime <= 0 {
		return 0
	}
	return r.OutputDuration / r.TotalTime.Seconds()
}

// SegmentError belirli bir segmentin kesilememesi
type SegmentError struct {
	Segment int
	Err     error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("segment %d başarısız: %v", e.Segment, e.Err)
}

func (e *SegmentError) Unwrap() error { return e.Err }

// Cutter ffmpeg ile segment kesme ve birleştirme yapar
type Cutter struct {
	FFmpeg  string
	FFprobe string
	Runner  execx.Runner
	Logger  *zap.Logger
}

// New verilen runner ile Cutter oluşturur
func New(ffmpeg, ffprobe string, runner execx.Runner, logger *zap.Logger) *Cutter {
	return &Cutter{FFmpeg: ffmpeg, FFprobe: ffprobe, Runner: runner, Logger: logging.OrNop(logger)}
}

// DefaultOutputPath girdiden <stem>_cut<ext> yolunu üretir
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	stem := strings.TrimSuffix(input, ext)
	if ext == "" {
		ext = ".mp4"
	}
	return stem + "_cut" + ext
}

func (c *Cutter) validate(opts *Options) error {
	if c.FFmpeg == "" {
		return fmt.Errorf("ffmpeg yolu belirtilmedi")
	}
	if strings.TrimSpace(opts.Input) == "" {
		return fmt.Errorf("girdi dosyası belirtilmedi")
	}
	if info, err := os.Stat(opts.Input); err != nil {
		return fmt.Errorf("girdi dosyası bulunamadı: %s", opts.Input)
	} else if info.IsDir() {
		return fmt.Errorf("girdi bir klasör: %s", opts.Input)
	}
	if len(opts.Segments) == 0 {
		return timecode.ErrNoSegments
	}
	for i, seg := range opts.Segments {
		if !timecode.IsFinite(seg.Start) || !timecode.IsFinite(seg.End) || seg.Start < 0 || seg.End <= seg.Start {
			return fmt.Errorf("segment %d geçersiz: %s - %s", i+1,
				timecode.FormatDuration(seg.Start), timecode.FormatDuration(seg.End))
		}
	}
	if opts.Volume < 0 || opts.Volume > 200 {
		return fmt.Errorf("%w: %d", ErrInvalidVolume, opts.Volume)
	}
	if opts.Mode == "" {
		opts.Mode = DefaultMode
	}
	if _, err := ParseMode(string(opts.Mode)); err != nil {
		return err
	}
	if opts.Output == "" {
		opts.Output = DefaultOutputPath(opts.Input)
	}
	if samePath(opts.Input, opts.Output) {
		return fmt.Errorf("çıktı dosyası girdi ile aynı olamaz: %s", opts.Output)
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func (c *Cutter) warnings(ctx context.Context, opts Options) ([]string, float64) {
	var warnings []string
	if !opts.Mode.Reencode() && !opts.NoAudio && opts.Volume != 0 && opts.Volume != 100 {
		warnings = append(warnings, fmt.Sprintf(
			"fast modda ses seviyesi uygulanamaz, %%%d yok sayıldı (balanced veya accurate kullanın)", opts.Volume))
	}

	duration, ok := ProbeDuration(ctx, c.Runner, c.FFprobe, opts.Input)
	if !ok {
		return warnings, 0
	}
	for i, seg := range opts.Segments {
		if seg.End > duration+0.001 {
			warnings = append(warnings, fmt.Sprintf(
				"segment %d video süresini aşıyor (%s > %s)", i+1,
				timecode.FormatDuration(seg.End), timecode.FormatDuration(duration)))
		}
	}
	return warnings, duration
}

func (c *Cutter) fragmentExt(output string) string {
	ext := filepath.Ext(output)
	if ext == "" {
		return ".mp4"
	}
	return ext
}

func (c *Cutter) jobs(opts Options, dir string) []batch.Job {
	ext := c.fragmentExt(opts.Output)
	jobs := make([]batch.Job, len(opts.Segments))
	for i, seg := range opts.Segments {
		job := batch.Job{Index: i, Segment: seg}
		job.OutputPath = filepath.Join(dir, FragmentName(job.Number(), ext))
		jobs[i] = job
	}
	return jobs
}

// Plan hiçbir komut çalıştırmadan yapılacak işlemleri döner
func (c *Cutter) Plan(ctx context.Context, opts Options) (Plan, error) {
	if err := c.validate(&opts); err != nil {
		return Plan{}, err
	}
	warnings, _ := c.warnings(ctx, opts)

	dir := filepath.Join(tempParent(opts.TempDir), "videocutter-<tmp>")
	plan := Plan{
		Mode:          opts.Mode,
		Workers:       opts.Mode.Workers(opts.Workers, len(opts.Segments)),
		TotalDuration: timecode.TotalDuration(opts.Segments),
		Warnings:      warnings,
	}
	for _, job := range c.jobs(opts, dir) {
		plan.Commands = append(plan.Commands, Command{
			Name: c.FFmpeg,
			Args: SegmentArgs(opts.Mode, opts.Input, job.Segment, opts.Volume, opts.NoAudio, opts.Verbose, job.OutputPath),
		})
	}
	plan.Commands = append(plan.Commands, Command{
		Name: c.FFmpeg,
		Args: ConcatArgs(filepath.Join(dir, "concat_list.txt"), opts.Verbose, opts.Output),
	})
	return plan, nil
}

func tempParent(dir string) string {
	if dir == "" {
		return os.TempDir()
	}
	return dir
}

// Cut segmentleri keser ve tek bir çıktıda birleştirir.
// Geçici klasör her durumda silinir.
func (c *Cutter) Cut(ctx context.Context, opts Options) (Result, error) {
	started := time.Now()
	if err := c.validate(&opts); err != nil {
		return Result{}, err
	}
	log := logging.OrNop(c.Logger)

	warnings, inputDuration := c.warnings(ctx, opts)
	for _, w := range warnings {
		log.Warn(w)
	}

	if opts.TempDir != "" {
		if err := os.MkdirAll(opts.TempDir, 0755); err != nil {
			return Result{}, fmt.Errorf("geçici klasör oluşturulamadı: %w", err)
		}
	}
	tempDir, err := os.MkdirTemp(opts.TempDir, "videocutter-*")
	if err != nil {
		return Result{}, fmt.Errorf("geçici klasör oluşturulamadı: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tempDir); rmErr != nil {
			log.Warn("geçici klasör silinemedi", zap.String("dir", tempDir), zap.Error(rmErr))
		}
	}()

	if outDir := filepath.Dir(opts.Output); outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return Result{}, fmt.Errorf("çıktı dizini oluşturulamadı: %w", err)
		}
	}

	workers := opts.Mode.Workers(opts.Workers, len(opts.Segments))
	result := Result{
		Output:         opts.Output,
		Mode:           opts.Mode,
		Workers:        workers,
		SegmentCount:   len(opts.Segments),
		OutputDuration: timecode.TotalDuration(opts.Segments),
		InputDuration:  inputDuration,
		Warnings:       warnings,
	}
	log.Debug("kesme başlıyor",
		zap.String("input", opts.Input),
		zap.String("mode", string(opts.Mode)),
		zap.Int("segments", len(opts.Segments)),
		zap.Int("workers", workers),
		zap.String("temp", tempDir),
	)

	pool := batch.NewPool(workers)
	pool.SetRetry(opts.Retry, opts.RetryDelay)
	pool.OnProgress = func(completed, total int, r batch.JobResult) {
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{Stage: StageCut, Completed: completed, Total: total, Segment: r.Job.Number(), Err: r.Error})
		}
	}

	cutStart := time.Now()
	jobs := c.jobs(opts, tempDir)
	result.Segments = pool.Execute(ctx, jobs, func(ctx context.Context, job batch.Job) error {
		args := SegmentArgs(opts.Mode, opts.Input, job.Segment, opts.Volume, opts.NoAudio, opts.Verbose, job.OutputPath)
		_, err := c.Runner.Run(ctx, c.FFmpeg, args...)
		return err
	})
	result.CutTime = time.Since(cutStart)

	if failed, ok := batch.FirstFailure(result.Segments); ok {
		result.TotalTime = time.Since(started)
		return result, &SegmentError{Segment: failed.Job.Number(), Err: failed.Error}
	}
	if err := ctx.Err(); err != nil {
		result.TotalTime = time.Since(started)
		return result, err
	}

	fragments := make([]string, 0, len(jobs))
	for _, job := range jobs {
		fragments = append(fragments, job.OutputPath)
	}

	if opts.OnProgress != nil {
		opts.OnProgress(Progress{Stage: StageConcat, Completed: 0, Total: 1})
	}
	concatStart := time.Now()
	listPath, err := writeConcatList(fragments, tempDir)
	if err != nil {
		result.TotalTime = time.Since(started)
		return result, fmt.Errorf("concat listesi oluşturulamadı: %w", err)
	}
	if _, err := c.Runner.Run(ctx, c.FFmpeg, ConcatArgs(listPath, opts.Verbose, opts.Output)...); err != nil {
		result.TotalTime = time.Since(started)
		return result, fmt.Errorf("birleştirme başarısız: %w", err)
	}
	result.ConcatTime = time.Since(concatStart)
	result.TotalTime = time.Since(started)

	if opts.OnProgress != nil {
		opts.OnProgress(Progress{Stage: StageDone, Completed: 1, Total: 1})
	}
	log.Debug("kesme tamamlandı",
		zap.String("output", opts.Output),
		zap.Duration("cut", result.CutTime),
		zap.Duration("concat", result.ConcatTime),
		zap.Float64("speed", result.Speed()),
	)
	return result, nil
}

// ProbeDuration ffprobe ile medya süresini saniye olarak döner
func ProbeDuration(ctx context.Context, runner execx.Runner, ffprobe, input string) (float64, bool) {
	if ffprobe == "" || runner == nil {
		return 0, false
	}
	out, err := runner.Run(ctx, ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		input,
	)
	if err != nil {
		return 0, false
	}
	sec, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil || sec <= 0 {
		return 0, false
	}
	return sec, true
}
