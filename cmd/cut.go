package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videocutter-cli/internal/batch"
	"github.com/mlihgenel/videocutter-cli/internal/cutter"
	"github.com/mlihgenel/videocutter-cli/internal/timecode"
	"github.com/mlihgenel/videocutter-cli/internal/ui"
	"github.com/mlihgenel/videocutter-cli/internal/workflow"
)

var (
	cutInput        string
	cutSegments     string
	cutMode         string
	cutNoAudio      bool
	cutVolume       int
	cutAudio        string
	cutAudioVolume  int
	cutTempDir      string
	cutDryRun       bool
	cutURL          string
	cutDownloadDir  string
	cutDownloadName string
	cutUpload       bool
	cutRemote       string
	cutRemotePath   string
	cutRcloneConfig string
	cutRetry        int
	cutRetryDelay   time.Duration
	cutReport       string
	cutReportFile   string
	cutProfile      string
)

var cutCmd = &cobra.Command{
	Use:   "cut",
	Short: "Videodan segmentleri kes ve birleştir",
	Long: `Verilen zaman aralıklarını videodan keser ve sırasıyla tek dosyada birleştirir.
Segmentler "|" ile ayrılır, her segment "başlangıç-bitiş" biçimindedir.
Zamanlar SS, DD:SS veya SS:DD:SS olabilir ve ondalık saniye içerebilir.

Örnekler:
  videocutter cut -i video.mp4 -s "03:05-03:10|40:05-40:10"
  videocutter cut -i video.mp4 -s "0:00-0:30" --mode fast -o klip.mp4
  videocutter cut -i video.mp4 -s "1:00-2:00|5:00-6:00" --mode accurate --volume 150
  videocutter cut -i video.mp4 -s "0:10-0:20" --no-audio --audio muzik.mp3 --audio-volume 80
  videocutter cut -i video.mp4 -s "0:10-0:20" --dry-run
  videocutter cut --url https://youtu.be/xyz -s "0:10-0:20" --upload --remote-path klipler
  videocutter cut -i video.mp4 -s "0:10-0:20" --report json --report-file rapor.json
  videocutter cut -i video.mp4 -s "0:10-0:20" --profile archive`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyCutDefaults(cmd)
		if p, ok, err := resolveProfile(cutProfile); err != nil {
			ui.PrintError(err.Error())
			return err
		} else if ok {
			applyProfile(cmd, p, cutSettings{
				mode:       &cutMode,
				volume:     &cutVolume,
				retry:      &cutRetry,
				retryDelay: &cutRetryDelay,
				report:     &cutReport,
			})
		}

		job, err := buildCutJob()
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		if batch.NormalizeReportFormat(cutReport) == "" {
			err := fmt.Errorf("geçersiz rapor formatı: %s", cutReport)
			ui.PrintError(err.Error())
			return err
		}

		if cutDryRun {
			return runCutDryRun(cmd, job)
		}

		progress := newCLIProgress(verbose)
		executor := &workflow.Executor{
			Tools:   resolveTools(),
			Runner:  runner(),
			Logger:  appLogger,
			Verbose: verbose,
			OnEvent: progress.Handle,
		}

		ui.PrintStep(ui.IconVideo, fmt.Sprintf("%d segment, %s modu", len(job.Segments), job.Mode))
		result, execErr := executor.Execute(cmd.Context(), job)
		progress.Finish()

		if execErr != nil {
			ui.PrintError(execErr.Error())
		} else {
			printWorkflowResult(result)
		}

		if err := emitReport(cutReport, cutReportFile, result); err != nil && execErr == nil {
			return err
		}
		return execErr
	},
}

func init() {
	f := cutCmd.Flags()
	f.StringVarP(&cutInput, "input", "i", "", "Kaynak video dosyası")
	f.StringVarP(&cutSegments, "segments", "s", "", `Kesilecek aralıklar (ör: "03:05-03:10|40:05-40:10")`)
	f.StringVar(&cutMode, "mode", string(cutter.DefaultMode), "Kesme modu: fast, balanced, accurate")
	f.BoolVar(&cutNoAudio, "no-audio", false, "Orijinal sesi çıkar")
	f.IntVar(&cutVolume, "volume", 100, "Orijinal ses seviyesi (0-200, yüzde)")
	f.StringVar(&cutAudio, "audio", "", "Kesilmiş videoya eklenecek ses dosyası")
	f.IntVar(&cutAudioVolume, "audio-volume", 100, "Eklenen ses seviyesi (0-200, yüzde)")
	f.StringVar(&cutTempDir, "temp-dir", "", "Geçici segment dosyaları için üst dizin")
	f.BoolVar(&cutDryRun, "dry-run", false, "Komutları çalıştırmadan göster")
	f.StringVar(&cutURL, "url", "", "Önce bu adresten videoyu indir (yt-dlp)")
	f.StringVar(&cutDownloadDir, "download-dir", "", "İndirme dizini (varsayılan: downloads)")
	f.StringVarP(&cutDownloadName, "name", "n", "", "İndirilen dosyanın adı")
	f.BoolVar(&cutUpload, "upload", false, "Sonucu rclone ile yükle")
	f.StringVar(&cutRemote, "remote", "", "rclone remote adı (varsayılan: ilk remote)")
	f.StringVar(&cutRemotePath, "remote-path", "", "Remote üzerindeki hedef klasör")
	f.StringVar(&cutRcloneConfig, "rclone-config", "", "rclone config dosyası (varsayılan: kayıtlı config)")
	f.IntVar(&cutRetry, "retry", 0, "Başarısız segment için tekrar deneme sayısı")
	f.DurationVar(&cutRetryDelay, "retry-delay", 500*time.Millisecond, "Tekrar denemeler arası bekleme")
	f.StringVar(&cutReport, "report", batch.ReportOff, "Rapor formatı: off, txt, json")
	f.StringVar(&cutReportFile, "report-file", "", "Raporu belirtilen dosyaya yaz")
	f.StringVar(&cutProfile, "profile", "", "Hazır profil (quick, social, archive)")

	rootCmd.AddCommand(cutCmd)
}

func applyCutDefaults(cmd *cobra.Command) {
	applyModeDefault(cmd, "mode", &cutMode)
	applyVolumeDefault(cmd, "volume", &cutVolume)
	applyTempDirDefault(cmd, "temp-dir", &cutTempDir)
	applyDownloadDirDefault(cmd, "download-dir", &cutDownloadDir)
	applyRemoteDefaults(cmd, "remote", &cutRemote, "remote-path", &cutRemotePath)
	applyRetryDefaults(cmd, "retry", &cutRetry, "retry-delay", &cutRetryDelay)
	applyReportDefault(cmd, "report", &cutReport)
}

// buildCutJob flag değerlerinden workflow işi üretir
func buildCutJob() (workflow.Job, error) {
	input := strings.TrimSpace(cutInput)
	url := strings.TrimSpace(cutURL)
	switch {
	case input == "" && url == "":
		return workflow.Job{}, fmt.Errorf("--input veya --url belirtilmeli")
	case input != "" && url != "":
		return workflow.Job{}, fmt.Errorf("--input ve --url birlikte kullanılamaz")
	}

	segments, err := timecode.ParseSegments(cutSegments)
	if err != nil {
		return workflow.Job{}, err
	}
	mode, err := cutter.ParseMode(cutMode)
	if err != nil {
		return workflow.Job{}, err
	}
	if cutRetry < 0 {
		return workflow.Job{}, fmt.Errorf("retry negatif olamaz: %d", cutRetry)
	}

	job := workflow.Job{
		URL:              url,
		DownloadDir:      cutDownloadDir,
		DownloadName:     cutDownloadName,
		Input:            input,
		Segments:         segments,
		Mode:             mode,
		Workers:          workers,
		Volume:           cutVolume,
		NoAudio:          cutNoAudio,
		TempDir:          cutTempDir,
		Retry:            cutRetry,
		RetryDelay:       cutRetryDelay,
		AudioFile:        strings.TrimSpace(cutAudio),
		AudioVolume:      cutAudioVolume,
		Upload:           cutUpload,
		Remote:           cutRemote,
		RemotePath:       cutRemotePath,
		RcloneConfigFile: cutRcloneConfig,
	}
	setJobOutput(&job, outputPath)
	return job, nil
}

// setJobOutput değer bir dizinse varsayılan adı o dizine yazar
func setJobOutput(job *workflow.Job, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if isDirTarget(value) {
		job.OutputDir = value
		return
	}
	job.Output = value
}

func isDirTarget(path string) bool {
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(os.PathSeparator)) {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func runCutDryRun(cmd *cobra.Command, job workflow.Job) error {
	if job.URL != "" {
		err := fmt.Errorf("--dry-run için yerel bir --input gerekli")
		ui.PrintError(err.Error())
		return err
	}

	output := job.Output
	if output == "" && job.OutputDir != "" {
		output = filepath.Join(job.OutputDir, filepath.Base(cutter.DefaultOutputPath(job.Input)))
	}

	t := resolveTools()
	c := cutter.New(t.FFmpeg, t.FFprobe, runner(), appLogger)
	plan, err := c.Plan(cmd.Context(), cutter.Options{
		Input:    job.Input,
		Segments: job.Segments,
		Output:   output,
		Mode:     job.Mode,
		Workers:  job.Workers,
		Volume:   job.Volume,
		NoAudio:  job.NoAudio,
		TempDir:  job.TempDir,
		Verbose:  verbose,
	})
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}

	ui.PrintInfo(fmt.Sprintf("Dry-run: %s modu, %d worker, toplam %s",
		plan.Mode.Label(), plan.Workers, timecode.FormatHuman(plan.TotalDuration)))
	for _, w := range plan.Warnings {
		ui.PrintWarning(w)
	}
	for i, command := range plan.Commands {
		fmt.Printf("  %2d. %s\n", i+1, command.String())
	}
	if job.AudioFile != "" {
		ui.PrintInfo(fmt.Sprintf("Ardından ses eklenecek: %s (%%%d)", job.AudioFile, job.AudioVolume))
	}
	if job.Upload {
		ui.PrintInfo("Ardından rclone ile yüklenecek")
	}
	return nil
}

// printWorkflowResult workflow sonucunu özetler
func printWorkflowResult(result workflow.Result) {
	if c := result.Cut; c != nil {
		for _, w := range c.Warnings {
			ui.PrintWarning(w)
		}
		ui.PrintCutSummary(ui.CutStats{
			Output:     result.FinalOutput,
			Segments:   c.SegmentCount,
			Length:     timecode.FormatHuman(c.OutputDuration),
			CutTime:    c.CutTime,
			ConcatTime: c.ConcatTime,
			TotalTime:  c.TotalTime,
			Speed:      c.Speed(),
		})
	}
	if result.Destination != "" {
		ui.PrintSuccess(fmt.Sprintf("Yüklendi: %s", result.Destination))
	}
	ui.PrintDuration(result.Duration)
}
