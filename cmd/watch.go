package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videocutter-cli/internal/cutter"
	"github.com/mlihgenel/videocutter-cli/internal/timecode"
	"github.com/mlihgenel/videocutter-cli/internal/ui"
	vcwatch "github.com/mlihgenel/videocutter-cli/internal/watch"
	"github.com/mlihgenel/videocutter-cli/internal/workflow"
)

var (
	watchSegments     string
	watchMode         string
	watchProfile      string
	watchRecursive    bool
	watchVolume       int
	watchNoAudio      bool
	watchUpload       bool
	watchRemote       string
	watchRemotePath   string
	watchRcloneConfig string
	watchRetry        int
	watchRetryDelay   time.Duration
	watchInterval     time.Duration
	watchSettle       time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <dizin>",
	Short: "Klasörü izleyip yeni videoları otomatik kes",
	Long: `Belirtilen klasörü izler, yeni veya değişen video dosyalarını aynı segment
listesiyle keser. Dosya sistemi olayları kullanılamazsa polling ile devam eder.
Kesim çıktıları (_cut) tekrar işlenmez.

Örnekler:
  videocutter watch ./gelen -s "0:00-0:30"
  videocutter watch ./kayitlar -s "0:10-0:20|1:00-1:10" --recursive --mode fast
  videocutter watch ./gelen -s "0:00-0:15" --profile social --upload --remote-path klipler`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceDir := args[0]

		applyModeDefault(cmd, "mode", &watchMode)
		applyVolumeDefault(cmd, "volume", &watchVolume)
		applyRemoteDefaults(cmd, "remote", &watchRemote, "remote-path", &watchRemotePath)
		applyRetryDefaults(cmd, "retry", &watchRetry, "retry-delay", &watchRetryDelay)

		if p, ok, err := resolveProfile(watchProfile); err != nil {
			ui.PrintError(err.Error())
			return err
		} else if ok {
			applyProfile(cmd, p, cutSettings{
				mode:       &watchMode,
				volume:     &watchVolume,
				retry:      &watchRetry,
				retryDelay: &watchRetryDelay,
			})
		}

		segments, err := timecode.ParseSegments(watchSegments)
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		mode, err := cutter.ParseMode(watchMode)
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		if watchInterval <= 0 {
			return fmt.Errorf("interval pozitif olmalı: %s", watchInterval)
		}

		// Hata durumunda dönen engine polling watcher'dır
		engine, err := vcwatch.NewAdaptiveWatcher(sourceDir, watchRecursive, watchSettle)
		if err != nil {
			ui.PrintWarning(fmt.Sprintf("Olay tabanlı izleme başlatılamadı, polling kullanılacak: %s", err.Error()))
		}
		defer engine.Close()
		if err := engine.Bootstrap(); err != nil {
			ui.PrintError(err.Error())
			return err
		}

		var events <-chan struct{}
		if ew, ok := engine.(*vcwatch.EventWatcher); ok {
			events = ew.Events()
		}

		template := workflow.Job{
			Segments:         segments,
			Mode:             mode,
			Workers:          workers,
			Volume:           watchVolume,
			NoAudio:          watchNoAudio,
			Retry:            watchRetry,
			RetryDelay:       watchRetryDelay,
			Upload:           watchUpload,
			Remote:           watchRemote,
			RemotePath:       watchRemotePath,
			RcloneConfigFile: watchRcloneConfig,
		}

		ui.PrintInfo(fmt.Sprintf("İzleme başladı: %s (%s, %d segment, %s)", sourceDir, engine.Mode(), len(segments), mode))
		ui.PrintInfo("Durdurmak için Ctrl+C kullanın.")

		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()

		process := func() {
			files, err := engine.Poll(time.Now())
			if err != nil {
				ui.PrintError(fmt.Sprintf("İzleme hatası: %s", err.Error()))
				return
			}
			for _, f := range files {
				if cmd.Context().Err() != nil {
					return
				}
				processWatchedFile(cmd, template, f)
			}
		}

		for {
			select {
			case <-ticker.C:
				process()
			case <-events:
				process()
			case <-cmd.Context().Done():
				ui.PrintInfo("İzleme durduruldu.")
				return nil
			}
		}
	},
}

// processWatchedFile hazır hale gelen tek bir videoyu şablon işle keser
func processWatchedFile(cmd *cobra.Command, template workflow.Job, input string) {
	job := template
	job.Input = input
	// Tek bir -o dosyası her videoda üzerine yazılacağından sadece dizin kabul edilir
	if outputPath != "" && isDirTarget(outputPath) {
		job.OutputDir = outputPath
	}

	ui.PrintStep(ui.IconVideo, fmt.Sprintf("Yeni video: %s", input))
	progress := newCLIProgress(verbose)
	executor := &workflow.Executor{
		Tools:   resolveTools(),
		Runner:  runner(),
		Logger:  appLogger,
		Verbose: verbose,
		OnEvent: progress.Handle,
	}
	result, err := executor.Execute(cmd.Context(), job)
	progress.Finish()
	if err != nil {
		ui.PrintError(fmt.Sprintf("%s: %s", filepath.Base(input), err.Error()))
		return
	}
	printWorkflowResult(result)
}

func init() {
	f := watchCmd.Flags()
	f.StringVarP(&watchSegments, "segments", "s", "", "Her videodan kesilecek aralıklar (zorunlu)")
	f.StringVar(&watchMode, "mode", string(cutter.DefaultMode), "Kesme modu: fast, balanced, accurate")
	f.StringVar(&watchProfile, "profile", "", "Hazır profil (quick, social, archive)")
	f.BoolVarP(&watchRecursive, "recursive", "r", false, "Alt dizinleri de izle")
	f.IntVar(&watchVolume, "volume", 100, "Orijinal ses seviyesi (0-200, yüzde)")
	f.BoolVar(&watchNoAudio, "no-audio", false, "Orijinal sesi çıkar")
	f.BoolVar(&watchUpload, "upload", false, "Her sonucu rclone ile yükle")
	f.StringVar(&watchRemote, "remote", "", "rclone remote adı")
	f.StringVar(&watchRemotePath, "remote-path", "", "Remote üzerindeki hedef klasör")
	f.StringVar(&watchRcloneConfig, "rclone-config", "", "rclone config dosyası")
	f.IntVar(&watchRetry, "retry", 0, "Başarısız segment için tekrar deneme sayısı")
	f.DurationVar(&watchRetryDelay, "retry-delay", 500*time.Millisecond, "Tekrar denemeler arası bekleme")
	f.DurationVar(&watchInterval, "interval", 2*time.Second, "Klasör tarama aralığı")
	f.DurationVar(&watchSettle, "settle", 1500*time.Millisecond, "Dosyanın stabil sayılması için bekleme süresi")

	watchCmd.MarkFlagRequired("segments")

	rootCmd.AddCommand(watchCmd)
}
