package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mlihgenel/videocutter-cli/internal/config"
	"github.com/mlihgenel/videocutter-cli/internal/execx"
	"github.com/mlihgenel/videocutter-cli/internal/logging"
	"github.com/mlihgenel/videocutter-cli/internal/tools"
	"github.com/mlihgenel/videocutter-cli/internal/workflow"
)

var (
	verbose    bool
	outputPath string
	workers    int

	appVersion = "dev"
	appCommit  = ""
	appDate    = ""

	// PersistentPreRunE içinde kurulur
	activeProjectConfig *config.ProjectConfig
	appLogger           = zap.NewNop()
	appRunner           execx.Runner
)

// SetVersionInfo build-time version bilgisini ayarlar
func SetVersionInfo(version, commit, date string) {
	if strings.TrimSpace(version) != "" {
		appVersion = version
	}
	appCommit = strings.TrimSpace(commit)
	appDate = strings.TrimSpace(date)
	if appDate == "" || appDate == "unknown" {
		appDate = time.Now().Format("2006-01-02 15:04:05")
	}
	rootCmd.Version = appVersion
	rootCmd.SetVersionTemplate(versionTemplate())
}

func versionTemplate() string {
	commit := appCommit
	if commit == "" {
		commit = "none"
	}
	return fmt.Sprintf(
		"VideoCutter CLI v%s\nCommit: %s\nTarih:  %s\nGo:     %s\nOS:     %s/%s\n",
		appVersion, commit, appDate, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	)
}

var rootCmd = &cobra.Command{
	Use:   "videocutter",
	Short: "VideoCutter CLI - videodan bölüm kes, birleştir, yükle",
	Long: `VideoCutter CLI: bir videodan istediğiniz aralıkları kesip tek dosyada birleştirin.

Video isteğe bağlı olarak yt-dlp ile indirilir, FFmpeg ile kesilir,
başka bir ses dosyasıyla karıştırılır ve rclone ile buluta yüklenir.

Kesme modları:
  fast       Yeniden kodlama yok (-c copy), keyframe hassasiyeti
  balanced   Yeniden kodlama, paralel segment işleme (varsayılan)
  accurate   Yeniden kodlama, sıralı ve kare hassasiyetinde

Örnekler:
  videocutter cut -i video.mp4 -s "03:05-03:10|40:05-40:10"
  videocutter cut -i video.mp4 -s "1:00-1:30" --mode fast -o klip.mp4
  videocutter cut --url https://youtu.be/xyz -s "0:10-0:20" --upload
  videocutter download https://youtu.be/xyz --info
  videocutter segments "03:05-03:10|40:05-40:10"
  videocutter run plan.json
  videocutter watch ./gelen -s "0:00-0:30"
  videocutter deps`,
	Version: appVersion,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupRuntime(verbose)
		loadProjectConfig()
		return applyRootDefaults(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Argümansız çalıştırıldığında interaktif mod başlat
		return RunInteractive(cmd.Context())
	},
}

// Execute CLI'ı çalıştırır
func Execute() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Uyarı: .env okunamadı: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() { _ = appLogger.Sync() }()

	return rootCmd.ExecuteContext(ctx)
}

func setupRuntime(verbose bool) {
	appLogger = logging.New(verbose)
	appRunner = execx.NewRunner(appLogger)
}

func loadProjectConfig() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}
	cfg, path, err := config.LoadProjectConfig(cwd)
	if err != nil {
		appLogger.Warn("proje ayarları okunamadı", zap.Error(err))
		return
	}
	if cfg != nil {
		appLogger.Debug("proje ayarları yüklendi", zap.String("path", path))
	}
	activeProjectConfig = cfg
}

func runner() execx.Runner {
	if appRunner == nil {
		appRunner = execx.NewRunner(appLogger)
	}
	return appRunner
}

// resolveTools harici programların yollarını bulur, bulunamayanlar çıplak adla kalır
func resolveTools() workflow.Tools {
	return workflow.Tools{
		FFmpeg:  tools.Resolve(tools.FFmpeg),
		FFprobe: tools.Resolve(tools.FFprobe),
		YtDlp:   tools.Resolve(tools.YtDlp),
		Rclone:  tools.Resolve(tools.Rclone),
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Detaylı çıktı modu (FFmpeg çıktısı ve debug log)")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Çıktı dosyası veya dizini (varsayılan: <ad>_cut<uzantı>)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Paralel worker sayısı (balanced modu; 0: segment sayısı, en fazla 4)")

	SetVersionInfo(appVersion, appCommit, appDate)

	// Hata mesajlarını özelleştir
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintf(os.Stderr, "Hata: %s\n\n", err.Error())
		cmd.Usage()
		return err
	})
}
