package cmd

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videocutter-cli/internal/config"
)

const (
	envOutput      = "VIDEOCUTTER_OUTPUT"
	envWorkers     = "VIDEOCUTTER_WORKERS"
	envMode        = "VIDEOCUTTER_MODE"
	envTempDir     = "VIDEOCUTTER_TEMP_DIR"
	envDownloadDir = "VIDEOCUTTER_DOWNLOAD_DIR"
	envRemote      = "VIDEOCUTTER_REMOTE"
	envRemotePath  = "VIDEOCUTTER_REMOTE_PATH"
	envRetry       = "VIDEOCUTTER_RETRY"
	envRetryDelay  = "VIDEOCUTTER_RETRY_DELAY"
	envReport      = "VIDEOCUTTER_REPORT"
)

// applyRootDefaults öncelik sırası: flag > ortam değişkeni > proje ayarı > kullanıcı ayarı
func applyRootDefaults(cmd *cobra.Command) error {
	if !cmd.Flags().Changed("output") {
		if v := strings.TrimSpace(os.Getenv(envOutput)); v != "" {
			outputPath = v
		} else if activeProjectConfig != nil && strings.TrimSpace(activeProjectConfig.DefaultOutput) != "" {
			outputPath = strings.TrimSpace(activeProjectConfig.DefaultOutput)
		} else if cfg := userConfig(); cfg != nil && strings.TrimSpace(cfg.DefaultOutputDir) != "" {
			outputPath = strings.TrimSpace(cfg.DefaultOutputDir)
		}
	}

	if !cmd.Flags().Changed("workers") {
		if v, ok := readEnvInt(envWorkers); ok && v > 0 {
			workers = v
		} else if activeProjectConfig != nil && activeProjectConfig.Workers > 0 {
			workers = activeProjectConfig.Workers
		}
	}

	return nil
}

func userConfig() *config.AppConfig {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil
	}
	return cfg
}

func applyModeDefault(cmd *cobra.Command, flagName string, value *string) {
	if cmd.Flags().Changed(flagName) {
		return
	}
	if v := strings.TrimSpace(os.Getenv(envMode)); v != "" {
		*value = strings.ToLower(v)
		return
	}
	if activeProjectConfig != nil && strings.TrimSpace(activeProjectConfig.Mode) != "" {
		*value = strings.ToLower(strings.TrimSpace(activeProjectConfig.Mode))
	}
}

func applyVolumeDefault(cmd *cobra.Command, flagName string, value *int) {
	if cmd.Flags().Changed(flagName) {
		return
	}
	if activeProjectConfig != nil && activeProjectConfig.HasVolume {
		*value = activeProjectConfig.Volume
	}
}

func applyTempDirDefault(cmd *cobra.Command, flagName string, value *string) {
	if cmd.Flags().Changed(flagName) {
		return
	}
	if v := strings.TrimSpace(os.Getenv(envTempDir)); v != "" {
		*value = v
		return
	}
	if activeProjectConfig != nil && strings.TrimSpace(activeProjectConfig.TempDir) != "" {
		*value = strings.TrimSpace(activeProjectConfig.TempDir)
	}
}

func applyDownloadDirDefault(cmd *cobra.Command, flagName string, value *string) {
	if cmd.Flags().Changed(flagName) {
		return
	}
	if v := strings.TrimSpace(os.Getenv(envDownloadDir)); v != "" {
		*value = v
		return
	}
	if activeProjectConfig != nil && strings.TrimSpace(activeProjectConfig.DownloadDir) != "" {
		*value = strings.TrimSpace(activeProjectConfig.DownloadDir)
		return
	}
	if cfg := userConfig(); cfg != nil && strings.TrimSpace(cfg.DownloadDir) != "" {
		*value = strings.TrimSpace(cfg.DownloadDir)
	}
}

func applyRemoteDefaults(cmd *cobra.Command, remoteFlag string, remote *string, pathFlag string, remotePath *string) {
	var cfg *config.AppConfig
	if !cmd.Flags().Changed(remoteFlag) {
		if v := strings.TrimSpace(os.Getenv(envRemote)); v != "" {
			*remote = v
		} else if activeProjectConfig != nil && strings.TrimSpace(activeProjectConfig.Remote) != "" {
			*remote = strings.TrimSpace(activeProjectConfig.Remote)
		} else if cfg = userConfig(); cfg != nil && strings.TrimSpace(cfg.Remote) != "" {
			*remote = strings.TrimSpace(cfg.Remote)
		}
	}

	if !cmd.Flags().Changed(pathFlag) {
		if v := strings.TrimSpace(os.Getenv(envRemotePath)); v != "" {
			*remotePath = v
		} else if activeProjectConfig != nil && strings.TrimSpace(activeProjectConfig.RemotePath) != "" {
			*remotePath = strings.TrimSpace(activeProjectConfig.RemotePath)
		} else {
			if cfg == nil {
				cfg = userConfig()
			}
			if cfg != nil && strings.TrimSpace(cfg.RemotePath) != "" {
				*remotePath = strings.TrimSpace(cfg.RemotePath)
			}
		}
	}
}

func applyRetryDefaults(cmd *cobra.Command, retryFlag string, retryValue *int, delayFlag string, delayValue *time.Duration) {
	if !cmd.Flags().Changed(retryFlag) {
		if v, ok := readEnvInt(envRetry); ok && v >= 0 {
			*retryValue = v
		} else if activeProjectConfig != nil && activeProjectConfig.Retry > 0 {
			*retryValue = activeProjectConfig.Retry
		}
	}

	if !cmd.Flags().Changed(delayFlag) {
		if v, ok := readEnvDuration(envRetryDelay); ok {
			*delayValue = v
		} else if activeProjectConfig != nil && activeProjectConfig.RetryDelay > 0 {
			*delayValue = activeProjectConfig.RetryDelay
		}
	}
}

func applyReportDefault(cmd *cobra.Command, flagName string, value *string) {
	if cmd.Flags().Changed(flagName) {
		return
	}
	if v := strings.TrimSpace(os.Getenv(envReport)); v != "" {
		*value = strings.ToLower(v)
		return
	}
	if activeProjectConfig != nil && strings.TrimSpace(activeProjectConfig.ReportFormat) != "" {
		*value = strings.ToLower(strings.TrimSpace(activeProjectConfig.ReportFormat))
	}
}

func readEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func readEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
