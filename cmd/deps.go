package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videocutter-cli/internal/installer"
	"github.com/mlihgenel/videocutter-cli/internal/tools"
	"github.com/mlihgenel/videocutter-cli/internal/ui"
)

var (
	depsInstall string
	depsJSON    bool
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Harici programların (ffmpeg, ffprobe, yt-dlp, rclone) durumunu göster",
	Long: `Gerekli harici programların yüklü olup olmadığını ve sürümlerini kontrol eder.
Eksik bir program paket yöneticisi ile kurulabilir.

Yollar FFMPEG_PATH, FFPROBE_PATH, YTDLP_PATH ve RCLONE_PATH ile veya
çalışma dizinindeki .env dosyasıyla değiştirilebilir.

Örnekler:
  videocutter deps
  videocutter deps --install ffmpeg
  videocutter deps --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if depsInstall != "" {
			return installDependency(depsInstall)
		}

		statuses := tools.CheckDependencies(cmd.Context(), runner())
		if depsJSON {
			data, err := json.MarshalIndent(statuses, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		rows := make([][]string, 0, len(statuses))
		var missing []string
		for _, st := range statuses {
			state := "✅ yüklü"
			if !st.Available {
				state = "❌ eksik"
				missing = append(missing, st.Binary)
			}
			rows = append(rows, []string{st.Name, state, st.Version, st.Path})
		}
		ui.PrintTable([]string{"Program", "Durum", "Sürüm", "Yol"}, rows)

		for _, name := range missing {
			info := installer.GetInstallInfo(name)
			if info.Supported {
				ui.PrintInfo(fmt.Sprintf("%s kurmak için: videocutter deps --install %s  (%s)", info.ToolName, name, info.Description))
			} else if t, ok := tools.ByName(name); ok {
				ui.PrintWarning(fmt.Sprintf("%s manuel kurulmalı:\n%s", t.Name, t.InstallHint))
			}
		}
		return nil
	},
}

func init() {
	depsCmd.Flags().StringVar(&depsInstall, "install", "", "Eksik programı paket yöneticisi ile kur (ffmpeg, yt-dlp, rclone)")
	depsCmd.Flags().BoolVar(&depsJSON, "json", false, "JSON çıktı")
	rootCmd.AddCommand(depsCmd)
}

func installDependency(name string) error {
	t, ok := tools.ByName(name)
	if !ok {
		err := fmt.Errorf("bilinmeyen program: %s", name)
		ui.PrintError(err.Error())
		return err
	}
	if tools.IsAvailable(t) {
		ui.PrintSuccess(fmt.Sprintf("%s zaten yüklü", t.Name))
		return nil
	}

	ui.PrintStep(ui.IconInfo, fmt.Sprintf("%s kuruluyor...", t.Name))
	desc, err := installer.InstallTool(t.Binary)
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("%s kuruldu (%s)", t.Name, desc))
	return nil
}
