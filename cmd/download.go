package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videocutter-cli/internal/download"
	"github.com/mlihgenel/videocutter-cli/internal/timecode"
	"github.com/mlihgenel/videocutter-cli/internal/tools"
	"github.com/mlihgenel/videocutter-cli/internal/ui"
)

var (
	downloadName string
	downloadDir  string
	downloadInfo bool
	downloadJSON bool
)

var downloadCmd = &cobra.Command{
	Use:   "download <url>",
	Short: "Videoyu yt-dlp ile indir",
	Long: `Verilen adresteki videoyu en iyi mp4 kalitesinde indirir.
İsim verilmezse video başlığı kullanılır. Uzantısız isimlere uzantı otomatik eklenir.

Örnekler:
  videocutter download https://youtu.be/xyz
  videocutter download https://youtu.be/xyz -n sunum -d ./videolar
  videocutter download https://youtu.be/xyz --info
  videocutter download https://youtu.be/xyz --info --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]
		applyDownloadDirDefault(cmd, "dir", &downloadDir)

		if !tools.IsAvailable(tools.YtDlp) {
			err := fmt.Errorf("%w: %s", tools.ErrToolNotFound, tools.YtDlp.Name)
			ui.PrintError(err.Error())
			ui.PrintInfo(tools.YtDlp.InstallHint)
			return err
		}

		d, err := download.New(tools.Resolve(tools.YtDlp), downloadDir, runner(), appLogger)
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}

		if downloadInfo {
			info, err := d.Info(cmd.Context(), url)
			if err != nil {
				ui.PrintError(err.Error())
				return err
			}
			if downloadJSON {
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}
			printVideoInfo(info)
			return nil
		}

		ui.PrintStep(ui.IconDownload, "İndiriliyor: "+url)
		bar := ui.NewProgressBar(100, "İndirme")
		path, err := d.Download(cmd.Context(), url, downloadName, func(p download.Progress) {
			bar.Describe(fmt.Sprintf("%s %s", p.Total, p.Speed))
			bar.Update(int(p.Percent))
		})
		bar.Finish()
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		ui.PrintSuccess("İndirildi: " + path)
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadName, "name", "n", "", "Dosya adı (varsayılan: video başlığı)")
	downloadCmd.Flags().StringVarP(&downloadDir, "dir", "d", download.DefaultDir, "İndirme dizini")
	downloadCmd.Flags().BoolVar(&downloadInfo, "info", false, "İndirmeden video bilgisini göster")
	downloadCmd.Flags().BoolVar(&downloadJSON, "json", false, "Bilgiyi JSON olarak yazdır (--info ile)")

	rootCmd.AddCommand(downloadCmd)
}

func printVideoInfo(info download.Info) {
	rows := [][]string{
		{"Başlık", info.Title},
		{"Süre", timecode.FormatHuman(info.Duration)},
		{"Yükleyen", info.Uploader},
		{"İzlenme", strconv.FormatInt(info.ViewCount, 10)},
		{"Format sayısı", strconv.Itoa(info.FormatCount)},
		{"En yüksek çözünürlük", fmt.Sprintf("%dp", info.MaxHeight)},
	}
	if info.WebpageURL != "" {
		rows = append(rows, []string{"Adres", info.WebpageURL})
	}
	ui.PrintTable([]string{"Alan", "Değer"}, rows)
}
