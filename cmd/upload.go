package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videocutter-cli/internal/config"
	"github.com/mlihgenel/videocutter-cli/internal/tools"
	"github.com/mlihgenel/videocutter-cli/internal/ui"
	"github.com/mlihgenel/videocutter-cli/internal/upload"
)

var (
	uploadRemote       string
	uploadRemotePath   string
	uploadRcloneConfig string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <dosya>",
	Short: "Dosyayı rclone ile buluta yükle",
	Long: `Bir dosyayı rclone remote'una kopyalar.
Config --rclone-config ile verilmezse 'rclone-config set' ile kaydedilen kullanılır.

Örnekler:
  videocutter upload klip.mp4
  videocutter upload klip.mp4 --remote gdrive --remote-path videolar/2024
  videocutter upload klip.mp4 --rclone-config ./rclone.conf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyRemoteDefaults(cmd, "remote", &uploadRemote, "remote-path", &uploadRemotePath)

		u, err := openUploader(uploadRcloneConfig)
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		defer u.Close()

		remote, err := pickRemote(cmd.Context(), u, uploadRemote)
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}

		dest := upload.Destination(remote, uploadRemotePath)
		ui.PrintStep(ui.IconUpload, fmt.Sprintf("Yükleniyor: %s → %s", args[0], dest))
		err = u.Upload(cmd.Context(), args[0], remote, uploadRemotePath, func(line string) {
			if verbose {
				fmt.Println("  " + ui.Dim + line + ui.Reset)
			}
		})
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		ui.PrintSuccess("Yüklendi: " + dest)
		return nil
	},
}

var remotesCmd = &cobra.Command{
	Use:   "remotes",
	Short: "rclone config içindeki remote'ları listele",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := openUploader(uploadRcloneConfig)
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		defer u.Close()

		remotes, err := u.ListRemotes(cmd.Context())
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		if len(remotes) == 0 {
			ui.PrintWarning(upload.ErrNoRemotes.Error())
			return nil
		}

		rows := make([][]string, 0, len(remotes))
		for i, r := range remotes {
			rows = append(rows, []string{fmt.Sprintf("%d", i+1), r + ":"})
		}
		ui.PrintTable([]string{"#", "Remote"}, rows)
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadRemote, "remote", "", "rclone remote adı (varsayılan: ilk remote)")
	uploadCmd.Flags().StringVar(&uploadRemotePath, "remote-path", "", "Remote üzerindeki hedef klasör")
	uploadCmd.Flags().StringVar(&uploadRcloneConfig, "rclone-config", "", "rclone config dosyası (varsayılan: kayıtlı config)")
	remotesCmd.Flags().StringVar(&uploadRcloneConfig, "rclone-config", "", "rclone config dosyası (varsayılan: kayıtlı config)")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(remotesCmd)
}

func openUploader(configFile string) (*upload.Uploader, error) {
	content, err := config.ResolveRcloneConfig(configFile)
	if err != nil {
		return nil, err
	}
	return upload.NewUploader(tools.Resolve(tools.Rclone), content, runner(), appLogger)
}

func pickRemote(ctx context.Context, u *upload.Uploader, requested string) (string, error) {
	remotes, err := u.ListRemotes(ctx)
	if err != nil {
		return "", err
	}
	return upload.SelectRemote(remotes, strings.TrimSpace(requested))
}
