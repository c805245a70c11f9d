package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videocutter-cli/internal/config"
	"github.com/mlihgenel/videocutter-cli/internal/ui"
	"github.com/mlihgenel/videocutter-cli/internal/upload"
)

var rcloneConfigCmd = &cobra.Command{
	Use:   "rclone-config",
	Short: "Kayıtlı rclone config'i yönet",
	Long: `Yükleme için kullanılan rclone config içeriğini kullanıcı dizinine kaydeder.
Dosya yalnızca kullanıcı tarafından okunabilir (0600) şekilde saklanır.

Örnekler:
  videocutter rclone-config set ~/.config/rclone/rclone.conf
  videocutter rclone-config show
  videocutter rclone-config clear`,
}

var rcloneConfigSetCmd = &cobra.Command{
	Use:   "set <dosya>",
	Short: "rclone config dosyasını kaydet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			ui.PrintError(fmt.Sprintf("Dosya okunamadı: %s", err.Error()))
			return err
		}
		content := string(data)
		if err := upload.ValidateConfig(content); err != nil {
			ui.PrintError(err.Error())
			return err
		}
		path, err := config.SaveRcloneConfig(content)
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		ui.PrintSuccess("rclone config kaydedildi: " + path)
		return nil
	},
}

var rcloneConfigShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Kayıtlı rclone config'in remote'larını göster",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := config.LoadRcloneConfig()
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		if content == "" {
			ui.PrintWarning("Kayıtlı rclone config yok")
			return nil
		}
		path, _ := config.RcloneConfigPath()
		ui.PrintInfo("Konum: " + path)
		for _, section := range configSections(content) {
			fmt.Printf("  %s %s\n", ui.IconFolder, section)
		}
		return nil
	},
}

var rcloneConfigClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Kayıtlı rclone config'i sil",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ClearRcloneConfig(); err != nil {
			ui.PrintError(err.Error())
			return err
		}
		ui.PrintSuccess("Kayıtlı rclone config silindi")
		return nil
	},
}

func init() {
	rcloneConfigCmd.AddCommand(rcloneConfigSetCmd)
	rcloneConfigCmd.AddCommand(rcloneConfigShowCmd)
	rcloneConfigCmd.AddCommand(rcloneConfigClearCmd)
	rootCmd.AddCommand(rcloneConfigCmd)
}

// configSections "[ad]" başlıklarını sırasıyla döner; gizli anahtarlar gösterilmez
func configSections(content string) []string {
	var sections []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			sections = append(sections, strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
		}
	}
	return sections
}
