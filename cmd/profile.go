package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videocutter-cli/internal/profile"
	"github.com/mlihgenel/videocutter-cli/internal/ui"
)

func resolveProfile(name string) (profile.Definition, bool, error) {
	if strings.TrimSpace(name) == "" {
		return profile.Definition{}, false, nil
	}
	p, err := profile.Resolve(name)
	if err != nil {
		return profile.Definition{}, false, err
	}
	return p, true, nil
}

// cutSettings profil uygulanabilen flag değerleri
type cutSettings struct {
	mode       *string
	volume     *int
	retry      *int
	retryDelay *time.Duration
	report     *string
}

// applyProfile sadece kullanıcının açıkça vermediği flag'leri profille doldurur
func applyProfile(cmd *cobra.Command, p profile.Definition, s cutSettings) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if p.Mode != "" && s.mode != nil && !changed("mode") {
		*s.mode = string(p.Mode)
	}
	if p.Workers != nil && !changed("workers") {
		workers = *p.Workers
	}
	if p.Volume != nil && s.volume != nil && !changed("volume") {
		*s.volume = *p.Volume
	}
	if p.Retry != nil && s.retry != nil && !changed("retry") {
		*s.retry = *p.Retry
	}
	if p.RetryDelay != nil && s.retryDelay != nil && !changed("retry-delay") {
		*s.retryDelay = *p.RetryDelay
	}
	if p.Report != "" && s.report != nil && !changed("report") {
		*s.report = p.Report
	}
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Hazır kesme profillerini listele",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := make([][]string, 0, len(profile.Names()))
		for _, name := range profile.Names() {
			p, err := profile.Resolve(name)
			if err != nil {
				return err
			}
			retry := "-"
			if p.Retry != nil {
				retry = fmt.Sprintf("%d", *p.Retry)
			}
			rows = append(rows, []string{p.Name, string(p.Mode), retry, p.Report, p.Description})
		}
		ui.PrintTable([]string{"Profil", "Mod", "Retry", "Rapor", "Açıklama"}, rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}
