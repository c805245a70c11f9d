package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videocutter-cli/internal/timecode"
	"github.com/mlihgenel/videocutter-cli/internal/ui"
)

var segmentsJSON bool

type segmentRow struct {
	Index    int     `json:"index"`
	Start    string  `json:"start"`
	End      string  `json:"end"`
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	Duration float64 `json:"duration_sec"`
}

var segmentsCmd = &cobra.Command{
	Use:   "segments <aralıklar>",
	Short: "Segment listesini doğrula ve tablo olarak göster",
	Long: `Segment ifadesini ayrıştırır, hataları gösterir ve her aralığın süresini listeler.

Örnekler:
  videocutter segments "03:05-03:10|40:05-40:10"
  videocutter segments "1:00:00-1:00:30.5" --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		segments, err := timecode.ParseSegments(args[0])
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}

		rows := segmentRows(segments)
		if segmentsJSON {
			data, err := json.MarshalIndent(rows, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		table := make([][]string, 0, len(rows))
		for _, r := range rows {
			table = append(table, []string{
				fmt.Sprintf("%d", r.Index),
				r.Start,
				r.End,
				timecode.FormatHuman(r.Duration),
			})
		}
		ui.PrintTable([]string{"#", "Başlangıç", "Bitiş", "Süre"}, table)
		ui.PrintInfo(fmt.Sprintf("Toplam: %d segment, %s", len(rows), timecode.FormatHuman(timecode.TotalDuration(segments))))
		return nil
	},
}

func init() {
	segmentsCmd.Flags().BoolVar(&segmentsJSON, "json", false, "JSON çıktı")
	rootCmd.AddCommand(segmentsCmd)
}

func segmentRows(segments []timecode.Segment) []segmentRow {
	rows := make([]segmentRow, 0, len(segments))
	for i, s := range segments {
		rows = append(rows, segmentRow{
			Index:    i + 1,
			Start:    timecode.FormatDuration(s.Start),
			End:      timecode.FormatDuration(s.End),
			StartSec: s.Start,
			EndSec:   s.End,
			Duration: s.Duration(),
		})
	}
	return rows
}
