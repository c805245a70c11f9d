package batch

import (
	"fmt"
	"strings"

	"github.com/mlihgenel/videocutter-cli/internal/timecode"
)

const (
	ReportOff  = "off"
	ReportTXT  = "txt"
	ReportJSON = "json"
)

// ReportItem raporlardaki tek segment satırı
type ReportItem struct {
	Segment    int    `json:"segment"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Output     string `json:"output"`
	Status     string `json:"status"`
	Attempts   int    `json:"attempts,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	OutputSize int64  `json:"output_size,omitempty"`
	Error      string `json:"error,omitempty"`
	SkipReason string `json:"skip_reason,omitempty"`
}

// NormalizeReportFormat rapor formatını normalize eder.
func NormalizeReportFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", ReportOff:
		return ReportOff
	case ReportTXT:
		return ReportTXT
	case ReportJSON:
		return ReportJSON
	default:
		return ""
	}
}

func status(r JobResult) string {
	switch {
	case r.Success:
		return "success"
	case r.Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

// ReportItems segment sonuçlarını rapor satırlarına çevirir
func ReportItems(results []JobResult) []ReportItem {
	items := make([]ReportItem, 0, len(results))
	for _, r := range results {
		item := ReportItem{
			Segment:    r.Job.Number(),
			Start:      timecode.FormatDuration(r.Job.Segment.Start),
			End:        timecode.FormatDuration(r.Job.Segment.End),
			Output:     r.Job.OutputPath,
			Status:     status(r),
			Attempts:   r.Attempts,
			DurationMS: r.Duration.Milliseconds(),
			OutputSize: r.OutputSize,
			SkipReason: r.SkipReason,
		}
		if r.Error != nil {
			item.Error = r.Error.Error()
		}
		items = append(items, item)
	}
	return items
}

// WriteTXTItems segment sonuçlarını düz metin olarak yazar
func WriteTXTItems(b *strings.Builder, results []JobResult) {
	for _, item := range ReportItems(results) {
		b.WriteString(fmt.Sprintf("- [%s] #%d %s -> %s", item.Status, item.Segment, item.Start, item.End))
		if item.Attempts > 0 {
			b.WriteString(fmt.Sprintf(" (attempts=%d)", item.Attempts))
		}
		if item.OutputSize > 0 {
			b.WriteString(fmt.Sprintf(" (size=%d)", item.OutputSize))
		}
		if item.SkipReason != "" {
			b.WriteString(fmt.Sprintf(" (reason=%s)", item.SkipReason))
		}
		if item.Error != "" {
			b.WriteString(fmt.Sprintf(" (error=%s)", firstLine(item.Error)))
		}
		b.WriteString("\n")
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
