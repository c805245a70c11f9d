package workflow

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mlihgenel/videocutter-cli/internal/batch"
	"github.com/mlihgenel/videocutter-cli/internal/timecode"
)

type cutReport struct {
	Mode           string             `json:"mode"`
	Workers        int                `json:"workers"`
	SegmentCount   int                `json:"segment_count"`
	OutputDuration float64            `json:"output_duration_sec"`
	CutMS          int64              `json:"cut_ms"`
	ConcatMS       int64              `json:"concat_ms"`
	TotalMS        int64              `json:"total_ms"`
	Speed          float64            `json:"speed"`
	Warnings       []string           `json:"warnings,omitempty"`
	Segments       []batch.ReportItem `json:"segments"`
}

type reportPayload struct {
	Input       string       `json:"input"`
	FinalOutput string       `json:"final_output"`
	Destination string       `json:"destination,omitempty"`
	StartedAt   string       `json:"started_at"`
	EndedAt     string       `json:"ended_at"`
	Duration    string       `json:"duration"`
	Steps       []StepResult `json:"steps"`
	Cut         *cutReport   `json:"cut,omitempty"`
}

// RenderReport workflow sonucu için off/txt/json rapor üretir.
func RenderReport(format string, result Result) (string, error) {
	switch batch.NormalizeReportFormat(format) {
	case batch.ReportOff:
		return "", nil
	case batch.ReportTXT:
		return renderTXT(result), nil
	case batch.ReportJSON:
		return renderJSON(result)
	default:
		return "", fmt.Errorf("geçersiz rapor formatı: %s", format)
	}
}

func renderTXT(result Result) string {
	var b strings.Builder
	b.WriteString("Video Cut Report\n")
	b.WriteString(strings.Repeat("=", 40))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Input:      %s\n", result.Input))
	b.WriteString(fmt.Sprintf("Final:      %s\n", result.FinalOutput))
	if result.Destination != "" {
		b.WriteString(fmt.Sprintf("Uploaded:   %s\n", result.Destination))
	}
	b.WriteString(fmt.Sprintf("Started:    %s\n", result.StartedAt.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Duration:   %s\n", result.Duration))

	b.WriteString("\nSteps:\n")
	for _, s := range result.Steps {
		status := "ok"
		if !s.Success {
			status = "failed"
		}
		b.WriteString(fmt.Sprintf("- [%s] #%d %s: %s -> %s (%s)", status, s.Index, s.Type, s.Input, s.Output, s.Duration))
		if s.Error != "" {
			b.WriteString(fmt.Sprintf(" error=%s", firstLine(s.Error)))
		}
		b.WriteString("\n")
	}

	if c := result.Cut; c != nil {
		b.WriteString("\nCut:\n")
		b.WriteString(fmt.Sprintf("Mode:       %s (workers=%d)\n", c.Mode, c.Workers))
		b.WriteString(fmt.Sprintf("Segments:   %d\n", c.SegmentCount))
		b.WriteString(fmt.Sprintf("Length:     %s\n", timecode.FormatDuration(c.OutputDuration)))
		b.WriteString(fmt.Sprintf("Cut time:   %s\n", c.CutTime.Round(time.Millisecond)))
		b.WriteString(fmt.Sprintf("Concat:     %s\n", c.ConcatTime.Round(time.Millisecond)))
		b.WriteString(fmt.Sprintf("Speed:      %.1fx\n", c.Speed()))
		for _, w := range c.Warnings {
			b.WriteString(fmt.Sprintf("Warning:    %s\n", w))
		}
		batch.WriteTXTItems(&b, c.Segments)
	}
	return b.String()
}

func renderJSON(result Result) (string, error) {
	payload := reportPayload{
		Input:       result.Input,
		FinalOutput: result.FinalOutput,
		Destination: result.Destination,
		StartedAt:   result.StartedAt.Format(time.RFC3339),
		EndedAt:     result.EndedAt.Format(time.RFC3339),
		Duration:    result.Duration.String(),
		Steps:       result.Steps,
	}
	if c := result.Cut; c != nil {
		payload.Cut = &cutReport{
			Mode:           string(c.Mode),
			Workers:        c.Workers,
			SegmentCount:   c.SegmentCount,
			OutputDuration: c.OutputDuration,
			CutMS:          c.CutTime.Milliseconds(),
			ConcatMS:       c.ConcatTime.Milliseconds(),
			TotalMS:        c.TotalTime.Milliseconds(),
			Speed:          c.Speed(),
			Warnings:       c.Warnings,
			Segments:       batch.ReportItems(c.Segments),
		}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
