package ui

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar terminal ilerleme çubuğu
type ProgressBar struct {
	bar *progressbar.ProgressBar
	max int
}

// NewProgressBar stderr'e yazan bir ilerleme çubuğu oluşturur
func NewProgressBar(max int, label string) *ProgressBar {
	return newProgressBar(os.Stderr, max, label)
}

func newProgressBar(w io.Writer, max int, label string) *ProgressBar {
	if max <= 0 {
		max = 1
	}
	bar := progressbar.NewOptions(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "▐",
			BarEnd:        "▌",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(w, "\n") }),
	)
	return &ProgressBar{bar: bar, max: max}
}

// Update ilerlemeyi günceller
func (pb *ProgressBar) Update(current int) {
	if current > pb.max {
		current = pb.max
	}
	_ = pb.bar.Set(current)
}

// Describe çubuğun solundaki açıklamayı değiştirir
func (pb *ProgressBar) Describe(label string) {
	pb.bar.Describe(label)
}

// Finish çubuğu tamamlanmış olarak işaretler
func (pb *ProgressBar) Finish() {
	_ = pb.bar.Finish()
}
