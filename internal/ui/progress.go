package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Color ANSI renk kodları
const (
	Reset   = "\033[0m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
)

// Icons kullanıcı dostu ikonlar
const (
	IconSuccess  = "✅"
	IconError    = "❌"
	IconWarning  = "⚠️ "
	IconInfo     = "ℹ️ "
	IconCut      = "✂️ "
	IconAudio    = "🎵"
	IconVideo    = "🎬"
	IconDownload = "⬇️ "
	IconUpload   = "📤"
	IconDone     = "🎉"
	IconTime     = "⏱️ "
	IconFolder   = "📁"
)

// PrintBanner uygulama başlığını yazdırır
func PrintBanner(version string) {
	title := fmt.Sprintf("VideoCutter CLI  %s", version)
	fmt.Println()
	fmt.Println(Cyan + Bold + "  ╔═══════════════════════════════════════════════╗")
	fmt.Printf("  ║  %-45s║\n", title)
	fmt.Printf("  ║  %-45s║\n", "Videodan bölüm kes, birleştir, yükle")
	fmt.Println("  ╚═══════════════════════════════════════════════╝" + Reset)
	fmt.Println()
}

// PrintSuccess başarılı mesaj
func PrintSuccess(msg string) {
	fmt.Printf("%s %s%s%s\n", IconSuccess, Green, msg, Reset)
}

// PrintError hata mesajı
func PrintError(msg string) {
	fmt.Printf("%s %s%s%s\n", IconError, Red, msg, Reset)
}

// PrintWarning uyarı mesajı
func PrintWarning(msg string) {
	fmt.Printf("%s %s%s%s\n", IconWarning, Yellow, msg, Reset)
}

// PrintInfo bilgi mesajı
func PrintInfo(msg string) {
	fmt.Printf("%s %s%s%s\n", IconInfo, Blue, msg, Reset)
}

// PrintStep workflow adımı başlığı
func PrintStep(icon, msg string) {
	fmt.Printf("%s %s%s%s\n", icon, Bold, msg, Reset)
}

// PrintTransfer girdi → çıktı satırı
func PrintTransfer(input, output string) {
	fmt.Printf("%s %s%s%s → %s%s%s\n", IconCut, Dim, input, Reset, Green, output, Reset)
}

// PrintDuration süre bilgisi
func PrintDuration(d time.Duration) {
	fmt.Printf("%s  Süre: %s%s%s\n", IconTime, Cyan, FormatElapsed(d), Reset)
}

// CutStats kesme özeti için gereken değerler
type CutStats struct {
	Output     string
	Segments   int
	Length     string
	CutTime    time.Duration
	ConcatTime time.Duration
	TotalTime  time.Duration
	Speed      float64
}

// PrintCutSummary kesme istatistiklerini yazdırır
func PrintCutSummary(s CutStats) {
	fmt.Println()
	fmt.Printf("  %s %sKesme Tamamlandı%s\n", IconDone, Bold, Reset)
	fmt.Println("  " + strings.Repeat("─", 40))
	fmt.Printf("  Çıktı:       %s%s%s\n", Green, s.Output, Reset)
	fmt.Printf("  Segment:     %s%d%s\n", Cyan, s.Segments, Reset)
	fmt.Printf("  Uzunluk:     %s%s%s\n", Cyan, s.Length, Reset)
	fmt.Printf("  Kesme:       %s%s%s\n", Yellow, FormatElapsed(s.CutTime), Reset)
	fmt.Printf("  Birleştirme: %s%s%s\n", Yellow, FormatElapsed(s.ConcatTime), Reset)
	fmt.Printf("  Toplam:      %s%s%s\n", Yellow, FormatElapsed(s.TotalTime), Reset)
	if s.Speed > 0 {
		fmt.Printf("  Hız:         %s%.1fx gerçek zamanlı%s\n", Magenta, s.Speed, Reset)
	}
	fmt.Println()
}

// PrintTable basit bir tablo yazdırır
func PrintTable(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); i < len(widths) && n > widths[i] {
				widths[i] = n
			}
		}
	}

	border := func(left, mid, right string) string {
		parts := make([]string, len(widths))
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return "  " + left + strings.Join(parts, mid) + right
	}
	line := func(cells []string, style string) string {
		var b strings.Builder
		b.WriteString("  │")
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := w - utf8.RuneCountInString(cell)
			b.WriteString(" " + style + cell + Reset + strings.Repeat(" ", pad) + " │")
		}
		return b.String()
	}

	fmt.Println(border("┌", "┬", "┐"))
	fmt.Println(line(headers, Bold))
	fmt.Println(border("├", "┼", "┤"))
	for _, row := range rows {
		fmt.Println(line(row, ""))
	}
	fmt.Println(border("└", "┴", "┘"))
}

// FormatElapsed süreyi okunabilir formata çevirir
func FormatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
