package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mlihgenel/videocutter-cli/internal/audio"
	"github.com/mlihgenel/videocutter-cli/internal/batch"
	"github.com/mlihgenel/videocutter-cli/internal/cutter"
	"github.com/mlihgenel/videocutter-cli/internal/timecode"
	"github.com/mlihgenel/videocutter-cli/internal/ui"
)

// ========================================
// Renk Paleti ve Stiller
// ========================================

var (
	// Ana renk paleti
	primaryColor   = lipgloss.Color("#7C3AED") // Mor
	secondaryColor = lipgloss.Color("#06B6D4") // Cyan
	accentColor    = lipgloss.Color("#10B981") // Yeşil
	warningColor   = lipgloss.Color("#F59E0B") // Sarı
	dangerColor    = lipgloss.Color("#EF4444") // Kırmızı
	textColor      = lipgloss.Color("#E2E8F0") // Açık gri
	dimTextColor   = lipgloss.Color("#64748B") // Koyu gri

	// Gradient renkleri (banner için)
	gradientColors = []lipgloss.Color{
		"#818CF8", "#A78BFA", "#C084FC", "#E879F9", "#F472B6",
	}

	menuTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primaryColor).
			Padding(0, 2).
			MarginBottom(1)

	selectedItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(secondaryColor).
				PaddingLeft(2)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(textColor).
			PaddingLeft(4)

	descStyle = lipgloss.NewStyle().
			Foreground(dimTextColor).
			Italic(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimTextColor)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(dangerColor)

	infoStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	pathStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	resultBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 3).
			MarginTop(1)

	breadcrumbStyle = lipgloss.NewStyle().
			Foreground(dimTextColor).
			PaddingLeft(2)
)

// stepNames breadcrumb'da gösterilen adım adları
var stepNames = map[wizardState]string{
	stateURL:          "Kaynak",
	stateDownloadDir:  "İndirme dizini",
	stateInput:        "Video",
	stateSegments:     "Segmentler",
	stateOutput:       "Çıktı",
	stateMode:         "Mod",
	stateVolume:       "Ses seviyesi",
	stateAudio:        "Ek ses",
	stateAudioVolume:  "Ek ses seviyesi",
	stateUpload:       "Yükleme",
	stateRcloneConfig: "rclone config",
	stateRemotePath:   "Remote klasörü",
	stateConfirm:      "Onay",
	stateProcessing:   "İşleniyor",
	stateDone:         "Sonuç",
}

var stepQuestions = map[wizardState]string{
	stateURL:          "Video adresi (isteğe bağlı):",
	stateDownloadDir:  "İndirme dizini:",
	stateInput:        "Kesilecek video dosyası:",
	stateSegments:     "Segmentler (başlangıç-bitiş, | ile ayrılır):",
	stateOutput:       "Çıktı dosyası (boş: varsayılan):",
	stateMode:         "Kesme modu seçin:",
	stateVolume:       "Orijinal ses seviyesi (0-200):",
	stateAudio:        "Eklenecek ses dosyası (isteğe bağlı):",
	stateAudioVolume:  "Eklenen ses seviyesi (0-200):",
	stateUpload:       "Sonuç rclone ile yüklensin mi?",
	stateRcloneConfig: "Kayıtlı rclone config yok, config dosyasının yolu:",
	stateRemotePath:   "Remote üzerindeki klasör:",
}

func (m wizardModel) View() string {
	if m.quitting {
		return gradientText("  👋 Görüşürüz!", gradientColors) + "\n\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(gradientText("  ✂️  VideoCutter", gradientColors))
	b.WriteString(dimStyle.Render("  v" + appVersion))
	b.WriteString("\n\n")
	b.WriteString(breadcrumbStyle.Render(m.breadcrumb()))
	b.WriteString("\n\n")

	if len(m.missingTools) > 0 && m.state < stateProcessing {
		b.WriteString(infoStyle.Render(fmt.Sprintf("  ⚠️  Eksik programlar: %s  (videocutter deps)", strings.Join(m.missingTools, ", "))))
		b.WriteString("\n\n")
	}

	switch m.state {
	case stateMode:
		b.WriteString(m.viewModeSelect())
	case stateUpload:
		b.WriteString(m.viewChoices(stepQuestions[stateUpload], uploadChoices))
	case stateConfirm:
		b.WriteString(m.viewConfirm())
	case stateProcessing:
		b.WriteString(m.viewProcessing())
	case stateDone:
		b.WriteString(m.viewDone())
	default:
		b.WriteString(m.viewTextStep())
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("  ❌ " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + m.helpLine()))
	b.WriteString("\n")
	return b.String()
}

func (m wizardModel) breadcrumb() string {
	parts := make([]string, 0, len(m.history)+1)
	for _, s := range m.history {
		parts = append(parts, stepNames[s])
	}
	parts = append(parts, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render(stepNames[m.state]))
	return strings.Join(parts, " › ")
}

func (m wizardModel) helpLine() string {
	switch m.state {
	case stateMode, stateUpload:
		return "↑/↓ Seç  •  Enter Devam  •  Esc Geri  •  Ctrl+C Çıkış"
	case stateConfirm:
		return "Enter Başlat  •  Esc Geri  •  Ctrl+C Çıkış"
	case stateProcessing:
		return "Ctrl+C İptal"
	case stateDone:
		return "Enter/q Çıkış"
	default:
		return "Enter Devam  •  Esc Geri  •  Ctrl+C Çıkış"
	}
}

func (m wizardModel) viewTextStep() string {
	var b strings.Builder
	b.WriteString(menuTitleStyle.Render(stepQuestions[m.state]))
	b.WriteString("\n")
	b.WriteString("  " + m.textInput.View())
	b.WriteString("\n")

	switch m.state {
	case stateSegments:
		b.WriteString("\n")
		b.WriteString(descStyle.Render("  Zaman biçimleri: 45, 03:05, 1:02:03.5"))
		b.WriteString("\n")
	case stateAudio:
		b.WriteString("\n")
		b.WriteString(descStyle.Render("  Desteklenen: " + strings.Join(supportedAudioList(), ", ")))
		b.WriteString("\n")
	}
	return b.String()
}

func (m wizardModel) viewModeSelect() string {
	var b strings.Builder
	b.WriteString(menuTitleStyle.Render(stepQuestions[stateMode]))
	b.WriteString("\n")
	for i, mode := range cutter.Modes() {
		name := fmt.Sprintf("%-9s", mode)
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("▸ " + name))
		} else {
			b.WriteString(normalItemStyle.Render(name))
		}
		b.WriteString(" ")
		b.WriteString(descStyle.Render(mode.Label()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m wizardModel) viewChoices(title string, choices []string) string {
	var b strings.Builder
	b.WriteString(menuTitleStyle.Render(title))
	b.WriteString("\n")
	for i, c := range choices {
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("▸ " + c))
		} else {
			b.WriteString(normalItemStyle.Render(c))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m wizardModel) viewConfirm() string {
	rows := [][2]string{}
	if m.url != "" {
		rows = append(rows, [2]string{"Kaynak", m.url}, [2]string{"İndirme dizini", m.downloadDir})
	} else {
		rows = append(rows, [2]string{"Video", m.inputPath})
	}
	segs := make([]string, 0, len(m.segments))
	for _, s := range m.segments {
		segs = append(segs, fmt.Sprintf("%s-%s", timecode.FormatDuration(s.Start), timecode.FormatDuration(s.End)))
	}
	rows = append(rows,
		[2]string{"Segmentler", fmt.Sprintf("%d adet, toplam %s", len(m.segments), timecode.FormatHuman(timecode.TotalDuration(m.segments)))},
		[2]string{"", strings.Join(segs, " | ")},
	)
	output := m.output
	if output == "" {
		output = m.defaultOutput()
	}
	rows = append(rows,
		[2]string{"Çıktı", output},
		[2]string{"Mod", fmt.Sprintf("%s (%d worker)", m.mode.Label(), m.mode.Workers(workers, len(m.segments)))},
		[2]string{"Ses seviyesi", fmt.Sprintf("%%%d", m.volume)},
	)
	if m.audioFile != "" {
		rows = append(rows, [2]string{"Ek ses", fmt.Sprintf("%s (%%%d)", m.audioFile, m.audioVolume)})
	}
	if m.upload {
		rows = append(rows, [2]string{"Yükleme", "rclone → " + orDash(m.remotePath)})
	}

	labelStyle := lipgloss.NewStyle().Foreground(textColor).Width(16)
	var lines []string
	lines = append(lines, successStyle.Render("📋 Özet"), "")
	for _, r := range rows {
		lines = append(lines, labelStyle.Render(r[0])+pathStyle.Render(r[1]))
	}
	if m.mode == cutter.ModeFast && m.volume != 100 {
		lines = append(lines, "", infoStyle.Render("fast modunda ses seviyesi uygulanmaz"))
	}
	return resultBoxStyle.Render(strings.Join(lines, "\n")) + "\n"
}

func (m wizardModel) viewProcessing() string {
	var b strings.Builder
	label := m.stepLabel
	if label == "" {
		label = "Başlatılıyor"
	}
	b.WriteString(fmt.Sprintf("  %s %s  %s\n\n", m.spinner.View(), infoStyle.Render(label), dimStyle.Render(ui.FormatElapsed(time.Since(m.started)))))
	b.WriteString("  " + progressBarText(m.percent, 40) + fmt.Sprintf("  %.0f%%\n\n", m.percent*100))
	for _, line := range m.logs {
		b.WriteString(dimStyle.Render("  " + line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m wizardModel) viewDone() string {
	if m.runErr != nil {
		content := errorStyle.Render("  ❌ İşlem Başarısız") + "\n\n"
		content += fmt.Sprintf("  Hata: %s", firstLineOf(m.runErr.Error()))
		return resultBoxStyle.Render(content) + "\n"
	}

	content := successStyle.Render("  🎉 İşlem Tamamlandı!") + "\n\n"
	content += fmt.Sprintf("  🎬 Çıktı: %s\n", shortenPath(m.result.FinalOutput))
	if c := m.result.Cut; c != nil {
		summary := batch.GetSummary(c.Segments, c.CutTime)
		content += fmt.Sprintf("  ✂️  Segment: %d (%d başarılı)\n", c.SegmentCount, summary.Succeeded)
		content += fmt.Sprintf("  📏 Uzunluk: %s\n", timecode.FormatHuman(c.OutputDuration))
		if speed := c.Speed(); speed > 0 {
			content += fmt.Sprintf("  🚀 Hız:    %.1fx\n", speed)
		}
	}
	if m.result.Destination != "" {
		content += fmt.Sprintf("  📤 Yüklendi: %s\n", m.result.Destination)
	}
	content += fmt.Sprintf("  ⏱️  Süre:  %s", ui.FormatElapsed(m.result.Duration))
	return resultBoxStyle.Render(content) + "\n"
}

func progressBarText(ratio float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	return lipgloss.NewStyle().Foreground(accentColor).Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", width-filled))
}

func gradientText(text string, colors []lipgloss.Color) string {
	runes := []rune(text)
	var b strings.Builder
	for i, r := range runes {
		color := colors[i*len(colors)/max(len(runes), 1)]
		b.WriteString(lipgloss.NewStyle().Foreground(color).Bold(true).Render(string(r)))
	}
	return b.String()
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" && strings.HasPrefix(path, home) {
		return "~" + strings.TrimPrefix(path, home)
	}
	return path
}

// expandHome baştaki ~ işaretini ev dizinine çevirir
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func supportedAudioList() []string {
	list := make([]string, 0, len(audio.SupportedExtensions))
	for _, ext := range audio.SupportedExtensions {
		list = append(list, strings.TrimPrefix(ext, "."))
	}
	return list
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(kök)"
	}
	return s
}

func firstLineOf(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
