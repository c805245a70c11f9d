package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mlihgenel/videocutter-cli/internal/ui"
	"github.com/mlihgenel/videocutter-cli/internal/workflow"
)

var stepTitles = map[string]string{
	workflow.StepDownload: "İndiriliyor",
	workflow.StepCut:      "Kesiliyor",
	workflow.StepAudio:    "Ses ekleniyor",
	workflow.StepUpload:   "Yükleniyor",
}

var stepIcons = map[string]string{
	workflow.StepDownload: ui.IconDownload,
	workflow.StepCut:      ui.IconCut,
	workflow.StepAudio:    ui.IconAudio,
	workflow.StepUpload:   ui.IconUpload,
}

// cliProgress workflow olaylarını terminale basar.
// Oranlı olaylar ilerleme çubuğuna, diğerleri bilgi satırına gider.
type cliProgress struct {
	mu      sync.Mutex
	step    string
	bar     *ui.ProgressBar
	verbose bool
}

func newCLIProgress(verbose bool) *cliProgress {
	return &cliProgress{verbose: verbose}
}

func (p *cliProgress) Handle(ev workflow.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ev.Step != p.step {
		p.finishLocked()
		p.step = ev.Step
		ui.PrintStep(stepIcons[ev.Step], stepTitles[ev.Step])
	}

	if ev.Total > 0 {
		if p.bar == nil {
			p.bar = ui.NewProgressBar(int(ev.Total), stepTitles[ev.Step])
		}
		if ev.Message != "" && ev.Step != workflow.StepDownload {
			p.bar.Describe(ev.Message)
		}
		p.bar.Update(int(ev.Current))
		return
	}

	if ev.Message == "" {
		return
	}
	// rclone satırları sadece verbose modda gösterilir
	if ev.Step == workflow.StepUpload && !p.verbose && !strings.HasPrefix(ev.Message, "yükleniyor") {
		return
	}
	ui.PrintInfo(ev.Message)
}

// Finish açık ilerleme çubuğunu kapatır
func (p *cliProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finishLocked()
}

func (p *cliProgress) finishLocked() {
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}

// emitReport raporu dosyaya yazar veya stdout'a basar
func emitReport(format, reportFile string, result workflow.Result) error {
	text, err := workflow.RenderReport(format, result)
	if err != nil {
		ui.PrintError(fmt.Sprintf("Rapor üretilemedi: %s", err.Error()))
		return err
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if strings.TrimSpace(reportFile) == "" {
		fmt.Println(text)
		return nil
	}
	if err := writeReportFile(reportFile, text); err != nil {
		ui.PrintError(fmt.Sprintf("Rapor yazılamadı: %s", err.Error()))
		return err
	}
	ui.PrintInfo(fmt.Sprintf("Rapor yazıldı: %s", reportFile))
	return nil
}

func writeReportFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content+"\n"), 0644)
}
