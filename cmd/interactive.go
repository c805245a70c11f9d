package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/mlihgenel/videocutter-cli/internal/audio"
	"github.com/mlihgenel/videocutter-cli/internal/config"
	"github.com/mlihgenel/videocutter-cli/internal/cutter"
	"github.com/mlihgenel/videocutter-cli/internal/download"
	"github.com/mlihgenel/videocutter-cli/internal/execx"
	"github.com/mlihgenel/videocutter-cli/internal/installer"
	"github.com/mlihgenel/videocutter-cli/internal/timecode"
	"github.com/mlihgenel/videocutter-cli/internal/ui"
	"github.com/mlihgenel/videocutter-cli/internal/upload"
	"github.com/mlihgenel/videocutter-cli/internal/workflow"
)

// ========================================
// State Machine
// ========================================

type wizardState int

const (
	stateURL wizardState = iota
	stateDownloadDir
	stateInput
	stateSegments
	stateOutput
	stateMode
	stateVolume
	stateAudio
	stateAudioVolume
	stateUpload
	stateRcloneConfig
	stateRemotePath
	stateConfirm
	stateProcessing
	stateDone
)

// maxLogLines işlem ekranında tutulan son satır sayısı
const maxLogLines = 8

var uploadChoices = []string{"Hayır", "Evet"}

type progressMsg struct {
	event workflow.Event
}

type workDoneMsg struct {
	result workflow.Result
	err    error
}

// workflowRunner wizard'ın işi çalıştırdığı fonksiyon; testlerde değiştirilir
type workflowRunner func(ctx context.Context, job workflow.Job, onEvent func(workflow.Event)) (workflow.Result, error)

// ========================================
// Model
// ========================================

type wizardModel struct {
	state   wizardState
	history []wizardState
	cursor  int

	textInput textinput.Model
	spinner   spinner.Model
	err       error

	// Toplanan değerler
	url         string
	downloadDir string
	inputPath   string
	segmentsRaw string
	segments    []timecode.Segment
	output      string
	mode        cutter.Mode
	volume      int
	audioFile   string
	audioVolume int
	upload      bool
	rcloneFile  string
	remotePath  string

	// İşlem
	ctx          context.Context
	cancel       context.CancelFunc
	run          workflowRunner
	progressChan chan progressMsg
	logs         []string
	stepLabel    string
	percent      float64
	result       workflow.Result
	runErr       error
	started      time.Time

	missingTools []string
	width        int
	quitting     bool
}

func newWizardModel(ctx context.Context, run workflowRunner) wizardModel {
	if ctx == nil {
		ctx = context.Background()
	}

	ti := textinput.New()
	ti.CharLimit = 1000
	ti.Width = 60
	ti.Prompt = "› "
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(secondaryColor)

	m := wizardModel{
		state:       stateURL,
		textInput:   ti,
		spinner:     s,
		mode:        cutter.DefaultMode,
		volume:      100,
		audioVolume: 100,
		downloadDir: download.DefaultDir,
		ctx:         ctx,
		run:         run,
	}

	if cfg := userConfig(); cfg != nil {
		if strings.TrimSpace(cfg.DownloadDir) != "" {
			m.downloadDir = cfg.DownloadDir
		}
		m.remotePath = cfg.RemotePath
	}
	if activeProjectConfig != nil {
		if mode, err := cutter.ParseMode(activeProjectConfig.Mode); err == nil && activeProjectConfig.Mode != "" {
			m.mode = mode
		}
		if activeProjectConfig.HasVolume {
			m.volume = activeProjectConfig.Volume
		}
	}

	m.missingTools = installer.GetMissingToolNames([]string{"ffmpeg", "ffprobe", "yt-dlp", "rclone"})
	m.prepareInput()
	return m
}

func (m wizardModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			m.quitting = true
			return m, tea.Quit
		case "esc":
			if m.state == stateProcessing {
				return m, nil
			}
			if m.state == stateDone {
				m.quitting = true
				return m, tea.Quit
			}
			return m.goBack(), nil
		case "enter":
			return m.handleEnter()
		}

		if m.isChoiceState() {
			switch msg.String() {
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < m.maxCursor() {
					m.cursor++
				}
			}
			return m, nil
		}
		if m.state == stateDone && msg.String() == "q" {
			m.quitting = true
			return m, tea.Quit
		}

	case progressMsg:
		m = m.applyEvent(msg.event)
		return m, waitForProgress(m.progressChan)

	case workDoneMsg:
		m.state = stateDone
		m.result = msg.result
		m.runErr = msg.err
		if m.cancel != nil {
			m.cancel()
		}
		if msg.err == nil {
			m.rememberSettings()
		}
		return m, nil

	case spinner.TickMsg:
		if m.state == stateProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.isTextState() {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	return m, cmd
}

func (m wizardModel) isTextState() bool {
	switch m.state {
	case stateURL, stateDownloadDir, stateInput, stateSegments, stateOutput,
		stateVolume, stateAudio, stateAudioVolume, stateRcloneConfig, stateRemotePath:
		return true
	}
	return false
}

func (m wizardModel) isChoiceState() bool {
	return m.state == stateMode || m.state == stateUpload
}

func (m wizardModel) maxCursor() int {
	switch m.state {
	case stateMode:
		return len(cutter.Modes()) - 1
	case stateUpload:
		return len(uploadChoices) - 1
	}
	return 0
}

// handleEnter mevcut adımın değerini doğrular ve sonraki adıma geçer
func (m wizardModel) handleEnter() (tea.Model, tea.Cmd) {
	// Sürükle-bırak ile gelen yollar tırnaklı olabilir
	value := strings.Trim(strings.TrimSpace(m.textInput.Value()), `"'`)
	m.err = nil

	switch m.state {
	case stateURL:
		m.url = value
		if m.url == "" {
			return m.advance(stateInput), nil
		}
		return m.advance(stateDownloadDir), nil

	case stateDownloadDir:
		if value != "" {
			m.downloadDir = value
		}
		return m.advance(stateSegments), nil

	case stateInput:
		if value == "" {
			m.err = errors.New("video dosyası zorunlu (veya geri dönüp URL girin)")
			return m, nil
		}
		if !fileExists(value) {
			m.err = fmt.Errorf("dosya bulunamadı: %s", value)
			return m, nil
		}
		m.inputPath = value
		return m.advance(stateSegments), nil

	case stateSegments:
		segments, err := timecode.ParseSegments(value)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.segmentsRaw = value
		m.segments = segments
		return m.advance(stateOutput), nil

	case stateOutput:
		m.output = value
		return m.advance(stateMode), nil

	case stateMode:
		m.mode = cutter.Modes()[m.cursor]
		return m.advance(stateVolume), nil

	case stateVolume:
		v, err := parsePercent(value, 100)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.volume = v
		return m.advance(stateAudio), nil

	case stateAudio:
		if value == "" {
			m.audioFile = ""
			return m.advance(stateUpload), nil
		}
		if !fileExists(value) {
			m.err = fmt.Errorf("ses dosyası bulunamadı: %s", value)
			return m, nil
		}
		if !audio.IsAudioFile(value) {
			m.err = fmt.Errorf("desteklenmeyen ses dosyası: %s", filepath.Ext(value))
			return m, nil
		}
		m.audioFile = value
		return m.advance(stateAudioVolume), nil

	case stateAudioVolume:
		v, err := parsePercent(value, 100)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.audioVolume = v
		return m.advance(stateUpload), nil

	case stateUpload:
		m.upload = m.cursor == 1
		if !m.upload {
			return m.advance(stateConfirm), nil
		}
		saved, err := config.LoadRcloneConfig()
		if err != nil {
			m.err = err
			return m, nil
		}
		if saved == "" {
			return m.advance(stateRcloneConfig), nil
		}
		return m.advance(stateRemotePath), nil

	case stateRcloneConfig:
		if err := importRcloneConfig(value); err != nil {
			m.err = err
			return m, nil
		}
		m.rcloneFile = value
		return m.advance(stateRemotePath), nil

	case stateRemotePath:
		m.remotePath = value
		return m.advance(stateConfirm), nil

	case stateConfirm:
		return m.startProcessing()

	case stateDone:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// advance geçmişe mevcut adımı ekleyip yeni adıma geçer
func (m wizardModel) advance(next wizardState) wizardModel {
	m.history = append(m.history, m.state)
	m.state = next
	m.prepareInput()
	return m
}

// goBack bir önceki adıma döner, girilen değer korunur
func (m wizardModel) goBack() wizardModel {
	if len(m.history) == 0 {
		return m
	}
	m.state = m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	m.err = nil
	m.prepareInput()
	return m
}

// prepareInput metin kutusunu mevcut adımın değeri ve ipucuyla doldurur
func (m *wizardModel) prepareInput() {
	m.textInput.Reset()
	m.textInput.Placeholder = ""
	m.cursor = 0

	switch m.state {
	case stateURL:
		m.textInput.Placeholder = "https://... (boş bırakırsanız yerel dosya kullanılır)"
		m.textInput.SetValue(m.url)
	case stateDownloadDir:
		m.textInput.Placeholder = m.downloadDir
		m.textInput.SetValue(m.downloadDir)
	case stateInput:
		m.textInput.Placeholder = "video.mp4 (dosya yolu)"
		m.textInput.SetValue(m.inputPath)
	case stateSegments:
		m.textInput.Placeholder = "03:05-03:10|40:05-40:10"
		m.textInput.SetValue(m.segmentsRaw)
	case stateOutput:
		m.textInput.Placeholder = m.defaultOutput()
		m.textInput.SetValue(m.output)
	case stateMode:
		for i, mode := range cutter.Modes() {
			if mode == m.mode {
				m.cursor = i
			}
		}
	case stateVolume:
		m.textInput.Placeholder = "100"
		m.textInput.SetValue(strconv.Itoa(m.volume))
	case stateAudio:
		m.textInput.Placeholder = "muzik.mp3 (boş bırakırsanız atlanır)"
		m.textInput.SetValue(m.audioFile)
	case stateAudioVolume:
		m.textInput.Placeholder = "100"
		m.textInput.SetValue(strconv.Itoa(m.audioVolume))
	case stateUpload:
		if m.upload {
			m.cursor = 1
		}
	case stateRcloneConfig:
		m.textInput.Placeholder = "~/.config/rclone/rclone.conf"
		m.textInput.SetValue(m.rcloneFile)
	case stateRemotePath:
		m.textInput.Placeholder = "klasör/alt-klasör (boş: remote kökü)"
		m.textInput.SetValue(m.remotePath)
	}

	if m.isTextState() {
		m.textInput.Focus()
	} else {
		m.textInput.Blur()
	}
}

// importRcloneConfig verilen rclone config dosyasını doğrulayıp kalıcı olarak kaydeder
func importRcloneConfig(path string) error {
	if path == "" {
		return errors.New("yükleme için rclone config dosyası gerekli (veya geri dönüp Hayır seçin)")
	}
	path = expandHome(path)
	if !fileExists(path) {
		return fmt.Errorf("config dosyası bulunamadı: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config okunamadı: %w", err)
	}
	content := string(data)
	if err := upload.ValidateConfig(content); err != nil {
		return err
	}
	if _, err := config.SaveRcloneConfig(content); err != nil {
		return err
	}
	return nil
}

func (m wizardModel) defaultOutput() string {
	if m.url != "" {
		return "<video başlığı>_cut.mp4"
	}
	if m.inputPath == "" {
		return "<ad>_cut<uzantı>"
	}
	return cutter.DefaultOutputPath(m.inputPath)
}

// job toplanan değerlerden workflow işi üretir
func (m wizardModel) job() workflow.Job {
	job := workflow.Job{
		Segments:    m.segments,
		Mode:        m.mode,
		Workers:     workers,
		Volume:      m.volume,
		AudioFile:   m.audioFile,
		AudioVolume: m.audioVolume,
		Upload:      m.upload,
		RemotePath:  m.remotePath,
	}
	if m.url != "" {
		job.URL = m.url
		job.DownloadDir = m.downloadDir
	} else {
		job.Input = m.inputPath
	}
	if activeProjectConfig != nil {
		job.TempDir = activeProjectConfig.TempDir
		job.Remote = activeProjectConfig.Remote
		job.Retry = activeProjectConfig.Retry
		job.RetryDelay = activeProjectConfig.RetryDelay
	}
	output := m.output
	if output == "" {
		output = outputPath
	}
	setJobOutput(&job, output)
	return job
}

func (m wizardModel) startProcessing() (tea.Model, tea.Cmd) {
	if m.run == nil {
		m.err = errors.New("çalıştırıcı tanımlı değil")
		return m, nil
	}
	m.history = append(m.history, m.state)
	m.state = stateProcessing
	m.textInput.Blur()
	m.logs = nil
	m.percent = 0
	m.started = time.Now()
	m.progressChan = make(chan progressMsg, 64)

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel

	return m, tea.Batch(
		m.spinner.Tick,
		startWorkflow(ctx, m.run, m.job(), m.progressChan),
		waitForProgress(m.progressChan),
	)
}

func startWorkflow(ctx context.Context, run workflowRunner, job workflow.Job, sub chan<- progressMsg) tea.Cmd {
	return func() tea.Msg {
		defer close(sub)
		result, err := run(ctx, job, func(ev workflow.Event) {
			select {
			case sub <- progressMsg{event: ev}:
			case <-ctx.Done():
			}
		})
		return workDoneMsg{result: result, err: err}
	}
}

func waitForProgress(sub <-chan progressMsg) tea.Cmd {
	return func() tea.Msg {
		if msg, ok := <-sub; ok {
			return msg
		}
		return nil
	}
}

// applyEvent workflow olayını işlem ekranına yansıtır
func (m wizardModel) applyEvent(ev workflow.Event) wizardModel {
	m.stepLabel = stepTitles[ev.Step]
	if ev.Total > 0 {
		m.percent = ev.Current / ev.Total
	}
	if ev.Message != "" {
		m.logs = append(m.logs, fmt.Sprintf("[%s] %s", ev.Step, ev.Message))
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
	}
	return m
}

// rememberSettings başarılı işten sonra dizin tercihlerini kaydeder
func (m wizardModel) rememberSettings() {
	_ = config.Update(func(cfg *config.AppConfig) {
		cfg.FirstRunCompleted = true
		if m.url != "" {
			cfg.DownloadDir = m.downloadDir
		}
		if m.upload {
			cfg.RemotePath = m.remotePath
		}
	})
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func parsePercent(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
	if err != nil {
		return 0, fmt.Errorf("geçersiz sayı: %s", value)
	}
	if v < 0 || v > 200 {
		return 0, fmt.Errorf("ses seviyesi 0-200 arasında olmalı: %d", v)
	}
	return v, nil
}

func defaultWorkflowRunner(ctx context.Context, job workflow.Job, onEvent func(workflow.Event)) (workflow.Result, error) {
	// TUI ekranını bozmamak için log kapalı
	executor := &workflow.Executor{
		Tools:   resolveTools(),
		Runner:  execx.NewRunner(zap.NewNop()),
		OnEvent: onEvent,
	}
	return executor.Execute(ctx, job)
}

// RunInteractive argümansız çalıştırıldığında wizard'ı başlatır
func RunInteractive(ctx context.Context) error {
	if config.IsFirstRun() {
		_ = config.MarkFirstRunDone()
	}

	p := tea.NewProgram(newWizardModel(ctx, defaultWorkflowRunner), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(wizardModel); ok {
		if fm.runErr != nil {
			ui.PrintError(fm.runErr.Error())
			return fm.runErr
		}
		if fm.state == stateDone {
			printWorkflowResult(fm.result)
		}
	}
	return nil
}
