package workflow

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mlihgenel/videocutter-cli/internal/cutter"
	"github.com/mlihgenel/videocutter-cli/internal/timecode"
)

// SegmentList JSON'da "a-b|c-d" string'i veya ["a-b", "c-d"] listesi olarak yazılabilir
type SegmentList string

func (s *SegmentList) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = SegmentList(str)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("segments string veya string listesi olmalı")
	}
	*s = SegmentList(strings.Join(list, "|"))
	return nil
}

// AudioPlan ek ses izi ayarları
type AudioPlan struct {
	File   string `json:"file"`
	Volume *int   `json:"volume,omitempty"`
}

// UploadPlan rclone yükleme ayarları
type UploadPlan struct {
	Remote       string `json:"remote,omitempty"`
	Path         string `json:"path,omitempty"`
	RcloneConfig string `json:"rclone_config,omitempty"`
}

// Plan `videocutter run plan.json` ile çalıştırılan iş tanımı
type Plan struct {
	URL          string      `json:"url,omitempty"`
	DownloadDir  string      `json:"download_dir,omitempty"`
	DownloadName string      `json:"download_name,omitempty"`
	Input        string      `json:"input,omitempty"`
	Segments     SegmentList `json:"segments"`
	Output       string      `json:"output,omitempty"`
	Mode         string      `json:"mode,omitempty"`
	Workers      int         `json:"workers,omitempty"`
	Volume       *int        `json:"volume,omitempty"`
	NoAudio      bool        `json:"no_audio,omitempty"`
	TempDir      string      `json:"temp_dir,omitempty"`
	Retry        int         `json:"retry,omitempty"`
	RetryDelay   string      `json:"retry_delay,omitempty"`
	Audio        *AudioPlan  `json:"audio,omitempty"`
	Upload       *UploadPlan `json:"upload,omitempty"`
	Report       string      `json:"report,omitempty"`
	ReportFile   string      `json:"report_file,omitempty"`
}

// LoadPlan JSON plan dosyasını yükler ve doğrular.
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, err
	}

	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return Plan{}, fmt.Errorf("plan dosyası çözülemedi: %w", err)
	}
	if err := ValidatePlan(p); err != nil {
		return Plan{}, err
	}
	return p, nil
}

// ValidatePlan plan alanlarını doğrular.
func ValidatePlan(p Plan) error {
	_, err := p.Job()
	return err
}

// Job planı çalıştırılabilir Job'a çevirir
func (p Plan) Job() (Job, error) {
	if strings.TrimSpace(p.Input) == "" && strings.TrimSpace(p.URL) == "" {
		return Job{}, fmt.Errorf("input veya url zorunlu")
	}
	segments, err := timecode.ParseSegments(string(p.Segments))
	if err != nil {
		return Job{}, fmt.Errorf("segments: %w", err)
	}
	mode, err := cutter.ParseMode(p.Mode)
	if err != nil {
		return Job{}, err
	}
	if p.Workers < 0 || p.Retry < 0 {
		return Job{}, fmt.Errorf("workers ve retry negatif olamaz")
	}

	job := Job{
		URL:          strings.TrimSpace(p.URL),
		DownloadDir:  p.DownloadDir,
		DownloadName: p.DownloadName,
		Input:        p.Input,
		Segments:     segments,
		Output:       p.Output,
		Mode:         mode,
		Workers:      p.Workers,
		Volume:       100,
		NoAudio:      p.NoAudio,
		TempDir:      p.TempDir,
		Retry:        p.Retry,
	}
	if p.Volume != nil {
		job.Volume = *p.Volume
	}
	if job.Volume < 0 || job.Volume > 200 {
		return Job{}, fmt.Errorf("volume 0-200 aralığında olmalı: %d", job.Volume)
	}
	if p.RetryDelay != "" {
		d, err := time.ParseDuration(p.RetryDelay)
		if err != nil || d < 0 {
			return Job{}, fmt.Errorf("geçersiz retry_delay: %s", p.RetryDelay)
		}
		job.RetryDelay = d
	}

	if p.Audio != nil {
		if strings.TrimSpace(p.Audio.File) == "" {
			return Job{}, fmt.Errorf("audio.file zorunlu")
		}
		job.AudioFile = p.Audio.File
		job.AudioVolume = 100
		if p.Audio.Volume != nil {
			job.AudioVolume = *p.Audio.Volume
		}
		if job.AudioVolume < 0 || job.AudioVolume > 200 {
			return Job{}, fmt.Errorf("audio.volume 0-200 aralığında olmalı: %d", job.AudioVolume)
		}
	}

	if p.Upload != nil {
		job.Upload = true
		job.Remote = p.Upload.Remote
		job.RemotePath = p.Upload.Path
		job.RcloneConfigFile = p.Upload.RcloneConfig
	}
	return job, nil
}
