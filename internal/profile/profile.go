package profile

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mlihgenel/videocutter-cli/internal/batch"
	"github.com/mlihgenel/videocutter-cli/internal/cutter"
)

// Definition kesme profili alanlarını tutar.
// nil pointer alanlar "profil bu alanı zorlamıyor" anlamına gelir.
type Definition struct {
	Name        string
	Description string
	Mode        cutter.Mode
	Workers     *int
	Volume      *int
	Retry       *int
	RetryDelay  *time.Duration
	Report      string
}

var builtins = map[string]Definition{
	"quick": {
		Name:        "quick",
		Description: "Kodlama yok, en hızlı önizleme kesimi",
		Mode:        cutter.ModeFast,
		Retry:       intPtr(0),
		Report:      batch.ReportOff,
	},
	"social": {
		Name:        "social",
		Description: "Paralel yeniden kodlama, tek tekrar denemesi",
		Mode:        cutter.ModeBalanced,
		Workers:     intPtr(cutter.MaxBalancedWorkers),
		Retry:       intPtr(1),
		RetryDelay:  durationPtr(500 * time.Millisecond),
		Report:      batch.ReportOff,
	},
	"archive": {
		Name:        "archive",
		Description: "Kare hassasiyetinde sıralı kesim, JSON rapor",
		Mode:        cutter.ModeAccurate,
		Volume:      intPtr(100),
		Retry:       intPtr(2),
		RetryDelay:  durationPtr(1 * time.Second),
		Report:      batch.ReportJSON,
	},
}

// Resolve isimden profile döner.
func Resolve(name string) (Definition, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Definition{}, fmt.Errorf("profil adı boş")
	}
	p, ok := builtins[key]
	if !ok {
		return Definition{}, fmt.Errorf("profil bulunamadı: %s (mevcut: %s)", name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Names built-in profil isimlerini alfabetik sırada döner.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func intPtr(v int) *int { return &v }

func durationPtr(v time.Duration) *time.Duration { return &v }
