package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// VideoExtensions izlenen klasörde kesilecek dosya uzantıları
var VideoExtensions = []string{".mp4", ".mkv", ".mov", ".avi", ".webm", ".m4v", ".flv", ".wmv"}

// generatedSuffixes kesme çıktıları ve geçici dosyalar tekrar işlenmez
var generatedSuffixes = []string{"_cut", "_temp"}

// Engine klasör izleme backend'i
type Engine interface {
	Bootstrap() error
	Poll(now time.Time) ([]string, error)
	Close() error
	Mode() string
}

type fileState struct {
	Size       int64
	ModTime    time.Time
	LastChange time.Time
	Processed  bool
}

// Watcher polling tabanlı dosya izleyicisidir.
type Watcher struct {
	Root      string
	Recursive bool
	SettleFor time.Duration

	states map[string]fileState
}

// NewWatcher yeni bir watcher oluşturur.
func NewWatcher(root string, recursive bool, settleFor time.Duration) *Watcher {
	if settleFor <= 0 {
		settleFor = 1500 * time.Millisecond
	}
	return &Watcher{
		Root:      root,
		Recursive: recursive,
		SettleFor: settleFor,
		states:    make(map[string]fileState),
	}
}

// IsVideoFile uzantı video listesindeyse ve dosya bir kesme çıktısı değilse true döner
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	known := false
	for _, e := range VideoExtensions {
		if e == ext {
			known = true
			break
		}
	}
	if !known {
		return false
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for _, suffix := range generatedSuffixes {
		if strings.HasSuffix(stem, suffix) {
			return false
		}
	}
	return true
}

// Bootstrap mevcut dosyaları "zaten işlenmiş" olarak kaydeder.
func (w *Watcher) Bootstrap() error {
	now := time.Now()
	return w.scan(func(path string, info os.FileInfo) error {
		w.states[path] = fileState{
			Size:       info.Size(),
			ModTime:    info.ModTime(),
			LastChange: now,
			Processed:  true,
		}
		return nil
	})
}

// Poll yeni/değişen ve boyutu sabitlenmiş dosyaları döner.
// İndirme veya kopyalama süren dosyalar SettleFor dolana kadar beklenir.
func (w *Watcher) Poll(now time.Time) ([]string, error) {
	seen := make(map[string]struct{})
	var ready []string

	err := w.scan(func(path string, info os.FileInfo) error {
		seen[path] = struct{}{}
		state, ok := w.states[path]

		if !ok {
			w.states[path] = fileState{
				Size:       info.Size(),
				ModTime:    info.ModTime(),
				LastChange: now,
			}
			return nil
		}

		if state.Size != info.Size() || !state.ModTime.Equal(info.ModTime()) {
			state.Size = info.Size()
			state.ModTime = info.ModTime()
			state.LastChange = now
			state.Processed = false
			w.states[path] = state
			return nil
		}

		if !state.Processed && now.Sub(state.LastChange) >= w.SettleFor {
			state.Processed = true
			w.states[path] = state
			ready = append(ready, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for path := range w.states {
		if _, ok := seen[path]; !ok {
			delete(w.states, path)
		}
	}

	return ready, nil
}

func (w *Watcher) Close() error { return nil }

func (w *Watcher) Mode() string { return "polling" }

func (w *Watcher) scan(onFile func(path string, info os.FileInfo) error) error {
	info, err := os.Stat(w.Root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("izlenecek yol dizin olmalı: %s", w.Root)
	}

	return filepath.WalkDir(w.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != w.Root && (!w.Recursive || isScratchDir(d.Name())) {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsVideoFile(path) {
			return nil
		}
		info, statErr := d.Info()
		if statErr != nil {
			return nil
		}
		return onFile(path, info)
	})
}
