package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventWatcher fsnotify olaylarıyla erken tarama tetikler.
// Bir videonun hazır olup olmadığına yine gömülü Watcher karar verir.
type EventWatcher struct {
	*Watcher

	fs      *fsnotify.Watcher
	changed chan struct{}
	stop    chan struct{}
	closed  sync.Once
}

// NewEventWatcher fsnotify backend'i oluşturur.
func NewEventWatcher(root string, recursive bool, settleFor time.Duration) (*EventWatcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify başlatılamadı: %w", err)
	}
	return &EventWatcher{
		Watcher: NewWatcher(root, recursive, settleFor),
		fs:      fs,
		changed: make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}, nil
}

// NewAdaptiveWatcher olay tabanlı izlemeyi dener, olmazsa polling watcher ile hatayı döner.
func NewAdaptiveWatcher(root string, recursive bool, settleFor time.Duration) (Engine, error) {
	ew, err := NewEventWatcher(root, recursive, settleFor)
	if err != nil {
		return NewWatcher(root, recursive, settleFor), err
	}
	return ew, nil
}

func (w *EventWatcher) Bootstrap() error {
	if err := w.Watcher.Bootstrap(); err != nil {
		return err
	}
	if err := w.addDirs(w.Root); err != nil {
		return err
	}
	go w.run()
	return nil
}

// Events izlenen klasörde video ile ilgili bir değişiklik olunca sinyal verir.
// Sinyaller birleştirilir, kanal en fazla bir bekleyen sinyal tutar.
func (w *EventWatcher) Events() <-chan struct{} {
	return w.changed
}

func (w *EventWatcher) Close() error {
	w.closed.Do(func() { close(w.stop) })
	return w.fs.Close()
}

func (w *EventWatcher) Mode() string { return "event+polling" }

func (w *EventWatcher) run() {
	for {
		select {
		case <-w.stop:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				w.notify()
			}
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// polling sürdüğü için hata sadece yeni bir taramayı tetikler
			w.notify()
		}
	}
}

// relevant yeni dizinleri izlemeye ekler, video dışı dosyaları eler
func (w *EventWatcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if ev.Has(fsnotify.Create) && w.Recursive {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.addDirs(ev.Name)
			return true
		}
	}
	return IsVideoFile(ev.Name)
}

func (w *EventWatcher) notify() {
	select {
	case w.changed <- struct{}{}:
	default:
	}
}

func (w *EventWatcher) addDirs(start string) error {
	info, err := os.Stat(start)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("izlenecek yol dizin olmalı: %s", start)
	}
	if !w.Recursive {
		return w.fs.Add(start)
	}

	return filepath.WalkDir(start, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != start && isScratchDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

// isScratchDir gizli dizinleri ve kesme sırasında açılan geçici dizinleri tanır
func isScratchDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "videocutter-")
}
