package cutter

import (
	"fmt"
	"strings"
)

// Mode segment kesme stratejisi
type Mode string

const (
	// ModeFast stream copy ile sıralı keser, anahtar kareler nedeniyle 1-2 sn kayabilir
	ModeFast Mode = "fast"
	// ModeBalanced segmentleri paralel olarak yeniden kodlar
	ModeBalanced Mode = "balanced"
	// ModeAccurate segmentleri sırayla yeniden kodlar, kare hassasiyetinde
	ModeAccurate Mode = "accurate"
)

// DefaultMode belirtilmediğinde kullanılan mod
const DefaultMode = ModeBalanced

// MaxBalancedWorkers balanced modda varsayılan en fazla eşzamanlı ffmpeg sayısı
const MaxBalancedWorkers = 4

// Modes desteklenen tüm modlar
func Modes() []Mode {
	return []Mode{ModeFast, ModeBalanced, ModeAccurate}
}

// ParseMode kullanıcı girdisini Mode'a çevirir.
// Boş girdi varsayılan modu döner.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultMode, nil
	case "fast", "copy", "quick":
		return ModeFast, nil
	case "balanced", "parallel", "default":
		return ModeBalanced, nil
	case "accurate", "precise", "exact":
		return ModeAccurate, nil
	}
	return "", fmt.Errorf("geçersiz mod: %s (fast, balanced, accurate)", s)
}

// Reencode modun segmentleri yeniden kodlayıp kodlamadığını döner
func (m Mode) Reencode() bool {
	return m != ModeFast
}

// Parallel modun segmentleri paralel işleyip işlemediğini döner
func (m Mode) Parallel() bool {
	return m == ModeBalanced
}

// Label seçim listelerinde gösterilen kısa açıklama
func (m Mode) Label() string {
	switch m {
	case ModeFast:
		return "Hızlı (stream copy, 1-2 sn kayabilir)"
	case ModeBalanced:
		return "Dengeli (paralel yeniden kodlama)"
	case ModeAccurate:
		return "Hassas (sıralı yeniden kodlama)"
	}
	return string(m)
}

// Workers mod ve segment sayısına göre worker sayısını belirler.
// requested > 0 ise balanced modda o değer kullanılır.
func (m Mode) Workers(requested, segments int) int {
	if segments <= 0 {
		return 1
	}
	if !m.Parallel() {
		return 1
	}
	workers := requested
	if workers <= 0 {
		workers = MaxBalancedWorkers
	}
	if workers > segments {
		workers = segments
	}
	return workers
}
