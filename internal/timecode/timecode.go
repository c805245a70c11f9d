package timecode

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNoSegments hiç geçerli segment bulunamadığında döner
var ErrNoSegments = errors.New("kesilecek segment yok")

// Segment kaynak videoda korunacak [Start, End) aralığı (saniye)
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration segment uzunluğunu döner
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// TotalDuration tüm segmentlerin toplam uzunluğunu döner
func TotalDuration(segments []Segment) float64 {
	total := 0.0
	for _, s := range segments {
		if s.End > s.Start {
			total += s.End - s.Start
		}
	}
	return total
}

// ParseTime MM:SS, HH:MM:SS veya düz saniye değerini saniyeye çevirir.
// MM:SS biçiminde dakika alanı sınırsızdır (90:00 = 5400s).
func ParseTime(raw string) (float64, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if value == "" {
		return 0, fmt.Errorf("boş zaman değeri")
	}

	if !strings.Contains(value, ":") {
		v, ok := parseSeconds(value)
		if !ok {
			return 0, fmt.Errorf("geçersiz zaman formatı: %s", raw)
		}
		return v, nil
	}

	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("geçersiz zaman formatı: %s", raw)
	}

	parsed := make([]float64, len(parts))
	for i, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			return 0, fmt.Errorf("geçersiz zaman formatı: %s", raw)
		}
		// Saat ve dakika tam sayı olmalı, sadece saniye ondalıklı olabilir
		if i < len(parts)-1 {
			n, err := strconv.Atoi(p)
			if err != nil || !isDigits(p) {
				return 0, fmt.Errorf("geçersiz zaman formatı: %s", raw)
			}
			parsed[i] = float64(n)
			continue
		}
		v, ok := parseSeconds(p)
		if !ok {
			return 0, fmt.Errorf("geçersiz zaman formatı: %s", raw)
		}
		parsed[i] = v
	}

	if len(parsed) == 2 {
		if parsed[1] >= 60 {
			return 0, fmt.Errorf("saniye 60'tan küçük olmalı: %s", raw)
		}
		return parsed[0]*60 + parsed[1], nil
	}

	if parsed[1] >= 60 || parsed[2] >= 60 {
		return 0, fmt.Errorf("dakika/saniye 60'tan küçük olmalı: %s", raw)
	}
	return parsed[0]*3600 + parsed[1]*60 + parsed[2], nil
}

// parseSeconds sadece rakam ve en fazla bir nokta içeren değerleri kabul eder;
// ParseFloat'ın kabul ettiği NaN, Inf, üs ve işaretli biçimler reddedilir.
func parseSeconds(s string) (float64, bool) {
	digits := strings.Replace(s, ".", "", 1)
	if digits == "" || !isDigits(digits) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !IsFinite(v) {
		return 0, false
	}
	return v, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsFinite değerin NaN veya sonsuz olmadığını kontrol eder
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ParseSegments "03:05-03:10|40:05-40:10|1:03:05-1:04:05" biçimindeki
// listeyi segmentlere ayırır. Sıra korunur, çakışan aralıklar birleştirilmez.
func ParseSegments(list string) ([]Segment, error) {
	tokens := strings.FieldsFunc(list, func(r rune) bool {
		return r == '|' || r == '\n' || r == '\r'
	})

	segments := make([]Segment, 0, len(tokens))
	for _, token := range tokens {
		raw := strings.TrimSpace(token)
		if raw == "" {
			continue
		}

		startRaw, endRaw, ok := strings.Cut(raw, "-")
		if !ok {
			return nil, fmt.Errorf("geçersiz segment ('-' eksik): %s", raw)
		}

		start, err := ParseTime(startRaw)
		if err != nil {
			return nil, fmt.Errorf("segment başlangıcı hatalı (%s): %w", raw, err)
		}
		end, err := ParseTime(endRaw)
		if err != nil {
			return nil, fmt.Errorf("segment bitişi hatalı (%s): %w", raw, err)
		}
		if end <= start {
			return nil, fmt.Errorf("bitiş zamanı başlangıçtan büyük olmalı: %s", raw)
		}

		segments = append(segments, Segment{Start: start, End: end})
	}

	if len(segments) == 0 {
		return nil, ErrNoSegments
	}
	return segments, nil
}

// FormatDuration saniyeyi HH:MM:SS.sss (saat yoksa MM:SS.sss) olarak yazar
func FormatDuration(seconds float64) string {
	if seconds < 0 || !IsFinite(seconds) {
		seconds = 0
	}
	hours := int(seconds / 3600)
	minutes := int((seconds - float64(hours)*3600) / 60)
	secs := seconds - float64(hours)*3600 - float64(minutes)*60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%06.3f", minutes, secs)
}

// FormatHuman saniyeyi "1h 3m 5s" biçiminde kısa yazar
func FormatHuman(seconds float64) string {
	total := int64(seconds)
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// FormatFFmpeg FFmpeg argümanı için en kısa ondalık gösterimi döner
func FormatFFmpeg(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}
