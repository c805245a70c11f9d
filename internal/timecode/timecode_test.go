package timecode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	cases := map[string]float64{
		"03:05":      185,
		"1:03:05":    3785,
		"00:30":      30,
		"90:00":      5400,
		"12.5":       12.5,
		"00:01,5":    1.5,
		" 01:00 ":    60,
		"0:00:00.25": 0.25,
	}
	for in, want := range cases {
		got, err := ParseTime(in)
		require.NoError(t, err, in)
		require.InDelta(t, want, got, 1e-9, in)
	}
}

func TestParseTimeRejectsInvalid(t *testing.T) {
	for _, in := range []string{
		"", "abc", "1:2:3:4", "00:60", "1:60:00", "-5", "1.5:00", ":30",
		"NaN", "Inf", "+Inf", "Infinity", "00:NaN", "1:00:Inf", "1e3", "+5", "0x10", "1.2.3", ".", "+1:00",
	} {
		_, err := ParseTime(in)
		require.Error(t, err, in)
	}
}

func TestParseSegmentsRejectsNonFiniteTimes(t *testing.T) {
	for _, in := range []string{"00:00-NaN", "0-Inf", "00:NaN-00:10", "0-Infinity"} {
		_, err := ParseSegments(in)
		require.Error(t, err, in)
	}
}

func TestParseSegments(t *testing.T) {
	segments, err := ParseSegments("03:05-03:10|40:05-40:10|1:03:05-1:04:05")
	require.NoError(t, err)
	require.Equal(t, []Segment{
		{Start: 185, End: 190},
		{Start: 2405, End: 2410},
		{Start: 3785, End: 3845},
	}, segments)
	require.InDelta(t, 70, TotalDuration(segments), 1e-9)
}

func TestParseSegmentsKeepsOrderAndSkipsBlanks(t *testing.T) {
	segments, err := ParseSegments("| 00:30-01:00 ||\n00:10-00:20|")
	require.NoError(t, err)
	require.Len(t, segments, 2)
	require.Equal(t, 30.0, segments[0].Start)
	require.Equal(t, 10.0, segments[1].Start)
}

func TestParseSegmentsErrors(t *testing.T) {
	_, err := ParseSegments("03:05")
	require.ErrorContains(t, err, "'-' eksik")

	_, err = ParseSegments("03:10-03:05")
	require.ErrorContains(t, err, "03:10-03:05")

	_, err = ParseSegments("03:05-03:05")
	require.Error(t, err)

	_, err = ParseSegments(" | ")
	require.True(t, errors.Is(err, ErrNoSegments))
}

func TestFormatDuration(t *testing.T) {
	require.Equal(t, "03:05.000", FormatDuration(185))
	require.Equal(t, "01:03:05.000", FormatDuration(3785))
	require.Equal(t, "00:05.500", FormatDuration(5.5))
	require.Equal(t, "00:00.000", FormatDuration(-1))
}

func TestFormatHuman(t *testing.T) {
	require.Equal(t, "1h 3m 5s", FormatHuman(3785))
	require.Equal(t, "3m 5s", FormatHuman(185))
	require.Equal(t, "42s", FormatHuman(42))
}

func TestFormatFFmpeg(t *testing.T) {
	require.Equal(t, "185", FormatFFmpeg(185))
	require.Equal(t, "12.25", FormatFFmpeg(12.25))
}
