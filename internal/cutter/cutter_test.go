package cutter

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mlihgenel/videocutter-cli/internal/execx"
	"github.com/mlihgenel/videocutter-cli/internal/timecode"
)

// fakeFFmpeg son argümana (çıktı) küçük bir dosya yazar ve concat listelerini saklar
type fakeFFmpeg struct {
	mu       sync.Mutex
	lists    []string
	failAt   string
	duration string
	// hang başarısız olmayan segmentleri context iptaline kadar bekletir
	hang bool
}

func (f *fakeFFmpeg) handle(ctx context.Context, call execx.Call) ([]byte, error) {
	if call.Name == "ffprobe" {
		if f.duration == "" {
			return nil, errors.New("no ffprobe")
		}
		return []byte(f.duration + "\n"), nil
	}
	out := call.Args[len(call.Args)-1]
	if f.failAt != "" && strings.HasSuffix(out, f.failAt) {
		return []byte("Invalid data found"), &execx.CommandError{Name: "ffmpeg", Err: errors.New("exit status 1")}
	}
	if f.hang && strings.Contains(filepath.Base(out), "segment_") {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if list := call.ArgAfter("-i"); strings.HasSuffix(list, "concat_list.txt") {
		data, err := os.ReadFile(list)
		if err != nil {
			return nil, err
		}
		f.mu.Lock()
		f.lists = append(f.lists, string(data))
		f.mu.Unlock()
	}
	return nil, os.WriteFile(out, []byte("frag"), 0644)
}

func setup(t *testing.T, ff *fakeFFmpeg) (*Cutter, *execx.Fake, string) {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "input.mp4")
	require.NoError(t, os.WriteFile(input, []byte("video"), 0644))
	runner := &execx.Fake{Handler: ff.handle}
	return New("ffmpeg", "ffprobe", runner, nil), runner, input
}

func ffmpegCalls(runner *execx.Fake) []execx.Call {
	var calls []execx.Call
	for _, c := range runner.Calls() {
		if c.Name == "ffmpeg" {
			calls = append(calls, c)
		}
	}
	return calls
}

func TestSegmentArgsFast(t *testing.T) {
	seg := timecode.Segment{Start: 185, End: 190.5}
	args := SegmentArgs(ModeFast, "in.mp4", seg, 100, false, false, "out.mp4")
	require.Equal(t, []string{
		"-loglevel", "error",
		"-ss", "185", "-i", "in.mp4", "-t", "5.5",
		"-c", "copy", "-avoid_negative_ts", "1",
		"-y", "out.mp4",
	}, args)

	muted := SegmentArgs(ModeFast, "in.mp4", seg, 0, false, true, "out.mp4")
	require.Equal(t, "-ss", muted[0])
	require.Contains(t, muted, "-an")
}

func TestSegmentArgsReencode(t *testing.T) {
	seg := timecode.Segment{Start: 10, End: 20}
	args := SegmentArgs(ModeBalanced, "in.mp4", seg, 150, false, false, "out.mp4")
	require.Equal(t, []string{
		"-loglevel", "error",
		"-ss", "10", "-i", "in.mp4", "-t", "10",
		"-c:v", "libx264", "-preset", "medium", "-crf", "23",
		"-c:a", "aac", "-b:a", "128k", "-af", "volume=1.5",
		"-strict", "experimental", "-y", "out.mp4",
	}, args)

	unity := SegmentArgs(ModeAccurate, "in.mp4", seg, 100, false, false, "out.mp4")
	require.NotContains(t, unity, "-af")

	noAudio := SegmentArgs(ModeAccurate, "in.mp4", seg, 100, true, false, "out.mp4")
	require.Contains(t, noAudio, "-an")
	require.NotContains(t, noAudio, "-c:a")
}

func TestConcatArgsAndList(t *testing.T) {
	args := ConcatArgs("/tmp/list.txt", true, "final.mp4")
	require.Equal(t, []string{"-f", "concat", "-safe", "0", "-i", "/tmp/list.txt", "-c", "copy", "-y", "final.mp4"}, args)

	content, err := ConcatList([]string{"/tmp/a.mp4", "/tmp/it's.mp4"})
	require.NoError(t, err)
	require.Equal(t, "file '/tmp/a.mp4'\nfile '/tmp/it'\\''s.mp4'\n", content)

	require.Equal(t, "segment_007.mkv", FragmentName(7, ".mkv"))
	require.Equal(t, "segment_001.mp4", FragmentName(1, ""))
}

func TestParseModeAndWorkers(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	require.Equal(t, ModeBalanced, m)

	m, err = ParseMode(" FAST ")
	require.NoError(t, err)
	require.Equal(t, ModeFast, m)

	_, err = ParseMode("turbo")
	require.Error(t, err)

	require.Equal(t, 4, ModeBalanced.Workers(0, 10))
	require.Equal(t, 2, ModeBalanced.Workers(0, 2))
	require.Equal(t, 3, ModeBalanced.Workers(8, 3))
	require.Equal(t, 1, ModeFast.Workers(8, 10))
	require.Equal(t, 1, ModeAccurate.Workers(0, 10))
}

func TestDefaultOutputPath(t *testing.T) {
	require.Equal(t, "/videos/clip_cut.mkv", DefaultOutputPath("/videos/clip.mkv"))
	require.Equal(t, "clip_cut.mp4", DefaultOutputPath("clip"))
}

func TestCutConcatenatesInOrderAndCleansTemp(t *testing.T) {
	ff := &fakeFFmpeg{}
	c, runner, input := setup(t, ff)
	tempParent := t.TempDir()
	output := filepath.Join(filepath.Dir(input), "out", "final.mkv")

	var stages []Stage
	var mu sync.Mutex
	res, err := c.Cut(context.Background(), Options{
		Input: input,
		Segments: []timecode.Segment{
			{Start: 185, End: 190}, {Start: 2405, End: 2410}, {Start: 3785, End: 3845},
		},
		Output:  output,
		Mode:    ModeBalanced,
		Volume:  100,
		TempDir: tempParent,
		OnProgress: func(p Progress) {
			mu.Lock()
			stages = append(stages, p.Stage)
			mu.Unlock()
		},
	})
	require.NoError(t, err)
	require.Equal(t, 3, res.SegmentCount)
	require.Equal(t, 3, res.Workers)
	require.InDelta(t, 70.0, res.OutputDuration, 1e-9)
	require.Len(t, res.Segments, 3)

	calls := ffmpegCalls(runner)
	require.Len(t, calls, 4)
	require.Equal(t, output, calls[3].Args[len(calls[3].Args)-1])

	require.Len(t, ff.lists, 1)
	lines := strings.Split(strings.TrimSpace(ff.lists[0]), "\n")
	require.Len(t, lines, 3)
	for i, line := range lines {
		require.True(t, strings.HasSuffix(line, FragmentName(i+1, ".mkv")+"'"), line)
	}

	entries, err := os.ReadDir(tempParent)
	require.NoError(t, err)
	require.Empty(t, entries, "geçici klasör silinmeli")
	require.FileExists(t, output)

	require.Equal(t, []Stage{StageCut, StageCut, StageCut, StageConcat, StageDone}, stages)
}

func TestCutFastModeIsSequentialAndWarnsOnVolume(t *testing.T) {
	ff := &fakeFFmpeg{duration: "100"}
	c, runner, input := setup(t, ff)

	res, err := c.Cut(context.Background(), Options{
		Input:    input,
		Segments: []timecode.Segment{{Start: 1, End: 2}, {Start: 90, End: 120}},
		Output:   filepath.Join(t.TempDir(), "o.mp4"),
		Mode:     ModeFast,
		Volume:   150,
		Workers:  8,
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Workers)
	require.InDelta(t, 100.0, res.InputDuration, 1e-9)
	require.Len(t, res.Warnings, 2)
	require.Contains(t, res.Warnings[0], "fast modda")
	require.Contains(t, res.Warnings[1], "segment 2")

	for _, call := range ffmpegCalls(runner)[:2] {
		require.True(t, call.HasArg("copy"))
		require.False(t, call.HasArg("-af"))
	}
}

func TestCutReportsFailedSegmentAndCleansTemp(t *testing.T) {
	ff := &fakeFFmpeg{failAt: FragmentName(2, ".mp4")}
	c, runner, input := setup(t, ff)
	tempParent := t.TempDir()

	res, err := c.Cut(context.Background(), Options{
		Input:    input,
		Segments: []timecode.Segment{{Start: 0, End: 1}, {Start: 2, End: 3}, {Start: 4, End: 5}},
		Output:   filepath.Join(t.TempDir(), "o.mp4"),
		Mode:     ModeAccurate,
		Volume:   100,
		TempDir:  tempParent,
	})
	require.Error(t, err)

	var segErr *SegmentError
	require.True(t, errors.As(err, &segErr))
	require.Equal(t, 2, segErr.Segment)
	require.Contains(t, err.Error(), "segment 2")
	require.True(t, res.Segments[2].Skipped)

	// concat çalıştırılmamalı
	require.Len(t, ffmpegCalls(runner), 2)

	entries, err := os.ReadDir(tempParent)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestCutParallelFailureNamesFailingSegment(t *testing.T) {
	ff := &fakeFFmpeg{failAt: FragmentName(3, ".mp4"), hang: true}
	c, runner, input := setup(t, ff)

	res, err := c.Cut(context.Background(), Options{
		Input:    input,
		Segments: []timecode.Segment{{Start: 0, End: 1}, {Start: 2, End: 3}, {Start: 4, End: 5}},
		Output:   filepath.Join(t.TempDir(), "o.mp4"),
		Mode:     ModeBalanced,
		Workers:  3,
		Volume:   100,
	})
	require.Error(t, err)

	var segErr *SegmentError
	require.True(t, errors.As(err, &segErr))
	require.Equal(t, 3, segErr.Segment)
	require.False(t, errors.Is(err, context.Canceled))
	require.True(t, res.Segments[0].Skipped)
	require.True(t, res.Segments[1].Skipped)

	for _, call := range ffmpegCalls(runner) {
		require.NotContains(t, call.Args, "concat")
	}
}

func TestCutValidation(t *testing.T) {
	c, _, input := setup(t, &fakeFFmpeg{})
	segs := []timecode.Segment{{Start: 0, End: 1}}

	_, err := c.Cut(context.Background(), Options{Input: input, Volume: 100})
	require.True(t, errors.Is(err, timecode.ErrNoSegments))

	_, err = c.Cut(context.Background(), Options{Input: input, Segments: segs, Volume: 250})
	require.True(t, errors.Is(err, ErrInvalidVolume))

	_, err = c.Cut(context.Background(), Options{Input: filepath.Join(t.TempDir(), "nope.mp4"), Segments: segs})
	require.ErrorContains(t, err, "bulunamadı")

	_, err = c.Cut(context.Background(), Options{Input: input, Segments: segs, Output: input, Volume: 100})
	require.ErrorContains(t, err, "aynı olamaz")

	_, err = c.Cut(context.Background(), Options{Input: input, Segments: segs, Mode: "turbo", Volume: 100})
	require.ErrorContains(t, err, "geçersiz mod")

	for _, bad := range []timecode.Segment{{Start: 0, End: math.NaN()}, {Start: 0, End: math.Inf(1)}, {Start: math.NaN(), End: 10}} {
		_, err = c.Cut(context.Background(), Options{Input: input, Segments: []timecode.Segment{bad}, Volume: 100})
		require.ErrorContains(t, err, "segment 1 geçersiz")
	}
}

func TestPlanDoesNotRunFFmpeg(t *testing.T) {
	c, runner, input := setup(t, &fakeFFmpeg{})

	plan, err := c.Plan(context.Background(), Options{
		Input:    input,
		Segments: []timecode.Segment{{Start: 0, End: 5}, {Start: 10, End: 15}},
		Volume:   100,
	})
	require.NoError(t, err)
	require.Equal(t, ModeBalanced, plan.Mode)
	require.Equal(t, 2, plan.Workers)
	require.InDelta(t, 10.0, plan.TotalDuration, 1e-9)
	require.Len(t, plan.Commands, 3)
	require.Contains(t, plan.Commands[2].String(), "concat")
	require.Contains(t, plan.Commands[2].String(), DefaultOutputPath(input))
	require.Empty(t, ffmpegCalls(runner))
}

func TestResultSpeed(t *testing.T) {
	require.Zero(t, Result{OutputDuration: 10}.Speed())
	require.InDelta(t, 5.0, Result{OutputDuration: 10, TotalTime: 2e9}.Speed(), 1e-9)
}
