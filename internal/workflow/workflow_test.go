package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mlihgenel/videocutter-cli/internal/cutter"
	"github.com/mlihgenel/videocutter-cli/internal/execx"
	"github.com/mlihgenel/videocutter-cli/internal/timecode"
)

var testTools = Tools{FFmpeg: "ffmpeg", FFprobe: "ffprobe", YtDlp: "yt-dlp", Rclone: "rclone"}

// fakeTools ffmpeg/yt-dlp/rclone davranışını taklit eder
func fakeTools(t *testing.T, downloadDir string, failUpload bool) *execx.Fake {
	t.Helper()
	return &execx.Fake{Handler: func(_ context.Context, call execx.Call) ([]byte, error) {
		switch call.Name {
		case "ffprobe":
			return nil, errors.New("no probe")
		case "ffmpeg":
			out := call.Args[len(call.Args)-1]
			return nil, os.WriteFile(out, []byte("media"), 0644)
		case "yt-dlp":
			if call.HasArg("-J") {
				return []byte(`{"title":"Demo","duration":600,"formats":[{"height":720}]}`), nil
			}
			path := filepath.Join(downloadDir, "Demo.mp4")
			if err := os.WriteFile(path, []byte("video"), 0644); err != nil {
				return nil, err
			}
			return []byte("[download]  50.0% of 1.00MiB at 1.00MiB/s ETA 00:01\n" + path + "\n"), nil
		case "rclone":
			switch call.Args[0] {
			case "version":
				return []byte("rclone v1.66.0"), nil
			case "listremotes":
				return []byte("gdrive:\n"), nil
			case "copy":
				if failUpload {
					return []byte("Failed to copy"), errors.New("exit status 1")
				}
				return []byte("Transferred: 1 / 1, 100%"), nil
			}
		}
		return nil, errors.New("unexpected call: " + call.Name)
	}}
}

func TestExecuteFullWorkflow(t *testing.T) {
	dir := t.TempDir()
	dlDir := filepath.Join(dir, "dl")
	audioFile := filepath.Join(dir, "music.mp3")
	require.NoError(t, os.WriteFile(audioFile, []byte("a"), 0644))
	output := filepath.Join(dir, "final.mp4")

	runner := fakeTools(t, dlDir, false)
	var mu sync.Mutex
	var steps []string
	ex := &Executor{Tools: testTools, Runner: runner, OnEvent: func(ev Event) {
		mu.Lock()
		steps = append(steps, ev.Step)
		mu.Unlock()
	}}

	segs, err := timecode.ParseSegments("00:10-00:20|01:00-01:30")
	require.NoError(t, err)

	res, err := ex.Execute(context.Background(), Job{
		URL:          "https://example.com/v",
		DownloadDir:  dlDir,
		Segments:     segs,
		Output:       output,
		Mode:         cutter.ModeBalanced,
		Volume:       100,
		AudioFile:    audioFile,
		AudioVolume:  80,
		Upload:       true,
		RemotePath:   "videos",
		RcloneConfig: "[gdrive]\ntype = drive\n",
	})
	require.NoError(t, err)

	require.Len(t, res.Steps, 4)
	for i, name := range []string{StepDownload, StepCut, StepAudio, StepUpload} {
		require.Equal(t, name, res.Steps[i].Type)
		require.True(t, res.Steps[i].Success)
	}
	require.Equal(t, filepath.Join(dlDir, "Demo.mp4"), res.Input)
	require.Equal(t, output, res.FinalOutput)
	require.Equal(t, "gdrive:videos", res.Destination)
	require.NotNil(t, res.Cut)
	require.Equal(t, 2, res.Cut.SegmentCount)

	// kesim geçici dosyaya yazılır, ses eklendikten sonra silinir
	require.Equal(t, filepath.Join(dir, "final_temp.mp4"), res.Steps[1].Output)
	require.NoFileExists(t, res.Steps[1].Output)
	require.FileExists(t, output)

	require.Contains(t, steps, StepDownload)
	require.Contains(t, steps, StepUpload)

	txt, err := RenderReport("txt", res)
	require.NoError(t, err)
	require.Contains(t, txt, "Video Cut Report")
	require.Contains(t, txt, "[ok] #4 upload")
	require.Contains(t, txt, "Uploaded:   gdrive:videos")
	require.Contains(t, txt, "[success] #2 01:00.000 -> 01:30.000")

	js, err := RenderReport("json", res)
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(js), &payload))
	cut := payload["cut"].(map[string]any)
	require.Equal(t, float64(2), cut["segment_count"])
	require.Len(t, cut["segments"], 2)

	off, err := RenderReport("", res)
	require.NoError(t, err)
	require.Empty(t, off)

	_, err = RenderReport("xml", res)
	require.Error(t, err)
}

func TestExecuteCutOnlyUsesDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "talk.mkv")
	require.NoError(t, os.WriteFile(input, []byte("video"), 0644))

	ex := &Executor{Tools: testTools, Runner: fakeTools(t, dir, false)}
	res, err := ex.Execute(context.Background(), Job{
		Input:    input,
		Segments: []timecode.Segment{{Start: 0, End: 5}},
		Mode:     cutter.ModeFast,
		Volume:   100,
	})
	require.NoError(t, err)
	require.Len(t, res.Steps, 1)
	require.Equal(t, filepath.Join(dir, "talk_cut.mkv"), res.FinalOutput)
}

func TestExecuteStopsOnFailedUpload(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "talk.mp4")
	require.NoError(t, os.WriteFile(input, []byte("video"), 0644))

	ex := &Executor{Tools: testTools, Runner: fakeTools(t, dir, true)}
	res, err := ex.Execute(context.Background(), Job{
		Input:        input,
		Segments:     []timecode.Segment{{Start: 0, End: 5}},
		Mode:         cutter.ModeAccurate,
		Volume:       100,
		Upload:       true,
		Remote:       "gdrive",
		RcloneConfig: "[gdrive]\ntype = drive\n",
	})
	require.Error(t, err)
	require.ErrorContains(t, err, "upload adımı başarısız")
	require.Len(t, res.Steps, 2)
	require.False(t, res.Steps[1].Success)
	require.Contains(t, res.Steps[1].Error, "yükleme başarısız")
}

func TestExecuteValidatesBeforeRunning(t *testing.T) {
	runner := &execx.Fake{}
	ex := &Executor{Tools: testTools, Runner: runner}

	_, err := ex.Execute(context.Background(), Job{
		Input:        "x.mp4",
		Segments:     []timecode.Segment{{Start: 0, End: 1}},
		Upload:       true,
		RcloneConfig: "not a config",
	})
	require.ErrorContains(t, err, "geçersiz rclone config")

	_, err = ex.Execute(context.Background(), Job{
		Input:     "x.mp4",
		Segments:  []timecode.Segment{{Start: 0, End: 1}},
		AudioFile: filepath.Join(t.TempDir(), "missing.mp3"),
	})
	require.ErrorContains(t, err, "ses dosyası bulunamadı")
	require.Empty(t, runner.Calls())
}

func TestLoadPlan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.json")
	content := `{
  "input": "in.mp4",
  "segments": ["03:05-03:10", "40:05-40:10"],
  "mode": "accurate",
  "volume": 0,
  "retry": 1,
  "retry_delay": "250ms",
  "audio": {"file": "music.mp3"},
  "upload": {"remote": "gdrive", "path": "cuts"}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	plan, err := LoadPlan(path)
	require.NoError(t, err)
	require.Equal(t, SegmentList("03:05-03:10|40:05-40:10"), plan.Segments)

	job, err := plan.Job()
	require.NoError(t, err)
	require.Len(t, job.Segments, 2)
	require.Equal(t, cutter.ModeAccurate, job.Mode)
	require.Equal(t, 0, job.Volume)
	require.Equal(t, 100, job.AudioVolume)
	require.True(t, job.Upload)
	require.Equal(t, "cuts", job.RemotePath)
	require.Equal(t, "250ms", job.RetryDelay.String())
}

func TestValidatePlanErrors(t *testing.T) {
	vol := 300
	cases := []Plan{
		{Segments: "00:01-00:02"},
		{Input: "a.mp4"},
		{Input: "a.mp4", Segments: "00:05-00:01"},
		{Input: "a.mp4", Segments: "00:01-00:02", Mode: "turbo"},
		{Input: "a.mp4", Segments: "00:01-00:02", Volume: &vol},
		{Input: "a.mp4", Segments: "00:01-00:02", Audio: &AudioPlan{}},
		{Input: "a.mp4", Segments: "00:01-00:02", RetryDelay: "later"},
	}
	for i, p := range cases {
		require.Error(t, ValidatePlan(p), "case %d", i)
	}

	var p Plan
	err := json.Unmarshal([]byte(`{"segments": 5}`), &p)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "segments"))
}

func TestExecuteWritesDefaultNameIntoOutputDir(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "talk.mp4")
	require.NoError(t, os.WriteFile(input, []byte("video"), 0644))
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(outDir, 0755))

	ex := &Executor{Tools: testTools, Runner: fakeTools(t, dir, false)}
	res, err := ex.Execute(context.Background(), Job{
		Input:     input,
		Segments:  []timecode.Segment{{Start: 0, End: 5}},
		OutputDir: outDir,
		Mode:      cutter.ModeFast,
		Volume:    100,
	})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(outDir, "talk_cut.mp4"), res.FinalOutput)
	require.FileExists(t, res.FinalOutput)
}
