package download

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mlihgenel/videocutter-cli/internal/execx"
)

const sampleInfo = `{
  "id": "abc123",
  "title": "Konferans Kaydı",
  "duration": 3725.5,
  "uploader": "Kanal",
  "view_count": 1024,
  "webpage_url": "https://example.com/watch?v=abc123",
  "formats": [{"height": 360}, {"height": null}, {"height": 1080}, {}]
}`

func TestParseInfo(t *testing.T) {
	info, err := ParseInfo([]byte(sampleInfo))
	require.NoError(t, err)
	require.Equal(t, "Konferans Kaydı", info.Title)
	require.InDelta(t, 3725.5, info.Duration, 1e-9)
	require.Equal(t, int64(1024), info.ViewCount)
	require.Equal(t, 4, info.FormatCount)
	require.Equal(t, 1080, info.MaxHeight)

	empty, err := ParseInfo([]byte(`{}`))
	require.NoError(t, err)
	require.Equal(t, "Unknown", empty.Title)
	require.Equal(t, "Unknown", empty.Uploader)

	_, err = ParseInfo([]byte("not json"))
	require.Error(t, err)
}

func TestParseProgress(t *testing.T) {
	p, ok := ParseProgress("[download]  12.3% of  45.67MiB at  1.23MiB/s ETA 00:30")
	require.True(t, ok)
	require.InDelta(t, 12.3, p.Percent, 1e-9)
	require.Equal(t, "45.67MiB", p.Total)
	require.Equal(t, "1.23MiB/s", p.Speed)
	require.Equal(t, "00:30", p.ETA)

	p, ok = ParseProgress("[download]  50.0% of ~ 10.00MiB at 2.00MiB/s ETA 00:05")
	require.True(t, ok)
	require.Equal(t, "10.00MiB", p.Total)

	p, ok = ParseProgress("[download] 100% of 45.67MiB in 00:12")
	require.True(t, ok)
	require.InDelta(t, 100.0, p.Percent, 1e-9)
	require.Empty(t, p.ETA)

	_, ok = ParseProgress("[download] Destination: downloads/video.mp4")
	require.False(t, ok)
	_, ok = ParseProgress("[Merger] Merging formats into \"video.mp4\"")
	require.False(t, ok)
}

func TestOutputTemplate(t *testing.T) {
	d := &Downloader{OutputDir: "dl"}
	require.Equal(t, filepath.Join("dl", "%(title)s.%(ext)s"), d.OutputTemplate(""))
	require.Equal(t, filepath.Join("dl", "talk.%(ext)s"), d.OutputTemplate("talk"))
	require.Equal(t, filepath.Join("dl", "talk.mp4"), d.OutputTemplate("talk.mp4"))
}

func TestDownloadReturnsFinalPath(t *testing.T) {
	runner := &execx.Fake{Handler: func(_ context.Context, call execx.Call) ([]byte, error) {
		return []byte("[youtube] abc123: Downloading webpage\n" +
			"[download]  10.0% of 5.00MiB at 1.00MiB/s ETA 00:04\n" +
			"[download] 100% of 5.00MiB in 00:05\n" +
			"[VideoConvertor] Not converting media file\n" +
			"dl/Konferans Kaydı.mp4\n"), nil
	}}
	d, err := New("yt-dlp", filepath.Join(t.TempDir(), "dl"), runner, nil)
	require.NoError(t, err)
	require.DirExists(t, d.OutputDir)

	var percents []float64
	path, err := d.Download(context.Background(), "https://example.com/v", "", func(p Progress) {
		percents = append(percents, p.Percent)
	})
	require.NoError(t, err)
	require.Equal(t, "dl/Konferans Kaydı.mp4", path)
	require.Equal(t, []float64{10, 100}, percents)

	call := runner.Calls()[0]
	require.Equal(t, Format, call.ArgAfter("-f"))
	require.Equal(t, "mp4", call.ArgAfter("--merge-output-format"))
	require.Equal(t, "after_move:filepath", call.ArgAfter("--print"))
	require.Equal(t, "https://example.com/v", call.Args[len(call.Args)-1])
}

func TestDownloadFailures(t *testing.T) {
	failing := &execx.Fake{Handler: func(context.Context, execx.Call) ([]byte, error) {
		return []byte("ERROR: Unsupported URL"), errors.New("exit status 1")
	}}
	d, err := New("yt-dlp", t.TempDir(), failing, nil)
	require.NoError(t, err)

	_, err = d.Download(context.Background(), "https://bad", "", nil)
	require.ErrorContains(t, err, "indirme başarısız")

	_, err = d.Download(context.Background(), " ", "", nil)
	require.ErrorContains(t, err, "URL boş")

	silent, err := New("yt-dlp", t.TempDir(), &execx.Fake{}, nil)
	require.NoError(t, err)
	_, err = silent.Download(context.Background(), "https://ok", "", nil)
	require.ErrorContains(t, err, "yolu alınamadı")
}

func TestInfoRunsYtDlpJSON(t *testing.T) {
	runner := &execx.Fake{Handler: func(context.Context, execx.Call) ([]byte, error) {
		return []byte(sampleInfo), nil
	}}
	d, err := New("yt-dlp", t.TempDir(), runner, nil)
	require.NoError(t, err)

	info, err := d.Info(context.Background(), "https://example.com/v")
	require.NoError(t, err)
	require.Equal(t, "abc123", info.ID)
	require.Equal(t, []string{"-J", "--no-warnings", "--no-playlist", "https://example.com/v"}, runner.Calls()[0].Args)
}
