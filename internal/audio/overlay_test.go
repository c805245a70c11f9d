package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mlihgenel/videocutter-cli/internal/execx"
)

func writeFiles(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	video := filepath.Join(dir, "cut_temp.mp4")
	audio := filepath.Join(dir, "music.mp3")
	require.NoError(t, os.WriteFile(video, []byte("v"), 0644))
	require.NoError(t, os.WriteFile(audio, []byte("a"), 0644))
	return video, audio
}

func TestOverlayMixSucceeds(t *testing.T) {
	video, audio := writeFiles(t)
	runner := &execx.Fake{}
	o := New("ffmpeg", runner, nil)

	require.NoError(t, o.Overlay(context.Background(), video, audio, 50, "out.mp4"))

	calls := runner.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, "[1:a]volume=0.5[a1];[0:a][a1]amix=inputs=2:duration=first[aout]", calls[0].ArgAfter("-filter_complex"))
	require.Equal(t, "192k", calls[0].ArgAfter("-b:a"))
	require.True(t, calls[0].HasArg("-shortest"))
	require.Equal(t, []string{"-loglevel", "error"}, calls[0].Args[:2])
}

func TestOverlayFallsBackWhenVideoHasNoAudio(t *testing.T) {
	video, audio := writeFiles(t)
	runner := &execx.Fake{Handler: func(_ context.Context, call execx.Call) ([]byte, error) {
		if call.HasArg("-filter_complex") {
			return []byte("Stream specifier ':a' matches no streams"), errors.New("exit status 1")
		}
		return nil, nil
	}}
	o := New("ffmpeg", runner, nil)

	require.NoError(t, o.Overlay(context.Background(), video, audio, 200, "out.mp4"))

	calls := runner.Calls()
	require.Len(t, calls, 2)
	require.Equal(t, "volume=2", calls[1].ArgAfter("-filter:a"))
	require.True(t, calls[1].HasArg("1:a"))
	require.False(t, calls[1].HasArg("[aout]"))
}

func TestOverlayBothFail(t *testing.T) {
	video, audio := writeFiles(t)
	runner := &execx.Fake{Handler: func(context.Context, execx.Call) ([]byte, error) {
		return nil, errors.New("exit status 1")
	}}
	err := New("ffmpeg", runner, nil).Overlay(context.Background(), video, audio, 100, "out.mp4")
	require.ErrorContains(t, err, "ses eklenemedi")
}

func TestOverlayValidation(t *testing.T) {
	video, audio := writeFiles(t)
	o := New("ffmpeg", &execx.Fake{}, nil)

	err := o.Overlay(context.Background(), video, audio, 201, "out.mp4")
	require.True(t, errors.Is(err, ErrInvalidVolume))

	err = o.Overlay(context.Background(), video, filepath.Join(t.TempDir(), "missing.mp3"), 100, "out.mp4")
	require.ErrorContains(t, err, "ses dosyası bulunamadı")
}

func TestTempPathAndAudioExt(t *testing.T) {
	require.Equal(t, "/v/final_temp.mp4", TempPath("/v/final.mp4"))
	require.True(t, IsAudioFile("song.FLAC"))
	require.False(t, IsAudioFile("clip.mp4"))
}
