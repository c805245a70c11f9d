package upload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mlihgenel/videocutter-cli/internal/execx"
)

const sampleConfig = "[gdrive]\ntype = drive\nscope = drive\n"

func TestValidateConfig(t *testing.T) {
	require.NoError(t, ValidateConfig(sampleConfig))
	require.True(t, errors.Is(ValidateConfig(""), ErrInvalidConfig))
	require.True(t, errors.Is(ValidateConfig("type = drive"), ErrInvalidConfig))
	require.True(t, errors.Is(ValidateConfig("[gdrive]\nscope = drive"), ErrInvalidConfig))
}

func TestNewUploaderWritesPrivateTempConfig(t *testing.T) {
	u, err := NewUploader("rclone", sampleConfig, &execx.Fake{}, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(u.ConfigPath)
	require.NoError(t, err)
	require.Equal(t, sampleConfig, string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(u.ConfigPath)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	path := u.ConfigPath
	require.NoError(t, u.Close())
	require.NoFileExists(t, path)
	require.NoError(t, u.Close())
}

func TestListRemotesAndSelect(t *testing.T) {
	runner := &execx.Fake{Handler: func(context.Context, execx.Call) ([]byte, error) {
		return []byte("gdrive:\n  backup:\n\n"), nil
	}}
	u, err := NewUploader("rclone", sampleConfig, runner, nil)
	require.NoError(t, err)
	defer u.Close()

	remotes, err := u.ListRemotes(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"gdrive", "backup"}, remotes)
	require.Equal(t, u.ConfigPath, runner.Calls()[0].ArgAfter("--config"))

	r, err := SelectRemote(remotes, "")
	require.NoError(t, err)
	require.Equal(t, "gdrive", r)

	r, err = SelectRemote(remotes, "backup:")
	require.NoError(t, err)
	require.Equal(t, "backup", r)

	_, err = SelectRemote(remotes, "s3")
	require.ErrorContains(t, err, "remote bulunamadı")

	_, err = SelectRemote(nil, "")
	require.True(t, errors.Is(err, ErrNoRemotes))
}

func TestUploadStreamsProgress(t *testing.T) {
	file := filepath.Join(t.TempDir(), "final.mp4")
	require.NoError(t, os.WriteFile(file, []byte("video"), 0644))

	runner := &execx.Fake{Handler: func(_ context.Context, call execx.Call) ([]byte, error) {
		if call.HasArg("copy") {
			return []byte("1.000 MiB / 5.000 MiB, 20%, 1.000 MiB/s, ETA 4s\n5.000 MiB / 5.000 MiB, 100%, 1.000 MiB/s, ETA 0s\n"), nil
		}
		return []byte("rclone v1.66.0"), nil
	}}
	u, err := NewUploader("rclone", sampleConfig, runner, nil)
	require.NoError(t, err)
	defer u.Close()

	var lines []string
	err = u.Upload(context.Background(), file, "gdrive", "/videos/2024", func(l string) { lines = append(lines, l) })
	require.NoError(t, err)
	require.Len(t, lines, 2)

	calls := runner.Calls()
	require.Len(t, calls, 2)
	require.Equal(t, []string{"version"}, calls[0].Args)
	require.Equal(t, []string{
		"copy", file, "gdrive:videos/2024",
		"--config", u.ConfigPath,
		"--progress", "--stats", "1s", "--stats-one-line",
	}, calls[1].Args)
}

func TestUploadFailures(t *testing.T) {
	missingRclone := &execx.Fake{Handler: func(context.Context, execx.Call) ([]byte, error) {
		return nil, errors.New("executable file not found")
	}}
	u, err := NewUploader("rclone", sampleConfig, missingRclone, nil)
	require.NoError(t, err)
	defer u.Close()

	err = u.Upload(context.Background(), filepath.Join(t.TempDir(), "nope.mp4"), "gdrive", "", nil)
	require.ErrorContains(t, err, "dosya bulunamadı")

	file := filepath.Join(t.TempDir(), "final.mp4")
	require.NoError(t, os.WriteFile(file, []byte("video"), 0644))
	err = u.Upload(context.Background(), file, "gdrive", "", nil)
	require.True(t, errors.Is(err, ErrRcloneMissing))
}

func TestDestination(t *testing.T) {
	require.Equal(t, "gdrive:", Destination("gdrive", ""))
	require.Equal(t, "gdrive:a/b", Destination("gdrive", " /a/b "))
}
