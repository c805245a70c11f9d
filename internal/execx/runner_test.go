package execx

import (
	"bufio"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestScanLinesCR(t *testing.T) {
	scanner := bufio.NewScanner(strings.NewReader("a\rb\nc\r\nd"))
	scanner.Split(ScanLinesCR)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.Equal(t, []string{"a", "b", "c", "", "d"}, lines)
}

func TestCommandErrorIncludesOutput(t *testing.T) {
	base := errors.New("exit status 1")
	err := &CommandError{Name: "ffmpeg", Output: "  Invalid data found\n", Err: base}
	require.Contains(t, err.Error(), "ffmpeg hatası")
	require.Contains(t, err.Error(), "Invalid data found")
	require.True(t, errors.Is(err, base))

	bare := &CommandError{Name: "rclone", Err: base}
	require.Equal(t, "rclone hatası: exit status 1", bare.Error())
}

func TestFakeRecordsCallsAndStreamsLines(t *testing.T) {
	f := &Fake{Handler: func(_ context.Context, call Call) ([]byte, error) {
		return []byte("one\n\ntwo\n"), nil
	}}

	var got []string
	err := f.Stream(context.Background(), func(line string) { got = append(got, line) }, "rclone", "copy", "-i", "x")
	require.NoError(t, err)
	require.Equal(t, []string{"one", "two"}, got)

	calls := f.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, "x", calls[0].ArgAfter("-i"))
	require.True(t, calls[0].HasArg("copy"))
	require.False(t, calls[0].HasArg("move"))
}

func TestFailedCommandLogsAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewRunner(zap.New(core))

	// Test binary'si bilinmeyen flag ile hata koduyla çıkar
	_, err := r.Run(context.Background(), os.Args[0], "-test.unknown-flag")
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))

	err = r.Stream(context.Background(), nil, os.Args[0], "-test.unknown-flag")
	require.True(t, errors.As(err, &cmdErr))

	failures := logs.FilterMessage("komut başarısız").All()
	require.Len(t, failures, 2)
	for _, entry := range failures {
		require.Equal(t, zapcore.DebugLevel, entry.Level)
	}
	require.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}
