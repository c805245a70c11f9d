package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatElapsed(t *testing.T) {
	require.Equal(t, "250ms", FormatElapsed(250*time.Millisecond))
	require.Equal(t, "1.50s", FormatElapsed(1500*time.Millisecond))
	require.Equal(t, "2m 5s", FormatElapsed(125*time.Second))
}

func TestProgressBarWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	pb := newProgressBar(&buf, 3, "Segmentler")
	pb.Update(1)
	pb.Update(10)
	pb.Finish()
	require.Contains(t, buf.String(), "Segmentler")
	require.Contains(t, buf.String(), "3/3")
}
