package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mlihgenel/videocutter-cli/internal/timecode"
)

func makeJobs(dir string, n int) []Job {
	jobs := make([]Job, n)
	for i := range jobs {
		jobs[i] = Job{
			Index:      i,
			Segment:    timecode.Segment{Start: float64(i * 10), End: float64(i*10 + 5)},
			OutputPath: filepath.Join(dir, "segment_"+string(rune('a'+i))+".mp4"),
		}
	}
	return jobs
}

func TestPoolRetryEventuallySucceeds(t *testing.T) {
	dir := t.TempDir()
	jobs := makeJobs(dir, 1)

	attempts := 0
	pool := NewPool(1)
	pool.SetRetry(2, 0)
	results := pool.Execute(context.Background(), jobs, func(_ context.Context, job Job) error {
		attempts++
		if attempts <= 2 {
			return errors.New("forced failure")
		}
		return os.WriteFile(job.OutputPath, []byte("ok"), 0644)
	})

	require.Len(t, results, 1)
	r := results[0]
	require.True(t, r.Success, "error: %v", r.Error)
	require.Equal(t, 3, r.Attempts)
	require.Equal(t, int64(2), r.OutputSize)
}

func TestPoolResultsKeepJobOrder(t *testing.T) {
	dir := t.TempDir()
	jobs := makeJobs(dir, 6)

	var mu sync.Mutex
	var progress []int
	pool := NewPool(3)
	pool.OnProgress = func(completed, total int, _ JobResult) {
		mu.Lock()
		progress = append(progress, completed)
		mu.Unlock()
		require.Equal(t, 6, total)
	}

	results := pool.Execute(context.Background(), jobs, func(_ context.Context, job Job) error {
		// Sondaki işler önce bitsin
		time.Sleep(time.Duration(6-job.Index) * time.Millisecond)
		return nil
	})

	require.Len(t, results, 6)
	for i, r := range results {
		require.Equal(t, i, r.Job.Index)
		require.True(t, r.Success)
	}
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, progress)
}

func TestPoolLimitsConcurrency(t *testing.T) {
	jobs := makeJobs(t.TempDir(), 8)

	var running, peak atomic.Int32
	pool := NewPool(2)
	pool.Execute(context.Background(), jobs, func(_ context.Context, _ Job) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		running.Add(-1)
		return nil
	})

	require.LessOrEqual(t, peak.Load(), int32(2))
}

func TestPoolFailFastSkipsRemaining(t *testing.T) {
	jobs := makeJobs(t.TempDir(), 4)

	pool := NewPool(1)
	pool.SetRetry(0, 0)
	results := pool.Execute(context.Background(), jobs, func(_ context.Context, job Job) error {
		if job.Index == 1 {
			return errors.New("bad segment")
		}
		return nil
	})

	require.Len(t, results, 4)
	require.True(t, results[0].Success)
	require.False(t, results[1].Success)
	require.True(t, results[2].Skipped)
	require.True(t, results[3].Skipped)
	require.Equal(t, SkipCancelled, results[3].SkipReason)

	failed, ok := FirstFailure(results)
	require.True(t, ok)
	require.Equal(t, 2, failed.Job.Number())

	summary := GetSummary(results, time.Second)
	require.Equal(t, 1, summary.Succeeded)
	require.Equal(t, 1, summary.Failed)
	require.Equal(t, 2, summary.Skipped)
	require.Equal(t, 2, summary.Errors[0].Segment)
	require.Equal(t, "bad segment", summary.Errors[0].Error)
}

func TestPoolParallelFailureKeepsRealError(t *testing.T) {
	jobs := makeJobs(t.TempDir(), 3)

	pool := NewPool(3)
	pool.SetRetry(0, 0)
	results := pool.Execute(context.Background(), jobs, func(ctx context.Context, job Job) error {
		if job.Index == 2 {
			return errors.New("invalid data")
		}
		<-ctx.Done()
		return ctx.Err()
	})

	require.Len(t, results, 3)
	for _, r := range results[:2] {
		require.True(t, r.Skipped)
		require.Equal(t, SkipCancelled, r.SkipReason)
		require.NoError(t, r.Error)
	}

	failed, ok := FirstFailure(results)
	require.True(t, ok)
	require.Equal(t, 3, failed.Job.Number())
	require.EqualError(t, failed.Error, "invalid data")

	summary := GetSummary(results, time.Second)
	require.Equal(t, 1, summary.Failed)
	require.Equal(t, 2, summary.Skipped)
}

func TestPoolCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	results := NewPool(2).Execute(ctx, makeJobs(t.TempDir(), 2), func(context.Context, Job) error {
		called = true
		return nil
	})
	require.False(t, called)
	require.Len(t, results, 2)
	require.True(t, results[0].Skipped)

	_, ok := FirstFailure(results)
	require.False(t, ok)
}

func TestPoolNoJobs(t *testing.T) {
	results := NewPool(0).Execute(context.Background(), nil, nil)
	require.Empty(t, results)
}
