package batch

import (
	"context"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mlihgenel/videocutter-cli/internal/timecode"
)

// Job tek bir segment kesme işini temsil eder
type Job struct {
	Index      int
	Segment    timecode.Segment
	OutputPath string
}

// Number kullanıcıya gösterilen 1 tabanlı segment numarası
func (j Job) Number() int {
	return j.Index + 1
}

// Handler tek bir işi yürüten fonksiyon
type Handler func(ctx context.Context, job Job) error

// JobResult bir işin sonucunu tutar
type JobResult struct {
	Job        Job
	Success    bool
	Skipped    bool
	Attempts   int
	OutputSize int64
	SkipReason string
	Error      error
	Duration   time.Duration
}

// SkipCancelled önceki bir hata nedeniyle çalıştırılmayan işlerin atlama sebebi
const SkipCancelled = "cancelled"

// Pool worker pool'u yönetir
type Pool struct {
	Workers    int
	RetryMax   int
	RetryDelay time.Duration
	// FailFast ilk başarısız işte kalan işleri iptal eder
	FailFast   bool
	OnProgress func(completed, total int, result JobResult) // İlerleme callback'i

	mu        sync.Mutex
	results   []JobResult
	processed atomic.Int64
}

// NewPool yeni bir worker pool oluşturur
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		Workers:    workers,
		RetryDelay: 500 * time.Millisecond,
		FailFast:   true,
	}
}

// SetRetry retry davranışını ayarlar.
func (p *Pool) SetRetry(max int, delay time.Duration) {
	if max < 0 {
		max = 0
	}
	p.RetryMax = max

	if delay >= 0 {
		p.RetryDelay = delay
	}
}

// Execute verilen işleri en fazla Workers kadar eşzamanlı çalıştırır.
// Sonuçlar iş sırasına (Index) göre döner.
func (p *Pool) Execute(ctx context.Context, jobs []Job, handle Handler) []JobResult {
	p.results = make([]JobResult, 0, len(jobs))
	p.processed.Store(0)

	if len(jobs) == 0 {
		return p.results
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Worker sayısını iş sayısına göre ayarla
	workers := p.Workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	jobChan := make(chan Job, len(jobs))
	resultChan := make(chan JobResult, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				result := p.processJob(ctx, job, handle)
				if !result.Success && !result.Skipped && p.FailFast {
					cancel()
				}
				resultChan <- result
			}
		}()
	}

	for _, job := range jobs {
		jobChan <- job
	}
	close(jobChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	total := len(jobs)
	for result := range resultChan {
		p.mu.Lock()
		p.results = append(p.results, result)
		p.mu.Unlock()

		completed := int(p.processed.Add(1))
		if p.OnProgress != nil {
			p.OnProgress(completed, total, result)
		}
	}

	sort.Slice(p.results, func(i, j int) bool {
		return p.results[i].Job.Index < p.results[j].Job.Index
	})
	return p.results
}

// processJob tek bir işi retry ile çalıştırır
func (p *Pool) processJob(ctx context.Context, job Job, handle Handler) JobResult {
	start := time.Now()

	if ctx.Err() != nil {
		return JobResult{
			Job:        job,
			Skipped:    true,
			SkipReason: SkipCancelled,
		}
	}

	attempts := p.RetryMax + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := handle(ctx, job)
		if err == nil {
			size := int64(0)
			if info, statErr := os.Stat(job.OutputPath); statErr == nil {
				size = info.Size()
			}
			return JobResult{
				Job:        job,
				Success:    true,
				Attempts:   attempt,
				OutputSize: size,
				Duration:   time.Since(start),
			}
		}

		lastErr = err
		// Başka bir işin hatası veya kullanıcı iptali yüzünden yarıda kesilen iş
		// hata değil, atlanmış sayılır; gerçek hata ilk başarısız işte kalır.
		if ctx.Err() != nil {
			return JobResult{
				Job:        job,
				Skipped:    true,
				SkipReason: SkipCancelled,
				Attempts:   attempt,
				Duration:   time.Since(start),
			}
		}
		if attempt < attempts && p.RetryDelay > 0 {
			select {
			case <-time.After(p.RetryDelay):
			case <-ctx.Done():
				return JobResult{Job: job, Attempts: attempt, Error: lastErr, Duration: time.Since(start)}
			}
		}
	}

	return JobResult{
		Job:      job,
		Attempts: attempts,
		Error:    lastErr,
		Duration: time.Since(start),
	}
}

// FirstFailure iş sırasına göre ilk başarısız sonucu döner
func FirstFailure(results []JobResult) (JobResult, bool) {
	for _, r := range results {
		if !r.Success && !r.Skipped {
			return r, true
		}
	}
	return JobResult{}, false
}

// Summary iş sonuçlarını özetler
type Summary struct {
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
	Duration  time.Duration
	Errors    []JobError
}

// JobError başarısız olan bir işin hata bilgisi
type JobError struct {
	Segment  int
	Error    string
	Attempts int
}

// GetSummary iş sonuçlarından özet oluşturur
func GetSummary(results []JobResult, totalDuration time.Duration) Summary {
	s := Summary{
		Total:    len(results),
		Duration: totalDuration,
	}

	for _, r := range results {
		if r.Success {
			s.Succeeded++
		} else if r.Skipped {
			s.Skipped++
		} else {
			s.Failed++
			msg := "bilinmeyen hata"
			if r.Error != nil {
				msg = r.Error.Error()
			}
			s.Errors = append(s.Errors, JobError{
				Segment:  r.Job.Number(),
				Error:    msg,
				Attempts: r.Attempts,
			})
		}
	}

	return s
}
