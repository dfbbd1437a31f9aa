package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// stubResult and stubJob stand in for contract grounding jobs so the pool
// mechanics can be tested without a pipeline behind them.
type stubResult struct {
	contract string
	err      error
}

func (r stubResult) GetError() error { return r.err }

type stubJob struct {
	contract string
	delay    time.Duration
	fail     bool
	runs     *int32
	inflight *int32
	peak     *int32
}

func (j stubJob) Execute(ctx context.Context) Result {
	if j.runs != nil {
		atomic.AddInt32(j.runs, 1)
	}
	if j.inflight != nil {
		n := atomic.AddInt32(j.inflight, 1)
		for {
			p := atomic.LoadInt32(j.peak)
			if n <= p || atomic.CompareAndSwapInt32(j.peak, p, n) {
				break
			}
		}
		defer atomic.AddInt32(j.inflight, -1)
	}
	if j.delay > 0 {
		select {
		case <-time.After(j.delay):
		case <-ctx.Done():
			return stubResult{contract: j.contract, err: ctx.Err()}
		}
	}
	if j.fail {
		return stubResult{contract: j.contract, err: errors.New("grounding failed")}
	}
	return stubResult{contract: j.contract}
}

func TestNewPoolClampsWorkers(t *testing.T) {
	for _, tc := range []struct {
		in, want int
	}{
		{4, 4},
		{1, 1},
		{0, 1},
		{-3, 1},
	} {
		if got := NewPool(tc.in).workers; got != tc.want {
			t.Errorf("NewPool(%d): expected %d workers, got %d", tc.in, tc.want, got)
		}
	}
}

func TestPoolRunsEveryJob(t *testing.T) {
	pool := NewPool(3)
	pool.Start()

	var runs int32
	count := 12
	for i := 0; i < count; i++ {
		pool.Submit(stubJob{contract: "nda", runs: &runs})
	}

	results := pool.Wait()
	if len(results) != count {
		t.Errorf("expected %d results, got %d", count, len(results))
	}
	if got := atomic.LoadInt32(&runs); got != int32(count) {
		t.Errorf("expected %d executions, got %d", count, got)
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	workers := 3
	pool := NewPool(workers)
	pool.Start()

	var inflight, peak int32
	count := 12
	for i := 0; i < count; i++ {
		pool.Submit(stubJob{
			contract: "msa",
			delay:    15 * time.Millisecond,
			inflight: &inflight,
			peak:     &peak,
		})
	}

	results := pool.Wait()
	if len(results) != count {
		t.Fatalf("expected %d results, got %d", count, len(results))
	}
	if got := atomic.LoadInt32(&peak); got > int32(workers) {
		t.Errorf("peak concurrency %d exceeded %d workers", got, workers)
	}
}

func TestPoolIsolatesFailures(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	pool.Submit(stubJob{contract: "bad-scan", fail: true})
	pool.Submit(stubJob{contract: "acme-nda"})
	pool.Submit(stubJob{contract: "globex-dpa"})

	results := pool.Wait()
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	failed := 0
	for _, res := range results {
		if res.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected exactly 1 failed contract, got %d", failed)
	}
}

func TestPoolSubmitAfterShutdown(t *testing.T) {
	pool := NewPool(2)
	pool.Start()
	pool.Shutdown()

	done := make(chan struct{})
	go func() {
		pool.Submit(stubJob{contract: "late"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked after shutdown")
	}
}

func TestPoolShutdownCancelsInFlight(t *testing.T) {
	pool := NewPool(1)
	pool.Start()

	var runs int32
	pool.Submit(stubJob{
		contract: "slow",
		delay:    500 * time.Millisecond,
		runs:     &runs,
	})
	for atomic.LoadInt32(&runs) == 0 {
		time.Sleep(time.Millisecond)
	}

	pool.Shutdown()

	// The results channel must close so readers do not hang.
	drained := make(chan struct{})
	go func() {
		for range pool.results {
		}
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatal("results channel not closed after shutdown")
	}
}

func TestResultCollector(t *testing.T) {
	c := NewResultCollector()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(fail bool) {
			defer wg.Done()
			if fail {
				c.Add(stubResult{err: errors.New("grounding failed")})
				return
			}
			c.Add(stubResult{contract: "nda"})
		}(i%4 == 0)
	}
	wg.Wait()

	results := c.Results()
	if len(results) != 8 {
		t.Fatalf("expected 8 results, got %d", len(results))
	}
	failed := 0
	for _, res := range results {
		if res.GetError() != nil {
			failed++
		}
	}
	if failed != 2 {
		t.Errorf("expected 2 failed results, got %d", failed)
	}
}
