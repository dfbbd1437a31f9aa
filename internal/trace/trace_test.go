package trace

import (
	"sync"
	"testing"
)

func TestCollector_OrderAndCopy(t *testing.T) {
	c := NewCollector()
	c.Emit(Record{Kind: KindIssueBound, ClaimID: "a"})
	c.Emit(Record{Kind: KindIssueCleared, ClaimID: "b"})

	got := c.Records()
	if len(got) != 2 || got[0].ClaimID != "a" || got[1].ClaimID != "b" {
		t.Fatalf("unexpected records: %+v", got)
	}

	// Mutating the returned slice must not affect the collector.
	got[0].ClaimID = "mutated"
	if c.Records()[0].ClaimID != "a" {
		t.Error("Records returned a live reference to internal state")
	}
}

func TestCollector_ConcurrentEmit(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Emit(Record{Kind: KindIssueBound})
			}
		}()
	}
	wg.Wait()
	if n := len(c.Records()); n != 1600 {
		t.Errorf("expected 1600 records, got %d", n)
	}
}

func TestNopSink(t *testing.T) {
	var s Sink = NopSink{}
	s.Emit(Record{Kind: KindEditDropped})
}
