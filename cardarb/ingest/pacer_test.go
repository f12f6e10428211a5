package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/ellavondegurechaff/cardarb/cardarb/config"
)

func TestPacer_EnforcesHostFloor(t *testing.T) {
	// Zero configuration must still clamp to the floor.
	p := NewPacer(0, 0)

	start := time.Now()
	if err := p.Wait(context.Background(), "venue.example"); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if err := p.Wait(context.Background(), "venue.example"); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if elapsed := time.Since(start); elapsed < config.MinRequestGap {
		t.Errorf("second request after %v, want at least %v between same-host requests", elapsed, config.MinRequestGap)
	}
}

func TestPacer_DistinctHostsUnthrottled(t *testing.T) {
	p := NewPacer(0, 0)

	start := time.Now()
	for _, host := range []string{"a.example", "b.example", "c.example"} {
		if err := p.Wait(context.Background(), host); err != nil {
			t.Fatalf("Wait(%s) error = %v", host, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("first requests to distinct hosts took %v, want no throttling", elapsed)
	}
}

func TestPacer_WaitCancellation(t *testing.T) {
	p := NewPacer(2*time.Second, 2*time.Second)
	if err := p.Wait(context.Background(), "venue.example"); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Wait(ctx, "venue.example"); err == nil {
		t.Error("Wait() with canceled context succeeded, want error")
	}
}
