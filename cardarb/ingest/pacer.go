package ingest

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/ellavondegurechaff/cardarb/cardarb/config"
)

// Pacer spaces out requests against scraped hosts. Every wait is jittered
// inside [pauseMin, pauseMax], and requests to the same host are additionally
// kept at least the configured floor apart. The floor is an external
// constraint of the scraped venues; configuration can raise the pauses but
// never push the gap below config.MinRequestGap.
type Pacer struct {
	pauseMin time.Duration
	pauseMax time.Duration

	mu         sync.Mutex
	lastByHost map[string]time.Time
	rng        *rand.Rand
}

func NewPacer(pauseMin, pauseMax time.Duration) *Pacer {
	if pauseMin < config.MinRequestGap {
		pauseMin = config.MinRequestGap
	}
	if pauseMax < pauseMin {
		pauseMax = pauseMin
	}
	return &Pacer{
		pauseMin:   pauseMin,
		pauseMax:   pauseMax,
		lastByHost: make(map[string]time.Time),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Wait blocks until the next request to host is allowed, or the context ends.
// The first request to a host goes straight through.
func (p *Pacer) Wait(ctx context.Context, host string) error {
	p.mu.Lock()
	last, seen := p.lastByHost[host]
	if !seen {
		p.lastByHost[host] = time.Now()
		p.mu.Unlock()
		return nil
	}

	pause := p.pauseMin
	if span := p.pauseMax - p.pauseMin; span > 0 {
		pause += time.Duration(p.rng.Int63n(int64(span)))
	}

	earliest := last.Add(pause)
	if floor := last.Add(config.MinRequestGap); floor.After(earliest) {
		earliest = floor
	}
	if now := time.Now(); earliest.Before(now) {
		earliest = now
	}
	p.lastByHost[host] = earliest
	p.mu.Unlock()

	wait := time.Until(earliest)
	if wait <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}
