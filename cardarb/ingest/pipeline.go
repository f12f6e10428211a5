package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/ellavondegurechaff/cardarb/cardarb/config"
	"github.com/ellavondegurechaff/cardarb/cardarb/database/models"
	"github.com/ellavondegurechaff/cardarb/cardarb/database/repositories"
	"github.com/ellavondegurechaff/cardarb/cardarb/identity"
	"github.com/ellavondegurechaff/cardarb/cardarb/sources"
	"golang.org/x/sync/errgroup"
)

const unresolvedSampleLimit = 20

// RunSummary aggregates what happened to every observation of a run. A run
// with partial failures still succeeds; callers treat only a zero-ingest run
// as a failed job.
type RunSummary struct {
	Ingested   int
	Updated    int
	Unresolved int
	Blocked    int
	Failed     int

	// A bounded sample of unresolved references for the run report.
	UnresolvedSamples []string
}

func (s *RunSummary) addUnresolvedSample(ref string) {
	if len(s.UnresolvedSamples) < unresolvedSampleLimit {
		s.UnresolvedSamples = append(s.UnresolvedSamples, ref)
	}
}

// Empty reports whether the run stored nothing at all.
func (s *RunSummary) Empty() bool {
	return s.Ingested == 0 && s.Updated == 0
}

// Pipeline drives source adapters through normalization into the price
// history store.
type Pipeline struct {
	normalizer *Normalizer
	history    repositories.PriceHistoryRepository
	unmatched  repositories.UnmatchedRepository
	pacer      *Pacer
	logger     *slog.Logger

	scrapeWorkers int
	feedWorkers   int
}

type PipelineOption func(*Pipeline)

// WithScrapeWorkers sets the interactive worker count, clamped to [1, 4].
func WithScrapeWorkers(n int) PipelineOption {
	return func(p *Pipeline) { p.scrapeWorkers = clamp(n, 1, 4) }
}

// WithFeedWorkers sets the feed worker count, clamped to [5, 10].
func WithFeedWorkers(n int) PipelineOption {
	return func(p *Pipeline) { p.feedWorkers = clamp(n, 5, 10) }
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func NewPipeline(normalizer *Normalizer, history repositories.PriceHistoryRepository, unmatched repositories.UnmatchedRepository, pacer *Pacer, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		normalizer:    normalizer,
		history:       history,
		unmatched:     unmatched,
		pacer:         pacer,
		logger:        slog.With(slog.String("type", "ingest")),
		scrapeWorkers: config.ScrapeWorkerCount,
		feedWorkers:   config.FeedWorkerCount,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunScrape works through targets with a bounded, paced worker pool. A
// BlockedError stops further work against the blocked host for the rest of
// the run; other targets proceed.
func (p *Pipeline) RunScrape(ctx context.Context, adapter sources.Adapter, targets []sources.Target) (RunSummary, error) {
	var (
		summary      RunSummary
		mu           sync.Mutex
		blockedHosts = make(map[string]bool)
	)

	jobs := make(chan sources.Target)
	var wg sync.WaitGroup

	for i := 0; i < p.scrapeWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for target := range jobs {
				p.scrapeTarget(ctx, adapter, target, &summary, &mu, blockedHosts)
			}
		}()
	}

	for _, target := range targets {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return summary, ctx.Err()
		case jobs <- target:
		}
	}
	close(jobs)
	wg.Wait()

	p.logRun(string(adapter.Source()), summary)
	return summary, nil
}

func (p *Pipeline) scrapeTarget(ctx context.Context, adapter sources.Adapter, target sources.Target, summary *RunSummary, mu *sync.Mutex, blockedHosts map[string]bool) {
	host := hostOf(target.URL)

	mu.Lock()
	if blockedHosts[host] {
		summary.Blocked++
		mu.Unlock()
		return
	}
	mu.Unlock()

	if err := p.pacer.Wait(ctx, host); err != nil {
		return
	}

	unitCtx, cancel := context.WithTimeout(ctx, config.NavigationTimeout)
	raws, err := adapter.Fetch(unitCtx, target)
	cancel()

	if err != nil {
		mu.Lock()
		defer mu.Unlock()

		var blocked *sources.BlockedError
		if errors.As(err, &blocked) {
			blockedHosts[host] = true
			summary.Blocked++
			p.logger.Warn("Host blocked, remaining targets skipped",
				slog.String("host", host),
				slog.String("url", target.URL),
			)
			return
		}
		summary.Failed++
		p.logger.Warn("Target fetch failed",
			slog.String("url", target.URL),
			slog.Any("error", err),
		)
		return
	}

	for _, raw := range raws {
		p.ingestOne(ctx, raw, summary, mu)
	}
}

// ingestOne normalizes and records a single observation, sorting any failure
// into the summary without touching its siblings. The store write happens
// outside the summary lock so workers do not serialize on it.
func (p *Pipeline) ingestOne(ctx context.Context, raw sources.RawObservation, summary *RunSummary, mu *sync.Mutex) {
	obs, err := p.normalizer.Normalize(ctx, raw)
	if err != nil {
		p.noteNormalizeFailure(ctx, raw, err, summary, mu)
		return
	}

	result, err := p.history.Record(ctx, obs)

	mu.Lock()
	defer mu.Unlock()

	if err != nil {
		summary.Failed++
		p.logger.Error("Observation store failed",
			slog.Int64("variant_id", obs.CardVariantID),
			slog.Any("error", err),
		)
		return
	}

	switch result {
	case repositories.RecordInserted:
		summary.Ingested++
	case repositories.RecordUpdated:
		summary.Updated++
	}
}

// noteNormalizeFailure sorts one failed normalization into the summary.
func (p *Pipeline) noteNormalizeFailure(ctx context.Context, raw sources.RawObservation, err error, summary *RunSummary, mu *sync.Mutex) {
	mu.Lock()
	defer mu.Unlock()

	switch {
	case errors.Is(err, ErrUnresolvedReference):
		summary.Unresolved++
		summary.addUnresolvedSample(raw.Reference.String())
		if sinkErr := p.unmatched.Record(ctx, raw.Source, raw.Reference.String(), "unresolved"); sinkErr != nil {
			p.logger.Warn("Unmatched sink write failed", slog.Any("error", sinkErr))
		}
	case errors.Is(err, ErrInvalidPrice), errors.Is(err, ErrFinishMismatch):
		summary.Failed++
		p.logger.Debug("Observation rejected",
			slog.String("reference", raw.Reference.String()),
			slog.Any("error", err),
		)
	default:
		var conflict *identity.ConflictError
		if errors.As(err, &conflict) {
			summary.Failed++
			p.logger.Error("Identity conflict", slog.Any("error", conflict))
			return
		}
		summary.Failed++
		p.logger.Warn("Normalization failed",
			slog.String("reference", raw.Reference.String()),
			slog.Any("error", err),
		)
	}
}

// flushBatch stores a block of normalized observations through the batch
// path, which prefetches each day's existing keys once instead of selecting
// per row.
func (p *Pipeline) flushBatch(ctx context.Context, batch []*models.PriceObservation, summary *RunSummary, mu *sync.Mutex) {
	inserted, updated, err := p.history.RecordBatch(ctx, batch)

	mu.Lock()
	defer mu.Unlock()

	summary.Ingested += inserted
	summary.Updated += updated
	if err != nil {
		dropped := len(batch) - inserted - updated
		summary.Failed += dropped
		p.logger.Error("Batch store failed",
			slog.Int("dropped", dropped),
			slog.Any("error", err),
		)
	}
}

// RunFeed streams the wholesale feed through a fixed worker group. Adapter
// failure before any observation is systemic; once the stream is flowing,
// per-observation errors only shape the summary.
func (p *Pipeline) RunFeed(ctx context.Context, adapter *sources.WholesaleFeedAdapter) (RunSummary, error) {
	var (
		summary RunSummary
		mu      sync.Mutex
	)

	raws := make(chan sources.RawObservation, config.DefaultBatchSize)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.feedWorkers; i++ {
		g.Go(func() error {
			// Each worker accumulates its own batch; only the summary is
			// shared.
			batch := make([]*models.PriceObservation, 0, config.DefaultBatchSize)
			for raw := range raws {
				obs, err := p.normalizer.Normalize(gctx, raw)
				if err != nil {
					p.noteNormalizeFailure(gctx, raw, err, &summary, &mu)
					continue
				}
				batch = append(batch, obs)
				if len(batch) >= config.DefaultBatchSize {
					p.flushBatch(gctx, batch, &summary, &mu)
					batch = batch[:0]
				}
			}
			if len(batch) > 0 {
				p.flushBatch(gctx, batch, &summary, &mu)
			}
			return nil
		})
	}

	streamErr := adapter.Stream(ctx, func(raw sources.RawObservation) error {
		select {
		case <-gctx.Done():
			return gctx.Err()
		case raws <- raw:
			return nil
		}
	}, config.DefaultBatchSize, func(n int) {
		p.logger.Info("Feed checkpoint", slog.Int("observations", n))
	})
	close(raws)

	if err := g.Wait(); err != nil {
		return summary, err
	}
	if streamErr != nil {
		mu.Lock()
		empty := summary.Empty()
		mu.Unlock()
		if empty {
			return summary, fmt.Errorf("feed stream failed before any ingest: %w", streamErr)
		}
		p.logger.Warn("Feed stream ended early", slog.Any("error", streamErr))
	}

	p.logRun("wholesale", summary)
	return summary, nil
}

func (p *Pipeline) logRun(source string, s RunSummary) {
	p.logger.Info("Run finished",
		slog.String("source", source),
		slog.Int("ingested", s.Ingested),
		slog.Int("updated", s.Updated),
		slog.Int("unresolved", s.Unresolved),
		slog.Int("blocked", s.Blocked),
		slog.Int("failed", s.Failed),
	)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
