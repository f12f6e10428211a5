package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/ellavondegurechaff/cardarb/cardarb/config"
	"github.com/ellavondegurechaff/cardarb/cardarb/database/models"
	"github.com/ellavondegurechaff/cardarb/cardarb/identity"
)

// SnapshotArchive stores the raw feed body for later replay.
type SnapshotArchive interface {
	Store(ctx context.Context, day time.Time, r io.Reader) error
}

// flexPrice tolerates the feed's two price shapes: a bare number, or an
// object keyed by date holding the number.
type flexPrice struct {
	Value float64
	OK    bool
}

func (p *flexPrice) UnmarshalJSON(data []byte) error {
	var direct float64
	if err := json.Unmarshal(data, &direct); err == nil {
		p.Value, p.OK = direct, true
		return nil
	}
	var byDate map[string]float64
	if err := json.Unmarshal(data, &byDate); err != nil {
		return err
	}
	for _, v := range byDate {
		p.Value, p.OK = v, true
		return nil
	}
	return nil
}

type feedProviderPrices struct {
	Buylist  map[string]flexPrice `json:"buylist"`
	Retail   map[string]flexPrice `json:"retail"`
	Currency string               `json:"currency"`
}

type feedEntry struct {
	Paper map[string]feedProviderPrices `json:"paper"`
}

// WholesaleFeedAdapter downloads the daily all-prices feed and streams
// per-card observations out of it. The feed is keyed purely by universal id
// and its size is unbounded, so the body is never held in memory at once.
type WholesaleFeedAdapter struct {
	feedURL  string
	provider string
	client   *http.Client
	archive  SnapshotArchive
	logger   *slog.Logger
}

const defaultFeedURL = "https://mtgjson.com/api/v5/AllPricesToday.json"

func NewWholesaleFeedAdapter(feedURL, provider string, archive SnapshotArchive) *WholesaleFeedAdapter {
	if feedURL == "" {
		feedURL = defaultFeedURL
	}
	if provider == "" {
		provider = "cardkingdom"
	}
	return &WholesaleFeedAdapter{
		feedURL:  feedURL,
		provider: provider,
		client:   &http.Client{Timeout: config.FeedDownloadTimeout},
		archive:  archive,
		logger:   slog.With(slog.String("type", "feed"), slog.String("adapter", "wholesale")),
	}
}

func (a *WholesaleFeedAdapter) Source() models.Source { return models.SourceWholesale }

// Fetch satisfies the Adapter contract for callers that want the whole feed
// materialized. Prefer Stream for production runs.
func (a *WholesaleFeedAdapter) Fetch(ctx context.Context, _ Target) ([]RawObservation, error) {
	var observations []RawObservation
	err := a.Stream(ctx, func(obs RawObservation) error {
		observations = append(observations, obs)
		return nil
	}, 0, nil)
	return observations, err
}

// Stream downloads the feed and calls emit for every priced printing of the
// configured provider. When checkpointEvery > 0, onCheckpoint is called with
// the running count after each block of that many emitted observations.
func (a *WholesaleFeedAdapter) Stream(ctx context.Context, emit func(RawObservation) error, checkpointEvery int, onCheckpoint func(int)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.feedURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return &NetworkError{URL: a.feedURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &NetworkError{URL: a.feedURL, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body := io.Reader(resp.Body)
	if a.archive != nil {
		spooled, cleanup, err := a.spoolAndArchive(ctx, resp.Body)
		if err != nil {
			// Archival is best-effort; parsing continues off the spool when
			// it exists.
			a.logger.Warn("Feed snapshot archive failed", slog.Any("error", err))
		}
		if spooled != nil {
			defer cleanup()
			body = spooled
		}
	}

	start := time.Now()
	count, err := a.decode(ctx, body, emit, checkpointEvery, onCheckpoint)
	if err != nil {
		return err
	}

	a.logger.Info("Feed processed",
		slog.Int("observations", count),
		slog.Duration("took", time.Since(start)),
	)
	return nil
}

// spoolAndArchive copies the body to a temp file, hands it to the archive and
// returns a reader positioned at the start for parsing.
func (a *WholesaleFeedAdapter) spoolAndArchive(ctx context.Context, body io.Reader) (io.Reader, func(), error) {
	tmp, err := os.CreateTemp("", "feed-snapshot-*.json")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create feed spool: %w", err)
	}
	cleanup := func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}

	if _, err := io.Copy(tmp, body); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to spool feed: %w", err)
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to rewind feed spool: %w", err)
	}
	archiveErr := a.archive.Store(ctx, time.Now().UTC(), tmp)

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to rewind feed spool: %w", err)
	}
	return tmp, cleanup, archiveErr
}

// decode walks the feed token by token: the top-level object is scanned for
// its "data" key, then each universal-id entry is decoded individually.
func (a *WholesaleFeedAdapter) decode(ctx context.Context, r io.Reader, emit func(RawObservation) error, checkpointEvery int, onCheckpoint func(int)) (int, error) {
	dec := json.NewDecoder(r)

	if tok, err := dec.Token(); err != nil {
		return 0, fmt.Errorf("feed parse: %w", err)
	} else if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return 0, fmt.Errorf("feed parse: unexpected top-level token %v", tok)
	}

	count := 0
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return count, fmt.Errorf("feed parse: %w", err)
		}
		key, _ := keyTok.(string)

		if key != "data" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return count, fmt.Errorf("feed parse: %w", err)
			}
			continue
		}

		if tok, err := dec.Token(); err != nil {
			return count, fmt.Errorf("feed parse: %w", err)
		} else if delim, ok := tok.(json.Delim); !ok || delim != '{' {
			return count, fmt.Errorf("feed parse: unexpected data token %v", tok)
		}

		observedAt := time.Now().UTC()
		for dec.More() {
			if err := ctx.Err(); err != nil {
				return count, err
			}

			uuidTok, err := dec.Token()
			if err != nil {
				return count, fmt.Errorf("feed parse: %w", err)
			}
			uuid, _ := uuidTok.(string)

			var entry feedEntry
			if err := dec.Decode(&entry); err != nil {
				return count, fmt.Errorf("feed parse at %s: %w", uuid, err)
			}

			for _, obs := range a.entryObservations(uuid, entry, observedAt) {
				if err := emit(obs); err != nil {
					return count, err
				}
				count++
				if checkpointEvery > 0 && onCheckpoint != nil && count%checkpointEvery == 0 {
					onCheckpoint(count)
				}
			}
		}

		if _, err := dec.Token(); err != nil {
			return count, fmt.Errorf("feed parse: %w", err)
		}
	}

	return count, nil
}

func (a *WholesaleFeedAdapter) entryObservations(uuid string, entry feedEntry, observedAt time.Time) []RawObservation {
	prices, ok := entry.Paper[a.provider]
	if !ok {
		return nil
	}

	currency := prices.Currency
	if currency == "" {
		currency = "USD"
	}

	var observations []RawObservation
	appendPrice := func(finish string, price flexPrice) {
		if !price.OK || price.Value <= 0 {
			return
		}
		observations = append(observations, RawObservation{
			Reference: identity.Reference{
				UniversalID: uuid,
				IsFoil:      finish == "foil",
			},
			Source:     models.SourceWholesale,
			PriceType:  models.PriceTypeSell,
			PriceText:  strconv.FormatFloat(price.Value, 'f', -1, 64),
			Currency:   currency,
			ObservedAt: observedAt,
			SourceURL:  a.feedURL,
		})
	}

	// The feed's buylist block is what the wholesale venue pays out, which is
	// the sell leg of an arbitrage.
	for finish, price := range prices.Buylist {
		appendPrice(finish, price)
	}
	return observations
}
