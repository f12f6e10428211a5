package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/ellavondegurechaff/cardarb/cardarb/database/models"
)

const sampleFeed = `{
	"meta": {"date": "2024-06-15", "version": "5.2.2"},
	"data": {
		"uuid-plain": {
			"paper": {
				"cardkingdom": {
					"currency": "USD",
					"buylist": {"normal": 3.5}
				}
			}
		},
		"uuid-dated": {
			"paper": {
				"cardkingdom": {
					"currency": "USD",
					"buylist": {
						"normal": {"2024-06-15": 1.25},
						"foil": {"2024-06-15": 4.75}
					}
				}
			}
		},
		"uuid-other-provider": {
			"paper": {
				"tcgplayer": {
					"currency": "USD",
					"retail": {"normal": 9.99}
				}
			}
		},
		"uuid-zero": {
			"paper": {
				"cardkingdom": {
					"currency": "USD",
					"buylist": {"normal": 0}
				}
			}
		}
	}
}`

func TestWholesaleFeedAdapter_Stream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	adapter := NewWholesaleFeedAdapter(srv.URL, "cardkingdom", nil)

	var got []RawObservation
	err := adapter.Stream(context.Background(), func(obs RawObservation) error {
		got = append(got, obs)
		return nil
	}, 0, nil)
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("Stream() emitted %d observations, want 3", len(got))
	}

	sort.Slice(got, func(i, j int) bool {
		if got[i].Reference.UniversalID != got[j].Reference.UniversalID {
			return got[i].Reference.UniversalID < got[j].Reference.UniversalID
		}
		return !got[i].Reference.IsFoil
	})

	tests := []struct {
		uuid  string
		foil  bool
		price string
	}{
		{"uuid-dated", false, "1.25"},
		{"uuid-dated", true, "4.75"},
		{"uuid-plain", false, "3.5"},
	}
	for i, tt := range tests {
		obs := got[i]
		if obs.Reference.UniversalID != tt.uuid || obs.Reference.IsFoil != tt.foil || obs.PriceText != tt.price {
			t.Errorf("observation[%d] = %s foil=%v price=%s, want %s foil=%v price=%s",
				i, obs.Reference.UniversalID, obs.Reference.IsFoil, obs.PriceText, tt.uuid, tt.foil, tt.price)
		}
		if obs.Source != models.SourceWholesale || obs.PriceType != models.PriceTypeSell {
			t.Errorf("observation[%d] source/type = %s/%s, want wholesale/sell", i, obs.Source, obs.PriceType)
		}
		if obs.Currency != "USD" {
			t.Errorf("observation[%d] currency = %s, want USD", i, obs.Currency)
		}
	}
}

func TestWholesaleFeedAdapter_StreamCheckpoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	adapter := NewWholesaleFeedAdapter(srv.URL, "cardkingdom", nil)

	var checkpoints []int
	err := adapter.Stream(context.Background(), func(RawObservation) error {
		return nil
	}, 1, func(n int) {
		checkpoints = append(checkpoints, n)
	})
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if len(checkpoints) != 3 {
		t.Errorf("got %d checkpoints, want 3", len(checkpoints))
	}
}

func TestWholesaleFeedAdapter_StreamServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	adapter := NewWholesaleFeedAdapter(srv.URL, "cardkingdom", nil)
	err := adapter.Stream(context.Background(), func(RawObservation) error { return nil }, 0, nil)

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Errorf("Stream() error = %v, want *NetworkError", err)
	}
}
