package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ellavondegurechaff/cardarb/cardarb/config"
)

// CatalogClient lists a set's printings from a Scryfall-compatible search
// endpoint, following pagination until the set is exhausted.
type CatalogClient struct {
	baseURL string
	client  *http.Client
}

func NewCatalogClient(baseURL string) *CatalogClient {
	if baseURL == "" {
		baseURL = defaultMetadataBaseURL
	}
	return &CatalogClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: config.MetadataTimeout},
	}
}

func (c *CatalogClient) Printings(ctx context.Context, setCode string) ([]CatalogEntry, error) {
	q := url.Values{}
	q.Set("q", "set:"+setCode)
	q.Set("unique", "prints")
	endpoint := fmt.Sprintf("%s/cards/search?%s", c.baseURL, q.Encode())

	var entries []CatalogEntry
	for endpoint != "" {
		page, next, err := c.fetchPage(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		entries = append(entries, page...)
		endpoint = next
	}
	return entries, nil
}

func (c *CatalogClient) fetchPage(ctx context.Context, endpoint string) ([]CatalogEntry, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		// An unknown set has no printings, which the cross-referencer
		// treats as a skipped set rather than a run failure.
		return nil, "", fmt.Errorf("catalog has no set %s", endpoint)
	default:
		return nil, "", fmt.Errorf("catalog service returned status %d", resp.StatusCode)
	}

	var payload struct {
		HasMore  bool   `json:"has_more"`
		NextPage string `json:"next_page"`
		Data     []struct {
			ID              string `json:"id"`
			Name            string `json:"name"`
			CollectorNumber string `json:"collector_number"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, "", fmt.Errorf("failed to decode catalog response: %w", err)
	}

	entries := make([]CatalogEntry, 0, len(payload.Data))
	for _, card := range payload.Data {
		entries = append(entries, CatalogEntry{
			UniversalID:     card.ID,
			CollectorNumber: card.CollectorNumber,
			Name:            card.Name,
		})
	}

	next := ""
	if payload.HasMore {
		next = payload.NextPage
	}
	return entries, next, nil
}
