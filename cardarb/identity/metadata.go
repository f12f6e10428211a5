package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ellavondegurechaff/cardarb/cardarb/config"
)

// ErrMetadataNotFound is returned when the metadata service has no card for
// the given name.
var ErrMetadataNotFound = errors.New("identity: card metadata not found")

// CardMetadata is the canonical printing data returned by a metadata lookup.
type CardMetadata struct {
	Name            string
	SetCode         string
	SetName         string
	CollectorNumber string
	ImageURL        string
}

// MetadataLookup canonicalizes a free-text card name into printing metadata.
// Implementations make at most one remote call per Lookup.
//
//go:generate mockgen -source=metadata.go -destination=mock/metadata_lookup.go -package=mock
type MetadataLookup interface {
	Lookup(ctx context.Context, name, setHint string) (*CardMetadata, error)
}

const defaultMetadataBaseURL = "https://api.scryfall.com"

// MetadataClient resolves names against a Scryfall-compatible named-card
// endpoint.
type MetadataClient struct {
	baseURL string
	client  *http.Client
}

func NewMetadataClient(baseURL string) *MetadataClient {
	if baseURL == "" {
		baseURL = defaultMetadataBaseURL
	}
	return &MetadataClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: config.MetadataTimeout},
	}
}

func (c *MetadataClient) Lookup(ctx context.Context, name, setHint string) (*CardMetadata, error) {
	q := url.Values{}
	q.Set("fuzzy", name)
	if setHint != "" {
		q.Set("set", setHint)
	}

	endpoint := fmt.Sprintf("%s/cards/named?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build metadata request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metadata request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrMetadataNotFound
	default:
		return nil, fmt.Errorf("metadata service returned status %d", resp.StatusCode)
	}

	var payload struct {
		Name            string `json:"name"`
		Set             string `json:"set"`
		SetName         string `json:"set_name"`
		CollectorNumber string `json:"collector_number"`
		ImageURIs       struct {
			Normal string `json:"normal"`
		} `json:"image_uris"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode metadata response: %w", err)
	}

	return &CardMetadata{
		Name:            payload.Name,
		SetCode:         payload.Set,
		SetName:         payload.SetName,
		CollectorNumber: payload.CollectorNumber,
		ImageURL:        payload.ImageURIs.Normal,
	}, nil
}
