package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"photosift/internal/inventory"
)

const searchPageSize = 1000

// ImmichLister pages through the Immich search API to list every asset the
// API key can see.
type ImmichLister struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewImmichLister builds an API-backed lister. timeout bounds each request so
// an unresponsive server surfaces as ErrUnavailable instead of blocking the
// session indefinitely.
func NewImmichLister(baseURL, apiKey string, timeout time.Duration) *ImmichLister {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ImmichLister{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type searchMetadataRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

type searchMetadataResponse struct {
	Assets struct {
		Items []struct {
			ID               string `json:"id"`
			OriginalFileName string `json:"originalFileName"`
		} `json:"items"`
		NextPage *string `json:"nextPage"`
	} `json:"assets"`
}

// List retrieves all assets via POST /api/search/metadata, following
// nextPage until the listing is exhausted. Any failure mid-pagination aborts
// the whole listing; a partial remote snapshot must never feed a diff.
func (l *ImmichLister) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	page := 1
	for {
		resp, err := l.searchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		for _, asset := range resp.Assets.Items {
			entries = append(entries, Entry{
				IdentityKey: inventory.IdentityKeyFor(asset.OriginalFileName),
				Name:        asset.OriginalFileName,
			})
		}
		if resp.Assets.NextPage == nil {
			return entries, nil
		}
		page++
	}
}

func (l *ImmichLister) searchPage(ctx context.Context, page int) (*searchMetadataResponse, error) {
	body, err := json.Marshal(searchMetadataRequest{Page: page, Size: searchPageSize})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/api/search/metadata", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", l.apiKey)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: search page %d: %v", ErrUnavailable, page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: search page %d: status %d: %s", ErrUnavailable, page, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded searchMetadataResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode page %d: %v", ErrUnavailable, page, err)
	}
	return &decoded, nil
}
