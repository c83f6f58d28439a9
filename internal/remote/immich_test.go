package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"photosift/internal/remote"
)

func TestImmichListerPaginates(t *testing.T) {
	pages := [][]string{
		{"IMG_001.JPG", "clip.mov"},
		{"IMG_002.heic"},
	}
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/api/search/metadata" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "secret" {
			t.Errorf("missing api key header")
		}
		var req struct {
			Page int `json:"page"`
			Size int `json:"size"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Page < 1 || req.Page > len(pages) {
			t.Errorf("page %d out of range", req.Page)
			http.Error(w, "bad page", http.StatusBadRequest)
			return
		}

		items := make([]map[string]string, 0, len(pages[req.Page-1]))
		for _, name := range pages[req.Page-1] {
			items = append(items, map[string]string{"id": name + "-id", "originalFileName": name})
		}
		body := map[string]any{"assets": map[string]any{"items": items}}
		if req.Page < len(pages) {
			body["assets"].(map[string]any)["nextPage"] = "2"
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer server.Close()

	lister := remote.NewImmichLister(server.URL, "secret", time.Second)
	entries, err := lister.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if requests != 2 {
		t.Fatalf("expected 2 page requests, got %d", requests)
	}
	if entries[0].Name != "IMG_001.JPG" {
		t.Fatalf("unexpected first entry: %#v", entries[0])
	}
}

func TestImmichListerErrorStatusAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	lister := remote.NewImmichLister(server.URL, "wrong", time.Second)
	if _, err := lister.List(context.Background()); !errors.Is(err, remote.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestImmichListerTimesOut(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		server.Close()
	}()

	lister := remote.NewImmichLister(server.URL, "secret", 50*time.Millisecond)
	if _, err := lister.List(context.Background()); !errors.Is(err, remote.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable on timeout, got %v", err)
	}
}
