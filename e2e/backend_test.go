//go:build e2e && unix

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"
)

// fakeBackend is a stand-in for the search API. It answers every query
// with a fixed body so tests can assert on exact screen content.
type fakeBackend struct {
	*httptest.Server

	requests atomic.Int64

	answer  string
	sources []map[string]string
	detail  string        // when set, POST /search fails with this 500 detail
	delay   time.Duration // artificial response latency
}

func newFakeBackend() *fakeBackend {
	fb := &fakeBackend{
		answer: "The sky is blue because air scatters short wavelengths of sunlight more strongly.",
		sources: []map[string]string{
			{"title": "Rayleigh scattering", "link": "https://example.com/rayleigh"},
			{"title": "Why is the sky blue?", "link": "https://example.com/sky"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fb.requests.Add(1)
		if fb.delay > 0 {
			time.Sleep(fb.delay)
		}

		var req struct {
			Query string `json:"query"`
			K     int    `json:"k"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		w.Header().Set("Content-Type", "application/json")
		if fb.detail != "" {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": fb.detail})
			return
		}

		sources := fb.sources
		if req.K > 0 && req.K < len(sources) {
			sources = sources[:req.K]
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"query":   req.Query,
			"answer":  fb.answer,
			"sources": sources,
		})
	})

	fb.Server = httptest.NewServer(mux)
	return fb
}

// Requests reports how many search calls the backend has served.
func (fb *fakeBackend) Requests() int64 {
	return fb.requests.Load()
}
