package source

import (
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

const remoteokFeed = `[
  {"last_updated": 1724500000, "legal": "API terms of service"},
  {"id": 101, "position": "Senior Python Engineer", "company": "Acme", "location": "",
   "tags": ["python", "aws"], "description": "Build backend services. Contact jobs@acme.io",
   "url": "https://remoteok.com/l/101", "salary_min": 90000, "salary_max": 120000,
   "date": "2026-08-20T12:00:00+00:00"},
  {"id": "102", "position": "Marketing Manager", "company": "Globex", "location": "New York",
   "tags": ["marketing"], "description": "Run paid campaigns.",
   "url": "https://remoteok.com/l/102", "date": "2026-08-19T09:00:00+00:00"}
]`

func TestRemoteOKFetchPageFiltersByQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(remoteokFeed))
	}))
	defer server.Close()

	adapter := NewRemoteOK(zap.NewNop())
	adapter.APIURL = server.URL

	page, err := adapter.FetchPage(context.Background(), Query{Text: "python"}, "")
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	if page.HasMore() {
		t.Fatalf("single page feed must not chain, got next token %q", page.Next)
	}
	if len(page.Postings) != 1 {
		t.Fatalf("expected 1 matching posting, got %d", len(page.Postings))
	}

	p := page.Postings[0]
	if p.Source != "remoteok" || p.NativeID != "101" {
		t.Errorf("unexpected identity: source %q id %q", p.Source, p.NativeID)
	}
	if p.Location != "Remote" {
		t.Errorf("empty location should default to Remote, got %q", p.Location)
	}
	if p.Salary != "90000 - 120000 USD" {
		t.Errorf("unexpected salary: %q", p.Salary)
	}
	if p.ContactEmail != "jobs@acme.io" {
		t.Errorf("unexpected contact email: %q", p.ContactEmail)
	}
	want := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	if !p.PostedAt.Equal(want) {
		t.Errorf("unexpected posted date: %v", p.PostedAt)
	}
}

func TestRemoteOKFetchPageHandlesGzip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept-Encoding") != "gzip" {
			t.Errorf("expected gzip accept-encoding, got %q", r.Header.Get("Accept-Encoding"))
		}
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte(remoteokFeed))
		gz.Close()
	}))
	defer server.Close()

	adapter := NewRemoteOK(zap.NewNop())
	adapter.APIURL = server.URL

	page, err := adapter.FetchPage(context.Background(), Query{}, "")
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	// Empty query matches everything; the legend row is still skipped.
	if len(page.Postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(page.Postings))
	}
	if page.Postings[1].NativeID != "102" {
		t.Fatalf("string id not decoded, got %q", page.Postings[1].NativeID)
	}
}

func TestRemoteOKFetchPageUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := NewRemoteOK(zap.NewNop())
	adapter.APIURL = server.URL

	_, err := adapter.FetchPage(context.Background(), Query{}, "")

	var unavailable *UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
	if unavailable.Source != "remoteok" {
		t.Fatalf("error tagged with wrong source: %q", unavailable.Source)
	}
}
