package source

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

const headhunterPage0 = `{
  "found": 120, "pages": 2, "page": 0, "per_page": 100,
  "items": [{
    "id": "98765432",
    "name": "Senior Go Developer",
    "area": {"name": "Moscow"},
    "salary": {"from": 300000, "to": 450000, "currency": "RUR"},
    "employer": {"name": "Acme"},
    "snippet": {"requirement": "Strong Go skills.", "responsibility": "Build services."},
    "professional_roles": [{"name": "Программист, разработчик"}],
    "alternate_url": "https://hh.ru/vacancy/98765432",
    "published_at": "2026-08-19T10:30:00+0300"
  }]
}`

func TestHeadHunterFetchPageDecodesItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer hh-token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		q := r.URL.Query()
		if q.Get("text") != "golang" || q.Get("per_page") != "100" || q.Get("page") != "0" {
			t.Errorf("unexpected query %v", q)
		}

		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte(headhunterPage0))
		gz.Close()
	}))
	defer server.Close()

	adapter := NewHeadHunter(zap.NewNop(), "hh-token")
	adapter.APIURL = server.URL

	page, err := adapter.FetchPage(context.Background(), Query{Text: "golang"}, "")
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	if !page.HasMore() || page.Next != "1" {
		t.Fatalf("page 0 of 2 should chain to page 1, got %q", page.Next)
	}
	if len(page.Postings) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(page.Postings))
	}

	p := page.Postings[0]
	if p.NativeID != "98765432" || p.Source != "headhunter" {
		t.Errorf("unexpected identity: source %q id %q", p.Source, p.NativeID)
	}
	if p.Salary != "300000 - 450000 RUR" {
		t.Errorf("unexpected salary: %q", p.Salary)
	}
	if p.Description != "Strong Go skills. Build services." {
		t.Errorf("snippet not merged into description: %q", p.Description)
	}
	want := time.Date(2026, 8, 19, 7, 30, 0, 0, time.UTC)
	if !p.PostedAt.Equal(want) {
		t.Errorf("published_at not normalized to UTC: %v", p.PostedAt)
	}
}

func TestHeadHunterFetchPageLastPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
		w.Write([]byte(`{"found": 120, "pages": 2, "page": 1, "items": []}`))
	}))
	defer server.Close()

	adapter := NewHeadHunter(zap.NewNop(), "")
	adapter.APIURL = server.URL

	page, err := adapter.FetchPage(context.Background(), Query{Text: "golang"}, "1")
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	if page.HasMore() {
		t.Fatalf("last page must not chain, got %q", page.Next)
	}
}
