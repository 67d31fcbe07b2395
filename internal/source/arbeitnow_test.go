package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestArbeitnowFetchPageChainsTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprintf(w, `{
			  "data": [{"slug": "go-dev-berlin-1", "company_name": "Quartz Systems",
			    "title": "Go Developer", "description": "Backend work, pays €60,000 - €80,000 a year.",
			    "tags": ["golang"], "location": "Berlin", "url": "https://arbeitnow.com/jobs/1",
			    "created_at": 1755686400}],
			  "links": {"next": "%s?page=2"}
			}`, r.Host)
		case "2":
			fmt.Fprint(w, `{
			  "data": [{"slug": "go-dev-berlin-2", "company_name": "Quartz Systems",
			    "title": "Platform Engineer", "description": "Kubernetes platform team.",
			    "job_types": ["full-time"], "location": "Berlin", "url": "https://arbeitnow.com/jobs/2",
			    "created_at": 1755600000}],
			  "links": {"next": null}
			}`)
		default:
			t.Errorf("unexpected page parameter %q", r.URL.Query().Get("page"))
		}
	}))
	defer server.Close()

	adapter := NewArbeitnow(zap.NewNop())
	adapter.APIURL = server.URL

	first, err := adapter.FetchPage(context.Background(), Query{}, "")
	if err != nil {
		t.Fatalf("first page returned error: %v", err)
	}
	if !first.HasMore() || first.Next != "2" {
		t.Fatalf("expected next token 2, got %q", first.Next)
	}
	if len(first.Postings) != 1 {
		t.Fatalf("expected 1 posting on first page, got %d", len(first.Postings))
	}

	p := first.Postings[0]
	if p.NativeID != "go-dev-berlin-1" {
		t.Errorf("slug should be the native id, got %q", p.NativeID)
	}
	if p.Salary != "€60,000 - €80,000" {
		t.Errorf("salary not extracted from description, got %q", p.Salary)
	}
	if !p.PostedAt.Equal(time.Unix(1755686400, 0).UTC()) {
		t.Errorf("unexpected posted date: %v", p.PostedAt)
	}

	second, err := adapter.FetchPage(context.Background(), Query{}, first.Next)
	if err != nil {
		t.Fatalf("second page returned error: %v", err)
	}
	if second.HasMore() {
		t.Fatalf("expected exhausted listing, got next token %q", second.Next)
	}
	if second.Postings[0].Tags[0] != "full-time" {
		t.Errorf("job types should back fill empty tags, got %v", second.Postings[0].Tags)
	}
}

func TestArbeitnowFetchPageFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
		  "data": [
		    {"slug": "a", "company_name": "Acme", "title": "Python Engineer", "description": "Django services."},
		    {"slug": "b", "company_name": "Acme", "title": "Office Manager", "description": "Front desk."}
		  ],
		  "links": {"next": null}
		}`)
	}))
	defer server.Close()

	adapter := NewArbeitnow(zap.NewNop())
	adapter.APIURL = server.URL

	page, err := adapter.FetchPage(context.Background(), Query{Text: "python"}, "")
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	if len(page.Postings) != 1 || page.Postings[0].NativeID != "a" {
		t.Fatalf("expected only the python posting, got %+v", page.Postings)
	}
}

func TestArbeitnowFetchPageRejectsBadToken(t *testing.T) {
	adapter := NewArbeitnow(zap.NewNop())

	_, err := adapter.FetchPage(context.Background(), Query{}, "not-a-page")
	if err == nil {
		t.Fatalf("expected error for malformed token")
	}
}
