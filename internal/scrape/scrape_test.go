package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rsaarelm/otlbook/internal/outline"
)

func TestTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><head><title>  A\n  Page  </title></head><body></body></html>"))
	}))
	defer srv.Close()

	s := New(5 * time.Second)
	title, err := s.Title(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if title != "A Page" {
		t.Errorf("Title() = %q, want %q", title, "A Page")
	}
}

func TestTitleMissingFallsBackToURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>no title here</body></html>"))
	}))
	defer srv.Close()

	s := New(5 * time.Second)
	title, err := s.Title(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if title != srv.URL {
		t.Errorf("Title() = %q, want the url %q", title, srv.URL)
	}
}

func TestTitleErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := New(5 * time.Second)
	if _, err := s.Title(context.Background(), srv.URL); err == nil {
		t.Error("expected error for 404 response")
	}
}

func TestBookmark(t *testing.T) {
	added := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	sec, err := Bookmark("Interesting Article", "https://example.com/a", added)
	if err != nil {
		t.Fatal(err)
	}

	if text, _ := sec.Head().TextContent(); text != "Interesting Article" {
		t.Errorf("headline = %q", text)
	}

	body := sec.Body()
	if uri, ok := body.Attr("uri"); !ok || uri != "https://example.com/a" {
		t.Errorf("uri attr = %q, %v", uri, ok)
	}
	if ts, ok := body.Attr("added"); !ok || ts != "2024-03-01T12:30:00Z" {
		t.Errorf("added attr = %q, %v", ts, ok)
	}
	uid, ok := body.Attr("uid")
	if !ok || uid == "" {
		t.Fatal("uid attr missing")
	}
	if strings.Count(uid, "-") != 4 {
		t.Errorf("uid does not look like a uuid: %q", uid)
	}

	// Printed form keeps the attribute header shape
	printed := outline.PrintSection(sec)
	if !strings.HasPrefix(printed, "Interesting Article\n\turi: https://example.com/a\n") {
		t.Errorf("printed bookmark:\n%s", printed)
	}
}
