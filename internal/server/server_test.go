package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rsaarelm/otlbook/internal/config"
	"github.com/rsaarelm/otlbook/internal/outline"
	"github.com/rsaarelm/otlbook/internal/store"
)

func testServer(t *testing.T, pages map[string]string) *Server {
	t.Helper()
	var secs []outline.Section
	for _, name := range []string{"FrontPage", "Journal", "SmallPage"} {
		content, ok := pages[name]
		if !ok {
			continue
		}
		body, err := outline.Parse(content)
		if err != nil {
			t.Fatal(err)
		}
		sec, err := outline.NewSection(outline.Text(name), body)
		if err != nil {
			t.Fatal(err)
		}
		secs = append(secs, sec)
	}
	root, err := outline.NewDocument(secs...)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.ScrapeTimeout = 5 * time.Second
	return New(cfg, store.New(root), nil, nil)
}

func TestRootRedirectsToFrontPage(t *testing.T) {
	srv := testServer(t, map[string]string{"FrontPage": "welcome\n"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/a/FrontPage" {
		t.Errorf("Location = %q", loc)
	}
}

func TestServePage(t *testing.T) {
	srv := testServer(t, map[string]string{
		"FrontPage": "welcome to the notebook\nsee SmallPage\n",
		"SmallPage": "day one\n",
	})

	req := httptest.NewRequest(http.MethodGet, "/a/FrontPage", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Result().Body)
	page := string(body)

	if !strings.Contains(page, "welcome to the notebook") {
		t.Errorf("rendered page missing content:\n%s", page)
	}
	// SmallPage exists, so the wiki word links
	if !strings.Contains(page, `<a href="/a/SmallPage">`) {
		t.Errorf("page missing wiki link:\n%s", page)
	}
	// Editor carries the plain text source
	if !strings.Contains(page, "<textarea") || !strings.Contains(page, "see SmallPage") {
		t.Errorf("page missing editor:\n%s", page)
	}
}

func TestServeUnknownWikiWordMarkedUndefined(t *testing.T) {
	srv := testServer(t, map[string]string{"FrontPage": "see MissingPage\n"})

	req := httptest.NewRequest(http.MethodGet, "/a/FrontPage", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	body, _ := io.ReadAll(rec.Result().Body)
	if !strings.Contains(string(body), `class="undefined-word"`) {
		t.Errorf("unlinked wiki word not marked:\n%s", body)
	}
}

func TestServeMissingPageShowsEmptyEditor(t *testing.T) {
	srv := testServer(t, map[string]string{"FrontPage": "welcome\n"})

	req := httptest.NewRequest(http.MethodGet, "/a/NoSuchPage", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	body, _ := io.ReadAll(rec.Result().Body)
	if !strings.Contains(string(body), "<textarea") {
		t.Errorf("missing page should offer an editor:\n%s", body)
	}
}

func TestEditPage(t *testing.T) {
	srv := testServer(t, map[string]string{"FrontPage": "welcome\n"})

	form := url.Values{"text": {"rewritten\n\tdetail\n"}}
	req := httptest.NewRequest(http.MethodPost, "/a/FrontPage",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	page, ok := srv.st.Page("FrontPage")
	if !ok {
		t.Fatal("FrontPage vanished")
	}
	if got := outline.Print(page); got != "rewritten\n\tdetail\n" {
		t.Errorf("page after edit = %q", got)
	}
}

func TestEditRejectsInvalidPageName(t *testing.T) {
	srv := testServer(t, map[string]string{"FrontPage": "welcome\n"})

	// A newline in the page name would break the one-line headline rule
	form := url.Values{"text": {"sneaky\n"}}
	req := httptest.NewRequest(http.MethodPost, "/a/Front%0APage",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	// Nothing was persisted
	if got := srv.st.PageNames(); len(got) != 1 || got[0] != "FrontPage" {
		t.Errorf("rejected edit changed the store: %v", got)
	}
}

func TestEditCreatesPage(t *testing.T) {
	srv := testServer(t, map[string]string{"FrontPage": "welcome\n"})

	form := url.Values{"text": {"fresh content\n"}}
	req := httptest.NewRequest(http.MethodPost, "/a/BrandNew",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if _, ok := srv.st.Page("BrandNew"); !ok {
		t.Error("edited page was not created")
	}
}

func TestSaveBookmark(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><head><title>Saved Article</title></head></html>"))
	}))
	defer remote.Close()

	srv := testServer(t, map[string]string{"FrontPage": "welcome\n"})

	req := httptest.NewRequest(http.MethodGet, "/save?url="+url.QueryEscape(remote.URL), nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/a/"+BookmarkPage {
		t.Errorf("Location = %q", loc)
	}

	page, ok := srv.st.Page(BookmarkPage)
	if !ok {
		t.Fatal("bookmark page not created")
	}
	if page.Len() != 1 {
		t.Fatalf("bookmark page has %d sections", page.Len())
	}
	mark := page.At(0)
	if text, _ := mark.Head().TextContent(); text != "Saved Article" {
		t.Errorf("bookmark headline = %q", text)
	}
	if uri, ok := mark.Body().Attr("uri"); !ok || uri != remote.URL {
		t.Errorf("bookmark uri = %q, %v", uri, ok)
	}
}

func TestSaveMissingURL(t *testing.T) {
	srv := testServer(t, map[string]string{"FrontPage": "welcome\n"})

	req := httptest.NewRequest(http.MethodGet, "/save", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
