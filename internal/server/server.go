// Package server exposes the notebook over HTTP: rendered wiki pages,
// plain text editing and one-click bookmark capture.
package server

import (
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/rsaarelm/otlbook/internal/config"
	"github.com/rsaarelm/otlbook/internal/logger"
	"github.com/rsaarelm/otlbook/internal/outline"
	"github.com/rsaarelm/otlbook/internal/render"
	"github.com/rsaarelm/otlbook/internal/scrape"
	"github.com/rsaarelm/otlbook/internal/store"
	"github.com/rsaarelm/otlbook/internal/vault"
)

// FrontPage is the page the root URL redirects to.
const FrontPage = "FrontPage"

// BookmarkPage is the page captured bookmarks are appended to.
const BookmarkPage = "Bookmarks"

// Server serves the wiki out of a store and writes edits back through
// the vault.
type Server struct {
	cfg     *config.Config
	st      *store.Store
	v       *vault.Vault
	scraper *scrape.Scraper
	log     *logger.Logger
	mux     *http.ServeMux
}

// New wires up the server routes. The vault may be nil, in which case
// edits stay in memory only.
func New(cfg *config.Config, st *store.Store, v *vault.Vault, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	s := &Server{
		cfg:     cfg,
		st:      st,
		v:       v,
		scraper: scrape.New(cfg.ScrapeTimeout),
		log:     log,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /a/{page}", s.handlePage)
	s.mux.HandleFunc("POST /a/{page}", s.handleEdit)
	s.mux.HandleFunc("GET /save", s.handleSave)
	return s
}

// Handler returns the route multiplexer.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe blocks serving on the configured address.
func (s *Server) ListenAndServe() error {
	s.log.Info("serving notebook", "addr", s.cfg.Addr)
	return http.ListenAndServe(s.cfg.Addr, s.mux)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/a/"+FrontPage, http.StatusFound)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := r.PathValue("page")

	body, ok := s.st.Page(name)
	if !ok {
		s.log.PageMissing(name)
		// Serve an empty editor so the page can be created
		s.writePage(w, http.StatusNotFound, name, "", "")
		return
	}

	tree := render.Render(body, render.Options{
		FoldThreshold: s.cfg.FoldThreshold,
		Resolve:       s.resolve,
	})
	s.writePage(w, http.StatusOK, name, render.HTML(tree), outline.Print(body))
	s.log.PageServed(name, time.Since(start))
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("page")

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, err := outline.Parse(r.PostFormValue("text"))
	if err != nil {
		s.log.ParseError(name, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.st.SetPage(name, body); err != nil {
		s.log.ParseError(name, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.persist(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/a/"+name, http.StatusSeeOther)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	uri := r.URL.Query().Get("url")
	if uri == "" {
		http.Error(w, "missing url parameter", http.StatusBadRequest)
		return
	}

	title, err := s.scraper.Title(r.Context(), uri)
	if err != nil {
		s.log.ScrapeError(uri, err)
		// Capture the bare link anyway
		title = uri
	}
	mark, err := scrape.Bookmark(title, uri, time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	page, _ := s.st.Page(BookmarkPage)
	page, err = page.Append(mark)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.st.SetPage(BookmarkPage, page); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.persist(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.log.BookmarkSaved(uri, title)
	http.Redirect(w, r, "/a/"+BookmarkPage, http.StatusSeeOther)
}

func (s *Server) persist() error {
	if s.v == nil {
		return nil
	}
	n, err := s.v.Save(s.st)
	if err != nil {
		s.log.StoreError("save", err)
		return err
	}
	if n > 0 {
		s.log.VaultSaved(n)
	}
	return nil
}

func (s *Server) resolve(name string) bool {
	_, ok := s.st.Page(name)
	return ok
}

func (s *Server) writePage(w http.ResponseWriter, status int, name, rendered, source string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body>
<h1>%s</h1>
%s
<hr>
<form method="post" action="/a/%s">
<textarea name="text" rows="24" cols="80">%s</textarea>
<br><input type="submit" value="Save">
</form>
</body>
</html>
`, html.EscapeString(name), html.EscapeString(name), rendered,
		html.EscapeString(name), html.EscapeString(source))
}
