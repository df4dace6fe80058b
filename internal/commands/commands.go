// Package commands implements the otlbook CLI verbs.
package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rsaarelm/otlbook/internal/config"
	"github.com/rsaarelm/otlbook/internal/logger"
	"github.com/rsaarelm/otlbook/internal/scrape"
	"github.com/rsaarelm/otlbook/internal/server"
	"github.com/rsaarelm/otlbook/internal/store"
	"github.com/rsaarelm/otlbook/internal/tags"
	"github.com/rsaarelm/otlbook/internal/tui"
	"github.com/rsaarelm/otlbook/internal/vault"
	"github.com/rsaarelm/otlbook/styles"
)

// openNotebook loads the config and crawls the notes directory.
func openNotebook(log *logger.Logger) (*config.Config, *vault.Vault, *store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	start := time.Now()
	v, root, err := vault.Load(cfg.NotesDir, cfg.ExcludePatterns, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading notes: %w", err)
	}
	st := store.New(root)
	log.VaultLoaded(cfg.NotesDir, root.Len(), time.Since(start))
	log.ConfigLoaded(cfg.NotesDir, cfg.Addr, cfg.FoldThreshold)

	return cfg, v, st, nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
	os.Exit(1)
}

// Serve runs the wiki server in the foreground.
func Serve(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "listen address, overrides config")
	fs.Parse(args)

	log := logger.New(os.Stderr)
	cfg, v, st, err := openNotebook(log)
	if err != nil {
		fail(err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	// Mirror server logs into the log file when one is configured
	if cfg.LogFile != "" {
		if fileLog, cleanup, err := logger.NewFileLogger(cfg.LogFile); err == nil {
			defer cleanup()
			log = fileLog
		}
	}

	srv := server.New(cfg, st, v, log)
	fmt.Println(styles.SuccessStyle.Render("✓ Serving notebook at http://" + cfg.Addr + "/"))
	if err := srv.ListenAndServe(); err != nil {
		fail(err)
	}
}

// Tags writes a vi tags file into the notes directory.
func Tags() {
	log := logger.New(os.Stderr)
	cfg, v, st, err := openNotebook(log)
	if err != nil {
		fail(err)
	}

	lines := tags.Build(st.Root(), func(page string) (string, bool) {
		path, ok := v.Path(page)
		if !ok {
			return "", false
		}
		// Tag paths are relative to the tags file
		if rel, err := filepath.Rel(cfg.NotesDir, path); err == nil {
			return rel, true
		}
		return path, true
	})

	tagFile := filepath.Join(cfg.NotesDir, "tags")
	if err := tags.Write(tagFile, lines); err != nil {
		fail(err)
	}
	fmt.Println(styles.SuccessStyle.Render(fmt.Sprintf("✓ Wrote %d tags to %s", len(lines), tagFile)))
}

// Save captures a bookmark for the given URL.
func Save(args []string) {
	if len(args) < 1 {
		fail(fmt.Errorf("usage: otlbook save <url>"))
	}
	uri := args[0]

	log := logger.New(os.Stderr)
	cfg, v, st, err := openNotebook(log)
	if err != nil {
		fail(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ScrapeTimeout)
	defer cancel()

	title, err := scrape.New(cfg.ScrapeTimeout).Title(ctx, uri)
	if err != nil {
		log.ScrapeError(uri, err)
		title = uri
	}

	mark, err := scrape.Bookmark(title, uri, time.Now())
	if err != nil {
		fail(err)
	}
	page, _ := st.Page(server.BookmarkPage)
	page, err = page.Append(mark)
	if err != nil {
		fail(err)
	}
	if err := st.SetPage(server.BookmarkPage, page); err != nil {
		fail(err)
	}
	if _, err := v.Save(st); err != nil {
		fail(err)
	}

	log.BookmarkSaved(uri, title)
	fmt.Println(styles.SuccessStyle.Render("✓ Saved: " + title))
}

// Browse opens the interactive notebook browser.
func Browse() {
	log := logger.Discard()
	_, v, st, err := openNotebook(log)
	if err != nil {
		fail(err)
	}
	if err := tui.RunBrowse(st, v); err != nil {
		fail(err)
	}
}
