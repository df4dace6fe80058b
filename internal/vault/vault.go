// Package vault maps between a directory of .otl files on disk and the
// single in-memory root document whose top-level sections are pages.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rsaarelm/otlbook/internal/logger"
	"github.com/rsaarelm/otlbook/internal/outline"
	"github.com/rsaarelm/otlbook/internal/store"
)

// Vault tracks which file each page was loaded from so changed pages
// can be written back in place.
type Vault struct {
	dir   string
	files map[string]string // page name -> file path
	log   *logger.Logger
}

// Load crawls dir for .otl and .otl.html files, parses them in
// parallel and returns
// the vault together with the assembled root document. The page name is
// the file name without the extension. Files matching an exclude
// pattern and files inside hidden directories are skipped.
func Load(dir string, exclude []string, log *logger.Logger) (*Vault, outline.Document, error) {
	if log == nil {
		log = logger.Discard()
	}

	paths, err := scan(dir, exclude, log)
	if err != nil {
		return nil, outline.Document{}, err
	}
	// Deterministic page order regardless of walk order
	sort.Strings(paths)

	type parsed struct {
		idx  int
		name string
		body outline.Document
		err  error
	}

	results := make([]parsed, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			data, err := os.ReadFile(path)
			if err != nil {
				results[i] = parsed{idx: i, err: err}
				return
			}
			body, err := outline.Parse(string(data))
			results[i] = parsed{idx: i, name: pageName(path), body: body, err: err}
		}(i, path)
	}
	wg.Wait()

	v := &Vault{dir: dir, files: make(map[string]string, len(paths)), log: log}
	var pages []outline.Section
	for i, r := range results {
		if r.err != nil {
			return nil, outline.Document{}, fmt.Errorf("loading %s: %w", paths[i], r.err)
		}
		if _, dup := v.files[r.name]; dup {
			log.Skipped(paths[i], "duplicate page name")
			continue
		}
		sec, err := outline.NewSection(outline.Text(r.name), r.body)
		if err != nil {
			return nil, outline.Document{}, fmt.Errorf("loading %s: %w", paths[i], err)
		}
		v.files[r.name] = paths[i]
		pages = append(pages, sec)
	}

	root, err := outline.NewDocument(pages...)
	if err != nil {
		return nil, outline.Document{}, err
	}
	return v, root, nil
}

// Save writes every page changed in st back to disk and commits the
// store. New pages get a fresh .otl file at the vault root. Pages
// deleted in memory leave their files in place. Returns the number of
// files written.
func (v *Vault) Save(st *store.Store) (int, error) {
	written := 0
	for _, name := range st.Changed() {
		body, ok := st.Page(name)
		if !ok {
			v.log.Skipped(v.files[name], "page removed in memory, file left in place")
			continue
		}
		path, ok := v.files[name]
		if !ok {
			path = filepath.Join(v.dir, name+".otl")
		}
		if err := os.WriteFile(path, []byte(outline.Print(body)), 0644); err != nil {
			return written, fmt.Errorf("saving %s: %w", name, err)
		}
		v.files[name] = path
		written++
	}
	st.Commit()
	return written, nil
}

// Path returns the file the named page was loaded from.
func (v *Vault) Path(name string) (string, bool) {
	path, ok := v.files[name]
	return path, ok
}

func scan(dir string, exclude []string, log *logger.Logger) ([]string, error) {
	var paths []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		base := filepath.Base(path)
		if info.IsDir() {
			if path != dir && strings.HasPrefix(base, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(base, ".otl") && !strings.HasSuffix(base, ".otl.html") {
			return nil
		}
		for _, pat := range exclude {
			if ok, _ := filepath.Match(pat, base); ok {
				log.Skipped(path, "excluded by pattern "+pat)
				return nil
			}
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func pageName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), ".html")
	return strings.TrimSuffix(base, ".otl")
}
