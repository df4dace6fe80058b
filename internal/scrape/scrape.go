// Package scrape fetches page titles for bookmark capture.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/rsaarelm/otlbook/internal/outline"
)

// Scraper fetches remote pages with a bounded timeout.
type Scraper struct {
	client *http.Client
}

// New creates a scraper whose requests time out after timeout.
func New(timeout time.Duration) *Scraper {
	return &Scraper{client: &http.Client{Timeout: timeout}}
}

// Title fetches url and returns the text of its <title> element. A page
// without a title returns the url itself so capture still succeeds.
func (s *Scraper) Title(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "otlbook/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: %s", url, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		title = url
	}
	return title, nil
}

// Bookmark builds an outline section for a captured link. The headline
// is the page title and the body records the uri, a fresh uid and the
// capture time as attributes.
func Bookmark(title, uri string, added time.Time) (outline.Section, error) {
	uriAttr, err := outline.NewAttr("uri", uri)
	if err != nil {
		return outline.Section{}, err
	}
	uidAttr, err := outline.NewAttr("uid", uuid.NewString())
	if err != nil {
		return outline.Section{}, err
	}
	addedAttr, err := outline.NewAttr("added", added.UTC().Format("2006-01-02T15:04:05Z"))
	if err != nil {
		return outline.Section{}, err
	}
	body, err := outline.NewDocument(uriAttr, uidAttr, addedAttr)
	if err != nil {
		return outline.Section{}, err
	}
	return outline.NewSection(outline.Text(title), body)
}
