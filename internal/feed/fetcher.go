// Package feed retrieves a podcast feed and turns its entries into domain
// items without ever holding the raw body in memory.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/datallboy/gocast/internal/domain"
	"github.com/datallboy/gocast/internal/infra/logger"
	"github.com/mmcdole/gofeed"
)

type Fetcher struct {
	client    *http.Client
	userAgent string
	log       *logger.Logger
}

func NewFetcher(client *http.Client, userAgent string, log *logger.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Fetcher{client: client, userAgent: userAgent, log: log}
}

// Fetch downloads the feed at url and returns its items in feed order. It
// only returns once the whole body has been parsed.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]domain.FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.FetchError{URL: url, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	f.log.Debug("Fetching feed %q", url)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &domain.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &domain.FetchError{URL: url, Err: ctx.Err()}
		}
		return nil, &domain.ParseError{URL: url, Err: err}
	}

	items := make([]domain.FeedItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		if it == nil {
			continue
		}
		items = append(items, fromGofeed(it))
	}

	f.log.Info("Parsed %d items from %q (%s)", len(items), parsed.Title, parsed.FeedType)

	return items, nil
}

// LoadItems decodes a JSON item manifest, as written by the list command.
func LoadItems(r io.Reader) ([]domain.FeedItem, error) {
	var items []domain.FeedItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, &domain.ParseError{URL: "item manifest", Err: err}
	}
	return items, nil
}

// WriteItems encodes items in the manifest format accepted by LoadItems
func WriteItems(w io.Writer, items []domain.FeedItem) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("could not encode items: %w", err)
	}
	return nil
}

func fromGofeed(it *gofeed.Item) domain.FeedItem {
	item := domain.FeedItem{
		Title:     it.Title,
		GUID:      it.GUID,
		Published: it.PublishedParsed,
	}

	for _, enc := range it.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		length, _ := strconv.ParseInt(enc.Length, 10, 64)

		item.Enclosures = append(item.Enclosures, domain.Enclosure{
			Kind:   domain.EnclosureObject,
			URL:    enc.URL,
			Type:   enc.Type,
			Length: length,
		})
	}

	return item
}
