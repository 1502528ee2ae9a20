package engine

import (
	"context"

	"github.com/datallboy/gocast/internal/domain"
	"github.com/datallboy/gocast/internal/downloader"
	"github.com/datallboy/gocast/internal/infra/logger"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]domain.FeedItem, error)
}

type Downloader interface {
	Run(ctx context.Context, items []domain.FeedItem) (downloader.Report, error)
}

// Pipeline fetches a feed to completion and only then hands every item to
// the downloader.
type Pipeline struct {
	fetcher    Fetcher
	downloader Downloader
	log        *logger.Logger
}

func NewPipeline(f Fetcher, d Downloader, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{fetcher: f, downloader: d, log: log}
}

// Run processes the feed at feedURL. Feed level failures are returned before
// any download is attempted; per-item failures only show up in the report.
func (p *Pipeline) Run(ctx context.Context, feedURL string) (downloader.Report, error) {
	items, err := p.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		p.log.Error("%v", err)
		return downloader.Report{}, err
	}

	return p.RunItems(ctx, items)
}

// RunItems skips the fetch stage and downloads an already known item list
func (p *Pipeline) RunItems(ctx context.Context, items []domain.FeedItem) (downloader.Report, error) {
	if len(items) == 0 {
		p.log.Warn("Feed has no items, nothing to download")
		return downloader.Report{}, nil
	}

	return p.downloader.Run(ctx, items)
}
