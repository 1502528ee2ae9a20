package downloader

import (
	"context"
	"errors"
	"net/http"

	"github.com/datallboy/gocast/internal/domain"
	"github.com/datallboy/gocast/internal/infra/logger"
	"github.com/dustin/go-humanize"
	"github.com/segmentio/ksuid"
)

// Report summarizes a single run over a feed
type Report struct {
	RunID      string
	Downloaded int
	Skipped    int
	Failed     int
	Bytes      uint64
}

type Options struct {
	OutDir    string
	UserAgent string
	DryRun    bool
}

// Service downloads enclosures one at a time. Each download is finished,
// or abandoned, before the next one starts.
type Service struct {
	client *http.Client
	writer *FileWriter
	opts   Options
	log    *logger.Logger
}

func NewService(client *http.Client, opts Options, log *logger.Logger) *Service {
	if client == nil {
		client = http.DefaultClient
	}
	if opts.OutDir == "" {
		opts.OutDir = "."
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		client: client,
		writer: NewFileWriter(opts.OutDir),
		opts:   opts,
		log:    log,
	}
}

// Run downloads the first enclosure of every item, numbering them oldest
// first. Per-item failures are logged and counted; only cancellation or an
// unusable output directory stop the run early.
func (s *Service) Run(ctx context.Context, items []domain.FeedItem) (Report, error) {
	report := Report{RunID: ksuid.New().String()}
	log := s.log.With("run=" + report.RunID)

	if !s.opts.DryRun {
		if err := s.writer.EnsureDir(); err != nil {
			return report, err
		}
	}

	targets, errs := Targets(items)
	for _, err := range errs {
		log.Warn("Skipping %v", err)
		report.Failed++
	}

	log.Info("Processing %d enclosures into %q", len(targets), s.opts.OutDir)

	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		exists, err := s.writer.Exists(t.Filename)
		if err != nil {
			log.Error("%v", err)
			report.Failed++
			continue
		}
		if exists {
			log.Info("%q exists", t.Filename)
			report.Skipped++
			continue
		}

		if s.opts.DryRun {
			log.Info("Would download %q to %q", t.URL, t.Filename)
			report.Downloaded++
			continue
		}

		n, err := s.download(ctx, t)
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			log.Error("Failed %q: %v", t.Filename, err)
			report.Failed++
			continue
		}

		log.Debug("%q downloaded to %q", t.URL, t.Filename)
		log.Info("Saved %q (%s)", t.Filename, humanize.Bytes(uint64(n)))
		report.Downloaded++
		report.Bytes += uint64(n)
	}

	log.Info("Finished: %d downloaded, %d skipped, %d failed", report.Downloaded, report.Skipped, report.Failed)

	return report, nil
}

func (s *Service) download(ctx context.Context, t domain.DownloadTarget) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
	if err != nil {
		return 0, &domain.EnclosureFetchError{URL: t.URL, Err: err}
	}
	if s.opts.UserAgent != "" {
		req.Header.Set("User-Agent", s.opts.UserAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, &domain.EnclosureFetchError{URL: t.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &domain.EnclosureFetchError{URL: t.URL, StatusCode: resp.StatusCode}
	}

	n, err := s.writer.WriteFrom(t.Filename, resp.Body)
	if err != nil {
		var fsErr *domain.FilesystemError
		if errors.As(err, &fsErr) {
			return n, err
		}
		return n, &domain.EnclosureFetchError{URL: t.URL, Err: err}
	}

	return n, nil
}
