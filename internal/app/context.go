package app

import (
	"net/http"

	"github.com/datallboy/gocast/internal/downloader"
	"github.com/datallboy/gocast/internal/engine"
	"github.com/datallboy/gocast/internal/feed"
	"github.com/datallboy/gocast/internal/infra/config"
	"github.com/datallboy/gocast/internal/infra/logger"
)

// Context holds the configuration and the services wired from it for a
// single invocation of the CLI.
type Context struct {
	Config *config.Config
	Logger *logger.Logger

	HTTP       *http.Client
	Fetcher    *feed.Fetcher
	Downloader *downloader.Service
	Pipeline   *engine.Pipeline
}

// NewContext wires the services. A nil client gets one built from cfg.
func NewContext(cfg *config.Config, log *logger.Logger, client *http.Client) *Context {
	if client == nil {
		client = NewHTTPClient(cfg.HTTP)
	}

	f := feed.NewFetcher(client, cfg.HTTP.UserAgent, log)
	d := downloader.NewService(client, downloader.Options{
		OutDir:    cfg.Download.OutDir,
		UserAgent: cfg.HTTP.UserAgent,
		DryRun:    cfg.Download.DryRun,
	}, log)

	return &Context{
		Config:     cfg,
		Logger:     log,
		HTTP:       client,
		Fetcher:    f,
		Downloader: d,
		Pipeline:   engine.NewPipeline(f, d, log),
	}
}

// NewHTTPClient bounds the wait for response headers and nothing else, so
// large enclosures can take as long as they need.
func NewHTTPClient(cfg config.HTTPConfig) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.ResponseHeaderTimeout

	return &http.Client{Transport: transport}
}
