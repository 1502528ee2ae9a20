package main

import (
	"fmt"

	"github.com/datallboy/gocast/internal/app"
	"github.com/datallboy/gocast/internal/infra/config"
	"github.com/datallboy/gocast/internal/infra/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type cli struct {
	cfgFile string
	v       *viper.Viper
	app     *app.Context
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "gocast",
		Short: "Download podcast enclosures as numbered files",
		Long: `gocast fetches a podcast feed and downloads the audio attached to each
episode, oldest first, as "<NNN> <title><ext>". Files that already exist
are skipped, so re-running against the same feed only fetches new episodes.

Example usage:
  gocast download https://example.com/feed.xml
  gocast download https://example.com/feed.xml --out-dir ./ward
  gocast list https://example.com/feed.xml --json > items.json
  gocast download --items items.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is ./gocast.yaml if present)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().String("log-file", "", "also append log lines to this file")

	_ = c.v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))
	_ = c.v.BindPFlag("log.path", root.PersistentFlags().Lookup("log-file"))

	root.AddCommand(newDownloadCmd(c), newListCmd(c), newVersionCmd())

	return root
}

// init loads config and wires the app context. Subcommands that need it
// call this from their PreRunE so flags are already bound.
func (c *cli) init(cmd *cobra.Command) error {
	cfg, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cmd.ErrOrStderr(), cfg.Log.Path, logger.ParseLevel(cfg.Log.Level), cfg.Log.IncludeStdout)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	c.app = app.NewContext(cfg, log, nil)
	log.Debug("configuration loaded: out_dir=%q dry_run=%t", cfg.Download.OutDir, cfg.Download.DryRun)

	return nil
}

func (c *cli) close() {
	if c.app != nil {
		_ = c.app.Logger.Close()
	}
}
