package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/datallboy/gocast/internal/downloader"
	"github.com/datallboy/gocast/internal/feed"
	"github.com/spf13/cobra"
)

func newDownloadCmd(c *cli) *cobra.Command {
	var itemsFile string

	cmd := &cobra.Command{
		Use:   "download [feed-url]",
		Short: "Download every enclosure that is not on disk yet",
		Args: func(cmd *cobra.Command, args []string) error {
			if itemsFile == "" && len(args) != 1 {
				return errors.New("requires a feed url, or --items")
			}
			if itemsFile != "" && len(args) != 0 {
				return errors.New("a feed url and --items are mutually exclusive")
			}
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer c.close()

			var (
				report downloader.Report
				err    error
			)

			if itemsFile != "" {
				f, openErr := os.Open(itemsFile)
				if openErr != nil {
					return openErr
				}
				defer f.Close()

				items, loadErr := feed.LoadItems(f)
				if loadErr != nil {
					return loadErr
				}
				report, err = c.app.Pipeline.RunItems(cmd.Context(), items)
			} else {
				report, err = c.app.Pipeline.Run(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d downloaded, %d skipped, %d failed\n", report.Downloaded, report.Skipped, report.Failed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&itemsFile, "items", "i", "", "read items from a JSON manifest instead of fetching a feed")
	cmd.Flags().StringP("out-dir", "o", "", "directory to save enclosures in (default is the working directory)")
	cmd.Flags().Bool("dry-run", false, "show what would be downloaded without writing anything")

	_ = c.v.BindPFlag("download.out_dir", cmd.Flags().Lookup("out-dir"))
	_ = c.v.BindPFlag("download.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}
