package main

import (
	"fmt"

	"github.com/datallboy/gocast/internal/downloader"
	"github.com/datallboy/gocast/internal/feed"
	"github.com/spf13/cobra"
)

func newListCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list <feed-url>",
		Short: "Show the filename each episode would be saved as",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer c.close()

			items, err := c.app.Fetcher.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return feed.WriteItems(cmd.OutOrStdout(), items)
			}

			targets, errs := downloader.Targets(items)
			for _, t := range targets {
				fmt.Fprintln(cmd.OutOrStdout(), t.Filename)
			}
			for _, err := range errs {
				c.app.Logger.Warn("%v", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the parsed items as a JSON manifest for download --items")

	return cmd
}
