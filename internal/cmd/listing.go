package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/gerby-reader/internal/api"
	"github.com/gravitrone/gerby-reader/internal/content"
	"github.com/gravitrone/gerby-reader/internal/render"
)

// BrowseCmd returns the `gerby browse` command.
func BrowseCmd(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "List the chapters",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runListing(c, g, "browse", "no chapters found", func(ctx context.Context, client *api.Client) ([]content.Summary, error) {
				return client.Browse(ctx)
			})
		},
	}
}

// SearchCmd returns the `gerby search` command.
func SearchCmd(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runListing(c, g, "search", "no results", func(ctx context.Context, client *api.Client) ([]content.Summary, error) {
				return client.Search(ctx, query)
			})
		},
	}
}

// IndexCmd returns the `gerby index` command.
func IndexCmd(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "List the tags on the front page",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runListing(c, g, "index", "no tags found", func(ctx context.Context, client *api.Client) ([]content.Summary, error) {
				return client.Index(ctx)
			})
		},
	}
}

func runListing(c *cobra.Command, g *Globals, op, empty string, list func(context.Context, *api.Client) ([]content.Summary, error)) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	items, err := list(c.Context(), g.Client(cfg))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	printSummaries(c.OutOrStdout(), items, empty)
	return nil
}

func printSummaries(w io.Writer, items []content.Summary, empty string) {
	if len(items) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	for _, s := range items {
		line := "  " + s.Tag
		if s.Type != "" || s.Ref != "" {
			line += "  " + strings.TrimSpace(render.Capitalize(s.Type)+" "+s.Ref)
		}
		if s.Name != "" {
			line += "  " + s.Name
		}
		fmt.Fprintln(w, line)
	}
}
