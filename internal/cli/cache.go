package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roomeditor/pkg/cache"
	"github.com/matzehuels/roomeditor/pkg/floorplan"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered floor plan cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached floor plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.conf().Cache.Path()
			if err != nil {
				return err
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.conf().Cache.Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// renderSVG renders dot, serving repeated renders from the plan cache. A
// broken cache only costs a re-render.
func (c *CLI) renderSVG(ctx context.Context, dot string) ([]byte, error) {
	logger := loggerFromContext(ctx)
	cfg := c.conf().Cache

	store, err := cfg.Open()
	if err != nil {
		logger.Warn("plan cache unavailable", "error", err)
		store = cache.NewNullCache()
	}
	defer store.Close()

	key := cache.PlanKey("svg", dot)
	if data, ok, err := store.Get(ctx, key); err != nil {
		logger.Warn("read plan cache", "error", err)
	} else if ok {
		logger.Debug("plan cache hit", "bytes", len(data))
		return data, nil
	}

	spinner := newSpinnerWithContext(ctx, "Rendering floor plan...")
	spinner.Start()
	data, err := floorplan.RenderSVG(ctx, dot)
	spinner.Stop()
	if err != nil {
		return nil, err
	}

	if err := store.Set(ctx, key, data, cfg.TTL); err != nil {
		logger.Warn("write plan cache", "error", err)
	}
	return data, nil
}
