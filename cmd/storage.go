package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DuongDinhDang/newsapp/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local article cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the cached headlines",
	Long:  "Remove the cached article list. The next start fetches from the remote feed.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.Open(cachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer store.Close()

		if err := cache.NewArticles(store).Clear(); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := cachePath()
		store, err := cache.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer store.Close()

		keys, size, err := store.Stats(dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}
		articles, err := cache.NewArticles(store).Get()
		if err != nil {
			return fmt.Errorf("reading articles: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Cache: %s\n", dbPath)
		fmt.Fprintf(out, "Keys: %d\n", keys)
		fmt.Fprintf(out, "Articles: %d\n", len(articles))
		fmt.Fprintf(out, "Size: %s\n", formatBytes(size))
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
