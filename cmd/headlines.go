package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/DuongDinhDang/newsapp/internal/cache"
	"github.com/DuongDinhDang/newsapp/internal/locale"
	"github.com/DuongDinhDang/newsapp/internal/session"
)

var flagHeadlinesRefresh bool

var headlinesCmd = &cobra.Command{
	Use:   "headlines",
	Short: "Print the latest headlines",
	Long: `Print the cached headlines, fetching them when the cache is empty.

Use --refresh to skip the cache.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(os.Stderr, "")
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		stop := e.start(ctx)
		defer stop()

		var states <-chan session.State
		if flagHeadlinesRefresh {
			states = e.session.Sync.ForceRefresh(ctx)
		} else {
			states = e.session.Sync.LoadArticles(ctx)
		}

		var st session.State
		select {
		case next, ok := <-states:
			if !ok {
				return errors.New("loading headlines: session stopped")
			}
			st = next
		case <-ctx.Done():
			return fmt.Errorf("loading headlines: %w", ctx.Err())
		}
		if st.Status == session.Error {
			return fmt.Errorf("%s", e.msgs.ErrorMessage(st.Err))
		}
		printArticles(cmd.OutOrStdout(), st.Articles, e.msgs)
		return nil
	},
}

func init() {
	headlinesCmd.Flags().BoolVar(&flagHeadlinesRefresh, "refresh", false, "skip the cache and fetch fresh headlines")
}

func printArticles(w io.Writer, articles []cache.Article, msgs *locale.Messages) {
	if len(articles) == 0 {
		fmt.Fprintln(w, msgs.NoResults)
		return
	}
	for i, a := range articles {
		fmt.Fprintf(w, "%2d. %s\n", i+1, msgs.Title(a.Title))
		fmt.Fprintf(w, "    %s", msgs.Date(a.PublishedAt))
		if a.Link != "" {
			fmt.Fprintf(w, "  %s", a.Link)
		}
		fmt.Fprintln(w)
	}
}
