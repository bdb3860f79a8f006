package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DuongDinhDang/newsapp/internal/errkind"
	"github.com/DuongDinhDang/newsapp/internal/session"
	"github.com/DuongDinhDang/newsapp/internal/tui"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search news articles",
	Long: `Search the remote feed and print the matches.

Without a query, the interactive search view opens instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runApp(cmd, tui.Options{SearchMode: true})
		}
		query := strings.Join(args, " ")

		e, err := newEnv(os.Stderr, "")
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		stop := e.start(ctx)
		defer stop()

		st, err := searchOnce(ctx, e.session.Search, query)
		if err != nil {
			return err
		}
		if st.Err != errkind.None {
			return fmt.Errorf("%s", e.msgs.SearchErrorMessage(st.Err))
		}
		if len(st.Results) == 0 && shortQuery(query) {
			fmt.Fprintln(cmd.OutOrStdout(), e.msgs.SearchHint)
			return nil
		}
		printArticles(cmd.OutOrStdout(), st.Results, e.msgs)
		return nil
	},
}

// searchOnce feeds a single query through the debounced controller and
// waits for it to settle.
func searchOnce(ctx context.Context, s *session.Search, query string) (session.SearchState, error) {
	settled := make(chan session.SearchState, 1)
	s.Observe(func(st session.SearchState) {
		if st.Query == query && !st.Pending {
			select {
			case settled <- st:
			default:
			}
		}
	})
	s.OnQueryChange(ctx, query)

	select {
	case st := <-settled:
		return st, nil
	case <-ctx.Done():
		return session.SearchState{}, fmt.Errorf("searching: %w", ctx.Err())
	}
}

func shortQuery(q string) bool {
	return len([]rune(strings.TrimSpace(q))) <= 2
}
