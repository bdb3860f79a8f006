package cmd

import (
	"github.com/spf13/cobra"

	"github.com/DuongDinhDang/newsapp/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	return runApp(cmd, tui.Options{Refresh: flagRefresh})
}

func runApp(cmd *cobra.Command, opts tui.Options) error {
	// The TUI owns the terminal, so logs go to a file.
	e, err := newEnv(nil, flagSensor)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	stop := e.start(ctx)
	defer stop()

	opts.Messages = e.msgs
	return tui.Run(ctx, e.session, opts)
}
