package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig   string
	flagLogLevel string
	flagRefresh  bool
	flagSensor   string
)

var rootCmd = &cobra.Command{
	Use:   "newsapp",
	Short: "Terminal news reader",
	Long: `newsapp shows the latest headlines from a newsdata.io-compatible API.

The last list is cached locally and reused on the next start; press r to
refresh, / to search. With --sensor, shaking the device refreshes too.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&flagRefresh, "refresh", false, "skip the cache and fetch fresh headlines on start")
	rootCmd.Flags().StringVar(&flagSensor, "sensor", "", "accelerometer stream (file or FIFO) for shake-to-refresh")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(headlinesCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "newsapp %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	go func() {
		// Restore default handling so a second Ctrl-C kills a stuck command.
		<-ctx.Done()
		stop()
	}()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
