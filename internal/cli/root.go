package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/me/rosterd/internal/logging"
)

var (
	flagServer    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	client *Client
)

// defaultServer returns the default server URL, checking ROSTERD_SERVER first.
func defaultServer() string {
	if s := os.Getenv("ROSTERD_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

// NewRootCmd creates the root cobra command for the rosterd CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rosterd",
		Short: "rosterd — employee shift scheduling",
		Long:  "rosterd submits scheduling problems, polls solve jobs, and analyzes schedules.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLogger(logging.ParseLevel(flagLogLevel), flagLogFormat)
			client = NewClient(flagServer, logger)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", defaultServer(), "rosterd server URL (or ROSTERD_SERVER env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newDemoDataCmd(),
		newSolveCmd(),
		newStatusCmd(),
		newCancelCmd(),
		newAnalyzeCmd(),
		newJobsCmd(),
	)

	return root
}
