package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	baseDir    string
	dev        bool
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "linkscout",
		Short: "Fetches seed pages and records their links and metadata.",
		Long: `linkscout fetches every seed URL listed in its settings file, extracts
the hyperlinks, image sources, title, description, and headings of each page,
and appends them to Urls.log. Per-URL failures go to Error.log and never stop
the other URLs from being processed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"settings file (default is <base-dir>/settings.json)")
	cmd.PersistentFlags().StringVar(&opts.baseDir, "base-dir", "",
		"directory holding the settings file and run logs (overrides base_dir)")
	cmd.PersistentFlags().BoolVar(&opts.dev, "dev", false, "force development logging")

	cmd.AddCommand(newCrawlCmd(opts))

	return cmd
}

// Execute is the main entry point. SIGINT and SIGTERM cancel in-flight
// fetches; the run still waits for every unit to finish.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "linkscout:", err)
		os.Exit(1)
	}
}
