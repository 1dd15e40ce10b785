// Package cli defines the Cobra command tree for the rerank CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// version, commit, date are set via -ldflags at build time.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	scorer     string
	logLevel   string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	gf := &globalFlags{}
	root := &cobra.Command{
		Use:   "rerank",
		Short: "Rerank passages by relevance, most relevant at both ends",
		Long: `rerank scores passages against a query with a relevance model and
reorders them so the most relevant passages sit at the start and the end of
the list, where language models pay the most attention.

The middle third of every passage is repeated before scoring to counter the
scorer's own bias toward the start and end of a passage.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// API keys may live in a local .env file.
			_ = godotenv.Load()
		},
	}
	root.PersistentFlags().StringVar(&gf.configPath, "config", "", "Path to YAML config file (default ./rerank.yaml, then ~/.config/rerank/config.yaml)")
	root.PersistentFlags().StringVar(&gf.scorer, "scorer", "", "Override scorer type: tfidf, lexical, crossencoder, embedding")
	root.PersistentFlags().StringVar(&gf.logLevel, "log-level", "", "Override log level: debug, info, warn, error")

	root.AddCommand(
		newRankCmd(gf),
		newTUICmd(gf),
		newDemoCmd(gf),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rerank %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
