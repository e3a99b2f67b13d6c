package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "propbind",
	Short: "Normalize framework-neutral props for native UI targets",
	Long: `propbind rewrites a JSON prop set into the idiom of a UI target
(Compose, Svelte, SwiftUI, React Native, GTK, watchOS) and stores the result
under an adapter id.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errRejected) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}

// errRejected reports that props were rejected with an error result. The
// result has already been printed.
var errRejected = errors.New("props rejected")

// exitCode maps a command error to the process status: 0 on success, 2 for
// rejected props and 1 for everything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errRejected):
		return 2
	default:
		return 1
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&configFile, "config", "", "Config file (default: propbind.toml in the store root)")
	flags.String("backend", "", "Storage backend: fs, sqlite or memory")
	flags.String("path", "", "Store directory (default: discovered root or current directory)")
	flags.String("format", "", "Record format for the fs backend: json or yaml")
	flags.String("tables", "", "YAML file with mapping overrides")
}
