package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/brattlof/featgen/internal/app/config"
	"github.com/brattlof/featgen/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Populated by rootCmd's PersistentPreRunE.
var (
	cfg        *config.Config
	configUsed string
	logLevel   slog.LevelVar
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "featgen",
	Short: "Scaffold API and UI features from built-in templates",
	Long: `featgen writes a fixed set of files for a feature type, substituting
the feature name and ticket id into every path and file.

Placeholders:
  {name}       feature name, lower-cased
  {Name}       feature name, lower-cased then first letter capitalized
  {ticket_id}  ticket id, verbatim`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		verbose, _ := cmd.Flags().GetBool("verbose")

		loaded, used, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg, configUsed = loaded, used

		logger = cfg.NewLogger(os.Stderr, &logLevel)
		switch {
		case verbose:
			logLevel.Set(slog.LevelDebug)
		case cmd.Name() != "serve":
			logLevel.Set(max(logLevel.Level(), slog.LevelWarn))
		}
		slog.SetDefault(logger)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "featgen v%s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "  Commit: %s\n", commit)
		fmt.Fprintf(cmd.OutOrStdout(), "  Built:  %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webhookCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		output.New(os.Stdout, os.Stderr).Error(err.Error())
		os.Exit(1)
	}
}
