package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/release-forge/internal/config"
	"github.com/oshokin/release-forge/internal/logger"
	"github.com/oshokin/release-forge/internal/service/releasify"
	"github.com/oshokin/release-forge/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// logLevel selects the logging verbosity for all subcommands.
	logLevel string

	// platform is the target platform the release is prepared for.
	platform string

	// searchPaths are extra directories probed for helper executables.
	searchPaths []string

	// outputFolder overrides where release artifacts are written.
	outputFolder string

	// rootCmd represents the base command for release packaging.
	rootCmd = &cobra.Command{
		Use:   "release-forge",
		Short: "Transform distributable packages into normalized release artifacts",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}
		},
	}

	// releasifyCmd runs the release-package transformation pipeline.
	releasifyCmd = &cobra.Command{
		Use:   "releasify [package]",
		Short: "Validate, normalize and re-pack a source package",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &releasify.Options{
				ConfigPath:   configPath,
				PackagePath:  args[0],
				Platform:     platform,
				OutputFolder: outputFolder,
				SearchPaths:  searchPaths,
			}

			return releasify.Run(ctx, options)
		},
	}
)

// Execute runs the release-forge CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "logging verbosity (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&platform, "platform", "p", "", "target platform (windows, osx, linux)")
	rootCmd.PersistentFlags().StringArrayVarP(&searchPaths, "search-path", "s", nil, "extra directory probed for helper executables (repeatable)")

	releasifyCmd.Flags().StringVarP(&outputFolder, "output", "o", "", "output folder for release artifacts")

	rootCmd.AddCommand(releasifyCmd)
}
