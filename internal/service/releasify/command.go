package releasify

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/oshokin/release-forge/internal/archive"
	"github.com/oshokin/release-forge/internal/config"
	"github.com/oshokin/release-forge/internal/logger"
)

// Options contains inputs for the releasify entry point.
type Options struct {
	// ConfigPath is an optional path to persist releasifier settings.
	ConfigPath string
	// PackagePath is the source package archive to releasify.
	PackagePath string
	// Platform is the target platform; empty keeps the configured value.
	Platform string
	// OutputFolder overrides the configured artifact output folder.
	OutputFolder string
	// SearchPaths are extra directories probed for helper executables.
	SearchPaths []string
	// PostProcess optionally mutates the working tree before packing.
	PostProcess PostProcessFunc
}

// errBuildRunning indicates that another releasify run is in progress.
var errBuildRunning = errors.New("another releasify run is in progress")

// Run executes the releasify workflow and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "release-forge")

	if IsBuildRunningNow(ctx) {
		return errBuildRunning
	}

	if err := createMarker(); err != nil {
		return fmt.Errorf("create build marker: %w", err)
	}

	defer removeMarker()

	cfg, err := loadSettings(opts.ConfigPath)
	if err != nil {
		return err
	}

	if opts.Platform != "" {
		cfg.Platform = opts.Platform
	}

	if opts.OutputFolder != "" {
		cfg.OutputFolder = opts.OutputFolder
	}

	if len(opts.SearchPaths) > 0 {
		cfg.SearchPaths = opts.SearchPaths
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	if err := config.Save(opts.ConfigPath, cfg); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	outputPath, err := resolveOutputPath(cfg.OutputFolder, opts.PackagePath)
	if err != nil {
		return err
	}

	builder := NewBuilder(opts.PackagePath, outputPath,
		WithDeltaExtensions(cfg.DeltaExtensions...),
		WithPostProcess(opts.PostProcess))

	artifactPath, err := builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("releasify failed: %w", err)
	}

	logger.InfoKV(ctx, "Releasify completed successfully", "artifact", artifactPath)
	logger.Infof(ctx, "Hand %s to the delta and upload stages to publish the release", artifactPath)

	return nil
}

// loadSettings returns the persisted settings when a settings file exists and
// a fresh configuration otherwise, so flag values overlay the saved state.
func loadSettings(path string) (*config.Config, error) {
	cfg, err := config.Load(path)

	switch {
	case err == nil:
		return cfg, nil
	case errors.Is(err, fs.ErrNotExist):
		return &config.Config{}, nil
	default:
		return nil, err
	}
}

// resolveOutputPath derives the artifact name from the package identity.
func resolveOutputPath(outputFolder, packagePath string) (string, error) {
	pkg, err := archive.InspectPackage(packagePath)
	if err != nil {
		return "", err
	}

	return filepath.Join(outputFolder, fmt.Sprintf("%s-%s-full.nupkg", pkg.ID, pkg.Version)), nil
}
