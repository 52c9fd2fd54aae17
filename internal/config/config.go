package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds releasifier settings shared by the CLI commands.
type Config struct {
	// Platform is the target platform the release is prepared for.
	Platform string `yaml:"platform"`
	// OutputFolder is the directory where release artifacts are written.
	OutputFolder string `yaml:"output_folder"`
	// SearchPaths are extra directories probed for helper executables
	// (signing and delta tools invoked by platform-specific hooks).
	SearchPaths []string `yaml:"search_paths,omitempty"`
	// DeltaExtensions are file extensions of delta artifacts that must be
	// registered in the content-type manifest even before any delta exists.
	DeltaExtensions []string `yaml:"delta_extensions,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for releasifier settings.
	DefaultConfigFilename = "release-forge-settings.yaml"

	// DefaultOutputFolder is where release artifacts land unless overridden.
	DefaultOutputFolder = "Releases"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// DefaultDeltaExtensions are registered in every produced content-type
// manifest so delta artifacts added by the diffing stage are always readable.
func DefaultDeltaExtensions() []string {
	return []string{"diff", "shasum"}
}

// supportedPlatforms enumerates the platforms a release can target.
//
//nolint:gochecknoglobals // Static lookup table.
var supportedPlatforms = map[string]struct{}{
	"windows": {},
	"osx":     {},
	"linux":   {},
}

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnsupportedPlatform is returned for platforms outside the supported set.
	errUnsupportedPlatform = errors.New("unsupported platform")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Platform != "" {
		if _, ok := supportedPlatforms[cfg.Platform]; !ok {
			return fmt.Errorf("%w: %s", errUnsupportedPlatform, cfg.Platform)
		}
	}

	// Set default output folder if not specified.
	if cfg.OutputFolder == "" {
		cfg.OutputFolder = DefaultOutputFolder
	}

	// Set default delta extensions if not specified.
	if len(cfg.DeltaExtensions) == 0 {
		cfg.DeltaExtensions = DefaultDeltaExtensions()
	}

	for _, dir := range cfg.SearchPaths {
		if dir == "" {
			return errors.New("search path must not be empty")
		}
	}

	return nil
}
