package release

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ValidationKind classifies why a package failed validation.
type ValidationKind string

const (
	// NonSemverVersion means the version is not a strict semantic version.
	NonSemverVersion ValidationKind = "NonSemverVersion"
	// NoTargetFramework means the package declares no target framework.
	NoTargetFramework ValidationKind = "NoTargetFramework"
	// MultipleTargetFrameworks means the package declares more than one target framework.
	MultipleTargetFrameworks ValidationKind = "MultipleTargetFrameworks"
	// DependenciesNotSupported means the package declares dependency groups.
	DependenciesNotSupported ValidationKind = "DependenciesNotSupported"
)

// ValidationError reports the first packaging invariant a package violates.
type ValidationError struct {
	// Kind classifies the violated invariant.
	Kind ValidationKind
	// File is the name of the offending input archive.
	File string
	// Detail carries rule-specific context (version string, framework list).
	Detail string
}

// Error renders the violation with the offending file and detail.
func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.File, e.Kind)
	}

	return fmt.Sprintf("%s: %s: %s", e.File, e.Kind, e.Detail)
}

// validateOptions carries validation adjustments.
type validateOptions struct {
	// skipVersionCheck disables the strict semver rule; test mode only.
	skipVersionCheck bool
}

// ValidateOption adjusts validation behavior.
type ValidateOption func(*validateOptions)

// WithoutVersionCheck bypasses the strict semantic-version rule.
// It exists for tests exercising packages with synthetic versions.
func WithoutVersionCheck() ValidateOption {
	return func(o *validateOptions) {
		o.skipVersionCheck = true
	}
}

// Validate enforces packaging invariants on an already-parsed package.
// Rules are checked in order and the first failure wins. The function is
// pure: it performs no IO, so invalid inputs never touch the filesystem.
func Validate(pkg *Package, opts ...ValidateOption) error {
	var options validateOptions
	for _, opt := range opts {
		opt(&options)
	}

	if !options.skipVersionCheck {
		if _, err := semver.StrictNewVersion(pkg.Version); err != nil {
			return &ValidationError{
				Kind:   NonSemverVersion,
				File:   pkg.FileName,
				Detail: fmt.Sprintf("version %q is not a strict semantic version", pkg.Version),
			}
		}
	}

	switch {
	case len(pkg.Frameworks) == 0:
		return &ValidationError{
			Kind:   NoTargetFramework,
			File:   pkg.FileName,
			Detail: "package declares no target framework",
		}
	case len(pkg.Frameworks) > 1:
		return &ValidationError{
			Kind:   MultipleTargetFrameworks,
			File:   pkg.FileName,
			Detail: fmt.Sprintf("package declares multiple target frameworks: %s", strings.Join(pkg.Frameworks, ", ")),
		}
	}

	if len(pkg.DependencyGroups) > 0 {
		return &ValidationError{
			Kind:   DependenciesNotSupported,
			File:   pkg.FileName,
			Detail: "release packages must not declare dependencies",
		}
	}

	return nil
}
