package release

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// validPackage returns a package satisfying every invariant.
func validPackage() *Package {
	return &Package{
		FileName:   "app.1.2.3.nupkg",
		ID:         "app",
		Version:    "1.2.3",
		Frameworks: []string{"net45"},
	}
}

// TestValidateOK accepts a well-formed package.
func TestValidateOK(t *testing.T) {
	t.Parallel()

	require.NoError(t, Validate(validPackage()))
}

// TestValidateNonSemverVersion rejects lenient version forms unless test mode is on.
func TestValidateNonSemverVersion(t *testing.T) {
	t.Parallel()

	pkg := validPackage()
	pkg.Version = "1.2"

	err := Validate(pkg)
	require.Error(t, err)

	var validationErr *ValidationError

	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, NonSemverVersion, validationErr.Kind)
	require.Equal(t, pkg.FileName, validationErr.File)
	require.Contains(t, validationErr.Detail, "1.2")

	// Explicit test mode bypasses only the version rule.
	require.NoError(t, Validate(pkg, WithoutVersionCheck()))
}

// TestValidateFrameworkCount rejects zero and multiple target frameworks.
func TestValidateFrameworkCount(t *testing.T) {
	t.Parallel()

	pkg := validPackage()
	pkg.Frameworks = nil

	var validationErr *ValidationError

	require.ErrorAs(t, Validate(pkg), &validationErr)
	require.Equal(t, NoTargetFramework, validationErr.Kind)

	pkg.Frameworks = []string{"net45", "net48"}

	require.ErrorAs(t, Validate(pkg), &validationErr)
	require.Equal(t, MultipleTargetFrameworks, validationErr.Kind)
	require.Contains(t, validationErr.Detail, "net45")
	require.Contains(t, validationErr.Detail, "net48")
}

// TestValidateDependenciesNotSupported rejects any declared dependency group.
func TestValidateDependenciesNotSupported(t *testing.T) {
	t.Parallel()

	pkg := validPackage()
	pkg.DependencyGroups = []DependencyGroup{
		{
			TargetFramework: "net45",
			Dependencies:    []Dependency{{ID: "lib", VersionRange: "[1.0.0]"}},
		},
	}

	var validationErr *ValidationError

	require.ErrorAs(t, Validate(pkg), &validationErr)
	require.Equal(t, DependenciesNotSupported, validationErr.Kind)
	require.Equal(t, pkg.FileName, validationErr.File)
}

// TestValidateOrdering ensures the version rule wins over later rules.
func TestValidateOrdering(t *testing.T) {
	t.Parallel()

	pkg := validPackage()
	pkg.Version = "not-a-version"
	pkg.Frameworks = nil

	var validationErr *ValidationError

	require.ErrorAs(t, Validate(pkg), &validationErr)
	require.Equal(t, NonSemverVersion, validationErr.Kind)
}
