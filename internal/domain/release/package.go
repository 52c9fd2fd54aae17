package release

// Dependency is a single declared package dependency.
type Dependency struct {
	// ID is the identifier of the depended-upon package.
	ID string
	// VersionRange is the raw version constraint as declared.
	VersionRange string
}

// DependencyGroup is a set of dependencies scoped to one target framework.
// A flat dependency list in the metadata is treated as one implicit group.
type DependencyGroup struct {
	// TargetFramework is the framework the group applies to; may be empty.
	TargetFramework string
	// Dependencies are the declared dependencies of the group.
	Dependencies []Dependency
}

// Package is an immutable view over a source package archive, derived by
// parsing its metadata. It is never mutated by the pipeline.
type Package struct {
	// FileName is the base name of the input archive, used in error messages.
	FileName string
	// ID is the package identifier from the metadata.
	ID string
	// Version is the raw version string from the metadata.
	Version string
	// Frameworks are the declared target-platform frameworks.
	Frameworks []string
	// DependencyGroups are the declared dependency groups.
	DependencyGroups []DependencyGroup
}
