// Package release contains core domain types for the release pipeline.
//
// It defines Package (an immutable view over a source archive's metadata)
// with its dependency structures, and Validate, which enforces packaging
// invariants before any filesystem work begins.
package release
