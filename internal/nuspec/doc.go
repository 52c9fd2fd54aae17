// Package nuspec loads, inspects and normalizes the XML metadata spec
// carried inside a source package.
//
// Normalization consists of two independent, idempotent operations: removing
// the dependencies declaration and rendering release notes into literal
// markup. The document is persisted back to its original path; untouched
// structure is preserved rather than reformatted.
package nuspec
