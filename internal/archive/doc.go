// Package archive handles the zip surfaces of the release pipeline: safe
// extraction of source packages, deterministic re-packing of the normalized
// working tree, and package inspection straight from the central directory.
//
// Extraction decodes percent-escaped entry keys component by component and
// rejects anything that would resolve outside the destination directory.
package archive
