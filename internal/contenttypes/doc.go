// Package contenttypes reconciles the OPC [Content_Types].xml manifest of a
// package archive.
//
// Merge registers a Default declaration for every extension present in the
// working tree (plus configured delta extensions); Clean drops redundant and
// duplicate declarations and rebuilds the document in sorted order. Applying
// merge and clean to an already-normalized manifest is a fixed point.
package contenttypes
