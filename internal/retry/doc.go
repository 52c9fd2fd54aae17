// Package retry provides a bounded retry helper for flaky filesystem
// operations, such as writes contended by antivirus or indexing scanners.
//
// The attempt count is fixed and small; there is no cancellation and no
// pipeline-level retry built on top of it.
package retry
