// Package releasify transforms a source package into a normalized release
// artifact: it validates packaging invariants, extracts the archive into a
// scoped working tree, strips dependency declarations, renders release
// notes, reconciles content-type declarations and re-packs the result.
//
// Builder is the orchestrator; Run wraps it for the CLI with a concurrent-
// run marker guard and settings persistence. Downstream collaborators
// (delta computation, signing, upload) consume the artifact by path.
package releasify
