// Package workdir scopes a temporary working tree to a single callback.
//
// The tree is exclusively owned by one pipeline invocation and removed on
// every exit path, leaving no temporary disk residue behind.
package workdir
