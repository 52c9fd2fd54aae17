package workdir

import (
	"fmt"
	"os"
)

// Run creates a uniquely named temporary directory, invokes fn with its path
// and removes the directory on every exit path, including a panic inside fn.
// Concurrent invocations receive independent directories.
func Run(prefix string, fn func(dir string) error) error {
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		return fmt.Errorf("create working tree: %w", err)
	}

	defer func() {
		// The tree must not outlive the invocation regardless of outcome.
		_ = os.RemoveAll(dir)
	}()

	return fn(dir)
}
