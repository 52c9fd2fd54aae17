package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/release-forge/internal/logger"
	"github.com/oshokin/release-forge/internal/retry"
)

const (
	// writeAttempts bounds retries of a single entry write. Transient
	// contention from filesystem scanners is tolerated; anything that
	// survives the attempts aborts the extraction.
	writeAttempts = 5

	// dirPermissions is applied to directories created during extraction.
	dirPermissions os.FileMode = 0o755
)

// Extract unpacks the zip archive at archivePath into destDir.
//
// Entry keys are split on both slash flavors and each component is
// percent-decoded independently before rejoining, so an encoded separator
// can never smuggle a traversal sequence across component boundaries.
// Hostile entries are rejected rather than re-rooted.
func Extract(ctx context.Context, archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", archivePath, err)
	}

	// Best-effort cleanup.
	defer func() {
		_ = reader.Close()
	}()

	logger.DebugKV(ctx, "Extracting archive", "archive", archivePath, "entries", len(reader.File))

	for _, entry := range reader.File {
		if err := extractEntry(entry, destDir); err != nil {
			return &ExtractError{Entry: entry.Name, Err: err}
		}
	}

	return nil
}

// extractEntry materializes one archive entry under destDir.
func extractEntry(entry *zip.File, destDir string) error {
	rel, err := sanitizeEntryName(entry.Name)
	if err != nil {
		return err
	}

	target := filepath.Join(destDir, rel)

	// Containment re-check after joining; sanitizeEntryName already rejects
	// traversal components, this guards the joined result as well.
	if target != filepath.Clean(destDir) &&
		!strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return errUnsafeEntryName
	}

	if entry.FileInfo().IsDir() {
		return os.MkdirAll(target, dirPermissions)
	}

	if err := os.MkdirAll(filepath.Dir(target), dirPermissions); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	return retry.Do(writeAttempts, retry.DefaultInterval, func() error {
		return writeEntry(entry, target)
	})
}

// writeEntry copies the entry bytes to target with the entry's mode.
func writeEntry(entry *zip.File, target string) error {
	source, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open entry: %w", err)
	}

	// Best-effort cleanup.
	defer func() {
		_ = source.Close()
	}()

	perm := entry.Mode().Perm()
	if perm == 0 {
		perm = 0o644
	}

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	if _, err = io.Copy(out, source); err != nil {
		_ = out.Close()
		return fmt.Errorf("write file: %w", err)
	}

	return out.Close()
}

// sanitizeEntryName converts a stored entry key into a safe relative path.
//
// The key is split on forward and back slashes, each component is
// percent-decoded on its own (malformed escapes fall back to the raw
// component), and components that decode to traversal sequences, separators
// or absolute forms are rejected. Decoding before rejoining is what closes
// the encoded-separator hole: a %2e%2e%2f hidden inside a single component
// surfaces here as a separator-bearing component and is refused.
func sanitizeEntryName(name string) (string, error) {
	rawComponents := strings.FieldsFunc(name, func(r rune) bool {
		return r == '/' || r == '\\'
	})

	components := make([]string, 0, len(rawComponents))

	for _, raw := range rawComponents {
		component, err := url.PathUnescape(raw)
		if err != nil {
			component = raw
		}

		switch {
		case component == "" || component == ".":
			continue
		case component == "..":
			return "", errUnsafeEntryName
		case strings.ContainsAny(component, `/\`):
			return "", errUnsafeEntryName
		case strings.HasSuffix(component, ":") && len(components) == 0:
			// Windows drive or stream prefix in the leading position.
			return "", errUnsafeEntryName
		}

		components = append(components, component)
	}

	if len(components) == 0 {
		return "", errEmptyEntryName
	}

	return filepath.Join(components...), nil
}
