package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oshokin/release-forge/internal/domain/release"
	"github.com/oshokin/release-forge/internal/nuspec"
)

// libFolder is the archive folder whose first-level children declare the
// package's target frameworks.
const libFolder = "lib"

// InspectPackage derives the immutable domain view of a source package from
// the archive's central directory and its metadata spec, without extracting
// anything to disk. Exactly one spec entry is required.
func InspectPackage(archivePath string) (*release.Package, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", archivePath, err)
	}

	// Best-effort cleanup.
	defer func() {
		_ = reader.Close()
	}()

	var specEntry *zip.File

	frameworks := make(map[string]struct{})

	for _, entry := range reader.File {
		name := strings.ReplaceAll(entry.Name, `\`, "/")

		if strings.EqualFold(path.Ext(name), nuspec.Extension) {
			if specEntry != nil {
				return nil, fmt.Errorf("%w: %s", ErrMultipleSpecs, filepath.Base(archivePath))
			}

			specEntry = entry
		}

		if framework, ok := frameworkOf(name); ok {
			frameworks[framework] = struct{}{}
		}
	}

	if specEntry == nil {
		return nil, fmt.Errorf("%w: %s", ErrSpecNotFound, filepath.Base(archivePath))
	}

	data, err := readEntry(specEntry)
	if err != nil {
		return nil, fmt.Errorf("read spec entry %s: %w", specEntry.Name, err)
	}

	spec, err := nuspec.Parse(data)
	if err != nil {
		return nil, err
	}

	sorted := make([]string, 0, len(frameworks))
	for framework := range frameworks {
		sorted = append(sorted, framework)
	}

	sort.Strings(sorted)

	return spec.Package(filepath.Base(archivePath), sorted)
}

// frameworkOf extracts the target framework from lib/<framework>/... keys.
func frameworkOf(name string) (string, bool) {
	parts := strings.Split(name, "/")
	if len(parts) < 3 || !strings.EqualFold(parts[0], libFolder) || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

// readEntry returns the full contents of one archive entry.
func readEntry(entry *zip.File) ([]byte, error) {
	source, err := entry.Open()
	if err != nil {
		return nil, err
	}

	// Best-effort cleanup.
	defer func() {
		_ = source.Close()
	}()

	return io.ReadAll(source)
}
