package contenttypes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// existingManifest declares one extension and one redundant override.
const existingManifest = `<?xml version="1.0" encoding="utf-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="dll" ContentType="application/octet-stream" />
  <Default Extension="dll" ContentType="application/x-dup" />
  <Override PartName="/lib/net45/app.dll" ContentType="application/octet-stream" />
  <Override PartName="/notes.txt" ContentType="text/html" />
</Types>`

// writeTree creates a manifest plus content files and returns the tree root.
func writeTree(t *testing.T, manifest string) string {
	t.Helper()

	dir := t.TempDir()

	if manifest != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(manifest), 0o600))
	}

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib", "net45"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib", "net45", "app.dll"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib", "net45", "app.exe"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.nuspec"), []byte("<package/>"), 0o600))

	return dir
}

// reconcile runs the merge+clean+save sequence the pipeline uses.
func reconcile(t *testing.T, dir string, extra []string) []byte {
	t.Helper()

	manifest, err := Load(filepath.Join(dir, FileName))
	require.NoError(t, err)
	require.NoError(t, manifest.Merge(dir, extra))

	manifest.Clean()

	require.NoError(t, manifest.Save())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)

	return data
}

// TestMergeAddsMissingDefaults registers tree and delta extensions.
func TestMergeAddsMissingDefaults(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, existingManifest)
	data := string(reconcile(t, dir, []string{"diff", "shasum"}))

	require.Contains(t, data, `Extension="exe"`)
	require.Contains(t, data, `Extension="nuspec"`)
	require.Contains(t, data, `Extension="diff"`)
	require.Contains(t, data, `Extension="shasum"`)
}

// TestCleanDropsRedundantDeclarations removes duplicate defaults and covered overrides.
func TestCleanDropsRedundantDeclarations(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, existingManifest)
	data := string(reconcile(t, dir, nil))

	// Duplicate dll default is gone, the first declaration wins.
	require.Equal(t, 1, strings.Count(data, `Extension="dll"`))
	require.NotContains(t, data, "application/x-dup")

	// The dll override duplicated the default; the txt override did not.
	require.NotContains(t, data, `PartName="/lib/net45/app.dll"`)
	require.Contains(t, data, `PartName="/notes.txt"`)
}

// TestMissingManifestGainsOne builds a manifest from scratch.
func TestMissingManifestGainsOne(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, "")
	data := string(reconcile(t, dir, []string{"diff"}))

	require.Contains(t, data, "http://schemas.openxmlformats.org/package/2006/content-types")
	require.Contains(t, data, `Extension="dll"`)
	require.Contains(t, data, `Extension="diff"`)
}

// TestFixedPoint verifies merge+clean is byte-identical under repetition.
func TestFixedPoint(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, existingManifest)

	first := reconcile(t, dir, []string{"diff", "shasum"})
	second := reconcile(t, dir, []string{"diff", "shasum"})

	require.Equal(t, first, second)
}

// TestCleanRebuildKeepsDeclarations runs clean against a manifest whose
// Overrides follow duplicate Defaults. Every extension present in the tree
// must stay declared after a single run, and repetition must be a fixed
// point, regardless of where the kept elements sat in the original document.
func TestCleanRebuildKeepsDeclarations(t *testing.T) {
	t.Parallel()

	manifest := `<?xml version="1.0" encoding="utf-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="dll" ContentType="application/octet-stream" />
  <Default Extension="dll" ContentType="application/x-dup" />
  <Override PartName="/b.txt" ContentType="text/html" />
  <Override PartName="/lib/net45/app.dll" ContentType="application/x-other" />
</Types>`

	dir := writeTree(t, manifest)
	first := reconcile(t, dir, nil)

	for _, ext := range []string{"dll", "exe", "nuspec"} {
		require.Contains(t, string(first), `Extension="`+ext+`"`, "extension %s present in the tree must stay declared", ext)
	}

	// The overrides survive: neither duplicates the effective default.
	require.Contains(t, string(first), `PartName="/b.txt"`)
	require.Contains(t, string(first), `PartName="/lib/net45/app.dll"`)

	second := reconcile(t, dir, nil)
	require.Equal(t, first, second)
}

// TestTypeByExtension resolves known, registered and unknown extensions.
func TestTypeByExtension(t *testing.T) {
	t.Parallel()

	require.Equal(t, "application/octet-stream", TypeByExtension("dll"))
	require.Equal(t, "application/octet-stream", TypeByExtension(".diff"))
	require.Equal(t, "text/plain", TypeByExtension("shasum"))
	require.Equal(t, "application/octet-stream", TypeByExtension("no-such-ext"))
}
