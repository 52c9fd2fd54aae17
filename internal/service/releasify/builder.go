package releasify

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/oshokin/release-forge/internal/archive"
	"github.com/oshokin/release-forge/internal/config"
	"github.com/oshokin/release-forge/internal/contenttypes"
	"github.com/oshokin/release-forge/internal/domain/release"
	"github.com/oshokin/release-forge/internal/logger"
	"github.com/oshokin/release-forge/internal/markdown"
	"github.com/oshokin/release-forge/internal/nuspec"
	"github.com/oshokin/release-forge/internal/workdir"
)

const (
	// workdirPrefix names the scoped working trees of this pipeline.
	workdirPrefix = "release-forge-"

	// outputDirPermissions is applied when creating the artifact folder.
	outputDirPermissions os.FileMode = 0o755
)

// PostProcessFunc receives the working-tree path before packing and may
// mutate the tree in place, e.g. to sign binaries or drop delta artifacts.
type PostProcessFunc func(ctx context.Context, dir string) error

// Builder transforms one source package into one release artifact.
//
// A builder is single-use with respect to its output: the first Build fixes
// the outcome and later calls return it without redoing any work. Concurrent
// Build calls on the same instance must be serialized by the caller.
type Builder struct {
	// sourcePath is the input package archive.
	sourcePath string
	// outputPath is where the release artifact is written.
	outputPath string
	// renderNotes transforms release-notes source text into markup.
	renderNotes nuspec.RenderFunc
	// postProcess optionally mutates the working tree before packing.
	postProcess PostProcessFunc
	// deltaExtensions are always registered in the content-type manifest.
	deltaExtensions []string
	// skipVersionCheck disables the strict semver invariant; test mode only.
	skipVersionCheck bool

	// done marks the terminal state; artifactPath and buildErr are the cached outcome.
	done         bool
	artifactPath string
	buildErr     error
}

// Option adjusts a Builder at construction time.
type Option func(*Builder)

// WithReleaseNotesRenderer overrides the default Markdown-to-HTML renderer.
func WithReleaseNotesRenderer(render nuspec.RenderFunc) Option {
	return func(b *Builder) {
		b.renderNotes = render
	}
}

// WithPostProcess installs a hook invoked with the working-tree path after
// normalization and before packing.
func WithPostProcess(hook PostProcessFunc) Option {
	return func(b *Builder) {
		b.postProcess = hook
	}
}

// WithDeltaExtensions overrides the delta file extensions registered in the
// content-type manifest.
func WithDeltaExtensions(extensions ...string) Option {
	return func(b *Builder) {
		b.deltaExtensions = extensions
	}
}

// WithoutVersionCheck bypasses the strict semantic-version invariant.
// It exists for tests exercising packages with synthetic versions.
func WithoutVersionCheck() Option {
	return func(b *Builder) {
		b.skipVersionCheck = true
	}
}

// NewBuilder creates a builder for the package at sourcePath producing the
// artifact at outputPath.
func NewBuilder(sourcePath, outputPath string, opts ...Option) *Builder {
	builder := &Builder{
		sourcePath:      sourcePath,
		outputPath:      outputPath,
		renderNotes:     markdown.ToHTML,
		deltaExtensions: config.DefaultDeltaExtensions(),
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder
}

// Build runs the pipeline and returns the release artifact path.
// Once the outcome is fixed, re-entry returns it immediately.
func (b *Builder) Build(ctx context.Context) (string, error) {
	if b.done {
		return b.artifactPath, b.buildErr
	}

	b.artifactPath, b.buildErr = b.build(ctx)
	b.done = true

	return b.artifactPath, b.buildErr
}

// build executes the stage sequence. Validation strictly precedes any
// filesystem mutation; the working tree never outlives the call.
func (b *Builder) build(ctx context.Context) (string, error) {
	ctx = logger.WithKV(ctx, "package", filepath.Base(b.sourcePath))

	pkg, err := archive.InspectPackage(b.sourcePath)
	if err != nil {
		return "", err
	}

	if err = b.validate(pkg); err != nil {
		return "", err
	}

	// Only a validated package may touch the filesystem.
	if err = os.MkdirAll(filepath.Dir(b.outputPath), outputDirPermissions); err != nil {
		return "", fmt.Errorf("create output folder: %w", err)
	}

	err = workdir.Run(workdirPrefix, func(dir string) error {
		return b.transform(ctx, dir)
	})
	if err != nil {
		return "", err
	}

	logger.InfoKV(ctx, "Release artifact built", "output", b.outputPath)

	return b.outputPath, nil
}

// validate enforces packaging invariants before any IO happens.
func (b *Builder) validate(pkg *release.Package) error {
	if b.skipVersionCheck {
		return release.Validate(pkg, release.WithoutVersionCheck())
	}

	return release.Validate(pkg)
}

// transform runs the extraction, normalization and packing stages against
// one scoped working tree.
func (b *Builder) transform(ctx context.Context, dir string) error {
	// IO-bound stage: extraction runs in the background and is awaited
	// before anything touches the tree.
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return archive.Extract(groupCtx, b.sourcePath, dir)
	})

	if err := group.Wait(); err != nil {
		return err
	}

	specPath, err := findSpec(dir)
	if err != nil {
		return err
	}

	logger.DebugKV(ctx, "Normalizing metadata spec", "spec", filepath.Base(specPath))

	if err = b.normalizeSpec(specPath); err != nil {
		return err
	}

	if err = b.reconcileContentTypes(dir); err != nil {
		return err
	}

	if b.postProcess != nil {
		if err = b.postProcess(ctx, dir); err != nil {
			return fmt.Errorf("post-process hook: %w", err)
		}
	}

	// IO-bound stage: packing runs in the background and is awaited before
	// the working tree is released.
	group, groupCtx = errgroup.WithContext(ctx)
	group.Go(func() error {
		return archive.Pack(groupCtx, dir, b.outputPath)
	})

	return group.Wait()
}

// normalizeSpec applies both normalization operations and persists the spec.
func (b *Builder) normalizeSpec(specPath string) error {
	spec, err := nuspec.Load(specPath)
	if err != nil {
		return err
	}

	if err = spec.RemoveDependencies(); err != nil {
		return err
	}

	if err = spec.RenderReleaseNotes(b.renderNotes); err != nil {
		return err
	}

	return spec.Save()
}

// reconcileContentTypes merges and cleans the content-type manifest.
func (b *Builder) reconcileContentTypes(dir string) error {
	manifest, err := contenttypes.Load(filepath.Join(dir, contenttypes.FileName))
	if err != nil {
		return err
	}

	if err = manifest.Merge(dir, b.deltaExtensions); err != nil {
		return err
	}

	manifest.Clean()

	return manifest.Save()
}

// findSpec locates the single metadata spec file in the extracted tree.
// Zero matches is fatal; more than one is ambiguous and also fails fast.
func findSpec(dir string) (string, error) {
	var matches []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), nuspec.Extension) {
			matches = append(matches, path)
		}

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scan working tree: %w", err)
	}

	switch len(matches) {
	case 0:
		return "", archive.ErrSpecNotFound
	case 1:
		return matches[0], nil
	default:
		// WalkDir enumerates lexically, so the list is already deterministic.
		return "", fmt.Errorf("%w: %s", archive.ErrMultipleSpecs, strings.Join(matches, ", "))
	}
}
