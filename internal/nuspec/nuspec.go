package nuspec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/oshokin/release-forge/internal/domain/release"
)

// Extension is the file extension identifying the metadata spec inside a package.
const Extension = ".nuspec"

var (
	// errNoRoot is returned for documents without a root element.
	errNoRoot = errors.New("spec has no root element")
	// errNoMetadata is returned when the root has no metadata child.
	errNoMetadata = errors.New("spec has no metadata element")
	// errNotLoadedFromFile is returned when Save is called on a parsed-only spec.
	errNotLoadedFromFile = errors.New("spec was not loaded from a file")
)

// Spec is the package's metadata document, loaded into memory, mutated by the
// normalization operations and persisted back to its original path.
type Spec struct {
	// path is the file the document was loaded from; empty for Parse results.
	path string
	// doc is the underlying XML document.
	doc *etree.Document
}

// Load reads a spec document from the provided path.
func Load(path string) (*Spec, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("read spec %s: %w", path, err)
	}

	spec := &Spec{path: path, doc: doc}
	if _, err := spec.Metadata(); err != nil {
		return nil, err
	}

	return spec, nil
}

// Parse reads a spec document from raw bytes, e.g. straight out of an archive.
func Parse(data []byte) (*Spec, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse spec: %w", err)
	}

	spec := &Spec{doc: doc}
	if _, err := spec.Metadata(); err != nil {
		return nil, err
	}

	return spec, nil
}

// Save persists the document back to the path it was loaded from,
// without re-indenting, so untouched structure survives byte-for-byte.
func (s *Spec) Save() error {
	if s.path == "" {
		return errNotLoadedFromFile
	}

	if err := s.doc.WriteToFile(s.path); err != nil {
		return fmt.Errorf("write spec %s: %w", s.path, err)
	}

	return nil
}

// Metadata returns the metadata element, defined as the first child element
// of the document root.
func (s *Spec) Metadata() (*etree.Element, error) {
	root := s.doc.Root()
	if root == nil {
		return nil, errNoRoot
	}

	children := root.ChildElements()
	if len(children) == 0 {
		return nil, errNoMetadata
	}

	return children[0], nil
}

// Package derives the immutable domain view from the document.
// fileName names the input archive for error reporting; frameworks are
// supplied by the caller, which derives them from the archive layout.
func (s *Spec) Package(fileName string, frameworks []string) (*release.Package, error) {
	metadata, err := s.Metadata()
	if err != nil {
		return nil, err
	}

	pkg := &release.Package{
		FileName:   fileName,
		Frameworks: append([]string(nil), frameworks...),
	}

	if el := childFold(metadata, "id"); el != nil {
		pkg.ID = strings.TrimSpace(el.Text())
	}

	if el := childFold(metadata, "version"); el != nil {
		pkg.Version = strings.TrimSpace(el.Text())
	}

	pkg.DependencyGroups = parseDependencyGroups(metadata)

	return pkg, nil
}

// parseDependencyGroups reads the dependencies element into domain groups.
// Grouped declarations map one-to-one; a flat dependency list becomes a
// single implicit group. An empty dependencies element yields no groups.
func parseDependencyGroups(metadata *etree.Element) []release.DependencyGroup {
	dependencies := childFold(metadata, "dependencies")
	if dependencies == nil {
		return nil
	}

	var groups []release.DependencyGroup

	var flat []release.Dependency

	for _, child := range dependencies.ChildElements() {
		switch {
		case strings.EqualFold(child.Tag, "group"):
			groups = append(groups, release.DependencyGroup{
				TargetFramework: child.SelectAttrValue("targetFramework", ""),
				Dependencies:    parseDependencies(child),
			})
		case strings.EqualFold(child.Tag, "dependency"):
			flat = append(flat, release.Dependency{
				ID:           child.SelectAttrValue("id", ""),
				VersionRange: child.SelectAttrValue("version", ""),
			})
		}
	}

	if len(flat) > 0 {
		groups = append(groups, release.DependencyGroup{Dependencies: flat})
	}

	return groups
}

// parseDependencies reads the dependency children of a group element.
func parseDependencies(group *etree.Element) []release.Dependency {
	var deps []release.Dependency

	for _, child := range group.ChildElements() {
		if !strings.EqualFold(child.Tag, "dependency") {
			continue
		}

		deps = append(deps, release.Dependency{
			ID:           child.SelectAttrValue("id", ""),
			VersionRange: child.SelectAttrValue("version", ""),
		})
	}

	return deps
}

// childFold returns the first child element whose tag matches name
// case-insensitively, or nil when there is none.
func childFold(parent *etree.Element, name string) *etree.Element {
	for _, child := range parent.ChildElements() {
		if strings.EqualFold(child.Tag, name) {
			return child
		}
	}

	return nil
}
