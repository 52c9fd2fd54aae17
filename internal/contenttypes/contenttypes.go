package contenttypes

import (
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/beevik/etree"
)

const (
	// FileName is the fixed location of the manifest within an archive.
	FileName = "[Content_Types].xml"

	// namespace is the OPC content-types schema namespace.
	namespace = "http://schemas.openxmlformats.org/package/2006/content-types"

	// fallbackType is declared for extensions with no better known MIME type.
	fallbackType = "application/octet-stream"

	// indentSpaces is the indentation applied when persisting the manifest.
	indentSpaces = 2
)

// knownTypes resolves extensions the mime package has no opinion about,
// plus OPC part types that must not depend on platform MIME tables.
//
//nolint:gochecknoglobals // Static lookup table.
var knownTypes = map[string]string{
	"dll":    "application/octet-stream",
	"exe":    "application/octet-stream",
	"pdb":    "application/octet-stream",
	"diff":   "application/octet-stream",
	"bsdiff": "application/octet-stream",
	"shasum": "text/plain",
	"txt":    "text/plain",
	"nuspec": "application/xml",
	"xml":    "application/xml",
	"config": "application/xml",
	"json":   "application/json",
	"rels":   "application/vnd.openxmlformats-package.relationships+xml",
	"psmdcp": "application/vnd.openxmlformats-package.core-properties+xml",
}

// Manifest is the archive's per-extension/per-file MIME declaration document.
type Manifest struct {
	// path is where the manifest is persisted.
	path string
	// doc is the underlying XML document.
	doc *etree.Document
	// types is the document's Types root element.
	types *etree.Element
}

// TypeByExtension resolves the MIME type for a bare extension (no dot).
func TypeByExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))

	if contentType, ok := knownTypes[ext]; ok {
		return contentType
	}

	if contentType := mime.TypeByExtension("." + ext); contentType != "" {
		// Drop parameters such as "; charset=utf-8".
		if i := strings.IndexByte(contentType, ';'); i >= 0 {
			contentType = contentType[:i]
		}

		return strings.TrimSpace(contentType)
	}

	return fallbackType
}

// Load reads the manifest at path. A missing file yields a fresh document
// with an empty Types root, so archives without a manifest gain one.
func Load(path string) (*Manifest, error) {
	doc := etree.NewDocument()

	switch _, err := os.Stat(path); {
	case err == nil:
		if err := doc.ReadFromFile(path); err != nil {
			return nil, fmt.Errorf("read content types %s: %w", path, err)
		}
	case os.IsNotExist(err):
		doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
		doc.CreateElement("Types").CreateAttr("xmlns", namespace)
	default:
		return nil, fmt.Errorf("stat content types %s: %w", path, err)
	}

	types := doc.Root()
	if types == nil || types.Tag != "Types" {
		return nil, fmt.Errorf("content types %s: missing Types root", path)
	}

	return &Manifest{path: path, doc: doc, types: types}, nil
}

// Merge declares a Default content type for every file extension found under
// rootDir (plus extraExtensions contributed by external collaborators, such
// as delta artifacts) that lacks one. Extensions are processed in sorted
// order so the result does not depend on filesystem traversal order.
func (m *Manifest) Merge(rootDir string, extraExtensions []string) error {
	present := make(map[string]struct{})

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || d.Name() == FileName {
			return nil
		}

		if ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext != "" {
			present[ext] = struct{}{}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("scan working tree: %w", err)
	}

	for _, ext := range extraExtensions {
		if ext = strings.ToLower(strings.TrimPrefix(ext, ".")); ext != "" {
			present[ext] = struct{}{}
		}
	}

	declared := m.defaults()

	missing := make([]string, 0, len(present))

	for ext := range present {
		if _, ok := declared[ext]; !ok {
			missing = append(missing, ext)
		}
	}

	sort.Strings(missing)

	for _, ext := range missing {
		el := m.types.CreateElement("Default")
		el.CreateAttr("Extension", ext)
		el.CreateAttr("ContentType", TypeByExtension(ext))
	}

	return nil
}

// Clean removes per-file overrides that duplicate the effective Default of
// their extension, drops repeated declarations, and rebuilds the children in
// sorted order so repeated runs produce byte-identical documents.
func (m *Manifest) Clean() {
	defaults := m.defaults()

	var (
		defaultEls  []*etree.Element
		overrideEls []*etree.Element
		seenDefault = make(map[string]struct{})
		seenPart    = make(map[string]struct{})
	)

	for _, child := range m.types.ChildElements() {
		switch child.Tag {
		case "Default":
			ext := strings.ToLower(child.SelectAttrValue("Extension", ""))
			if _, dup := seenDefault[ext]; dup || ext == "" {
				continue
			}

			seenDefault[ext] = struct{}{}
			defaultEls = append(defaultEls, child)
		case "Override":
			part := child.SelectAttrValue("PartName", "")
			if _, dup := seenPart[part]; dup || part == "" {
				continue
			}

			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(part), "."))
			if contentType, ok := defaults[ext]; ok && contentType == child.SelectAttrValue("ContentType", "") {
				// The default already covers this part.
				continue
			}

			seenPart[part] = struct{}{}
			overrideEls = append(overrideEls, child)
		}
	}

	sort.Slice(defaultEls, func(i, j int) bool {
		return defaultEls[i].SelectAttrValue("Extension", "") < defaultEls[j].SelectAttrValue("Extension", "")
	})
	sort.Slice(overrideEls, func(i, j int) bool {
		return overrideEls[i].SelectAttrValue("PartName", "") < overrideEls[j].SelectAttrValue("PartName", "")
	})

	// Detach every child (declarations and whitespace alike) through the
	// element API before re-adding: a kept element must not carry a stale
	// parent index into AddChild, or the rebuild removes the wrong sibling.
	for len(m.types.Child) > 0 {
		m.types.RemoveChildAt(0)
	}

	for _, el := range defaultEls {
		m.types.AddChild(el)
	}

	for _, el := range overrideEls {
		m.types.AddChild(el)
	}
}

// Save persists the manifest with stable indentation.
func (m *Manifest) Save() error {
	m.doc.Indent(indentSpaces)

	if err := m.doc.WriteToFile(m.path); err != nil {
		return fmt.Errorf("write content types %s: %w", m.path, err)
	}

	return nil
}

// defaults maps declared extensions (lowercased) to their first content type.
func (m *Manifest) defaults() map[string]string {
	declared := make(map[string]string)

	for _, child := range m.types.ChildElements() {
		if child.Tag != "Default" {
			continue
		}

		ext := strings.ToLower(child.SelectAttrValue("Extension", ""))
		if _, ok := declared[ext]; !ok && ext != "" {
			declared[ext] = child.SelectAttrValue("ContentType", "")
		}
	}

	return declared
}
