package nuspec

import "fmt"

// RenderFunc transforms release-notes source text into markup.
type RenderFunc func(source string) (string, error)

// RemoveDependencies deletes the dependencies element from the metadata.
// Absent dependencies are a no-op, so the operation is idempotent and safe
// to run on an already-normalized spec.
func (s *Spec) RemoveDependencies() error {
	metadata, err := s.Metadata()
	if err != nil {
		return err
	}

	if dependencies := childFold(metadata, "dependencies"); dependencies != nil {
		metadata.RemoveChild(dependencies)
	}

	return nil
}

// RenderReleaseNotes replaces the text of the optional releaseNotes element
// with render(originalText), wrapped in a CDATA section so the rendered
// markup survives serialization literally instead of being XML-escaped.
// A spec without release notes is left untouched.
func (s *Spec) RenderReleaseNotes(render RenderFunc) error {
	metadata, err := s.Metadata()
	if err != nil {
		return err
	}

	notes := childFold(metadata, "releaseNotes")
	if notes == nil {
		return nil
	}

	rendered, err := render(notes.Text())
	if err != nil {
		return fmt.Errorf("render release notes: %w", err)
	}

	notes.Child = nil
	notes.CreateCData(rendered)

	return nil
}
