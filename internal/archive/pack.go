package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/oshokin/release-forge/internal/logger"
)

// Pack produces a zip archive at outputPath from the tree under workingDir.
//
// Entries are enumerated lexically (WalkDir order), so repeated builds of an
// identical tree produce the same entry sequence. The archive is written to
// a temporary sibling first and renamed into place, so a failed pack never
// leaves a partial output file behind.
func Pack(ctx context.Context, workingDir, outputPath string) error {
	tmpPath := outputPath + ".tmp"

	if err := packTo(workingDir, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return &PackError{Err: err}
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		_ = os.Remove(tmpPath)
		return &PackError{Err: err}
	}

	logger.DebugKV(ctx, "Packed release archive", "output", outputPath)

	return nil
}

// packTo writes the zip archive for workingDir at path.
func packTo(workingDir, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	writer := zip.NewWriter(out)

	walkErr := filepath.WalkDir(workingDir, func(entryPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entryPath == workingDir {
			return nil
		}

		rel, err := filepath.Rel(workingDir, entryPath)
		if err != nil {
			return err
		}

		name := filepath.ToSlash(rel)

		if d.IsDir() {
			// Keep empty directories representable.
			_, err = writer.Create(name + "/")
			return err
		}

		return addFile(writer, entryPath, name)
	})

	if walkErr != nil {
		_ = writer.Close()
		_ = out.Close()

		return walkErr
	}

	if err := writer.Close(); err != nil {
		_ = out.Close()
		return fmt.Errorf("finalize archive: %w", err)
	}

	return out.Close()
}

// addFile writes one deflate-compressed file entry.
func addFile(writer *zip.Writer, path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("build entry header: %w", err)
	}

	header.Name = name
	header.Method = zip.Deflate

	dst, err := writer.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("create entry %s: %w", name, err)
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}

	// Best-effort cleanup.
	defer func() {
		_ = src.Close()
	}()

	if _, err = io.Copy(dst, src); err != nil {
		return fmt.Errorf("write entry %s: %w", name, err)
	}

	return nil
}
