// Package loader reads the raw document corpus from the filesystem.
// Plain text and Markdown files are read directly; text PDFs go through a
// lightweight extractor (no OCR). One unreadable file never fails the
// whole load: it comes back as an error-annotated document instead.
package loader

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bioconsult/internal/models"
)

// FilesystemLoader walks a directory tree and extracts text from every
// supported file it finds.
type FilesystemLoader struct {
	dir string
}

// NewFilesystemLoader creates a loader rooted at dir. The directory is
// created when missing so a fresh deployment starts with an empty corpus
// rather than an error.
func NewFilesystemLoader(dir string) (*FilesystemLoader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("loader: failed to ensure data dir %s: %w", dir, err)
	}
	return &FilesystemLoader{dir: dir}, nil
}

// Load returns all supported documents under the loader's directory in
// deterministic (path-sorted) order. Unsupported extensions are skipped.
// Documents that failed extraction are returned with Err set and empty
// text; documents whose text is empty after extraction are dropped.
func (l *FilesystemLoader) Load(ctx context.Context) ([]models.RawDocument, error) {
	var paths []string
	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".md", ".pdf":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loader: failed to walk %s: %w", l.dir, err)
	}
	sort.Strings(paths)

	var docs []models.RawDocument
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ext := strings.ToLower(filepath.Ext(path))
		source := l.sourceName(path)
		text, err := extractText(path, ext)
		if err != nil {
			docs = append(docs, models.RawDocument{
				Source:   source,
				Metadata: map[string]string{"path": path, "ext": ext},
				Err:      err,
			})
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		docs = append(docs, models.RawDocument{
			Text:     text,
			Source:   source,
			Metadata: map[string]string{"path": path, "ext": ext},
		})
	}

	return docs, nil
}

// sourceName keys a document by its path relative to the data dir, with
// forward slashes on every platform. Files sharing a base name in
// different subdirectories stay distinct sources.
func (l *FilesystemLoader) sourceName(path string) string {
	rel, err := filepath.Rel(l.dir, path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

func extractText(path, ext string) (string, error) {
	if ext == ".pdf" {
		return extractPDFText(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
