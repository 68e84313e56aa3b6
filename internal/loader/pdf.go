package loader

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDFText pulls plain text from a text-based PDF, page by page.
// A page that fails extraction contributes an empty string; only a file
// that cannot be opened at all counts as a failed document.
func extractPDFText(path string) (text string, err error) {
	defer func() {
		// The pdf package panics on some malformed files; fold that into
		// the normal per-document error path.
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse pdf %s: %v", path, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, content)
	}

	return strings.Join(pages, "\n"), nil
}
