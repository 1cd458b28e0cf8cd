package extraction

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ExtractText pulls plain text out of a receipt document. PDF only: the
// upstream upload surface converts everything else before it lands here.
func ExtractText(path string) (string, error) {
	if strings.ToLower(filepath.Ext(path)) != ".pdf" {
		return "", fmt.Errorf("unsupported document format: %s", filepath.Ext(path))
	}

	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open document: %w", err)
	}
	defer doc.Close()

	var pages []string
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		pages = append(pages, text)
	}

	return strings.Join(pages, "\n"), nil
}
