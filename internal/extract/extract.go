// Package extract turns a book file into one string of paragraph text.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExtractText picks the reader from the file extension: .txt is returned
// verbatim, .pdf goes through the PDF text layer, anything else is read as an
// EPUB container.
func ExtractText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read text file: %w", err)
		}
		return string(b), nil
	case ".pdf":
		return extractPDF(path)
	default:
		return extractEPUB(path)
	}
}
