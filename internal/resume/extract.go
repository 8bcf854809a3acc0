// Package resume extracts text and basic contact details from resume files.
package resume

import (
	"fmt"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ExtractText pulls the plain text out of a PDF resume.
func ExtractText(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("resume file: %w", err)
	}

	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer doc.Close()

	var b strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("extract page %d of %s: %w", n+1, path, err)
		}
		b.WriteString(text)
	}
	return b.String(), nil
}
