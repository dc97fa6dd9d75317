// Package parser converts survey codebook guides (HTML, PDF, DOCX, Markdown,
// plain text) into plain text for reading and searching. It shares no data
// contract with the harmonization core.
package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/surveyloom/internal/utils"
)

// Parser defines a document parser implementation.
type Parser interface {
	CanParse(filename string) bool
	Parse(content []byte) (string, error)
}

// fileParser is implemented by parsers that need the file on disk.
type fileParser interface {
	ParseFile(path string) (string, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ParseFile selects a parser based on filename and returns parsed text content.
func ParseFile(path string) (string, error) {
	for _, p := range registry {
		if !p.CanParse(path) {
			continue
		}
		if fp, ok := p.(fileParser); ok {
			return fp.ParseFile(path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		return p.Parse(data)
	}
	return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
}

// OutputName is the text file name a guide converts to. An "_html" marker
// before the extension is dropped, so variable_guide_2012_html.txt becomes
// variable_guide_2012.txt.
func OutputName(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.TrimSuffix(stem, "_html")
	return stem + ".txt"
}

// Convert parses path and writes the text into outDir, returning the path
// written.
func Convert(path, outDir string) (string, error) {
	text, err := ParseFile(path)
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(outDir); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	out := filepath.Join(outDir, OutputName(path))
	if err := utils.SafeWriteFile(out, []byte(text)); err != nil {
		return "", err
	}
	return out, nil
}

// normalizeNewlines converts CRLF and CR to LF.
func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// collapseBlankLines trims the text and leaves at most one empty line in a row.
func collapseBlankLines(text string) string {
	text = strings.TrimSpace(normalizeNewlines(text))
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return text
}

// visibleLines trims every line and drops the empty ones.
func visibleLines(text string) string {
	lines := strings.Split(normalizeNewlines(text), "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func init() {
	// order matters: html claims *_html.txt before txt does
	Register(htmlParser{})
	Register(pdfParser{})
	Register(txtParser{})
	Register(markdownParser{})
	Register(docxParser{})
}

// ErrUnsupported indicates a format is not supported yet.
var ErrUnsupported = errors.New("unsupported document format")
