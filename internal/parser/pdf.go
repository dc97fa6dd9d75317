package parser

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ledongthuc/pdf"
)

type pdfParser struct{}

func (pdfParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

func (pdfParser) Parse(_ []byte) (string, error) {
	return "", fmt.Errorf("pdf parser requires file path; use parser.ParseFile(path)")
}

// ParseFile extracts the text layer. If the PDF library fails, the system
// pdftotext command is tried before giving up.
func (pdfParser) ParseFile(path string) (string, error) {
	text, err := readPDF(path)
	if err == nil {
		return collapseBlankLines(text), nil
	}
	alt, altErr := pdftotext(path)
	if altErr != nil {
		return "", fmt.Errorf("extract pdf text: %w (pdftotext: %v)", err, altErr)
	}
	return collapseBlankLines(alt), nil
}

func readPDF(path string) (text string, err error) {
	// malformed files make the reader panic
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

var pdftotextBin = "pdftotext"

func pdftotext(path string) (string, error) {
	bin, err := exec.LookPath(pdftotextBin)
	if err != nil {
		return "", err
	}
	out, err := exec.Command(bin, path, "-").Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
