package parser

import "strings"

type markdownParser struct{}

func (markdownParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown")
}

func (markdownParser) Parse(content []byte) (string, error) {
	// guides in Markdown are kept verbatim apart from line endings
	return collapseBlankLines(string(content)), nil
}
