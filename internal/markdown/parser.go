package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"
)

type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			&frontmatter.Extender{},
		),
	)

	return &Parser{
		md: md,
	}
}

func (p *Parser) ExtractFrontmatter(source []byte) map[string]any {
	context := parser.NewContext()
	p.md.Parser().Parse(text.NewReader(source), parser.WithContext(context))

	data := frontmatter.Get(context)
	if data == nil {
		return make(map[string]any)
	}

	var meta map[string]any
	err := data.Decode(&meta)
	if err != nil {
		return make(map[string]any)
	}
	return meta
}

// Split returns the frontmatter and the raw document body that follows it.
// The body is returned unrendered.
func (p *Parser) Split(source []byte) (meta map[string]any, body []byte) {
	return p.ExtractFrontmatter(source), stripFrontmatter(source)
}

// stripFrontmatter removes a leading YAML (---) or TOML (+++) block.
func stripFrontmatter(source []byte) []byte {
	first, rest, ok := bytes.Cut(source, []byte("\n"))
	if !ok {
		return source
	}
	delim := bytes.TrimSpace(first)
	if !bytes.Equal(delim, []byte("---")) && !bytes.Equal(delim, []byte("+++")) {
		return source
	}

	for len(rest) > 0 {
		var line []byte
		line, rest, _ = bytes.Cut(rest, []byte("\n"))
		if bytes.Equal(bytes.TrimSpace(line), delim) {
			return bytes.TrimLeft(rest, "\r\n")
		}
	}
	// Unterminated block, treat the whole file as body.
	return source
}
