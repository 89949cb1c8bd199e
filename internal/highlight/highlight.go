// Package highlight renders source snippets as minimal HTML, using
// tree-sitter to classify tokens where a grammar is available.
package highlight

import (
	"context"
	"fmt"
	"html"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

var goKeywords = map[string]struct{}{
	"break": {}, "case": {}, "chan": {}, "const": {}, "continue": {},
	"default": {}, "defer": {}, "else": {}, "fallthrough": {}, "for": {},
	"func": {}, "go": {}, "goto": {}, "if": {}, "import": {},
	"interface": {}, "map": {}, "package": {}, "range": {}, "return": {},
	"select": {}, "struct": {}, "switch": {}, "type": {}, "var": {},
}

// classify returns the CSS class for a node, or "" if the node should be
// descended into (or left plain when it has no children).
func classify(n *sitter.Node) string {
	switch n.Type() {
	case "comment":
		return "comment"
	case "interpreted_string_literal", "raw_string_literal", "rune_literal":
		return "string"
	case "int_literal", "float_literal", "imaginary_literal":
		return "number"
	case "true", "false", "nil", "iota":
		return "constant"
	case "type_identifier":
		return "type"
	}
	if n.IsNamed() {
		if n.Type() == "field_identifier" {
			if p := n.Parent(); p != nil && p.Type() == "method_declaration" {
				return "function"
			}
		}
		if n.Type() == "identifier" {
			if p := n.Parent(); p != nil && p.Type() == "function_declaration" {
				return "function"
			}
		}
		return ""
	}
	if _, ok := goKeywords[n.Type()]; ok {
		return "keyword"
	}
	return ""
}

type span struct {
	start, end uint32
	class      string
}

// Highlighter turns a range of a document into HTML.
type Highlighter struct {
	pool chan *sitter.Parser
}

// New creates a Highlighter with n reusable parsers.
func New(n int) *Highlighter {
	if n <= 0 {
		n = 1
	}
	h := &Highlighter{pool: make(chan *sitter.Parser, n)}
	for i := 0; i < n; i++ {
		p := sitter.NewParser()
		p.SetLanguage(golang.GetLanguage())
		h.pool <- p
	}
	return h
}

// Supports reports whether path has a grammar.
func Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".go")
}

// HTML renders document[start:end]. Files without a grammar are escaped
// verbatim.
func (h *Highlighter) HTML(path string, document []byte, start, end int) (string, error) {
	if start < 0 || end > len(document) || start > end {
		return "", fmt.Errorf("range [%d, %d) outside document of %d bytes", start, end, len(document))
	}
	if !Supports(path) {
		return html.EscapeString(string(document[start:end])), nil
	}

	p := <-h.pool
	defer func() { h.pool <- p }()

	tree, err := p.ParseCtx(context.Background(), nil, document)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	defer tree.Close()

	lo, hi := uint32(start), uint32(end)
	var spans []span
	collect(tree.RootNode(), lo, hi, &spans)

	return render(document, lo, hi, spans), nil
}

func collect(n *sitter.Node, lo, hi uint32, spans *[]span) {
	if n.EndByte() <= lo || n.StartByte() >= hi {
		return
	}
	if class := classify(n); class != "" {
		*spans = append(*spans, span{
			start: max(n.StartByte(), lo),
			end:   min(n.EndByte(), hi),
			class: class,
		})
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		collect(n.Child(i), lo, hi, spans)
	}
}

func render(document []byte, lo, hi uint32, spans []span) string {
	var b strings.Builder
	pos := lo
	for _, s := range spans {
		if s.start < pos {
			continue
		}
		b.WriteString(html.EscapeString(string(document[pos:s.start])))
		fmt.Fprintf(&b, `<span class="%s">%s</span>`, s.class, html.EscapeString(string(document[s.start:s.end])))
		pos = s.end
	}
	b.WriteString(html.EscapeString(string(document[pos:hi])))
	return b.String()
}

// Close releases all parsers.
func (h *Highlighter) Close() error {
	close(h.pool)
	for p := range h.pool {
		p.Close()
	}
	return nil
}
