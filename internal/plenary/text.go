package plenary

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// flatten renders the text under n. Block elements start on a new line,
// whitespace between elements keeps the source's line structure (a blank
// line in the markup stays a blank line), and script-like content is
// dropped.
func flatten(n *html.Node) string {
	var f flattener
	f.walk(n)
	return normalizeWhitespace(f.b.String())
}

type flattener struct {
	b strings.Builder
}

func (f *flattener) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Head:
			return
		case atom.Br:
			f.b.WriteByte('\n')
			return
		}
	}
	if n.Type == html.TextNode {
		f.text(n.Data)
		return
	}

	block := n.Type == html.ElementNode && isBlock(n.DataAtom)
	if block {
		f.lineBreak()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		f.walk(c)
	}
	switch {
	case block:
		f.lineBreak()
	case n.Type == html.ElementNode && (n.DataAtom == atom.Td || n.DataAtom == atom.Th):
		f.b.WriteByte(' ')
	}
}

// text writes a text node. Whitespace-only nodes are reduced to the line
// structure they carry.
func (f *flattener) text(data string) {
	data = strings.NewReplacer("\t", " ", "\r", "").Replace(data)
	if strings.TrimSpace(data) != "" {
		f.b.WriteString(data)
		return
	}
	switch strings.Count(data, "\n") {
	case 0:
		if data != "" {
			f.b.WriteByte(' ')
		}
	case 1:
		f.lineBreak()
	default:
		f.paragraphBreak()
	}
}

func (f *flattener) lineBreak() {
	s := f.b.String()
	if s == "" || strings.HasSuffix(s, "\n") {
		return
	}
	f.b.WriteByte('\n')
}

func (f *flattener) paragraphBreak() {
	s := f.b.String()
	switch {
	case s == "", strings.HasSuffix(s, "\n\n"):
	case strings.HasSuffix(s, "\n"):
		f.b.WriteByte('\n')
	default:
		f.b.WriteString("\n\n")
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Main, atom.Header, atom.Footer,
		atom.Aside, atom.Nav, atom.Blockquote, atom.Pre, atom.Ul, atom.Ol, atom.Li, atom.Dl,
		atom.Dt, atom.Dd, atom.Table, atom.Thead, atom.Tbody, atom.Tfoot, atom.Tr, atom.Caption,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Hr, atom.Form, atom.Body:
		return true
	}
	return false
}

// normalizeWhitespace trims every line, collapses space runs inside lines
// and keeps at most one consecutive blank line.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.Join(strings.Fields(line), " ")
		if trimmed == "" {
			if len(out) == 0 || out[len(out)-1] == "" {
				continue
			}
			out = append(out, "")
			continue
		}
		out = append(out, trimmed)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

// inlineText is the text of n on a single line, as used for titles and
// table cells.
func inlineText(n *html.Node) string {
	return strings.Join(strings.Fields(flatten(n)), " ")
}
