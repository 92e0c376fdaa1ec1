package plenary

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// walk visits n and its descendants in document order.
func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// findAll returns the descendants of n (not n itself) that satisfy match,
// in document order.
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var res []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(cur *html.Node) {
			if match(cur) {
				res = append(res, cur)
			}
		})
	}
	return res
}

// findFirst returns the first descendant of n that satisfies match.
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if match(c) {
			return c
		}
		if res := findFirst(c, match); res != nil {
			return res
		}
	}
	return nil
}

func isElement(atoms ...atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, a := range atoms {
			if n.DataAtom == a {
				return true
			}
		}
		return false
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// closest returns the nearest proper ancestor of n with one of the atoms.
func closest(n *html.Node, atoms ...atom.Atom) *html.Node {
	match := isElement(atoms...)
	for p := n.Parent; p != nil; p = p.Parent {
		if match(p) {
			return p
		}
	}
	return nil
}

var (
	isHeading  = isElement(atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6)
	isTable    = isElement(atom.Table)
	isRow      = isElement(atom.Tr)
	isCell     = isElement(atom.Td, atom.Th)
	isEmphasis = isElement(atom.Strong, atom.B, atom.Em)
)

// isSectionHeading matches the headings that may mark a voting section.
var isSectionHeading = isElement(atom.H1, atom.H2, atom.H3, atom.H4, atom.H5)
