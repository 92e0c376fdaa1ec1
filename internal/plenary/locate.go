package plenary

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	sectionAttrRe    = regexp.MustCompile(`(?i)voting|vote|stemming|nominatief|vote-result|voting-result|roll-call`)
	tableKeywords    = []string{"voor", "tegen", "onthouding"}
	headingKeywords  = []string{"stemming", "vote", "nominatief"}
	fallbackKeywords = []string{"stemming", "vote", "voor", "tegen"}
)

// locateSections returns the candidate voting sections of doc: elements
// tagged by class or id, vote-bearing tables, and the containers of
// vote-themed headings, in that order and without duplicates.
func locateSections(doc *html.Node) []*html.Node {
	var out []*html.Node
	seen := make(map[*html.Node]bool)
	add := func(nodes []*html.Node) {
		for _, n := range nodes {
			if n != nil && !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	add(taggedElements(doc))
	add(voteTables(doc))
	add(headingContainers(doc))
	return out
}

func taggedElements(doc *html.Node) []*html.Node {
	return findAll(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		return sectionAttrRe.MatchString(attr(n, "class")) || sectionAttrRe.MatchString(attr(n, "id"))
	})
}

func voteTables(doc *html.Node) []*html.Node {
	return findAll(doc, func(n *html.Node) bool {
		return isTable(n) && containsAny(strings.ToLower(flatten(n)), tableKeywords)
	})
}

func headingContainers(doc *html.Node) []*html.Node {
	var out []*html.Node
	for _, h := range findAll(doc, isSectionHeading) {
		if !containsAny(strings.ToLower(inlineText(h)), headingKeywords) {
			continue
		}
		if p := closest(h, atom.Div, atom.Section, atom.Article); p != nil {
			out = append(out, p)
		}
	}
	return out
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
