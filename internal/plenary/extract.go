package plenary

import (
	"regexp"
	"strconv"

	"golang.org/x/net/html"

	"github.com/Mohagames205/openbestuur/internal/votes"
)

// PlaceholderTitle is reported for sections without any recognisable title.
const PlaceholderTitle = "Unknown Proposal"

var titleClassRe = regexp.MustCompile(`(?i)title|heading|voorstel|proposal`)

// extractTitle tries the first heading, then an element with a title-like
// class, then the first strong or emphasized text. found is false when the
// placeholder had to be used.
func extractTitle(section *html.Node) (title string, found bool) {
	candidates := []func(*html.Node) bool{
		isHeading,
		func(n *html.Node) bool {
			return n.Type == html.ElementNode && titleClassRe.MatchString(attr(n, "class"))
		},
		isEmphasis,
	}
	for _, match := range candidates {
		if n := findFirst(section, match); n != nil {
			if t := inlineText(n); t != "" {
				return t, true
			}
		}
	}
	return PlaceholderTitle, false
}

type typePattern struct {
	vt votes.Type
	re *regexp.Regexp
}

var (
	// "Voor (78): A; B; C" with the declared count in parentheses.
	countForms = []typePattern{
		{votes.For, regexp.MustCompile(`(?i)\bvoor\s*\((\d+)\)\s*:\s*`)},
		{votes.Against, regexp.MustCompile(`(?i)\btegen\s*\((\d+)\)\s*:\s*`)},
		{votes.Abstain, regexp.MustCompile(`(?i)\bonthoud(?:ingen|ing|en)\s*\((\d+)\)\s*:\s*`)},
	}
	typeKeywordRe = regexp.MustCompile(`(?i)\b(voor|tegen|onthoud(?:ingen|ing|en))\b`)

	// "Voor: A, B" or "Tegen - C" running to the end of the line.
	colonForms = []typePattern{
		{votes.For, regexp.MustCompile(`(?i)\bvoor\s*[:\-]\s*([^\n]+)`)},
		{votes.Against, regexp.MustCompile(`(?i)\btegen\s*[:\-]\s*([^\n]+)`)},
		{votes.Abstain, regexp.MustCompile(`(?i)\bonthoud(?:ingen|ing|en)\s*[:\-]\s*([^\n]+)`)},
	}
)

// extractCountForm reads every "<Type> (<N>): names" group of text. Each
// type is searched independently; the names of a group run up to the next
// keyword of another type or the end of the text. The declared N is kept
// as the count.
func (p *Parser) extractCountForm(text string) votes.Tally {
	t := votes.NewTally()
	for _, f := range countForms {
		m := f.re.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		count, _ := strconv.Atoi(text[m[2]:m[3]])
		body := text[m[1]:groupEnd(text, m[1], f.vt)]
		g := t.Group(f.vt)
		g.Count = count
		g.Names = p.cleaner.Clean(body)
	}
	return t
}

// groupEnd returns the offset of the first keyword of a different vote type
// at or after start, or len(text).
func groupEnd(text string, start int, vt votes.Type) int {
	for _, m := range typeKeywordRe.FindAllStringSubmatchIndex(text[start:], -1) {
		kw, ok := votes.TypeFromKeyword(text[start+m[2] : start+m[3]])
		if ok && kw != vt {
			return start + m[0]
		}
	}
	return len(text)
}

// extractColonForm reads the first "<Type>: names" line of each type. The
// count is the number of names recovered.
func (p *Parser) extractColonForm(text string) votes.Tally {
	t := votes.NewTally()
	for _, f := range colonForms {
		m := f.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		g := t.Group(f.vt)
		g.Names = p.cleaner.Clean(m[1])
		g.Count = len(g.Names)
	}
	return t
}
