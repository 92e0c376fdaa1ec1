package votes

import (
	"regexp"
	"strings"
)

// Vocabulary is the fixed Dutch wording both pipelines match against,
// plus the page furniture that must never end up in a name list.
type Vocabulary struct {
	// Boilerplate markers: a line or name entry containing one is noise.
	Boilerplate []string
	// SectionEnds are the headings that close a vote block in text minutes.
	SectionEnds []string
	// truncate patterns are cut from a name blob up to the end of the line.
	// Extra markers added through With only drop whole entries.
	truncate []*regexp.Regexp
}

var (
	paginationRe  = regexp.MustCompile(`(?i)pagina\s+\d+\s+van\s+\d+.*`)
	postalCodeRe  = regexp.MustCompile(`\b\d{4} Leuven.*`)
	pageTailRe    = regexp.MustCompile(`(?i)(?:^|\s)van\s+\d+\s*$`)
	defaultMarker = []string{
		"Notulen van de gemeenteraad",
		"Stad Leuven",
		"Professor Van Overstraetenplein",
		"3000 Leuven",
		"pagina",
	}
	defaultSectionEnds = []string{"BESCHRIJVING", "BESLUIT", "BIJLAGEN"}
	defaultTruncate    = []*regexp.Regexp{
		regexp.MustCompile(`Professor Van Overstraetenplein.*`),
		regexp.MustCompile(`Notulen van de gemeenteraad.*`),
		regexp.MustCompile(`Stad Leuven.*`),
		paginationRe,
		postalCodeRe,
	}
)

// DefaultVocabulary returns the vocabulary used for Leuven council minutes
// and federal plenary pages.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{}.With(defaultMarker, defaultSectionEnds)
}

// With returns a copy of v extended with extra boilerplate markers and
// section-end keywords. Empty entries are ignored.
func (v Vocabulary) With(boilerplate, sectionEnds []string) Vocabulary {
	out := Vocabulary{
		Boilerplate: appendNonEmpty(append([]string{}, v.Boilerplate...), boilerplate),
		SectionEnds: appendNonEmpty(append([]string{}, v.SectionEnds...), sectionEnds),
	}
	out.truncate = defaultTruncate
	return out
}

func appendNonEmpty(dst, src []string) []string {
	for _, s := range src {
		if s = strings.TrimSpace(s); s != "" {
			dst = append(dst, s)
		}
	}
	return dst
}

// IsBoilerplate reports whether s is page furniture: a header, footer,
// address line or page-number fragment.
func (v Vocabulary) IsBoilerplate(s string) bool {
	for _, m := range v.Boilerplate {
		if strings.Contains(s, m) {
			return true
		}
	}
	return pageTailRe.MatchString(s)
}

// IsSectionEnd reports whether line is exactly a section-end keyword.
func (v Vocabulary) IsSectionEnd(line string) bool {
	for _, k := range v.SectionEnds {
		if line == k {
			return true
		}
	}
	return false
}

// stripFurniture removes inline page furniture from a name blob.
func (v Vocabulary) stripFurniture(s string) string {
	for _, re := range v.truncate {
		s = re.ReplaceAllString(s, "")
	}
	return s
}

// TypeFromKeyword maps a vote keyword ("voor", "tegen", "onthouding",
// "onthouding(en)", ...) to its Type.
func TypeFromKeyword(word string) (Type, bool) {
	w := strings.ToLower(strings.TrimSpace(word))
	switch {
	case strings.HasPrefix(w, "voor"):
		return For, true
	case strings.HasPrefix(w, "tegen"):
		return Against, true
	case strings.HasPrefix(w, "onthoud"):
		return Abstain, true
	}
	return "", false
}

// TypeIn selects a vote type by keyword containment, checked in the order
// for, against, abstain.
func TypeIn(text string) (Type, bool) {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "voor"):
		return For, true
	case strings.Contains(t, "tegen"):
		return Against, true
	case strings.Contains(t, "onthoud"):
		return Abstain, true
	}
	return "", false
}
