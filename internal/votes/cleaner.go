package votes

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	bareCountRe = regexp.MustCompile(`^\d+$`)
	unitCountRe = regexp.MustCompile(`(?i)^\d+\s*(?:stem|vote)`)
)

// Cleaner turns a raw blob of participant names into a clean list. It holds
// only immutable vocabulary and is safe for concurrent use.
type Cleaner struct {
	vocab Vocabulary
}

// NewCleaner returns a cleaner that filters the given vocabulary's furniture.
func NewCleaner(v Vocabulary) *Cleaner {
	return &Cleaner{vocab: v}
}

var defaultCleaner = NewCleaner(DefaultVocabulary())

// CleanNames cleans blob with the default vocabulary.
func CleanNames(blob string) []string {
	return defaultCleaner.Clean(blob)
}

// Clean splits blob on the highest-priority separator present (semicolon,
// then comma, then newline) and drops short entries, count tokens, page
// furniture and entries without letters. Order is preserved and duplicates
// are kept.
func (c *Cleaner) Clean(blob string) []string {
	out := []string{}
	blob = norm.NFC.String(blob)
	blob = c.vocab.stripFurniture(blob)
	for _, raw := range splitNames(blob) {
		if name, ok := c.accept(raw); ok {
			out = append(out, name)
		}
	}
	return out
}

// Accept applies the per-entry filters of Clean to a single entry without
// splitting it on separators. It returns the normalized name.
func (c *Cleaner) Accept(entry string) (string, bool) {
	return c.accept(c.vocab.stripFurniture(norm.NFC.String(entry)))
}

func (c *Cleaner) accept(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	if utf8.RuneCountInString(name) <= 2 {
		return "", false
	}
	if bareCountRe.MatchString(name) || unitCountRe.MatchString(name) {
		return "", false
	}
	if c.vocab.IsBoilerplate(name) {
		return "", false
	}
	name = CollapseSpaces(name)
	if !hasLetter(name) {
		return "", false
	}
	return name, true
}

func splitNames(blob string) []string {
	switch {
	case strings.Contains(blob, ";"):
		return strings.Split(blob, ";")
	case strings.Contains(blob, ","):
		return strings.Split(blob, ",")
	case strings.Contains(blob, "\n"):
		return strings.Split(blob, "\n")
	}
	return []string{blob}
}

// NormalizeName composes s to NFC and collapses its whitespace.
func NormalizeName(s string) string {
	return CollapseSpaces(norm.NFC.String(s))
}

// CollapseSpaces trims s and reduces every whitespace run to one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
