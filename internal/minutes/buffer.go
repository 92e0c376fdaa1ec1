package minutes

import (
	"strings"

	"github.com/Mohagames205/openbestuur/internal/votes"
)

// nameToken is a fragment of a name list together with the 1-based line
// it came from.
type nameToken struct {
	text string
	line int
}

// nameBuffer collects name fragments spread over several lines until the
// vote type they belong to is complete.
type nameBuffer struct {
	tokens []nameToken
}

func (b *nameBuffer) add(text string, line int) {
	b.tokens = append(b.tokens, nameToken{text: text, line: line})
}

func (b *nameBuffer) empty() bool { return len(b.tokens) == 0 }

func (b *nameBuffer) reset() { b.tokens = b.tokens[:0] }

// drain joins the fragments with spaces, cleans the result and empties the
// buffer.
func (b *nameBuffer) drain(c *votes.Cleaner) []string {
	parts := make([]string, 0, len(b.tokens))
	for _, t := range b.tokens {
		parts = append(parts, t.text)
	}
	b.reset()
	return c.Clean(strings.Join(parts, " "))
}
