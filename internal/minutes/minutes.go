// Package minutes extracts roll-call votes from plain-text council minutes.
//
// The parser is an explicit state machine over the trimmed input lines:
//
//	Idle -> TitleCapture -> AwaitingStatus -> VoteCapture -> Idle
//
// A numeric-only line followed by "<title> (<id>)" opens an agenda item, a
// STATUS block announcing an electronic vote opens its vote block, and the
// block runs until a section-end keyword, the next numeric line or the end
// of the input.
package minutes

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Mohagames205/openbestuur/internal/votes"
)

// Parser holds the immutable vocabulary. Every call to Parse owns its own
// state, so one Parser may be shared between goroutines.
type Parser struct {
	vocab   votes.Vocabulary
	cleaner *votes.Cleaner
}

// New returns a parser using the default vocabulary.
func New() *Parser {
	return NewParser(votes.DefaultVocabulary())
}

// NewParser returns a parser bound to vocabulary v.
func NewParser(v votes.Vocabulary) *Parser {
	return &Parser{vocab: v, cleaner: votes.NewCleaner(v)}
}

// Parse extracts agenda items with vote data from content using the
// default vocabulary.
func Parse(content string) []votes.AgendaItem {
	return New().ParseString(content)
}

// ParseString splits content on newlines and parses the lines.
func (p *Parser) ParseString(content string) []votes.AgendaItem {
	return p.Parse(strings.Split(content, "\n"))
}

// ParseReader reads all lines from r before parsing.
func (p *Parser) ParseReader(r io.Reader) ([]votes.AgendaItem, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read minutes: %w", err)
	}
	return p.Parse(lines), nil
}

// Parse runs the state machine over lines and returns the completed items
// in source order. The result is never nil.
func (p *Parser) Parse(lines []string) []votes.AgendaItem {
	trimmed := make([]string, len(lines))
	for i, l := range lines {
		trimmed[i] = strings.TrimSpace(l)
	}
	r := &run{p: p, lines: trimmed, items: []votes.AgendaItem{}}
	for r.pos < len(r.lines) {
		r.step()
	}
	if r.state == stateVoteCapture {
		r.closeBlock()
	}
	return r.items
}
