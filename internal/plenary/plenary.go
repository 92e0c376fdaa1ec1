// Package plenary extracts nominative votes from HTML session pages of the
// federal parliament.
//
// Candidate sections are located structurally (class/id keywords, tables
// mentioning vote types, containers of vote headings). Each section is read
// with the "Voor (N): ..." pattern first and with a row/column table scan
// when that finds neither "for" nor "against" votes. Documents without any
// candidate section fall back to scanning blank-line separated text chunks.
package plenary

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/Mohagames205/openbestuur/internal/votes"
)

// Parser is stateless apart from its vocabulary and safe for concurrent use.
type Parser struct {
	cleaner *votes.Cleaner
}

// New returns a parser using the default vocabulary.
func New() *Parser {
	return NewParser(votes.DefaultVocabulary())
}

// NewParser returns a parser bound to vocabulary v.
func NewParser(v votes.Vocabulary) *Parser {
	return &Parser{cleaner: votes.NewCleaner(v)}
}

// ParseHTML parses input with the default vocabulary.
func ParseHTML(input []byte) ([]votes.VotingItem, error) {
	return New().ParseHTML(input)
}

// ParseHTML parses UTF-8 markup and extracts its voting items.
func (p *Parser) ParseHTML(input []byte) ([]votes.VotingItem, error) {
	doc, err := html.Parse(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return p.Parse(doc), nil
}

// ParseReader decodes r according to contentType (and any <meta charset>)
// before parsing.
func (p *Parser) ParseReader(r io.Reader, contentType string) ([]votes.VotingItem, error) {
	utf8Reader, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("decode html: %w", err)
	}
	doc, err := html.Parse(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return p.Parse(doc), nil
}

// Parse extracts voting items from a parsed document. The result is never
// nil; a document without votes yields an empty list.
func (p *Parser) Parse(doc *html.Node) []votes.VotingItem {
	items := []votes.VotingItem{}
	sections := locateSections(doc)
	if len(sections) == 0 {
		log.Debug().Msg("plenary: no voting sections found, scanning document text")
		return append(items, p.parseDocumentText(doc)...)
	}
	log.Debug().Int("sections", len(sections)).Msg("plenary: located voting sections")
	for _, s := range sections {
		if it, ok := p.parseSection(s); ok {
			items = append(items, it)
		}
	}
	return items
}

func (p *Parser) parseSection(section *html.Node) (votes.VotingItem, bool) {
	title, found := extractTitle(section)
	tally := p.extractCountForm(flatten(section))
	if !tally.HasForOrAgainst() {
		if tv := p.extractTableVotes(section); tv.HasForOrAgainst() {
			tally = tv
		}
	}
	if !found && !tally.HasVotes() {
		return votes.VotingItem{}, false
	}
	return votes.VotingItem{Title: title, Votes: tally}, true
}

var blankLineRe = regexp.MustCompile(`\n\s*\n`)

// parseDocumentText treats every blank-line separated chunk of the document
// text that mentions voting as a candidate item.
func (p *Parser) parseDocumentText(doc *html.Node) []votes.VotingItem {
	var items []votes.VotingItem
	for _, chunk := range blankLineRe.Split(flatten(doc), -1) {
		if !containsAny(strings.ToLower(chunk), fallbackKeywords) {
			continue
		}
		if it, ok := p.parseChunk(chunk); ok {
			items = append(items, it)
		}
	}
	return items
}

func (p *Parser) parseChunk(chunk string) (votes.VotingItem, bool) {
	var title string
	for _, l := range strings.Split(chunk, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			title = l
			break
		}
	}
	if title == "" {
		return votes.VotingItem{}, false
	}
	tally := p.extractColonForm(chunk)
	if !tally.HasForOrAgainst() {
		return votes.VotingItem{}, false
	}
	return votes.VotingItem{Title: title, Votes: tally}, true
}
