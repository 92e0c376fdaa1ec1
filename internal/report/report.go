// Package report renders extraction results as a JSON envelope, a Markdown
// summary or a small PDF, and reads envelopes back for querying.
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mohagames205/openbestuur/internal/votes"
)

// Kind names the pipeline that produced a result.
type Kind string

const (
	KindMinutes Kind = "minutes"
	KindPlenary Kind = "plenary"
)

// ParseKind accepts "minutes" or "plenary" in any case.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindMinutes:
		return KindMinutes, nil
	case KindPlenary:
		return KindPlenary, nil
	}
	return "", fmt.Errorf("unknown result kind %q", s)
}

// Result is the output of one parse. Only the item list matching Kind is
// populated.
type Result struct {
	Source      string
	Kind        Kind
	GeneratedAt time.Time
	AgendaItems []votes.AgendaItem
	VotingItems []votes.VotingItem
}

// NewMinutes wraps the items recovered from text minutes.
func NewMinutes(source string, items []votes.AgendaItem) Result {
	if items == nil {
		items = []votes.AgendaItem{}
	}
	return Result{Source: source, Kind: KindMinutes, GeneratedAt: time.Now().UTC(), AgendaItems: items}
}

// NewPlenary wraps the items recovered from a plenary session page.
func NewPlenary(source string, items []votes.VotingItem) Result {
	if items == nil {
		items = []votes.VotingItem{}
	}
	return Result{Source: source, Kind: KindPlenary, GeneratedAt: time.Now().UTC(), VotingItems: items}
}

// Tallies returns the tally of every item in order.
func (r Result) Tallies() []votes.Tally {
	if r.Kind == KindPlenary {
		return votes.VotingTallies(r.VotingItems)
	}
	return votes.AgendaTallies(r.AgendaItems)
}

// Summary computes total_items and items_with_votes.
func (r Result) Summary() votes.Summary {
	return votes.Summarize(r.Tallies())
}

// Row is a pipeline-independent view of one item.
type Row struct {
	Label  string
	Title  string
	Status votes.Status
	Votes  votes.Tally
}

// Rows flattens either item list into rows. Agenda items are labelled with
// their number and identifier; voting items with their position.
func (r Result) Rows() []Row {
	if r.Kind == KindPlenary {
		rows := make([]Row, 0, len(r.VotingItems))
		for i, it := range r.VotingItems {
			rows = append(rows, Row{Label: fmt.Sprintf("#%d", i+1), Title: it.Title, Votes: it.Votes})
		}
		return rows
	}
	rows := make([]Row, 0, len(r.AgendaItems))
	for _, it := range r.AgendaItems {
		label := it.ItemNumber
		if it.ItemID != "" {
			label += " (" + it.ItemID + ")"
		}
		rows = append(rows, Row{Label: label, Title: it.Title, Status: it.Status, Votes: it.Votes})
	}
	return rows
}

type minutesEnvelope struct {
	Source         string             `json:"source"`
	Kind           Kind               `json:"kind"`
	TotalItems     int                `json:"total_items"`
	ItemsWithVotes int                `json:"items_with_votes"`
	AgendaItems    []votes.AgendaItem `json:"agenda_items"`
	GeneratedAt    string             `json:"generated_at,omitempty"`
}

type plenaryEnvelope struct {
	Source         string             `json:"source"`
	Kind           Kind               `json:"kind"`
	TotalItems     int                `json:"total_items"`
	ItemsWithVotes int                `json:"items_with_votes"`
	VotingItems    []votes.VotingItem `json:"voting_items"`
	GeneratedAt    string             `json:"generated_at,omitempty"`
}

// MarshalJSON emits the envelope with the item key that matches Kind. The
// key is present even when no items were found.
func (r Result) MarshalJSON() ([]byte, error) {
	s := r.Summary()
	var generated string
	if !r.GeneratedAt.IsZero() {
		generated = r.GeneratedAt.UTC().Format(time.RFC3339)
	}
	switch r.Kind {
	case KindMinutes:
		items := r.AgendaItems
		if items == nil {
			items = []votes.AgendaItem{}
		}
		return marshalRaw(minutesEnvelope{r.Source, r.Kind, s.TotalItems, s.ItemsWithVotes, items, generated})
	case KindPlenary:
		items := r.VotingItems
		if items == nil {
			items = []votes.VotingItem{}
		}
		return marshalRaw(plenaryEnvelope{r.Source, r.Kind, s.TotalItems, s.ItemsWithVotes, items, generated})
	}
	return nil, fmt.Errorf("marshal result: unknown kind %q", r.Kind)
}

// UnmarshalJSON accepts envelopes with or without the kind field; the item
// key decides the kind when it is missing.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw struct {
		Source      string             `json:"source"`
		Kind        string             `json:"kind"`
		AgendaItems []votes.AgendaItem `json:"agenda_items"`
		VotingItems []votes.VotingItem `json:"voting_items"`
		GeneratedAt string             `json:"generated_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := Result{Source: raw.Source}
	switch {
	case raw.Kind != "":
		k, err := ParseKind(raw.Kind)
		if err != nil {
			return err
		}
		out.Kind = k
	case raw.VotingItems != nil:
		out.Kind = KindPlenary
	case raw.AgendaItems != nil:
		out.Kind = KindMinutes
	default:
		return errors.New("result has neither agenda_items nor voting_items")
	}
	if out.Kind == KindPlenary {
		out.VotingItems = raw.VotingItems
		if out.VotingItems == nil {
			out.VotingItems = []votes.VotingItem{}
		}
	} else {
		out.AgendaItems = raw.AgendaItems
		if out.AgendaItems == nil {
			out.AgendaItems = []votes.AgendaItem{}
		}
	}
	if raw.GeneratedAt != "" {
		t, err := time.Parse(time.RFC3339, raw.GeneratedAt)
		if err != nil {
			return fmt.Errorf("generated_at: %w", err)
		}
		out.GeneratedAt = t
	}
	*r = out
	return nil
}

// marshalRaw is json.Marshal without HTML escaping, so titles keep their
// ampersands.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// EncodeJSON renders r as indented JSON without HTML escaping, ending in a
// newline.
func EncodeJSON(r Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeJSON parses an envelope produced by EncodeJSON.
func DecodeJSON(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, fmt.Errorf("decode result: %w", err)
	}
	return r, nil
}
