// Package query filters extracted vote results and summarises how each
// participant voted.
package query

import (
	"sort"
	"strings"

	"github.com/Mohagames205/openbestuur/internal/report"
	"github.com/Mohagames205/openbestuur/internal/votes"
)

// Filter selects rows. Zero fields match everything. Name and Title are
// case-insensitive substrings; when Type is set together with Name, the
// participant must appear under that vote type.
type Filter struct {
	Name   string
	Type   votes.Type
	Status votes.Status
	Title  string
}

// Match reports whether row satisfies f.
func (f Filter) Match(row report.Row) bool {
	if f.Status != "" && row.Status != f.Status {
		return false
	}
	if f.Title != "" && !containsFold(row.Title, f.Title) {
		return false
	}
	types := votes.Types
	if f.Type != "" {
		types = []votes.Type{f.Type}
	}
	if f.Name == "" {
		if f.Type == "" {
			return true
		}
		return !row.Votes.Get(f.Type).Empty()
	}
	for _, vt := range types {
		for _, n := range row.Votes.Get(vt).Names {
			if containsFold(n, f.Name) {
				return true
			}
		}
	}
	return false
}

// Apply returns the rows of every result that match f, in input order.
func Apply(results []report.Result, f Filter) []Match {
	var out []Match
	for _, r := range results {
		for _, row := range r.Rows() {
			if f.Match(row) {
				out = append(out, Match{Source: r.Source, Row: row})
			}
		}
	}
	return out
}

// Match is a selected row together with the result it came from.
type Match struct {
	Source string
	Row    report.Row
}

// Participant totals the votes cast by one name.
type Participant struct {
	Name    string
	For     int
	Against int
	Abstain int
}

// Total is the number of recorded votes.
func (p Participant) Total() int { return p.For + p.Against + p.Abstain }

// Participants lists every distinct name across results, sorted by name,
// with per-type vote totals. Names are compared after whitespace collapse
// and case folding; the first spelling seen is reported.
func Participants(results []report.Result) []Participant {
	index := make(map[string]*Participant)
	var order []*Participant
	for _, r := range results {
		for _, t := range r.Tallies() {
			for _, vt := range votes.Types {
				for _, n := range t.Get(vt).Names {
					key := strings.ToLower(votes.NormalizeName(n))
					p, ok := index[key]
					if !ok {
						p = &Participant{Name: votes.NormalizeName(n)}
						index[key] = p
						order = append(order, p)
					}
					switch vt {
					case votes.For:
						p.For++
					case votes.Against:
						p.Against++
					case votes.Abstain:
						p.Abstain++
					}
				}
			}
		}
	}
	out := make([]Participant, 0, len(order))
	for _, p := range order {
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(sub)))
}

// ParseType maps user input such as "voor", "against" or "onthouding" to a
// vote type.
func ParseType(s string) (votes.Type, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, vt := range votes.Types {
		if s == string(vt) {
			return vt, true
		}
	}
	return votes.TypeFromKeyword(s)
}

// ParseStatus maps user input to a status, case-insensitively.
func ParseStatus(s string) (votes.Status, bool) {
	for _, st := range []votes.Status{votes.StatusApproved, votes.StatusRejected, votes.StatusUnknown} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}
