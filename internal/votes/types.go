package votes

import "encoding/json"

// Type identifies one of the three roll-call options.
type Type string

const (
	For     Type = "for"
	Against Type = "against"
	Abstain Type = "abstain"
)

// Types lists the vote types in output order.
var Types = []Type{For, Against, Abstain}

// Status is the decision recorded for an agenda item.
type Status string

const (
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
	StatusUnknown  Status = "Unknown"
)

// Group holds the declared count and the recovered names for one vote type.
// Count and len(Names) may differ; the declared count is kept as reported.
type Group struct {
	Count int      `json:"count"`
	Names []string `json:"names"`
}

// MarshalJSON always renders names as an array.
func (g Group) MarshalJSON() ([]byte, error) {
	type plain Group
	p := plain(g)
	if p.Names == nil {
		p.Names = []string{}
	}
	return json.Marshal(p)
}

// Empty reports whether the group carries neither a count nor names.
func (g Group) Empty() bool {
	return g.Count == 0 && len(g.Names) == 0
}

// Tally maps each vote type to its group.
type Tally struct {
	For     Group `json:"for"`
	Against Group `json:"against"`
	Abstain Group `json:"abstain"`
}

// NewTally returns a tally with empty, non-nil name lists.
func NewTally() Tally {
	return Tally{
		For:     Group{Names: []string{}},
		Against: Group{Names: []string{}},
		Abstain: Group{Names: []string{}},
	}
}

// Group returns a pointer to the group for t, or nil for an unknown type.
func (t *Tally) Group(vt Type) *Group {
	switch vt {
	case For:
		return &t.For
	case Against:
		return &t.Against
	case Abstain:
		return &t.Abstain
	}
	return nil
}

// Get returns a copy of the group for vt.
func (t Tally) Get(vt Type) Group {
	if g := t.Group(vt); g != nil {
		return *g
	}
	return Group{}
}

// HasVotes reports whether at least one vote type is non-empty.
func (t Tally) HasVotes() bool {
	return !t.For.Empty() || !t.Against.Empty() || !t.Abstain.Empty()
}

// HasForOrAgainst reports whether "for" or "against" carries anything.
func (t Tally) HasForOrAgainst() bool {
	return !t.For.Empty() || !t.Against.Empty()
}

// AgendaItem is one council agenda point recovered from text minutes.
type AgendaItem struct {
	ItemNumber string `json:"item_number"`
	ItemID     string `json:"item_id"`
	Title      string `json:"title"`
	Status     Status `json:"status,omitempty"`
	Votes      Tally  `json:"votes"`
}

// VotingItem is one voting section recovered from a plenary session page.
type VotingItem struct {
	Title string `json:"title"`
	Votes Tally  `json:"votes"`
}

// Summary carries the two derived counters reported with every result list.
type Summary struct {
	TotalItems     int `json:"total_items"`
	ItemsWithVotes int `json:"items_with_votes"`
}

// Summarize computes the counters over a list of tallies.
func Summarize(tallies []Tally) Summary {
	s := Summary{TotalItems: len(tallies)}
	for _, t := range tallies {
		if t.HasVotes() {
			s.ItemsWithVotes++
		}
	}
	return s
}

// AgendaTallies extracts the tallies of agenda items in order.
func AgendaTallies(items []AgendaItem) []Tally {
	out := make([]Tally, 0, len(items))
	for _, it := range items {
		out = append(out, it.Votes)
	}
	return out
}

// VotingTallies extracts the tallies of voting items in order.
func VotingTallies(items []VotingItem) []Tally {
	out := make([]Tally, 0, len(items))
	for _, it := range items {
		out = append(out, it.Votes)
	}
	return out
}
