package minutes

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Mohagames205/openbestuur/internal/votes"
)

type state int

const (
	stateIdle state = iota
	stateTitleCapture
	stateAwaitingStatus
	stateVoteCapture
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateTitleCapture:
		return "TitleCapture"
	case stateAwaitingStatus:
		return "AwaitingStatus"
	case stateVoteCapture:
		return "VoteCapture"
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}

const (
	statusMarker     = "STATUS"
	electronicPhrase = "elektronische stemming"
)

var (
	numericLineRe = regexp.MustCompile(`^[0-9]+$`)
	endsInParenRe = regexp.MustCompile(`\([^)]+\)$`)
	titleIDRe     = regexp.MustCompile(`^(.+?)\s*\(([^)]+)\)$`)
	// "- 2 stemmen voor: A; B", "- 1 stem tegen: C", "- 3 onthouding(en): D"
	voteLineRe = regexp.MustCompile(`(?i)^-?\s*(\d+)\s*(?:stem(?:\(men\)|men)?\s+)?(voor|tegen|onthouding(?:\(en\)|en)?)\s*:\s*(.*)$`)
)

// run is the per-parse context. Nothing in it outlives one Parse call.
type run struct {
	p     *Parser
	lines []string
	pos   int
	state state

	// header is the index of the numeric line being tested in TitleCapture.
	header int
	// current is the agenda item in progress, nil when none is open.
	current *votes.AgendaItem
	// voteType is the vote type receiving continuation lines; "" before the
	// first vote line of a block.
	voteType votes.Type
	buf      nameBuffer

	items []votes.AgendaItem
}

func (r *run) step() {
	switch r.state {
	case stateIdle:
		r.idle()
	case stateTitleCapture:
		r.titleCapture()
	case stateAwaitingStatus:
		r.awaitingStatus()
	case stateVoteCapture:
		r.voteCapture()
	}
}

func (r *run) line() string { return r.lines[r.pos] }

func (r *run) idle() {
	if numericLineRe.MatchString(r.line()) {
		r.beginTitle()
		return
	}
	r.pos++
}

func (r *run) beginTitle() {
	r.header = r.pos
	r.pos++
	r.state = stateTitleCapture
}

// titleCapture accumulates title lines after the numeric header. It stops at
// an empty line, a STATUS line, or right after the first line ending in a
// parenthesized group.
func (r *run) titleCapture() {
	var parts []string
	last := r.header
	for j := r.header + 1; j < len(r.lines); j++ {
		l := r.lines[j]
		if l == "" || l == statusMarker {
			break
		}
		parts = append(parts, l)
		last = j
		if endsInParenRe.MatchString(l) {
			break
		}
	}

	m := titleIDRe.FindStringSubmatch(strings.Join(parts, " "))
	if m == nil {
		// Stray page number or malformed header.
		log.Debug().Int("line", r.header+1).Str("number", r.lines[r.header]).Msg("minutes: skipped numeric line without title")
		r.pos = r.header + 1
		if r.current != nil {
			r.state = stateAwaitingStatus
		} else {
			r.state = stateIdle
		}
		return
	}

	if r.current != nil {
		log.Debug().Str("item", r.current.ItemNumber).Msg("minutes: dropped item without electronic vote")
	}
	r.current = &votes.AgendaItem{
		ItemNumber: r.lines[r.header],
		ItemID:     strings.TrimSpace(m[2]),
		Title:      strings.TrimSpace(m[1]),
		Votes:      votes.NewTally(),
	}
	r.pos = last + 1
	r.state = stateAwaitingStatus
}

func (r *run) awaitingStatus() {
	l := r.line()
	switch {
	case numericLineRe.MatchString(l):
		r.beginTitle()
		return
	case l == statusMarker && r.pos+1 < len(r.lines):
		next := r.lines[r.pos+1]
		if strings.Contains(strings.ToLower(next), electronicPhrase) {
			r.current.Status = classifyStatus(next)
			r.voteType = ""
			r.buf.reset()
			r.pos += 2
			r.state = stateVoteCapture
			return
		}
	}
	r.pos++
}

func classifyStatus(line string) votes.Status {
	l := strings.ToLower(line)
	switch {
	case strings.Contains(l, "goedgekeurd"):
		return votes.StatusApproved
	case strings.Contains(l, "afgekeurd"), strings.Contains(l, "verworpen"):
		return votes.StatusRejected
	}
	return votes.StatusUnknown
}

func (r *run) voteCapture() {
	l := r.line()
	if r.p.vocab.IsSectionEnd(l) || numericLineRe.MatchString(l) {
		// The terminating line is left for the next state.
		r.closeBlock()
		return
	}
	r.pos++
	if l == "" || r.p.vocab.IsBoilerplate(l) {
		return
	}
	if vt, count, rest, ok := classifyVoteLine(l); ok {
		r.flush()
		r.voteType = vt
		r.current.Votes.Group(vt).Count = count
		if rest != "" {
			r.buf.add(rest, r.pos)
		}
		return
	}
	if r.voteType != "" && !strings.HasPrefix(l, "-") {
		r.buf.add(l, r.pos)
	}
}

// classifyVoteLine matches a count+type+names line and returns the vote
// type, the declared count and the trailing name text.
func classifyVoteLine(line string) (votes.Type, int, string, bool) {
	m := voteLineRe.FindStringSubmatch(line)
	if m == nil {
		return "", 0, "", false
	}
	vt, ok := votes.TypeFromKeyword(m[2])
	if !ok {
		return "", 0, "", false
	}
	count, err := strconv.Atoi(m[1])
	if err != nil {
		log.Debug().Str("count", m[1]).Msg("minutes: unreadable vote count")
		count = 0
	}
	return vt, count, strings.TrimSpace(m[3]), true
}

// flush folds buffered names into the current vote type.
func (r *run) flush() {
	if r.voteType == "" || r.buf.empty() {
		r.buf.reset()
		return
	}
	g := r.current.Votes.Group(r.voteType)
	g.Names = append(g.Names, r.buf.drain(r.p.cleaner)...)
}

func (r *run) closeBlock() {
	r.flush()
	item := *r.current
	for _, vt := range votes.Types {
		g := item.Votes.Get(vt)
		if g.Count != len(g.Names) {
			log.Debug().Str("item", item.ItemNumber).Str("type", string(vt)).Int("declared", g.Count).Int("names", len(g.Names)).Msg("minutes: declared count differs from names")
		}
	}
	r.items = append(r.items, item)
	r.current = nil
	r.voteType = ""
	r.state = stateIdle
}
