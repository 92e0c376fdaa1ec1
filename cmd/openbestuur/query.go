package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"github.com/Mohagames205/openbestuur/internal/query"
	"github.com/Mohagames205/openbestuur/internal/report"
	"github.com/Mohagames205/openbestuur/internal/votes"
)

// runQuery filters previously written JSON results.
func runQuery(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("openbestuur query", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		name, typ, status, title string
		participants, asJSON     bool
	)
	fs.StringVar(&name, "name", "", "Participant name substring")
	fs.StringVar(&typ, "type", "", "Vote type: for, against, abstain (or voor, tegen, onthouding)")
	fs.StringVar(&status, "status", "", "Item status: Approved, Rejected or Unknown")
	fs.StringVar(&title, "title", "", "Title substring")
	fs.BoolVar(&participants, "participants", false, "List participants with vote totals instead of items")
	fs.BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitFailure
	}
	if fs.NArg() == 0 {
		log.Error().Msg("query: no result files given")
		return exitFailure
	}

	var f query.Filter
	f.Name, f.Title = name, title
	if typ != "" {
		vt, ok := query.ParseType(typ)
		if !ok {
			log.Error().Str("type", typ).Msg("query: unknown vote type")
			return exitFailure
		}
		f.Type = vt
	}
	if status != "" {
		st, ok := query.ParseStatus(status)
		if !ok {
			log.Error().Str("status", status).Msg("query: unknown status")
			return exitFailure
		}
		f.Status = st
	}

	results := make([]report.Result, 0, fs.NArg())
	for _, p := range fs.Args() {
		r, err := report.ReadFile(p)
		if err != nil {
			log.Error().Err(err).Str("file", p).Msg("query: read result")
			return exitFailure
		}
		results = append(results, r)
	}

	var err error
	if participants {
		err = printParticipants(stdout, query.Participants(results), asJSON)
	} else {
		err = printMatches(stdout, query.Apply(results, f), asJSON)
	}
	if err != nil {
		log.Error().Err(err).Msg("query: write output")
		return exitFailure
	}
	return exitOK
}

func printMatches(w io.Writer, matches []query.Match, asJSON bool) error {
	if asJSON {
		type row struct {
			Source string      `json:"source"`
			Label  string      `json:"label"`
			Title  string      `json:"title"`
			Status string      `json:"status,omitempty"`
			Votes  votes.Tally `json:"votes"`
		}
		out := make([]row, 0, len(matches))
		for _, m := range matches {
			out = append(out, row{m.Source, m.Row.Label, m.Row.Title, string(m.Row.Status), m.Row.Votes})
		}
		return writeJSON(w, out)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tITEM\tSTATUS\tFOR\tAGAINST\tABSTAIN\tTITLE")
	for _, m := range matches {
		v := m.Row.Votes
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			m.Source, m.Row.Label, dash(string(m.Row.Status)),
			v.For.Count, v.Against.Count, v.Abstain.Count, m.Row.Title)
	}
	return tw.Flush()
}

func printParticipants(w io.Writer, ps []query.Participant, asJSON bool) error {
	if asJSON {
		type row struct {
			Name    string `json:"name"`
			For     int    `json:"for"`
			Against int    `json:"against"`
			Abstain int    `json:"abstain"`
		}
		out := make([]row, 0, len(ps))
		for _, p := range ps {
			out = append(out, row{p.Name, p.For, p.Against, p.Abstain})
		}
		return writeJSON(w, out)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFOR\tAGAINST\tABSTAIN\tTOTAL")
	for _, p := range ps {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", p.Name, p.For, p.Against, p.Abstain, p.Total())
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
