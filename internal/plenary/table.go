package plenary

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/Mohagames205/openbestuur/internal/votes"
)

// extractTableVotes walks every table of section row by row. The first cell
// of a row may select the active vote type, which stays active for later
// rows of the same table; the remaining cells of an active row are names,
// one per cell. Counts are the lengths of the resulting lists.
func (p *Parser) extractTableVotes(section *html.Node) votes.Tally {
	t := votes.NewTally()
	tables := findAll(section, isTable)
	if isTable(section) {
		tables = append([]*html.Node{section}, tables...)
	}
	for _, table := range tables {
		var active votes.Type
		for _, row := range rowsOf(table) {
			cells := cellsOf(row)
			if len(cells) == 0 {
				continue
			}
			if vt, ok := votes.TypeIn(inlineText(cells[0])); ok {
				active = vt
			}
			if active == "" {
				continue
			}
			g := t.Group(active)
			for _, c := range cells[1:] {
				if name, ok := p.cleaner.Accept(inlineText(c)); ok {
					g.Names = append(g.Names, name)
				}
			}
		}
	}
	for _, vt := range votes.Types {
		g := t.Group(vt)
		g.Count = len(g.Names)
	}
	return t
}

// rowsOf returns the rows that belong to table itself, not to nested tables.
func rowsOf(table *html.Node) []*html.Node {
	return findAll(table, func(n *html.Node) bool {
		return isRow(n) && closest(n, atom.Table) == table
	})
}

func cellsOf(row *html.Node) []*html.Node {
	var cells []*html.Node
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if isCell(c) {
			cells = append(cells, c)
		}
	}
	return cells
}
