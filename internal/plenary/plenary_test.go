package plenary

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/Mohagames205/openbestuur/internal/votes"
)

func mustParse(t *testing.T, doc string) []votes.VotingItem {
	t.Helper()
	items, err := ParseHTML([]byte(doc))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	return items
}

func TestParse_TableScenario(t *testing.T) {
	doc := `<!doctype html>
    <html><body>
      <table>
        <tr><td>Voor</td><td>Jan Jansen</td><td>Piet Peeters</td><td>Els Cools</td></tr>
        <tr><td>Tegen</td><td>Marie Smet</td></tr>
      </table>
    </body></html>`

	items := mustParse(t, doc)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d: %+v", len(items), items)
	}
	v := items[0].Votes
	if v.For.Count != 3 || v.Against.Count != 1 || v.Abstain.Count != 0 {
		t.Fatalf("unexpected counts: %+v", v)
	}
	if !reflect.DeepEqual(v.For.Names, []string{"Jan Jansen", "Piet Peeters", "Els Cools"}) {
		t.Fatalf("for names = %#v", v.For.Names)
	}
	if items[0].Title != PlaceholderTitle {
		t.Fatalf("title = %q", items[0].Title)
	}
}

func TestParse_CountFormKeepsDeclaredCounts(t *testing.T) {
	doc := `<html><body>
      <div class="vote-result">
        <h3>Wetsontwerp betreffende de begroting</h3>
        <p>Voor (3): Jan Jansen; Piet Peeters; Els Cools</p>
        <p>Tegen (2): Marie Smet</p>
        <p>Onthoudingen (1): Bart Bos</p>
      </div>
    </body></html>`

	items := mustParse(t, doc)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d: %+v", len(items), items)
	}
	it := items[0]
	if it.Title != "Wetsontwerp betreffende de begroting" {
		t.Fatalf("title = %q", it.Title)
	}
	if it.Votes.For.Count != 3 || len(it.Votes.For.Names) != 3 {
		t.Fatalf("for = %+v", it.Votes.For)
	}
	// Declared count differs from the names recovered and must be kept.
	if it.Votes.Against.Count != 2 || !reflect.DeepEqual(it.Votes.Against.Names, []string{"Marie Smet"}) {
		t.Fatalf("against = %+v", it.Votes.Against)
	}
	if it.Votes.Abstain.Count != 1 || !reflect.DeepEqual(it.Votes.Abstain.Names, []string{"Bart Bos"}) {
		t.Fatalf("abstain = %+v", it.Votes.Abstain)
	}
}

func TestParse_CountFormOutOfOrder(t *testing.T) {
	doc := `<html><body><div id="stemming-42">
      <strong>Motie van aanbeveling</strong>
      <p>Tegen (1): Marie Smet</p>
      <p>Voor (2): Jan Jansen, Piet Peeters</p>
    </div></body></html>`

	items := mustParse(t, doc)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	it := items[0]
	if it.Title != "Motie van aanbeveling" {
		t.Fatalf("title = %q", it.Title)
	}
	if !reflect.DeepEqual(it.Votes.For.Names, []string{"Jan Jansen", "Piet Peeters"}) {
		t.Fatalf("for = %#v", it.Votes.For.Names)
	}
	if !reflect.DeepEqual(it.Votes.Against.Names, []string{"Marie Smet"}) {
		t.Fatalf("against = %#v", it.Votes.Against.Names)
	}
}

func TestParse_HeadingContainer(t *testing.T) {
	doc := `<html><body>
      <article>
        <h2>Naamstemming nr. 7</h2>
        <p class="voorstel-titel">Voorstel van resolutie over klimaat</p>
        <p>Voor (2): Jan Jansen; Piet Peeters Tegen (0): Onthoudingen (1): Els Cools</p>
      </article>
    </body></html>`

	items := mustParse(t, doc)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d: %+v", len(items), items)
	}
	it := items[0]
	if it.Title != "Naamstemming nr. 7" {
		t.Fatalf("title = %q", it.Title)
	}
	if !reflect.DeepEqual(it.Votes.For.Names, []string{"Jan Jansen", "Piet Peeters"}) {
		t.Fatalf("for = %#v", it.Votes.For.Names)
	}
	if it.Votes.Against.Count != 0 || len(it.Votes.Against.Names) != 0 {
		t.Fatalf("against = %+v", it.Votes.Against)
	}
	if it.Votes.Abstain.Count != 1 || !reflect.DeepEqual(it.Votes.Abstain.Names, []string{"Els Cools"}) {
		t.Fatalf("abstain = %+v", it.Votes.Abstain)
	}
}

func TestParse_TitleClassFallback(t *testing.T) {
	doc := `<html><body><div class="voting">
      <span class="proposal-title">Wetsvoorstel 55/123</span>
      <p>Voor (1): Jan Jansen</p>
    </div></body></html>`
	items := mustParse(t, doc)
	if len(items) != 1 || items[0].Title != "Wetsvoorstel 55/123" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestParse_DeduplicatesSections(t *testing.T) {
	doc := `<html><body>
      <div id="voting" class="vote-block"><h3>Punt 1</h3><p>Voor (1): Jan Jansen</p></div>
    </body></html>`
	items := mustParse(t, doc)
	if len(items) != 1 {
		t.Fatalf("expected element matched by several keywords once, got %d", len(items))
	}
}

func TestParse_DropsSectionWithoutTitleOrVotes(t *testing.T) {
	doc := `<html><body>
      <div class="vote-legend">Legende van de kleuren</div>
      <div class="vote-result"><h3>Punt 2</h3><p>Voor (1): Jan Jansen</p></div>
    </body></html>`
	items := mustParse(t, doc)
	if len(items) != 1 || items[0].Title != "Punt 2" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestParse_TitledSectionWithoutVotesIsKept(t *testing.T) {
	doc := `<html><body><div class="voting"><h3>Uitgestelde stemming</h3><p>Geen uitslag.</p></div></body></html>`
	items := mustParse(t, doc)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Votes.HasVotes() {
		t.Fatalf("expected all-empty tally, got %+v", items[0].Votes)
	}
}

func TestParse_RegexWinsOverTable(t *testing.T) {
	doc := `<html><body><div class="vote-result">
      <h3>Punt 3</h3>
      <p>Voor (2): Jan Jansen; Piet Peeters</p>
      <table><tr><td>Tegen</td><td>Marie Smet</td></tr></table>
    </div></body></html>`
	items := mustParse(t, doc)
	if len(items) == 0 {
		t.Fatalf("expected items")
	}
	it := items[0]
	if it.Title != "Punt 3" {
		t.Fatalf("first item should be the tagged div, got %q", it.Title)
	}
	if it.Votes.For.Count != 2 {
		t.Fatalf("for = %+v", it.Votes.For)
	}
	// No merge: against stays empty because the pattern form found "for" votes.
	if !it.Votes.Against.Empty() {
		t.Fatalf("against should not be merged from the table: %+v", it.Votes.Against)
	}
}

func TestParse_TableTypePersistsAcrossRows(t *testing.T) {
	doc := `<html><body><table>
      <tr><th>Voor</th><td>Jan Jansen</td></tr>
      <tr><td></td><td>Piet Peeters</td><td>Al</td></tr>
      <tr><td>Onthoudingen</td><td>Els Cools</td></tr>
      <tr><td></td><td>Bart Bos</td></tr>
    </table></body></html>`
	items := mustParse(t, doc)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	v := items[0].Votes
	if !reflect.DeepEqual(v.For.Names, []string{"Jan Jansen", "Piet Peeters"}) {
		t.Fatalf("for = %#v", v.For.Names)
	}
	if !reflect.DeepEqual(v.Abstain.Names, []string{"Els Cools", "Bart Bos"}) || v.Abstain.Count != 2 {
		t.Fatalf("abstain = %+v", v.Abstain)
	}
}

func TestParse_NestedTableRowsCountedOnce(t *testing.T) {
	doc := `<html><body><table>
      <tr><td>Voor</td><td><table><tr><td>Jan Jansen</td></tr></table></td></tr>
      <tr><td>Tegen</td><td>Marie Smet</td></tr>
    </table></body></html>`
	items := mustParse(t, doc)
	if len(items) == 0 {
		t.Fatalf("expected items")
	}
	v := items[0].Votes
	if v.For.Count != 1 || v.Against.Count != 1 {
		t.Fatalf("unexpected counts: %+v", v)
	}
}

func TestParse_DocumentTextFallback(t *testing.T) {
	doc := "<html><body>" +
		"<p>Stemming 1: Motie over fietspaden<br>Voor: Jan Jansen, Piet Peeters<br>Tegen: Marie Smet</p>\n\n" +
		"<p>Overige mededelingen van de voorzitter.</p>\n\n" +
		"<p>Stemming 2: Enkel onthoudingen<br>Onthouding: Els Cools</p>" +
		"</body></html>"
	items := mustParse(t, doc)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d: %+v", len(items), items)
	}
	it := items[0]
	if it.Title != "Stemming 1: Motie over fietspaden" {
		t.Fatalf("title = %q", it.Title)
	}
	if it.Votes.For.Count != 2 || it.Votes.Against.Count != 1 {
		t.Fatalf("unexpected counts: %+v", it.Votes)
	}
}

func TestParse_NoVotes(t *testing.T) {
	for _, doc := range []string{"", "<html><body><p>Geen stemmingen vandaag.</p></body></html>"} {
		items := mustParse(t, doc)
		if items == nil || len(items) != 0 {
			t.Fatalf("expected empty non-nil list, got %#v", items)
		}
		s := votes.Summarize(votes.VotingTallies(items))
		if s.TotalItems != 0 || s.ItemsWithVotes != 0 {
			t.Fatalf("summary = %+v", s)
		}
	}
}

func TestParseReader_DecodesCharset(t *testing.T) {
	doc := []byte("<html><body><div class=\"voting\"><h3>Punt 4</h3><p>Voor (1): Ren\xe9 Dupont</p></div></body></html>")
	items, err := New().ParseReader(bytes.NewReader(doc), "text/html; charset=windows-1252")
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	if len(items) != 1 || !reflect.DeepEqual(items[0].Votes.For.Names, []string{"Ren\u00e9 Dupont"}) {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestParse_Idempotent(t *testing.T) {
	doc := `<html><body><div class="vote-result"><h3>Punt 5</h3><p>Voor (2): Jan Jansen; Piet Peeters</p></div></body></html>`
	a := mustParse(t, doc)
	b := mustParse(t, doc)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("re-parse differs")
	}
}

func flattenString(t *testing.T, markup string) string {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("html.Parse: %v", err)
	}
	return flatten(doc)
}

func TestFlatten_KeepsBlankLinesFromMarkup(t *testing.T) {
	got := flattenString(t, "<div><p>a</p>\n<p>b</p>\n\n<p>c</p></div>")
	if got != "a\nb\n\nc" {
		t.Fatalf("flatten = %q", got)
	}
	got = flattenString(t, "<p>Voor<script>var x = 1;</script> (1): <b>Jan</b> Jansen</p>")
	if !strings.Contains(got, "Voor (1): Jan Jansen") {
		t.Fatalf("flatten = %q", got)
	}
}

func TestParse_TableCellsGoThroughNameFilter(t *testing.T) {
	doc := `<html><body><table>
      <tr><td>Voor</td><td>150</td><td>Jan Jansen</td><td>Al</td></tr>
      <tr><td>Tegen</td><td>Marie Smet</td><td>12345</td></tr>
      <tr><td>Onthouding</td><td>3 stemmen</td><td>Els Cools, Bart Bos</td></tr>
    </table></body></html>`
	items := mustParse(t, doc)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d: %+v", len(items), items)
	}
	v := items[0].Votes
	if !reflect.DeepEqual(v.For.Names, []string{"Jan Jansen"}) || v.For.Count != 1 {
		t.Fatalf("for = %+v", v.For)
	}
	if !reflect.DeepEqual(v.Against.Names, []string{"Marie Smet"}) || v.Against.Count != 1 {
		t.Fatalf("against = %+v", v.Against)
	}
	// A cell is one entry; its text is not split on separators.
	if !reflect.DeepEqual(v.Abstain.Names, []string{"Els Cools, Bart Bos"}) || v.Abstain.Count != 1 {
		t.Fatalf("abstain = %+v", v.Abstain)
	}
	assertNoCountTokens(t, items)
}

func TestParse_FallbackDropsShortAndNumericNames(t *testing.T) {
	doc := "<html><body>" +
		"<p>Stemming 3: Motie over pleinen<br>Voor: 12, Al, Jan Jansen<br>Tegen: 150; Marie Smet</p>" +
		"</body></html>"
	items := mustParse(t, doc)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d: %+v", len(items), items)
	}
	v := items[0].Votes
	if !reflect.DeepEqual(v.For.Names, []string{"Jan Jansen"}) || v.For.Count != 1 {
		t.Fatalf("for = %+v", v.For)
	}
	if !reflect.DeepEqual(v.Against.Names, []string{"Marie Smet"}) || v.Against.Count != 1 {
		t.Fatalf("against = %+v", v.Against)
	}
	assertNoCountTokens(t, items)
}

func TestParse_H6DoesNotOpenSection(t *testing.T) {
	items := mustParse(t, `<html><body><div><h6>Stemming</h6><p>Geen details.</p></div></body></html>`)
	if len(items) != 0 {
		t.Fatalf("expected no items, got %+v", items)
	}
	items = mustParse(t, `<html><body><div><h5>Stemming</h5><p>Geen details.</p></div></body></html>`)
	if len(items) != 1 || items[0].Title != "Stemming" {
		t.Fatalf("h5 heading should open a section, got %+v", items)
	}
}

func assertNoCountTokens(t *testing.T, items []votes.VotingItem) {
	t.Helper()
	for _, it := range items {
		for _, vt := range votes.Types {
			for _, n := range it.Votes.Get(vt).Names {
				if len([]rune(n)) <= 2 || strings.Trim(n, "0123456789") == "" {
					t.Fatalf("%s: invalid name %q", vt, n)
				}
			}
		}
	}
}
