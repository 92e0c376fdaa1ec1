package votes

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestGroupJSON_NamesNeverNull(t *testing.T) {
	b, err := json.Marshal(Tally{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "null") {
		t.Fatalf("expected empty arrays, got %s", b)
	}
	want := `{"for":{"count":0,"names":[]},"against":{"count":0,"names":[]},"abstain":{"count":0,"names":[]}}`
	if string(b) != want {
		t.Fatalf("got %s\nwant %s", b, want)
	}
}

func TestSummarize(t *testing.T) {
	empty := NewTally()
	countOnly := NewTally()
	countOnly.Abstain.Count = 3
	namesOnly := NewTally()
	namesOnly.Against.Names = []string{"Marie Smet"}

	s := Summarize([]Tally{empty, countOnly, namesOnly})
	if s.TotalItems != 3 || s.ItemsWithVotes != 2 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s := Summarize(nil); s.TotalItems != 0 || s.ItemsWithVotes != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestTypeFromKeyword(t *testing.T) {
	cases := map[string]Type{
		"voor":           For,
		"Tegen":          Against,
		"onthouding":     Abstain,
		"onthouding(en)": Abstain,
		"Onthoudingen":   Abstain,
	}
	for in, want := range cases {
		got, ok := TypeFromKeyword(in)
		if !ok || got != want {
			t.Fatalf("TypeFromKeyword(%q) = %q,%v want %q", in, got, ok, want)
		}
	}
	if _, ok := TypeFromKeyword("stemming"); ok {
		t.Fatalf("did not expect a type for 'stemming'")
	}
}

func TestTypeIn_ContainmentOrder(t *testing.T) {
	if vt, _ := TypeIn("Stemmen voor"); vt != For {
		t.Fatalf("got %q", vt)
	}
	if vt, _ := TypeIn("TEGEN"); vt != Against {
		t.Fatalf("got %q", vt)
	}
	if vt, _ := TypeIn("Onthoudingen"); vt != Abstain {
		t.Fatalf("got %q", vt)
	}
	if _, ok := TypeIn("Naam"); ok {
		t.Fatalf("did not expect a type")
	}
}

func TestVocabulary_Boilerplate(t *testing.T) {
	v := DefaultVocabulary()
	for _, line := range []string{
		"Notulen van de gemeenteraad van 24 juni 2024",
		"Professor Van Overstraetenplein 1 - 3000 Leuven",
		"pagina 12 van 155",
		"van 155",
	} {
		if !v.IsBoilerplate(line) {
			t.Fatalf("expected boilerplate: %q", line)
		}
	}
	if v.IsBoilerplate("Jan Van Hove; Els Cools") {
		t.Fatalf("names flagged as boilerplate")
	}
	if !v.IsSectionEnd("BESLUIT") || v.IsSectionEnd("Besluit") {
		t.Fatalf("section end must match exactly")
	}
}
