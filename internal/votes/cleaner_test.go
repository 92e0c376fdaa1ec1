package votes

import (
	"reflect"
	"testing"
)

func TestClean_SeparatorPriority(t *testing.T) {
	cases := []struct {
		name string
		blob string
		want []string
	}{
		{"semicolon wins over comma", "Jansen, Jan; Peeters, Piet", []string{"Jansen, Jan", "Peeters, Piet"}},
		{"comma", "Jan Jansen, Piet Peeters", []string{"Jan Jansen", "Piet Peeters"}},
		{"newline", "Jan Jansen\nPiet Peeters\n", []string{"Jan Jansen", "Piet Peeters"}},
		{"single name", "  Marie   Smet ", []string{"Marie Smet"}},
		{"empty", "", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CleanNames(tc.blob)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("CleanNames(%q) = %#v, want %#v", tc.blob, got, tc.want)
			}
		})
	}
}

func TestClean_DropsCountTokens(t *testing.T) {
	got := CleanNames("Alf; Bob; 4 stemmen; 12; Cees; 3 votes")
	want := []string{"Alf", "Bob", "Cees"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

// Two-letter entries are always rejected, even when they look like names.
func TestClean_DropsShortEntries(t *testing.T) {
	got := CleanNames("Al; Bo; 4 stemmen; Ce")
	if len(got) != 0 {
		t.Fatalf("expected no names, got %#v", got)
	}
	got = CleanNames("Al; Bob")
	if !reflect.DeepEqual(got, []string{"Bob"}) {
		t.Fatalf("got %#v", got)
	}
}

func TestClean_StripsPageFurniture(t *testing.T) {
	blob := "Jan Jansen; Piet Peeters Notulen van de gemeenteraad van 12 mei; Stad Leuven; Marie Smet"
	got := CleanNames(blob)
	want := []string{"Jan Jansen", "Piet Peeters"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}

	got = CleanNames("Jan Jansen; pagina 4 van 155")
	if !reflect.DeepEqual(got, []string{"Jan Jansen"}) {
		t.Fatalf("pagination not stripped: %#v", got)
	}
}

func TestClean_RequiresLetters(t *testing.T) {
	got := CleanNames("Jan Jansen; 12-34; ---; Els Cools")
	want := []string{"Jan Jansen", "Els Cools"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestClean_KeepsDuplicatesAndOrder(t *testing.T) {
	got := CleanNames("Piet; Jan Jansen; Piet")
	want := []string{"Piet", "Jan Jansen", "Piet"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestClean_NormalizesToNFC(t *testing.T) {
	got := CleanNames("Rene\u0301 Dupont")
	if len(got) != 1 || got[0] != "Ren\u00e9 Dupont" {
		t.Fatalf("expected composed form, got %q", got)
	}
}

func TestClean_CustomVocabulary(t *testing.T) {
	c := NewCleaner(DefaultVocabulary().With([]string{"Gemeente Herent"}, nil))
	got := c.Clean("Jan Jansen; Gemeente Herent; Els Cools")
	want := []string{"Jan Jansen", "Els Cools"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestAccept_SingleEntry(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"  Jan   Jansen ", "Jan Jansen", true},
		{"Jansen, Jan", "Jansen, Jan", true},
		{"150", "", false},
		{"12345", "", false},
		{"3 stemmen", "", false},
		{"Al", "", false},
		{"--- ", "", false},
		{"Stad Leuven", "", false},
	}
	for _, tc := range cases {
		got, ok := NewCleaner(DefaultVocabulary()).Accept(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("Accept(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
