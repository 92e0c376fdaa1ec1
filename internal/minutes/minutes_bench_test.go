package minutes

import (
	"strconv"
	"strings"
	"testing"
)

func BenchmarkParse(b *testing.B) {
	small := scenario
	large := makeMinutes(300)
	p := New()

	b.Run("small", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = p.ParseString(small)
		}
	})
	b.Run("large", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = p.ParseString(large)
		}
	})
}

func makeMinutes(items int) string {
	builder := new(strings.Builder)
	for i := 1; i <= items; i++ {
		n := strconv.Itoa(i)
		builder.WriteString(n + "\nAgendapunt " + n + " (2024_GR_" + n + ")\nSTATUS\nGoedgekeurd door elektronische stemming\n")
		builder.WriteString("- 3 stemmen voor: Jan Jansen; Piet Peeters;\nEls Cools\n")
		builder.WriteString("Notulen van de gemeenteraad\npagina " + n + " van 155\n")
		builder.WriteString("- 1 stem tegen: Marie Smet\nBESLUIT\nDe gemeenteraad besluit.\n")
	}
	return builder.String()
}

func TestMakeMinutes_ParsesEveryItem(t *testing.T) {
	items := New().ParseString(makeMinutes(25))
	if len(items) != 25 {
		t.Fatalf("expected 25 items, got %d", len(items))
	}
	for _, it := range items {
		if len(it.Votes.For.Names) != 3 || it.Votes.Against.Count != 1 {
			t.Fatalf("unexpected votes for item %s: %+v", it.ItemNumber, it.Votes)
		}
	}
}
