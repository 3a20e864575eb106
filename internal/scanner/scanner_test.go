package scanner

import (
	"testing"

	"nickandperla.net/fieldgen/internal/token"
)

func scanAll(t *testing.T, input string) []*Item {
	t.Helper()
	s := NewFromString(input)
	var items []*Item
	for {
		item, err := s.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		items = append(items, item)
		if item.Token == token.EOF {
			return items
		}
	}
}

func TestScanFormula(t *testing.T) {
	items := scanAll(t, "sin(x)+gauss(y, 0.2)")
	want := []struct {
		tok token.Token
		val string
		pos int
	}{
		{token.IDENT, "sin", 0},
		{token.LPAREN, "(", 3},
		{token.IDENT, "x", 4},
		{token.RPAREN, ")", 5},
		{token.PLUS, "+", 6},
		{token.IDENT, "gauss", 7},
		{token.LPAREN, "(", 12},
		{token.IDENT, "y", 13},
		{token.COMMA, ",", 14},
		{token.NUMBER, "0.2", 16},
		{token.RPAREN, ")", 19},
		{token.EOF, "", 20},
	}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, w := range want {
		got := items[i]
		if got.Token != w.tok || got.Value != w.val || got.Pos != w.pos {
			t.Errorf("item %d: expected %s %q at %d, got %s %q at %d",
				i, w.tok, w.val, w.pos, got.Token, got.Value, got.Pos)
		}
	}
}

func TestScanNumbers(t *testing.T) {
	for _, input := range []string{"12", "0.5", ".5", "1e-3", "2.5E+10", "3e7"} {
		items := scanAll(t, input)
		if len(items) != 2 || items[0].Token != token.NUMBER || items[0].Value != input {
			t.Errorf("%q: expected single NUMBER, got %v", input, items)
		}
	}
}

func TestScanExponentStopsAtOperator(t *testing.T) {
	items := scanAll(t, "1e2-x")
	if items[0].Value != "1e2" || items[1].Token != token.MINUS || items[2].Value != "x" {
		t.Errorf("unexpected tokens: %q %s %q", items[0].Value, items[1].Token, items[2].Value)
	}
}

func TestScanUnicodeIdent(t *testing.T) {
	items := scanAll(t, "2*π")
	if items[2].Token != token.IDENT || items[2].Value != "π" {
		t.Errorf("expected IDENT π, got %s %q", items[2].Token, items[2].Value)
	}
}

func TestScanIllegal(t *testing.T) {
	items := scanAll(t, "x # y")
	if items[1].Token != token.ILLEGAL || items[1].Value != "#" || items[1].Pos != 2 {
		t.Errorf("expected ILLEGAL # at 2, got %s %q at %d", items[1].Token, items[1].Value, items[1].Pos)
	}
}

func TestPeek(t *testing.T) {
	s := NewFromString("a b")
	p, _ := s.Peek()
	n, _ := s.Next()
	if p != n || n.Value != "a" {
		t.Errorf("Peek and Next disagree: %q vs %q", p.Value, n.Value)
	}
	n, _ = s.Next()
	if n.Value != "b" {
		t.Errorf("expected b, got %q", n.Value)
	}
}
