package highlight

import (
	"strings"
	"testing"

	"du-console/logic/token"
)

func TestRenderRoundTrip(t *testing.T) {
	r := Renderer{Grammar: token.DUGrammar}
	inputs := []string{
		"",
		"DID1234567890123",
		"did1234567890123,\n\n  DID12 ;XID1\u3000DI",
		"\u200B\nD\u200BI",
		"<b>&amp;</b>",
	}
	for _, in := range inputs {
		if got := r.Render(in).Text(); got != in {
			t.Fatalf("round trip %q -> %q", in, got)
		}
	}
}

func TestRenderKinds(t *testing.T) {
	r := Renderer{Grammar: token.DUGrammar}
	f := r.Render("DID1234567890123\nDID12\nXYZ\nDI")
	want := []Kind{KindOK, KindSeparator, KindBad, KindSeparator, KindBad, KindSeparator, KindLetters}
	if len(f.Spans) != len(want) {
		t.Fatalf("spans = %+v", f.Spans)
	}
	for i, k := range want {
		if f.Spans[i].Kind != k {
			t.Errorf("span %d kind = %s, want %s", i, f.Spans[i].Kind, k)
		}
	}
	letters := f.Spans[6].Letters
	if len(letters) != 3 || !letters[0].Active || !letters[1].Active || letters[2].Active {
		t.Fatalf("letters = %+v", letters)
	}
	if letters[2].Char != "D" {
		t.Fatalf("ghost letter = %q", letters[2].Char)
	}
}

func TestRenderLowercaseLettersKeepRaw(t *testing.T) {
	f := Renderer{Grammar: token.DUGrammar}.Render("di")
	if f.Spans[0].Kind != KindLetters || f.Spans[0].Letters[0].Char != "d" {
		t.Fatalf("got %+v", f.Spans[0])
	}
}

func TestRenderZeroWidthInsidePrefix(t *testing.T) {
	f := Renderer{Grammar: token.DUGrammar}.Render("D\u200BI")
	if f.Spans[0].Kind != KindPartial {
		t.Fatalf("kind = %s", f.Spans[0].Kind)
	}
}

func TestRenderPatternGrammarHasNoPartial(t *testing.T) {
	f := Renderer{Grammar: token.DNGrammar}.Render("AB1C2123456789 AB")
	if f.Spans[0].Kind != KindOK || f.Spans[2].Kind != KindBad {
		t.Fatalf("spans = %+v", f.Spans)
	}
}

func TestHTMLEscapesAndTail(t *testing.T) {
	out := Renderer{Grammar: token.DUGrammar}.Render("<x>\nDI").HTML()
	if !strings.Contains(out, `<span class="hl-bad">&lt;x&gt;</span>`) {
		t.Fatalf("missing escaped bad span: %s", out)
	}
	if !strings.Contains(out, `data-ghost="D"`) {
		t.Fatalf("missing ghost letter: %s", out)
	}
	if !strings.HasSuffix(out, `<span class="hl-tail" aria-hidden="true">`+"\n\u200B</span>") {
		t.Fatalf("missing tail: %s", out)
	}
}
