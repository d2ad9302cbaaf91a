package display

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewCardUsesPlaceholders(t *testing.T) {
	card := NewCard("GPU", Item{"model", "Mesa Intel(R) UHD"}, Item{"tier", ""})

	specs := []struct {
		label string
		exp   string
	}{
		{"model", "Mesa Intel(R) UHD"},
		{"tier", Placeholder},
	}
	for _, spec := range specs {
		got, found := card.Get(spec.label)
		if !found {
			t.Fatalf("expected item %q", spec.label)
		}
		if got != spec.exp {
			t.Fatalf("[%s] expected value %q; got %q", spec.label, spec.exp, got)
		}
	}

	if _, found := card.Get("vendor"); found {
		t.Fatal("expected unknown label lookup to fail")
	}
}

func TestMillis(t *testing.T) {
	if got := Millis(16.666); got != "16.67" {
		t.Fatalf("expected 16.67; got %s", got)
	}
	if got := Millis(0); got != "0.00" {
		t.Fatalf("expected 0.00; got %s", got)
	}
}

func TestWrite(t *testing.T) {
	cards := []Card{
		NewCard("Frame time", Item{"Average", "1.50"}, Item{"Max", ""}),
		{Title: "OS", Items: []Item{{Label: "Name", Value: ""}}},
	}

	var buf bytes.Buffer
	if err := Write(&buf, cards...); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, exp := range []string{"Frame time", "Average", "1.50", "OS", "Name"} {
		if !strings.Contains(out, exp) {
			t.Fatalf("expected output to contain %q; got:\n%s", exp, out)
		}
	}
	if strings.Count(out, " "+Placeholder+" ") != 2 {
		t.Fatalf("expected two placeholders; got:\n%s", out)
	}
}

func TestWriteHTMLEscapes(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHTML(&buf, NewCard("GPU", Item{"model", "<script>"}, Item{"tier", ""}))
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if strings.Contains(out, "<script>") {
		t.Fatalf("expected values to be escaped; got:\n%s", out)
	}
	for _, exp := range []string{"<h3>GPU</h3>", "&lt;script&gt;", "<dd>-</dd>"} {
		if !strings.Contains(out, exp) {
			t.Fatalf("expected output to contain %q; got:\n%s", exp, out)
		}
	}
}
