package traverse

import (
	"testing"

	"github.com/nao1215/framecap/internal/dom"
	"github.com/nao1215/framecap/internal/style"
)

func TestCaptureContextNextID(t *testing.T) {
	t.Parallel()

	cc := NewCaptureContext()
	if got := cc.NextID(); got != "n-1" {
		t.Errorf("got %q, expected %q", got, "n-1")
	}
	if got := cc.NextID(); got != "n-2" {
		t.Errorf("got %q, expected %q", got, "n-2")
	}
}

func TestCaptureContextPalette(t *testing.T) {
	t.Parallel()

	cc := NewCaptureContext()
	cc.AddColor(style.ParseColor("#ff0000"))
	cc.AddColor(style.ParseColor("#ff0000"))
	cc.AddColor(style.ParseColor("rgba(0, 0, 0, 0)"))
	cc.AddColor(style.ParseColor("#00ff00"))

	got := cc.Palette()
	expected := []string{"#ff0000", "#00ff00"}
	if len(got) != len(expected) {
		t.Fatalf("got %d entries, expected %d", len(got), len(expected))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("entry %d: got %q, expected %q", i, got[i], expected[i])
		}
	}
}

func TestCaptureContextFonts(t *testing.T) {
	t.Parallel()

	cc := NewCaptureContext()
	cc.AddFont("Inter")
	cc.AddFont("Roboto")
	cc.AddFont("Inter")
	cc.AddFont("")

	got := cc.Fonts()
	expected := []string{"Inter", "Roboto"}
	if len(got) != len(expected) {
		t.Fatalf("got %d entries, expected %d", len(got), len(expected))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("entry %d: got %q, expected %q", i, got[i], expected[i])
		}
	}
}

func TestCaptureContextTextStyles(t *testing.T) {
	t.Parallel()

	cc := NewCaptureContext()
	cc.CountTextStyle("Inter", 16, "Regular", "#111111")
	cc.CountTextStyle("Inter", 16, "Regular", "#111111")
	cc.CountTextStyle("Inter", 24, "Bold", "#111111")

	got := cc.TextStyles()
	if len(got) != 2 {
		t.Fatalf("got %d styles, expected 2", len(got))
	}
	if got[0].UsageCount != 2 {
		t.Errorf("first style usage: got %d, expected 2", got[0].UsageCount)
	}
	if got[1].Weight != "Bold" || got[1].UsageCount != 1 {
		t.Errorf("second style: got %+v, expected Bold with usage 1", got[1])
	}
}

func TestCaptureContextMarkVisited(t *testing.T) {
	t.Parallel()

	cc := NewCaptureContext()
	n := &dom.RawNode{Tag: "div"}
	if !cc.MarkVisited(n) {
		t.Error("first visit should succeed")
	}
	if cc.MarkVisited(n) {
		t.Error("second visit should report already seen")
	}
}
