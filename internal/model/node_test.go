package model

import (
	"strings"
	"testing"
)

// containerNode builds a minimal valid container node for tests.
func containerNode(id string, children ...*CaptureNode) *CaptureNode {
	return &CaptureNode{
		ID:             id,
		Tag:            "div",
		Geometry:       Geometry{Width: 100, Height: 100},
		StyleBag:       StyleBag{Opacity: 1},
		ClassifiedType: NodeKindContainer,
		Children:       children,
	}
}

// TestCaptureNodeNodeCount tests the NodeCount method.
func TestCaptureNodeNodeCount(t *testing.T) {
	t.Parallel()

	t.Run("single node counts as one", func(t *testing.T) {
		t.Parallel()

		if got := containerNode("n1").NodeCount(); got != 1 {
			t.Errorf("got %d, expected 1", got)
		}
	})

	t.Run("counts nested children", func(t *testing.T) {
		t.Parallel()

		root := containerNode("n1",
			containerNode("n2", containerNode("n3")),
			containerNode("n4"),
		)
		if got := root.NodeCount(); got != 4 {
			t.Errorf("got %d, expected 4", got)
		}
	})

	t.Run("nil node counts as zero", func(t *testing.T) {
		t.Parallel()

		var n *CaptureNode
		if got := n.NodeCount(); got != 0 {
			t.Errorf("got %d, expected 0", got)
		}
	})
}

// TestCaptureNodeSortByPaintOrder tests the SortByPaintOrder method.
func TestCaptureNodeSortByPaintOrder(t *testing.T) {
	t.Parallel()

	t.Run("sorts by zOrder ascending", func(t *testing.T) {
		t.Parallel()

		a := containerNode("a")
		a.ZOrder = 5
		b := containerNode("b")
		b.ZOrder = 1
		c := containerNode("c")
		c.ZOrder = 3

		root := containerNode("root", a, b, c)
		root.SortByPaintOrder()

		got := []string{root.Children[0].ID, root.Children[1].ID, root.Children[2].ID}
		expected := []string{"b", "c", "a"}
		for i := range expected {
			if got[i] != expected[i] {
				t.Errorf("position %d: got %q, expected %q", i, got[i], expected[i])
			}
		}
	})

	t.Run("breaks zOrder ties by depth ascending", func(t *testing.T) {
		t.Parallel()

		deep := containerNode("deep")
		deep.ZOrder = 2
		deep.Depth = 4
		shallow := containerNode("shallow")
		shallow.ZOrder = 2
		shallow.Depth = 1

		root := containerNode("root", deep, shallow)
		root.SortByPaintOrder()

		if root.Children[0].ID != "shallow" {
			t.Errorf("got %q first, expected %q", root.Children[0].ID, "shallow")
		}
	})

	t.Run("preserves document order on full ties", func(t *testing.T) {
		t.Parallel()

		first := containerNode("first")
		second := containerNode("second")
		root := containerNode("root", first, second)
		root.SortByPaintOrder()

		if root.Children[0].ID != "first" || root.Children[1].ID != "second" {
			t.Errorf("got [%q, %q], expected document order preserved",
				root.Children[0].ID, root.Children[1].ID)
		}
	})

	t.Run("sorts recursively", func(t *testing.T) {
		t.Parallel()

		inner1 := containerNode("inner1")
		inner1.ZOrder = 9
		inner2 := containerNode("inner2")
		inner2.ZOrder = 0

		child := containerNode("child", inner1, inner2)
		root := containerNode("root", child)
		root.SortByPaintOrder()

		if child.Children[0].ID != "inner2" {
			t.Errorf("got %q first in nested container, expected %q", child.Children[0].ID, "inner2")
		}
	})
}

// TestCaptureNodeValidate tests the Validate method.
func TestCaptureNodeValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid container passes", func(t *testing.T) {
		t.Parallel()

		if err := containerNode("n1").Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("rejects empty id", func(t *testing.T) {
		t.Parallel()

		n := containerNode("")
		if err := n.Validate(); err == nil {
			t.Error("expected error for empty id, got nil")
		}
	})

	t.Run("rejects invalid kind", func(t *testing.T) {
		t.Parallel()

		n := containerNode("n1")
		n.ClassifiedType = NodeKind("WIDGET")
		if err := n.Validate(); err == nil {
			t.Error("expected error for invalid kind, got nil")
		}
	})

	t.Run("rejects TEXT node with blank text", func(t *testing.T) {
		t.Parallel()

		n := containerNode("n1")
		n.ClassifiedType = NodeKindText
		n.TextContent = "   "
		if err := n.Validate(); err == nil {
			t.Error("expected error for blank TEXT content, got nil")
		}
	})

	t.Run("accepts TEXT node with content", func(t *testing.T) {
		t.Parallel()

		n := containerNode("n1")
		n.ClassifiedType = NodeKindText
		n.TextContent = "Hello"
		if err := n.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("rejects zero geometry with no children", func(t *testing.T) {
		t.Parallel()

		n := containerNode("n1")
		n.Geometry = Geometry{}
		if err := n.Validate(); err == nil {
			t.Error("expected error for zero geometry leaf, got nil")
		}
	})

	t.Run("accepts zero geometry with children", func(t *testing.T) {
		t.Parallel()

		n := containerNode("n1", containerNode("n2"))
		n.Geometry = Geometry{}
		if err := n.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("rejects negative geometry", func(t *testing.T) {
		t.Parallel()

		n := containerNode("n1")
		n.Geometry = Geometry{Width: -1, Height: 10}
		if err := n.Validate(); err == nil {
			t.Error("expected error for negative width, got nil")
		}
	})

	t.Run("rejects negative auto-layout spacing", func(t *testing.T) {
		t.Parallel()

		n := containerNode("n1")
		n.AutoLayout = &AutoLayout{
			PrimaryAxis:      AxisHorizontal,
			PrimaryAlignment: AlignMin,
			CounterAlignment: AlignMin,
			Spacing:          -4,
		}
		if err := n.Validate(); err == nil {
			t.Error("expected error for negative spacing, got nil")
		}
	})

	t.Run("rejects negative auto-layout padding", func(t *testing.T) {
		t.Parallel()

		n := containerNode("n1")
		n.AutoLayout = &AutoLayout{
			PrimaryAxis:      AxisVertical,
			PrimaryAlignment: AlignMin,
			CounterAlignment: AlignMin,
			Padding:          Padding{Left: -1},
		}
		if err := n.Validate(); err == nil {
			t.Error("expected error for negative padding, got nil")
		}
	})

	t.Run("rejects auto-layout without axis", func(t *testing.T) {
		t.Parallel()

		n := containerNode("n1")
		n.AutoLayout = &AutoLayout{
			PrimaryAlignment: AlignMin,
			CounterAlignment: AlignMin,
		}
		if err := n.Validate(); err == nil {
			t.Error("expected error for missing axis, got nil")
		}
	})

	t.Run("surfaces invalid descendant", func(t *testing.T) {
		t.Parallel()

		bad := containerNode("bad")
		bad.ClassifiedType = NodeKind("")
		root := containerNode("root", containerNode("ok"), bad)

		err := root.Validate()
		if err == nil {
			t.Fatal("expected error for invalid descendant, got nil")
		}
		if !strings.Contains(err.Error(), "bad") {
			t.Errorf("expected error to name the failing node, got %v", err)
		}
	})
}

// TestBorderSideIsVisible tests the IsVisible method.
func TestBorderSideIsVisible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		side     BorderSide
		expected bool
	}{
		{"solid side paints", BorderSide{Width: 1, Color: "#000000", Style: "solid"}, true},
		{"zero width does not paint", BorderSide{Width: 0, Style: "solid"}, false},
		{"style none does not paint", BorderSide{Width: 2, Style: "none"}, false},
		{"style hidden does not paint", BorderSide{Width: 2, Style: "hidden"}, false},
		{"empty style does not paint", BorderSide{Width: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.side.IsVisible(); got != tt.expected {
				t.Errorf("got %v, expected %v", got, tt.expected)
			}
		})
	}
}

// TestBorderHasVisibleSide tests the HasVisibleSide method.
func TestBorderHasVisibleSide(t *testing.T) {
	t.Parallel()

	t.Run("nil border has no visible side", func(t *testing.T) {
		t.Parallel()

		var b *Border
		if b.HasVisibleSide() {
			t.Error("expected nil border to have no visible side")
		}
	})

	t.Run("single painted side is detected", func(t *testing.T) {
		t.Parallel()

		b := &Border{Bottom: BorderSide{Width: 1, Style: "solid"}}
		if !b.HasVisibleSide() {
			t.Error("expected border with solid bottom to be visible")
		}
	})
}
