package model

import "testing"

// TestNodeKindString tests the String method.
func TestNodeKindString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		kind     NodeKind
		expected string
	}{
		{"text kind", NodeKindText, "TEXT"},
		{"image kind", NodeKindImage, "IMAGE"},
		{"container kind", NodeKindContainer, "CONTAINER"},
		{"component kind", NodeKindComponent, "COMPONENT"},
		{"empty kind", NodeKind(""), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("got %q, expected %q", got, tt.expected)
			}
		})
	}
}

// TestNodeKindIsValid tests the IsValid method.
func TestNodeKindIsValid(t *testing.T) {
	t.Parallel()

	t.Run("all four kinds are valid", func(t *testing.T) {
		t.Parallel()

		for _, k := range []NodeKind{NodeKindText, NodeKindImage, NodeKindContainer, NodeKindComponent} {
			if !k.IsValid() {
				t.Errorf("expected %q to be valid", k)
			}
		}
	})

	t.Run("unknown kinds are invalid", func(t *testing.T) {
		t.Parallel()

		for _, k := range []NodeKind{"", "FRAME", "text"} {
			if k.IsValid() {
				t.Errorf("expected %q to be invalid", k)
			}
		}
	})
}

// TestParseNodeKind tests the ParseNodeKind function.
func TestParseNodeKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected NodeKind
	}{
		{"parses TEXT", "TEXT", NodeKindText},
		{"parses IMAGE", "IMAGE", NodeKindImage},
		{"parses CONTAINER", "CONTAINER", NodeKindContainer},
		{"parses COMPONENT", "COMPONENT", NodeKindComponent},
		{"rejects lowercase", "text", NodeKind("")},
		{"rejects unknown", "WIDGET", NodeKind("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ParseNodeKind(tt.input); got != tt.expected {
				t.Errorf("got %q, expected %q", got, tt.expected)
			}
		})
	}
}

// TestAxisIsValid tests the Axis IsValid method.
func TestAxisIsValid(t *testing.T) {
	t.Parallel()

	t.Run("horizontal and vertical are valid", func(t *testing.T) {
		t.Parallel()

		if !AxisHorizontal.IsValid() || !AxisVertical.IsValid() {
			t.Error("expected known axes to be valid")
		}
	})

	t.Run("empty axis is invalid", func(t *testing.T) {
		t.Parallel()

		if Axis("").IsValid() {
			t.Error("expected empty axis to be invalid")
		}
	})
}

// TestAlignmentIsValid tests the Alignment IsValid method.
func TestAlignmentIsValid(t *testing.T) {
	t.Parallel()

	t.Run("all four alignments are valid", func(t *testing.T) {
		t.Parallel()

		for _, a := range []Alignment{AlignMin, AlignCenter, AlignMax, AlignSpaceBetween} {
			if !a.IsValid() {
				t.Errorf("expected %q to be valid", a)
			}
		}
	})

	t.Run("space-around is not part of the vocabulary", func(t *testing.T) {
		t.Parallel()

		if Alignment("SPACE_AROUND").IsValid() {
			t.Error("expected SPACE_AROUND to be invalid")
		}
	})
}
