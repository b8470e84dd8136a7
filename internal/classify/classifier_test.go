package classify

import (
	"testing"

	"github.com/nao1215/framecap/internal/dom"
	"github.com/nao1215/framecap/internal/model"
)

func styled(tag string, styles map[string]string) *dom.RawNode {
	return &dom.RawNode{Tag: tag, Styles: styles}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		node         *dom.RawNode
		keptChildren int
		expected     model.NodeKind
	}{
		{
			name:     "text leaf",
			node:     &dom.RawNode{Tag: "p", Text: "hello"},
			expected: model.NodeKindText,
		},
		{
			name:     "whitespace text is not text",
			node:     &dom.RawNode{Tag: "p", Text: "  \n\t "},
			expected: model.NodeKindContainer,
		},
		{
			name:         "text with kept children stays container",
			node:         &dom.RawNode{Tag: "div", Text: "caption"},
			keptChildren: 2,
			expected:     model.NodeKindContainer,
		},
		{
			name:     "img tag",
			node:     styled("img", nil),
			expected: model.NodeKindImage,
		},
		{
			name:     "inline svg",
			node:     styled("svg", nil),
			expected: model.NodeKindImage,
		},
		{
			name:     "background image layer",
			node:     styled("div", map[string]string{"background-image": `url("https://cdn.example.com/hero.png")`}),
			expected: model.NodeKindImage,
		},
		{
			name:     "gradient only background is not an image",
			node:     styled("div", map[string]string{"background-image": "linear-gradient(180deg, rgb(0, 0, 0), rgb(255, 255, 255))"}),
			expected: model.NodeKindContainer,
		},
		{
			name:         "image wins over interactivity",
			node:         &dom.RawNode{Tag: "img", Attrs: map[string]string{"role": "button"}},
			expected:     model.NodeKindImage,
			keptChildren: 0,
		},
		{
			name:     "button with only text becomes text",
			node:     &dom.RawNode{Tag: "button", Text: "Submit"},
			expected: model.NodeKindText,
		},
		{
			name:         "button wrapping children",
			node:         &dom.RawNode{Tag: "button"},
			keptChildren: 1,
			expected:     model.NodeKindComponent,
		},
		{
			name:     "input",
			node:     styled("input", nil),
			expected: model.NodeKindComponent,
		},
		{
			name:     "anchor with href",
			node:     &dom.RawNode{Tag: "a", Attrs: map[string]string{"href": "/pricing"}},
			expected: model.NodeKindComponent,
		},
		{
			name:     "anchor without href",
			node:     &dom.RawNode{Tag: "a"},
			expected: model.NodeKindContainer,
		},
		{
			name:     "explicit aria role",
			node:     &dom.RawNode{Tag: "div", Attrs: map[string]string{"role": "switch"}},
			expected: model.NodeKindComponent,
		},
		{
			name:     "unknown aria role",
			node:     &dom.RawNode{Tag: "div", Attrs: map[string]string{"role": "presentation"}},
			expected: model.NodeKindContainer,
		},
		{
			name:     "flex container",
			node:     styled("div", map[string]string{"display": "flex"}),
			expected: model.NodeKindContainer,
		},
		{
			name:     "grid container",
			node:     styled("div", map[string]string{"display": "grid"}),
			expected: model.NodeKindContainer,
		},
		{
			name:     "nil node",
			node:     nil,
			expected: model.NodeKindContainer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.node, tt.keptChildren); got != tt.expected {
				t.Errorf("got %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestIsInteractive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		node     *dom.RawNode
		expected bool
	}{
		{name: "textarea", node: &dom.RawNode{Tag: "textarea"}, expected: true},
		{name: "select", node: &dom.RawNode{Tag: "SELECT"}, expected: true},
		{name: "anchor with blank href", node: &dom.RawNode{Tag: "a", Attrs: map[string]string{"href": "   "}}, expected: false},
		{name: "role is trimmed and lowered", node: &dom.RawNode{Tag: "span", Attrs: map[string]string{"role": " Tab "}}, expected: true},
		{name: "plain div", node: &dom.RawNode{Tag: "div"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsInteractive(tt.node); got != tt.expected {
				t.Errorf("got %t, expected %t", got, tt.expected)
			}
		})
	}
}

func TestIsFlexAndGridContainer(t *testing.T) {
	t.Parallel()

	t.Run("flex variants", func(t *testing.T) {
		t.Parallel()
		for _, display := range []string{"flex", "inline-flex"} {
			if !IsFlexContainer(styled("div", map[string]string{"display": display})) {
				t.Errorf("display %q should be a flex container", display)
			}
		}
	})

	t.Run("grid variants", func(t *testing.T) {
		t.Parallel()
		for _, display := range []string{"grid", "inline-grid"} {
			if !IsGridContainer(styled("div", map[string]string{"display": display})) {
				t.Errorf("display %q should be a grid container", display)
			}
		}
	})

	t.Run("block is neither", func(t *testing.T) {
		t.Parallel()
		n := styled("div", map[string]string{"display": "block"})
		if IsFlexContainer(n) || IsGridContainer(n) {
			t.Error("block display should not establish flex or grid")
		}
	})
}
