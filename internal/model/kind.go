package model

// kindUnknownStr is the string representation for unknown enum values.
const kindUnknownStr = "UNKNOWN"

// NodeKind represents the target node type assigned by the layout classifier.
// The set is closed: every captured node is exactly one of these four kinds,
// and synthesis code is expected to switch exhaustively over them.
type NodeKind string

// Node kind constants.
const (
	// NodeKindText represents a text-bearing leaf node.
	// A TEXT node always carries non-empty trimmed text content.
	NodeKindText NodeKind = "TEXT"
	// NodeKindImage represents an image node (img tag, background image,
	// or inline SVG source).
	NodeKindImage NodeKind = "IMAGE"
	// NodeKindContainer represents a structural frame, optionally with an
	// auto-layout descriptor when the element is a flex container.
	NodeKindContainer NodeKind = "CONTAINER"
	// NodeKindComponent represents an interactive element (button, input,
	// link, or an element with an explicit interactive ARIA role).
	NodeKindComponent NodeKind = "COMPONENT"
)

// String returns the string representation of the NodeKind.
func (k NodeKind) String() string {
	if k == "" {
		return kindUnknownStr
	}
	return string(k)
}

// IsValid returns true if this is a known node kind.
func (k NodeKind) IsValid() bool {
	switch k {
	case NodeKindText, NodeKindImage, NodeKindContainer, NodeKindComponent:
		return true
	default:
		return false
	}
}

// ParseNodeKind converts a string to NodeKind.
// Returns the empty NodeKind for unrecognized input.
func ParseNodeKind(s string) NodeKind {
	switch s {
	case "TEXT":
		return NodeKindText
	case "IMAGE":
		return NodeKindImage
	case "CONTAINER":
		return NodeKindContainer
	case "COMPONENT":
		return NodeKindComponent
	default:
		return NodeKind("")
	}
}

// NodeKinds returns the closed kind set in declaration order. Consumers
// that aggregate per kind iterate this instead of map keys so their
// output order is stable.
func NodeKinds() []NodeKind {
	return []NodeKind{NodeKindText, NodeKindImage, NodeKindContainer, NodeKindComponent}
}

// Axis represents the primary direction of an auto-layout container.
type Axis string

// Axis constants.
const (
	// AxisHorizontal lays children out left to right (flex-direction row).
	AxisHorizontal Axis = "HORIZONTAL"
	// AxisVertical lays children out top to bottom (flex-direction column).
	AxisVertical Axis = "VERTICAL"
)

// String returns the string representation of the Axis.
func (a Axis) String() string {
	if a == "" {
		return kindUnknownStr
	}
	return string(a)
}

// IsValid returns true if this is a known axis.
func (a Axis) IsValid() bool {
	switch a {
	case AxisHorizontal, AxisVertical:
		return true
	default:
		return false
	}
}

// Alignment represents child distribution along an auto-layout axis.
// The vocabulary is deliberately small; CSS values without an equivalent
// (space-around, space-evenly, stretch, baseline) are approximated during
// classification, not represented here.
type Alignment string

// Alignment constants.
const (
	// AlignMin packs children toward the axis start.
	AlignMin Alignment = "MIN"
	// AlignCenter centers children on the axis.
	AlignCenter Alignment = "CENTER"
	// AlignMax packs children toward the axis end.
	AlignMax Alignment = "MAX"
	// AlignSpaceBetween distributes children with equal gaps between them.
	AlignSpaceBetween Alignment = "SPACE_BETWEEN"
)

// String returns the string representation of the Alignment.
func (a Alignment) String() string {
	if a == "" {
		return kindUnknownStr
	}
	return string(a)
}

// IsValid returns true if this is a known alignment.
func (a Alignment) IsValid() bool {
	switch a {
	case AlignMin, AlignCenter, AlignMax, AlignSpaceBetween:
		return true
	default:
		return false
	}
}

// TextAlign represents horizontal text alignment.
type TextAlign string

// Text alignment constants.
const (
	// TextAlignLeft is the neutral default.
	TextAlignLeft TextAlign = "left"
	// TextAlignCenter centers text.
	TextAlignCenter TextAlign = "center"
	// TextAlignRight right-aligns text.
	TextAlignRight TextAlign = "right"
	// TextAlignJustify justifies text.
	TextAlignJustify TextAlign = "justify"
)

// IsValid returns true if this is a known text alignment.
func (a TextAlign) IsValid() bool {
	switch a {
	case TextAlignLeft, TextAlignCenter, TextAlignRight, TextAlignJustify:
		return true
	default:
		return false
	}
}

// TextTransform represents a text case transformation.
type TextTransform string

// Text transform constants.
const (
	// TextTransformNone is the neutral default.
	TextTransformNone TextTransform = "none"
	// TextTransformUppercase renders text in upper case.
	TextTransformUppercase TextTransform = "uppercase"
	// TextTransformLowercase renders text in lower case.
	TextTransformLowercase TextTransform = "lowercase"
	// TextTransformCapitalize capitalizes each word.
	TextTransformCapitalize TextTransform = "capitalize"
)

// IsValid returns true if this is a known text transform.
func (t TextTransform) IsValid() bool {
	switch t {
	case TextTransformNone, TextTransformUppercase, TextTransformLowercase, TextTransformCapitalize:
		return true
	default:
		return false
	}
}

// TextDecoration represents a text decoration line.
type TextDecoration string

// Text decoration constants.
const (
	// TextDecorationNone is the neutral default.
	TextDecorationNone TextDecoration = "none"
	// TextDecorationUnderline underlines text.
	TextDecorationUnderline TextDecoration = "underline"
	// TextDecorationStrikethrough strikes text through.
	TextDecorationStrikethrough TextDecoration = "line-through"
)

// IsValid returns true if this is a known text decoration.
func (d TextDecoration) IsValid() bool {
	switch d {
	case TextDecorationNone, TextDecorationUnderline, TextDecorationStrikethrough:
		return true
	default:
		return false
	}
}

// LineHeightUnit represents how a line-height value is expressed.
type LineHeightUnit string

// Line height unit constants.
const (
	// LineHeightAuto lets the renderer pick a natural line height.
	// Used for "normal" and unparseable input.
	LineHeightAuto LineHeightUnit = "auto"
	// LineHeightPixels expresses line height in absolute pixels.
	LineHeightPixels LineHeightUnit = "px"
	// LineHeightPercent expresses line height relative to font size.
	LineHeightPercent LineHeightUnit = "percent"
)

// IsValid returns true if this is a known line height unit.
func (u LineHeightUnit) IsValid() bool {
	switch u {
	case LineHeightAuto, LineHeightPixels, LineHeightPercent:
		return true
	default:
		return false
	}
}

// LineHeight is a normalized line-height value.
// When Unit is LineHeightAuto, Value is meaningless and set to zero.
type LineHeight struct {
	// Unit is how Value should be interpreted.
	Unit LineHeightUnit `json:"unit"`

	// Value is the line height in the given unit.
	Value float64 `json:"value,omitempty"`
}

// AutoLayout describes flex-like layout parameters for a CONTAINER node.
// Present only on containers whose computed display is flex or inline-flex;
// grid containers are emitted without an auto-layout descriptor.
type AutoLayout struct {
	// PrimaryAxis is the direction children flow in.
	PrimaryAxis Axis `json:"primaryAxis"`

	// PrimaryAlignment distributes children along the primary axis.
	PrimaryAlignment Alignment `json:"primaryAlignment"`

	// CounterAlignment aligns children on the cross axis.
	CounterAlignment Alignment `json:"counterAlignment"`

	// Spacing is the gap between adjacent children in pixels. Never negative.
	Spacing float64 `json:"spacing"`

	// Padding is the container's inner padding. All sides are non-negative.
	Padding Padding `json:"padding"`
}

// Padding holds per-side inner padding in pixels.
type Padding struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}
