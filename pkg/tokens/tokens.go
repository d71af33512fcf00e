// Package tokens converts the heterogeneous style, paint, and effect shapes
// returned by the Figma API into canonical design-token value strings.
//
// The file-data and styles-metadata endpoints describe the same style with
// different field names, so each normalizer resolves its input against an
// explicit list of shape variants in a fixed priority order and only then
// falls back to a hard-coded default.
package tokens

import (
	"fmt"
	"math"
	"strings"

	"github.com/AltairTheSon/manex-ds-copilot/pkg/figma"
)

// Type classifies a design token.
type Type string

const (
	TypeColor      Type = "color"
	TypeTypography Type = "typography"
	TypeShadow     Type = "shadow"
	TypeSpacing    Type = "spacing"
	TypeBorder     Type = "border"
)

// Category groups tokens for presentation, derived from keyword heuristics
// over the token name.
type Category string

const (
	CategoryColors     Category = "colors"
	CategoryTypography Category = "typography"
	CategoryEffects    Category = "effects"
	CategorySpacing    Category = "spacing"
	CategoryOther      Category = "other"
)

// DesignToken is a named, typed, canonicalized design value.
type DesignToken struct {
	Type        Type
	Name        string
	Value       string
	Description string
	Category    Category
}

// Fallback values applied when no recognizable fields are present in any
// shape variant. Normalizers return these rather than failing.
const (
	DefaultColor      = "#000000"
	DefaultFontFamily = "Arial"
	DefaultFontSize   = 16
	DefaultFontWeight = 400
	DefaultShadow     = "box-shadow: 0px 2px 4px rgba(0, 0, 0, 0.1);"
)

// Source carries one style object in whichever shape the upstream API
// delivered it. At most a few fields are set; the normalizers resolve the
// populated variant in priority order.
type Source struct {
	// Direct fields.
	Color *figma.Color

	// Nested under the node's "style" key (file-data responses).
	Style *figma.TypeStyle

	// Nested under a "typeStyle" key (styles-metadata responses).
	TypeStyle *figma.TypeStyle

	// Paint lists ("paints" in style definitions, "fills" on nodes).
	Paints []figma.Paint

	// Effect lists.
	Effects []figma.Effect
}

// FromNode builds a Source from a document-tree node.
func FromNode(n *figma.Node) Source {
	return Source{
		Color:   n.BackgroundColor,
		Style:   n.Style,
		Paints:  n.Fills,
		Effects: n.Effects,
	}
}

// colorShape identifies which variant of a Source supplies color data.
type colorShape int

const (
	colorShapeNone colorShape = iota
	colorShapePaints
	colorShapeDirect
)

func (s Source) resolveColorShape() colorShape {
	for _, p := range s.Paints {
		if p.Type == "SOLID" && p.Color != nil && p.IsVisible() {
			return colorShapePaints
		}
	}
	if s.Color != nil {
		return colorShapeDirect
	}
	return colorShapeNone
}

// ColorHex converts a Figma RGBA color (0-1 float channels) to lowercase
// #rrggbb form. The alpha channel is discarded: tokens render as solid CSS
// swatches, so only the opaque color is kept. Returns DefaultColor for nil.
func ColorHex(c *figma.Color) string {
	if c == nil {
		return DefaultColor
	}
	r := int(math.Round(c.R * 255))
	g := int(math.Round(c.G * 255))
	b := int(math.Round(c.B * 255))
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// NormalizeColor produces the canonical hex string for a color style,
// preferring the first visible SOLID paint, then a direct color field,
// then DefaultColor.
func NormalizeColor(s Source) string {
	switch s.resolveColorShape() {
	case colorShapePaints:
		for _, p := range s.Paints {
			if p.Type == "SOLID" && p.Color != nil && p.IsVisible() {
				return ColorHex(p.Color)
			}
		}
	case colorShapeDirect:
		return ColorHex(s.Color)
	}
	return DefaultColor
}

// NormalizeTypography produces the canonical CSS font shorthand for a text
// style, trying the nested style block first, then the typeStyle block,
// then defaults (Arial/16/400/normal).
func NormalizeTypography(s Source) string {
	ts := s.Style
	if ts == nil {
		ts = s.TypeStyle
	}

	family := DefaultFontFamily
	size := float64(DefaultFontSize)
	weight := float64(DefaultFontWeight)
	lineHeight := "normal"

	if ts != nil {
		if ts.FontFamily != "" {
			family = ts.FontFamily
		}
		if ts.FontSize > 0 {
			size = ts.FontSize
		}
		if ts.FontWeight > 0 {
			weight = ts.FontWeight
		}
		if ts.LineHeightPx > 0 {
			lineHeight = fmt.Sprintf("%gpx", ts.LineHeightPx)
		}
	}

	return fmt.Sprintf("font-family: %q; font-size: %gpx; font-weight: %g; line-height: %s;",
		family, size, weight, lineHeight)
}

// NormalizeShadow produces the canonical box-shadow string for an effect
// style from its first visible DROP_SHADOW, or DefaultShadow when none exists.
func NormalizeShadow(s Source) string {
	for _, e := range s.Effects {
		if e.Type != "DROP_SHADOW" || !e.IsVisible() {
			continue
		}
		var x, y float64
		if e.Offset != nil {
			x, y = e.Offset.X, e.Offset.Y
		}
		return fmt.Sprintf("box-shadow: %gpx %gpx %gpx %s;", x, y, e.Radius, ColorHex(e.Color))
	}
	return DefaultShadow
}

// Normalize produces the canonical value string for a style of the given
// style type (FILL, TEXT, EFFECT). Unknown style types normalize as colors.
func Normalize(styleType string, s Source) (Type, string) {
	switch styleType {
	case figma.StyleTypeText:
		return TypeTypography, NormalizeTypography(s)
	case figma.StyleTypeEffect:
		return TypeShadow, NormalizeShadow(s)
	default:
		return TypeColor, NormalizeColor(s)
	}
}

// Categorize derives a presentation category from keyword heuristics over
// the token name.
func Categorize(name string) Category {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "color"):
		return CategoryColors
	case strings.Contains(n, "font"):
		return CategoryTypography
	case strings.Contains(n, "shadow"):
		return CategoryEffects
	case strings.Contains(n, "spacing"):
		return CategorySpacing
	default:
		return CategoryOther
	}
}
