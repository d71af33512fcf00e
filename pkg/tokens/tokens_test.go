package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AltairTheSon/manex-ds-copilot/pkg/figma"
)

func TestColorHex(t *testing.T) {
	tests := []struct {
		name  string
		color *figma.Color
		want  string
	}{
		{"pure red", &figma.Color{R: 1, G: 0, B: 0, A: 1}, "#ff0000"},
		{"white", &figma.Color{R: 1, G: 1, B: 1, A: 1}, "#ffffff"},
		{"black", &figma.Color{R: 0, G: 0, B: 0, A: 1}, "#000000"},
		{"mid gray rounds", &figma.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}, "#808080"},
		{"alpha discarded", &figma.Color{R: 1, G: 0, B: 0, A: 0.25}, "#ff0000"},
		{"nil color", nil, DefaultColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ColorHex(tt.color))
		})
	}
}

func TestNormalizeColorShapePriority(t *testing.T) {
	red := &figma.Color{R: 1}
	blue := &figma.Color{B: 1}

	// Paints win over the direct color field.
	src := Source{
		Color:  blue,
		Paints: []figma.Paint{{Type: "SOLID", Color: red}},
	}
	assert.Equal(t, "#ff0000", NormalizeColor(src))

	// Invisible and non-solid paints are skipped.
	hidden := false
	src = Source{
		Color: blue,
		Paints: []figma.Paint{
			{Type: "SOLID", Color: red, Visible: &hidden},
			{Type: "GRADIENT_LINEAR"},
		},
	}
	assert.Equal(t, "#0000ff", NormalizeColor(src))

	// No recognizable color fields at all: documented fallback, no panic.
	assert.Equal(t, DefaultColor, NormalizeColor(Source{}))
}

func TestNormalizeTypography(t *testing.T) {
	src := Source{Style: &figma.TypeStyle{
		FontFamily:   "Inter",
		FontSize:     14,
		FontWeight:   600,
		LineHeightPx: 20,
	}}
	want := `font-family: "Inter"; font-size: 14px; font-weight: 600; line-height: 20px;`
	assert.Equal(t, want, NormalizeTypography(src))
}

func TestNormalizeTypographyDefaults(t *testing.T) {
	want := `font-family: "Arial"; font-size: 16px; font-weight: 400; line-height: normal;`
	assert.Equal(t, want, NormalizeTypography(Source{}))

	// Partial style keeps present fields and defaults the rest.
	src := Source{TypeStyle: &figma.TypeStyle{FontFamily: "Roboto"}}
	want = `font-family: "Roboto"; font-size: 16px; font-weight: 400; line-height: normal;`
	assert.Equal(t, want, NormalizeTypography(src))
}

func TestNormalizeTypographyShapeOrder(t *testing.T) {
	// The nested style block wins over typeStyle.
	src := Source{
		Style:     &figma.TypeStyle{FontFamily: "Inter", FontSize: 14},
		TypeStyle: &figma.TypeStyle{FontFamily: "Courier", FontSize: 12},
	}
	assert.Contains(t, NormalizeTypography(src), `"Inter"`)
}

func TestNormalizeShadow(t *testing.T) {
	src := Source{Effects: []figma.Effect{{
		Type:   "DROP_SHADOW",
		Radius: 8,
		Offset: &figma.Vector{X: 0, Y: 4},
		Color:  &figma.Color{A: 0.3},
	}}}
	assert.Equal(t, "box-shadow: 0px 4px 8px #000000;", NormalizeShadow(src))
}

func TestNormalizeShadowFallback(t *testing.T) {
	assert.Equal(t, DefaultShadow, NormalizeShadow(Source{}))

	// Inner shadows and invisible effects do not qualify.
	hidden := false
	src := Source{Effects: []figma.Effect{
		{Type: "INNER_SHADOW", Radius: 4},
		{Type: "DROP_SHADOW", Radius: 4, Visible: &hidden},
	}}
	assert.Equal(t, DefaultShadow, NormalizeShadow(src))
}

func TestNormalizeIdempotent(t *testing.T) {
	src := Source{
		Paints:  []figma.Paint{{Type: "SOLID", Color: &figma.Color{G: 1}}},
		Effects: []figma.Effect{{Type: "DROP_SHADOW", Radius: 2}},
		Style:   &figma.TypeStyle{FontFamily: "Inter", FontSize: 14},
	}
	for _, styleType := range []string{figma.StyleTypeFill, figma.StyleTypeText, figma.StyleTypeEffect} {
		_, first := Normalize(styleType, src)
		_, second := Normalize(styleType, src)
		assert.Equal(t, first, second, "normalizing twice must yield the same string")
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		want Category
	}{
		{"Primary Color", CategoryColors},
		{"Heading Font", CategoryTypography},
		{"Card Shadow", CategoryEffects},
		{"Base Spacing", CategorySpacing},
		{"Elevation 2", CategoryOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.name), tt.name)
	}
}
