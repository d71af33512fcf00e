package figma

// Node type constants as they appear in the Figma document tree.
const (
	NodeTypeCanvas       = "CANVAS"
	NodeTypePage         = "PAGE"
	NodeTypeFrame        = "FRAME"
	NodeTypeInstance     = "INSTANCE"
	NodeTypeComponent    = "COMPONENT"
	NodeTypeComponentSet = "COMPONENT_SET"
	NodeTypeText         = "TEXT"
)

// Style type constants used by the styles metadata endpoint.
const (
	StyleTypeFill   = "FILL"
	StyleTypeText   = "TEXT"
	StyleTypeEffect = "EFFECT"
	StyleTypeGrid   = "GRID"
)

// FileResponse represents the complete response from the Figma file API endpoint.
// It contains the file metadata, document structure, published styles, flat
// component definitions, and schema version information.
type FileResponse struct {
	Name          string               `json:"name"`
	LastModified  string               `json:"lastModified"`
	ThumbnailURL  string               `json:"thumbnailUrl"`
	Version       string               `json:"version"`
	Document      Node                 `json:"document"`
	Styles        map[string]Style     `json:"styles"`
	Components    map[string]Component `json:"components"`
	SchemaVersion int                  `json:"schemaVersion"`
}

// Component represents a Figma component definition with its metadata.
// In a FileResponse the Components map is keyed by the component's node ID.
type Component struct {
	Key                string              `json:"key"`
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	ComponentSetID     string              `json:"componentSetId,omitempty"`
	DocumentationLinks []DocumentationLink `json:"documentationLinks,omitempty"`
}

// DocumentationLink is an external documentation reference attached to a component.
type DocumentationLink struct {
	URI string `json:"uri"`
}

// StylesResponse represents the response from the Figma styles API endpoint.
// It includes metadata about all published styles in the file.
type StylesResponse struct {
	Meta StylesMeta `json:"meta"`
}

// StylesMeta contains the list of published style metadata entries.
type StylesMeta struct {
	Styles []StyleMetadata `json:"styles"`
}

// StyleMetadata contains metadata for a single published style in Figma.
// It includes the unique key, file reference, node ID, style type
// (FILL, TEXT, EFFECT, or GRID), name, and description.
type StyleMetadata struct {
	Key         string `json:"key"`
	FileKey     string `json:"file_key"`
	NodeID      string `json:"node_id"`
	StyleType   string `json:"style_type"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ComponentsResponse represents the response from the Figma components API endpoint.
type ComponentsResponse struct {
	Meta ComponentsMeta `json:"meta"`
}

// ComponentsMeta contains the list of published component metadata entries.
type ComponentsMeta struct {
	Components []ComponentMetadata `json:"components"`
}

// ComponentMetadata contains metadata for a single published component,
// as returned by the dedicated components endpoint.
type ComponentMetadata struct {
	Key          string `json:"key"`
	FileKey      string `json:"file_key"`
	NodeID       string `json:"node_id"`
	ThumbnailURL string `json:"thumbnail_url"`
	Name         string `json:"name"`
	Description  string `json:"description"`
}

// ImagesResponse represents the response from the Figma image-rendering endpoint.
// Images maps node IDs to rendered image URLs; a node that could not be
// rendered maps to an empty string.
type ImagesResponse struct {
	Err    string            `json:"err,omitempty"`
	Images map[string]string `json:"images"`
}

// Style represents a published Figma style with its basic properties.
// Styles can be colors (FILL), text styles (TEXT), effects (EFFECT), or layout grids (GRID).
type Style struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StyleType   string `json:"styleType"`
}

// Node represents a single element in the Figma document tree hierarchy.
// Nodes can be canvases, frames, groups, text, shapes, or component
// instances, each with their own properties such as fills, strokes, effects,
// layout settings, and children nodes.
type Node struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Type                string     `json:"type"`
	Children            []Node     `json:"children,omitempty"`
	BackgroundColor     *Color     `json:"backgroundColor,omitempty"`
	Fills               []Paint    `json:"fills,omitempty"`
	Strokes             []Paint    `json:"strokes,omitempty"`
	StrokeWeight        float64    `json:"strokeWeight,omitempty"`
	CornerRadius        float64    `json:"cornerRadius,omitempty"`
	Effects             []Effect   `json:"effects,omitempty"`
	Characters          string     `json:"characters,omitempty"`
	Style               *TypeStyle `json:"style,omitempty"`
	AbsoluteBoundingBox *Rectangle `json:"absoluteBoundingBox,omitempty"`
	LayoutMode          string     `json:"layoutMode,omitempty"`
	PaddingLeft         float64    `json:"paddingLeft,omitempty"`
	PaddingRight        float64    `json:"paddingRight,omitempty"`
	PaddingTop          float64    `json:"paddingTop,omitempty"`
	PaddingBottom       float64    `json:"paddingBottom,omitempty"`
	ItemSpacing         float64    `json:"itemSpacing,omitempty"`
}

// Color represents an RGBA color with float values ranging from 0 to 1.
// The R, G, B, and A (alpha/opacity) values must be converted to 0-255 range for standard use.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Paint represents a fill or stroke applied to a Figma node.
// It includes the paint type (SOLID, GRADIENT_LINEAR, etc.), visibility, opacity, and color information.
type Paint struct {
	Type    string  `json:"type"`
	Visible *bool   `json:"visible,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
	Color   *Color  `json:"color,omitempty"`
}

// IsVisible reports whether the paint is rendered. Figma omits the visible
// field for visible paints, so a missing field means true.
func (p Paint) IsVisible() bool {
	return p.Visible == nil || *p.Visible
}

// Effect represents a visual effect applied to a Figma node such as drop shadows,
// inner shadows, or blur effects. It includes positioning (offset), blur radius,
// spread, and color settings.
type Effect struct {
	Type    string  `json:"type"`
	Visible *bool   `json:"visible,omitempty"`
	Radius  float64 `json:"radius,omitempty"`
	Color   *Color  `json:"color,omitempty"`
	Offset  *Vector `json:"offset,omitempty"`
	Spread  float64 `json:"spread,omitempty"`
}

// IsVisible reports whether the effect is rendered. A missing visible field means true.
func (e Effect) IsVisible() bool {
	return e.Visible == nil || *e.Visible
}

// Vector represents a 2D coordinate or offset with X and Y values.
// Used for positioning effects like shadows and other spatial properties.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TypeStyle represents text styling properties from Figma.
// It includes font family, weight, size, line height, letter spacing, and text alignment settings.
type TypeStyle struct {
	FontFamily          string  `json:"fontFamily"`
	FontPostScriptName  string  `json:"fontPostScriptName"`
	FontWeight          float64 `json:"fontWeight"`
	FontSize            float64 `json:"fontSize"`
	LineHeightPx        float64 `json:"lineHeightPx"`
	LineHeightPercent   float64 `json:"lineHeightPercent"`
	LetterSpacing       float64 `json:"letterSpacing"`
	TextAlignHorizontal string  `json:"textAlignHorizontal"`
	TextAlignVertical   string  `json:"textAlignVertical"`
}

// Rectangle represents a bounding box with position (X, Y) and dimensions (Width, Height).
// Used to define the absolute position and size of nodes in the Figma canvas.
type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
