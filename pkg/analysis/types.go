package analysis

import "github.com/AltairTheSon/manex-ds-copilot/pkg/tokens"

// FileInfo is the basic metadata of the analyzed design file.
type FileInfo struct {
	Key          string
	Name         string
	LastModified string
	Version      string
	ThumbnailURL string
}

// Page is a top-level canvas of the document with its artboards.
type Page struct {
	ID        string
	Name      string
	Thumbnail string
	Frames    []Artboard
}

// Artboard is a frame eligible for thumbnail rendering. A frame without a
// bounding box never becomes an Artboard.
type Artboard struct {
	ID              string
	Name            string
	ImageURL        string
	Width           float64
	Height          float64
	BackgroundColor string
}

// LocalStyle is a named style definition as returned by the styles endpoint.
type LocalStyle struct {
	ID          string
	Name        string
	Type        string
	Description string
}

// Component is a reusable design element, merged from the components
// endpoint and tree traversal.
type Component struct {
	Key                string
	NodeID             string
	Name               string
	Description        string
	DocumentationLinks []string
	Thumbnail          string
	Variants           []string
	Properties         []string
}

// Result is the combined output of one analysis call.
type Result struct {
	FileInfo     FileInfo
	Pages        []Page
	DesignTokens []tokens.DesignToken
	LocalStyles  []LocalStyle
	Components   []Component
	Artboards    []Artboard
}
