package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AltairTheSon/manex-ds-copilot/pkg/figma"
	"github.com/AltairTheSon/manex-ds-copilot/pkg/tokens"
	"github.com/AltairTheSon/manex-ds-copilot/pkg/walker"
)

// scopeSet expands the requested node IDs into the set of all node IDs
// inside their subtrees. IDs absent from the tree are ignored; a nil
// return means the whole document is in scope.
func scopeSet(doc *figma.Node, ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]bool)
	for _, id := range ids {
		root := walker.FindByID(doc, id)
		if root == nil {
			continue
		}
		for n := range walker.Walk(root, func(*figma.Node) bool { return true }) {
			set[n.ID] = true
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

func inScope(scope map[string]bool, id string) bool {
	return scope == nil || scope[id]
}

// extractPages derives Page views from the document's top-level canvases.
// A page's frames are scoped to artboards inside that page, further
// restricted by scope when one is set.
func extractPages(doc *figma.Node, scope map[string]bool) []Page {
	nodes := walker.Pages(doc)
	pages := make([]Page, 0, len(nodes))
	for _, n := range nodes {
		page := Page{ID: n.ID, Name: n.Name}
		for f := range walker.Frames(n, false) {
			if inScope(scope, f.ID) {
				page.Frames = append(page.Frames, newArtboard(f))
			}
		}
		pages = append(pages, page)
	}
	return pages
}

// extractArtboards collects every in-scope artboard in the document exactly once.
func extractArtboards(doc *figma.Node, scope map[string]bool) []Artboard {
	var artboards []Artboard
	for n := range walker.Frames(doc, false) {
		if inScope(scope, n.ID) {
			artboards = append(artboards, newArtboard(n))
		}
	}
	return artboards
}

func newArtboard(n *figma.Node) Artboard {
	a := Artboard{
		ID:     n.ID,
		Name:   n.Name,
		Width:  n.AbsoluteBoundingBox.Width,
		Height: n.AbsoluteBoundingBox.Height,
	}
	if n.BackgroundColor != nil {
		a.BackgroundColor = tokens.ColorHex(n.BackgroundColor)
	} else {
		for _, fill := range n.Fills {
			if fill.Type == "SOLID" && fill.Color != nil && fill.IsVisible() {
				a.BackgroundColor = tokens.ColorHex(fill.Color)
				break
			}
		}
	}
	return a
}

// extractLocalStyles maps styles-endpoint metadata to LocalStyle views.
func extractLocalStyles(metas []figma.StyleMetadata) []LocalStyle {
	styles := make([]LocalStyle, 0, len(metas))
	for _, m := range metas {
		styles = append(styles, LocalStyle{
			ID:          m.NodeID,
			Name:        m.Name,
			Type:        m.StyleType,
			Description: m.Description,
		})
	}
	return styles
}

// extractTokens derives design tokens from the published styles, resolving
// each style's defining node in the document tree for its actual values.
// A style whose node is missing still yields a token with the documented
// fallback value. Spacing and border tokens are inferred from layout usage.
func extractTokens(doc *figma.Node, metas []figma.StyleMetadata) []tokens.DesignToken {
	var toks []tokens.DesignToken
	for _, m := range metas {
		if m.StyleType == figma.StyleTypeGrid {
			// Layout grids have no canonical single-string value.
			continue
		}

		src := tokens.Source{}
		if node := walker.FindByID(doc, m.NodeID); node != nil {
			src = tokens.FromNode(node)
		}

		tokenType, value := tokens.Normalize(m.StyleType, src)
		toks = append(toks, tokens.DesignToken{
			Type:        tokenType,
			Name:        m.Name,
			Value:       value,
			Description: m.Description,
			Category:    tokens.Categorize(m.Name),
		})
	}

	toks = append(toks, fontTokens(doc)...)
	toks = append(toks, spacingTokens(doc)...)
	toks = append(toks, borderTokens(doc)...)
	return toks
}

// fontTokens infers typography tokens from text-style usage, one per
// distinct font family found in the tree.
func fontTokens(doc *figma.Node) []tokens.DesignToken {
	seen := make(map[string]bool)
	var toks []tokens.DesignToken
	for n := range walker.TextNodes(doc) {
		family := n.Style.FontFamily
		if family == "" || seen[family] {
			continue
		}
		seen[family] = true

		name := "font/" + family
		toks = append(toks, tokens.DesignToken{
			Type:     tokens.TypeTypography,
			Name:     name,
			Value:    tokens.NormalizeTypography(tokens.Source{Style: n.Style}),
			Category: tokens.Categorize(name),
		})
	}
	return toks
}

// spacingTokens infers spacing tokens from auto-layout padding and item
// spacing used anywhere in the document, one token per distinct value.
func spacingTokens(doc *figma.Node) []tokens.DesignToken {
	values := collectValues(doc, func(n *figma.Node) []float64 {
		return []float64{n.ItemSpacing, n.PaddingLeft, n.PaddingRight, n.PaddingTop, n.PaddingBottom}
	})

	toks := make([]tokens.DesignToken, 0, len(values))
	for _, v := range values {
		name := fmt.Sprintf("spacing/%g", v)
		toks = append(toks, tokens.DesignToken{
			Type:     tokens.TypeSpacing,
			Name:     name,
			Value:    fmt.Sprintf("%gpx", v),
			Category: tokens.Categorize(name),
		})
	}
	return toks
}

// borderTokens infers border-radius tokens from corner radii used anywhere
// in the document, one token per distinct value.
func borderTokens(doc *figma.Node) []tokens.DesignToken {
	values := collectValues(doc, func(n *figma.Node) []float64 {
		return []float64{n.CornerRadius}
	})

	toks := make([]tokens.DesignToken, 0, len(values))
	for _, v := range values {
		toks = append(toks, tokens.DesignToken{
			Type:     tokens.TypeBorder,
			Name:     fmt.Sprintf("radius/%g", v),
			Value:    fmt.Sprintf("%gpx", v),
			Category: tokens.CategoryOther,
		})
	}
	return toks
}

// collectValues gathers distinct positive values produced by pick across
// the whole tree, sorted ascending.
func collectValues(doc *figma.Node, pick func(*figma.Node) []float64) []float64 {
	seen := make(map[float64]bool)
	var values []float64
	for n := range walker.Walk(doc, func(*figma.Node) bool { return true }) {
		for _, v := range pick(n) {
			if v > 0 && !seen[v] {
				seen[v] = true
				values = append(values, v)
			}
		}
	}
	sort.Float64s(values)
	return values
}

// extractComponents merges components from the dedicated endpoint with
// components discovered via tree traversal. Merging is keyed by component
// key with first occurrence winning, so the endpoint version is retained
// when both sources know a component.
func extractComponents(file *figma.FileResponse, metas []figma.ComponentMetadata) []Component {
	var components []Component
	byKey := make(map[string]bool, len(metas))

	for _, m := range metas {
		if m.Key == "" || byKey[m.Key] {
			continue
		}
		byKey[m.Key] = true
		components = append(components, Component{
			Key:         m.Key,
			NodeID:      m.NodeID,
			Name:        m.Name,
			Description: m.Description,
			Thumbnail:   m.ThumbnailURL,
		})
	}

	for n := range walker.Components(&file.Document) {
		c := Component{NodeID: n.ID, Name: n.Name}

		// The file response carries the flat definition keyed by node ID.
		if def, ok := file.Components[n.ID]; ok {
			c.Key = def.Key
			if def.Description != "" {
				c.Description = def.Description
			}
			for _, link := range def.DocumentationLinks {
				c.DocumentationLinks = append(c.DocumentationLinks, link.URI)
			}
		}

		if n.Type == figma.NodeTypeComponentSet {
			c.Variants, c.Properties = variantInfo(n)
		}

		key := c.Key
		if key == "" {
			key = c.NodeID
		}
		if byKey[key] {
			continue
		}
		byKey[key] = true
		components = append(components, c)
	}

	return components
}

// variantInfo derives the variant and property lists of a component set
// from its children's names, which Figma formats as "Prop=Value, Prop=Value".
func variantInfo(set *figma.Node) (variants, properties []string) {
	seenProps := make(map[string]bool)
	for _, child := range set.Children {
		variants = append(variants, child.Name)
		for _, pair := range strings.Split(child.Name, ",") {
			prop, _, found := strings.Cut(pair, "=")
			prop = strings.TrimSpace(prop)
			if found && prop != "" && !seenProps[prop] {
				seenProps[prop] = true
				properties = append(properties, prop)
			}
		}
	}
	return variants, properties
}
