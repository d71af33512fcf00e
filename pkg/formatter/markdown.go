package formatter

import (
	"fmt"
	"strings"

	"github.com/AltairTheSon/manex-ds-copilot/pkg/analysis"
	"github.com/AltairTheSon/manex-ds-copilot/pkg/tokens"
)

// ToMarkdown transforms an analysis result into a markdown document:
// file metadata, design tokens grouped by category, pages with their
// artboards, and components.
func ToMarkdown(result *analysis.Result) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Design Analysis - %s\n\n", result.FileInfo.Name))
	sb.WriteString(fmt.Sprintf("- **Version**: %s\n", result.FileInfo.Version))
	sb.WriteString(fmt.Sprintf("- **Last Modified**: %s\n", result.FileInfo.LastModified))
	if result.FileInfo.ThumbnailURL != "" {
		sb.WriteString(fmt.Sprintf("- **Thumbnail**: %s\n", result.FileInfo.ThumbnailURL))
	}
	sb.WriteString("\n")

	writeTokens(&sb, result.DesignTokens)
	writePages(&sb, result.Pages)
	writeComponents(&sb, result.Components)
	writeLocalStyles(&sb, result.LocalStyles)

	return sb.String()
}

// categoryOrder fixes the presentation order of token categories.
var categoryOrder = []tokens.Category{
	tokens.CategoryColors,
	tokens.CategoryTypography,
	tokens.CategoryEffects,
	tokens.CategorySpacing,
	tokens.CategoryOther,
}

func writeTokens(sb *strings.Builder, toks []tokens.DesignToken) {
	if len(toks) == 0 {
		return
	}

	sb.WriteString("## Design Tokens\n\n")

	grouped := make(map[tokens.Category][]tokens.DesignToken)
	for _, tok := range toks {
		grouped[tok.Category] = append(grouped[tok.Category], tok)
	}

	for _, category := range categoryOrder {
		group := grouped[category]
		if len(group) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("### %s\n\n", titleCase(string(category))))
		sb.WriteString("| Token | Type | Value |\n")
		sb.WriteString("|-------|------|-------|\n")
		for _, tok := range group {
			sb.WriteString(fmt.Sprintf("| %s | %s | `%s` |\n", tok.Name, tok.Type, tok.Value))
		}
		sb.WriteString("\n")
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func writePages(sb *strings.Builder, pages []analysis.Page) {
	if len(pages) == 0 {
		return
	}

	sb.WriteString("## Pages\n\n")
	for _, page := range pages {
		sb.WriteString(fmt.Sprintf("### %s\n\n", page.Name))
		if page.Thumbnail != "" {
			sb.WriteString(fmt.Sprintf("![%s](%s)\n\n", page.Name, page.Thumbnail))
		}
		if len(page.Frames) == 0 {
			continue
		}

		sb.WriteString("| Artboard | Size | Background |\n")
		sb.WriteString("|----------|------|------------|\n")
		for _, frame := range page.Frames {
			bg := frame.BackgroundColor
			if bg == "" {
				bg = "—"
			}
			sb.WriteString(fmt.Sprintf("| %s | %.0fx%.0f | %s |\n", frame.Name, frame.Width, frame.Height, bg))
		}
		sb.WriteString("\n")
	}
}

func writeComponents(sb *strings.Builder, components []analysis.Component) {
	if len(components) == 0 {
		return
	}

	sb.WriteString("## Components\n\n")
	sb.WriteString("| Component | Description | Variants |\n")
	sb.WriteString("|-----------|-------------|----------|\n")
	for _, c := range components {
		desc := c.Description
		if desc == "" {
			desc = "—"
		}
		variants := "—"
		if len(c.Variants) > 0 {
			variants = strings.Join(c.Variants, "<br>")
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", c.Name, desc, variants))
	}
	sb.WriteString("\n")
}

func writeLocalStyles(sb *strings.Builder, styles []analysis.LocalStyle) {
	if len(styles) == 0 {
		return
	}

	sb.WriteString("## Local Styles\n\n")
	sb.WriteString("| Style | Type | Description |\n")
	sb.WriteString("|-------|------|-------------|\n")
	for _, s := range styles {
		desc := s.Description
		if desc == "" {
			desc = "—"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", s.Name, s.Type, desc))
	}
	sb.WriteString("\n")
}
