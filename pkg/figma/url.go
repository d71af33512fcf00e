package figma

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Match patterns like:
// https://www.figma.com/file/ABC123/Design-Name
// https://www.figma.com/design/ABC123/Design-Name
// Anchored to ensure the entire URL matches the expected pattern.
var fileKeyPattern = regexp.MustCompile(`^https?://(?:www\.)?figma\.com/(?:file|design)/([A-Za-z0-9]+)(?:/|$|\?)`)

// Node IDs look like "123:456"; share links URL-encode the colon as a dash.
var nodeIDPattern = regexp.MustCompile(`^(\d+)[:-](\d+)$`)

// ExtractFileKey extracts the unique file identifier from a Figma URL.
// Supports both /file/ and /design/ URL patterns (e.g., figma.com/file/ABC123/Design-Name).
// Returns an error if the URL doesn't match the expected Figma domain pattern.
func ExtractFileKey(figmaURL string) (string, error) {
	matches := fileKeyPattern.FindStringSubmatch(figmaURL)
	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Figma URL format: must be a valid figma.com URL with /file/ or /design/ path")
	}
	return matches[1], nil
}

// ExtractNodeIDs extracts node IDs from a Figma URL. It looks at the node-id
// query parameter first, then the hash fragment. Dash-separated IDs from
// share links are normalized to the canonical colon form, duplicates are
// dropped preserving first occurrence. A URL without node IDs yields an
// empty slice, not an error.
func ExtractNodeIDs(figmaURL string) ([]string, error) {
	u, err := url.Parse(figmaURL)
	if err != nil {
		return nil, fmt.Errorf("parse Figma URL: %w", err)
	}

	raw := u.Query().Get("node-id")
	if raw == "" {
		raw = u.Fragment
	}

	ids := make([]string, 0)
	if raw == "" {
		return ids, nil
	}

	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		m := nodeIDPattern.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		id := m[1] + ":" + m[2]
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}
