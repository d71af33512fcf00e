// Package dscopilot analyzes Figma design files via the Figma REST API and
// produces one combined view per file: pages, design tokens, local styles,
// components, and artboards with resolved thumbnails, plus a markdown
// report.
//
// The CLI lives in cmd/ds-copilot; this root package exposes the same
// pipeline as a Go API so that callers can embed the analysis in their own
// tools without shelling out.
//
// # Import
//
// The module path contains hyphens but Go package names cannot, so the
// package is named dscopilot:
//
//	import "github.com/AltairTheSon/manex-ds-copilot" // package dscopilot
//
// # Quick start
//
//	report, err := dscopilot.Run(ctx, dscopilot.Options{
//	    AccessToken: os.Getenv("FIGMA_TOKEN"),
//	    FileURL:     "https://www.figma.com/design/ABC123/My-Design",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("analysis.md", []byte(report.Markdown), 0644)
//
// # Pipeline
//
// One run fetches the file document, styles metadata, and components
// metadata in parallel, walks the document tree for pages, artboards, and
// components, normalizes styles into canonical token strings, and resolves
// all thumbnails through a single batched image request. A file URL that
// carries a node-id narrows page frames and artboards to those subtrees. Top-level fetch
// failures fail the run; individual thumbnail batches degrade to missing
// images instead.
//
// # Connection state
//
// A successful run persists the connection (token, file metadata, last
// connected time) in the per-user config directory so a later session can
// restore it. Stored connections expire after seven days. Use
// [Sync] to check whether the remote file changed since the last run.
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages; a nil Logger silences them. Structured diagnostics go to
// stderr when [Options.Debug] is set.
package dscopilot
