package analysis

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AltairTheSon/manex-ds-copilot/pkg/connstore"
	"github.com/AltairTheSon/manex-ds-copilot/pkg/figma"
	"github.com/AltairTheSon/manex-ds-copilot/pkg/tokens"
)

type fakeFetcher struct {
	file     *figma.FileResponse
	styles   *figma.StylesResponse
	comps    *figma.ComponentsResponse
	fileErr  error
	styleErr error
	compErr  error
}

func (f *fakeFetcher) GetFile(context.Context, string) (*figma.FileResponse, error) {
	return f.file, f.fileErr
}

func (f *fakeFetcher) GetStyles(context.Context, string) (*figma.StylesResponse, error) {
	return f.styles, f.styleErr
}

func (f *fakeFetcher) GetComponents(context.Context, string) (*figma.ComponentsResponse, error) {
	return f.comps, f.compErr
}

// fakeResolver returns a stub URL per requested ID and records calls.
type fakeResolver struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *fakeResolver) Resolve(_ context.Context, _ string, nodeIDs []string) map[string]string {
	r.mu.Lock()
	r.calls = append(r.calls, nodeIDs)
	r.mu.Unlock()

	images := make(map[string]string, len(nodeIDs))
	for _, id := range nodeIDs {
		images[id] = "https://img.example/" + id + ".png"
	}
	return images
}

func box(w, h float64) *figma.Rectangle { return &figma.Rectangle{Width: w, Height: h} }

func testFile() *figma.FileResponse {
	return &figma.FileResponse{
		Name:         "Design System",
		LastModified: "2026-08-20T09:00:00Z",
		Version:      "42",
		ThumbnailURL: "https://img.example/file.png",
		Document: figma.Node{
			ID: "0:0", Name: "Document", Type: "DOCUMENT",
			Children: []figma.Node{
				{
					ID: "1:1", Name: "Page 1", Type: figma.NodeTypeCanvas,
					Children: []figma.Node{
						{
							ID: "2:1", Name: "Home", Type: figma.NodeTypeFrame,
							AbsoluteBoundingBox: box(375, 812),
							BackgroundColor:     &figma.Color{R: 1, G: 1, B: 1, A: 1},
							ItemSpacing:         8,
						},
						{ID: "2:2", Name: "Ghost", Type: figma.NodeTypeFrame}, // no bounding box
						{
							ID: "4:1", Name: "Color/Primary", Type: "RECTANGLE",
							Fills: []figma.Paint{{Type: "SOLID", Color: &figma.Color{R: 1, A: 1}}},
						},
						{
							ID: "5:1", Name: "Button", Type: figma.NodeTypeComponent,
							AbsoluteBoundingBox: box(120, 40),
						},
						{
							ID: "5:9", Name: "Badge", Type: figma.NodeTypeComponent,
							AbsoluteBoundingBox: box(40, 16),
						},
						{
							ID: "6:1", Name: "Title", Type: "TEXT",
							Style: &figma.TypeStyle{FontFamily: "Inter", FontSize: 24, FontWeight: 700},
						},
					},
				},
			},
		},
		Components: map[string]figma.Component{
			"5:1": {Key: "key-button", Name: "Button", Description: "tree description"},
			"5:9": {Key: "key-badge", Name: "Badge"},
		},
	}
}

func testStyles() *figma.StylesResponse {
	return &figma.StylesResponse{Meta: figma.StylesMeta{Styles: []figma.StyleMetadata{
		{Key: "s1", NodeID: "4:1", StyleType: figma.StyleTypeFill, Name: "Color/Primary"},
		{Key: "s2", NodeID: "404:1", StyleType: figma.StyleTypeText, Name: "Body Font"},
	}}}
}

func testComps() *figma.ComponentsResponse {
	return &figma.ComponentsResponse{Meta: figma.ComponentsMeta{Components: []figma.ComponentMetadata{
		{Key: "key-button", NodeID: "5:1", Name: "Button", Description: "endpoint description"},
	}}}
}

func newTestService(t *testing.T, f Fetcher, r ThumbnailResolver) *Service {
	t.Helper()
	return NewService(f, r, connstore.New(t.TempDir()), nil)
}

func TestAnalyze(t *testing.T) {
	fetcher := &fakeFetcher{file: testFile(), styles: testStyles(), comps: testComps()}
	resolver := &fakeResolver{}
	svc := newTestService(t, fetcher, resolver)

	result, err := svc.Analyze(context.Background(), "KEY", nil)
	require.NoError(t, err)

	assert.Equal(t, "Design System", result.FileInfo.Name)
	assert.Equal(t, "42", result.FileInfo.Version)

	require.Len(t, result.Pages, 1)
	page := result.Pages[0]
	assert.Equal(t, "Page 1", page.Name)
	assert.Equal(t, "https://img.example/1:1.png", page.Thumbnail)

	// Ghost has no bounding box and must not appear; Home appears once.
	require.Len(t, result.Artboards, 1)
	home := result.Artboards[0]
	assert.Equal(t, "Home", home.Name)
	assert.Equal(t, 375.0, home.Width)
	assert.Equal(t, "#ffffff", home.BackgroundColor)
	assert.Equal(t, "https://img.example/2:1.png", home.ImageURL)

	require.Len(t, result.LocalStyles, 2)
	assert.Equal(t, figma.StyleTypeFill, result.LocalStyles[0].Type)
}

func TestAnalyzeTokens(t *testing.T) {
	fetcher := &fakeFetcher{file: testFile(), styles: testStyles(), comps: testComps()}
	svc := newTestService(t, fetcher, &fakeResolver{})

	result, err := svc.Analyze(context.Background(), "KEY", nil)
	require.NoError(t, err)

	byName := make(map[string]tokens.DesignToken)
	for _, tok := range result.DesignTokens {
		byName[tok.Name] = tok
	}

	primary := byName["Color/Primary"]
	assert.Equal(t, tokens.TypeColor, primary.Type)
	assert.Equal(t, "#ff0000", primary.Value)
	assert.Equal(t, tokens.CategoryColors, primary.Category)

	// The text style's node does not exist in the tree: fallback value, no error.
	body := byName["Body Font"]
	assert.Equal(t, tokens.TypeTypography, body.Type)
	assert.Contains(t, body.Value, `"Arial"`)

	// Typography token inferred from the Title text node's font usage.
	inter := byName["font/Inter"]
	assert.Equal(t, tokens.TypeTypography, inter.Type)
	assert.Contains(t, inter.Value, `"Inter"`)
	assert.Equal(t, tokens.CategoryTypography, inter.Category)

	// Spacing token inferred from Home's itemSpacing.
	spacing := byName["spacing/8"]
	assert.Equal(t, tokens.TypeSpacing, spacing.Type)
	assert.Equal(t, "8px", spacing.Value)
}

func TestAnalyzeScopedToNodes(t *testing.T) {
	fetcher := &fakeFetcher{file: testFile(), styles: testStyles(), comps: testComps()}
	svc := newTestService(t, fetcher, &fakeResolver{})

	// Scoping to the Home frame keeps only its subtree's artboards.
	result, err := svc.Analyze(context.Background(), "KEY", []string{"2:1"})
	require.NoError(t, err)

	require.Len(t, result.Artboards, 1)
	assert.Equal(t, "Home", result.Artboards[0].Name)
	require.Len(t, result.Pages, 1)
	require.Len(t, result.Pages[0].Frames, 1)
	assert.Equal(t, "Home", result.Pages[0].Frames[0].Name)

	// Component and style extraction stay file-wide.
	assert.NotEmpty(t, result.Components)
	assert.Len(t, result.LocalStyles, 2)

	// Scoping to a subtree without frames excludes Home.
	result, err = svc.Analyze(context.Background(), "KEY", []string{"5:1"})
	require.NoError(t, err)
	assert.Empty(t, result.Artboards)
	assert.Empty(t, result.Pages[0].Frames)
}

func TestAnalyzeScopeUnmatchedFallsBackToDocument(t *testing.T) {
	fetcher := &fakeFetcher{file: testFile(), styles: testStyles(), comps: testComps()}
	svc := newTestService(t, fetcher, &fakeResolver{})

	result, err := svc.Analyze(context.Background(), "KEY", []string{"404:404"})
	require.NoError(t, err)
	assert.Len(t, result.Artboards, 1, "an unmatched scope must not hide everything")
}

func TestAnalyzeComponentMergeEndpointWins(t *testing.T) {
	fetcher := &fakeFetcher{file: testFile(), styles: testStyles(), comps: testComps()}
	svc := newTestService(t, fetcher, &fakeResolver{})

	result, err := svc.Analyze(context.Background(), "KEY", nil)
	require.NoError(t, err)

	var buttons, badges []Component
	for _, c := range result.Components {
		switch c.Name {
		case "Button":
			buttons = append(buttons, c)
		case "Badge":
			badges = append(badges, c)
		}
	}

	// Button is known to both sources: exactly one entry, endpoint version retained.
	require.Len(t, buttons, 1)
	assert.Equal(t, "endpoint description", buttons[0].Description)

	// Badge is tree-only and still present.
	require.Len(t, badges, 1)
	assert.Equal(t, "key-badge", badges[0].Key)
}

func TestAnalyzeFetchFailurePropagates(t *testing.T) {
	apiErr := &figma.APIError{Message: "invalid access token", Status: 401}
	fetcher := &fakeFetcher{file: testFile(), styles: testStyles(), comps: testComps(), styleErr: apiErr}
	resolver := &fakeResolver{}
	svc := newTestService(t, fetcher, resolver)

	_, err := svc.Analyze(context.Background(), "KEY", nil)
	require.Error(t, err)
	assert.True(t, figma.IsUnauthorized(err))
	assert.Empty(t, resolver.calls, "no thumbnails must be requested for a failed analysis")
}

func TestAnalyzeNoThumbnailCandidatesSkipsBatcher(t *testing.T) {
	fetcher := &fakeFetcher{
		file:   &figma.FileResponse{Name: "Empty", Document: figma.Node{ID: "0:0", Type: "DOCUMENT"}},
		styles: &figma.StylesResponse{},
		comps:  &figma.ComponentsResponse{},
	}
	resolver := &fakeResolver{}
	svc := newTestService(t, fetcher, resolver)

	result, err := svc.Analyze(context.Background(), "KEY", nil)
	require.NoError(t, err)
	assert.Empty(t, result.Pages)
	assert.Empty(t, resolver.calls)
}

func TestAnalyzeFrameThumbnailCap(t *testing.T) {
	file := &figma.FileResponse{
		Name: "Huge",
		Document: figma.Node{
			ID: "0:0", Type: "DOCUMENT",
			Children: []figma.Node{{ID: "1:1", Name: "Page", Type: figma.NodeTypeCanvas}},
		},
	}
	page := &file.Document.Children[0]
	for i := 0; i < frameThumbnailCap+25; i++ {
		page.Children = append(page.Children, figma.Node{
			ID:                  fmt.Sprintf("9:%d", i),
			Type:                figma.NodeTypeFrame,
			AbsoluteBoundingBox: box(100, 100),
		})
	}

	fetcher := &fakeFetcher{file: file, styles: &figma.StylesResponse{}, comps: &figma.ComponentsResponse{}}
	resolver := &fakeResolver{}
	svc := newTestService(t, fetcher, resolver)

	result, err := svc.Analyze(context.Background(), "KEY", nil)
	require.NoError(t, err)

	// Every frame is extracted, but only the first 200 contribute
	// thumbnail candidates (plus the page itself).
	assert.Len(t, result.Artboards, frameThumbnailCap+25)
	require.Len(t, resolver.calls, 1)
	assert.Len(t, resolver.calls[0], frameThumbnailCap+1)
}

func TestFetchPageArtboards(t *testing.T) {
	file := testFile()
	// Give the page an instance to confirm the page-scoped view includes them.
	file.Document.Children[0].Children = append(file.Document.Children[0].Children, figma.Node{
		ID: "7:1", Name: "Hero Instance", Type: figma.NodeTypeInstance, AbsoluteBoundingBox: box(375, 200),
	})

	fetcher := &fakeFetcher{file: file}
	svc := newTestService(t, fetcher, &fakeResolver{})

	artboards, err := svc.FetchPageArtboards(context.Background(), "KEY", "1:1")
	require.NoError(t, err)

	names := make([]string, 0, len(artboards))
	for _, a := range artboards {
		names = append(names, a.Name)
		assert.NotEmpty(t, a.ImageURL, "artboard %s should have a thumbnail", a.Name)
	}
	assert.Contains(t, names, "Home")
	assert.Contains(t, names, "Hero Instance")
	assert.NotContains(t, names, "Ghost")
}

func TestFetchPageArtboardsUnknownPage(t *testing.T) {
	fetcher := &fakeFetcher{file: testFile()}
	svc := newTestService(t, fetcher, &fakeResolver{})

	_, err := svc.FetchPageArtboards(context.Background(), "KEY", "404:404")
	assert.Error(t, err)
}

func TestSyncFileChanges(t *testing.T) {
	file := testFile()
	fetcher := &fakeFetcher{file: file}
	store := connstore.New(t.TempDir())
	svc := NewService(fetcher, &fakeResolver{}, store, nil)

	// First sight: version recorded, no change reported.
	changed, err := svc.SyncFileChanges(context.Background(), "KEY")
	require.NoError(t, err)
	assert.False(t, changed)

	// Same version again: still no change.
	changed, err = svc.SyncFileChanges(context.Background(), "KEY")
	require.NoError(t, err)
	assert.False(t, changed)

	// Remote version moved.
	file.Version = "43"
	changed, err = svc.SyncFileChanges(context.Background(), "KEY")
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestSyncFileChangesUsesPersistedSnapshot(t *testing.T) {
	file := testFile()
	store := connstore.New(t.TempDir())

	svc := NewService(&fakeFetcher{file: file}, &fakeResolver{}, store, nil)
	_, err := svc.SyncFileChanges(context.Background(), "KEY")
	require.NoError(t, err)

	// A fresh service with an empty in-memory cache must fall back to the
	// persisted snapshot.
	file.Version = "43"
	fresh := NewService(&fakeFetcher{file: file}, &fakeResolver{}, store, nil)
	changed, err := fresh.SyncFileChanges(context.Background(), "KEY")
	require.NoError(t, err)
	assert.True(t, changed)
}
