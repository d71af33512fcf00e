// Package analysis aggregates the file, styles, and components endpoints
// into one enhanced view of a design file: pages, design tokens, local
// styles, components, and artboards with populated thumbnails.
package analysis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/AltairTheSon/manex-ds-copilot/pkg/connstore"
	"github.com/AltairTheSon/manex-ds-copilot/pkg/figma"
	"github.com/AltairTheSon/manex-ds-copilot/pkg/thumbs"
	"github.com/AltairTheSon/manex-ds-copilot/pkg/walker"
)

// frameThumbnailCap bounds how many discovered frames contribute node IDs
// to the thumbnail request, so one huge file cannot fan out into hundreds
// of image batches.
const frameThumbnailCap = 200

// versionCacheSize bounds the in-memory version cache used by change sync.
const versionCacheSize = 32

// Fetcher is the slice of the Figma client the service needs.
type Fetcher interface {
	GetFile(ctx context.Context, fileKey string) (*figma.FileResponse, error)
	GetStyles(ctx context.Context, fileKey string) (*figma.StylesResponse, error)
	GetComponents(ctx context.Context, fileKey string) (*figma.ComponentsResponse, error)
}

// ThumbnailResolver resolves node IDs to rendered image URLs.
// *thumbs.Batcher satisfies it.
type ThumbnailResolver interface {
	Resolve(ctx context.Context, fileKey string, nodeIDs []string) map[string]string
}

// SnapshotStore persists the last-analysis snapshot between runs.
// *connstore.Store satisfies it.
type SnapshotStore interface {
	SaveSnapshot(snap connstore.Snapshot) error
	LoadSnapshot() (connstore.Snapshot, bool)
}

var _ ThumbnailResolver = (*thumbs.Batcher)(nil)
var _ SnapshotStore = (*connstore.Store)(nil)

// Service orchestrates fetching, extraction, and thumbnail resolution.
// All collaborators are injected; the service holds no global state.
type Service struct {
	fetcher   Fetcher
	thumbs    ThumbnailResolver
	snapshots SnapshotStore
	versions  *lru.Cache[string, string]
	logger    *slog.Logger
}

// NewService creates a Service. A nil logger silences logging; a nil
// snapshot store disables change sync persistence (versions are still
// tracked in memory).
func NewService(fetcher Fetcher, resolver ThumbnailResolver, snapshots SnapshotStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	versions, err := lru.New[string, string](versionCacheSize)
	if err != nil {
		// lru.New only rejects non-positive sizes and versionCacheSize is
		// a positive constant.
		panic(err)
	}
	return &Service{
		fetcher:   fetcher,
		thumbs:    resolver,
		snapshots: snapshots,
		versions:  versions,
		logger:    logger,
	}
}

// Analyze fetches the file document, styles metadata, and components
// metadata in parallel, extracts every derived entity, and resolves all
// thumbnails with a single batcher call. A failure of any of the three
// fetches fails the whole analysis.
//
// A non-empty scopeIDs restricts page frames and artboards to the subtrees
// rooted at those nodes, the way a share URL's node-id narrows the view.
// IDs not present in the document leave the analysis unscoped.
func (s *Service) Analyze(ctx context.Context, fileKey string, scopeIDs []string) (*Result, error) {
	started := time.Now()

	var (
		wg       sync.WaitGroup
		file     *figma.FileResponse
		styles   *figma.StylesResponse
		comps    *figma.ComponentsResponse
		fileErr  error
		styleErr error
		compErr  error
	)

	wg.Add(3)
	go func() { defer wg.Done(); file, fileErr = s.fetcher.GetFile(ctx, fileKey) }()
	go func() { defer wg.Done(); styles, styleErr = s.fetcher.GetStyles(ctx, fileKey) }()
	go func() { defer wg.Done(); comps, compErr = s.fetcher.GetComponents(ctx, fileKey) }()
	wg.Wait()

	for _, err := range []error{fileErr, styleErr, compErr} {
		if err != nil {
			return nil, err
		}
	}

	doc := &file.Document
	scope := scopeSet(doc, scopeIDs)
	result := &Result{
		FileInfo: FileInfo{
			Key:          fileKey,
			Name:         file.Name,
			LastModified: file.LastModified,
			Version:      file.Version,
			ThumbnailURL: file.ThumbnailURL,
		},
		Pages:        extractPages(doc, scope),
		DesignTokens: extractTokens(doc, styles.Meta.Styles),
		LocalStyles:  extractLocalStyles(styles.Meta.Styles),
		Components:   extractComponents(file, comps.Meta.Components),
		Artboards:    extractArtboards(doc, scope),
	}

	s.populateThumbnails(ctx, fileKey, result)

	s.recordVersion(fileKey, file.Version)

	s.logger.Info("analysis complete",
		"file", file.Name,
		"pages", len(result.Pages),
		"tokens", len(result.DesignTokens),
		"components", len(result.Components),
		"artboards", len(result.Artboards),
		"elapsed", time.Since(started))
	return result, nil
}

// populateThumbnails collects every node ID worth a thumbnail, resolves
// them in one batcher call, and writes the URLs back onto pages,
// components, and artboards. With zero candidate IDs the batcher is
// skipped entirely.
func (s *Service) populateThumbnails(ctx context.Context, fileKey string, result *Result) {
	ids := make([]string, 0, len(result.Pages)+len(result.Components)+frameThumbnailCap)
	for _, p := range result.Pages {
		ids = append(ids, p.ID)
	}
	for _, c := range result.Components {
		ids = append(ids, c.NodeID)
	}
	for i, a := range result.Artboards {
		if i == frameThumbnailCap {
			break
		}
		ids = append(ids, a.ID)
	}

	if len(ids) == 0 {
		return
	}

	images := s.thumbs.Resolve(ctx, fileKey, ids)
	if len(images) == 0 {
		return
	}

	for i := range result.Pages {
		page := &result.Pages[i]
		page.Thumbnail = images[page.ID]
		for j := range page.Frames {
			frame := &page.Frames[j]
			frame.ImageURL = images[frame.ID]
		}
	}
	for i := range result.Components {
		c := &result.Components[i]
		if c.Thumbnail == "" {
			c.Thumbnail = images[c.NodeID]
		}
	}
	for i := range result.Artboards {
		a := &result.Artboards[i]
		a.ImageURL = images[a.ID]
	}
}

// FetchPageArtboards lazily resolves a single page's artboards with
// thumbnails. Instances are included here: a page-scoped view wants every
// renderable surface, not only top-level frames.
func (s *Service) FetchPageArtboards(ctx context.Context, fileKey, pageID string) ([]Artboard, error) {
	file, err := s.fetcher.GetFile(ctx, fileKey)
	if err != nil {
		return nil, err
	}

	var page *figma.Node
	for _, p := range walker.Pages(&file.Document) {
		if p.ID == pageID {
			page = p
			break
		}
	}
	if page == nil {
		return nil, fmt.Errorf("page %q not found in file %q", pageID, fileKey)
	}

	var artboards []Artboard
	ids := make([]string, 0)
	for n := range walker.Frames(page, true) {
		artboards = append(artboards, newArtboard(n))
		ids = append(ids, n.ID)
	}
	if len(ids) == 0 {
		return artboards, nil
	}

	images := s.thumbs.Resolve(ctx, fileKey, ids)
	for i := range artboards {
		artboards[i].ImageURL = images[artboards[i].ID]
	}
	return artboards, nil
}

// SyncFileChanges reports whether the remote version string differs from
// the one recorded at the last analysis or sync. The first sight of a file
// records its version and reports no change.
func (s *Service) SyncFileChanges(ctx context.Context, fileKey string) (bool, error) {
	file, err := s.fetcher.GetFile(ctx, fileKey)
	if err != nil {
		return false, err
	}

	previous, known := s.versions.Get(fileKey)
	if !known && s.snapshots != nil {
		if snap, ok := s.snapshots.LoadSnapshot(); ok && snap.FileKey == fileKey {
			previous, known = snap.Version, true
		}
	}

	s.recordVersion(fileKey, file.Version)

	if !known {
		return false, nil
	}
	return previous != file.Version, nil
}

// recordVersion stores the observed version in memory and in the
// persisted snapshot slot.
func (s *Service) recordVersion(fileKey, version string) {
	s.versions.Add(fileKey, version)
	if s.snapshots == nil {
		return
	}
	snap := connstore.Snapshot{FileKey: fileKey, Version: version, AnalyzedAt: time.Now()}
	if err := s.snapshots.SaveSnapshot(snap); err != nil {
		s.logger.Warn("persisting analysis snapshot failed", "error", err)
	}
}
