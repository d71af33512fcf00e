package dscopilot

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/AltairTheSon/manex-ds-copilot/pkg/analysis"
	"github.com/AltairTheSon/manex-ds-copilot/pkg/connstore"
	"github.com/AltairTheSon/manex-ds-copilot/pkg/figma"
	"github.com/AltairTheSon/manex-ds-copilot/pkg/formatter"
	"github.com/AltairTheSon/manex-ds-copilot/pkg/thumbs"
)

// Version of the module.
const Version = "0.3.0"

// Options configures an analysis run.
type Options struct {
	AccessToken      string
	FileURL          string           // Figma file URL
	AuthScheme       figma.AuthScheme // how the token is sent
	ExportThumbnails bool             // download resolved thumbnails to ThumbnailDir
	ThumbnailDir     string           // default "design-thumbnails"
	StoreDir         string           // connection store location; "" = per-user config dir
	Debug            bool             // structured debug logs on stderr
	Logger           Logger           // nil = no progress logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Report contains the analysis output.
type Report struct {
	Analysis   *analysis.Result
	Markdown   string        // formatted markdown output
	Thumbnails []thumbs.Asset // populated when thumbnail export is on
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

// Run executes the full analysis pipeline: fetch, extract, resolve
// thumbnails, persist the connection, and format the report.
func Run(ctx context.Context, opts Options) (*Report, error) {
	svc, store, fileKey, err := buildService(&opts)
	if err != nil {
		return nil, err
	}

	// A share URL carrying node-id narrows the view to those subtrees.
	scope, err := figma.ExtractNodeIDs(opts.FileURL)
	if err != nil {
		return nil, fmt.Errorf("extract node IDs: %w", err)
	}
	if len(scope) > 0 {
		opts.logInfo("Scoping to %d node(s) from the URL", len(scope))
	}

	opts.logInfo("Analyzing file %s...", fileKey)
	result, err := svc.Analyze(ctx, fileKey, scope)
	if err != nil {
		// A restore-time failure marks the stored connection unusable
		// without deleting it.
		if figma.IsUnauthorized(err) || figma.IsNotFound(err) {
			if uerr := store.UpdateValidity(false); uerr != nil {
				opts.logWarn("Could not update stored connection: %v", uerr)
			}
		}
		return nil, err
	}
	opts.logInfo("File: %s (version %s)", result.FileInfo.Name, result.FileInfo.Version)
	opts.logInfo("Extracted %d page(s), %d token(s), %d component(s), %d artboard(s)",
		len(result.Pages), len(result.DesignTokens), len(result.Components), len(result.Artboards))

	if _, err := store.Create(connstore.KindFigma, opts.AccessToken, connstore.FileInfo{
		Key:          fileKey,
		Name:         result.FileInfo.Name,
		LastModified: result.FileInfo.LastModified,
		Version:      result.FileInfo.Version,
	}); err != nil {
		opts.logWarn("Could not persist connection: %v", err)
	}

	report := &Report{
		Analysis: result,
		Markdown: formatter.ToMarkdown(result),
	}

	if opts.ExportThumbnails {
		report.Thumbnails = exportThumbnails(ctx, &opts, result)
	}

	return report, nil
}

// PageArtboards lazily resolves one page's artboards with thumbnails.
func PageArtboards(ctx context.Context, opts Options, pageID string) ([]analysis.Artboard, error) {
	svc, _, fileKey, err := buildService(&opts)
	if err != nil {
		return nil, err
	}
	return svc.FetchPageArtboards(ctx, fileKey, pageID)
}

// Sync reports whether the remote file version differs from the last one
// recorded by an analysis or sync on this machine.
func Sync(ctx context.Context, opts Options) (bool, error) {
	svc, _, fileKey, err := buildService(&opts)
	if err != nil {
		return false, err
	}
	return svc.SyncFileChanges(ctx, fileKey)
}

// buildService wires the client, thumbnail batcher, connection store, and
// analysis service from the options.
func buildService(opts *Options) (*analysis.Service, *connstore.Store, string, error) {
	if opts.AccessToken == "" {
		return nil, nil, "", fmt.Errorf("access token is required")
	}

	fileKey, err := figma.ExtractFileKey(opts.FileURL)
	if err != nil {
		return nil, nil, "", fmt.Errorf("extract file key: %w", err)
	}

	storeDir := opts.StoreDir
	if storeDir == "" {
		storeDir, err = connstore.DefaultDir()
		if err != nil {
			return nil, nil, "", err
		}
	}
	store := connstore.New(storeDir)

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if opts.Debug {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	client := figma.NewClient(opts.AccessToken, figma.WithAuthScheme(opts.AuthScheme))
	batcher := thumbs.NewBatcher(client, logger)
	svc := analysis.NewService(client, batcher, store, logger)
	return svc, store, fileKey, nil
}

// exportThumbnails downloads every resolved page and artboard thumbnail.
// Download failures are reported through the progress logger and do not
// fail the run.
func exportThumbnails(ctx context.Context, opts *Options, result *analysis.Result) []thumbs.Asset {
	dir := opts.ThumbnailDir
	if dir == "" {
		dir = "design-thumbnails"
	}

	images := make(map[string]string)
	names := make(map[string]string)
	for _, p := range result.Pages {
		if p.Thumbnail != "" {
			images[p.ID] = p.Thumbnail
			names[p.ID] = p.Name
		}
	}
	for _, a := range result.Artboards {
		if a.ImageURL != "" {
			images[a.ID] = a.ImageURL
			names[a.ID] = a.Name
		}
	}
	for _, c := range result.Components {
		if c.Thumbnail != "" {
			images[c.NodeID] = c.Thumbnail
			names[c.NodeID] = c.Name
		}
	}

	if len(images) == 0 {
		opts.logInfo("No thumbnails to export")
		return nil
	}

	opts.logInfo("Downloading %d thumbnail(s) to %s...", len(images), dir)
	assets, errs := thumbs.DownloadAll(ctx, images, names, dir)
	for _, err := range errs {
		opts.logWarn("%v", err)
	}
	opts.logInfo("Saved %d thumbnail(s)", len(assets))
	return assets
}
