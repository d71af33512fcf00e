// Package thumbs resolves rendered thumbnail URLs for design nodes.
// It deduplicates candidate node IDs, splits them into URL-length-safe
// batches, issues the batch requests in parallel, and merges the results
// into a single node-ID-to-URL mapping.
package thumbs

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/AltairTheSon/manex-ds-copilot/pkg/figma"
)

const (
	// maxIDsPerBatch bounds one image request.
	maxIDsPerBatch = 50
	// maxRequestURLLength is the longest request URL the API gateway
	// accepts before answering 414.
	maxRequestURLLength = 2048
)

// ImageFetcher is the slice of the Figma client the batcher needs.
type ImageFetcher interface {
	GetImages(ctx context.Context, fileKey string, nodeIDs []string, format string, scale float64) (*figma.ImagesResponse, error)
	ImageRequestURL(fileKey string, nodeIDs []string, format string, scale float64) string
}

// Batcher resolves node thumbnails through an ImageFetcher.
type Batcher struct {
	fetcher ImageFetcher
	logger  *slog.Logger
	format  string
	scale   float64
}

// NewBatcher creates a Batcher rendering PNG at 2x. A nil logger silences logging.
func NewBatcher(fetcher ImageFetcher, logger *slog.Logger) *Batcher {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Batcher{
		fetcher: fetcher,
		logger:  logger,
		format:  figma.DefaultImageFormat,
		scale:   figma.DefaultImageScale,
	}
}

// Resolve returns a mapping from node ID to rendered image URL for the
// given candidate IDs. Empty, placeholder ("0:0"), and instance-prefixed
// IDs are filtered out; duplicates keep their first occurrence. Batches
// whose request URL would exceed the length limit are skipped, and an
// individual batch failure contributes an empty mapping rather than
// failing the whole operation. An input that filters down to nothing
// returns an empty map without any network call.
func (b *Batcher) Resolve(ctx context.Context, fileKey string, nodeIDs []string) map[string]string {
	ids := filterIDs(nodeIDs)
	images := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return images
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for start := 0; start < len(ids); start += maxIDsPerBatch {
		end := min(start+maxIDsPerBatch, len(ids))
		batch := ids[start:end]

		if url := b.fetcher.ImageRequestURL(fileKey, batch, b.format, b.scale); len(url) > maxRequestURLLength {
			b.logger.Warn("skipping thumbnail batch: request URL exceeds limit",
				"batch_size", len(batch), "url_length", len(url))
			continue
		}

		wg.Add(1)
		go func(batch []string) {
			defer wg.Done()

			resp, err := b.fetcher.GetImages(ctx, fileKey, batch, b.format, b.scale)
			if err != nil {
				// One bad batch must not discard every other image.
				b.logger.Warn("thumbnail batch failed", "batch_size", len(batch), "error", err)
				return
			}

			mu.Lock()
			for id, url := range resp.Images {
				images[id] = url
			}
			mu.Unlock()
		}(batch)
	}

	wg.Wait()
	return images
}

// filterIDs drops empty, placeholder, and instance-prefixed IDs, then
// deduplicates preserving first occurrence.
func filterIDs(nodeIDs []string) []string {
	seen := make(map[string]bool, len(nodeIDs))
	ids := make([]string, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		if id == "" || id == "0:0" || strings.HasPrefix(id, "I") {
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
