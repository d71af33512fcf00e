package thumbs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const maxParallelDownloads = 5

// Asset is one thumbnail saved to disk.
type Asset struct {
	NodeID   string
	NodeName string
	FileName string
}

// DownloadAll saves the resolved thumbnails to outputDir with kebab-case,
// collision-safe filenames derived from names (a node-ID-to-name mapping).
// Downloads run concurrently with bounded parallelism; per-image failures
// are collected and returned alongside the assets that did succeed.
func DownloadAll(ctx context.Context, images map[string]string, names map[string]string, outputDir string) ([]Asset, []error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, []error{fmt.Errorf("create output directory %q: %w", outputDir, err)}
	}

	var (
		assets    []Asset
		errs      []error
		usedNames = make(map[string]int)
		wg        sync.WaitGroup
		mu        sync.Mutex
	)
	sem := make(chan struct{}, maxParallelDownloads)

	for nodeID, imageURL := range images {
		if imageURL == "" {
			continue
		}

		wg.Add(1)
		go func(nodeID, imageURL string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			nodeName := names[nodeID]
			fileName := buildFileName(nodeName, nodeID)

			mu.Lock()
			count := usedNames[fileName]
			usedNames[fileName] = count + 1
			if count > 0 {
				ext := filepath.Ext(fileName)
				base := strings.TrimSuffix(fileName, ext)
				fileName = fmt.Sprintf("%s-%d%s", base, count+1, ext)
			}
			mu.Unlock()

			destPath := filepath.Join(outputDir, fileName)
			if err := downloadFile(ctx, imageURL, destPath); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("download thumbnail for %q: %w", nodeID, err))
				mu.Unlock()
				return
			}

			mu.Lock()
			assets = append(assets, Asset{NodeID: nodeID, NodeName: nodeName, FileName: fileName})
			mu.Unlock()
		}(nodeID, imageURL)
	}

	wg.Wait()
	return assets, errs
}

// downloadFile performs an HTTP GET and saves the response body to destPath.
func downloadFile(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP GET failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d downloading image", resp.StatusCode)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("write file %q: %w", destPath, err)
	}
	return nil
}

// buildFileName creates a sanitized PNG filename from a node name,
// falling back to the sanitized node ID when the name is empty.
func buildFileName(nodeName, nodeID string) string {
	name := nodeName
	if name == "" {
		name = nodeID
	}

	name = toKebabCase(name)
	if name == "" {
		name = "thumbnail"
	}
	return name + ".png"
}

// toKebabCase converts a string to kebab-case format (lowercase with hyphens).
func toKebabCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, ":", "-")

	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}
	return result.String()
}
