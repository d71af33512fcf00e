package figma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultAPIBase = "https://api.figma.com/v1"

// Image rendering parameters. Thumbnails are rendered as PNG at 2x so they
// stay sharp on high-density displays.
const (
	DefaultImageFormat = "png"
	DefaultImageScale  = 2
)

// AuthScheme selects how the access token is conveyed to the API.
// The exact header is a configuration detail of the upstream service,
// not a fixed wire contract.
type AuthScheme int

const (
	// AuthTokenHeader sends the token in the X-Figma-Token header (personal access tokens).
	AuthTokenHeader AuthScheme = iota
	// AuthBearer sends the token as an Authorization: Bearer header (OAuth tokens).
	AuthBearer
)

// Client is a Figma REST API client with configured HTTP settings.
// It performs no automatic retries: every failure surfaces immediately
// as a normalized *APIError.
type Client struct {
	accessToken string
	authScheme  AuthScheme
	baseURL     string
	httpClient  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used for testing against a local server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAuthScheme selects how the access token is sent.
func WithAuthScheme(s AuthScheme) Option {
	return func(c *Client) { c.authScheme = s }
}

// NewClient creates a new Figma API client with the provided access token.
// The client is configured with connection pooling, disabled HTTP/2
// (for large file stability), and a 2-minute timeout; pass a context to
// individual calls for tighter cancellation.
func NewClient(accessToken string, opts ...Option) *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 10,
		// Disable HTTP/2 to avoid stream errors with large files.
		ForceAttemptHTTP2: false,
	}

	c := &Client{
		accessToken: accessToken,
		baseURL:     defaultAPIBase,
		httpClient: &http.Client{
			Timeout:   2 * time.Minute,
			Transport: transport,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get issues one authenticated GET against url and decodes the JSON body
// into out. All failures are normalized into *APIError.
func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("create request: %v", err), Status: 0}
	}

	switch c.authScheme {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	default:
		req.Header.Set("X-Figma-Token", c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: err.Error(), Status: 0}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return newAPIError(resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("read response body: %v", err), Status: 0}
	}

	if err := json.Unmarshal(body, out); err != nil {
		// A response we cannot decode is as unusable as no response.
		return &APIError{Message: fmt.Sprintf("parse response: %v", err), Status: 0}
	}
	return nil
}

// GetFile retrieves complete file data from the Figma API including the
// document tree, flat styles, flat components, and file metadata.
func (c *Client) GetFile(ctx context.Context, fileKey string) (*FileResponse, error) {
	var fileResp FileResponse
	url := fmt.Sprintf("%s/files/%s", c.baseURL, fileKey)
	if err := c.get(ctx, url, &fileResp); err != nil {
		return nil, err
	}
	return &fileResp, nil
}

// GetStyles retrieves metadata for all published styles (colors, text,
// effects, grids) in a Figma file.
func (c *Client) GetStyles(ctx context.Context, fileKey string) (*StylesResponse, error) {
	var stylesResp StylesResponse
	url := fmt.Sprintf("%s/files/%s/styles", c.baseURL, fileKey)
	if err := c.get(ctx, url, &stylesResp); err != nil {
		return nil, err
	}
	return &stylesResp, nil
}

// GetComponents retrieves metadata for all published components in a Figma file.
func (c *Client) GetComponents(ctx context.Context, fileKey string) (*ComponentsResponse, error) {
	var compsResp ComponentsResponse
	url := fmt.Sprintf("%s/files/%s/components", c.baseURL, fileKey)
	if err := c.get(ctx, url, &compsResp); err != nil {
		return nil, err
	}
	return &compsResp, nil
}

// GetImages renders the given nodes as images and returns a mapping from
// node ID to image URL. Nodes the renderer cannot resolve map to an empty string.
func (c *Client) GetImages(ctx context.Context, fileKey string, nodeIDs []string, format string, scale float64) (*ImagesResponse, error) {
	var imgResp ImagesResponse
	url := c.ImageRequestURL(fileKey, nodeIDs, format, scale)
	if err := c.get(ctx, url, &imgResp); err != nil {
		return nil, err
	}
	if imgResp.Err != "" {
		return nil, &APIError{Message: imgResp.Err, Status: http.StatusBadRequest}
	}
	return &imgResp, nil
}

// ImageRequestURL builds the exact URL GetImages would issue for the given
// node IDs. Callers batching node IDs use it to enforce URL-length limits
// against the real request.
func (c *Client) ImageRequestURL(fileKey string, nodeIDs []string, format string, scale float64) string {
	return fmt.Sprintf("%s/images/%s?ids=%s&format=%s&scale=%g",
		c.baseURL, fileKey, strings.Join(nodeIDs, ","), format, scale)
}
