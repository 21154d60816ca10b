// Package figma is the remote source adapter: it fetches component
// definitions and exports from the design tool and exposes the
// brand -> icon-list view the synchronizer reconciles against. Every call
// goes through one rate limiter and one retry policy.
package figma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/glyphkit/glyphkit/pkg/config"
	"github.com/glyphkit/glyphkit/pkg/errors"
	"github.com/glyphkit/glyphkit/pkg/logging"
	"github.com/glyphkit/glyphkit/pkg/svg"
)

// Export formats accepted by the remote API.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatJPG = "jpg"
	FormatPDF = "pdf"
)

var exportFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatJPG: true,
	FormatPDF: true,
}

var fileKeyPattern = regexp.MustCompile(`^[A-Za-z0-9]{22}$`)

// ValidateFileKey fails fast before any network call when the key does not
// match the fixed 22-character alphanumeric format.
func ValidateFileKey(key string) error {
	if !fileKeyPattern.MatchString(key) {
		return errors.Newf(errors.ErrInvalidFileKey, "file key %q must be 22 alphanumeric characters", key)
	}
	return nil
}

// Client talks to the remote design-tool API.
type Client struct {
	cfg  *config.Config
	http *http.Client
	log  zerolog.Logger

	// rate limiter: one request per MinRequestInterval across all calls
	mu   sync.Mutex
	last time.Time

	// backoff base, shrunk in tests
	backoffBase time.Duration
}

// NewClient builds a client from the process configuration. The fixed
// per-call timeout lives on the underlying http.Client.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg:         cfg,
		http:        &http.Client{Timeout: cfg.RequestTimeout},
		log:         logging.GetLogger("figma"),
		backoffBase: 500 * time.Millisecond,
	}
}

// waitTurn blocks until the minimum inter-request interval has elapsed.
// The wait is recomputed under the lock after every sleep: a concurrent
// caller may have claimed the slot in the meantime, so each caller loops
// until the interval has truly elapsed for it.
func (c *Client) waitTurn(ctx context.Context) error {
	for {
		c.mu.Lock()
		wait := c.cfg.MinRequestInterval() - time.Since(c.last)
		if wait <= 0 {
			c.last = time.Now()
			c.mu.Unlock()
			return nil
		}
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// retryable reports whether a failed attempt should be retried. Only
// transient failures (network, rate, 5xx) qualify; authentication and
// other client-side rejections propagate immediately.
func retryable(err error) bool {
	return errors.IsErrorCode(err, errors.ErrRemoteProtocol) ||
		errors.IsErrorCode(err, errors.ErrRateLimited)
}

// do performs one rate-limited, retried GET and returns the response body.
// authed controls whether the access token header is attached; transient
// download URLs are fetched without it.
func (c *Client) do(ctx context.Context, rawURL string, authed bool) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if err := c.waitTurn(ctx); err != nil {
			return nil, errors.Wrap(err, errors.ErrRemoteProtocol, "request cancelled")
		}

		body, err := c.doOnce(ctx, rawURL, authed)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !retryable(err) || ctx.Err() != nil {
			return nil, err
		}
		if attempt < c.cfg.MaxRetries {
			wait := c.backoffBase * (1 << uint(attempt))
			c.log.Warn().
				Int("attempt", attempt+1).
				Int("maxRetries", c.cfg.MaxRetries).
				Dur("backoff", wait).
				Err(err).
				Msg("Retrying remote call")
			select {
			case <-ctx.Done():
				return nil, lastErr
			case <-time.After(wait):
			}
		}
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, rawURL string, authed bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrRemoteProtocol, "cannot build request")
	}
	if authed {
		req.Header.Set("X-Figma-Token", c.cfg.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrRemoteProtocol, "network error")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, errors.Newf(errors.ErrUnauthorized, "remote rejected credentials (HTTP %d)", resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errors.New(errors.ErrRateLimited, "remote rate limit hit")
	case resp.StatusCode >= 500:
		return nil, errors.Newf(errors.ErrRemoteProtocol, "remote server error (HTTP %d)", resp.StatusCode)
	case resp.StatusCode >= 400:
		// Non-auth 4xx is a caller mistake, not transient: never retried.
		return nil, errors.Newf(errors.ErrInvalidInput, "remote rejected request (HTTP %d)", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrRemoteProtocol, "cannot read response body")
	}
	return body, nil
}

// FetchFileModel retrieves the document tree and component index.
func (c *Client) FetchFileModel(ctx context.Context, fileKey string) (*File, error) {
	if err := ValidateFileKey(fileKey); err != nil {
		return nil, err
	}
	body, err := c.do(ctx, fmt.Sprintf("%s/files/%s", c.cfg.BaseURL, fileKey), true)
	if err != nil {
		return nil, err
	}
	var file File
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, errors.Wrap(err, errors.ErrRemoteProtocol, "cannot decode file model")
	}
	return &file, nil
}

// FetchComponents retrieves the published component listing for the file.
func (c *Client) FetchComponents(ctx context.Context, fileKey string) (map[string]Component, error) {
	if err := ValidateFileKey(fileKey); err != nil {
		return nil, err
	}
	body, err := c.do(ctx, fmt.Sprintf("%s/files/%s/components", c.cfg.BaseURL, fileKey), true)
	if err != nil {
		return nil, err
	}
	var meta componentMeta
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, errors.Wrap(err, errors.ErrRemoteProtocol, "cannot decode component listing")
	}
	components := make(map[string]Component, len(meta.Meta.Components))
	for _, comp := range meta.Meta.Components {
		components[comp.NodeID] = Component{Name: comp.Name, Description: comp.Description}
	}
	return components, nil
}

// ExportAsImages requests a batch export of nodeIDs in the given format and
// returns a map from node id to a time-limited download URL.
func (c *Client) ExportAsImages(ctx context.Context, fileKey string, nodeIDs []string, format string) (map[string]string, error) {
	if err := ValidateFileKey(fileKey); err != nil {
		return nil, err
	}
	if !exportFormats[format] {
		return nil, errors.Newf(errors.ErrInvalidFormat, "unsupported export format %q", format)
	}
	if len(nodeIDs) == 0 {
		return map[string]string{}, nil
	}

	q := url.Values{}
	q.Set("ids", strings.Join(nodeIDs, ","))
	q.Set("format", format)
	body, err := c.do(ctx, fmt.Sprintf("%s/images/%s?%s", c.cfg.BaseURL, fileKey, q.Encode()), true)
	if err != nil {
		return nil, err
	}

	var resp imagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, errors.ErrRemoteProtocol, "cannot decode export response")
	}
	if resp.Err != "" {
		return nil, errors.Newf(errors.ErrRemoteProtocol, "export failed: %s", resp.Err)
	}
	return resp.Images, nil
}

// DownloadAsset fetches a transient export URL and sniffs the content. For
// the vector format the body must be a well-formed svg document.
func (c *Client) DownloadAsset(ctx context.Context, rawURL, format string) ([]byte, error) {
	body, err := c.do(ctx, rawURL, false)
	if err != nil {
		return nil, err
	}
	if format == FormatSVG {
		if err := svg.Validate(body); err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidAssetContent, "downloaded asset is not a vector document").
				WithDetail("url", rawURL)
		}
	}
	return body, nil
}
