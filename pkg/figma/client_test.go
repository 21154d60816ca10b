// Test Type: Unit Test
// Description: Tests for the figma package - file key validation, retry
// policy, export and download against a local HTTP server

package figma

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphkit/glyphkit/pkg/config"
	"github.com/glyphkit/glyphkit/pkg/errors"
)

const testFileKey = "abcdefghij0123456789AB"

func testClient(baseURL string) *Client {
	c := NewClient(&config.Config{
		BaseURL:           baseURL,
		AccessToken:       "figd_test",
		RequestsPerMinute: 600000, // effectively no pacing in tests
		MaxRetries:        2,
		RequestTimeout:    5 * time.Second,
		PageTraversal:     TraversalFlat,
	})
	c.backoffBase = time.Millisecond
	return c
}

func TestValidateFileKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid", testFileKey, false},
		{"too_short", "abc123", true},
		{"too_long", testFileKey + "x", true},
		{"non_alphanumeric", "abcdefghij0123456789-B", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileKey(tt.key)
			if tt.wantErr {
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidFileKey))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFetchFileModelRejectsBadKeyBeforeNetwork(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchFileModel(context.Background(), "not-a-key")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidFileKey))
	assert.Zero(t, hits.Load())
}

func TestFetchFileModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "figd_test", r.Header.Get("X-Figma-Token"))
		assert.Equal(t, "/files/"+testFileKey, r.URL.Path)
		fmt.Fprint(w, `{
			"name": "Icons",
			"document": {"id": "0:0", "name": "Document", "type": "DOCUMENT",
				"children": [{"id": "1:1", "name": "Global", "type": "CANVAS"}]},
			"components": {"2:1": {"key": "k", "name": "hamburger", "description": "menu"}}
		}`)
	}))
	defer srv.Close()

	file, err := testClient(srv.URL).FetchFileModel(context.Background(), testFileKey)
	require.NoError(t, err)
	assert.Equal(t, "Icons", file.Name)
	require.Len(t, file.Document.Children, 1)
	assert.Equal(t, "CANVAS", file.Document.Children[0].Type)
	assert.Equal(t, "hamburger", file.Components["2:1"].Name)
}

func TestAuthFailureIsNeverRetried(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchFileModel(context.Background(), testFileKey)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnauthorized))
	assert.Equal(t, int64(1), hits.Load())
}

func TestServerErrorsAreRetriedWithCeiling(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchFileModel(context.Background(), testFileKey)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRemoteProtocol))
	// MaxRetries=2 means 3 attempts total.
	assert.Equal(t, int64(3), hits.Load())
}

func TestTransientErrorRecovers(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"name": "Icons", "document": {"id": "0:0"}, "components": {}}`)
	}))
	defer srv.Close()

	file, err := testClient(srv.URL).FetchFileModel(context.Background(), testFileKey)
	require.NoError(t, err)
	assert.Equal(t, "Icons", file.Name)
	assert.Equal(t, int64(2), hits.Load())
}

func TestFetchComponents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/"+testFileKey+"/components", r.URL.Path)
		fmt.Fprint(w, `{"meta": {"components": [
			{"node_id": "2:1", "name": "hamburger", "description": "menu"},
			{"node_id": "2:2", "name": "ice-cream", "description": ""}
		]}}`)
	}))
	defer srv.Close()

	components, err := testClient(srv.URL).FetchComponents(context.Background(), testFileKey)
	require.NoError(t, err)
	require.Len(t, components, 2)
	assert.Equal(t, "menu", components["2:1"].Description)
}

func TestExportAsImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/"+testFileKey, r.URL.Path)
		assert.Equal(t, "2:1,2:2", r.URL.Query().Get("ids"))
		assert.Equal(t, "svg", r.URL.Query().Get("format"))
		fmt.Fprint(w, `{"images": {"2:1": "http://cdn/a.svg", "2:2": "http://cdn/b.svg"}}`)
	}))
	defer srv.Close()

	urls, err := testClient(srv.URL).ExportAsImages(context.Background(), testFileKey, []string{"2:1", "2:2"}, FormatSVG)
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/a.svg", urls["2:1"])
	assert.Equal(t, "http://cdn/b.svg", urls["2:2"])
}

func TestExportAsImagesRejectsUnknownFormat(t *testing.T) {
	_, err := testClient("http://unused").ExportAsImages(context.Background(), testFileKey, []string{"1:1"}, "bmp")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidFormat))
}

func TestExportAsImagesEmptyBatch(t *testing.T) {
	urls, err := testClient("http://unused").ExportAsImages(context.Background(), testFileKey, nil, FormatSVG)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestExportAsImagesSurfacesRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"err": "node not found", "images": {}}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ExportAsImages(context.Background(), testFileKey, []string{"9:9"}, FormatSVG)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRemoteProtocol))
}

func TestDownloadAssetSniffsVectorContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good.svg":
			fmt.Fprint(w, `<svg viewBox="0 0 24 24"><path d="M0 0"/></svg>`)
		default:
			fmt.Fprint(w, "definitely not svg")
		}
	}))
	defer srv.Close()

	client := testClient(srv.URL)

	content, err := client.DownloadAsset(context.Background(), srv.URL+"/good.svg", FormatSVG)
	require.NoError(t, err)
	assert.Contains(t, string(content), "<svg")

	_, err = client.DownloadAsset(context.Background(), srv.URL+"/bad.svg", FormatSVG)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidAssetContent))

	// Raster downloads are not sniffed as XML.
	_, err = client.DownloadAsset(context.Background(), srv.URL+"/bad.svg", FormatPNG)
	assert.NoError(t, err)
}

func TestRateLimiterSpacesRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"images": {}}`)
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	client.cfg.RequestsPerMinute = 1200 // 50ms between requests

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.ExportAsImages(context.Background(), testFileKey, []string{"1:1"}, FormatSVG)
		require.NoError(t, err)
	}
	// Three requests with a 50ms floor between them take at least 100ms.
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestRateLimiterSpacesConcurrentRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"images": {}}`)
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	client.cfg.RequestsPerMinute = 1200 // 50ms between requests

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.ExportAsImages(context.Background(), testFileKey, []string{"1:1"}, FormatSVG)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Concurrent callers still honor the floor: the limiter hands out one
	// slot per interval, never two back-to-back.
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}
