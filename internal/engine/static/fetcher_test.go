// internal/engine/static/fetcher_test.go
package static

import (
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/law-makers/newswatch/internal/engine"
	"github.com/law-makers/newswatch/internal/proxy"
	"github.com/law-makers/newswatch/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

const testUA = "TestFetcher/1.0"

func newTestFetcher() *Fetcher {
	return New(&http.Client{Timeout: 5 * time.Second, Transport: NewTransport(nil)}, nil, nil, testUA, 0)
}

func TestFetcher_Fetch_BasicHTML(t *testing.T) {
	var gotUA, gotCustom string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCustom = r.Header.Get("X-Custom-Header")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><article><h2>Hello</h2></article></body></html>`))
	}))
	defer server.Close()

	page, err := newTestFetcher().Fetch(context.Background(), server.URL, map[string]string{"X-Custom-Header": "TestValue"})

	require.NoError(t, err)
	assert.Equal(t, 200, page.StatusCode)
	assert.Equal(t, server.URL, page.URL)
	assert.Contains(t, string(page.Body), "<h2>Hello</h2>")
	assert.Equal(t, testUA, gotUA)
	assert.Equal(t, "TestValue", gotCustom)
}

func TestFetcher_Fetch_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestFetcher().Fetch(context.Background(), server.URL, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, &engine.ScrapeError{Code: engine.ErrCodeHTTPStatus}))
	assert.Equal(t, http.StatusNotFound, engine.StatusCode(err))
}

func TestFetcher_Fetch_InvalidURL(t *testing.T) {
	for _, u := range []string{"not a url", "ftp://a.test/file", "a.test"} {
		_, err := newTestFetcher().Fetch(context.Background(), u, nil)
		require.Error(t, err, u)
		assert.ErrorIs(t, err, &engine.ScrapeError{Code: engine.ErrCodeValidation})
	}
}

func TestFetcher_Fetch_UnreachableHost(t *testing.T) {
	f := New(&http.Client{Timeout: 2 * time.Second}, nil, nil, testUA, 0)

	_, err := f.Fetch(context.Background(), "http://invalid-url-that-does-not-exist-12345.invalid", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, &engine.ScrapeError{Code: engine.ErrCodeNetworkError}))
}

func TestFetcher_Fetch_Brotli(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept-Encoding"), "br")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Encoding", "br")
		bw := brotli.NewWriter(w)
		bw.Write([]byte("<html><body>compressed launch</body></html>"))
		bw.Close()
	}))
	defer server.Close()

	page, err := newTestFetcher().Fetch(context.Background(), server.URL, nil)

	require.NoError(t, err)
	assert.Contains(t, string(page.Body), "compressed launch")
}

func TestFetcher_Fetch_Gzip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Encoding", "gzip")
		gw := gzip.NewWriter(w)
		gw.Write([]byte("<html><body>gzipped</body></html>"))
		gw.Close()
	}))
	defer server.Close()

	page, err := newTestFetcher().Fetch(context.Background(), server.URL, nil)

	require.NoError(t, err)
	assert.Contains(t, string(page.Body), "gzipped")
}

func TestFetcher_Fetch_ContentEncodingVariants(t *testing.T) {
	for _, enc := range []string{"x-gzip", "GZIP", " gzip "} {
		t.Run(enc, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.Header().Set("Content-Encoding", enc)
				gw := gzip.NewWriter(w)
				gw.Write([]byte("<html><body>gzipped</body></html>"))
				gw.Close()
			}))
			defer server.Close()

			page, err := newTestFetcher().Fetch(context.Background(), server.URL, nil)

			require.NoError(t, err)
			assert.Contains(t, string(page.Body), "gzipped")
		})
	}
}

func TestFetcher_Fetch_ShiftJIS(t *testing.T) {
	sjis, err := japanese.ShiftJIS.NewEncoder().String("<html><body><h2>新製品のお知らせ</h2></body></html>")
	require.NoError(t, err)

	t.Run("charset from header", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=Shift_JIS")
			w.Write([]byte(sjis))
		}))
		defer server.Close()

		page, err := newTestFetcher().Fetch(context.Background(), server.URL, nil)

		require.NoError(t, err)
		assert.Contains(t, string(page.Body), "新製品のお知らせ")
	})

	t.Run("charset from meta tag", func(t *testing.T) {
		body, err := japanese.ShiftJIS.NewEncoder().String(`<html><head><meta charset="Shift_JIS"></head><body><h2>新製品</h2></body></html>`)
		require.NoError(t, err)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(body))
		}))
		defer server.Close()

		page, err := newTestFetcher().Fetch(context.Background(), server.URL, nil)

		require.NoError(t, err)
		assert.Contains(t, string(page.Body), "新製品")
	})
}

func TestFetcher_Fetch_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(strings.Repeat("a", 100)))
	}))
	defer server.Close()

	f := New(&http.Client{Timeout: 5 * time.Second}, nil, nil, testUA, 10)
	page, err := f.Fetch(context.Background(), server.URL, nil)

	require.NoError(t, err)
	assert.Len(t, page.Body, 10)
}

func TestFetcher_Fetch_RateLimited(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	f := New(&http.Client{Timeout: 5 * time.Second}, ratelimit.NewDomainLimiter(0.5, 1), nil, testUA, 0)

	_, err := f.Fetch(context.Background(), server.URL, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = f.Fetch(ctx, server.URL, nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load(), "second fetch must not reach the server")
}

func TestFetcher_Fetch_ThroughProxy(t *testing.T) {
	var proxiedURL string
	proxyServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxiedURL = r.URL.String()
		w.Write([]byte("<html><body>via proxy</body></html>"))
	}))
	defer proxyServer.Close()

	pool := proxy.NewProxyPool([]string{proxyServer.URL})
	f := New(&http.Client{Timeout: 5 * time.Second, Transport: NewTransport(pool)}, nil, pool, testUA, 0)

	page, err := f.Fetch(context.Background(), "http://news.example.test/list", nil)

	require.NoError(t, err)
	assert.Contains(t, string(page.Body), "via proxy")
	assert.Equal(t, "http://news.example.test/list", proxiedURL)
}

func TestFetcher_Name(t *testing.T) {
	if name := newTestFetcher().Name(); name != "StaticFetcher" {
		t.Errorf("Expected name 'StaticFetcher', got '%s'", name)
	}
}

func TestFetcher_Fetch_ProxyHealth(t *testing.T) {
	t.Run("unreachable proxy is benched", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		deadURL := dead.URL
		dead.Close()
		live := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html></html>"))
		}))
		defer live.Close()

		pool := proxy.NewProxyPool([]string{deadURL, live.URL})
		f := New(&http.Client{Timeout: 5 * time.Second, Transport: NewTransport(pool)}, nil, pool, testUA, 0)

		_, err := f.Fetch(context.Background(), "http://news.example.test/", nil)

		require.Error(t, err)
		assert.Equal(t, live.URL, pool.GetNext())
		assert.Equal(t, live.URL, pool.GetNext(), "failed proxy is skipped")
	})

	t.Run("cancelled caller keeps the proxy healthy", func(t *testing.T) {
		slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer slow.Close()

		pool := proxy.NewProxyPool([]string{slow.URL, "http://127.0.0.1:1"})
		f := New(&http.Client{Timeout: 5 * time.Second, Transport: NewTransport(pool)}, nil, pool, testUA, 0)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := f.Fetch(ctx, "http://news.example.test/", nil)

		require.Error(t, err)
		assert.Equal(t, "http://127.0.0.1:1", pool.GetNext())
		assert.Equal(t, slow.URL, pool.GetNext(), "proxy must stay in rotation")
	})
}
