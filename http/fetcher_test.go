package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/tramit"
	tramithttp "github.com/fwojciec/tramit/http"
	"github.com/fwojciec/tramit/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns body and status from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		fetcher := tramithttp.NewFetcher()

		result, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html><body>Hello World</body></html>", string(result.Body))
		assert.Equal(t, http.StatusOK, result.StatusCode)
		assert.Equal(t, server.URL, result.URL)
	})

	t.Run("sends browser-like headers", func(t *testing.T) {
		t.Parallel()

		var got http.Header
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Clone()
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		_, err := tramithttp.NewFetcher().Fetch(context.Background(), server.URL)
		require.NoError(t, err)

		assert.Contains(t, got.Get("User-Agent"), "Mozilla/5.0")
		assert.Contains(t, got.Get("Accept"), "text/html")
		assert.Equal(t, "es-ES,es;q=0.9,en;q=0.8", got.Get("Accept-Language"))
		assert.Equal(t, "1", got.Get("DNT"))
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		// Use a very short timeout that will expire before server responds
		fetcher := tramithttp.NewFetcher(tramithttp.WithTimeout(10 * time.Millisecond))

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, tramit.EUNAVAILABLE, tramit.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := tramithttp.NewFetcher()

		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		_, err := fetcher.Fetch(ctx, server.URL)
		require.Error(t, err)
	})

	t.Run("returns error for non-existent host", func(t *testing.T) {
		t.Parallel()

		fetcher := tramithttp.NewFetcher(tramithttp.WithTimeout(100 * time.Millisecond))

		_, err := fetcher.Fetch(context.Background(), "http://non-existent-host.invalid/page")
		require.Error(t, err)
		assert.Equal(t, tramit.EUNAVAILABLE, tramit.ErrorCode(err))
	})

	t.Run("returns error for non-2xx status codes", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("down for maintenance"))
		}))
		defer server.Close()

		_, err := tramithttp.NewFetcher().Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, tramit.EUNAVAILABLE, tramit.ErrorCode(err))
		assert.Contains(t, tramit.ErrorMessage(err), "503")
	})

	t.Run("accepts any 2xx status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte("queued"))
		}))
		defer server.Close()

		result, err := tramithttp.NewFetcher().Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, http.StatusAccepted, result.StatusCode)
	})

	t.Run("returns EINVALID for URL without host", func(t *testing.T) {
		t.Parallel()

		_, err := tramithttp.NewFetcher().Fetch(context.Background(), "not a url")
		assert.Equal(t, tramit.EINVALID, tramit.ErrorCode(err))
	})

	t.Run("does not retry by default", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := tramithttp.NewFetcher().Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("retries server errors with configured delays", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("recovered"))
		}))
		defer server.Close()

		fetcher := tramithttp.NewFetcher(tramithttp.WithRetryDelays([]time.Duration{time.Millisecond, time.Millisecond}))

		result, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "recovered", string(result.Body))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		fetcher := tramithttp.NewFetcher(tramithttp.WithRetryDelays([]time.Duration{time.Millisecond}))

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Contains(t, tramit.ErrorMessage(err), "404")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("waits on limiter with request host", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		var domains []string
		limiter := &mock.DomainLimiter{
			WaitFn: func(ctx context.Context, domain string) error {
				domains = append(domains, domain)
				return nil
			},
		}

		_, err := tramithttp.NewFetcher(tramithttp.WithLimiter(limiter)).Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		require.Len(t, domains, 1)
		assert.Equal(t, server.Listener.Addr().String(), domains[0])
	})

	t.Run("returns limiter error without requesting", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))
		defer server.Close()

		limiter := &mock.DomainLimiter{
			WaitFn: func(ctx context.Context, domain string) error {
				return context.Canceled
			},
		}

		_, err := tramithttp.NewFetcher(tramithttp.WithLimiter(limiter)).Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, int32(0), calls.Load())
	})
}

func TestDefaultRetryDelays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, tramithttp.DefaultRetryDelays())
}

// Compile-time verification that Fetcher implements tramit.Fetcher
var _ tramit.Fetcher = (*tramithttp.Fetcher)(nil)
