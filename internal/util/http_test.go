package util

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientInjectsHeaders(t *testing.T) {
	var referer, ua, cookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("Referer")
		ua = r.Header.Get("User-Agent")
		cookie = r.Header.Get("Cookie")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c, err := NewHTTPClient(HTTPClientOptions{
		Timeout: time.Second,
		Referer: "https://site.test/",
		Cookie:  "a=1",
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "caller")
	req.Header.Set("Referer", "https://elsewhere.test/")

	resp, err := c.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "https://site.test/", referer)
	assert.Equal(t, DefaultUserAgent, ua)
	assert.Equal(t, "a=1", cookie)
	assert.Equal(t, "caller", req.Header.Get("User-Agent"), "caller's request must not be modified")
}

func TestGetStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := NewHTTPClient(HTTPClientOptions{Timeout: time.Second})
	require.NoError(t, err)

	_, err = Get(context.Background(), c, srv.URL+"/x")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	assert.Equal(t, srv.URL+"/x", se.URL)
}

func TestGetDoesNotRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewHTTPClient(HTTPClientOptions{Timeout: time.Second})
	require.NoError(t, err)

	_, err = Get(context.Background(), c, srv.URL)
	assert.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c, err := NewHTTPClient(HTTPClientOptions{Timeout: time.Second, RequestsPerSecond: 20})
	require.NoError(t, err)

	start := time.Now()
	for i := 0; i < 5; i++ {
		_, err := Get(context.Background(), c, srv.URL)
		require.NoError(t, err)
	}

	// burst of one: four waits of 50ms after the first request
	assert.GreaterOrEqual(t, time.Since(start), 190*time.Millisecond)
}

func TestRateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c, err := NewHTTPClient(HTTPClientOptions{Timeout: 5 * time.Second, RequestsPerSecond: 0.1})
	require.NoError(t, err)

	_, err = Get(context.Background(), c, srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = Get(ctx, c, srv.URL)
	assert.Error(t, err)
}
