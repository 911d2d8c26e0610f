package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(retries int) HTTPClientConfig {
	return HTTPClientConfig{
		Client: &http.Client{Timeout: 2 * time.Second},
		Backoff: BackoffConfig{
			MaxRetries:      retries,
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
		},
		UserAgent: "test-agent",
	}
}

func TestGetJSONDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		w.Write([]byte(`{"value": 42}`))
	}))
	defer srv.Close()

	var out struct {
		Value int `json:"value"`
	}
	h := http.Header{}
	h.Set("Authorization", "Bearer abc")
	err := GetJSON(context.Background(), testConfig(0), NewBreaker("t1"), srv.URL, h, &out)
	require.NoError(t, err)
	assert.Equal(t, 42, out.Value)
}

func TestDoRequestSingleAttemptByDefault(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var out map[string]interface{}
	err := GetJSON(context.Background(), testConfig(0), NewBreaker("t2"), srv.URL, nil, &out)
	require.ErrorIs(t, err, ErrServerError)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDoRequestRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var out map[string]interface{}
	err := GetJSON(context.Background(), testConfig(3), NewBreaker("t3"), srv.URL, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoRequestDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	var out map[string]interface{}
	err := GetJSON(context.Background(), testConfig(3), NewBreaker("t4"), srv.URL, nil, &out)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, StatusCode(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestBreakerIgnoresRejectedRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	cb := NewBreaker("t5")
	var out map[string]interface{}
	for i := 0; i < 10; i++ {
		err := GetJSON(context.Background(), testConfig(0), cb, srv.URL+"/bad", nil, &out)
		require.Equal(t, http.StatusBadRequest, StatusCode(err))
	}

	require.NoError(t, GetJSON(context.Background(), testConfig(0), cb, srv.URL+"/ok", nil, &out))
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cb := NewBreaker("t6")
	var out map[string]interface{}
	for i := 0; i < 6; i++ {
		_ = GetJSON(context.Background(), testConfig(0), cb, srv.URL, nil, &out)
	}

	err := GetJSON(context.Background(), testConfig(0), cb, srv.URL, nil, &out)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestUpstreamHealthy(t *testing.T) {
	assert.True(t, upstreamHealthy(nil))
	assert.True(t, upstreamHealthy(context.Canceled))
	assert.True(t, upstreamHealthy(&StatusError{Code: http.StatusNotFound}))
	assert.False(t, upstreamHealthy(ErrServerError))
	assert.False(t, upstreamHealthy(ErrRateLimited))
	assert.False(t, upstreamHealthy(context.DeadlineExceeded))
}

func TestHasAny(t *testing.T) {
	assert.True(t, HasAny("Partly Cloudy", "cloud"))
	assert.True(t, HasAny("RAIN SHOWERS", "drizzle", "shower"))
	assert.False(t, HasAny("Clear", "rain", "snow"))
	assert.False(t, HasAny("", "x"))
}
