package fetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return NewClient(Options{
		Timeout:    5 * time.Second,
		MaxRetries: 3,
		RatePerSec: 1000,
		RateBurst:  1000,
	})
}

func TestGetJSON_ParamsAndHeaders(t *testing.T) {
	var gotQuery url.Values
	var gotHeader http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotHeader = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"address":"1 A St"}]}`))
	}))
	defer srv.Close()

	c := newTestClient()
	params := url.Values{}
	params.Set("zip", "78701")
	params.Set("limit", "100")

	payload, err := c.GetJSON(context.Background(), srv.URL+"/search", params, map[string]string{"apikey": "secret"})
	require.NoError(t, err)

	assert.Equal(t, "78701", gotQuery.Get("zip"))
	assert.Equal(t, "100", gotQuery.Get("limit"))
	assert.Equal(t, "secret", gotHeader.Get("apikey"))
	assert.Equal(t, "application/json", gotHeader.Get("Accept"))
	assert.NotEmpty(t, gotHeader.Get("User-Agent"))

	dict, ok := payload.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, dict, "results")
}

func TestGetJSON_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient()
	payload, err := c.GetJSON(context.Background(), srv.URL, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())

	dict := payload.(map[string]any)
	assert.Equal(t, true, dict["ok"])
}

func TestGetJSON_ExhaustedRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Options{MaxRetries: 2, RatePerSec: 1000, RateBurst: 1000})
	_, err := c.GetJSON(context.Background(), srv.URL, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retries exhausted")
}

func TestGetJSON_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"bad key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient()
	_, err := c.GetJSON(context.Background(), srv.URL, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, int32(1), calls.Load())
}

func TestPostJSON_SendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "78701", body["zip"])
		w.Write([]byte(`{"accepted":true}`))
	}))
	defer srv.Close()

	c := newTestClient()
	payload, err := c.PostJSON(context.Background(), srv.URL, map[string]string{"zip": "78701"}, nil)
	require.NoError(t, err)
	dict := payload.(map[string]any)
	assert.Equal(t, true, dict["accepted"])
}

func TestGetJSON_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"truncated`))
	}))
	defer srv.Close()

	c := newTestClient()
	_, err := c.GetJSON(context.Background(), srv.URL, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
