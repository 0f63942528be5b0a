package httpjson

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ideabot/internal/core/domain"
)

func TestClient_PostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Key"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "ping", in["msg"])

		_, _ = w.Write([]byte(`{"msg":"pong"}`))
	}))
	defer server.Close()

	c := New("test", time.Second, map[string]string{"X-Key": "secret"})

	var out map[string]string
	err := c.PostJSON(context.Background(), server.URL, map[string]string{"msg": "ping"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "pong", out["msg"])
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		rateLimited bool
	}{
		{"unauthorised", http.StatusUnauthorized, false},
		{"throttled", http.StatusTooManyRequests, true},
		{"server error", http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			}))
			defer server.Close()

			err := New("test", time.Second, nil).PostJSON(context.Background(), server.URL, struct{}{}, nil)

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.Code)
			assert.Contains(t, err.Error(), "nope")
			assert.Equal(t, tt.rateLimited, errors.Is(err, domain.ErrRateLimited))
		})
	}
}

func TestClient_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	var out map[string]any
	err := New("test", time.Second, nil).PostJSON(context.Background(), server.URL, struct{}{}, &out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok" {
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := New("test", time.Second, nil)

	assert.NoError(t, c.Get(context.Background(), server.URL+"/ok"))
	err := c.Get(context.Background(), server.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test: ping failed")
}

type headerTransport struct{}

func (headerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("X-Signed", "yes")
	return http.DefaultTransport.RoundTrip(r)
}

func TestClient_NewWithTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Signed") != "yes" {
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	c := NewWithTransport("test", time.Second, nil, headerTransport{})

	assert.NoError(t, c.Get(context.Background(), server.URL))
	assert.Error(t, New("test", time.Second, nil).Get(context.Background(), server.URL))
}

func TestClient_SendErrorHidesQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := server.URL
	server.Close()

	err := New("test", time.Second, nil).PostJSON(context.Background(), addr+"/generate?key=secret", struct{}{}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "send request")
	assert.Contains(t, err.Error(), "/generate")
	assert.NotContains(t, err.Error(), "secret")
}
