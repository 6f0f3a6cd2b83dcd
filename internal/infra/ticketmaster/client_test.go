package ticketmaster

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestLog struct {
	mu    sync.Mutex
	paths []string
}

func (l *requestLog) add(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paths = append(l.paths, path)
}

func (l *requestLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.paths...)
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *requestLog) {
	t.Helper()
	requests := &requestLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.add(r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, requests
}

func TestFetch_EmptyPayload(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, `{"groups":[],"offers":[]}`)
	c := NewClient(srv.Client(), srv.URL+"/api/v2/TM_NO/resale/")

	got, err := c.Fetch(context.Background(), "703709")
	require.NoError(t, err)
	assert.False(t, got.IsAvailable())
	assert.Equal(t, []string{"/api/v2/TM_NO/resale/703709"}, requests.all())
}

func TestFetch_AvailablePayload(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"groups":[{"id":"g1","price":450}],"offers":[{},{}]}`)
	c := NewClient(srv.Client(), srv.URL)

	got, err := c.Fetch(context.Background(), "705713")
	require.NoError(t, err)
	assert.True(t, got.IsAvailable())
	assert.Len(t, got.Groups, 1)
	assert.Len(t, got.Offers, 2)
	assert.Equal(t, "g1", got.Groups[0]["id"])
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusServiceUnavailable, "  maintenance  ")
	c := NewClient(srv.Client(), srv.URL)

	_, err := c.Fetch(context.Background(), "703709")
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.StatusServiceUnavailable, transportErr.StatusCode)
	assert.Equal(t, "maintenance", transportErr.Body)
	assert.Contains(t, err.Error(), "availability http 503")
}

func TestFetch_MalformedJSON(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `<html>not json</html>`)
	c := NewClient(srv.Client(), srv.URL)

	_, err := c.Fetch(context.Background(), "703709")
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
}

func TestFetch_MissingFields(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"groups":[]}`)
	c := NewClient(srv.Client(), srv.URL)

	_, err := c.Fetch(context.Background(), "703709")
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Contains(t, err.Error(), "missing groups or offers")
}

func TestFetch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(&http.Client{}, url)
	_, err := c.Fetch(context.Background(), "703709")
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Zero(t, transportErr.StatusCode)
	assert.Error(t, transportErr.Unwrap())
}

func TestFetch_CanceledContext(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, `{"groups":[],"offers":[]}`)
	c := NewClient(srv.Client(), srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Fetch(ctx, "703709")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, requests.all())
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(nil, "")
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, http.DefaultClient, c.httpClient)
}
