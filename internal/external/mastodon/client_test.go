package mastodon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_PostStatus(t *testing.T) {
	var (
		gotPath    string
		gotHeaders http.Header
		gotStatus  string
		gotVis     string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		_ = r.ParseForm()
		gotStatus = r.PostForm.Get("status")
		gotVis = r.PostForm.Get("visibility")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}))
	defer server.Close()

	client := NewClient(Config{HostInstance: server.URL + "/", AccessToken: "secret"}, server.Client(), zap.NewNop())

	resp, err := client.PostStatus(context.Background(), Status{Text: "hello & bye", IdempotencyKey: "123"})
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.Equal(t, `{"id":"1"}`, resp.Body)
	assert.Equal(t, "/api/v1/statuses", gotPath)
	assert.Equal(t, "Bearer secret", gotHeaders.Get("Authorization"))
	assert.Equal(t, "123", gotHeaders.Get("Idempotency-Key"))
	assert.Equal(t, "application/x-www-form-urlencoded", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "hello & bye", gotStatus)
	assert.Equal(t, VisibilityPublic, gotVis)

	metrics := client.GetMetrics()
	assert.EqualValues(t, 1, metrics["total_requests"])
	assert.EqualValues(t, 1, metrics["successful_requests"])
}

func TestClient_PostStatusRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"Validation failed: Text can't be blank"}`))
	}))
	defer server.Close()

	client := NewClient(Config{HostInstance: server.URL, AccessToken: "secret"}, nil, zap.NewNop())

	resp, err := client.PostStatus(context.Background(), Status{Text: ""})
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, resp.Body, "Validation failed")
	assert.EqualValues(t, 1, client.GetMetrics()["failed_requests"])
}

func TestClient_PostStatusTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(Config{HostInstance: url, AccessToken: "secret"}, nil, zap.NewNop())

	_, err := client.PostStatus(context.Background(), Status{Text: "x"})
	assert.Error(t, err)
}
