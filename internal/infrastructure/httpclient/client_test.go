package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_DefaultTimeout(t *testing.T) {
	client := New(Config{}, zap.NewNop())
	assert.Equal(t, 30*time.Second, client.Client().Timeout)
	assert.NotNil(t, client.Transport())
}

func TestHeaderTransport(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := &http.Client{Transport: &HeaderTransport{
		Base: New(Config{Timeout: time.Second}, zap.NewNop()).Transport(),
		Headers: map[string]string{
			"DNT":        "1",
			"User-Agent": "tweettoot-test",
			"X-Empty":    "",
		},
	}}

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "1", got.Get("DNT"))
	assert.Equal(t, "tweettoot-test", got.Get("User-Agent"))
	assert.Empty(t, got.Values("X-Empty"))
	assert.Empty(t, req.Header.Get("DNT"), "original request must not be mutated")
}
