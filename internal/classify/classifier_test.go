package classify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energysink-engine/internal/logger"
)

func TestHTMLToText(t *testing.T) {
	in := `<html><body>
<h1>Data Entry</h1>
<script>alert(1)</script>
<p>Work   from
home</p>
</body></html>`
	assert.Equal(t, "Data Entry Work from home", HTMLToText(in))
	assert.Equal(t, "plain text stays", HTMLToText("plain   text  stays"))
}

func TestAssess_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"authenticity": 85.5, "ghost_likelihood": 10}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 100, logger.Nop())
	a, ok := c.Assess(context.Background(), "Backend Engineer", "some text")
	require.True(t, ok)
	assert.Equal(t, 85.5, a.Authenticity)
	assert.Equal(t, 10.0, a.GhostLikelihood)
}

func TestAssess_SoftFailures(t *testing.T) {
	// non-200
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 100, logger.Nop())
	_, ok := c.Assess(context.Background(), "t", "x")
	assert.False(t, ok)

	// unreachable endpoint
	c = NewClient("http://127.0.0.1:1", 200*time.Millisecond, 100, logger.Nop())
	_, ok = c.Assess(context.Background(), "t", "x")
	assert.False(t, ok)

	// unconfigured client
	var nilClient *Client
	_, ok = nilClient.Assess(context.Background(), "t", "x")
	assert.False(t, ok)
}
