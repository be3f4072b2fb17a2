package titler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/paragraph-titler/internal/config"
)

// fakeModel serves a deterministic stand-in for the inference sidecar: the
// "summary" is the first three words of the input.  It records every
// request body so tests can assert on what the client actually sent.
type fakeModel struct {
	mu       sync.Mutex
	requests []summarizeRequest
}

func (f *fakeModel) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req summarizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.requests = append(f.requests, req)
		f.mu.Unlock()

		words := strings.Fields(req.Text)
		if len(words) > 3 {
			words = words[:3]
		}
		_ = json.NewEncoder(w).Encode(summarizeResponse{
			SummaryText: strings.Join(words, " "),
		})
	}
}

func newTestClient(url string, maxContext int) *Client {
	return NewClient(config.SummarizerConfig{
		URL:             url,
		Model:           "test-model",
		MaxContextChars: maxContext,
	})
}

func TestGenerateDeterministic(t *testing.T) {
	model := &fakeModel{}
	srv := httptest.NewServer(model.handler())
	defer srv.Close()

	c := newTestClient(srv.URL, 4096)

	first, err := c.Generate(context.Background(), "alpha beta gamma delta epsilon", 15, 5)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := c.Generate(context.Background(), "alpha beta gamma delta epsilon", 15, 5)
		require.NoError(t, err)
		assert.Equal(t, first, again, "identical input must yield byte-identical titles")
	}
}

func TestGenerateSendsDeterministicPayload(t *testing.T) {
	model := &fakeModel{}
	srv := httptest.NewServer(model.handler())
	defer srv.Close()

	c := newTestClient(srv.URL, 4096)
	_, err := c.Generate(context.Background(), "some paragraph text", 12, 4)
	require.NoError(t, err)

	require.Len(t, model.requests, 1)
	req := model.requests[0]
	assert.False(t, req.DoSample, "sampling must be disabled")
	assert.Equal(t, 12, req.MaxLength)
	assert.Equal(t, 4, req.MinLength)
	assert.Equal(t, "test-model", req.Model)
}

func TestGenerateEmptyParagraph(t *testing.T) {
	model := &fakeModel{}
	srv := httptest.NewServer(model.handler())
	defer srv.Close()

	c := newTestClient(srv.URL, 4096)
	for _, input := range []string{"", "   ", "\t\n"} {
		_, err := c.Generate(context.Background(), input, 15, 5)
		assert.ErrorIs(t, err, ErrEmptyParagraph)
	}
	assert.Empty(t, model.requests, "blank input must not reach the model")
}

func TestGenerateInvalidRange(t *testing.T) {
	model := &fakeModel{}
	srv := httptest.NewServer(model.handler())
	defer srv.Close()

	c := newTestClient(srv.URL, 4096)
	_, err := c.Generate(context.Background(), "some text", 5, 10)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Empty(t, model.requests)
}

func TestGenerateTruncatesLongInput(t *testing.T) {
	model := &fakeModel{}
	srv := httptest.NewServer(model.handler())
	defer srv.Close()

	c := newTestClient(srv.URL, 20)
	long := strings.Repeat("abcde ", 100)
	_, err := c.Generate(context.Background(), long, 15, 5)
	require.NoError(t, err)

	require.Len(t, model.requests, 1)
	assert.Len(t, model.requests[0].Text, 20, "input must be cut to the context window")
}

func TestGenerateUpstreamFailure(t *testing.T) {
	// A 400 is not retryable, so the client fails fast with ErrUpstream.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad model input", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 4096)
	_, err := c.Generate(context.Background(), "some text", 15, 5)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestGenerateRetriesTransientFailure(t *testing.T) {
	var calls int
	var mu sync.Mutex
	model := &fakeModel{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		model.handler()(w, r)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 4096)
	title, err := c.Generate(context.Background(), "alpha beta gamma delta", 15, 5)
	require.NoError(t, err)
	assert.Equal(t, "alpha beta gamma", title)
	assert.GreaterOrEqual(t, calls, 2)
}

func TestCachedClientPassThroughWithoutRedis(t *testing.T) {
	model := &fakeModel{}
	srv := httptest.NewServer(model.handler())
	defer srv.Close()

	c := NewCachedClient(newTestClient(srv.URL, 4096), nil, 0)
	title, err := c.Generate(context.Background(), "alpha beta gamma delta", 15, 5)
	require.NoError(t, err)
	assert.Equal(t, "alpha beta gamma", title)
	assert.Equal(t, "test-model", c.Model())
}

func TestTitleCacheKeyStable(t *testing.T) {
	k1 := titleCacheKey("same paragraph", 15, 5)
	k2 := titleCacheKey("same paragraph", 15, 5)
	assert.Equal(t, k1, k2)

	// Different bounds must miss each other's entries.
	assert.NotEqual(t, k1, titleCacheKey("same paragraph", 16, 5))
	assert.NotEqual(t, k1, titleCacheKey("other paragraph", 15, 5))
}
