// Package titler wraps the external summarization model behind a fixed
// interface: paragraph in, title out.  The model itself is opaque — it runs
// in an inference sidecar reached over HTTP — and is always invoked with
// sampling disabled, so identical input and bounds yield identical output.
// That determinism is a contract other parts of the service rely on.
package titler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/paragraph-titler/internal/config"
)

const (
	maxRetries     = 3
	requestTimeout = 30 * time.Second
)

// ErrEmptyParagraph is returned when the input is blank after trimming.
var ErrEmptyParagraph = errors.New("paragraph cannot be empty")

// ErrInvalidRange is returned when min_length exceeds max_length.  The
// bounds are validated before the model is invoked.
var ErrInvalidRange = errors.New("min_length must not exceed max_length")

// ErrUpstream wraps every failure of the inference endpoint itself.
// Handlers translate it into a 503.
var ErrUpstream = errors.New("summarization model unavailable")

// Client calls the summarization endpoint.  One Client is created at
// process startup and shared read-only by all requests.  When the upstream
// serves the model in a single non-reentrant process, Serialize in the
// config funnels calls through mu so no two inferences are in flight at
// once.
type Client struct {
	baseURL         string
	model           string
	maxContextChars int
	serialize       bool
	httpc           *http.Client

	mu sync.Mutex
}

// NewClient builds a Client from the summarizer configuration.
func NewClient(cfg config.SummarizerConfig) *Client {
	return &Client{
		baseURL:         strings.TrimRight(cfg.URL, "/"),
		model:           cfg.Model,
		maxContextChars: cfg.MaxContextChars,
		serialize:       cfg.Serialize,
		httpc:           &http.Client{Timeout: requestTimeout},
	}
}

// Model reports the configured model name, used by the health endpoints.
func (c *Client) Model() string { return c.model }

type summarizeRequest struct {
	Text      string `json:"text"`
	Model     string `json:"model,omitempty"`
	MaxLength int    `json:"max_length"`
	MinLength int    `json:"min_length"`
	DoSample  bool   `json:"do_sample"`
}

type summarizeResponse struct {
	SummaryText string `json:"summary_text"`
}

// Generate produces a title for one paragraph.  maxLen and minLen bound
// the output token count; blank input and an inverted range fail before
// any upstream call.  Inputs longer than the model's context window are
// silently truncated — lossy, but the model would truncate them anyway.
// Transient upstream failures are retried with a linear backoff; whatever
// survives the retries is wrapped in ErrUpstream.
func (c *Client) Generate(ctx context.Context, paragraph string, maxLen, minLen int) (string, error) {
	if strings.TrimSpace(paragraph) == "" {
		return "", ErrEmptyParagraph
	}
	if minLen > maxLen {
		return "", ErrInvalidRange
	}
	if c.maxContextChars > 0 && len(paragraph) > c.maxContextChars {
		paragraph = paragraph[:c.maxContextChars]
	}

	if c.serialize {
		c.mu.Lock()
		defer c.mu.Unlock()
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		title, err := c.callModel(ctx, paragraph, maxLen, minLen)
		if err == nil {
			return title, nil
		}
		lastErr = err

		if isRetryable(err) && attempt < maxRetries {
			backoff := time.Duration(attempt) * time.Second
			select {
			case <-time.After(backoff):
				continue
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrUpstream, ctx.Err())
			}
		}
		break
	}
	return "", fmt.Errorf("%w: %v", ErrUpstream, lastErr)
}

// callModel makes a single inference call.
func (c *Client) callModel(ctx context.Context, paragraph string, maxLen, minLen int) (string, error) {
	body, err := json.Marshal(summarizeRequest{
		Text:      paragraph,
		Model:     c.model,
		MaxLength: maxLen,
		MinLength: minLen,
		DoSample:  false, // sampling off keeps output deterministic
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/summarize"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("call model at %s: %w", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model returned %d: %s", resp.StatusCode, string(respBody))
	}

	var out summarizeResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	title := strings.TrimSpace(out.SummaryText)
	if title == "" {
		return "", fmt.Errorf("empty summary in response (body: %s)", string(respBody))
	}
	return title, nil
}

// isRetryable checks if an error is transient and worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range []string{
		"timeout", "timed out", "connection refused", "connection reset",
		"no such host", "EOF", "503", "502", "504", "429", "500",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
