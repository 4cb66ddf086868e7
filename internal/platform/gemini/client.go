package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/verdantlabs/leafsense-backend/internal/domain"
	"github.com/verdantlabs/leafsense-backend/internal/pkg/httpx"
	"github.com/verdantlabs/leafsense-backend/internal/platform/envutil"
	"github.com/verdantlabs/leafsense-backend/internal/platform/logger"
)

const (
	defaultBaseURL    = "https://generativelanguage.googleapis.com"
	defaultTimeout    = 60 * time.Second
	defaultMaxRetries = 2
	maxRetryAfter     = 30 * time.Second
)

var defaultModels = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
}

type Config struct {
	APIKey     string
	BaseURL    string
	Models     []string
	Timeout    time.Duration
	MaxRetries int
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:     envutil.String("GEMINI_API_KEY", ""),
		BaseURL:    envutil.String("GEMINI_BASE_URL", defaultBaseURL),
		Models:     envutil.List("GEMINI_MODELS", defaultModels),
		Timeout:    time.Duration(envutil.Int("GEMINI_TIMEOUT_SECONDS", int(defaultTimeout/time.Second))) * time.Second,
		MaxRetries: envutil.Int("GEMINI_MAX_RETRIES", defaultMaxRetries),
	}
}

// Client talks to the generateContent API over plain HTTP. The model id is
// supplied per call so the orchestrator can walk its priority list with one
// client instance.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *logger.Logger
}

func New(cfg Config, log *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini: missing API key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if len(cfg.Models) == 0 {
		cfg.Models = defaultModels
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With("service", "gemini"),
	}, nil
}

// Models returns the configured priority list, highest preference first.
func (c *Client) Models() []string {
	out := make([]string, len(c.cfg.Models))
	copy(out, c.cfg.Models)
	return out
}

// GenerateVision sends a prompt plus one inline image and returns the raw
// text of the first candidate.
func (c *Client) GenerateVision(ctx context.Context, model, prompt string, image []byte, grounded bool) (string, error) {
	parts := []part{
		{Text: prompt},
		{InlineData: &inlineData{MIMEType: SniffImageMIME(image), Data: base64.StdEncoding.EncodeToString(image)}},
	}
	return c.generate(ctx, model, parts, grounded)
}

// GenerateText sends a text-only prompt.
func (c *Client) GenerateText(ctx context.Context, model, prompt string, grounded bool) (string, error) {
	return c.generate(ctx, model, []part{{Text: prompt}}, grounded)
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type tool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
	Tools    []tool    `json:"tools,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *Client) generate(ctx context.Context, model string, parts []part, grounded bool) (string, error) {
	reqBody := generateRequest{Contents: []content{{Parts: parts}}}
	if grounded {
		reqBody.Tools = []tool{{GoogleSearch: &struct{}{}}}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("gemini: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(c.cfg.BaseURL, "/"), model)

	backoff := time.Second
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(httpx.JitterSleep(backoff)):
			}
			backoff *= 2
		}
		text, err := c.doOnce(ctx, url, model, payload)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !httpx.IsRetryableError(err) {
			return "", err
		}
		c.log.Warn("gemini call failed, retrying", "model", model, "attempt", attempt+1, "error", err)
	}
	return "", lastErr
}

func (c *Client) doOnce(ctx context.Context, url, model string, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.ExternalServiceError{Kind: domain.Unavailable, Model: model, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", &domain.ExternalServiceError{Kind: domain.Unavailable, Model: model, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.statusError(resp, model, body)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &domain.ParseError{Reason: "malformed response envelope", Snippet: snippet(body)}
	}
	if parsed.Error != nil {
		return "", &domain.ExternalServiceError{
			Kind:       domain.Unavailable,
			StatusCode: parsed.Error.Code,
			Model:      model,
			Err:        fmt.Errorf("%s: %s", parsed.Error.Status, parsed.Error.Message),
		}
	}
	var sb strings.Builder
	for _, cand := range parsed.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		break
	}
	if sb.Len() == 0 {
		return "", &domain.ParseError{Reason: "no candidate text", Snippet: snippet(body)}
	}
	return sb.String(), nil
}

func (c *Client) statusError(resp *http.Response, model string, body []byte) error {
	kind := domain.Unavailable
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		kind = domain.RateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = domain.AuthFailure
	}
	err := &domain.ExternalServiceError{
		Kind:       kind,
		StatusCode: resp.StatusCode,
		Model:      model,
		Err:        fmt.Errorf("%s", snippet(body)),
	}
	if kind == domain.RateLimited {
		// Hint the caller how long the server asked to wait.
		err.Err = fmt.Errorf("retry after %s", httpx.RetryAfterDuration(resp, 2*time.Second, maxRetryAfter))
	}
	return err
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// SniffImageMIME detects png and webp signatures; everything else is treated
// as jpeg, matching the upload formats the pipeline accepts.
func SniffImageMIME(data []byte) string {
	if len(data) >= 8 && bytes.Equal(data[:8], []byte("\x89PNG\r\n\x1a\n")) {
		return "image/png"
	}
	if len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
		return "image/webp"
	}
	return "image/jpeg"
}
