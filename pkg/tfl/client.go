package tfl

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

const defaultBaseURL = "https://api.tfl.gov.uk"

// APIError is a failed TfL API call: a transport problem, a bad status, or
// an undecodable body.
type APIError struct {
	StatusCode int
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("TfL API error for %s: %s", e.Path, e.Message)
	}

	return fmt.Sprintf("TfL API error %d for %s: %s", e.StatusCode, e.Path, e.Message)
}

// Client talks to the TfL Unified API with app_key/app_id credentials
// injected as query parameters.
type Client struct {
	BaseURL string

	apiKey     string
	appID      string
	httpClient *http.Client
}

// NewClientFromEnvironment builds a client from TFL_API_KEY and the optional
// TFL_APP_ID.
func NewClientFromEnvironment(env map[string]string) (*Client, error) {
	apiKey := strings.TrimSpace(env["TFL_API_KEY"])
	if apiKey == "" {
		return nil, fmt.Errorf("TFL_API_KEY is not set. Run `tube-timing env` for help")
	}

	return &Client{
		BaseURL:    defaultBaseURL,
		apiKey:     apiKey,
		appID:      strings.TrimSpace(env["TFL_APP_ID"]),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (c *Client) get(path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("app_key", c.apiKey)
	if c.appID != "" {
		params.Set("app_id", c.appID)
	}

	requestURL := fmt.Sprintf("%s%s?%s", c.BaseURL, path, params.Encode())

	var responseBytes []byte

	operation := func() error {
		req, err := http.NewRequest("GET", requestURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		// TfL sits behind Cloudflare and rejects requests with no user agent
		req.Header.Set("User-Agent", "tube-timing/0.1")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode >= 400 {
			apiError := &APIError{
				StatusCode: resp.StatusCode,
				Path:       path,
				Message:    strings.TrimSpace(string(body)),
			}

			// Retry server-side wobbles, fail fast on everything else
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return apiError
			}
			return backoff.Permanent(apiError)
		}

		responseBytes = body
		return nil
	}

	retryPolicy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)
	if err := backoff.RetryNotify(operation, retryPolicy, func(err error, wait time.Duration) {
		log.Debug().Err(err).Str("path", path).Dur("wait", wait).Msg("Retrying TfL API request")
	}); err != nil {
		if apiError, ok := err.(*APIError); ok {
			return apiError
		}
		return &APIError{Path: path, Message: err.Error()}
	}

	if err := json.Unmarshal(responseBytes, out); err != nil {
		return &APIError{Path: path, Message: fmt.Sprintf("invalid JSON response: %s", err)}
	}

	return nil
}

// Redact scrubs the client's credentials from a string, including the
// app_key/app_id query parameters of any embedded URL.
func (c *Client) Redact(value string) string {
	redacted := value
	if c.apiKey != "" {
		redacted = strings.ReplaceAll(redacted, c.apiKey, "REDACTED")
	}
	if c.appID != "" {
		redacted = strings.ReplaceAll(redacted, c.appID, "REDACTED")
	}
	redacted = credentialParamPattern.ReplaceAllString(redacted, "${1}REDACTED")

	return redacted
}

// RedactValue walks a decoded JSON value and redacts every string in it.
func (c *Client) RedactValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		redacted := make(map[string]any, len(typed))
		for key, item := range typed {
			redacted[key] = c.RedactValue(item)
		}
		return redacted
	case []any:
		redacted := make([]any, len(typed))
		for i, item := range typed {
			redacted[i] = c.RedactValue(item)
		}
		return redacted
	case string:
		return c.Redact(typed)
	}

	return value
}

// MaskKey renders a credential for operator-facing output without revealing
// it.
func MaskKey(apiKey string) string {
	if len(apiKey) > 8 {
		return fmt.Sprintf("%s...%s", apiKey[:4], apiKey[len(apiKey)-4:])
	}

	return "set"
}
