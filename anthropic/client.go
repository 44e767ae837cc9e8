package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/2389-research/translator"
)

// Interface compliance check.
var _ translator.Provider = (*Client)(nil)

// Client implements [translator.Provider] for the Anthropic Messages API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new Anthropic [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Stream sends a streaming request to the Anthropic Messages API and
// returns a [translator.Stream] that emits semantic events.
func (c *Client) Stream(ctx context.Context, call translator.Call) (translator.Stream, error) {
	if err := call.Validate(); err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}
	body, err := buildRequestBody(call)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &translator.ServiceError{Provider: "anthropic", Transient: isNetTimeout(err), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}

	return newStream(ctx, resp.Body), nil
}

func buildRequestBody(call translator.Call) ([]byte, error) {
	maxTokens := call.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	apiReq := apiRequest{
		Model:       call.Model,
		MaxTokens:   maxTokens,
		Stream:      true,
		System:      call.SystemPrompt,
		Messages:    []apiMessage{{Role: "user", Content: call.UserPrompt}},
		Temperature: call.Temperature,
		TopP:        call.TopP,
	}

	return json.Marshal(apiReq)
}

func isNetTimeout(err error) bool {
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &translator.ServiceError{
			Provider: "anthropic",
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("failed to read error body: %w", err),
		}
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return &translator.ServiceError{
			Provider: "anthropic",
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}
	return &translator.ServiceError{
		Provider: "anthropic",
		Status:   resp.StatusCode,
		Err:      fmt.Errorf("%s: %s", apiErr.Error.Type, apiErr.Error.Message),
	}
}
