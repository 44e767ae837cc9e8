package openai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2389-research/translator"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Interface compliance check.
var _ translator.Provider = (*Client)(nil)

// Client implements [translator.Provider] for the OpenAI API.
type Client struct {
	client openai.Client
}

// Option configures a [Client].
type Option func(*options)

type options struct {
	requestOptions []option.RequestOption
}

// WithBaseURL overrides the API base URL. Used in tests.
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.requestOptions = append(o.requestOptions, option.WithBaseURL(url))
	}
}

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.requestOptions = append(o.requestOptions, option.WithHTTPClient(hc))
	}
}

// New creates a new OpenAI [Client] with the given API key.
func New(apiKey string, opts ...Option) *Client {
	o := options{
		requestOptions: []option.RequestOption{option.WithAPIKey(apiKey)},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Client{client: openai.NewClient(o.requestOptions...)}
}

// Stream sends a streaming chat completion request and returns a
// [translator.Stream] that emits semantic events.
//
// The SDK opens the connection lazily, so transport and API errors surface
// on the first Next call rather than here.
func (c *Client) Stream(ctx context.Context, call translator.Call) (translator.Stream, error) {
	if err := call.Validate(); err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	sse := c.client.Chat.Completions.NewStreaming(ctx, BuildParams(call))
	return newStream(ctx, sse), nil
}

// BuildParams maps a [translator.Call] onto chat completion request params.
func BuildParams(call translator.Call) openai.ChatCompletionNewParams {
	maxTokens := call.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if call.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(call.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(call.UserPrompt))

	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(call.Model),
		Messages:            messages,
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
		StreamOptions: openai.ChatCompletionStreamOptionsParam{
			IncludeUsage: openai.Bool(true),
		},
	}

	if call.Temperature != nil {
		params.Temperature = openai.Float(*call.Temperature)
	}
	if call.TopP != nil {
		params.TopP = openai.Float(*call.TopP)
	}

	return params
}
