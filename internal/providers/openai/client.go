// Package openai adapts the OpenAI chat and images endpoints to the three
// capabilities the pipeline consumes: image captioning, text extraction and
// image generation.
package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	goopenai "github.com/sashabaranov/go-openai"

	"crayon/internal/domain"
)

const (
	DefaultVisionModel  = "gpt-4o"
	DefaultTextModel    = "gpt-4o"
	DefaultImageModel   = "gpt-image-1"
	DefaultImageQuality = "medium"

	defaultTimeout = 120 * time.Second
)

// Options configures Client.
type Options struct {
	APIKey       string
	BaseURL      string
	Organization string
	VisionModel  string
	TextModel    string
	ImageModel   string
	ImageQuality string
	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *zerolog.Logger
}

// Client is safe for concurrent use.
type Client struct {
	api          *goopenai.Client
	visionModel  string
	textModel    string
	imageModel   string
	imageQuality string
	logger       zerolog.Logger
}

func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai: api key is required")
	}
	cfg := goopenai.DefaultConfig(opts.APIKey)
	if base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"); base != "" {
		cfg.BaseURL = base
	}
	cfg.OrgID = strings.TrimSpace(opts.Organization)

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	cfg.HTTPClient = httpClient

	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Client{
		api:          goopenai.NewClientWithConfig(cfg),
		visionModel:  coalesce(opts.VisionModel, DefaultVisionModel),
		textModel:    coalesce(opts.TextModel, DefaultTextModel),
		imageModel:   coalesce(opts.ImageModel, DefaultImageModel),
		imageQuality: coalesce(opts.ImageQuality, DefaultImageQuality),
		logger:       logger,
	}, nil
}

// VisionRequest asks the vision model to describe one image.
type VisionRequest struct {
	Instruction string
	// ImageURL is an https URL or a data URI.
	ImageURL    string
	Temperature float32
	MaxTokens   int
}

// Describe returns the model's text answer about the image.
func (c *Client) Describe(ctx context.Context, req VisionRequest) (string, error) {
	msg := goopenai.ChatCompletionMessage{
		Role: goopenai.ChatMessageRoleUser,
		MultiContent: []goopenai.ChatMessagePart{
			{Type: goopenai.ChatMessagePartTypeText, Text: req.Instruction},
			{
				Type: goopenai.ChatMessagePartTypeImageURL,
				ImageURL: &goopenai.ChatMessageImageURL{
					URL:    req.ImageURL,
					Detail: goopenai.ImageURLDetailLow,
				},
			},
		},
	}
	return c.chat(ctx, "describe", c.visionModel, msg, req.Temperature, req.MaxTokens)
}

// TextRequest is a single-message text completion.
type TextRequest struct {
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// Complete returns the model's raw text answer.
func (c *Client) Complete(ctx context.Context, req TextRequest) (string, error) {
	msg := goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, Content: req.Prompt}
	return c.chat(ctx, "complete", c.textModel, msg, req.Temperature, req.MaxTokens)
}

func (c *Client) chat(ctx context.Context, op, model string, msg goopenai.ChatCompletionMessage, temperature float32, maxTokens int) (string, error) {
	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    []goopenai.ChatCompletionMessage{msg},
		Temperature: wireTemperature(temperature),
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", upstreamError(op, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %s: response has no choices", domain.ErrUpstreamCall, op)
	}
	c.logger.Debug().
		Str("model", model).
		Int("total_tokens", resp.Usage.TotalTokens).
		Dur("elapsed", time.Since(start)).
		Msgf("openai: %s", op)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// GenerateImage renders one image and returns its decoded bytes.
func (c *Client) GenerateImage(ctx context.Context, prompt, size string) ([]byte, error) {
	start := time.Now()
	req := goopenai.ImageRequest{
		Prompt:  prompt,
		Model:   c.imageModel,
		N:       1,
		Size:    size,
		Quality: c.imageQuality,
	}
	// gpt-image models always answer in base64 and reject response_format.
	if !strings.HasPrefix(c.imageModel, "gpt-image") {
		req.ResponseFormat = goopenai.CreateImageResponseFormatB64JSON
	}
	resp, err := c.api.CreateImage(ctx, req)
	if err != nil {
		return nil, upstreamError("generate", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("%w: generate: response carried no image data", domain.ErrUpstreamCall)
	}
	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("%w: generate: decode b64_json: %w", domain.ErrUpstreamCall, err)
	}
	c.logger.Debug().
		Str("model", c.imageModel).
		Str("size", size).
		Int("bytes", len(data)).
		Dur("elapsed", time.Since(start)).
		Msg("openai: generate")
	return data, nil
}

func upstreamError(op string, err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s: status %d: %s", domain.ErrUpstreamCall, op, apiErr.HTTPStatusCode, apiErr.Message)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrUpstreamCall, op, err)
}

// wireTemperature keeps an explicit zero on the wire; the request struct
// drops a literal 0 through omitempty.
func wireTemperature(t float32) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
