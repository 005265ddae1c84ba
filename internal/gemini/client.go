package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/potent-zedlee/templar-archives/internal/inference"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// Options configures the Gemini client
type Options struct {
	APIKey   string
	Backend  string // "gemini" or "vertex"
	Project  string
	Location string
	Timeout  time.Duration
}

// Client sends inference requests to Gemini
type Client struct {
	logger  zerolog.Logger
	models  *genai.Models
	timeout time.Duration
}

// New creates a Gemini client
func New(ctx context.Context, logger zerolog.Logger, opts Options) (*Client, error) {
	cc := &genai.ClientConfig{
		HTTPClient: &http.Client{},
	}

	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", "gemini":
		if strings.TrimSpace(opts.APIKey) == "" {
			return nil, errors.New("gemini api key is required")
		}
		cc.APIKey = opts.APIKey
		cc.Backend = genai.BackendGeminiAPI
	case "vertex":
		if opts.Project == "" || opts.Location == "" {
			return nil, errors.New("vertex backend requires project and location")
		}
		cc.Project = opts.Project
		cc.Location = opts.Location
		cc.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("unknown gemini backend %q", opts.Backend)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{
		logger:  logger.With().Str("component", "gemini").Logger(),
		models:  client.Models,
		timeout: opts.Timeout,
	}, nil
}

// Generate issues one GenerateContent call and returns the response text
func (c *Client) Generate(ctx context.Context, req inference.Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	contents := []*genai.Content{genai.NewContentFromParts(buildParts(req.Parts), genai.RoleUser)}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, req.Model, contents, buildConfig(req.Config))
	if err != nil {
		return "", categorize(err)
	}

	text := resp.Text()
	c.logger.Debug().
		Str("model", req.Model).
		Dur("elapsed", time.Since(start)).
		Int("response_bytes", len(text)).
		Msg("generate content complete")

	return text, nil
}

func buildParts(parts []inference.Part) []*genai.Part {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if !p.IsFile() {
			out = append(out, genai.NewPartFromText(p.Text))
			continue
		}

		part := &genai.Part{
			FileData: &genai.FileData{
				FileURI:  p.FileURI,
				MIMEType: p.MIMEType,
			},
		}
		if p.StartOffset > 0 || p.EndOffset > 0 {
			part.VideoMetadata = &genai.VideoMetadata{
				StartOffset: p.StartOffset,
				EndOffset:   p.EndOffset,
			}
		}
		out = append(out, part)
	}
	return out
}

func buildConfig(cfg inference.Config) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      cfg.Temperature,
		TopP:             cfg.TopP,
		TopK:             cfg.TopK,
		MaxOutputTokens:  cfg.MaxOutputTokens,
		ResponseMIMEType: cfg.ResponseMIMEType,
	}
}

// categorize converts SDK and transport errors into typed inference errors.
// The SDK text is kept in the message so text matching still works.
func categorize(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &inference.Error{
			Kind:       kindForStatus(apiErr.Code, apiErr.Status),
			StatusCode: apiErr.Code,
			Message:    fmt.Sprintf("%d %s: %s", apiErr.Code, apiErr.Status, apiErr.Message),
			Err:        err,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &inference.Error{Kind: inference.KindTimeout, Message: "deadline exceeded: " + err.Error(), Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &inference.Error{Kind: inference.KindCanceled, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		kind := inference.KindNetwork
		if netErr.Timeout() {
			kind = inference.KindTimeout
		}
		return &inference.Error{Kind: kind, Err: err}
	}

	return err
}

func kindForStatus(code int, status string) inference.Kind {
	switch strings.ToUpper(status) {
	case "RESOURCE_EXHAUSTED":
		return inference.KindQuota
	case "NOT_FOUND":
		return inference.KindNotFound
	case "PERMISSION_DENIED":
		return inference.KindForbidden
	case "DEADLINE_EXCEEDED":
		return inference.KindTimeout
	case "UNAVAILABLE", "INTERNAL":
		return inference.KindServer
	}

	switch code {
	case http.StatusTooManyRequests:
		return inference.KindQuota
	case http.StatusNotFound:
		return inference.KindNotFound
	case http.StatusForbidden:
		return inference.KindForbidden
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return inference.KindTimeout
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return inference.KindServer
	}
	return inference.KindUnknown
}
