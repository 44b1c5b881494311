package aigate

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mailmind/aigate/internal/metrics"
	"github.com/mailmind/aigate/internal/observability"
	"github.com/mailmind/aigate/pkg/errors"
	"github.com/mailmind/aigate/pkg/provider"
	"github.com/mailmind/aigate/pkg/types"
	"github.com/mailmind/aigate/providers"
)

// Client is the uniform facade returned to all callers. It is stateless
// apart from the adapter it wraps and is safe for concurrent use. Callers
// must stay provider-agnostic: Provider() exists for diagnostics only.
type Client struct {
	adapter      provider.Adapter
	providerName string
	credentialID string
	secret       string
	cfg          provider.ModelConfig

	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
	recorder   UsageRecorder
	redactor   *observability.Redactor
}

// NewClient constructs a facade directly from a resolved credential. Most
// callers go through Resolver.Resolve instead; direct construction serves
// connectivity tests, where the key is not stored yet.
func NewClient(cred Credential, opts ...Option) (*Client, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	adapter, err := providers.Create(cred.Provider, provider.Config{
		APIKey:  cred.SecretKey,
		BaseURL: cred.Config.BaseURL,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		adapter:      adapter,
		providerName: cred.Provider,
		credentialID: cred.ID,
		secret:       cred.SecretKey,
		cfg:          cred.Config,
		httpClient:   s.httpClient,
		timeout:      s.timeout,
		logger:       s.logger,
		recorder:     s.recorder,
		redactor:     observability.NewRedactor(),
	}, nil
}

// Provider returns the backing provider name for diagnostics and logging.
func (c *Client) Provider() string {
	return c.providerName
}

// ChatCompletion sends a normalized chat completion request through the
// backing adapter and returns the normalized response. Parameter resolution
// per call: explicit request value, then the credential's stored config,
// then the hard-coded default.
func (c *Client) ChatCompletion(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("request is nil")
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("messages is required")
	}

	resolved := c.resolveParams(req)

	requestID := uuid.NewString()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := c.adapter.BuildRequest(ctx, resolved)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			metrics.ObserveRequest(c.providerName, resolved.Model, metrics.StatusTimeout, time.Since(start), 0)
			c.logger.Warn("ai request timed out",
				"request_id", requestID, "provider", c.providerName, "model", resolved.Model)
			return nil, &errors.TimeoutError{
				Provider: c.providerName,
				Message:  fmt.Sprintf("request exceeded %s deadline", c.timeout),
			}
		}
		metrics.ObserveRequest(c.providerName, resolved.Model, metrics.StatusError, time.Since(start), 0)
		return nil, errors.NewServiceUnavailableError(c.providerName, resolved.Model, c.redact(err.Error()))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		mapped := c.adapter.MapError(resp.StatusCode, body)
		c.redactUpstream(mapped)
		metrics.ObserveRequest(c.providerName, resolved.Model, metrics.StatusError, time.Since(start), 0)
		c.logger.Warn("ai request failed",
			"request_id", requestID, "provider", c.providerName,
			"model", resolved.Model, "status", resp.StatusCode)
		return nil, mapped
	}

	chatResp, err := c.adapter.ParseResponse(resp)
	if err != nil {
		metrics.ObserveRequest(c.providerName, resolved.Model, metrics.StatusError, time.Since(start), 0)
		return nil, err
	}

	// Vendors that report no usage still yield explicit zeros.
	if chatResp.Usage == nil {
		chatResp.Usage = &types.Usage{}
	}

	elapsed := time.Since(start)
	metrics.ObserveRequest(c.providerName, resolved.Model, metrics.StatusOK, elapsed, chatResp.Usage.TotalTokens)
	c.logger.Debug("ai request completed",
		"request_id", requestID, "provider", c.providerName,
		"model", resolved.Model, "tokens", chatResp.Usage.TotalTokens,
		"elapsed", elapsed)

	c.recordUsage(ctx, chatResp.Usage.TotalTokens)

	return chatResp, nil
}

// GenerateImage sends an image generation request. Only providers exposing
// an image endpoint support it; the rest fail before any network traffic.
func (c *Client) GenerateImage(ctx context.Context, req *types.ImageRequest) (*types.ImageResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("request is nil")
	}
	if req.Prompt == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	imageAdapter, ok := c.adapter.(provider.ImageAdapter)
	if !ok {
		return nil, errors.NewUnsupportedOperationError(c.providerName,
			fmt.Sprintf("image generation is not supported by %s", c.providerName))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := imageAdapter.BuildImageRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return nil, &errors.TimeoutError{
				Provider: c.providerName,
				Message:  fmt.Sprintf("request exceeded %s deadline", c.timeout),
			}
		}
		return nil, errors.NewServiceUnavailableError(c.providerName, "", c.redact(err.Error()))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		mapped := c.adapter.MapError(resp.StatusCode, body)
		c.redactUpstream(mapped)
		return nil, mapped
	}

	return imageAdapter.ParseImageResponse(resp)
}

// resolveParams applies the three-level parameter precedence without
// mutating the caller's request.
func (c *Client) resolveParams(req *types.ChatRequest) *types.ChatRequest {
	resolved := *req

	if resolved.Model == "" {
		resolved.Model = c.cfg.Model
	}
	if resolved.Model == "" {
		resolved.Model = provider.DefaultModel(c.providerName)
	}

	if resolved.Temperature == nil {
		resolved.Temperature = c.cfg.Temperature
	}
	if resolved.Temperature == nil {
		t := provider.DefaultTemperature
		resolved.Temperature = &t
	}

	if resolved.MaxTokens == 0 {
		resolved.MaxTokens = c.cfg.MaxTokens
	}
	if resolved.MaxTokens == 0 {
		resolved.MaxTokens = provider.DefaultMaxTokens
	}

	return &resolved
}

func (c *Client) recordUsage(ctx context.Context, tokens int) {
	if c.recorder == nil || c.credentialID == "" {
		return
	}
	if err := c.recorder.RecordUsage(ctx, c.credentialID, tokens); err != nil {
		c.logger.Warn("usage accounting failed",
			"provider", c.providerName, "credential_id", c.credentialID, "error", err)
	}
}

// redact masks both the known secret and recognizable key patterns in text
// destined for callers or logs.
func (c *Client) redact(text string) string {
	return c.redactor.Redact(observability.RedactSecret(text, c.secret))
}

func (c *Client) redactUpstream(err error) {
	var ue *errors.UpstreamError
	if stderrors.As(err, &ue) {
		ue.Message = c.redact(ue.Message)
	}
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}
