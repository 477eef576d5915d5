// Package llm adapts the semantic extraction service to a single blocking
// prompt-to-text call.
package llm

import (
	"context"
	"errors"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/sds-assess/internal/metrics"
	"github.com/sells-group/sds-assess/internal/resilience"
	"github.com/sells-group/sds-assess/pkg/anthropic"
)

// Completer sends one prompt and returns the service's text response.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete implements Completer.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type phaseKey struct{}

// WithPhase tags ctx with the calling stage for cost attribution.
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, phaseKey{}, phase)
}

func phaseFrom(ctx context.Context) string {
	if p, ok := ctx.Value(phaseKey{}).(string); ok {
		return p
	}
	return "unknown"
}

// Options configures an AnthropicCompleter.
type Options struct {
	Model             string
	MaxTokens         int64
	RequestsPerSecond float64
	Retry             resilience.Policy
	BreakerThreshold  int
	BreakerCooldown   time.Duration
}

// AnthropicCompleter implements Completer over the Anthropic Messages API
// with a rate limit, retry on transient failures and a circuit breaker.
type AnthropicCompleter struct {
	client  anthropic.Client
	opts    Options
	limiter *rate.Limiter
	breaker *resilience.CircuitBreaker
}

// NewAnthropicCompleter wraps client. A non-positive rate disables limiting.
func NewAnthropicCompleter(client anthropic.Client, opts Options) *AnthropicCompleter {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 2048
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	return &AnthropicCompleter{
		client:  client,
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
		breaker: resilience.NewCircuitBreaker("anthropic", opts.BreakerThreshold, opts.BreakerCooldown),
	}
}

// Complete sends prompt as a single user message at temperature zero.
func (c *AnthropicCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	phase := phaseFrom(ctx)
	temp := 0.0
	req := anthropic.MessageRequest{
		Model:       c.opts.Model,
		MaxTokens:   c.opts.MaxTokens,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	}

	resp, err := resilience.Retry(ctx, c.opts.Retry, "anthropic.create_message", func(ctx context.Context) (*anthropic.MessageResponse, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "llm: rate limit wait")
		}
		return resilience.Call(ctx, c.breaker, func(ctx context.Context) (*anthropic.MessageResponse, error) {
			r, err := c.client.CreateMessage(ctx, req)
			return r, classify(err)
		})
	})
	if err != nil {
		metrics.Completions.WithLabelValues("error").Inc()
		return "", eris.Wrapf(err, "llm: complete (%s)", phase)
	}

	metrics.Completions.WithLabelValues("ok").Inc()
	metrics.CompletionTokens.WithLabelValues("input").Add(float64(resp.Usage.InputTokens))
	metrics.CompletionTokens.WithLabelValues("output").Add(float64(resp.Usage.OutputTokens))
	resp.Usage.LogCost(c.opts.Model, phase)

	zap.L().Debug("llm: completion",
		zap.String("phase", phase),
		zap.String("stop_reason", resp.StopReason),
		zap.Int("prompt_chars", len(prompt)),
	)
	return resp.Text(), nil
}

// classify marks API errors with a retryable status as transient.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) && resilience.IsTransientStatus(apiErr.StatusCode) {
		return resilience.NewTransientError(err, apiErr.StatusCode)
	}
	return err
}
