package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sds-assess/internal/resilience"
	"github.com/sells-group/sds-assess/pkg/anthropic"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

// apiError builds an SDK error with the request and response populated so
// its Error method can format them.
func apiError(code int) *sdk.Error {
	return &sdk.Error{
		StatusCode: code,
		Request:    httptest.NewRequest(http.MethodPost, "https://api.anthropic.com/v1/messages", nil),
		Response:   &http.Response{StatusCode: code},
	}
}

func textResponse(s string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: s}},
		Usage:   anthropic.TokenUsage{InputTokens: 100, OutputTokens: 10},
	}
}

func testOptions() Options {
	return Options{
		Model:     "claude-haiku-4-5-20251001",
		MaxTokens: 512,
		Retry:     resilience.Policy{Attempts: 3, Backoff: time.Millisecond, MaxBackoff: time.Millisecond},
	}
}

func TestAnthropicCompleter_Complete(t *testing.T) {
	mc := new(mockClient)
	mc.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Model == "claude-haiku-4-5-20251001" &&
			req.MaxTokens == 512 &&
			req.Temperature != nil && *req.Temperature == 0 &&
			len(req.Messages) == 1 && req.Messages[0].Content == "hello"
	})).Return(textResponse("world"), nil)

	c := NewAnthropicCompleter(mc, testOptions())
	got, err := c.Complete(WithPhase(context.Background(), "identity"), "hello")
	require.NoError(t, err)
	assert.Equal(t, "world", got)
	mc.AssertExpectations(t)
}

func TestAnthropicCompleter_RetriesTransientStatus(t *testing.T) {
	mc := new(mockClient)
	overloaded := apiError(529)
	mc.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, overloaded).Once()
	mc.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse("ok"), nil).Once()

	c := NewAnthropicCompleter(mc, testOptions())
	got, err := c.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	mc.AssertNumberOfCalls(t, "CreateMessage", 2)
}

func TestAnthropicCompleter_PermanentErrorNotRetried(t *testing.T) {
	mc := new(mockClient)
	mc.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, apiError(http.StatusBadRequest))

	c := NewAnthropicCompleter(mc, testOptions())
	_, err := c.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm: complete")
	mc.AssertNumberOfCalls(t, "CreateMessage", 1)
}

func TestAnthropicCompleter_BreakerOpens(t *testing.T) {
	mc := new(mockClient)
	mc.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("bad request"))

	opts := testOptions()
	opts.Retry.Attempts = 1
	opts.BreakerThreshold = 2
	opts.BreakerCooldown = time.Hour
	c := NewAnthropicCompleter(mc, opts)

	for range 2 {
		_, err := c.Complete(context.Background(), "p")
		require.Error(t, err)
	}
	_, err := c.Complete(context.Background(), "p")
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	mc.AssertNumberOfCalls(t, "CreateMessage", 2)
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))
	assert.True(t, resilience.IsTransient(classify(apiError(429))))
	assert.False(t, resilience.IsTransient(classify(apiError(401))))
	assert.False(t, resilience.IsTransient(classify(errors.New("x"))))
}

func TestCompleterFunc(t *testing.T) {
	var c Completer = CompleterFunc(func(_ context.Context, p string) (string, error) {
		return "echo " + p, nil
	})
	got, err := c.Complete(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "echo x", got)
}

func TestPhase(t *testing.T) {
	assert.Equal(t, "unknown", phaseFrom(context.Background()))
	assert.Equal(t, "narrative", phaseFrom(WithPhase(context.Background(), "narrative")))
}
