package analysis

import (
	"context"
	"errors"
	"net/http"

	"github.com/dstanisic/pulsefeed/internal/apperr"
	"github.com/sashabaranov/go-openai"
)

// CompletionClient is the slice of the OpenAI SDK the orchestrator needs.
// *openai.Client satisfies it; tests inject fakes.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// classifyCallError maps transport-level faults onto distinct upstream
// kinds so batch callers can apply differentiated backoff.
func classifyCallError(err error) *apperr.UpstreamError {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.NewUpstreamWrap(apperr.KindRequestTimeout, "completion call timed out", err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			if code, ok := apiErr.Code.(string); ok && code == "insufficient_quota" {
				return apperr.NewUpstreamWrap(apperr.KindInsufficientCredits, "completion quota exhausted", err)
			}
			return apperr.NewUpstreamWrap(apperr.KindRateLimitExceeded, "completion rate limit hit", err)
		}
	}

	return apperr.NewUpstreamWrap(apperr.KindRequestFailed, "completion call failed", err)
}
