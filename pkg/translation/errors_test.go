package translation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"nil error", nil, ClassRetryable},
		{"plain network error", errors.New("connection reset by peer"), ClassRetryable},
		{"malformed response", fmt.Errorf("%w: unexpected end", ErrMalformedResponse), ClassRetryable},
		{"http 429", errors.New("googleapi: Error 429: Too Many Requests"), ClassRateLimited},
		{"quota exhausted", errors.New("RESOURCE_EXHAUSTED: quota exceeded"), ClassRateLimited},
		{"service busy 503", errors.New("503 service unavailable"), ClassRateLimited},
		{"rate wording", errors.New("request rate too high"), ClassRateLimited},
		{"bad api key", errors.New("API key not valid. Please pass a valid API key."), ClassFatalAPI},
		{"unauthorized", errors.New("401 unauthorized"), ClassFatalAPI},
		{"forbidden", errors.New("403 permission denied"), ClassFatalAPI},
		{"not found", errors.New("404 model not found"), ClassFatalAPI},
		{"server error", errors.New("500 internal error"), ClassFatalAPI},
		// 同时带限流信号时限流优先
		{"fatal wording but rate limited", errors.New("400 rate limit exceeded"), ClassRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestErrorClassString(t *testing.T) {
	assert.Equal(t, "retryable", ClassRetryable.String())
	assert.Equal(t, "rate_limited", ClassRateLimited.String())
	assert.Equal(t, "fatal_api_error", ClassFatalAPI.String())
}
