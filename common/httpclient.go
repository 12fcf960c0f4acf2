package common

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/readmify/readmify/logger"
)

// ClientConfig holds the configuration for the backend HTTP client
type ClientConfig struct {
	// Timeout bounds a single request, including reading the body
	Timeout time.Duration
	// Maximum number of retries. Backend calls are user triggered and are
	// never repeated automatically, so this stays at zero.
	RetryMax int
}

// DefaultClientConfig returns a ClientConfig for a single attempt per request
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:  DefaultGenerateTimeout,
		RetryMax: 0,
	}
}

// NewHTTPClient creates an HTTP client that logs through zap and performs
// exactly RetryMax+1 attempts. Responses with non-success statuses are handed
// back to the caller untouched.
func NewHTTPClient(config ClientConfig) *http.Client {
	client := retryablehttp.NewClient()

	client.RetryMax = config.RetryMax
	client.CheckRetry = noRetryPolicy
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = &zapRetryLogger{}

	logger.Debugf("Created backend HTTP client with timeout: %s, max retries: %d",
		config.Timeout, config.RetryMax)

	std := client.StandardClient()
	std.Timeout = config.Timeout
	return std
}

// noRetryPolicy never asks for another attempt. Context errors are reported
// so a cancelled call surfaces as such.
func noRetryPolicy(ctx context.Context, _ *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return false, err
}

// zapRetryLogger adapts our zap logger to the interface required by retryablehttp
type zapRetryLogger struct{}

func (z *zapRetryLogger) Error(msg string, keysAndValues ...interface{}) {
	logger.Sugar().Errorw(msg, keysAndValues...)
}

func (z *zapRetryLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Sugar().Infow(msg, keysAndValues...)
}

func (z *zapRetryLogger) Debug(msg string, keysAndValues ...interface{}) {
	logger.Sugar().Debugw(msg, keysAndValues...)
}

func (z *zapRetryLogger) Warn(msg string, keysAndValues ...interface{}) {
	logger.Sugar().Warnw(msg, keysAndValues...)
}
