package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// httpGetter wraps a fasthttp client with the deadline handling shared by
// every market-data source.
type httpGetter struct {
	client  *fasthttp.Client
	timeout time.Duration
	logger  *zap.Logger
}

func newHTTPGetter(timeout time.Duration, logger *zap.Logger) *httpGetter {
	return &httpGetter{
		client: &fasthttp.Client{
			Name:                "defiagent",
			MaxIdleConnDuration: 30 * time.Second,
		},
		timeout: timeout,
		logger:  logger,
	}
}

// get performs a GET and returns the status code and a copy of the body.
func (h *httpGetter) get(ctx context.Context, requestURL string, headers map[string]string) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	h.logger.Debug("Requesting market data", zap.String("url", requestURL))

	deadline, ok := ctx.Deadline()
	if ok {
		if err := h.client.DoDeadline(req, resp, deadline); err != nil {
			h.logger.Warn("Failed to execute market data request", zap.String("url", requestURL), zap.Error(err))
			return 0, nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, wrapTimeout(err))
		}
	} else {
		if err := h.client.DoTimeout(req, resp, h.timeout); err != nil {
			h.logger.Warn("Failed to execute market data request (with default timeout)", zap.String("url", requestURL), zap.Error(err))
			return 0, nil, fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, wrapTimeout(err))
		}
	}

	body := append([]byte(nil), resp.Body()...)
	return resp.StatusCode(), body, nil
}

// wrapTimeout maps fasthttp timeouts onto context.DeadlineExceeded.
func wrapTimeout(err error) error {
	if errors.Is(err, fasthttp.ErrTimeout) || errors.Is(err, fasthttp.ErrDialTimeout) {
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return err
}
