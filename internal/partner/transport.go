package partner

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"splitpay/internal/config"
	"splitpay/internal/errors"
	"splitpay/internal/logging"
	"splitpay/internal/telemetry"
)

// maxAttempts bounds the retry loop for pure transport failures. HTTP-level
// errors are never retried; only the absence of any HTTP response is.
const maxAttempts = 3

// Response is the uniform envelope returned for every partner call that
// produced an HTTP response, regardless of its status code.
type Response struct {
	Code    int
	Message string
	Content []byte
}

// IsOK reports whether the partner answered 200.
func (r *Response) IsOK() bool {
	return r != nil && r.Code == http.StatusOK
}

// Transport sends authenticated requests to the partner API over a shared
// connection pool. It is safe for concurrent use; per-call state lives in
// the request envelopes.
type Transport struct {
	httpClient *http.Client
	recorder   telemetry.Recorder
	logger     *logging.Logger
}

// NewTransport builds a transport from the partner's HTTP tuning
// parameters. The recorder receives one measurement per call; pass
// telemetry.NopRecorder{} to disable.
func NewTransport(cfg config.HTTPConfig, recorder telemetry.Recorder) *Transport {
	dialer := &net.Dialer{
		Timeout:   cfg.ConnectTimeout(),
		KeepAlive: cfg.KeepAlive(),
	}
	httpTransport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout(),
	}
	return &Transport{
		httpClient: &http.Client{
			Transport: httpTransport,
			Timeout:   cfg.ReadTimeout(),
		},
		recorder: recorder,
		logger:   logging.NewDefaultLogger("transport"),
	}
}

// NewTransportWithClient builds a transport around an existing http.Client,
// used by tests.
func NewTransportWithClient(client *http.Client, recorder telemetry.Recorder) *Transport {
	return &Transport{
		httpClient: client,
		recorder:   recorder,
		logger:     logging.NewDefaultLogger("transport"),
	}
}

// Do executes one partner call with up to three full attempts on I/O-level
// failure. A response envelope is returned whenever any HTTP response was
// obtained, whatever its status; a communication error is returned only
// when all attempts failed to produce a response.
func (t *Transport) Do(ctx context.Context, operation, method, url string, headers http.Header, body []byte) (*Response, error) {
	start := time.Now()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to build partner request")
		}
		for key, values := range headers {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}

		t.logger.Info("partner call %s attempt %d/%d [%s %s]", operation, attempt, maxAttempts, method, url)

		httpResp, err := t.httpClient.Do(req)
		if err != nil {
			lastErr = err
			t.logger.Error("partner call %s failed [T: %dms]: %v", operation, time.Since(start).Milliseconds(), err)
			continue
		}

		content, readErr := io.ReadAll(httpResp.Body)
		_ = httpResp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			t.logger.Error("partner response read failed: %v", readErr)
			continue
		}

		resp := &Response{
			Code:    httpResp.StatusCode,
			Message: httpResp.Status,
			Content: content,
		}
		t.logger.Info("partner call %s done [T: %dms] [CODE: %d]", operation, time.Since(start).Milliseconds(), resp.Code)
		t.recorder.RecordCall(operation, time.Since(start), resp.Code, nil)
		return resp, nil
	}

	t.recorder.RecordCall(operation, time.Since(start), 0, lastErr)
	return nil, errors.Communication("partner call "+operation+" failed after retries", lastErr)
}
