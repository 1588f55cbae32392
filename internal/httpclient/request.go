package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/multichain-arb/internal/apperror"
)

// maxBodySize caps how much of a response is read.
const maxBodySize = 1 << 20

// Request builds and executes a GET.
type Request interface {
	Get(ctx context.Context, path string) (*Response, error)

	SetHeader(key, value string) Request
	SetQueryParam(key, value string) Request
	SetResult(result any) Request
}

// Response wraps http.Response with the already-read body.
type Response struct {
	*http.Response
	body []byte
}

// Body returns the response body.
func (r *Response) Body() []byte {
	return r.body
}

// String returns the response body as string.
func (r *Response) String() string {
	return string(r.body)
}

// IsError returns true for status codes >= 400.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

type requestBuilder struct {
	c            *InstrumentedClient
	headers      map[string]string
	query        url.Values
	result       any
	errorHandler ResponseErrorHandler
	labels       []Label
}

func (r *requestBuilder) SetHeader(key, value string) Request {
	r.headers[key] = value
	return r
}

func (r *requestBuilder) SetQueryParam(key, value string) Request {
	if r.query == nil {
		r.query = url.Values{}
	}
	r.query.Set(key, value)
	return r
}

func (r *requestBuilder) SetResult(result any) Request {
	r.result = result
	return r
}

// Get executes the request. Transport failures and 5xx come back as CodeNetworkError,
// other error statuses and undecodable bodies as CodeProtocolError.
func (r *requestBuilder) Get(ctx context.Context, path string) (*Response, error) {
	fullURL, err := r.buildURL(path)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidInput, apperror.WithContext(path), apperror.WithCause(err))
	}

	ctx, span := r.c.tracer.Start(ctx, "http.get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.url", fullURL),
			attribute.String("provider", r.c.providerName),
		),
	)
	defer span.End()

	if r.c.limiter != nil {
		if err := r.c.limiter.Wait(ctx); err != nil {
			r.fail(ctx, span, err, "rate_limited", time.Time{})
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidInput, apperror.WithContext(fullURL), apperror.WithCause(err))
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if r.c.logRequest {
		span.AddEvent("request.sent", trace.WithAttributes(attribute.String("http.method", req.Method)))
	}

	start := time.Now()
	resp, err := r.c.client.Do(req)
	if err != nil {
		appErr := apperror.New(apperror.CodeNetworkError,
			apperror.WithContextf("GET %s", r.c.providerName),
			apperror.WithCause(err))
		if errors.Is(err, context.DeadlineExceeded) {
			span.SetAttributes(attribute.Bool("request.timeout", true))
		}
		r.fail(ctx, span, appErr, "transport", start)
		return nil, appErr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		appErr := apperror.New(apperror.CodeNetworkError,
			apperror.WithContextf("read %s response", r.c.providerName),
			apperror.WithCause(err))
		r.fail(ctx, span, appErr, "transport", start)
		return nil, appErr
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if r.c.logResponse {
		span.AddEvent("response.body", trace.WithAttributes(attribute.String("http.response_body", string(body))))
	}

	response := &Response{Response: resp, body: body}

	if err := r.checkStatus(resp.StatusCode, body); err != nil {
		r.fail(ctx, span, err, "status", start)
		return response, err
	}

	if r.result != nil {
		if err := json.Unmarshal(body, r.result); err != nil {
			appErr := apperror.New(apperror.CodeProtocolError,
				apperror.WithContextf("decode %s response", r.c.providerName),
				apperror.WithCause(err))
			r.fail(ctx, span, appErr, "decode", start)
			return response, appErr
		}
	}

	r.record(ctx, "ok", start)
	span.SetStatus(codes.Ok, "")
	return response, nil
}

func (r *requestBuilder) buildURL(path string) (string, error) {
	full := path
	if r.c.baseURL != "" && !strings.HasPrefix(path, "http") {
		full = strings.TrimSuffix(r.c.baseURL, "/") + "/" + strings.TrimPrefix(path, "/")
	}

	u, err := url.Parse(full)
	if err != nil {
		return "", err
	}
	if len(r.query) > 0 {
		q := u.Query()
		for k, vs := range r.query {
			for _, v := range vs {
				q.Set(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (r *requestBuilder) checkStatus(status int, body []byte) error {
	if r.errorHandler != nil {
		return r.errorHandler(status, body)
	}
	if status >= 400 {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		code := apperror.CodeProtocolError
		if status >= 500 {
			code = apperror.CodeNetworkError
		}
		return apperror.New(code,
			apperror.WithContextf("%s returned HTTP %d", r.c.providerName, status),
			apperror.WithCause(errors.New(strings.TrimSpace(snippet))))
	}
	return nil
}

func (r *requestBuilder) fail(ctx context.Context, span trace.Span, err error, outcome string, start time.Time) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	r.record(ctx, outcome, start)
}

func (r *requestBuilder) record(ctx context.Context, outcome string, start time.Time) {
	attrs := make([]attribute.KeyValue, 0, len(r.labels)+2)
	attrs = append(attrs,
		attribute.String("provider", r.c.providerName),
		attribute.String("outcome", outcome),
	)
	for _, l := range r.labels {
		attrs = append(attrs, attribute.String(l.Key, l.Value))
	}

	r.c.requestCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
	if !start.IsZero() {
		r.c.requestLatency.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))
	}
}
