package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/multichain-arb/internal/apperror"
)

type spot struct {
	Data struct {
		Amount string `json:"amount"`
	} `json:"data"`
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...ClientOption) *InstrumentedClient {
	t.Helper()
	opts = append([]ClientOption{WithBaseURL(srv.URL), WithProviderName("test")}, opts...)
	c, err := NewInstrumentedClient(opts...)
	require.NoError(t, err)
	return c
}

func TestGet_DecodesResultAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/prices/BNB-USD/spot", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"data":{"amount":"612.34"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)

	var out spot
	resp, err := c.NewRequest(WithLabels(NewLabel("endpoint", "spot"))).
		SetQueryParam("vs_currencies", "usd").
		SetResult(&out).
		Get(context.Background(), "/v2/prices/BNB-USD/spot")

	require.NoError(t, err)
	assert.False(t, resp.IsError())
	assert.Equal(t, "612.34", out.Data.Amount)
}

func TestGet_ErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		timeout time.Duration
		want    apperror.Code
	}{
		{
			name: "http_status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"status":{"error_code":429}}`))
			},
			want: apperror.CodeProtocolError,
		},
		{
			name: "server_error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			want: apperror.CodeNetworkError,
		},
		{
			name: "malformed_body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`<html>`))
			},
			want: apperror.CodeProtocolError,
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				time.Sleep(200 * time.Millisecond)
				w.Write([]byte(`{}`))
			},
			timeout: 20 * time.Millisecond,
			want:    apperror.CodeNetworkError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			var opts []ClientOption
			if tt.timeout > 0 {
				opts = append(opts, WithRequestTimeout(tt.timeout))
			}
			c := newTestClient(t, srv, opts...)

			var out spot
			_, err := c.NewRequest().SetResult(&out).Get(context.Background(), "/")
			require.Error(t, err)
			assert.Equal(t, tt.want, apperror.GetCode(err))
		})
	}
}

func TestGet_CustomErrorHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)

	_, err := c.NewRequest(WithResponseErrorHandler(func(int, []byte) error { return nil })).
		Get(context.Background(), "/missing")
	assert.NoError(t, err)
}
