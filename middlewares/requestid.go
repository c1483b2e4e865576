package middlewares

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/webtools/pkg/logger"
)

// RequestIDHeader is echoed on every response.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen bounds the length of accepted upstream IDs.
const maxRequestIDLen = 128

type requestIDKey struct{}

// DefaultRequestIDHeaders are checked in order for an upstream ID.
var DefaultRequestIDHeaders = []string{RequestIDHeader, "X-Correlation-ID"}

type requestIDOptions struct {
	headers  []string
	generate func() string
}

// RequestIDOption configures RequestID.
type RequestIDOption func(*requestIDOptions)

// WithRequestIDHeaders replaces the headers checked for an upstream ID.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(o *requestIDOptions) {
		o.headers = headers
	}
}

// WithRequestIDGenerator replaces uuid.NewString as the ID source.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(o *requestIDOptions) {
		if gen != nil {
			o.generate = gen
		}
	}
}

// RequestID tags each request with an ID, reusing a well-formed upstream one.
// The ID is stored in the request context and sent back in X-Request-ID.
func RequestID(opts ...RequestIDOption) func(http.Handler) http.Handler {
	o := requestIDOptions{headers: DefaultRequestIDHeaders, generate: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := upstreamID(r, o.headers)
			if id == "" {
				id = o.generate()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
		})
	}
}

func upstreamID(r *http.Request, headers []string) string {
	for _, h := range headers {
		if v := r.Header.Get(h); v != "" && validRequestID(v) {
			return v
		}
	}
	return ""
}

// validRequestID accepts short printable ASCII without spaces, so upstream
// IDs cannot inject into log lines.
func validRequestID(id string) bool {
	if len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// GetRequestID returns the request ID stored in ctx, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDExtractor adds "request_id" to log records emitted with a
// request context.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id := GetRequestID(ctx)
		if id == "" {
			return slog.Attr{}, false
		}
		return slog.String("request_id", id), true
	}
}
