// Package v1handler implements the version 1 HTTP API: document conversion
// and bearer token authentication.
package v1handler

import (
	"context"
	"net/http"

	"mdconvert/internal/config"
	"mdconvert/internal/converter"
	"mdconvert/pkg/controller"
	"mdconvert/pkg/logger"
	"mdconvert/pkg/serrors"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// DefaultMaxBodyBytes limits request bodies when Options leaves it unset.
const DefaultMaxBodyBytes = 10 << 20

// Deps are the services the handlers delegate to.
type Deps struct {
	Converter converter.Converter
}

// Options tune request handling.
type Options struct {
	// MaxBodyBytes caps the size of a conversion request body.
	MaxBodyBytes int64
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{MaxBodyBytes: cfg.HTTP.MaxBodyBytes}
}

type Handler struct {
	deps Deps
	opts Options
}

func New(deps Deps, opts Options) *Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	return &Handler{deps: deps, opts: opts}
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Code      string
	Message   string
	RequestID string
}

// Encode writes the response as a JSON object.
func (r ErrorResponse) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Str(r.Code) })
		e.Field("message", func(e *jx.Encoder) { e.Str(r.Message) })
		if r.RequestID != "" {
			e.Field("requestId", func(e *jx.Encoder) { e.Str(r.RequestID) })
		}
	})
}

// ErrorStatusCode pairs an ErrorResponse with its HTTP status.
type ErrorStatusCode struct {
	StatusCode int
	Response   ErrorResponse
}

// NewError maps err to a client-facing response. The cause of internal
// failures is logged and replaced with a generic message; the request ID
// lets operators find the log entry.
func (h Handler) NewError(ctx context.Context, err error) *ErrorStatusCode {
	kind := serrors.KindOf(err)
	status, fallback := statusOf(kind)

	msg := serrors.MessageOf(err)
	if msg == "" || status >= http.StatusInternalServerError {
		msg = fallback
	}

	if status >= http.StatusInternalServerError {
		logger.Error(ctx, "request failed", zap.Error(err))
	} else {
		logger.Warn(ctx, "request rejected", zap.Error(err))
	}

	return &ErrorStatusCode{
		StatusCode: status,
		Response: ErrorResponse{
			Code:      kind.Error(),
			Message:   msg,
			RequestID: controller.RequestID(ctx),
		},
	}
}

func statusOf(kind serrors.Kind) (int, string) {
	switch kind {
	case serrors.ErrBadRequest:
		return http.StatusBadRequest, "bad request"
	case serrors.ErrUnauthorized:
		return http.StatusUnauthorized, "unauthorized"
	case serrors.ErrMethodNotAllowed:
		return http.StatusMethodNotAllowed, "method not allowed"
	case serrors.ErrUnprocessable:
		return http.StatusUnprocessableEntity, "content cannot be converted"
	case serrors.ErrTooLarge:
		return http.StatusRequestEntityTooLarge, "request body too large"
	case serrors.ErrTimeout:
		return http.StatusServiceUnavailable, "request timed out"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// TimeoutBody is the JSON error served when a request runs out of time.
func TimeoutBody(r *http.Request) string {
	res := ErrorResponse{
		Code:      serrors.ErrTimeout.Error(),
		Message:   "request timed out",
		RequestID: controller.RequestID(r.Context()),
	}

	var e jx.Encoder
	res.Encode(&e)

	return string(e.Bytes())
}

// WriteError writes the response NewError builds for err.
func (h Handler) WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	res := h.NewError(ctx, err)

	var e jx.Encoder
	res.Response.Encode(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)
	_, _ = w.Write(e.Bytes())
}
