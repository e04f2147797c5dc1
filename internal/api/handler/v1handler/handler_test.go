package v1handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"mdconvert/internal/api/handler/v1handler"
	"mdconvert/pkg/controller"
	"mdconvert/pkg/logger"
	"mdconvert/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.TestEnvironment)
	m.Run()
}

func newHandler() *v1handler.Handler {
	return v1handler.New(v1handler.Deps{}, v1handler.Options{})
}

func TestNewError_InternalOnPlainError(t *testing.T) {
	ctx := controller.ContextWithRequestID(context.Background(), "req-1")

	res := newHandler().NewError(ctx, errors.New("zip: write failed"))
	require.NotNil(t, res)
	require.Equal(t, 500, res.StatusCode)
	require.Equal(t, serrors.ErrInternal.Error(), res.Response.Code)
	require.Equal(t, "internal error", res.Response.Message)
	require.Equal(t, "req-1", res.Response.RequestID)
}

func TestNewError_InternalHidesMessage(t *testing.T) {
	err := serrors.Wrap(serrors.ErrInternal, errors.New("secret path /tmp/x"), "could not render docx")
	res := newHandler().NewError(context.Background(), err)
	require.Equal(t, 500, res.StatusCode)
	require.Equal(t, "internal error", res.Response.Message)
}

func TestNewError_KindMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    serrors.Kind
		message string
	}{
		{
			name:    "bad request keeps message",
			err:     serrors.With(serrors.ErrBadRequest, "unsupported format: pdf"),
			status:  400,
			code:    serrors.ErrBadRequest,
			message: "unsupported format: pdf",
		},
		{
			name:    "unauthorized keeps message not cause",
			err:     serrors.Wrap(serrors.ErrUnauthorized, errors.New("bad token"), "unauthorized"),
			status:  401,
			code:    serrors.ErrUnauthorized,
			message: "unauthorized",
		},
		{
			name:    "bare kind gets default message",
			err:     serrors.ErrMethodNotAllowed,
			status:  405,
			code:    serrors.ErrMethodNotAllowed,
			message: "method not allowed",
		},
		{
			name:    "unprocessable",
			err:     serrors.Wrap(serrors.ErrUnprocessable, errors.New("markdown contains no tables"), "xlsx output requires at least one table"),
			status:  422,
			code:    serrors.ErrUnprocessable,
			message: "xlsx output requires at least one table",
		},
		{
			name:    "too large",
			err:     serrors.With(serrors.ErrTooLarge, "request body exceeds 10 bytes"),
			status:  413,
			code:    serrors.ErrTooLarge,
			message: "request body exceeds 10 bytes",
		},
		{
			name:    "timeout",
			err:     serrors.Wrap(serrors.ErrTimeout, context.DeadlineExceeded, "conversion aborted"),
			status:  503,
			code:    serrors.ErrTimeout,
			message: "request timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newHandler().NewError(context.Background(), tt.err)
			require.Equal(t, tt.status, res.StatusCode)
			require.Equal(t, tt.code.Error(), res.Response.Code)
			require.Equal(t, tt.message, res.Response.Message)
		})
	}
}

func TestWriteError_JSONBody(t *testing.T) {
	ctx := controller.ContextWithRequestID(context.Background(), "req-9")
	rec := httptest.NewRecorder()

	newHandler().WriteError(ctx, rec, serrors.With(serrors.ErrBadRequest, `bad "quote"`))

	require.Equal(t, 400, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, map[string]string{
		"code":      "BAD_REQUEST",
		"message":   `bad "quote"`,
		"requestId": "req-9",
	}, body)
}

func TestTimeoutBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/convert", nil)
	r = r.WithContext(controller.ContextWithRequestID(r.Context(), "req-7"))

	require.JSONEq(t, `{"code":"TIMEOUT","message":"request timed out","requestId":"req-7"}`, v1handler.TimeoutBody(r))

	require.JSONEq(t, `{"code":"TIMEOUT","message":"request timed out"}`,
		v1handler.TimeoutBody(httptest.NewRequest("POST", "/api/convert", nil)))
}
