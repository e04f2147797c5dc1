package v1handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"mdconvert/pkg/logger"
	"mdconvert/pkg/serrors"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// ConvertRequest is the body of POST /api/convert.
type ConvertRequest struct {
	Markdown string
	// HasMarkdown reports whether the markdown field was present.
	HasMarkdown bool
}

// Decode reads the request from a JSON object. Unknown fields are ignored
// and a null markdown counts as absent.
func (r *ConvertRequest) Decode(d *jx.Decoder) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "markdown" {
			return d.Skip()
		}
		if d.Next() == jx.Null {
			return d.Null()
		}

		v, err := d.Str()
		if err != nil {
			return err
		}
		r.Markdown = v
		r.HasMarkdown = true

		return nil
	})
}

// decodeRequest decodes exactly one JSON object; trailing whitespace is the
// only thing allowed after it.
func decodeRequest(body []byte, req *ConvertRequest) error {
	d := jx.DecodeBytes(body)
	if err := req.Decode(d); err != nil {
		return err
	}
	if d.Next() != jx.Invalid {
		return errors.New("unexpected data after JSON object")
	}

	return nil
}

// Convert handles POST /api/convert?format={docx|xlsx}.
func (h Handler) Convert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.WriteError(ctx, w, serrors.With(serrors.ErrMethodNotAllowed, "method %s not allowed", r.Method))

		return
	}

	format := r.URL.Query().Get("format")
	if strings.TrimSpace(format) == "" {
		h.WriteError(ctx, w, serrors.With(serrors.ErrBadRequest, "format query parameter is required"))

		return
	}
	ctx = logger.WithFields(ctx, zap.String("format", format))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.WriteError(ctx, w, serrors.Wrap(serrors.ErrTooLarge, err,
				"request body exceeds %d bytes", tooLarge.Limit))
		} else {
			h.WriteError(ctx, w, serrors.Wrap(serrors.ErrBadRequest, err, "could not read request body"))
		}

		return
	}

	var req ConvertRequest
	if err := decodeRequest(body, &req); err != nil {
		h.WriteError(ctx, w, serrors.Wrap(serrors.ErrBadRequest, err, "invalid JSON body"))

		return
	}
	if !req.HasMarkdown {
		h.WriteError(ctx, w, serrors.With(serrors.ErrBadRequest, "markdown field is required"))

		return
	}

	artifact, err := h.deps.Converter.Convert(ctx, req.Markdown, format)
	if err != nil {
		h.WriteError(ctx, w, err)

		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(artifact.Size()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifact.Data); err != nil {
		logger.Warn(ctx, "could not write response", zap.Error(err))
	}
}
