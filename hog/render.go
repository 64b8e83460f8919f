package hog

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/blake2b"

	"github.com/swdunlop/emit-go"
)

var tracer = otel.Tracer(`github.com/swdunlop/emit-go/hog`)

// Render renders a component with the request as its view context and writes it as the response.  The whole document
// is rendered before anything is written, so a failed render becomes a 500 instead of a truncated page.  Successful
// responses carry a content hash as their ETag, and a matching If-None-Match turns a 200 into a 304.
//
// If renderer is nil, a renderer logging through the request logger is used.
func Render(w http.ResponseWriter, r *http.Request, status int, renderer *emit.Renderer, v any) error {
	ctx, span := tracer.Start(r.Context(), `emit.render`, trace.WithAttributes(
		attribute.String(`emit.component`, fmt.Sprintf(`%T`, v)),
	))
	defer span.End()
	log := From(ctx)
	if renderer == nil {
		renderer = emit.New(emit.Logger(*log))
	}

	buf := emit.NewBuffer(8192)
	if err := renderer.Render(buf, r, v); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, `render failed`)
		log.Error().Err(err).Msg(`render failed`)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}
	span.SetAttributes(attribute.Int(`emit.wrote`, buf.Len()))

	h := w.Header()
	h.Set(`Content-Type`, `text/html; charset=utf-8`)
	if status == http.StatusOK {
		etag := ETag(buf.Bytes())
		h.Set(`ETag`, etag)
		if r.Header.Get(`If-None-Match`) == etag {
			w.WriteHeader(http.StatusNotModified)
			return nil
		}
	}
	h.Set(`Content-Length`, strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return nil
	}
	_, err := buf.WriteTo(w)
	return err
}

// ETag returns a strong entity tag for a rendered document.
func ETag(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}
