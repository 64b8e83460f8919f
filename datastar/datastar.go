// Package datastar streams rendered components to Datastar clients as Server Sent Events (SSE).  Each patch is
// rendered with emit before it is framed, and newlines in the HTML are encoded as entities so a component can never
// smuggle an extra SSE field into the stream.
package datastar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/swdunlop/emit-go"
)

// RequestStream examines a http.Request and http.ResponseWriter, and if possible, returns a Stream that supports
// emitting Datastar events.  This will return an error if the request does not accept SSE, or if the response writer
// cannot be flushed (a requirement for SSE in Go, since requests may otherwise buffer in ways that interfere with
// streaming events).
//
// If this returns a stream, content cannot be written to the underlying writer using Write.
func RequestStream(w http.ResponseWriter, r *http.Request) (Stream, error) {
	if !acceptsSSE(r) {
		return nil, fmt.Errorf(`client does not accept SSE`)
	}
	wf, ok := w.(writeFlusher)
	if !ok {
		return nil, fmt.Errorf(`response writer cannot be flushed`)
	}
	h := wf.Header()
	h.Set(`Content-Type`, `text/event-stream`)
	h.Set(`Cache-Control`, `no-cache`)
	h.Set(`Connection`, `keep-alive`)
	wf.WriteHeader(200)
	wf.Flush()
	return &stream{make([]byte, 0, 16384), wf}, nil
}

type writeFlusher interface {
	http.Flusher
	http.ResponseWriter
}

type stream struct {
	buf []byte
	out writeFlusher
}

func (sm *stream) Emit(events ...Event) error {
	buf := sm.buf[:0]
	defer func() { sm.buf = buf[:0] }()
	var err error
	for _, event := range events {
		buf, err = event.appendEvent(buf)
		if err != nil {
			return err
		}
	}
	if _, err = sm.out.Write(buf); err != nil {
		return err
	}
	sm.out.Flush()
	return nil
}

// Stream describes a stream of Server Sent Events that will be sent to a Datastar client.
type Stream interface {
	// Emit renders and sends a batch of Datastar events to the client.  Nothing is sent if any event fails to
	// render.
	Emit(events ...Event) error
}

// An Event describes an event that can be sent to a Datastar client via SSE.  Various utility functions in this
// package produce events.
type Event interface {
	// appendEvent appends the event to a buffer of server sent events for output.
	appendEvent(buf []byte) ([]byte, error)
}

// Batch renders a set of events once, producing an event that is (marginally) faster to send repeatedly.
func Batch(events ...Event) (Event, error) {
	buf := make([]byte, 0, 1024)
	var err error
	for _, event := range events {
		buf, err = event.appendEvent(buf)
		if err != nil {
			return nil, err
		}
	}
	return batch(buf), nil
}

type batch []byte

func (evt batch) appendEvent(buf []byte) ([]byte, error) { return append(buf, evt...), nil }

// Elements produces a Datastar event that tells Datastar to patch elements presented by the client with the HTML
// rendered by content.
//
// See https://data-star.dev/reference/sse_events#datastar-patch-elements
func Elements(content emit.Component, options ...ElementsOption) Event {
	evt := elements{content: content, renderer: defaultRenderer}
	for _, option := range options {
		option(&evt)
	}
	return &evt
}

var defaultRenderer = emit.New()

// Mode affects how elements are patched by Datastar.  The last Mode specified as an option "wins."
//
// This will panic if the mode contains a newline.
func Mode(mode string) ElementsOption {
	if strings.Contains(mode, "\n") {
		panic(errors.New(`Modes cannot contain newlines`))
	}
	return func(p *elements) { p.mode = mode }
}

// Selector affects which elements are patched by Datastar.  The last Selector specified as an option "wins."
//
// This will panic if the selector contains a newline.
func Selector(selector string) ElementsOption {
	if strings.Contains(selector, "\n") {
		panic(errors.New(`Selectors cannot contain newlines`))
	}
	return func(p *elements) { p.selector = selector }
}

// Renderer specifies the renderer used for the content, which is useful for logging and metrics.  By default, a
// renderer using emit.DefaultAttrCache is used.
func Renderer(r *emit.Renderer) ElementsOption {
	return func(p *elements) { p.renderer = r }
}

// ElementsOption affects how elements are patched by the Datastar client.
type ElementsOption func(*elements)

type elements struct {
	content  emit.Component
	renderer *emit.Renderer
	mode     string
	selector string
}

func (p *elements) appendEvent(buf []byte) ([]byte, error) {
	const (
		eventPrefix    = "event: datastar-patch-elements"
		modePrefix     = "\ndata: mode "
		selectorPrefix = "\ndata: selector "
		elementsPrefix = "\ndata: elements "
	)

	content := emit.NewBuffer(1024)
	if err := p.renderer.Render(content, nil, p.content); err != nil {
		return buf, err
	}
	html := content.Bytes()

	sz := len(eventPrefix) + len(elementsPrefix) + len(html) + 2
	if p.mode != `` {
		sz += len(modePrefix) + len(p.mode)
	}
	if p.selector != `` {
		sz += len(selectorPrefix) + len(p.selector)
	}

	buf = slices.Grow(buf, sz)
	buf = append(buf, eventPrefix...)
	if p.mode != `` {
		buf = append(buf, modePrefix...)
		buf = append(buf, p.mode...)
	}
	if p.selector != `` {
		buf = append(buf, selectorPrefix...)
		buf = append(buf, p.selector...)
	}

	buf = append(buf, elementsPrefix...)
	for len(html) > 0 {
		ofs := bytes.IndexByte(html, '\n')
		if ofs < 0 {
			buf, html = append(buf, html...), nil
		} else {
			// according to https://data-star.dev/reference/sse_events#datastar-patch-elements
			// we could also use "\ndata: elements "
			buf, html = append(buf, html[:ofs]...), html[ofs+1:]
			buf = append(buf, `&#10;`...)
		}
	}
	return append(buf, '\n', '\n'), nil
}

// Signal produces a Datastar event that tells Datastar to patch the client state.
//
// See https://data-star.dev/reference/sse_events#datastar-patch-signals
func Signal(v any) Event { return signal{false, v} }

// SignalIfMissing produces a Datastar event that tells Datastar to patch the client state where it is missing.
//
// See https://data-star.dev/reference/sse_events#datastar-patch-signals
func SignalIfMissing(v any) Event { return signal{true, v} }

type signal struct {
	onlyIfMissing bool
	data          any
}

func (evt signal) appendEvent(buf []byte) ([]byte, error) {
	header := "event: datastar-patch-signals\ndata: signals "
	if evt.onlyIfMissing {
		header = "event: datastar-patch-signals\ndata: onlyIfMissing true\ndata: signals "
	}
	js, err := json.Marshal(evt.data)
	if err != nil {
		return buf, err
	}
	buf = slices.Grow(buf, len(header)+len(js)+2)
	buf = append(buf, header...)
	buf = append(buf, js...)
	return append(buf, '\n', '\n'), nil
}

func acceptsSSE(r *http.Request) bool {
	return acceptsContentTypes(r, `text/event-stream`, `text/*`, `*/*`)
}

func acceptsContentTypes(r *http.Request, contentTypes ...string) bool {
	headers := r.Header[`Accept`]
	if len(headers) == 0 {
		return true // dumb client, probably netcat, probably accepts anything.
	}

	for _, header := range headers {
		for _, accept := range strings.Split(header, `,`) {
			accept = strings.SplitN(accept, `;`, 2)[0]
			accept = strings.TrimSpace(accept)
			if accept == `*/*` || slices.Contains(contentTypes, accept) {
				return true
			}
			if prefix, ok := strings.CutSuffix(accept, `*`); ok && strings.HasSuffix(prefix, `/`) {
				for _, ct := range contentTypes {
					if strings.HasPrefix(ct, prefix) {
						return true
					}
				}
			}
		}
	}
	return false
}
