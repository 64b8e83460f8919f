// Package hog provides middleware for logging HTTP requests in a service and recovering from panics using
// zerolog and a minimum of spam, along with Render for serving emit components from those requests.
package hog

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// An Inject extends a request log context, such as with the user or request ID.
type Inject func(zerolog.Context) zerolog.Context

// RequestID injects the request ID assigned by chi's RequestID middleware, if there is one.
func RequestID(r *http.Request) Inject {
	return func(z zerolog.Context) zerolog.Context {
		if id := middleware.GetReqID(r.Context()); id != `` {
			return z.Str(`request_id`, id)
		}
		return z
	}
}

// From will return the logger from the provided context.  This is introduced into a request context by the
// Middleware.  We use the same context key as zerolog Ctx and WithContext to improve interoperability.
func From(ctx context.Context, injects ...Inject) *zerolog.Logger {
	log := zerolog.Ctx(ctx)
	if len(injects) == 0 {
		return log
	}
	next := apply(log.With(), injects).Logger()
	return &next
}

// With returns a new context with the provided injectors applied to the log context.  If there are no injectors, then
// the context is returned unchanged.
func With(ctx context.Context, injects ...Inject) context.Context {
	if len(injects) == 0 {
		return ctx
	}
	return apply(zerolog.Ctx(ctx).With(), injects).Logger().WithContext(ctx)
}

// For will return a logger for the provided request, applying any injectors to the log context.  It will add the
// following fields to the log context:
//
//   - remote_addr: the remote address of the request
//   - method: the HTTP method of the request
//   - path: the path of the request
//   - request_id: the chi request ID, if any
//
// NOTE: This is not necessary if you are using Middleware.
func For(r *http.Request, injects ...Inject) *zerolog.Logger {
	z := zerolog.Ctx(r.Context()).With().
		Str(`remote_addr`, r.RemoteAddr).
		Str(`method`, r.Method).
		Str(`path`, r.URL.Path)
	z = RequestID(r)(z)
	log := apply(z, injects).Logger()
	return &log
}

func apply(z zerolog.Context, injects []Inject) zerolog.Context {
	for _, inject := range injects {
		z = inject(z)
	}
	return z
}

// Middleware returns a middleware that logs requests and recovers from panics.  The base logger is placed into each
// request context before For extends it, so handlers can use From(r.Context()).  Fields logged after the middleware
// completes:
//
//   - status: the HTTP status code of the response
//   - wrote: the number of bytes written to the response
//   - took: the number of milliseconds the request took to process
//   - panic: the panic message, if the request panicked
//   - stack: the stack trace, if the request panicked, as a list of strings where each string is a function and line.
func Middleware(base zerolog.Logger, injects ...Inject) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			r = r.WithContext(base.WithContext(r.Context()))
			log := For(r, injects...)
			r = r.WithContext(log.WithContext(r.Context()))
			defer logResponse(log, ww, start)
			next.ServeHTTP(ww, r)
		})
	}
}

func logResponse(log *zerolog.Logger, ww middleware.WrapResponseWriter, start time.Time) {
	var evt *zerolog.Event
	if e := recover(); e != nil {
		if e == http.ErrAbortHandler {
			panic(e) // rethrow, http will handle it.
		}
		evt = logRecovery(log, e)
		if ww.Status() == 0 {
			ww.WriteHeader(http.StatusInternalServerError)
		}
	} else {
		status := ww.Status()
		switch {
		case status >= 500:
			evt = log.Error()
		case status >= 400:
			evt = log.Warn()
		default:
			evt = log.Info()
		}
		evt = evt.Int(`status`, status)
	}
	evt.Int(`wrote`, ww.BytesWritten()).
		Int64(`took`, time.Since(start).Milliseconds()).
		Msg(``)
}

func logRecovery(log *zerolog.Logger, e any) *zerolog.Event {
	evt := log.WithLevel(zerolog.PanicLevel)
	evt = addStackTrace(evt, 4)
	return evt.Str(`panic`, fmt.Sprint(e))
}

func addStackTrace(evt *zerolog.Event, skip int) *zerolog.Event {
	var calls [64]uintptr
	n := runtime.Callers(skip+1, calls[:])
	frames := runtime.CallersFrames(calls[:n])
	stack := make([]string, 0, n)
	for {
		frame, more := frames.Next()
		if frame.Function != `` {
			stack = append(stack, fmt.Sprintf(`%v:%v`, frame.Function, frame.Line))
		}
		if !more {
			break
		}
	}
	return evt.Strs(`stack`, stack)
}
