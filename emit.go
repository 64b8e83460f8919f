// Package emit builds HTML by having components write escaped markup into a shared buffer.  A render call hands the
// top level component a Context bound to a Target; the component emits text and elements through the Context and
// composes other components, which write into the same Target, so the finished HTML is simply the Target's content.
//
// Attribute sets are serialized once per distinct content and cached for the life of the process in an AttrCache.
package emit

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// New constructs a Renderer and applies the provided options.
func New(options ...Option) *Renderer {
	cfg := config{cache: DefaultAttrCache, log: zerolog.Nop()}
	for _, option := range options {
		option(&cfg)
	}
	return &Renderer{cfg}
}

// Cache specifies the attribute cache used by the renderer.  By default, this is DefaultAttrCache.
func Cache(cache *AttrCache) Option {
	return func(cfg *config) { cfg.cache = cache }
}

// Logger specifies the logger for render calls and Context.Log.  By default, nothing is logged.
func Logger(log zerolog.Logger) Option {
	return func(cfg *config) { cfg.log = log }
}

// Observe registers a function that is called after each render call completes.
func Observe(fn func(Observation)) Option {
	return func(cfg *config) { cfg.observers = append(cfg.observers, fn) }
}

// An Option affects the configuration of a new Renderer.
type Option func(*config)

type config struct {
	cache     *AttrCache
	log       zerolog.Logger
	observers []func(Observation)
}

// An Observation describes a completed render call.
type Observation struct {
	Component string        // the Go type of the top level component.
	Wrote     int           // bytes appended to the target.
	Took      time.Duration // time spent rendering.
	Err       error         // the error that stopped the render, if any.
}

// A Renderer performs render calls.  It is safe for concurrent use, as long as each call has its own Target.
type Renderer struct {
	cfg config
}

// Render renders v, which must be a Component, into the target with the provided view context.  If this returns an
// error, the target may hold partial output that should be discarded rather than served.
func (r *Renderer) Render(target Target, view any, v any) error {
	start := time.Now()
	before := target.Len()
	s := &session{target: target, attrs: r.cfg.cache, view: view, log: r.cfg.log}
	err := compose(s, nil, v, nil)

	obs := Observation{
		Component: fmt.Sprintf(`%T`, v),
		Wrote:     target.Len() - before,
		Took:      time.Since(start),
		Err:       err,
	}
	var evt *zerolog.Event
	if err != nil {
		evt = r.cfg.log.Warn().Err(err)
	} else {
		evt = r.cfg.log.Debug()
	}
	evt.Str(`component`, obs.Component).
		Int(`wrote`, obs.Wrote).
		Dur(`took`, obs.Took).
		Msg(`render`)
	for _, fn := range r.cfg.observers {
		fn(obs)
	}
	return err
}

// Bytes renders v into a new buffer and returns its content.
func (r *Renderer) Bytes(view any, v any) ([]byte, error) {
	buf := NewBuffer(4096)
	err := r.Render(buf, view, v)
	return buf.Bytes(), err
}

var defaultRenderer = New()

// Render renders v into the target using DefaultAttrCache and no view context.
func Render(target Target, v any) error { return defaultRenderer.Render(target, nil, v) }

// String renders v and returns the result as a string.
func String(v any) (string, error) {
	buf := NewBuffer(1024)
	err := Render(buf, v)
	return buf.String(), err
}
