package emit

import "fmt"

// A Component renders itself through a Context.  Arguments to a component are the fields of the value; the view
// context, the composing component and the block it was given are available through the Context.
type Component interface {
	Template(c *Context)
}

// ComponentFunc adapts a function into a Component.
type ComponentFunc func(c *Context)

// Template implements Component.
func (fn ComponentFunc) Template(c *Context) { fn(c) }

// Compose renders a nested component into the same target as c.  If body is provided, it is bound to the component
// that c is rendering before being handed down, so when the nested component yields it, it still runs as c's
// component.  Compose fails with ErrNotAComponent, without appending anything, if v does not implement Component.
func (c *Context) Compose(v any, body Block) error {
	if c.s.err != nil {
		return c.s.err
	}
	return compose(c.s, c, v, bind(c, body))
}

func compose(s *session, parent *Context, v any, body Block) error {
	component, ok := v.(Component)
	if !ok {
		err := fmt.Errorf(`%w: %T does not implement Template`, ErrNotAComponent, v)
		if s.err == nil {
			s.err = err
		}
		return s.err
	}
	component.Template(&Context{s: s, component: component, parent: parent, body: body})
	return s.err
}

// Group is a component that composes each of its members in order.
type Group []Component

// Template implements Component.
func (g Group) Template(c *Context) {
	for _, item := range g {
		if c.Compose(item, nil) != nil {
			return
		}
	}
}

// Text is a component that emits itself as escaped text.
type Text string

// Template implements Component.
func (t Text) Template(c *Context) { c.Text(string(t)) }

// HTML is a component that emits itself without escaping; it must only hold trusted markup.
type HTML string

// Template implements Component.
func (h HTML) Template(c *Context) { c.Raw(string(h)) }

// Static renders a component once with the default renderer and returns a component that replays the result.  This
// speeds up content that never changes, like buttons and headers.
func Static(v any) (Component, error) {
	buf := NewBuffer(1024)
	if err := Render(buf, v); err != nil {
		return nil, err
	}
	return HTML(buf.String()), nil
}

// MustStatic is like Static but panics if the component cannot be rendered.  It is meant for package variables.
func MustStatic(v any) Component {
	content, err := Static(v)
	if err != nil {
		panic(err)
	}
	return content
}
