package emit

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/swdunlop/emit-go/tag"
)

// A Context is handed to each component as it renders.  It writes to the target of the render call, which is shared
// with every component composed during that call, so all output lands in one stream in call order.
//
// Errors are sticky, much like bufio.Writer: once an operation fails, every later operation in the same render call
// does nothing and returns the same error, and the render call returns it.  Output written before the failure stays
// in the target, which the caller is expected to discard.
type Context struct {
	s         *session
	component any
	parent    *Context
	body      Block
}

// session is the state shared by every context in one render call.
type session struct {
	target Target
	attrs  *AttrCache
	view   any
	log    zerolog.Logger
	err    error
}

func (c *Context) fail(err error) error {
	if c.s.err == nil {
		c.s.err = err
	}
	return c.s.err
}

// Err returns the error that stopped this render call, if any.
func (c *Context) Err() error { return c.s.err }

// View returns the view context provided to the render call.
func (c *Context) View() any { return c.s.view }

// Parent returns the context of the component that composed this one, or nil for the top level component.
func (c *Context) Parent() *Context { return c.parent }

// Component returns the component being rendered.
func (c *Context) Component() any { return c.component }

// Log returns the logger of the render call with the component type added.
func (c *Context) Log() *zerolog.Logger {
	log := c.s.log.With().Str(`component`, fmt.Sprintf(`%T`, c.component)).Logger()
	return &log
}

// Text escapes and appends a value as text; nil appends nothing.
func (c *Context) Text(v any) {
	if c.s.err != nil {
		return
	}
	str, ok := stringify(v)
	if !ok || str == `` {
		return
	}
	if buf, ok := c.s.target.(*Buffer); ok {
		buf.appendEscaped(str)
		return
	}
	c.s.target.Append(Escape(str))
}

// Raw appends HTML without escaping it.  This must only be used for trusted or already escaped content.
func (c *Context) Raw(html string) {
	if c.s.err != nil {
		return
	}
	c.s.target.Append(html)
}

// Whitespace appends a single space.
func (c *Context) Whitespace() { c.Raw(` `) }

// Element emits a standard element, running body (if any) through Content to produce what goes inside it.
func (c *Context) Element(t tag.Tag, attrs Attrs, body Block) error {
	return c.Emit(t, attrs, nil, body)
}

// ElementText emits a standard element containing content as escaped text.
func (c *Context) ElementText(t tag.Tag, attrs Attrs, content any) error {
	return c.Emit(t, attrs, content, nil)
}

// Void emits a self-closing element.
func (c *Context) Void(t tag.Tag, attrs Attrs) error {
	return c.Emit(t, attrs, nil, nil)
}

// Emit emits an element.  Standard elements may have either content, which is escaped as text, or a body, which is
// run through Content, but not both.  Void elements may have neither.  The element is validated and its attributes
// serialized before anything is appended, so a failure never leaves a partial tag behind.
func (c *Context) Emit(t tag.Tag, attrs Attrs, content any, body Block) error {
	if c.s.err != nil {
		return c.s.err
	}
	if err := checkElement(t, content, body); err != nil {
		return c.fail(err)
	}
	var frag string
	if len(attrs) > 0 {
		var err error
		frag, err = c.s.attrs.Serialize(attrs)
		if err != nil {
			return c.fail(fmt.Errorf(`<%s>: %w`, t.Name, err))
		}
	}

	target := c.s.target
	target.Append(`<`)
	target.Append(t.Name)
	if frag != `` {
		target.Append(frag)
	}
	if t.Kind == tag.Void {
		target.Append(`/>`)
		return nil
	}
	target.Append(`>`)

	if body != nil {
		if err := c.Content(body); err != nil {
			return err
		}
	} else {
		c.Text(content)
	}

	target = c.s.target
	target.Append(`</`)
	target.Append(t.Name)
	target.Append(`>`)
	return nil
}

func checkElement(t tag.Tag, content any, body Block) error {
	if !validName(t.Name) {
		return fmt.Errorf(`%w: %q is not a valid element name`, ErrInvalidElement, t.Name)
	}
	switch {
	case t.Kind == tag.Void && body != nil:
		return fmt.Errorf(`%w: <%s> is a void element and cannot have a block`, ErrInvalidElement, t.Name)
	case t.Kind == tag.Void && content != nil:
		return fmt.Errorf(`%w: <%s> is a void element and cannot have content`, ErrInvalidElement, t.Name)
	case content != nil && body != nil:
		return fmt.Errorf(`%w: <%s> was given both content and a block`, ErrInvalidElement, t.Name)
	}
	return nil
}

func validName(name string) bool {
	if name == `` {
		return false
	}
	for i := 0; i < len(name); i++ {
		switch name[i] {
		case '<', '>', '&', '"', '\'', '/', '=', ' ', '\t', '\n', '\r', '\f':
			return false
		}
	}
	return true
}

// Content runs a block against this context.  If the block did not append anything and returned a string, the
// string is emitted as text; if the block appended output, its return value is ignored.  This lets a block either
// return text or emit markup.
//
// A block that emits markup and also happens to return a string will only have its markup kept.
func (c *Context) Content(body Block) error {
	if c.s.err != nil || body == nil {
		return c.s.err
	}
	before := c.s.target.Len()
	out := body.call(c)
	if c.s.err != nil {
		return c.s.err
	}
	if c.s.target.Len() == before {
		if str, ok := out.(string); ok {
			c.Text(str)
		}
	}
	return nil
}

// HasBody reports whether the component was composed with a block.
func (c *Context) HasBody() bool { return c.body != nil }

// Yield runs the block the component was composed with, if any.
func (c *Context) Yield() error { return c.Content(c.body) }

// Capture runs a block against a fresh buffer and returns what it emitted instead of appending it.
func (c *Context) Capture(body Block) (string, error) {
	if c.s.err != nil {
		return ``, c.s.err
	}
	prev := c.s.target
	buf := NewBuffer(256)
	c.s.target = buf
	defer func() { c.s.target = prev }()
	if err := c.Content(body); err != nil {
		return ``, err
	}
	return buf.String(), nil
}
