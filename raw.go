package emit

import (
	"fmt"
	"strings"
)

// Doctype emits the HTML5 doctype.
func (c *Context) Doctype() { c.Raw(`<!DOCTYPE html>`) }

// Comment emits an HTML comment.  HTML5 has no way to escape "-->" inside a comment, so that fails with
// ErrUnsafeContent.
func (c *Context) Comment(text string) error {
	if strings.Contains(text, `-->`) {
		return c.fail(fmt.Errorf(`%w: comment contains "-->"`, ErrUnsafeContent))
	}
	c.Raw(`<!--`)
	c.Raw(text)
	c.Raw(`-->`)
	return c.s.err
}

// Script emits a script element with its body unescaped, since HTML5 does not decode entities in scripts.  A body
// containing "</script" fails with ErrUnsafeContent.
func (c *Context) Script(attrs Attrs, js string) error {
	return c.rawElement(`script`, attrs, js)
}

// Style emits a style element with its body unescaped.  A body containing "</style" fails with ErrUnsafeContent.
func (c *Context) Style(attrs Attrs, css string) error {
	return c.rawElement(`style`, attrs, css)
}

func (c *Context) rawElement(name string, attrs Attrs, body string) error {
	if c.s.err != nil {
		return c.s.err
	}
	end := `</` + name
	if strings.Contains(strings.ToLower(body), end) {
		return c.fail(fmt.Errorf(`%w: %s contains %q`, ErrUnsafeContent, name, end))
	}
	var frag string
	if len(attrs) > 0 {
		var err error
		if frag, err = c.s.attrs.Serialize(attrs); err != nil {
			return c.fail(fmt.Errorf(`<%s>: %w`, name, err))
		}
	}
	target := c.s.target
	target.Append(`<`)
	target.Append(name)
	target.Append(frag)
	target.Append(`>`)
	target.Append(body)
	target.Append(end)
	target.Append(`>`)
	return nil
}
