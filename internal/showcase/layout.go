// Package showcase holds the components served by emitd: a page layout, a todo list driven by HTMX and a data page
// built from dataviews.
package showcase

import (
	"github.com/swdunlop/emit-go"
	"github.com/swdunlop/emit-go/tag"
)

// A Layout is a full HTML document.  The block it is composed with becomes the page body, under a heading with the
// title.
type Layout struct {
	Title      string
	Stylesheet string
	Head       emit.Component // extra head content, such as a dead man's switch; may be nil.
}

var (
	htmlAttrs  = emit.Attrs{{Name: `lang`, Value: `en`}}
	charset    = emit.Attrs{{Name: `charset`, Value: `utf-8`}}
	viewport   = emit.Attrs{{Name: `name`, Value: `viewport`}, {Name: `content`, Value: `width=device-width, initial-scale=1`}}
	htmxScript = emit.Attrs{{Name: `src`, Value: `https://unpkg.com/htmx.org@1.9.12`}, {Name: `defer`, Value: true}}
)

// Template implements emit.Component.
func (l Layout) Template(c *emit.Context) {
	c.Doctype()
	c.Element(tag.HTML, htmlAttrs, emit.Do(func(c *emit.Context) {
		c.Element(tag.Head, nil, emit.Do(func(c *emit.Context) {
			c.Void(tag.Meta, charset)
			c.Void(tag.Meta, viewport)
			c.ElementText(tag.Title, nil, l.Title)
			c.Style(nil, baseStylesheet+l.Stylesheet)
			c.Script(htmxScript, ``)
			if l.Head != nil {
				c.Compose(l.Head, nil)
			}
		}))
		c.Element(tag.Body, nil, emit.Do(func(c *emit.Context) {
			c.ElementText(tag.H1, nil, l.Title)
			if !c.HasBody() {
				c.Log().Warn().Msg(`layout composed without a body`)
				return
			}
			c.Element(tag.Main, nil, emit.Do(func(c *emit.Context) { c.Yield() }))
		}))
	}))
}

const baseStylesheet = `
body{ background-color: #111; color: #eee; font-family: sans-serif; }
button{ margin: 0 .5em; }
`
