package emit

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/swdunlop/emit-go/tag"
)

// layout wraps whatever it is given in a main element with a heading.
type layout struct{ Title string }

func (l layout) Template(c *Context) {
	c.Element(tag.Main, nil, Do(func(c *Context) {
		c.ElementText(tag.H1, nil, l.Title)
		c.Yield()
	}))
}

// card yields into a section, composing its body through another layer.
type card struct{}

func (card) Template(c *Context) {
	c.Element(tag.Section, Class(`card`), Do(func(c *Context) {
		c.Compose(layout{`card`}, Do(func(c *Context) { c.Yield() }))
	}))
}

// page records the component and parent seen by the blocks it hands down.
type page struct {
	seen *[]string
}

func (p page) Template(c *Context) {
	c.Compose(layout{`Home`}, Do(func(c *Context) {
		*p.seen = append(*p.seen, fmt.Sprintf(`%T`, c.Component()))
		c.ElementText(tag.P, nil, `body`)
	}))
}

func TestCompose(t *testing.T) {
	test(t, `Order`, `a<b>b</b><span>c</span>d`, func(c *Context) {
		c.Text(`a`)
		c.Compose(ComponentFunc(func(c *Context) {
			c.ElementText(tag.B, nil, `b`)
			c.ElementText(tag.Span, nil, `c`)
		}), nil)
		c.Text(`d`)
	})
	test(t, `Yield`, `<main><h1>Title</h1><p>body</p></main>`, func(c *Context) {
		c.Compose(layout{`Title`}, Do(func(c *Context) {
			c.ElementText(tag.P, nil, `body`)
		}))
	})
	test(t, `YieldText`, `<main><h1>T</h1>&lt;text&gt;</main>`, func(c *Context) {
		c.Compose(layout{`T`}, BlockFunc(func(c *Context) any { return `<text>` }))
	})
	test(t, `NoBlock`, `<main><h1>T</h1></main>`, func(c *Context) {
		c.Compose(layout{`T`}, nil)
	})
	test(t, `Nested`, `<section class="card"><main><h1>card</h1><i>deep</i></main></section>`, func(c *Context) {
		c.Compose(card{}, Do(func(c *Context) {
			c.ElementText(tag.I, nil, `deep`)
		}))
	})
	test(t, `Group`, `a<b>&lt;</b>`, func(c *Context) {
		c.Compose(Group{Text(`a`), HTML(`<b>`), Text(`<`), HTML(`</b>`)}, nil)
	})
}

func TestComposeBindsBlocks(t *testing.T) {
	var seen []string
	got, err := render(func(c *Context) {
		c.Compose(page{&seen}, nil)
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != `<main><h1>Home</h1><p>body</p></main>` {
		t.Errorf(`unexpected output %q`, got)
	}
	if len(seen) != 1 || seen[0] != `emit.page` {
		t.Errorf(`expected the block to run as emit.page, saw %v`, seen)
	}
}

func TestComposeYieldsThroughLayers(t *testing.T) {
	var owners []any
	_, err := render(func(c *Context) {
		c.Compose(card{}, Do(func(c *Context) {
			owners = append(owners, c.Component())
		}))
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(owners) != 1 {
		t.Fatalf(`expected the block to run once, ran %v times`, len(owners))
	}
	if _, ok := owners[0].(ComponentFunc); !ok {
		t.Errorf(`expected the block to run as the outermost component, ran as %T`, owners[0])
	}
}

func TestComposeContext(t *testing.T) {
	var view any
	var parent any
	var top *Context
	err := New(Cache(NewAttrCache())).Render(Discard, `the view`, ComponentFunc(func(c *Context) {
		top = c.Parent()
		c.Compose(ComponentFunc(func(c *Context) {
			view = c.View()
			parent = c.Parent().Component()
		}), nil)
	}))
	if err != nil {
		t.Fatal(err)
	}
	if view != `the view` {
		t.Errorf(`expected the view to pass through, got %v`, view)
	}
	if _, ok := parent.(ComponentFunc); !ok {
		t.Errorf(`expected the parent to be the composing component, got %T`, parent)
	}
	if top != nil {
		t.Errorf(`expected the top level component to have no parent`)
	}
}

func TestNotAComponent(t *testing.T) {
	for _, v := range []any{nil, 42, `string`, func(c *Context) {}, &layout{}} {
		if _, ok := v.(Component); ok {
			continue // pointer receivers are still components.
		}
		got, err := render(func(c *Context) {
			c.Text(`before`)
			c.Compose(v, Do(func(c *Context) { c.Text(`block`) }))
		})
		if !errors.Is(err, ErrNotAComponent) {
			t.Errorf(`expected ErrNotAComponent for %T, got %v`, v, err)
		}
		if got != `before` {
			t.Errorf(`expected nothing appended for %T, got %q`, v, got)
		}
	}
	buf := NewBuffer(16)
	if err := Render(buf, struct{}{}); !errors.Is(err, ErrNotAComponent) || buf.Len() != 0 {
		t.Errorf(`expected Render to reject a struct, got %v and %q`, err, buf)
	}
}

func TestStatic(t *testing.T) {
	button := MustStatic(ComponentFunc(func(c *Context) {
		c.ElementText(tag.Button, Class(`new`), `New`)
	}))
	got, err := String(Group{button, button})
	if err != nil {
		t.Fatal(err)
	}
	if expect := `<button class="new">New</button><button class="new">New</button>`; got != expect {
		t.Errorf(`got %q, expected %q`, got, expect)
	}
	if _, err := Static(42); !errors.Is(err, ErrNotAComponent) {
		t.Errorf(`expected Static to reject a non-component, got %v`, err)
	}
}

func TestRendererObserve(t *testing.T) {
	var logs bytes.Buffer
	var seen []Observation
	r := New(
		Cache(NewAttrCache()),
		Logger(zerolog.New(&logs)),
		Observe(func(obs Observation) { seen = append(seen, obs) }),
	)
	html, err := r.Bytes(nil, Text(`hello`))
	if err != nil {
		t.Fatal(err)
	}
	if string(html) != `hello` {
		t.Errorf(`unexpected output %q`, html)
	}
	_, err = r.Bytes(nil, ComponentFunc(func(c *Context) { c.Void(tag.Br, Attrs{{`"`, 1}}) }))
	if !errors.Is(err, ErrUnsafeAttributeName) {
		t.Errorf(`expected ErrUnsafeAttributeName, got %v`, err)
	}
	if len(seen) != 2 {
		t.Fatalf(`expected 2 observations, got %v`, len(seen))
	}
	if seen[0].Component != `emit.Text` || seen[0].Wrote != 5 || seen[0].Err != nil {
		t.Errorf(`unexpected observation %+v`, seen[0])
	}
	if seen[1].Err == nil {
		t.Errorf(`expected the second observation to carry the error`)
	}
	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], `"component":"emit.Text"`) || !strings.Contains(lines[1], `"level":"warn"`) {
		t.Errorf(`unexpected logs: %v`, lines)
	}
}
