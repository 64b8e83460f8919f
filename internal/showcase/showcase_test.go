package showcase

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
	"golang.org/x/net/html"

	"github.com/swdunlop/emit-go"
)

func render(t *testing.T, v any) string {
	t.Helper()
	out, err := emit.String(v)
	if err != nil {
		t.Fatal(err)
	}
	checkBalanced(t, out)
	return out
}

// checkBalanced tokenizes the output and fails if any start tag is left open or closed out of order.
func checkBalanced(t *testing.T, doc string) {
	t.Helper()
	var stack []string
	z := html.NewTokenizer(strings.NewReader(doc))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				t.Fatal(z.Err())
			}
			if len(stack) > 0 {
				t.Errorf("unclosed elements %v in:\n%v", stack, doc)
			}
			return
		case html.StartTagToken:
			name, _ := z.TagName()
			stack = append(stack, string(name))
		case html.EndTagToken:
			name, _ := z.TagName()
			if len(stack) == 0 || stack[len(stack)-1] != string(name) {
				t.Fatalf("unexpected </%s> with open elements %v in:\n%v", name, stack, doc)
			}
			stack = stack[:len(stack)-1]
		}
	}
}

func TestList(t *testing.T) {
	var v List
	v = v.New().Save(`milk`).New().Save(`eggs`).New()
	if len(v.Items) != 3 || v.Editing != 2 {
		t.Fatalf(`unexpected list %+v`, v)
	}
	v = v.Save(`bread`)
	prev := v
	v = v.Edit(0).Save(`oat milk`)
	if prev.Items[0] != `milk` {
		t.Errorf(`Save changed a previous list: %+v`, prev)
	}
	v = v.Edit(2).Done(0)
	if strings.Join([]string{string(v.Items[0]), string(v.Items[1])}, `,`) != `eggs,bread` {
		t.Errorf(`unexpected items %v`, v.Items)
	}
	if v.Editing != 1 {
		t.Errorf(`expected editing to follow bread to 1, got %v`, v.Editing)
	}
	v = v.Done(1).Done(7).Edit(-1)
	if len(v.Items) != 1 || v.Editing != 1 {
		t.Errorf(`unexpected list %+v`, v)
	}
}

func TestListTemplate(t *testing.T) {
	got := render(t, List{Items: []Item{`a & b`, `c`}, Editing: 1})
	expect := `<ul id="todo">` +
		`<li><button class="done" hx-post="/todo/0/done" hx-target="#todo" hx-swap="outerHTML">Done</button>` +
		`a &amp; b` +
		`<button class="edit" hx-post="/todo/0/edit" hx-target="#todo" hx-swap="outerHTML">Edit</button></li>` +
		`<li><form hx-post="/todo/save" hx-target="#todo" hx-swap="outerHTML">` +
		`<input name="text" autofocus value="c"/>` +
		`<button class="save" type="submit">Save</button></form></li>` +
		`<li><button class="new" hx-post="/todo/new" hx-target="#todo" hx-swap="outerHTML">New</button></li>` +
		`</ul>`
	if got != expect {
		t.Errorf("expected:\n%v\ngot:\n%v", expect, got)
	}
}

func TestTodoPage(t *testing.T) {
	layout := Layout{Title: `Todo <list>`}
	list := List{Items: []Item{`one`}, Editing: 1}

	r := httptest.NewRequest(`GET`, `/`, nil)
	page := render(t, TodoPage(r, layout, list))
	for _, expect := range []string{
		`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"/>`,
		`<title>Todo &lt;list&gt;</title>`,
		`<h1>Todo &lt;list&gt;</h1><main><ul id="todo">`,
		`</ul></main></body></html>`,
	} {
		if !strings.Contains(page, expect) {
			t.Errorf("expected %q in:\n%v", expect, page)
		}
	}

	r.Header.Set(`HX-Target`, TodoID)
	part := render(t, TodoPage(r, layout, list))
	if !strings.HasPrefix(part, `<ul id="todo">`) || !strings.HasSuffix(part, `</ul>`) {
		t.Errorf("expected only the list, got:\n%v", part)
	}
}

func TestLayoutHead(t *testing.T) {
	got := render(t, emit.ComponentFunc(func(c *emit.Context) {
		c.Compose(Layout{Title: `x`, Head: emit.HTML(`<link rel="icon" href="/favicon.ico"/>`)}, emit.Do(func(c *emit.Context) {
			c.Text(`body`)
		}))
	}))
	if !strings.Contains(got, `<link rel="icon" href="/favicon.ico"/></head>`) {
		t.Errorf("expected the extra head content, got:\n%v", got)
	}
	if !strings.Contains(got, `<main>body</main>`) {
		t.Errorf("expected the block in main, got:\n%v", got)
	}
}

func TestDataPage(t *testing.T) {
	data := gjson.Parse(`{"@odata.context":"x","people":[{"name":"Alice","age":30},{"name":"Bob"}],"count":2}`)

	whole := render(t, DataPage(Layout{Title: `Data`}, data))
	if !strings.Contains(whole, `<div class="elide">…</div>`) {
		t.Errorf("expected @odata fields to be elided in:\n%v", whole)
	}
	if strings.Contains(whole, `>x<`) {
		t.Errorf("expected the @odata value to be hidden in:\n%v", whole)
	}
	if !strings.Contains(whole, `<div class="value na">N/A</div>`) {
		t.Errorf("expected a missing age cell in:\n%v", whole)
	}

	some := render(t, DataPage(Layout{Title: `Data`}, data, `count`, `people.#.name`))
	for _, expect := range []string{`<h2>count</h2>2`, `<h2>people.#.name</h2>`, `Alice`} {
		if !strings.Contains(some, expect) {
			t.Errorf("expected %q in:\n%v", expect, some)
		}
	}
}
