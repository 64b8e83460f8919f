package showcase

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/swdunlop/emit-go"
	"github.com/swdunlop/emit-go/htmx"
	"github.com/swdunlop/emit-go/tag"
)

// TodoID is the element ID of the todo list, which its buttons target.
const TodoID = `todo`

// A List is a todo list.  Its methods return updated copies so a Store can swap lists atomically.
type List struct {
	Items   []Item `json:"items"`
	Editing int    `json:"editing"` // index of the item being edited; len(Items) when none is.
}

// New appends an empty item and starts editing it.
func (v List) New() List {
	v.Items = append(v.Items[:len(v.Items):len(v.Items)], Item(``))
	v.Editing = len(v.Items) - 1
	return v
}

// Done removes an item.
func (v List) Done(ix int) List {
	if ix < 0 || ix >= len(v.Items) {
		return v
	}
	items := make([]Item, 0, len(v.Items)-1)
	items = append(items, v.Items[:ix]...)
	v.Items = append(items, v.Items[ix+1:]...)
	switch {
	case v.Editing == ix:
		v.Editing = len(v.Items)
	case v.Editing > ix:
		v.Editing--
	}
	return v
}

// Edit starts editing an item.
func (v List) Edit(ix int) List {
	if ix >= 0 && ix < len(v.Items) {
		v.Editing = ix
	}
	return v
}

// Save replaces the text of the item being edited and stops editing.
func (v List) Save(text string) List {
	if v.Editing < 0 || v.Editing >= len(v.Items) {
		return v
	}
	v.Items = append([]Item(nil), v.Items...) // copy the item list.
	v.Items[v.Editing] = Item(text)
	v.Editing = len(v.Items)
	return v
}

var listAttrs = emit.ID(TodoID)

// Template implements emit.Component.
func (v List) Template(c *emit.Context) {
	c.Element(tag.Ul, listAttrs, emit.Do(func(c *emit.Context) {
		for ix, it := range v.Items {
			if ix == v.Editing {
				it.editor(c)
			} else {
				it.viewer(c, ix)
			}
		}
		c.Element(tag.Li, nil, emit.Do(func(c *emit.Context) { c.Compose(newButton, nil) }))
	}))
}

// Item represents a single todo item.
type Item string

var (
	editorAttrs = emit.Attrs{{Name: `hx-post`, Value: `/todo/save`}, {Name: `hx-target`, Value: `#` + TodoID}, {Name: `hx-swap`, Value: `outerHTML`}}
	textAttrs   = emit.Attrs{{Name: `name`, Value: `text`}, {Name: `autofocus`, Value: true}}
	saveAttrs   = emit.Attrs{{Name: `class`, Value: `save`}, {Name: `type`, Value: `submit`}}
)

func (it Item) editor(c *emit.Context) {
	c.Element(tag.Li, nil, emit.Do(func(c *emit.Context) {
		c.Element(tag.Form, editorAttrs, emit.Do(func(c *emit.Context) {
			c.Void(tag.Input, textAttrs.With(emit.A(`value`, string(it))))
			c.ElementText(tag.Button, saveAttrs, `Save`)
		}))
	}))
}

func (it Item) viewer(c *emit.Context, ix int) {
	prefix := `/todo/` + strconv.Itoa(ix)
	c.Element(tag.Li, nil, emit.Do(func(c *emit.Context) {
		c.Compose(button(`done`, `Done`, prefix+`/done`), nil)
		c.Text(string(it))
		c.Compose(button(`edit`, `Edit`, prefix+`/edit`), nil)
	}))
}

// newButton is a static "New" button with class "new".
var newButton = emit.MustStatic(button(`new`, `New`, `/todo/new`))

// button creates a button that posts to a path and swaps the todo list with the response.
func button(class, label, path string) emit.Component {
	attrs := emit.Attrs{
		{Name: `class`, Value: class},
		{Name: `hx-post`, Value: path},
		{Name: `hx-target`, Value: `#` + TodoID},
		{Name: `hx-swap`, Value: `outerHTML`},
	}
	return emit.ComponentFunc(func(c *emit.Context) {
		c.ElementText(tag.Button, attrs, label)
	})
}

// A Store holds the todo list shared by every request.
type Store struct {
	mu   sync.Mutex
	list List
}

// List returns the current list.
func (s *Store) List() List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list
}

// Update replaces the list with the result of fn and returns it.
func (s *Store) Update(fn func(List) List) List {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = fn(s.list)
	return s.list
}

// TodoPage returns the component for a todo request: the whole page, or only the list when HTMX targets it.
func TodoPage(r *http.Request, layout Layout, list List) emit.Component {
	return htmx.RenderPage(r, func(parts htmx.PartMap) emit.Component {
		return emit.ComponentFunc(func(c *emit.Context) {
			c.Compose(layout, emit.Do(func(c *emit.Context) {
				c.Compose(parts.Get(TodoID), nil)
			}))
		})
	}, htmx.NewPart(TodoID, list))
}
