// Package alpine adds helper functions for Alpine AJAX applications.
package alpine

import (
	"net/http"
	"strings"

	"github.com/swdunlop/emit-go"
)

// RenderPage renders a full page if the X-Alpine-Target header is not present, otherwise, it uses Render to
// render the requested parts of the page.  The page function is given every part by ID so it can place them.
func RenderPage(r *http.Request, page func(PartMap) emit.Component, parts ...Part) emit.Component {
	targets := determineRequestTargets(r)
	if len(targets) == 0 {
		return page(NewPartMap(parts...))
	}
	return render(targets, parts...)
}

// Render parses the X-Alpine-Target header and returns a group containing only the requested parts, in the order
// they were specified as arguments to render.  (This is specified so the last part can be an "errors" part that lists
// any errors that occurred while rendering the other parts.)
//
// Parts with an empty ID will not be included in the output.
func Render(r *http.Request, parts ...Part) emit.Group {
	targets := determineRequestTargets(r)
	return render(targets, parts...)
}

func determineRequestTargets(r *http.Request) map[string]struct{} {
	h := r.Header.Get(`X-Alpine-Target`)
	if h == `` {
		return emptyAlpineTargets
	}
	seq := strings.Fields(h)
	targets := make(map[string]struct{}, len(seq))
	for _, target := range seq {
		targets[target] = struct{}{}
	}
	return targets
}

var emptyAlpineTargets = map[string]struct{}{}

func render(targets map[string]struct{}, parts ...Part) emit.Group {
	group := make(emit.Group, 0, len(parts))
	for _, part := range parts {
		id := part.ID()
		if id == `` {
			continue
		}
		if _, ok := targets[id]; ok {
			group = append(group, part)
		}
	}
	return group
}

// The Part interface describes a part of a page with an ID that can be requested by an Alpine AJAX client.
type Part interface {
	emit.Component // Each part renders itself.

	// ID returns the ID of the part, which can be used as a target in the X-Alpine-Target header.
	ID() string
}

// NewPart wraps a component as a part with the provided ID.  The component is expected to emit an element with that
// ID, since clients swap the element by ID.
func NewPart(id string, content emit.Component) Part { return part{id, content} }

type part struct {
	id      string
	content emit.Component
}

func (p part) ID() string { return p.id }

func (p part) Template(c *emit.Context) { c.Compose(p.content, nil) }

// PartMap is a map of parts by ID provided to a page function by RenderPage.
type PartMap map[string]Part

// NewPartMap indexes parts by ID, skipping parts without one.
func NewPartMap(parts ...Part) PartMap {
	table := make(PartMap, len(parts))
	for _, part := range parts {
		if id := part.ID(); id != `` {
			table[id] = part
		}
	}
	return table
}

// Get returns the part with the provided ID, or an empty group if it is missing so the page still renders.
func (m PartMap) Get(id string) emit.Component {
	if part, ok := m[id]; ok {
		return part
	}
	return emit.Group{}
}
