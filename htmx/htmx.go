// Package htmx adds helper functions for HTMX applications.
package htmx

import (
	"net/http"

	"github.com/swdunlop/emit-go"
	alpine "github.com/swdunlop/emit-go/alpine-ajax"
)

// RenderPage renders a full page if the HX-Target header is not present, otherwise, it uses Render to
// render the targeted part of the page.
func RenderPage(r *http.Request, page func(PartMap) emit.Component, parts ...Part) emit.Component {
	h := r.Header.Get(`HX-Target`)
	if h != `` {
		return render(h, parts...)
	}
	return page(alpine.NewPartMap(parts...))
}

// Render parses the HX-Target header and returns the part that matches.  This will return an empty emit.Group if no
// parts match.
//
// Parts with an empty ID will not be included in the output.
func Render(r *http.Request, parts ...Part) emit.Component {
	target := r.Header.Get(`HX-Target`)
	return render(target, parts...)
}

func render(target string, parts ...Part) emit.Component {
	if target == `` {
		return emit.Group{}
	}
	for _, part := range parts {
		if part.ID() == target {
			return part
		}
	}
	return emit.Group{}
}

// IsRequest is true if the request was made by HTMX.
func IsRequest(r *http.Request) bool { return r.Header.Get(`HX-Request`) == `true` }

// The Part interface describes a part of a page with an ID that can be requested by an HTMX client.  Parts are shared
// with the alpine package.
type Part = alpine.Part

// NewPart wraps a component as a part with the provided ID.
func NewPart(id string, content emit.Component) Part { return alpine.NewPart(id, content) }

// PartMap is a map of parts by ID provided to a page function by RenderPage.
type PartMap = alpine.PartMap
