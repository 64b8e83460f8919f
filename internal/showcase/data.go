package showcase

import (
	"regexp"

	"github.com/tidwall/gjson"

	"github.com/swdunlop/emit-go"
	"github.com/swdunlop/emit-go/dataview"
	"github.com/swdunlop/emit-go/tag"
)

// DataPage renders a JSON document as a series of dataviews, one per GJSON selector, or a single dataview of the
// whole document when there are no selectors.
func DataPage(layout Layout, data gjson.Result, selectors ...string) emit.Component {
	layout.Stylesheet += dataStylesheet
	options := []dataview.Option{
		dataview.Hook(rxOData, func(path string, data gjson.Result) emit.Component {
			// We elide @odata fields as uninteresting to the user.
			return elide
		}),
	}
	return emit.ComponentFunc(func(c *emit.Context) {
		c.Compose(layout, emit.Do(func(c *emit.Context) {
			if len(selectors) == 0 {
				c.Compose(dataview.FromGJSON(data, options...), nil)
				return
			}
			for _, selector := range selectors {
				c.Element(tag.Section, nil, emit.Do(func(c *emit.Context) {
					c.ElementText(tag.H2, nil, selector)
					c.Compose(dataview.FromGJSON(data.Get(selector), options...), nil)
				}))
			}
		}))
	})
}

var rxOData = regexp.MustCompile(`(?:^|\.)@odata(?:\.|$)`)

var elide = emit.MustStatic(emit.ComponentFunc(func(c *emit.Context) {
	c.ElementText(tag.Div, emit.Class(`elide`), `…`)
}))

// dataStylesheet extends the structural CSS from the dataview with colors, fonts and spacing.
var dataStylesheet = dataview.Stylesheet() + `
.object, .array, .table { border-top: 2px solid #888; }
.label { font-weight: bold; background-color: #333; }
.empty, .undefined, .null { font-style: italic; }
.label, .value { font-family: monospace; padding: .35em; }
`
