// Package dataview provides a way to view Go values as tabular HTML if the values can be represented as JSON.
package dataview

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/swdunlop/emit-go"
	"github.com/swdunlop/emit-go/tag"
)

// Stylesheet will return the structural CSS needed to render the dataview.  The options are currently ignored, but are
// present in case we need to add options like a class prefix in the future.
func Stylesheet(options ...Option) string {
	return stylesheet
}

const stylesheet = `
.object, .array, .table { display: grid; width: fit-content; }
.row { display: contents; }
.object { grid-template-columns: minmax(min-content, max-content) 1fr; }
`

// From converts a Go value into a component, converting it into JSON first and parsing it with GJSON.
func From(data any, options ...Option) (emit.Component, error) {
	js, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return FromJSON(js, options...), nil
}

// FromJSON converts a JSON document into a component, parsing it with GJSON -- the provided JSON MUST be valid.
func FromJSON(js []byte, options ...Option) emit.Component {
	return FromGJSON(gjson.ParseBytes(js), options...)
}

// FromGJSON converts a GJSON result into a component.  This is the most efficient way to use dataview if you already
// have a GJSON result.
func FromGJSON(data gjson.Result, options ...Option) emit.Component {
	cfg := &config{}
	for _, option := range options {
		option(cfg)
	}
	return view{cfg, data}
}

// Hook registers a function that replaces how a value is rendered if the path to the value matches the provided
// pattern.
//
// Patterns are regex patterns that match paths like .persons.0.name or .persons.0.address.city.
// If a hook returns nil, the default rendering is used.
func Hook(rx *regexp.Regexp, hookFn func(path string, data gjson.Result) emit.Component) Option {
	return func(cfg *config) {
		cfg.hooks = append(cfg.hooks, hook{rx, hookFn})
	}
}

// TableHook registers a function that converts an array containing at least one object into some other GJSON result
// if the path to the array matches the provided pattern.  TableHooks are applied before Hooks and use the same path
// syntax.
func TableHook(rx *regexp.Regexp, hookFn func(path string, data gjson.Result) gjson.Result) Option {
	return func(cfg *config) {
		cfg.tableHooks = append(cfg.tableHooks, tableHook{rx, hookFn})
	}
}

// An Option affects how a dataview is rendered.
type Option func(*config)

type config struct {
	hooks      []hook
	tableHooks []tableHook
}

type hook struct {
	rx   *regexp.Regexp
	hook func(path string, data gjson.Result) emit.Component
}

type tableHook struct {
	rx   *regexp.Regexp
	hook func(path string, data gjson.Result) gjson.Result
}

type view struct {
	cfg  *config
	data gjson.Result
}

// Template implements emit.Component.
func (v view) Template(c *emit.Context) { v.cfg.emit(c, v.data, ``) }

// Attribute sets shared by every dataview; each is serialized once per process.
var (
	nullClass   = emit.Class(`null`)
	boolClass   = emit.Class(`bool`)
	arrayClass  = emit.Class(`array`)
	emptyClass  = emit.Class(`array empty`)
	objectClass = emit.Class(`object`)
	rowClass    = emit.Class(`row`)
	valueClass  = emit.Class(`value`)
	naClass     = emit.Class(`value na`)
	keyClass    = emit.Class(`key label`)
	headerClass = emit.Class(`header label`)
	wideValue   = emit.Attrs{{Name: `class`, Value: `value`}, {Name: `style`, Value: `grid-column: 1/-1;`}}
)

func (cfg *config) emit(c *emit.Context, data gjson.Result, path string) {
	if isTabular(data) {
		for _, hook := range cfg.tableHooks {
			if hook.rx.MatchString(path) {
				data = hook.hook(path, data)
			}
		}
	}
	for _, hook := range cfg.hooks {
		if hook.rx.MatchString(path) {
			if content := hook.hook(path, data); content != nil {
				c.Compose(content, nil)
				return
			}
		}
	}
	if isTabular(data) {
		cfg.emitTable(c, data, path)
		return
	}
	cfg.emitValue(c, data, path)
}

func (cfg *config) emitValue(c *emit.Context, data gjson.Result, path string) {
	switch data.Type {
	case gjson.Null:
		c.ElementText(tag.Span, nullClass, `null`)
	case gjson.False:
		c.ElementText(tag.Span, boolClass, `false`)
	case gjson.True:
		c.ElementText(tag.Span, boolClass, `true`)
	case gjson.Number:
		if len(data.Raw) > 0 {
			c.Text(data.Raw)
		} else {
			c.Text(data.String())
		}
	case gjson.String:
		c.Text(data.String()) // TODO: wrap in a span to enable ellipsis?
	default:
		switch {
		case data.IsArray():
			cfg.emitArray(c, data, path)
		case data.IsObject():
			cfg.emitObject(c, data, path)
		default:
			c.Comment(fmt.Sprintf(` unknown gjson type %v at %q `, data.Type, path))
		}
	}
}

func (cfg *config) emitArray(c *emit.Context, data gjson.Result, path string) {
	seq := data.Array()
	if len(seq) == 0 {
		c.ElementText(tag.Div, emptyClass, `[]`)
		return
	}
	path += "."
	c.Element(tag.Div, arrayClass, emit.Do(func(c *emit.Context) {
		for ix, value := range seq {
			cfg.emitCell(c, valueClass, value, path+strconv.Itoa(ix))
		}
	}))
}

// emitCell emits a value wrapped in a div with the provided attributes.
func (cfg *config) emitCell(c *emit.Context, attrs emit.Attrs, data gjson.Result, path string) {
	c.Element(tag.Div, attrs, emit.Do(func(c *emit.Context) {
		cfg.emit(c, data, path)
	}))
}

func (cfg *config) emitTable(c *emit.Context, data gjson.Result, path string) {
	seq := data.Array()
	// We do two passes, one to identify all of the keys of any embedded objects, and another to emit one row per
	// item.  This must tolerate mixtures of objects and slices or literals; those get a full width cell.
	labels := make([]string, 0, 32)
	index := make(map[string]struct{}, 32)
	for _, value := range seq {
		if value.IsObject() {
			value.ForEach(func(key, _ gjson.Result) bool {
				if _, ok := index[key.Str]; !ok {
					index[key.Str] = struct{}{}
					labels = append(labels, key.Str)
				}
				return true
			})
		}
	}

	attrs := emit.Attrs{
		{Name: `class`, Value: `table`},
		{Name: `style`, Value: `grid-template-columns: repeat(` + strconv.Itoa(len(labels)) + `, minmax(min-content, max-content));`},
	}
	path += "."
	c.Element(tag.Div, attrs, emit.Do(func(c *emit.Context) {
		for _, label := range labels {
			c.ElementText(tag.Div, headerClass, label)
		}
		for ix, value := range seq {
			prefix := path + strconv.Itoa(ix)
			c.Element(tag.Div, rowClass, emit.Do(func(c *emit.Context) {
				if !value.IsObject() {
					cfg.emitCell(c, wideValue, value, prefix)
					return
				}
				cells := make(map[string]gjson.Result, len(labels))
				value.ForEach(func(key, cell gjson.Result) bool {
					cells[key.Str] = cell
					return true
				})
				for _, label := range labels {
					if cell, ok := cells[label]; ok {
						cfg.emitCell(c, valueClass, cell, prefix+"."+label)
					} else {
						c.ElementText(tag.Div, naClass, `N/A`)
					}
				}
			}))
		}
	}))
}

func (cfg *config) emitObject(c *emit.Context, data gjson.Result, path string) {
	// We show objects as a grid with two columns, one for the keys, and one for the values.
	path += "."
	c.Element(tag.Div, objectClass, emit.Do(func(c *emit.Context) {
		data.ForEach(func(key, value gjson.Result) bool {
			c.ElementText(tag.Div, keyClass, key.Str)
			cfg.emitCell(c, valueClass, value, path+key.Str)
			return c.Err() == nil
		})
	}))
}

func isTabular(data gjson.Result) bool {
	if !data.IsArray() {
		return false
	}
	tabular := false
	data.ForEach(func(_, value gjson.Result) bool {
		if value.IsObject() {
			tabular = true
			return false
		}
		return true
	})
	return tabular
}
