// Package unpkg resolves packages on unpkg.com into script and stylesheet components with subresource integrity.
package unpkg

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/swdunlop/emit-go"
	"github.com/swdunlop/emit-go/tag"
)

// DefaultBase is the unpkg CDN.
const DefaultBase = `https://unpkg.com/`

// A Resolver follows unpkg redirects to a fully versioned path and looks up the integrity of the file.
type Resolver struct {
	Client *http.Client // http.DefaultClient if nil.
	Base   string       // DefaultBase if empty; must be the root of a host, ending with a slash.
	Defer  bool         // emit scripts with the defer attribute.
}

// An Asset is a resolved file, rendered as a script or stylesheet link with its integrity.
type Asset struct {
	URL       string
	Type      string // content type without parameters.
	Integrity string
	Defer     bool
}

// Template implements emit.Component.
func (a Asset) Template(c *emit.Context) {
	switch a.Type {
	case `text/javascript`, `application/javascript`:
		c.Script(emit.Attrs{
			{Name: `defer`, Value: a.Defer},
			{Name: `src`, Value: a.URL},
			{Name: `integrity`, Value: a.Integrity},
			{Name: `crossorigin`, Value: `anonymous`},
			{Name: `referrerpolicy`, Value: `no-referrer`},
		}, ``)
	case `text/css`:
		c.Void(tag.Link, emit.Attrs{
			{Name: `rel`, Value: `stylesheet`},
			{Name: `href`, Value: a.URL},
			{Name: `integrity`, Value: a.Integrity},
			{Name: `crossorigin`, Value: `anonymous`},
			{Name: `referrerpolicy`, Value: `no-referrer`},
		})
	}
}

// Resolve finds a package path, such as "alpinejs", "alpinejs@3.12.0" or "alpinejs@latest/dist/cdn.min.js", and
// returns it as an asset.
func (rv *Resolver) Resolve(ctx context.Context, path string) (Asset, error) {
	corrected, err := rv.redirect(ctx, path)
	if err != nil {
		return Asset{}, err
	}
	m := rxResource.FindStringSubmatch(corrected)
	if m == nil {
		return Asset{}, fmt.Errorf(`could not parse %q into package, file and version`, corrected)
	}
	pkg, filePath := m[1]+m[2], m[3]

	meta, err := rv.get(ctx, pkg+`?meta`)
	if err != nil {
		return Asset{}, err
	}
	var file gjson.Result
	findFile(gjson.ParseBytes(meta), filePath, &file)
	if !file.Exists() {
		return Asset{}, fmt.Errorf(`could not find path %q in %v?meta`, filePath, pkg)
	}
	asset := Asset{
		URL:       rv.base() + corrected,
		Type:      strings.TrimSpace(strings.SplitN(file.Get(`type`).Str, `;`, 2)[0]),
		Integrity: file.Get(`integrity`).Str,
		Defer:     rv.Defer,
	}
	switch asset.Type {
	case `text/javascript`, `application/javascript`, `text/css`:
		return asset, nil
	case ``:
		return asset, fmt.Errorf(`no content type; unpkg has changed its schema again?`)
	default:
		return asset, fmt.Errorf(`unknown content type %q`, asset.Type)
	}
}

// findFile searches package metadata for a file, descending into directories for the older nested layout.
func findFile(dir gjson.Result, path string, out *gjson.Result) {
	dir.Get(`files`).ForEach(func(_, file gjson.Result) bool {
		switch {
		case file.Get(`path`).Str == path:
			*out = file
		case file.Get(`type`).Str == `directory`:
			findFile(file, path, out)
		}
		return !out.Exists()
	})
}

var rxResource = regexp.MustCompile(`^(@?[^@/]+)(@[^/@]+)?(/.*)$`)

// redirect lets unpkg redirect us to the full path, which includes the package, path and version.
func (rv *Resolver) redirect(ctx context.Context, path string) (string, error) {
	rsp, err := rv.do(ctx, path)
	if err != nil {
		return path, err
	}
	defer rsp.Body.Close()
	_, _ = io.Copy(io.Discard, rsp.Body)
	if rsp.StatusCode != http.StatusOK {
		return path, fmt.Errorf(`%v while resolving %v`, rsp.Status, path)
	}
	return strings.TrimPrefix(rsp.Request.URL.Path, `/`), nil
}

func (rv *Resolver) get(ctx context.Context, path string) ([]byte, error) {
	rsp, err := rv.do(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(`%v while fetching %v`, rsp.Status, path)
	}
	return io.ReadAll(rsp.Body)
}

func (rv *Resolver) do(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, `GET`, rv.base()+path, nil)
	if err != nil {
		return nil, err
	}
	client := rv.Client
	if client == nil {
		client = http.DefaultClient
	}
	return client.Do(req)
}

func (rv *Resolver) base() string {
	if rv.Base == `` {
		return DefaultBase
	}
	return rv.Base
}
