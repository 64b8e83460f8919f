package dataview

import (
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
	"golang.org/x/net/html"

	"github.com/swdunlop/emit-go"
)

func TestFrom(t *testing.T) {
	content, err := From(map[string]any{
		`n`:    1.5,
		`name`: `Ann <3`,
		`none`: nil,
		`ok`:   true,
		`tags`: []string{},
	})
	if err != nil {
		t.Fatal(err)
	}
	test(t, `Object`, content, `<div class="object">`+
		`<div class="key label">n</div><div class="value">1.5</div>`+
		`<div class="key label">name</div><div class="value">Ann &lt;3</div>`+
		`<div class="key label">none</div><div class="value"><span class="null">null</span></div>`+
		`<div class="key label">ok</div><div class="value"><span class="bool">true</span></div>`+
		`<div class="key label">tags</div><div class="value"><div class="array empty">[]</div></div>`+
		`</div>`)
}

func TestFromUnmarshalable(t *testing.T) {
	if _, err := From(make(chan int)); err == nil {
		t.Error(`expected an error for a channel`)
	}
}

func TestFromJSON(t *testing.T) {
	test(t, `Array`, FromJSON([]byte(`[1,"two",false]`)), `<div class="array">`+
		`<div class="value">1</div><div class="value">two</div><div class="value"><span class="bool">false</span></div>`+
		`</div>`)
	test(t, `Table`, FromJSON([]byte(`[{"a":1},{"b":"x"},2]`)),
		`<div class="table" style="grid-template-columns: repeat(2, minmax(min-content, max-content));">`+
			`<div class="header label">a</div><div class="header label">b</div>`+
			`<div class="row"><div class="value">1</div><div class="value na">N/A</div></div>`+
			`<div class="row"><div class="value na">N/A</div><div class="value">x</div></div>`+
			`<div class="row"><div class="value" style="grid-column: 1/-1;">2</div></div>`+
			`</div>`)
	test(t, `String`, FromJSON([]byte(`"<script>"`)), `&lt;script&gt;`)
}

func TestHooks(t *testing.T) {
	content := FromJSON([]byte(`{"secret":"pw","x":1}`),
		Hook(regexp.MustCompile(`^\.secret$`), func(path string, data gjson.Result) emit.Component {
			return emit.Text(`***`)
		}),
		Hook(regexp.MustCompile(`^\.x$`), func(path string, data gjson.Result) emit.Component {
			return nil // falls back to the default rendering.
		}),
	)
	test(t, `Hook`, content, `<div class="object">`+
		`<div class="key label">secret</div><div class="value">***</div>`+
		`<div class="key label">x</div><div class="value">1</div>`+
		`</div>`)

	content = FromJSON([]byte(`[{"a":1}]`),
		TableHook(regexp.MustCompile(`^$`), func(path string, data gjson.Result) gjson.Result {
			return gjson.Parse(`"replaced"`)
		}),
	)
	test(t, `TableHook`, content, `replaced`)
}

func TestBalanced(t *testing.T) {
	content, err := From(map[string]any{
		`people`: []map[string]any{
			{`name`: `Ann`, `address`: map[string]any{`city`: `Paris`}},
			{`name`: `Bob`, `pets`: []string{`cat`, `dog`}},
		},
		`empty`: map[string]any{},
		`quote`: `"it's" & <b>`,
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := emit.String(content)
	if err != nil {
		t.Fatal(err)
	}
	var stack []string
	z := html.NewTokenizer(strings.NewReader(got))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				t.Fatal(z.Err())
			}
			if len(stack) != 0 {
				t.Errorf(`unclosed elements: %v`, stack)
			}
			return
		case html.StartTagToken:
			name, _ := z.TagName()
			stack = append(stack, string(name))
		case html.EndTagToken:
			name, _ := z.TagName()
			if len(stack) == 0 || stack[len(stack)-1] != string(name) {
				t.Fatalf(`unexpected </%s> with open elements %v in %s`, name, stack, got)
			}
			stack = stack[:len(stack)-1]
		}
	}
}

func test(t *testing.T, name string, content emit.Component, expect string) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		got, err := emit.String(content)
		if err != nil {
			t.Fatal(err)
		}
		t.Log(`generated:`, got)
		if got != expect {
			t.Error(` expected:`, expect)
		}
	})
}
