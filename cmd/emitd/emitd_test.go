package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/swdunlop/emit-go"
	"github.com/swdunlop/emit-go/internal/config"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	s, err := newServer(config.Default(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return s.routes()
}

func do(t *testing.T, h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestTodo(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, httptest.NewRequest(`GET`, `/`, nil))
	if w.Code != http.StatusOK {
		t.Fatalf(`expected 200, got %v`, w.Code)
	}
	body := w.Body.String()
	for _, expect := range []string{`<!DOCTYPE html>`, `new EventSource("/dead-man-switch")`, `<ul id="todo">`} {
		if !strings.Contains(body, expect) {
			t.Errorf("expected %q in:\n%v", expect, body)
		}
	}

	r := httptest.NewRequest(`POST`, `/todo/new`, nil)
	r.Header.Set(`HX-Target`, `todo`)
	w = do(t, h, r)
	if body := w.Body.String(); !strings.HasPrefix(body, `<ul id="todo"><li><form`) {
		t.Errorf("expected only the list with an editor, got:\n%v", body)
	}

	r = httptest.NewRequest(`POST`, `/todo/save`, strings.NewReader(url.Values{`text`: {`<milk>`}}.Encode()))
	r.Header.Set(`Content-Type`, `application/x-www-form-urlencoded`)
	r.Header.Set(`HX-Target`, `todo`)
	w = do(t, h, r)
	if body := w.Body.String(); !strings.Contains(body, `&lt;milk&gt;<button class="edit" hx-post="/todo/0/edit"`) {
		t.Errorf("expected the saved item, got:\n%v", body)
	}

	r = httptest.NewRequest(`POST`, `/todo/0/done`, nil)
	r.Header.Set(`HX-Target`, `todo`)
	w = do(t, h, r)
	if body := w.Body.String(); strings.Contains(body, `milk`) {
		t.Errorf("expected the item to be gone, got:\n%v", body)
	}

	w = do(t, h, httptest.NewRequest(`POST`, `/todo/x/edit`, nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf(`expected 400 for a bad index, got %v`, w.Code)
	}
}

func TestTodoEvents(t *testing.T) {
	h := newTestServer(t)
	r := httptest.NewRequest(`GET`, `/todo/events`, nil)
	r.Header.Set(`Accept`, `text/event-stream`)
	w := do(t, h, r)
	body := w.Body.String()
	expect := "event: datastar-patch-signals\ndata: signals {\"count\":0}\n\n" +
		"event: datastar-patch-elements\ndata: mode outer\ndata: elements <ul id=\"todo\">"
	if !strings.HasPrefix(body, expect) {
		t.Errorf("expected a signal and a patch, got:\n%q", body)
	}

	r = httptest.NewRequest(`GET`, `/todo/events`, nil)
	r.Header.Set(`Accept`, `application/json`)
	if w := do(t, h, r); w.Code != http.StatusNotAcceptable {
		t.Errorf(`expected 406, got %v`, w.Code)
	}
}

func TestDataAndMetrics(t *testing.T) {
	h := newTestServer(t)
	w := do(t, h, httptest.NewRequest(`GET`, `/data?q=config.Listen`, nil))
	if body := w.Body.String(); !strings.Contains(body, `<h2>config.Listen</h2>127.0.0.1:8080`) {
		t.Errorf("expected the listen address, got:\n%v", body)
	}

	w = do(t, h, httptest.NewRequest(`GET`, `/metrics`, nil))
	body := w.Body.String()
	for _, expect := range []string{`emit_renders_total{component=`, `emit_attr_cache_entries`} {
		if !strings.Contains(body, expect) {
			t.Errorf("expected %q in metrics:\n%v", expect, body)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	var out bytes.Buffer
	err := renderJSON(&out, emit.New(), `people`, []byte(`{"people":[{"name":"Alice"}]}`), `people`)
	if err != nil {
		t.Fatal(err)
	}
	for _, expect := range []string{`<title>people</title>`, `<h2>people</h2><div class="table"`, `Alice`} {
		if !strings.Contains(out.String(), expect) {
			t.Errorf("expected %q in:\n%v", expect, out.String())
		}
	}
	if err := renderJSON(&out, emit.New(), `bad`, []byte(`{"people":`)); err == nil {
		t.Error(`expected an error for invalid JSON`)
	}
}
