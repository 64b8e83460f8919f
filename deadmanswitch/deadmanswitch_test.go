package deadmanswitch

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/swdunlop/emit-go"
)

func TestTemplate(t *testing.T) {
	dms := New(Path(`/dms`), ReloadOnReconnect(), OnDisconnect(`a()`, `b()`))
	if dms.Path() != `/dms` {
		t.Errorf(`expected /dms, got %q`, dms.Path())
	}
	got, err := emit.String(dms)
	if err != nil {
		t.Fatal(err)
	}
	for _, expect := range []string{
		`<script>(function(){`,
		`new EventSource("/dms")`,
		`window.dms.on.reconnect.push(function(){window.location.reload()});`,
		`window.dms.on.disconnect.push(function(){a()},function(){b()});`,
	} {
		if !strings.Contains(got, expect) {
			t.Errorf("expected %q in:\n%v", expect, got)
		}
	}
	if !strings.HasSuffix(got, "})()\n</script>") {
		t.Errorf("expected the script to close once, got:\n%v", got)
	}
}

func TestServeHTTP(t *testing.T) {
	dms := New()
	ctx, cancel := context.WithCancel(context.Background())
	r := httptest.NewRequest(`GET`, dms.Path(), nil).WithContext(ctx)
	w := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		dms.ServeHTTP(w, r)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal(`handler did not return after the request was cancelled`)
	}
	if ct := w.Header().Get(`Content-Type`); ct != `text/event-stream` {
		t.Errorf(`expected text/event-stream, got %q`, ct)
	}
	if body := w.Body.String(); body != "event: connected\r\n\r\n" {
		t.Errorf(`unexpected body %q`, body)
	}
}
