package preview

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vango-dev/vango-lite/pkg/export"
	"github.com/vango-dev/vango-lite/pkg/vango"
	"github.com/vango-dev/vango-lite/pkg/vdom"
)

var counter = vango.Func("Counter", func(c *vango.Ctx, _ vdom.Props) any {
	n, set := vango.UseState(c, 0)
	return vdom.CreateElement("button", vdom.Props{
		"id":      "inc",
		"onclick": func() { set.Update(func(v int) int { return v + 1 }) },
	}, vdom.Textf("Count: %d", n))
})

func newTestServer(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	if cfg.Tree == nil {
		cfg.Tree = vdom.CreateElement(counter, nil)
	}
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return s, ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func post(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Post(url, "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestSnapshotAndDispatch(t *testing.T) {
	_, ts := newTestServer(t, Config{Name: "counter"})

	if code, body := get(t, ts.URL+"/snapshot"); code != http.StatusOK || !strings.Contains(body, "Count: 0") {
		t.Errorf("GET /snapshot = %d %q", code, body)
	}

	code, body := post(t, ts.URL+"/dispatch/inc/click")
	if code != http.StatusOK || !strings.Contains(body, "Count: 1") {
		t.Errorf("POST /dispatch = %d %q, want Count: 1", code, body)
	}

	if code, _ := post(t, ts.URL+"/dispatch/missing/click"); code != http.StatusNotFound {
		t.Errorf("dispatch to missing id = %d, want 404", code)
	}
	if code, _ := post(t, ts.URL+"/dispatch/inc/hover"); code != http.StatusBadRequest {
		t.Errorf("dispatch of unhandled event = %d, want 400", code)
	}
}

func TestPage(t *testing.T) {
	_, ts := newTestServer(t, Config{Name: "counter"})
	code, body := get(t, ts.URL+"/")
	if code != http.StatusOK {
		t.Fatalf("GET / = %d", code)
	}
	for _, want := range []string{"<title>counter - vango-lite preview</title>", `<button id="inc" data-on-click="true">Count: 0</button>`, "/ws"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t, Config{Registry: prometheus.NewRegistry()})
	post(t, ts.URL+"/dispatch/inc/click")

	code, body := get(t, ts.URL+"/metrics")
	if code != http.StatusOK {
		t.Fatalf("GET /metrics = %d", code)
	}
	if !strings.Contains(body, `vango_render_passes_total{identity="root",status="success"} 2`) {
		t.Errorf("metrics missing pass counter:\n%s", body)
	}
	if !strings.Contains(body, "vango_active_sessions 1") {
		t.Errorf("metrics missing active session gauge:\n%s", body)
	}
}

func TestMetricsDisabled(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	if code, _ := get(t, ts.URL+"/metrics"); code != http.StatusNotFound {
		t.Errorf("GET /metrics without registry = %d, want 404", code)
	}
}

func TestExport(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	if code, _ := post(t, ts.URL+"/export"); code != http.StatusNotImplemented {
		t.Errorf("POST /export without exporter = %d, want 501", code)
	}

	disk, err := export.NewDiskExporter(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_, ts = newTestServer(t, Config{Name: "counter", Exporter: disk})
	code, body := post(t, ts.URL+"/export")
	if code != http.StatusOK {
		t.Fatalf("POST /export = %d %q", code, body)
	}
	var resp map[string]string
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatal(err)
	}
	ids, _ := disk.List()
	if len(ids) != 1 || !strings.Contains(resp["location"], ids[0]) {
		t.Errorf("location = %q, stored ids = %v", resp["location"], ids)
	}
}

func TestWebSocketReceivesPasses(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	read := func() Message {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		return msg
	}

	if msg := read(); msg.Type != MessageRender || !strings.Contains(msg.HTML, "Count: 0") {
		t.Errorf("initial message = %+v", msg)
	}

	post(t, ts.URL+"/dispatch/inc/click")
	for {
		msg := read()
		if strings.Contains(msg.HTML, "Count: 1") {
			break
		}
		if msg.Type != MessageRender {
			t.Fatalf("unexpected message %+v", msg)
		}
	}
}

func TestListenAndServeStops(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("ListenAndServe did not stop")
	}
}

func TestNewFailsOnBadTree(t *testing.T) {
	_, err := New(Config{
		Tree:   vdom.CreateElement(42, nil),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err == nil {
		t.Error("New() with an invalid root succeeded")
	}
}

func TestRequestSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	defer tp.Shutdown(context.Background())

	s, ts := newTestServer(t, Config{Tracer: tp.Tracer("test")})
	post(t, ts.URL+"/dispatch/inc/click")
	post(t, ts.URL+"/dispatch/missing/click")

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if got := spans[0].Name(); got != "preview POST /dispatch/{id}/{event}" {
		t.Errorf("span name = %q", got)
	}

	attrs := map[attribute.Key]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value.Emit()
	}
	want := map[attribute.Key]string{
		"vango.event_target": "inc",
		"vango.event_type":   "click",
		"vango.session_id":   s.Session().ID(),
		"http.status_code":   "200",
	}
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attribute %s = %q, want %q", k, attrs[k], v)
		}
	}

	for _, kv := range spans[1].Attributes() {
		if kv.Key == "http.status_code" && kv.Value.AsInt64() != http.StatusNotFound {
			t.Errorf("missing element status = %d, want 404", kv.Value.AsInt64())
		}
	}
}
