package preview

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vango-lite/pkg/export"
	"github.com/vango-dev/vango-lite/pkg/host/memtree"
	"github.com/vango-dev/vango-lite/pkg/metrics"
	"github.com/vango-dev/vango-lite/pkg/vango"
	"github.com/vango-dev/vango-lite/pkg/vdom"
)

// Config configures a preview server.
type Config struct {
	// Name is shown in the page title and used for exported snapshots.
	Name string

	// Tree is the root node rendered into the preview container.
	Tree *vdom.VNode

	// Logger is the server and session logger (default: slog.Default()).
	Logger *slog.Logger

	// Registry receives the runtime metrics and backs /metrics. Nil
	// disables metrics.
	Registry *prometheus.Registry

	// SessionOptions are passed to the render session.
	SessionOptions []vango.Option

	// Exporter backs POST /export. Nil disables it.
	Exporter export.Exporter

	// Tracer starts request spans (default: the global tracer provider).
	Tracer trace.Tracer
}

// Server renders one tree in a session and serves it over HTTP. Clients
// dispatch events with POST /dispatch/{id}/{event} and receive every
// completed pass over /ws.
type Server struct {
	name     string
	logger   *slog.Logger
	session  *vango.Session
	root     *memtree.Node
	hub      *Hub
	router   chi.Router
	exporter export.Exporter
	metrics  *metrics.Collector
	tracer   trace.Tracer

	// dispatch serializes HTTP-triggered events.
	dispatch sync.Mutex

	updates chan Message
	done    chan struct{}
	closed  sync.Once
}

// New creates the server and runs the first render.
func New(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	name := cfg.Name
	if name == "" {
		name = "preview"
	}

	doc := memtree.New()
	root, err := doc.Container("div")
	if err != nil {
		return nil, err
	}

	s := &Server{
		name:     name,
		logger:   logger.With("preview", name),
		root:     root,
		exporter: cfg.Exporter,
		tracer:   cfg.Tracer,
		updates:  make(chan Message, 1),
		done:     make(chan struct{}),
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("github.com/vango-dev/vango-lite/pkg/preview")
	}
	s.hub = NewHub(s.logger, s.current)

	opts := append([]vango.Option{vango.WithLogger(s.logger)}, cfg.SessionOptions...)
	opts = append(opts, vango.WithObserver(passPublisher{s}))
	if cfg.Registry != nil {
		s.metrics = metrics.New(metrics.WithRegistry(cfg.Registry))
		s.metrics.SessionOpened()
		opts = append(opts, vango.WithObserver(s.metrics))
	}
	s.session = vango.NewSession(doc, opts...)
	s.router = s.routes(cfg.Registry)

	go s.pump()

	if err := s.session.Render(cfg.Tree, root, vango.RootIdentity); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Server) routes(reg *prometheus.Registry) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.traceRequests)
	r.Use(s.logRequests)

	r.Get("/", s.handlePage)
	r.Get("/snapshot", s.handleSnapshot)
	r.Post("/dispatch/{id}/{event}", s.handleDispatch)
	r.Post("/export", s.handleExport)
	r.Get("/ws", s.hub.HandleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Session returns the render session.
func (s *Server) Session() *vango.Session {
	return s.session
}

// HTML returns the current rendered markup.
func (s *Server) HTML() string {
	return s.root.InnerHTML()
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.hub.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// Close closes the session and all client connections.
func (s *Server) Close() error {
	var err error
	s.closed.Do(func() {
		close(s.done)
		err = s.session.Close()
		s.hub.Close()
		if s.metrics != nil {
			s.metrics.SessionClosed()
		}
	})
	return err
}

func (s *Server) current() Message {
	return Message{Type: MessageRender, HTML: s.HTML(), Pass: s.session.Passes()}
}

// publish queues msg for broadcast, replacing an unsent one.
func (s *Server) publish(msg Message) {
	for {
		select {
		case s.updates <- msg:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}

func (s *Server) pump() {
	for {
		select {
		case msg := <-s.updates:
			s.hub.Broadcast(msg)
		case <-s.done:
			return
		}
	}
}

// passPublisher forwards completed passes to the hub.
type passPublisher struct {
	s *Server
}

func (p passPublisher) PassCompleted(_ *vango.Session, _ vango.Identity, _ time.Duration, err error) {
	if err != nil {
		p.s.publish(Message{Type: MessageError, Error: err.Error()})
		return
	}
	p.s.publish(p.s.current())
}

func (passPublisher) HookOrderViolation(*vango.Session, vango.Identity) {}
func (passPublisher) MemoLookup(string, bool)                           {}
func (passPublisher) MemoEvicted(string)                                {}
func (passPublisher) LazyLoaded(string, time.Duration, error)           {}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Name}} - vango-lite preview</title>
</head>
<body>
<div id="vango-root">{{.Body}}</div>
<script>
(function() {
    var root = document.getElementById('vango-root');
    root.addEventListener('click', function(e) {
        var el = e.target.closest('[data-on-click]');
        if (!el || !el.id) return;
        fetch('/dispatch/' + encodeURIComponent(el.id) + '/click', {method: 'POST'});
    });
    var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
    var ws = new WebSocket(protocol + '//' + location.host + '/ws');
    ws.onmessage = function(e) {
        var msg = JSON.parse(e.data);
        if (msg.type === 'render') root.innerHTML = msg.html;
        if (msg.type === 'error') console.error('[vango-lite]', msg.error);
    };
})();
</script>
</body>
</html>
`))

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pageTemplate.Execute(w, struct {
		Name string
		Body template.HTML
	}{s.name, template.HTML(s.HTML())})
	if err != nil {
		s.logger.Error("render page", "error", err)
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(s.HTML()))
}

func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	event := chi.URLParam(r, "event")

	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	node := s.root.Find(id)
	if node == nil {
		http.Error(w, "no element with id "+id, http.StatusNotFound)
		return
	}
	if err := node.Dispatch(event); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.handleSnapshot(w, r)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		http.Error(w, "export is not configured", http.StatusNotImplemented)
		return
	}

	loc, err := s.exporter.Export(r.Context(), &export.Snapshot{
		Demo:   s.name,
		HTML:   s.HTML(),
		Passes: s.session.Passes(),
	})
	if err != nil {
		s.logger.Error("export snapshot", "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"location": loc})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
