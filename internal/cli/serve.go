package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/edgeloom/edgeloom/pkg/buildinfo"
	"github.com/edgeloom/edgeloom/pkg/config"
	"github.com/edgeloom/edgeloom/pkg/graph"
	"github.com/edgeloom/edgeloom/pkg/layout"
	"github.com/edgeloom/edgeloom/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	width   int
	kind    string
	noCache bool
}

// serveCommand creates the serve command: an HTTP server that keeps a
// diagram's parse and layout results fresh as the file changes.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve <file>",
		Short: "Serve a diagram's layout over HTTP, reloading on change",
		Long: `Serve a diagram description over HTTP.

The server parses and lays out the file at startup, then re-runs the
pipeline whenever the file changes. Endpoints:

  GET /healthz       liveness probe
  GET /api/status    reload counter, stats, and the last error
  GET /api/graph     the parsed graph document (JSON)
  GET /api/snapshot  the layout snapshot (JSON)
  GET /api/render    the rendered diagram (plain text)

When an edit does not parse, the endpoints keep serving the last good
result and /api/status reports the error.

Examples:
  # Serve on the default address
  edgeloom serve diagram.dot

  # Serve on another port with a fixed wrap width
  edgeloom serve diagram.dot --addr :8080 --width 100`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "-" {
				return fmt.Errorf("serve needs a file path, not stdin")
			}
			return c.runServe(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "127.0.0.1:7333", "listen address")
	cmd.Flags().IntVar(&opts.width, "width", 0, "wrap width in cells (default: config)")
	cmd.Flags().StringVar(&opts.kind, "from", "", "source kind: dot or json (default: detect)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe wires the file watcher, the reload loop, and the HTTP server,
// and blocks until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, path string, opts *serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	s := &diagramServer{
		logger:   c.Logger,
		runner:   runner,
		path:     path,
		template: pipelineOptions(cfg, opts.width, pipeline.FormatText, opts.noCache),
	}
	s.template.SourceKind = opts.kind
	s.reload(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start file watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	go s.watchLoop(ctx, fsw, debounceFor(cfg))

	srv := &http.Server{
		Addr:    opts.addr,
		Handler: s.routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	c.Logger.Info("serving diagram", "addr", opts.addr, "file", path)
	printSuccess("Serving %s", path)
	printDetail("http://%s", displayAddr(opts.addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve on %s: %w", opts.addr, err)
	}
}

// debounceFor returns the configured debounce window with a sane floor.
func debounceFor(cfg *config.Config) time.Duration {
	d := time.Duration(cfg.Layout.DebounceMS) * time.Millisecond
	if d <= 0 {
		d = layout.DefaultDebounce
	}
	return d
}

// displayAddr rewrites a bare ":port" listen address into something
// clickable.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "127.0.0.1" + addr
	}
	return addr
}

// =============================================================================
// Diagram Server
// =============================================================================

// diagramServer holds the latest pipeline result for one watched file and
// serves it over HTTP. A failed reload keeps the previous result; only the
// status endpoint surfaces the error.
type diagramServer struct {
	logger   *log.Logger
	runner   *pipeline.Runner
	path     string
	template pipeline.Options

	mu       sync.RWMutex
	seq      int
	loadedAt time.Time
	graphDoc []byte
	snapDoc  []byte
	text     []byte
	stats    pipeline.Stats
	loadErr  error
}

// reload re-reads the file and runs the pipeline, replacing the served
// result on success and recording the error on failure.
func (s *diagramServer) reload(ctx context.Context) {
	source, name, err := readSource(s.path)
	if err != nil {
		s.recordError(fmt.Errorf("read %s: %w", s.path, err))
		return
	}

	opts := s.template
	opts.Source = source
	opts.SourceName = name

	res, err := s.runner.Execute(ctx, opts)
	if err != nil {
		s.recordError(err)
		return
	}

	graphDoc, err := graph.Marshal(res.Graph)
	if err != nil {
		s.recordError(fmt.Errorf("serialize graph: %w", err))
		return
	}
	snapDoc, err := res.Scene.Snapshot.JSON()
	if err != nil {
		s.recordError(fmt.Errorf("serialize snapshot: %w", err))
		return
	}

	s.mu.Lock()
	s.seq++
	s.loadedAt = time.Now()
	s.graphDoc = graphDoc
	s.snapDoc = snapDoc
	s.text = res.Output
	s.stats = res.Stats
	s.loadErr = nil
	seq := s.seq
	s.mu.Unlock()

	s.logger.Info("reloaded diagram",
		"seq", seq,
		"nodes", res.Stats.NodeCount,
		"edges", res.Stats.EdgeCount)
}

func (s *diagramServer) recordError(err error) {
	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()
	s.logger.Warn("reload failed", "err", err)
}

// watchLoop debounces file events and reloads after each quiet window.
// The loop shape mirrors the layout watcher: one timer, reset per event.
func (s *diagramServer) watchLoop(ctx context.Context, fsw *fsnotify.Watcher, debounce time.Duration) {
	base := filepath.Base(s.path)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			s.logger.Warn("file watch error", "err", err)

		case <-fire:
			timer, fire = nil, nil
			s.reload(ctx)
		}
	}
}

// =============================================================================
// Routes
// =============================================================================

func (s *diagramServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/status", s.handleStatus)
	r.Get("/api/graph", s.handleGraph)
	r.Get("/api/snapshot", s.handleSnapshot)
	r.Get("/api/render", s.handleRender)

	return r
}

// requestLogger tags each request with an ID and logs method, path,
// status, and duration.
func (s *diagramServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)

		reqLogger := s.logger.With("request_id", id)
		ctx := withLogger(r.Context(), reqLogger)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		reqLogger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start))
	})
}

// =============================================================================
// Handlers
// =============================================================================

// statusDoc is the /api/status response body.
type statusDoc struct {
	Seq         int       `json:"seq"`
	LoadedAt    time.Time `json:"loaded_at"`
	Source      string    `json:"source"`
	NodeCount   int       `json:"node_count"`
	EdgeCount   int       `json:"edge_count"`
	RoutedEdges int       `json:"routed_edges"`
	Error       string    `json:"error,omitempty"`
}

func (s *diagramServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *diagramServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	doc := statusDoc{
		Seq:         s.seq,
		LoadedAt:    s.loadedAt,
		Source:      s.path,
		NodeCount:   s.stats.NodeCount,
		EdgeCount:   s.stats.EdgeCount,
		RoutedEdges: s.stats.RoutedEdges,
	}
	if s.loadErr != nil {
		doc.Error = s.loadErr.Error()
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, doc)
}

func (s *diagramServer) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.serveDocument(w, r, "application/json; charset=utf-8", func() []byte {
		return s.graphDoc
	})
}

func (s *diagramServer) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.serveDocument(w, r, "application/json; charset=utf-8", func() []byte {
		return s.snapDoc
	})
}

func (s *diagramServer) handleRender(w http.ResponseWriter, r *http.Request) {
	s.serveDocument(w, r, "text/plain; charset=utf-8", func() []byte {
		return s.text
	})
}

// serveDocument writes one of the cached result documents, or 503 when no
// load has succeeded yet. The accessor runs under the read lock.
func (s *diagramServer) serveDocument(w http.ResponseWriter, r *http.Request, contentType string, doc func() []byte) {
	s.mu.RLock()
	body := doc()
	loadErr := s.loadErr
	s.mu.RUnlock()

	if body == nil {
		msg := "no diagram loaded"
		if loadErr != nil {
			msg = fmt.Sprintf("no diagram loaded: %s", loadErr)
		}
		loggerFromContext(r.Context()).Debug("document not ready", "path", r.URL.Path)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": msg})
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
