package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/swdunlop/emit-go"
	"github.com/swdunlop/emit-go/datastar"
	"github.com/swdunlop/emit-go/deadmanswitch"
	"github.com/swdunlop/emit-go/hog"
	"github.com/swdunlop/emit-go/internal/config"
	"github.com/swdunlop/emit-go/internal/metrics"
	"github.com/swdunlop/emit-go/internal/showcase"
)

func serveCmd(load func() (config.Config, error)) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   `serve`,
		Short: `Serve the showcase over HTTP`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if listen != `` {
				cfg.Listen = listen
			}
			log := setupLogger(cfg, os.Stderr)
			srv, err := newServer(cfg, log)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.run(ctx)
		},
	}
	cmd.Flags().StringVar(&listen, `listen`, ``, `address to listen on, overriding the config`)
	return cmd
}

type server struct {
	cfg      config.Config
	log      zerolog.Logger
	cache    *emit.AttrCache
	renderer *emit.Renderer
	registry *prometheus.Registry
	store    showcase.Store
	layout   showcase.Layout
	data     gjson.Result
	dms      deadmanswitch.Interface
}

func newServer(cfg config.Config, log zerolog.Logger) (*server, error) {
	s := &server{
		cfg:      cfg,
		log:      log,
		cache:    emit.NewAttrCache(),
		registry: prometheus.NewRegistry(),
		layout:   showcase.Layout{Title: `emit`},
	}
	options := []emit.Option{emit.Cache(s.cache), emit.Logger(log)}
	if cfg.Metrics.Enabled {
		m := metrics.New(s.cache, metrics.Config{Namespace: cfg.Metrics.Namespace, Registry: s.registry})
		options = append(options, emit.Observe(m.Observe))
	}
	s.renderer = emit.New(options...)
	if cfg.Reload {
		s.dms = deadmanswitch.New(deadmanswitch.ReloadOnReconnect())
		s.layout.Head = s.dms
	}
	if cfg.Data != `` {
		js, err := os.ReadFile(cfg.Data)
		if err != nil {
			return nil, err
		}
		if !gjson.ValidBytes(js) {
			return nil, errors.New(cfg.Data + `: invalid JSON`)
		}
		s.data = gjson.ParseBytes(js)
	}
	return s, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(hog.Middleware(s.log))
	if s.dms != nil {
		r.Method(`GET`, s.dms.Path(), s.dms)
	}
	if s.cfg.Metrics.Enabled {
		r.Method(`GET`, s.cfg.Metrics.Path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	r.Get(`/`, func(w http.ResponseWriter, r *http.Request) { s.renderTodo(w, r, s.store.List()) })
	r.Get(`/todo/events`, s.todoEvents)
	r.Post(`/todo/new`, func(w http.ResponseWriter, r *http.Request) {
		s.renderTodo(w, r, s.store.Update(showcase.List.New))
	})
	r.Post(`/todo/save`, func(w http.ResponseWriter, r *http.Request) {
		text := r.FormValue(`text`)
		s.renderTodo(w, r, s.store.Update(func(list showcase.List) showcase.List { return list.Save(text) }))
	})
	r.Post(`/todo/{ix}/done`, s.withIndex(showcase.List.Done))
	r.Post(`/todo/{ix}/edit`, s.withIndex(showcase.List.Edit))
	r.Get(`/data`, s.dataPage)
	return r
}

func (s *server) withIndex(fn func(showcase.List, int) showcase.List) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ix, err := strconv.Atoi(chi.URLParam(r, `ix`))
		if err != nil {
			http.Error(w, `invalid item index`, http.StatusBadRequest)
			return
		}
		s.renderTodo(w, r, s.store.Update(func(list showcase.List) showcase.List { return fn(list, ix) }))
	}
}

func (s *server) renderTodo(w http.ResponseWriter, r *http.Request, list showcase.List) {
	_ = hog.Render(w, r, http.StatusOK, s.renderer, showcase.TodoPage(r, s.layout, list))
}

// todoEvents sends the current list to a Datastar client as a single patch.
func (s *server) todoEvents(w http.ResponseWriter, r *http.Request) {
	stream, err := datastar.RequestStream(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotAcceptable)
		return
	}
	list := s.store.List()
	err = stream.Emit(
		datastar.Signal(map[string]int{`count`: len(list.Items)}),
		datastar.Elements(list, datastar.Renderer(s.renderer), datastar.Mode(`outer`)),
	)
	if err != nil {
		hog.From(r.Context()).Warn().Err(err).Msg(`datastar patch failed`)
	}
}

// dataPage renders the configured JSON document, or the server's own configuration and cache statistics when there
// is none.
func (s *server) dataPage(w http.ResponseWriter, r *http.Request) {
	data := s.data
	if !data.Exists() {
		js, err := json.Marshal(map[string]any{`config`: s.cfg, `cache`: s.cache.Stats()})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data = gjson.ParseBytes(js)
	}
	layout := s.layout
	layout.Title = `data`
	_ = hog.Render(w, r, http.StatusOK, s.renderer, showcase.DataPage(layout, data, r.URL.Query()[`q`]...))
}

func (s *server) run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		// long lived streams, like the dead man's switch, end when the server is asked to stop.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str(`listen`, s.cfg.Listen).Msg(`serving`)
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.log.Info().Msg(`shutting down`)
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
