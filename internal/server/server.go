// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the tool registry over HTTP so a chat backend can
// list the tools, invoke them with the model's JSON arguments and read back
// recorded calls.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pdiddy/research-tools/internal/store"
	"github.com/pdiddy/research-tools/internal/tools"
	"github.com/pdiddy/research-tools/pkg/types"
)

// maxBodyBytes bounds a tool call request body.
const maxBodyBytes = 1 << 20

// History reads recorded tool calls. *store.Store implements it.
type History interface {
	List(ctx context.Context, opts store.ListOptions) ([]types.ToolCall, error)
	Get(ctx context.Context, id string) (*types.ToolCall, error)
}

// Options configures a Server.
type Options struct {
	Registry *tools.Registry

	// Gatherer backs GET /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer

	// History backs GET /calls. Nil disables those routes.
	History History

	CORSOrigins []string

	// Log receives request and startup lines; nil discards them.
	Log io.Writer
}

// Server serves the tool HTTP API.
type Server struct {
	opts       Options
	router     *chi.Mux
	httpServer *http.Server
}

// New builds the router for opts.
func New(opts Options) *Server {
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.Log == nil {
		opts.Log = io.Discard
	}
	s := &Server{opts: opts}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestLogger(&chimw.DefaultLogFormatter{
		Logger:  log.New(s.opts.Log, "", log.LstdFlags),
		NoColor: true,
	}))
	r.Use(chimw.Recoverer)
	if len(s.opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/tools", func(r chi.Router) {
		r.Get("/", s.listTools)
		r.Post("/{name}", s.callTool)
	})

	if s.opts.History != nil {
		r.Route("/calls", func(r chi.Router) {
			r.Get("/", s.listCalls)
			r.Get("/{id}", s.getCall)
		})
	}

	s.router = r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		fmt.Fprintf(s.opts.Log, "listening on %s\n", addr)
		errc <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		fmt.Fprintln(s.opts.Log, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.opts.Registry.Definitions())
}

// callTool runs a tool with the request body as its argument object.
// Tool failures are reported in the body with status 200 so the caller
// can hand them to the model unchanged.
func (s *Server) callTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !s.opts.Registry.Has(name) {
		writeError(w, http.StatusNotFound, "Unknown tool", fmt.Sprintf("no tool named %q", name))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unreadable request body", err.Error())
		return
	}
	if len(body) > 0 && !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "Invalid request body", "arguments must be a JSON object")
		return
	}

	res := s.opts.Registry.Call(r.Context(), name, body)
	if redact, _ := strconv.ParseBool(r.URL.Query().Get("redact")); redact {
		res = res.Redacted()
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) listCalls(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := store.ListOptions{
		Tool:   q.Get("tool"),
		Status: q.Get("status"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit", fmt.Sprintf("limit must be a positive integer, got %q", v))
			return
		}
		opts.Limit = n
	}

	calls, err := s.opts.History.List(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tool calls", err.Error())
		return
	}
	if calls == nil {
		calls = []types.ToolCall{}
	}
	writeJSON(w, http.StatusOK, calls)
}

func (s *Server) getCall(w http.ResponseWriter, r *http.Request) {
	call, err := s.opts.History.Get(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Tool call not found", err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to read tool call", err.Error())
	default:
		writeJSON(w, http.StatusOK, call)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, summary, details string) {
	writeJSON(w, status, types.ErrorResult{Error: summary, Status: types.StatusError, Details: details})
}
