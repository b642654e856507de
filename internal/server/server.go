// Package server exposes the dashboard page and the JSON generation API.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/afeedhshaji/gemini-dashboard/internal/apidocs"
	"github.com/afeedhshaji/gemini-dashboard/internal/catalog"
	"github.com/afeedhshaji/gemini-dashboard/internal/log"
	"github.com/afeedhshaji/gemini-dashboard/internal/render"
	"github.com/afeedhshaji/gemini-dashboard/pkg/llm"
)

const (
	apiVersion  = "1.0.0"
	docsPath    = "/apidocs"
	specPath    = "/apispec.json"
	maxBodySize = 1 << 20
)

// Server routes requests to the page and API handlers. It holds no mutable
// state, so one instance serves any number of concurrent requests.
type Server struct {
	gen      llm.Generator
	catalog  *catalog.Catalog
	renderer render.Renderer
	router   *mux.Router
	handler  http.Handler
}

// Option configures the Server instance.
type Option func(*Server)

// WithRenderer replaces the default HTML renderer.
func WithRenderer(r render.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.renderer = r
		}
	}
}

// New wires the routes for gen and cat.
func New(gen llm.Generator, cat *catalog.Catalog, opts ...Option) (*Server, error) {
	if gen == nil {
		return nil, errors.New("server: generator is required")
	}
	if cat == nil {
		return nil, errors.New("server: catalog is required")
	}
	s := &Server{
		gen:     gen,
		catalog: cat,
		router:  mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		h, err := render.NewHTML()
		if err != nil {
			return nil, err
		}
		s.renderer = h
	}

	doc, err := apidocs.Spec(context.Background(), apiVersion)
	if err != nil {
		return nil, err
	}
	specHandler, err := apidocs.SpecHandler(doc)
	if err != nil {
		return nil, err
	}

	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/", s.handleSubmit).Methods(http.MethodPost)
	s.router.HandleFunc("/generate", s.handleGenerate).Methods(http.MethodPost)
	s.router.Handle(specPath, specHandler).Methods(http.MethodGet)
	s.router.Handle(docsPath, apidocs.UIHandler(specPath)).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Length", "Content-Type"},
	})
	s.handler = c.Handler(s.router)
	return s, nil
}

// Handler returns the HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, render.Page{Selected: s.catalog.DefaultID()})
}

// handleSubmit trims the prompt and falls back to the default model when
// none was chosen. The model id is not checked against the catalog; an
// unknown id surfaces as a provider error. A body that cannot be parsed
// never reaches the provider.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := r.ParseForm(); err != nil {
		log.Warnf("submit: invalid form: %v", err)
		s.renderPage(w, http.StatusBadRequest, render.Page{
			Selected: s.catalog.DefaultID(),
			Result:   &llm.Result{Err: "invalid form submission: " + err.Error()},
		})
		return
	}
	prompt := strings.TrimSpace(r.PostFormValue("prompt"))
	model := r.PostFormValue("model")
	if model == "" {
		model = s.catalog.DefaultID()
	}

	res := s.generate(r.Context(), llm.Request{Model: model, Prompt: prompt})
	s.renderPage(w, http.StatusOK, render.Page{Selected: model, Prompt: prompt, Result: &res})
}

type generateRequest struct {
	Model  *string `json:"model"`
	Prompt *string `json:"prompt"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleGenerate forwards model and prompt untouched. Malformed bodies and
// missing fields are rejected before the provider is called.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: unexpected data after object"})
		return
	}
	if req.Model == nil || *req.Model == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "model is required"})
		return
	}
	if req.Prompt == nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "prompt is required"})
		return
	}

	res := s.generate(r.Context(), llm.Request{Model: *req.Model, Prompt: *req.Prompt})
	if res.Failed() {
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: res.Err})
		return
	}
	s.writeJSON(w, http.StatusOK, generateResponse{Response: res.Text})
}

// generate runs the provider call detached from the request's cancellation:
// a client that hangs up does not abort a call already in flight.
func (s *Server) generate(ctx context.Context, req llm.Request) llm.Result {
	start := time.Now()
	res := llm.Run(context.WithoutCancel(ctx), s.gen, req)
	if res.Failed() {
		log.Infof("generate model=%s failed in %s: %s", req.Model, time.Since(start), res.Err)
	} else {
		log.Infof("generate model=%s ok in %s (%d bytes)", req.Model, time.Since(start), len(res.Text))
	}
	return res
}

func (s *Server) renderPage(w http.ResponseWriter, status int, p render.Page) {
	p.Models = s.catalog.Models()
	p.DocsURL = docsPath
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, p); err != nil {
		log.Errorf("render page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Errorf("write page: %v", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("write json: %v", err)
	}
}
