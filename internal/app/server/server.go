// Package server exposes the generator over HTTP so CI jobs and workflow
// automation can request scaffolds without shelling out to the CLI.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brattlof/featgen/internal/catalog"
	"github.com/brattlof/featgen/internal/scaffold"
)

type Server struct {
	engine *scaffold.Engine
	mux    *chi.Mux
	logger *slog.Logger
	auth   *BasicAuth

	// genMu serializes generation; the engine gives no isolation between
	// concurrent writes to overlapping paths.
	genMu sync.Mutex

	rootMu sync.RWMutex
	root   string
}

type Option func(*Server)

// WithBasicAuth requires Basic credentials ("user:pass") on the /api routes.
func WithBasicAuth(credentials []string, realm string) Option {
	return func(s *Server) { s.auth = NewBasicAuth(credentials, realm) }
}

func New(engine *scaffold.Engine, outputRoot string, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		mux:    chi.NewRouter(),
		logger: logger,
		auth:   NewBasicAuth(nil, ""),
		root:   outputRoot,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.SetupMiddlewares()
	s.SetupRoutes()
	return s
}

func (s *Server) SetupMiddlewares() {
	s.mux.Use(middleware.RequestID)
	s.mux.Use(middleware.RealIP)
	s.mux.Use(middleware.Logger)
	s.mux.Use(middleware.Recoverer)
	s.mux.Use(middleware.Timeout(60 * time.Second))
}

func (s *Server) SetupRoutes() {
	s.mux.Method(http.MethodGet, "/", templ.Handler(IndexPage(catalog.All())))

	s.mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.mux.Route("/api", func(r chi.Router) {
		r.Use(s.auth.Middleware)
		r.Get("/types", s.listTypes)
		r.Post("/generate", s.generate)
	})

	s.mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// SetOutputRoot changes the directory generated files are placed under.
// Requests already running keep the root they started with.
func (s *Server) SetOutputRoot(dir string) {
	s.rootMu.Lock()
	defer s.rootMu.Unlock()
	s.root = dir
}

func (s *Server) OutputRoot() string {
	s.rootMu.RLock()
	defer s.rootMu.RUnlock()
	return s.root
}

type typeResponse struct {
	Key         string   `json:"key"`
	Description string   `json:"description"`
	Files       []string `json:"files"`
}

type generateRequest struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	TicketID  string `json:"ticket_id"`
	OutputDir string `json:"output_dir,omitempty"`
}

type generateResponse struct {
	Type  string   `json:"type"`
	Name  string   `json:"name"`
	Files []string `json:"files"`
	Count int      `json:"count"`
}

type errorResponse struct {
	Error     string   `json:"error"`
	Available []string `json:"available,omitempty"`
	Files     []string `json:"files,omitempty"`
}

func (s *Server) listTypes(w http.ResponseWriter, r *http.Request) {
	all := catalog.All()
	out := make([]typeResponse, 0, len(all))
	for _, ft := range all {
		files := make([]string, len(ft.Files))
		for i, f := range ft.Files {
			files[i] = f.Path
		}
		out = append(out, typeResponse{Key: ft.Key, Description: ft.Description, Files: files})
	}
	writeJSON(w, http.StatusOK, map[string]any{"types": out})
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if req.Type == "" || req.Name == "" || req.TicketID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "type, name and ticket_id are required"})
		return
	}

	dir, err := s.resolveOutputDir(req.OutputDir)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	s.genMu.Lock()
	report, err := s.engine.Generate(req.Type, req.Name, req.TicketID, dir)
	s.genMu.Unlock()

	if err != nil {
		s.writeGenerateError(w, report, err)
		return
	}

	s.logger.Info("Generate request served",
		"request_id", middleware.GetReqID(r.Context()),
		"type", report.Type,
		"ticket", req.TicketID,
		"files", report.Count(),
	)
	writeJSON(w, http.StatusCreated, generateResponse{
		Type:  report.Type,
		Name:  report.Name,
		Files: report.Files,
		Count: report.Count(),
	})
}

func (s *Server) writeGenerateError(w http.ResponseWriter, report *scaffold.Report, err error) {
	var (
		unknown  *catalog.UnknownFeatureTypeError
		escape   *scaffold.PathEscapeError
		writeErr *scaffold.WriteError
	)

	switch {
	case errors.As(err, &unknown):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Available: unknown.Available})
	case errors.As(err, &escape), errors.Is(err, scaffold.ErrEmptyName):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &writeErr):
		s.logger.Error("Generation failed", "path", writeErr.Path, "error", writeErr.Err)
		resp := errorResponse{Error: err.Error()}
		if report != nil {
			resp.Files = report.Files
		}
		writeJSON(w, http.StatusInternalServerError, resp)
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

// resolveOutputDir places a requested sub-directory under the server's output
// root, refusing absolute paths and anything that climbs out of it.
func (s *Server) resolveOutputDir(requested string) (string, error) {
	root := s.OutputRoot()
	if requested == "" {
		return root, nil
	}
	if filepath.IsAbs(requested) {
		return "", errors.New("output_dir must be relative")
	}
	dir := filepath.Join(root, requested)
	rel, err := filepath.Rel(filepath.Clean(root), dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New("output_dir escapes the output root")
	}
	return dir, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
