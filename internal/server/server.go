// Package server provides the ModForge HTTP API server.
package server

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/modforge/modforge/internal/bundle"
	"github.com/modforge/modforge/internal/orchestrator"
	"github.com/modforge/modforge/internal/publish"
	"github.com/modforge/modforge/internal/spec"
)

// Server is the ModForge HTTP API server.
type Server struct {
	addr      string
	orch      *orchestrator.Orchestrator
	store     bundle.Store
	publisher *publish.Client // nil if GitHub export is not configured
	router    chi.Router
}

// New creates a Server around an orchestrator and its store. publisher may
// be nil, which disables the publish endpoint.
func New(addr string, orch *orchestrator.Orchestrator, store bundle.Store, publisher *publish.Client) *Server {
	s := &Server{
		addr:      addr,
		orch:      orch,
		store:     store,
		publisher: publisher,
	}
	s.router = s.buildRouter()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("ModForge server listening on %s", s.addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return s.store.Close()
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))
	// The workbench is a browser app served from a different origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Post("/update", s.handleUpdate)
		r.Get("/download/{id}", s.handleDownload)
		r.Post("/publish", s.handlePublish)
	})

	r.Get("/health", s.handleHealth)

	return r
}

// --- Request/Response types ---

type updateRequest struct {
	BundleID    string `json:"bundleId"`
	Instruction string `json:"instruction"`
}

type publishRequest struct {
	BundleID string `json:"bundleId"`
	Repo     string `json:"repo"`
}

type publishResponse struct {
	OK     bool   `json:"ok"`
	Branch string `json:"branch"`
	URL    string `json:"url"`
}

type generateResponse struct {
	OK     bool           `json:"ok"`
	Used   string         `json:"used"`
	Reason string         `json:"reason,omitempty"`
	Bundle *bundle.Bundle `json:"bundle"`
}

type updateResponse struct {
	OK        bool           `json:"ok"`
	Used      string         `json:"used"`
	Reason    string         `json:"reason,omitempty"`
	PatchText string         `json:"patchText"`
	Bundle    *bundle.Bundle `json:"bundle"`
}

type healthResponse struct {
	OK   bool   `json:"ok"`
	Time string `json:"time"`
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{OK: true, Time: time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var componentSpec spec.ComponentSpec
	if err := json.NewDecoder(r.Body).Decode(&componentSpec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := componentSpec.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.orch.Generate(r.Context(), componentSpec)
	if err != nil {
		log.Printf("Error generating bundle: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to generate bundle")
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		OK:     true,
		Used:   result.Used,
		Reason: result.Reason,
		Bundle: result.Bundle,
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BundleID == "" || req.Instruction == "" {
		writeError(w, http.StatusBadRequest, "bundleId and instruction are required")
		return
	}

	result, err := s.orch.Update(r.Context(), req.BundleID, req.Instruction)
	if err == bundle.ErrNotFound {
		writeError(w, http.StatusNotFound, "bundle not found")
		return
	}
	if err != nil {
		log.Printf("Error updating bundle: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update bundle")
		return
	}

	writeJSON(w, http.StatusOK, updateResponse{
		OK:        true,
		Used:      result.Used,
		Reason:    result.Reason,
		PatchText: result.PatchText,
		Bundle:    result.Bundle,
	})
}

// handleDownload streams the bundle as a zip archive, one entry per file.
// Entries are written straight to the response; the archive is never
// buffered whole in memory.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b, err := s.store.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "bundle not found")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", b.ID+"-generated.zip"))

	zw := zip.NewWriter(w)
	for _, path := range b.Paths() {
		entry, err := zw.Create(path)
		if err != nil {
			log.Printf("Error writing zip entry %s: %v", path, err)
			return
		}
		if _, err := entry.Write([]byte(b.Files[path])); err != nil {
			log.Printf("Error writing zip entry %s: %v", path, err)
			return
		}
	}
	if err := zw.Close(); err != nil {
		log.Printf("Error finalizing zip: %v", err)
	}
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	if s.publisher == nil {
		writeError(w, http.StatusServiceUnavailable, "publishing is not configured (set GITHUB_TOKEN)")
		return
	}

	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BundleID == "" || req.Repo == "" {
		writeError(w, http.StatusBadRequest, "bundleId and repo are required")
		return
	}

	b, err := s.store.Get(req.BundleID)
	if err != nil {
		writeError(w, http.StatusNotFound, "bundle not found")
		return
	}

	branch, url, err := s.publisher.Publish(r.Context(), req.Repo, b)
	if err != nil {
		log.Printf("Error publishing bundle %s: %v", b.ID, err)
		writeError(w, http.StatusBadGateway, "failed to publish bundle")
		return
	}

	writeJSON(w, http.StatusOK, publishResponse{OK: true, Branch: branch, URL: url})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
