package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nao1215/framecap/internal/config"
	"github.com/nao1215/framecap/internal/database"
	"github.com/nao1215/framecap/internal/dom"
	"github.com/nao1215/framecap/internal/fetch"
	"github.com/nao1215/framecap/internal/model"
	"github.com/nao1215/framecap/internal/pipeline"
	"github.com/nao1215/framecap/internal/report"
)

// defaultJobTTL is how long a settled job stays pollable. Finished jobs
// hold their full document in memory until eviction.
const defaultJobTTL = time.Hour

// maxRequestBytes bounds a capture request body.
const maxRequestBytes = 1 << 20

// Server is the HTTP capture service. Capture requests run in background
// goroutines against the shared snapshot source; the handlers only touch
// the job registry.
type Server struct {
	router chi.Router
	cfg    *config.Config
	source dom.Source
	client *fetch.Client
	db     *database.CaptureDB
	jobs   *JobStore
	apiKey string
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAPIKey requires a bearer token on every endpoint except /health.
func WithAPIKey(key string) Option {
	return func(s *Server) {
		s.apiKey = key
	}
}

// WithDatabase attaches a capture store. Finished documents are persisted
// there, and the document endpoint also resolves store IDs.
func WithDatabase(db *database.CaptureDB) Option {
	return func(s *Server) {
		s.db = db
	}
}

// WithServerLogger sets a custom logger.
func WithServerLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates and configures the capture service. The configuration
// supplies capture defaults; requests may override the breakpoint set.
func NewServer(cfg *config.Config, source dom.Source, client *fetch.Client, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		source: source,
		client: client,
		jobs:   NewJobStore(defaultJobTTL),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.logger))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Capture endpoints, authenticated when a key is configured.
	r.Group(func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(AuthMiddleware(s.apiKey, s.logger))
		}

		r.Post("/api/captures", s.handleCreateCapture)
		r.Get("/api/captures", s.handleListCaptures)
		r.Get("/api/captures/{jobID}/status", s.handleCaptureStatus)
		r.Get("/api/captures/{jobID}", s.handleGetCapture)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// captureRequest is the POST /api/captures body.
type captureRequest struct {
	// URL is the page to capture.
	URL string `json:"url"`

	// Breakpoints optionally overrides the server's configured viewport
	// set for this capture only.
	Breakpoints []model.Breakpoint `json:"breakpoints,omitempty"`
}

// captureAccepted is the 202 response to a capture request.
type captureAccepted struct {
	JobID   string    `json:"jobId"`
	Status  JobStatus `json:"status"`
	PollURL string    `json:"pollUrl"`
}

func (s *Server) handleCreateCapture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Each capture runs on its own copy of the server configuration, so a
	// request's breakpoint override never leaks into the next capture.
	runCfg := *s.cfg
	runCfg.TargetURL = req.URL
	if len(req.Breakpoints) > 0 {
		runCfg.Breakpoints = req.Breakpoints
	}
	if err := runCfg.Validate(); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	job := NewJob(req.URL)
	s.jobs.Put(job)

	go s.runCapture(job, &runCfg)

	writeJSON(w, http.StatusAccepted, captureAccepted{
		JobID:   job.ID(),
		Status:  StatusQueued,
		PollURL: fmt.Sprintf("/api/captures/%s/status", job.ID()),
	})
}

// runCapture executes one capture in the background and settles the job.
// The request context dies with the HTTP response, so the capture runs on
// its own deadline: the per-breakpoint budget times the breakpoint count.
func (s *Server) runCapture(job *Job, cfg *config.Config) {
	job.SetRunning()

	budget := time.Duration(len(cfg.Breakpoints))*cfg.CaptureTimeout + 30*time.Second
	ctx, cancel := context.WithTimeout(context.Background(), budget)
	defer cancel()

	orch := pipeline.NewOrchestrator(cfg, s.source, s.client,
		pipeline.WithOrchestratorLogger(s.logger),
	)
	doc, err := orch.Capture(ctx, cfg.TargetURL)
	if err != nil {
		s.logger.Error("capture failed",
			"jobId", job.ID(),
			"url", cfg.TargetURL,
			"error", err,
		)
		job.Fail(err)
		return
	}

	captureID := ""
	if s.db != nil {
		id, err := s.db.SaveDocument(ctx, doc)
		if err != nil {
			s.logger.Warn("capture store save failed", "jobId", job.ID(), "error", err)
		} else {
			captureID = id
		}
	}

	job.Complete(doc, captureID)
	s.logger.Info("capture finished",
		"jobId", job.ID(),
		"url", cfg.TargetURL,
		"nodes", doc.NodeCount(),
		"partial", doc.Partial,
	)
}

func (s *Server) handleCaptureStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.jobs.Get(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleGetCapture(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "jobID")

	if job := s.jobs.Get(id); job != nil {
		snap := job.Snapshot()
		switch snap.Status {
		case StatusDone:
			s.writeDocument(w, job.Document())
		case StatusFailed:
			jsonError(w, "capture failed: "+snap.Error, http.StatusInternalServerError)
		default:
			jsonError(w, "capture is not finished, poll the status endpoint", http.StatusConflict)
		}
		return
	}

	// Not a live job; the ID may name a stored capture.
	if s.db != nil {
		doc, err := s.db.GetDocument(r.Context(), id)
		if err != nil {
			jsonError(w, "capture store lookup failed", http.StatusInternalServerError)
			return
		}
		if doc != nil {
			s.writeDocument(w, doc)
			return
		}
	}

	jsonError(w, "capture not found", http.StatusNotFound)
}

// jobListResponse is the GET /api/captures body.
type jobListResponse struct {
	Jobs []JobSnapshot `json:"jobs"`
}

func (s *Server) handleListCaptures(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, jobListResponse{Jobs: s.jobs.List()})
}

// writeDocument streams a capture document as IR JSON. The export writer
// validates before emitting anything, so a failure here produces a clean
// error response instead of a truncated document.
func (s *Server) writeDocument(w http.ResponseWriter, doc *model.CaptureDocument) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := report.NewJSONWriter(w).Write(doc); err != nil {
		s.logger.Error("document export failed", "error", err)
		jsonError(w, "document export failed", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
