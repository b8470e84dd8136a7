package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/framecap/internal/config"
	"github.com/nao1215/framecap/internal/database"
	"github.com/nao1215/framecap/internal/dom"
	"github.com/nao1215/framecap/internal/fetch"
	"github.com/nao1215/framecap/internal/model"
	"github.com/nao1215/framecap/internal/report"
)

// quietLogger returns a logger that discards output.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubSource serves a fresh canned snapshot for every render.
type stubSource struct {
	renderErr error
}

func (s *stubSource) Render(ctx context.Context, url string, bp model.Breakpoint) (*dom.Snapshot, error) {
	if s.renderErr != nil {
		return nil, s.renderErr
	}
	snap := pageSnapshot()
	snap.URL = url
	return snap, nil
}

func (s *stubSource) Concurrent() bool { return true }
func (s *stubSource) Name() string     { return "stub" }
func (s *stubSource) Close() error     { return nil }

// pageSnapshot builds a small valid page: a body with one heading. No
// images, so captures complete without any network access.
func pageSnapshot() *dom.Snapshot {
	return &dom.Snapshot{
		Title:   "Checkout",
		Metrics: model.PageMetrics{ScrollWidth: 1280, ScrollHeight: 2400},
		Root: &dom.RawNode{
			Tag:  "body",
			Rect: dom.Rect{Width: 1280, Height: 2400},
			Styles: map[string]string{
				"background-color": "rgb(255, 255, 255)",
			},
			Children: []*dom.RawNode{
				{
					Tag:  "h1",
					Rect: dom.Rect{X: 40, Y: 40, Width: 600, Height: 48},
					Styles: map[string]string{
						"font-family": "Inter, sans-serif",
						"font-size":   "32px",
						"font-weight": "700",
						"color":       "rgb(17, 34, 51)",
					},
					Text: "Checkout",
				},
			},
		},
	}
}

// newTestServer builds a server over the stub source.
func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()

	client, err := fetch.NewClient("")
	if err != nil {
		t.Fatalf("failed to create fetch client: %v", err)
	}

	opts = append(opts, WithServerLogger(quietLogger()))
	return NewServer(config.NewConfig(), &stubSource{}, client, opts...)
}

// waitForJob polls the status endpoint until the job settles.
func waitForJob(t *testing.T, srv *Server, jobID string) JobSnapshot {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/captures/"+jobID+"/status", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status endpoint returned %d", rec.Code)
		}

		var snap JobSnapshot
		if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
			t.Fatalf("failed to decode status: %v", err)
		}
		if snap.Status == StatusDone || snap.Status == StatusFailed {
			return snap
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job did not settle in time")
	return JobSnapshot{}
}

// TestHandleHealth tests the health endpoint.
func TestHandleHealth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, WithAPIKey("secret"))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("got %d, expected %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("got %q, expected the health body", rec.Body.String())
	}
}

// TestHandleCreateCapture tests the capture submission flow.
func TestHandleCreateCapture(t *testing.T) {
	t.Parallel()

	t.Run("accepts a capture and serves the finished document", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/captures",
			strings.NewReader(`{"url":"https://example.com/pricing"}`)))

		if rec.Code != http.StatusAccepted {
			t.Fatalf("got %d, expected %d: %s", rec.Code, http.StatusAccepted, rec.Body.String())
		}

		var accepted captureAccepted
		if err := json.NewDecoder(rec.Body).Decode(&accepted); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if accepted.JobID == "" {
			t.Fatal("expected a job ID")
		}
		if accepted.Status != StatusQueued {
			t.Errorf("got status %q, expected %q", accepted.Status, StatusQueued)
		}
		wantPoll := "/api/captures/" + accepted.JobID + "/status"
		if accepted.PollURL != wantPoll {
			t.Errorf("got %q, expected %q", accepted.PollURL, wantPoll)
		}

		snap := waitForJob(t, srv, accepted.JobID)
		if snap.Status != StatusDone {
			t.Fatalf("got status %q (%s), expected %q", snap.Status, snap.Error, StatusDone)
		}

		docRec := httptest.NewRecorder()
		srv.ServeHTTP(docRec, httptest.NewRequest(http.MethodGet, "/api/captures/"+accepted.JobID, nil))
		if docRec.Code != http.StatusOK {
			t.Fatalf("got %d, expected %d: %s", docRec.Code, http.StatusOK, docRec.Body.String())
		}

		doc, err := report.DecodeDocument(docRec.Body)
		if err != nil {
			t.Fatalf("failed to decode document: %v", err)
		}
		if doc.SourceURL != "https://example.com/pricing" {
			t.Errorf("got %q, expected the requested URL", doc.SourceURL)
		}
		if doc.Title != "Checkout" {
			t.Errorf("got title %q, expected %q", doc.Title, "Checkout")
		}
		if len(doc.Viewports) != 3 {
			t.Errorf("got %d viewports, expected the 3 configured breakpoints", len(doc.Viewports))
		}
	})

	t.Run("request breakpoints override the configured set", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/captures",
			strings.NewReader(`{"url":"https://example.com/","breakpoints":[{"name":"wide","width":1600,"height":900}]}`)))
		if rec.Code != http.StatusAccepted {
			t.Fatalf("got %d, expected %d: %s", rec.Code, http.StatusAccepted, rec.Body.String())
		}

		var accepted captureAccepted
		if err := json.NewDecoder(rec.Body).Decode(&accepted); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		waitForJob(t, srv, accepted.JobID)

		docRec := httptest.NewRecorder()
		srv.ServeHTTP(docRec, httptest.NewRequest(http.MethodGet, "/api/captures/"+accepted.JobID, nil))

		doc, err := report.DecodeDocument(docRec.Body)
		if err != nil {
			t.Fatalf("failed to decode document: %v", err)
		}
		if len(doc.Viewports) != 1 {
			t.Fatalf("got %d viewports, expected 1", len(doc.Viewports))
		}
		if doc.Viewports["wide"] == nil {
			t.Error("expected the requested breakpoint name")
		}
	})

	t.Run("rejects a non-http url", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/captures",
			strings.NewReader(`{"url":"ftp://example.com/"}`)))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("got %d, expected %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/captures",
			strings.NewReader(`{not json`)))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("got %d, expected %d", rec.Code, http.StatusBadRequest)
		}
	})
}

// TestHandleCaptureStatus tests status lookups.
func TestHandleCaptureStatus(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/captures/no-such-job/status", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d, expected %d", rec.Code, http.StatusNotFound)
	}
}

// TestHandleGetCapture tests document retrieval states.
func TestHandleGetCapture(t *testing.T) {
	t.Parallel()

	t.Run("unfinished job returns conflict", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		job := NewJob("https://example.com/")
		srv.jobs.Put(job)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/captures/"+job.ID(), nil))

		if rec.Code != http.StatusConflict {
			t.Errorf("got %d, expected %d", rec.Code, http.StatusConflict)
		}
	})

	t.Run("failed job reports the error", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		job := NewJob("https://example.com/")
		job.Fail(errors.New("document is not accessible"))
		srv.jobs.Put(job)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/captures/"+job.ID(), nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("got %d, expected %d", rec.Code, http.StatusInternalServerError)
		}
		if !strings.Contains(rec.Body.String(), "capture failed") {
			t.Errorf("got %q, expected the failure reason", rec.Body.String())
		}
	})

	t.Run("store id resolves to the persisted document", func(t *testing.T) {
		t.Parallel()

		db, err := database.Open(t.TempDir(), database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		srv := newTestServer(t, WithDatabase(db))

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/captures",
			strings.NewReader(`{"url":"https://example.com/"}`)))

		var accepted captureAccepted
		if err := json.NewDecoder(rec.Body).Decode(&accepted); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		snap := waitForJob(t, srv, accepted.JobID)
		if snap.CaptureID == "" {
			t.Fatal("expected the finished capture to be persisted")
		}

		// The store ID differs from the job ID, so this exercises the
		// database fallback.
		docRec := httptest.NewRecorder()
		srv.ServeHTTP(docRec, httptest.NewRequest(http.MethodGet, "/api/captures/"+snap.CaptureID, nil))
		if docRec.Code != http.StatusOK {
			t.Fatalf("got %d, expected %d: %s", docRec.Code, http.StatusOK, docRec.Body.String())
		}

		doc, err := report.DecodeDocument(docRec.Body)
		if err != nil {
			t.Fatalf("failed to decode document: %v", err)
		}
		if doc.Title != "Checkout" {
			t.Errorf("got title %q, expected %q", doc.Title, "Checkout")
		}
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/captures/no-such-capture", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("got %d, expected %d", rec.Code, http.StatusNotFound)
		}
	})
}

// TestAuthMiddleware tests API-key enforcement.
func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, WithAPIKey("secret"))

	t.Run("rejects a missing token", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/captures", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("got %d, expected %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("rejects a wrong token", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/api/captures", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("got %d, expected %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("accepts the configured token", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/api/captures", nil)
		req.Header.Set("Authorization", "Bearer secret")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("got %d, expected %d", rec.Code, http.StatusOK)
		}

		var list jobListResponse
		if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
			t.Errorf("failed to decode job list: %v", err)
		}
	})
}

// TestJobStore tests the in-memory registry.
func TestJobStore(t *testing.T) {
	t.Parallel()

	t.Run("put and get", func(t *testing.T) {
		t.Parallel()

		store := NewJobStore(time.Hour)
		job := NewJob("https://example.com/")
		store.Put(job)

		if got := store.Get(job.ID()); got != job {
			t.Error("expected the registered job back")
		}
		if store.Get("no-such-id") != nil {
			t.Error("expected nil for an unknown ID")
		}
	})

	t.Run("list is newest first", func(t *testing.T) {
		t.Parallel()

		store := NewJobStore(time.Hour)
		older := NewJob("https://example.com/a")
		newer := NewJob("https://example.com/b")
		newer.createdAt = older.createdAt.Add(time.Second)
		store.Put(older)
		store.Put(newer)

		list := store.List()
		if len(list) != 2 {
			t.Fatalf("got %d jobs, expected 2", len(list))
		}
		if list[0].URL != "https://example.com/b" {
			t.Errorf("got %q first, expected the newer job", list[0].URL)
		}
	})

	t.Run("expired jobs are evicted on insert", func(t *testing.T) {
		t.Parallel()

		store := NewJobStore(10 * time.Millisecond)
		old := NewJob("https://example.com/old")
		store.Put(old)

		time.Sleep(50 * time.Millisecond)
		store.Put(NewJob("https://example.com/new"))

		if store.Get(old.ID()) != nil {
			t.Error("expected the idle job to be evicted")
		}
	})
}

// TestJobLifecycle tests job state transitions.
func TestJobLifecycle(t *testing.T) {
	t.Parallel()

	job := NewJob("https://example.com/")

	snap := job.Snapshot()
	if snap.Status != StatusQueued {
		t.Errorf("got %q, expected %q", snap.Status, StatusQueued)
	}
	if job.Document() != nil {
		t.Error("expected no document before completion")
	}

	job.SetRunning()
	if got := job.Snapshot().Status; got != StatusRunning {
		t.Errorf("got %q, expected %q", got, StatusRunning)
	}

	doc := model.NewCaptureDocument("https://example.com/")
	job.Complete(doc, "cap-123")

	snap = job.Snapshot()
	if snap.Status != StatusDone {
		t.Errorf("got %q, expected %q", snap.Status, StatusDone)
	}
	if snap.CaptureID != "cap-123" {
		t.Errorf("got %q, expected %q", snap.CaptureID, "cap-123")
	}
	if job.Document() != doc {
		t.Error("expected the completed document back")
	}

	failed := NewJob("https://example.com/")
	failed.Fail(errors.New("breakpoint desktop: render failed"))
	snap = failed.Snapshot()
	if snap.Status != StatusFailed {
		t.Errorf("got %q, expected %q", snap.Status, StatusFailed)
	}
	if !strings.Contains(snap.Error, "render failed") {
		t.Errorf("got %q, expected the failure text", snap.Error)
	}
}
