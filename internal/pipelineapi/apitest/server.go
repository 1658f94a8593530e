// Package apitest runs an in-memory fake of the pipeline service for tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/five82/pipedeck/internal/pipelineapi"
)

// Request records one call the fake received.
type Request struct {
	Method string
	Path   string
	Body   string
}

// Route patterns accepted by Fail.
const (
	collectionPattern = "/pipelines"
	itemPattern       = "/pipelines/{id}"
)

const createdLayout = "2006-01-02 15:04:05"

type failure struct {
	status int
	detail string
}

// Server is a fake pipeline service. Pipelines are kept in insertion order.
type Server struct {
	*httptest.Server

	// NewID generates ids for created pipelines. Defaults to uuid.NewString.
	NewID func() string

	mu        sync.Mutex
	order     []string
	pipelines map[string]pipelineapi.PipelineDetail
	created   map[string]string
	failures  map[string]failure
	requests  []Request
}

// New starts a fake service and closes it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		NewID:     uuid.NewString,
		pipelines: make(map[string]pipelineapi.PipelineDetail),
		created:   make(map[string]string),
		failures:  make(map[string]failure),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Route("/pipelines", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/{id}", s.handleGet)
		r.Delete("/{id}", s.handleDelete)
	})
	return r
}

// Add stores a pipeline as if it had been created earlier. Its created_at is
// the current time in the service's zone-less UTC format.
func (s *Server) Add(detail pipelineapi.PipelineDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pipelines[detail.ID]; !ok {
		s.order = append(s.order, detail.ID)
		s.created[detail.ID] = time.Now().UTC().Format(createdLayout)
	}
	s.pipelines[detail.ID] = detail
}

// SetCreated overrides the created_at stamp listed for id.
func (s *Server) SetCreated(id, stamp string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created[id] = stamp
}

// SetWriteCount changes the count reported for id.
func (s *Server) SetWriteCount(id string, count int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pipelines[id]; ok {
		p.WriteCount = count
		s.pipelines[id] = p
	}
}

// Fail makes every request matching method and route pattern answer with
// status and a {"detail": detail} body. An empty detail sends no body.
// Patterns are "/pipelines" and "/pipelines/{id}".
func (s *Server) Fail(method, pattern string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+pattern] = failure{status: status, detail: detail}
}

// Heal removes a failure installed with Fail.
func (s *Server) Heal(method, pattern string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, method+" "+pattern)
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many requests matched method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, req := range s.Requests() {
		if req.Method == method && req.Path == path {
			n++
		}
	}
	return n
}

// Has reports whether id is still stored.
func (s *Server) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pipelines[id]
	return ok
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		s.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injected(w http.ResponseWriter, r *http.Request, pattern string) bool {
	s.mu.Lock()
	f, ok := s.failures[r.Method+" "+pattern]
	s.mu.Unlock()
	if !ok {
		return false
	}
	if f.detail == "" {
		w.WriteHeader(f.status)
		return true
	}
	writeJSON(w, f.status, map[string]string{"detail": f.detail})
	return true
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, r, collectionPattern) {
		return
	}
	s.mu.Lock()
	items := make([]pipelineapi.PipelineSummary, 0, len(s.order))
	for _, id := range s.order {
		p := s.pipelines[id]
		items = append(items, pipelineapi.PipelineSummary{
			ID:        p.ID,
			Name:      p.Name,
			Question:  p.Question(),
			CreatedAt: s.created[id],
		})
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, pipelineapi.ListResponse{Pipelines: items})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, r, itemPattern) {
		return
	}
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	p, ok := s.pipelines[id]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Pipeline with id " + id + " not found."})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, r, collectionPattern) {
		return
	}
	var req pipelineapi.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []string{err.Error()}})
		return
	}
	id := s.NewID()
	s.Add(pipelineapi.PipelineDetail{
		ID:       id,
		Name:     req.Question,
		Pipeline: &pipelineapi.PipelineSpec{Question: req.Question},
	})
	writeJSON(w, http.StatusCreated, pipelineapi.CreateResponse{
		ID:       id,
		Name:     req.Question,
		Question: req.Question,
		Message:  "Pipeline created successfully",
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, r, itemPattern) {
		return
	}
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	_, ok := s.pipelines[id]
	if ok {
		delete(s.pipelines, id)
		delete(s.created, id)
		for i, existing := range s.order {
			if existing == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Pipeline with id " + id + " not found."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Pipeline " + id + " deleted successfully"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
