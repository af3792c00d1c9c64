// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dashboard serves crawl artifacts and run history over HTTP. It is
// read-only: handlers load the artifact files on every request so a crawl
// running alongside the server is picked up without restarts.
package dashboard

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/agentberlin/courseminer"
	"github.com/agentberlin/courseminer/internal/store"
)

// Server exposes the dashboard API over the artifact directory. The store is
// optional; without it the runs endpoint reports an empty history.
type Server struct {
	artifactDir string
	store       *store.Store
}

// NewServer creates a dashboard server over an artifact directory.
func NewServer(artifactDir string, st *store.Store) *Server {
	return &Server{artifactDir: artifactDir, store: st}
}

// Handler builds the routed handler with logging middleware applied.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	base := router.PathPrefix("/api/v1").Subrouter()

	base.HandleFunc("/robots", s.getRobots).Methods("GET")
	base.HandleFunc("/status", s.getAPIStatus).Methods("GET")
	base.HandleFunc("/courses", s.getCourses).Methods("GET")
	base.HandleFunc("/metrics", s.getMetrics).Methods("GET")
	base.HandleFunc("/runs", s.getRuns).Methods("GET")
	base.HandleFunc("/runs/{id}/courses", s.getRunCourses).Methods("GET")

	router.HandleFunc("/health", s.healthCheck).Methods("GET")

	return s.loggingMiddleware(router)
}

// ListenAndServe starts the server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	log.Info().Str("address", addr).Str("dir", s.artifactDir).Msg("starting dashboard")
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) getRobots(w http.ResponseWriter, r *http.Request) {
	var summary courseminer.PolicySummary
	if !s.loadArtifact(w, courseminer.RobotsAnalysisFile, &summary) {
		return
	}
	s.sendJSON(w, summary)
}

func (s *Server) getAPIStatus(w http.ResponseWriter, r *http.Request) {
	var status courseminer.APIStatus
	if !s.loadArtifact(w, courseminer.APIStatusFile, &status) {
		return
	}
	s.sendJSON(w, status)
}

func (s *Server) getCourses(w http.ResponseWriter, r *http.Request) {
	courses, ok := s.loadCourses(w)
	if !ok {
		return
	}

	if subject := r.URL.Query().Get("subject"); subject != "" {
		filtered := courses[:0]
		for _, c := range courses {
			if c.Subject == subject {
				filtered = append(filtered, c)
			}
		}
		courses = filtered
	}

	s.sendJSON(w, map[string]interface{}{
		"courses": courses,
		"total":   len(courses),
	})
}

// subjectMetrics aggregates one subject's catalog counts.
type subjectMetrics struct {
	Subject     string `json:"subject"`
	CourseCount int    `json:"course_count"`
	UnitCount   int    `json:"unit_count"`
	LessonCount int    `json:"lesson_count"`
}

func (s *Server) getMetrics(w http.ResponseWriter, r *http.Request) {
	courses, ok := s.loadCourses(w)
	if !ok {
		return
	}

	bySubject := make(map[string]*subjectMetrics)
	var order []string
	totals := subjectMetrics{Subject: "all"}

	for _, flat := range courseminer.FlattenCourses(courses) {
		m, exists := bySubject[flat.Subject]
		if !exists {
			m = &subjectMetrics{Subject: flat.Subject}
			bySubject[flat.Subject] = m
			order = append(order, flat.Subject)
		}
		m.CourseCount++
		m.UnitCount += flat.UnitCount
		m.LessonCount += flat.LessonCount
		totals.CourseCount++
		totals.UnitCount += flat.UnitCount
		totals.LessonCount += flat.LessonCount
	}

	subjects := make([]subjectMetrics, 0, len(order))
	for _, subject := range order {
		subjects = append(subjects, *bySubject[subject])
	}

	s.sendJSON(w, map[string]interface{}{
		"subjects":  subjects,
		"totals":    totals,
		"timestamp": time.Now(),
	})
}

func (s *Server) getRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.sendJSON(w, map[string]interface{}{"runs": []store.CrawlRun{}, "total": 0})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.store.RecentRuns(limit)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "failed to load run history", err)
		return
	}
	s.sendJSON(w, map[string]interface{}{"runs": runs, "total": len(runs)})
}

func (s *Server) getRunCourses(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.sendError(w, http.StatusNotFound, "run history is not enabled", nil)
		return
	}

	runID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid run id", err)
		return
	}

	courses, err := s.store.CoursesForRun(uint(runID))
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "failed to load run courses", err)
		return
	}
	s.sendJSON(w, map[string]interface{}{"courses": courses, "total": len(courses)})
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	artifacts := map[string]bool{}
	for _, name := range []string{
		courseminer.RobotsAnalysisFile,
		courseminer.APIStatusFile,
		courseminer.CoursesJSONFile,
		courseminer.CoursesCSVFile,
	} {
		_, err := os.Stat(filepath.Join(s.artifactDir, name))
		artifacts[name] = err == nil
	}

	s.sendJSON(w, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now(),
		"artifacts": artifacts,
		"history":   s.store != nil,
	})
}

func (s *Server) loadCourses(w http.ResponseWriter) ([]courseminer.Course, bool) {
	var courses []courseminer.Course
	if !s.loadArtifact(w, courseminer.CoursesJSONFile, &courses) {
		return nil, false
	}
	return courses, true
}

// loadArtifact reads and decodes one artifact file, writing the error
// response itself when the artifact is missing or malformed.
func (s *Server) loadArtifact(w http.ResponseWriter, name string, v interface{}) bool {
	data, err := os.ReadFile(filepath.Join(s.artifactDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			s.sendError(w, http.StatusNotFound, "artifact not found, run a crawl first", err)
		} else {
			s.sendError(w, http.StatusInternalServerError, "failed to read artifact", err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.sendError(w, http.StatusInternalServerError, "failed to decode artifact", err)
		return false
	}
	return true
}

func (s *Server) sendJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func (s *Server) sendError(w http.ResponseWriter, status int, message string, err error) {
	log.Error().Err(err).Str("message", message).Int("status", status).Msg("dashboard error")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	json.NewEncoder(w).Encode(response)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.statusCode).
			Dur("duration", time.Since(start)).
			Msg("dashboard request")
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
