// Package server exposes the analysis pipeline over HTTP, plus the stateless
// image proxy the dashboard uses to sidestep hotlink protection.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"gramlens/internal/instagram"
	"gramlens/internal/pipeline"
)

// Runner is the pipeline entry point the server depends on.
type Runner interface {
	Run(ctx context.Context, username string, refresh, narrative bool) (*pipeline.Result, error)
}

// Server is the HTTP boundary.
type Server struct {
	pipe  Runner
	mux   *http.ServeMux
	proxy *http.Client
}

// New creates a Server around the given pipeline.
func New(pipe Runner) *Server {
	s := &Server{
		pipe: pipe,
		mux:  http.NewServeMux(),
		proxy: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	s.routes()
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/analyze/", s.handleAnalyze)
	s.mux.HandleFunc("/proxy-image", s.handleProxyImage)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	username := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/analyze/"), "/")
	if username == "" || strings.Contains(username, "/") {
		writeError(w, http.StatusBadRequest, "missing or invalid username")
		return
	}
	refresh := r.URL.Query().Get("refresh") == "true"
	narrative := r.URL.Query().Get("narrative") == "true"

	result, err := s.pipe.Run(r.Context(), username, refresh, narrative)
	if err != nil {
		status := fetchStatus(err)
		log.Printf("Analysis failed for %s: %v", username, err)
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// fetchStatus maps pipeline failures to response codes. Upstream rejections
// surface as 502 so they are not mistaken for this service's own auth.
func fetchStatus(err error) int {
	switch {
	case errors.Is(err, instagram.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, instagram.ErrUnauthorized):
		return http.StatusBadGateway
	case errors.Is(err, instagram.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, instagram.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// handleProxyImage fetches a remote image and passes it through with
// permissive CORS, so the dashboard can render avatar/media URLs that refuse
// cross-origin embedding.
func (s *Server) handleProxyImage(w http.ResponseWriter, r *http.Request) {
	imageURL := r.URL.Query().Get("url")
	if imageURL == "" {
		http.Error(w, "Missing url parameter", http.StatusBadRequest)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, imageURL, nil)
	if err != nil {
		http.Error(w, "Invalid url parameter", http.StatusBadRequest)
		return
	}

	resp, err := s.proxy.Do(req)
	if err != nil {
		http.Error(w, "Failed to fetch image", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Printf("Proxy stream failed for %s: %v", imageURL, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
