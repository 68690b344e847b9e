// Package server exposes the resume editing session over a REST API.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/session"
)

// Config holds server configuration.
type Config struct {
	Port int
}

// Server is the HTTP front of one editing session.
type Server struct {
	httpServer *http.Server
	session    *session.Session
	validate   *validator.Validate
	log        *zap.Logger
}

// New creates the server and wires its routes.
func New(cfg Config, sess *session.Session, log *zap.Logger) *Server {
	s := &Server{
		session:  sess,
		validate: validator.New(),
		log:      log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Document
	mux.HandleFunc("GET /resume", s.handleGetResume)
	mux.HandleFunc("PUT /resume/fields/{field}", s.handleSetField)
	mux.HandleFunc("PUT /resume/skills", s.handleSetSkills)
	mux.HandleFunc("PUT /resume/photo", s.handleSetPhoto)
	mux.HandleFunc("DELETE /resume/photo", s.handleClearPhoto)
	mux.HandleFunc("POST /resume/reset", s.handleReset)
	mux.HandleFunc("GET /resume/status", s.handleStatus)
	mux.HandleFunc("PUT /resume/template", s.handleSelectTemplate)

	// Entry collections
	mux.HandleFunc("POST /resume/experience", s.handleAddExperience)
	mux.HandleFunc("PUT /resume/experience/{id}", s.handleUpdateExperience)
	mux.HandleFunc("DELETE /resume/experience/{id}", s.handleRemoveExperience)
	mux.HandleFunc("POST /resume/education", s.handleAddEducation)
	mux.HandleFunc("PUT /resume/education/{id}", s.handleUpdateEducation)
	mux.HandleFunc("DELETE /resume/education/{id}", s.handleRemoveEducation)

	// Preview + AI assist
	mux.HandleFunc("GET /preview", s.handlePreview)
	mux.HandleFunc("GET /assist/status", s.handleAssistStatus)
	mux.HandleFunc("POST /assist/summary", s.handleGenerateSummary)
	mux.HandleFunc("POST /assist/experience/{id}/improve", s.handleImproveDescription)

	// Export + payment
	mux.HandleFunc("POST /export", s.handleExport)
	mux.HandleFunc("POST /payment", s.handleSubmitPayment)
	mux.HandleFunc("POST /payment/cancel", s.handleCancelPayment)
	mux.HandleFunc("GET /payment/status", s.handlePaymentStatus)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second, // payment simulation and headless print block
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the routed handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening and blocks until an interrupt, then shuts down
// gracefully, flushing any pending save.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.session.Flush()
	s.session.Close()
	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
