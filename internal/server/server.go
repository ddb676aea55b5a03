// Package server exposes the scoring engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/cv-scorer/internal/logger"
	"github.com/spigell/cv-scorer/internal/resume"
	"github.com/spigell/cv-scorer/internal/rules"
	"github.com/spigell/cv-scorer/internal/scoring"
)

const (
	DefaultAddr            = ":8000"
	DefaultMaxBodyBytes    = 10 << 20
	DefaultShutdownTimeout = 30 * time.Second
)

// Scorer is the part of the scoring engine the server needs.
type Scorer interface {
	Score(ctx context.Context, doc *resume.Document) (*scoring.Result, error)
}

// Config holds server configuration
type Config struct {
	Addr            string        `mapstructure:"addr"`
	MaxBodyBytes    int64         `mapstructure:"max-body-bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

// Server serves evaluation requests.
type Server struct {
	httpServer *http.Server
	scorer     Scorer
	logger     *zap.Logger
	maxBody    int64
	now        func() time.Time
	shutdown   time.Duration
}

// EvaluateResponse is the body of a successful evaluation.
type EvaluateResponse struct {
	RequestID   string           `json:"request_id"`
	Filename    string           `json:"filename,omitempty"`
	EvaluatedAt time.Time        `json:"evaluated_at"`
	CVData      *resume.Document `json:"cv_data"`
	Result      *scoring.Result  `json:"result"`
	BiasFlags   []string         `json:"bias_flags"`
}

// New creates a server. Zero config values take the defaults.
func New(cfg Config, scorer Scorer, log *zap.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	s := &Server{
		scorer:   scorer,
		logger:   logger.WithFields(log),
		maxBody:  cfg.MaxBodyBytes,
		now:      time.Now,
		shutdown: cfg.ShutdownTimeout,
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // inference calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/evaluate", s.handleEvaluate)
	mux.HandleFunc("GET /health", s.handleHealth)
	return s.withLogging(mux)
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	log := s.logger.With(zap.String("request_id", requestID))

	filename := strings.TrimSpace(r.URL.Query().Get("filename"))
	if filename != "" && !resume.Supported(filename) {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type: %s (use %s)", filename, strings.Join(resume.Extensions, ", ")))
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("document exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "reading request body")
		return
	}

	doc, err := resume.Parse(data)
	if err != nil {
		log.Debug("rejecting document", zap.Error(err))
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.scorer.Score(r.Context(), doc)
	if err != nil {
		log.Error("scoring failed", zap.Error(err))
		message := "failed to score document"
		if errors.Is(err, rules.ErrInvalidRules) {
			message = "scoring rules are invalid"
		}
		s.errorResponse(w, http.StatusInternalServerError, message)
		return
	}

	bias := resume.BiasTerms(doc)
	log.Info("document evaluated",
		append(logger.ScoreFields(result.Breakdown(), result.TotalScore, string(result.Status)),
			zap.String("filename", filename),
			zap.Strings("bias_flags", bias),
		)...,
	)

	s.jsonResponse(w, http.StatusOK, EvaluateResponse{
		RequestID:   requestID,
		Filename:    filename,
		EvaluatedAt: s.now().UTC(),
		CVData:      doc,
		Result:      result,
		BiasFlags:   bias,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Debug("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
