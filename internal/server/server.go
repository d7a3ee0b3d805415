// Package server exposes interview sessions, resume analysis and stored
// results over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vintervu/vintervu/internal/interview"
	"github.com/vintervu/vintervu/internal/logger"
	"github.com/vintervu/vintervu/internal/resume"
	"github.com/vintervu/vintervu/internal/store"
)

// ResumeExtractor builds a candidate profile from a PDF.
type ResumeExtractor interface {
	Extract(ctx context.Context, doc []byte) (resume.Profile, error)
}

// Deps are the services behind the routes. Resumes and Results may be nil,
// which leaves their routes unregistered.
type Deps struct {
	Interviews *interview.Service
	Resumes    ResumeExtractor
	Results    store.ResultRepo
}

// Options tune the handler.
type Options struct {
	// CORSOrigin is sent as Access-Control-Allow-Origin. Empty means "*".
	CORSOrigin string
}

// Server holds the handler dependencies.
type Server struct {
	deps     Deps
	validate *validator.Validate
	log      *zap.Logger
}

// New returns the HTTP handler with middleware applied.
func New(deps Deps, opts Options, log *zap.Logger) http.Handler {
	s := &Server{
		deps:     deps,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      logger.OrNop(log),
	}

	mux := http.NewServeMux()
	s.routes(mux)

	return chainMiddlewares(mux,
		withRecovery(s.log),
		withLogging(s.log),
		withRequestID,
		withCORS(opts.CORSOrigin),
	)
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/interview/ping", s.handlePing)

	mux.HandleFunc("POST /api/interview/start", s.handleStart)
	mux.HandleFunc("GET /api/interview/{id}/next-question", s.handleNextQuestion)
	mux.HandleFunc("POST /api/interview/{id}/record-response", s.handleRecordResponse)
	mux.HandleFunc("POST /api/interview/{id}/end-interview", s.handleEndInterview)
	mux.HandleFunc("GET /api/interview/{id}/results", s.handleResults)

	if s.deps.Resumes != nil {
		mux.HandleFunc("POST /api/interview/upload-resume", s.handleUploadResume)
		mux.HandleFunc("POST /api/interview/analyze-resume", s.handleAnalyzeResume)
	}

	if s.deps.Results != nil {
		mux.HandleFunc("POST /api/feedback", s.handleStoreFeedback)
		mux.HandleFunc("GET /api/feedback/{email}", s.handleListFeedback)
	}
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Pong from backend!"})
}
