package server

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/vintervu/vintervu/internal/resume"
)

// multipartOverhead leaves room for form fields around the file.
const multipartOverhead = 1 << 20

type analyzeResponse struct {
	Analysis resume.Analysis `json:"analysis"`
}

func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.readPDF(w, r, "resume")
	if !ok {
		return
	}

	profile, err := s.deps.Resumes.Extract(r.Context(), doc)
	if err != nil {
		s.resumeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.readPDF(w, r, "file")
	if !ok {
		return
	}

	role := r.FormValue("job_role")
	if _, known := resume.RequiredSkills(role); !known {
		badRequest(w, "Invalid or unsupported job role")
		return
	}

	profile, err := s.deps.Resumes.Extract(r.Context(), doc)
	if err != nil {
		s.resumeError(w, r, err)
		return
	}

	analysis, err := resume.Analyze(role, profile.Skills)
	if err != nil {
		badRequest(w, "Invalid or unsupported job role")
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Analysis: analysis})
}

// readPDF reads the PDF uploaded under field. It writes the error response
// itself and reports whether the caller should continue.
func (s *Server) readPDF(w http.ResponseWriter, r *http.Request, field string) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, resume.MaxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(resume.MaxUploadSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			badRequest(w, "File too large")
			return nil, false
		}
		badRequest(w, "No file uploaded or file path missing")
		return nil, false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		badRequest(w, "No file uploaded or file path missing")
		return nil, false
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); ct != "application/pdf" {
		badRequest(w, "Only PDF files are allowed")
		return nil, false
	}
	if header.Size > resume.MaxUploadSize {
		badRequest(w, "File too large")
		return nil, false
	}

	doc, err := io.ReadAll(io.LimitReader(file, resume.MaxUploadSize+1))
	if err != nil {
		s.requestLog(r).Warn("reading upload", zap.Error(err))
		badRequest(w, "No file uploaded or file path missing")
		return nil, false
	}
	return doc, true
}

func (s *Server) resumeError(w http.ResponseWriter, r *http.Request, err error) {
	var perr *resume.ParsingError
	switch {
	case errors.As(err, &perr), errors.Is(err, resume.ErrTooLarge):
		s.requestLog(r).Info("resume rejected", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Failed to process resume", Details: err.Error()})
	default:
		s.writeServiceError(w, r, err)
	}
}
