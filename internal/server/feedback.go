package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/vintervu/vintervu/internal/store"
)

const feedbackListLimit = 100

type storeFeedbackRequest struct {
	Email      string   `json:"email" validate:"omitempty,email"`
	TotalScore *int     `json:"totalScore" validate:"required,min=0"`
	MaxScore   *int     `json:"maxScore" validate:"required,min=0"`
	Percentage *float64 `json:"percentage" validate:"required,min=0,max=100"`
}

type feedbackEntry struct {
	Email      string    `json:"email"`
	TotalScore int       `json:"totalScore"`
	MaxScore   int       `json:"maxScore"`
	Percentage float64   `json:"percentage"`
	Timestamp  time.Time `json:"timestamp"`
}

func (s *Server) handleStoreFeedback(w http.ResponseWriter, r *http.Request) {
	var req storeFeedbackRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if *req.TotalScore > *req.MaxScore {
		badRequest(w, "totalScore exceeds maxScore")
		return
	}

	res := &store.InterviewResult{
		Email:      strings.TrimSpace(req.Email),
		TotalScore: *req.TotalScore,
		MaxScore:   *req.MaxScore,
		Percentage: *req.Percentage,
	}
	if err := s.deps.Results.SaveResult(r.Context(), res); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "Thank you for your feedback!"})
}

func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PathValue("email"))
	list, err := s.deps.Results.ResultsByEmail(r.Context(), email, feedbackListLimit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if email == "" || len(list) == 0 {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "No feedback found for this email."})
		return
	}

	out := make([]feedbackEntry, 0, len(list))
	for _, res := range list {
		out = append(out, feedbackEntry{
			Email:      res.Email,
			TotalScore: res.TotalScore,
			MaxScore:   res.MaxScore,
			Percentage: res.Percentage,
			Timestamp:  res.Timestamp,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
