package server

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/vintervu/vintervu/internal/interview"
	"github.com/vintervu/vintervu/internal/results"
	"github.com/vintervu/vintervu/internal/speech"
)

type startRequest struct {
	SessionID string   `json:"session_id" validate:"omitempty,max=128"`
	Skills    []string `json:"skills" validate:"max=200,dive,max=200"`
	Branch    string   `json:"branch" validate:"max=200"`
}

type startResponse struct {
	Message       string `json:"message"`
	SessionID     string `json:"session_id"`
	QuestionCount int    `json:"question_count"`
}

type nextQuestionResponse struct {
	Question *string `json:"question"`
	Done     bool    `json:"done"`
}

// recordRequest carries either base64 audio or an already typed answer.
type recordRequest struct {
	Audio    *string `json:"audio"`
	Text     *string `json:"text"`
	Filename string  `json:"filename" validate:"max=255"`
	Question string  `json:"question" validate:"max=2000"`
}

type endRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	sess, err := s.deps.Interviews.Start(r.Context(), interview.StartInput{
		SessionID: req.SessionID,
		Skills:    req.Skills,
		Branch:    req.Branch,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, startResponse{
		Message:       "Interview started",
		SessionID:     sess.ID,
		QuestionCount: len(sess.Questions),
	})
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	q, done, err := s.deps.Interviews.Next(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if done {
		writeJSON(w, http.StatusOK, nextQuestionResponse{Done: true})
		return
	}
	writeJSON(w, http.StatusOK, nextQuestionResponse{Question: &q})
}

func (s *Server) handleRecordResponse(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	var audio *speech.Audio
	switch {
	case req.Text != nil:
		audio = &speech.Audio{Data: []byte(*req.Text), Filename: req.Filename}
	case req.Audio != nil:
		data, err := decodeAudio(*req.Audio)
		if err != nil {
			badRequest(w, "audio must be base64 encoded")
			return
		}
		audio = &speech.Audio{Data: data, Filename: req.Filename}
	default:
		badRequest(w, "No audio provided")
		return
	}

	out, err := s.deps.Interviews.Record(r.Context(), r.PathValue("id"), interview.RecordInput{
		Audio:    audio,
		Question: req.Question,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// decodeAudio accepts plain base64 or a data URL.
func decodeAudio(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		if i := strings.IndexByte(s, ','); i >= 0 {
			s = s[i+1:]
		}
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}

func (s *Server) handleEndInterview(w http.ResponseWriter, r *http.Request) {
	var req endRequest
	if r.ContentLength != 0 {
		if !s.decodeJSON(w, r, &req) {
			return
		}
	}

	summary, err := s.deps.Interviews.End(r.Context(), r.PathValue("id"), interview.EndInput{Email: req.Email})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleResults reports zeroed totals for unknown sessions.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	summary, err := s.deps.Interviews.Results(r.Context(), r.PathValue("id"))
	if err != nil {
		if isNotFound(err) {
			writeJSON(w, http.StatusOK, results.Summarize(nil))
			return
		}
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
