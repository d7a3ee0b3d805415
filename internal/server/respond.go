package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vintervu/vintervu/internal/interview"
	"github.com/vintervu/vintervu/internal/logger"
	"github.com/vintervu/vintervu/internal/questions"
)

// maxJSONBody bounds JSON request bodies. Recorded audio is sent inline.
const maxJSONBody = 16 << 20

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func internalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

// decodeJSON reads a JSON body into dst and validates it.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		badRequest(w, "invalid JSON body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		badRequest(w, validationMessage(err))
		return false
	}
	return true
}

// validationMessage turns validator errors into a short client message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(msgs, "; ")
}

// writeServiceError maps interview errors onto status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *interview.ValidationError
		ext  *interview.ExternalServiceError
	)
	switch {
	case errors.As(err, &verr):
		badRequest(w, verr.Error())
	case errors.Is(err, interview.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
	case errors.As(err, &ext):
		s.requestLog(r).Warn("external service failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream service unavailable", Details: ext.Op})
	case errors.Is(err, questions.ErrExhausted):
		writeJSON(w, http.StatusConflict, errorResponse{Error: questions.ErrExhausted.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: "request timed out"})
	default:
		s.requestLog(r).Error("request failed", zap.Error(err))
		internalError(w)
	}
}

func (s *Server) requestLog(r *http.Request) *zap.Logger {
	if id := requestIDFrom(r.Context()); id != "" {
		return s.log.With(zap.String(logger.FieldRequestID, id))
	}
	return s.log
}

func isNotFound(err error) bool {
	return errors.Is(err, interview.ErrSessionNotFound)
}
