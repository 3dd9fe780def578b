package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"campusrag/rag"

	"go.uber.org/zap"
)

const maxRequestBody = 64 * 1024

// AskRequest is the body of POST /api/ask.
type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// AskHandler answers one question through the RAG pipeline.
func (s *Server) AskHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req AskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	answer, err := s.answerer.Ask(r.Context(), req.Question)
	if err != nil {
		if errors.Is(err, rag.ErrEmptyQuestion) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.logger.Error("ask failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to answer question"})
		return
	}

	writeJSON(w, http.StatusOK, AskResponse{Answer: answer.Text})
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
