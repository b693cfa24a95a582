package server

import (
	"net/http"

	"github.com/jonathan/interview-prep/internal/types"
)

// handleGenerateQuiz generates a quiz. A missing or malformed body is
// treated as an empty request.
func (s *Server) handleGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateQuizRequest
	if err := decodeJSON(w, r, &req); err != nil {
		req = types.GenerateQuizRequest{}
	}
	industry, skills := req.Normalize()

	quiz, err := s.quiz.Generate(r.Context(), industry, skills)
	if err != nil {
		s.writeServiceError(w, r, err, types.QuizGenerationFailed)
		return
	}
	s.jsonResponse(w, http.StatusOK, quiz)
}
