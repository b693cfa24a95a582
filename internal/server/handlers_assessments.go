package server

import (
	"net/http"

	"github.com/jonathan/interview-prep/internal/assessment"
	"github.com/jonathan/interview-prep/internal/server/middleware"
	"github.com/jonathan/interview-prep/internal/types"
)

func (s *Server) handleSaveAssessment(w http.ResponseWriter, r *http.Request) {
	var req types.SaveQuizResultRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, types.InvalidInputMessage)
		return
	}

	if _, err := s.assessments.Save(r.Context(), middleware.ClerkUserID(r), &req); err != nil {
		s.writeServiceError(w, r, err, types.SaveResultsFailed)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// handleListAssessments returns [] for anonymous callers.
func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	list, err := s.assessments.List(r.Context(), middleware.ClerkUserID(r))
	if err != nil {
		s.writeServiceError(w, r, err, types.FetchAssessmentFailed)
		return
	}
	s.jsonResponse(w, http.StatusOK, list)
}

func (s *Server) handleAssessmentSummary(w http.ResponseWriter, r *http.Request) {
	list, err := s.assessments.List(r.Context(), middleware.ClerkUserID(r))
	if err != nil {
		s.writeServiceError(w, r, err, types.FetchAssessmentFailed)
		return
	}
	s.jsonResponse(w, http.StatusOK, assessment.Summarize(list))
}
