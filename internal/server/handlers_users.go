package server

import (
	"net/http"

	"github.com/jonathan/interview-prep/internal/server/middleware"
	"github.com/jonathan/interview-prep/internal/types"
)

// handleGetUser returns the caller's industry and skills, with defaults.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.profiles.Preferences(r.Context(), middleware.ClerkUserID(r))
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to fetch user data")
		return
	}
	s.jsonResponse(w, http.StatusOK, prefs)
}

// handleSyncUser provisions the caller after sign-in.
func (s *Server) handleSyncUser(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := s.users.EnsureUser(r.Context(), identity)
	if err != nil {
		s.writeServiceError(w, r, err, types.UserSyncFailed)
		return
	}
	s.jsonResponse(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update types.ProfileUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		s.errorResponse(w, http.StatusBadRequest, types.InvalidInputMessage)
		return
	}

	result, err := s.profiles.Update(r.Context(), middleware.ClerkUserID(r), &update)
	if err != nil {
		s.writeServiceError(w, r, err, types.ProfileUpdateFailed)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleOnboardingStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.profiles.OnboardingStatus(r.Context(), middleware.ClerkUserID(r))
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to check onboarding status")
		return
	}
	s.jsonResponse(w, http.StatusOK, status)
}

func (s *Server) handleIndustryInsights(w http.ResponseWriter, r *http.Request) {
	insight, err := s.profiles.Insights(r.Context(), middleware.ClerkUserID(r))
	if err != nil {
		s.writeServiceError(w, r, err, types.InsightsFailed)
		return
	}
	s.jsonResponse(w, http.StatusOK, insight)
}
