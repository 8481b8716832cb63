package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/az00102/EpicEscape-Server/internal/model"
)

func (s *Server) handleListGuides(w http.ResponseWriter, r *http.Request) {
	guides, err := s.store.ListGuides(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "failed to list guides")
		return
	}
	writeJSON(w, http.StatusOK, guides)
}

func (s *Server) handleGetGuide(w http.ResponseWriter, r *http.Request) {
	guideID, err := parseObjectID(chi.URLParam(r, "guideId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "guide id is not a valid identifier")
		return
	}
	guide, err := s.store.GetGuideByID(r.Context(), guideID)
	if err != nil {
		writeStoreError(w, err, "guide_not_found", "no tour guide with this id")
		return
	}
	writeJSON(w, http.StatusOK, guide)
}

type addReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// handleAddGuideReview appends a review to a guide profile. The reviewer
// identity comes from the verified claims, not the request body.
func (s *Server) handleAddGuideReview(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
		return
	}
	guideID, err := parseObjectID(chi.URLParam(r, "guideId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "guide id is not a valid identifier")
		return
	}
	var req addReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON object")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeError(w, http.StatusBadRequest, "invalid_rating", "rating must be between 1 and 5")
		return
	}
	if strings.TrimSpace(req.Comment) == "" {
		writeError(w, http.StatusBadRequest, "missing_fields", "comment is required")
		return
	}

	review := model.Review{
		Rating:  req.Rating,
		Comment: req.Comment,
		Email:   claims.Email,
		Date:    time.Now().UTC(),
	}
	if err := s.store.AppendGuideReview(r.Context(), guideID, review); err != nil {
		writeStoreError(w, err, "guide_not_found", "no tour guide with this id")
		return
	}
	writeJSON(w, http.StatusCreated, review)
}
