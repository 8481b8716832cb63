package http

import (
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/az00102/EpicEscape-Server/internal/model"
	"github.com/az00102/EpicEscape-Server/internal/repository"
)

type addWishlistRequest struct {
	PackageID    string  `json:"packageId"`
	PackageTitle string  `json:"packageTitle"`
	Price        float64 `json:"price"`
}

// handleAddWishlistItem saves a package for the caller. A second add of the
// same package fails with a conflict and leaves exactly one record.
func (s *Server) handleAddWishlistItem(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
		return
	}
	var req addWishlistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON object")
		return
	}
	packageID, err := parseObjectID(req.PackageID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "package id is not a valid identifier")
		return
	}

	item := model.WishlistItem{
		Email:        claims.Email,
		PackageID:    packageID,
		PackageTitle: req.PackageTitle,
		Price:        req.Price,
		AddedAt:      time.Now().UTC(),
	}
	id, err := s.store.AddWishlistItem(r.Context(), item)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "already_in_wishlist", "Package already in wishlist")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", "failed to add wishlist item")
		return
	}
	item.ID = id
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleListWishlist(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
		return
	}
	items, err := s.store.ListWishlist(r.Context(), claims.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "failed to list wishlist")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type removeWishlistRequest struct {
	IDs []string `json:"ids"`
}

// handleRemoveWishlistItems deletes the named items from the caller's own
// wishlist. A non-array ids value is rejected at the boundary.
func (s *Server) handleRemoveWishlistItems(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
		return
	}
	var req removeWishlistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "ids must be an array of identifiers")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "missing_ids", "at least one id is required")
		return
	}
	ids := make([]primitive.ObjectID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := parseObjectID(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "ids must be valid identifiers")
			return
		}
		ids = append(ids, id)
	}

	deleted, err := s.store.RemoveWishlistItems(r.Context(), claims.Email, ids)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "failed to remove wishlist items")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
