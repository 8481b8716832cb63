package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/az00102/EpicEscape-Server/internal/auth"
	"github.com/az00102/EpicEscape-Server/internal/model"
	"github.com/az00102/EpicEscape-Server/internal/repository"
	"github.com/go-chi/chi/v5"
)

type issueTokenRequest struct {
	Email string `json:"email"`
}

// handleIssueToken mints the time-boxed identity assertion. The subject is
// trusted to have been authenticated out-of-band before calling this.
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON object")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		writeError(w, http.StatusBadRequest, "missing_email", "email is required")
		return
	}
	token, err := auth.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.AccessTokenTTL, email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "failed to sign token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

type registerUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
	Role     string `json:"role"`
}

func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON object")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "missing_fields", "email and name are required")
		return
	}

	role := model.RoleTourist
	switch model.Role(req.Role) {
	case "", model.RoleTourist:
	case model.RoleTourGuide:
		role = model.RoleTourGuide
	default:
		writeError(w, http.StatusBadRequest, "invalid_role", "role must be tourist or tourguide")
		return
	}

	user := model.User{
		Email:     req.Email,
		Name:      req.Name,
		PhotoURL:  req.PhotoURL,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	id, err := s.store.CreateUser(r.Context(), user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "user_exists", "User already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", "failed to create user")
		return
	}
	user.ID = id
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetOwnProfile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
		return
	}
	user, err := s.store.GetUserByEmail(r.Context(), claims.Email)
	if err != nil {
		writeStoreError(w, err, "user_not_found", "no profile for this identity")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// handleCheckAdmin reports whether the caller is an admin. The target email
// must be the caller's own; a missing user record means not admin.
func (s *Server) handleCheckAdmin(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
		return
	}
	email := chi.URLParam(r, "email")
	if !strings.EqualFold(email, claims.Email) {
		writeError(w, http.StatusForbidden, "forbidden", "cannot query another identity")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"admin": s.isAdmin(r.Context(), claims.Email)})
}

type updateProfileRequest struct {
	Name     *string `json:"name"`
	PhotoURL *string `json:"photoURL"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Bio      *string `json:"bio"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
		return
	}
	email := chi.URLParam(r, "email")
	if !strings.EqualFold(email, claims.Email) && !s.isAdmin(r.Context(), claims.Email) {
		writeError(w, http.StatusForbidden, "forbidden", "cannot update another identity's profile")
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON object")
		return
	}
	if req.Name == nil && req.PhotoURL == nil && req.Phone == nil && req.Address == nil && req.Bio == nil {
		writeError(w, http.StatusBadRequest, "empty_update", "no fields to update")
		return
	}
	update := repository.ProfileUpdate{
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
		Phone:    req.Phone,
		Address:  req.Address,
		Bio:      req.Bio,
	}
	if err := s.store.UpdateUserProfile(r.Context(), email, update); err != nil {
		writeStoreError(w, err, "user_not_found", "no profile for this email")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRequestRole starts the elevation workflow: none -> requested. A
// repeated request overwrites the pending value.
func (s *Server) handleRequestRole(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
		return
	}
	if err := s.store.SetRequestRole(r.Context(), claims.Email, model.RoleTourGuide); err != nil {
		writeStoreError(w, err, "user_not_found", "no profile for this identity")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"requestRole": string(model.RoleTourGuide)})
}

type roleDecisionRequest struct {
	Decision string `json:"decision"`
}

// handleDecideRole resolves a pending elevation request: approved promotes
// role to requestRole, rejected keeps role; either way the pending value is
// cleared.
func (s *Server) handleDecideRole(w http.ResponseWriter, r *http.Request) {
	userID, err := parseObjectID(chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "user id is not a valid identifier")
		return
	}
	var req roleDecisionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON object")
		return
	}

	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		writeStoreError(w, err, "user_not_found", "no user with this id")
		return
	}
	if user.RequestRole == nil {
		writeError(w, http.StatusBadRequest, "no_pending_request", "user has no pending role request")
		return
	}

	switch req.Decision {
	case "approved":
		err = s.store.ApproveRoleRequest(r.Context(), userID)
	case "rejected":
		err = s.store.RejectRoleRequest(r.Context(), userID)
	default:
		writeError(w, http.StatusBadRequest, "invalid_decision", "decision must be approved or rejected")
		return
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "no_pending_request", "user has no pending role request")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", "failed to apply decision")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
