package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/az00102/EpicEscape-Server/internal/model"
)

type createBookingRequest struct {
	PackageID string `json:"packageId"`
	GuideID   string `json:"guideId"`
	Date      string `json:"date"`
}

// handleCreateBooking reads the package (and guide, when named) before the
// booking write. There is no atomicity across the reads and the write; a
// package deleted in between is not detected by the insert.
func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
		return
	}
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON object")
		return
	}
	packageID, err := parseObjectID(req.PackageID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "package id is not a valid identifier")
		return
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "date must be an RFC 3339 timestamp")
		return
	}

	pkg, err := s.store.GetPackage(r.Context(), packageID)
	if err != nil {
		writeStoreError(w, err, "package_not_found", "Package not found")
		return
	}
	tourist, err := s.store.GetUserByEmail(r.Context(), claims.Email)
	if err != nil {
		writeStoreError(w, err, "user_not_found", "no profile for this identity")
		return
	}

	booking := model.Booking{
		PackageID:    packageID,
		PackageTitle: pkg.Title,
		TouristEmail: tourist.Email,
		TouristName:  tourist.Name,
		Date:         date,
		Price:        pkg.Price,
		Status:       model.BookingInReview,
		CreatedAt:    time.Now().UTC(),
	}
	if strings.TrimSpace(req.GuideID) != "" {
		guideID, err := parseObjectID(req.GuideID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "guide id is not a valid identifier")
			return
		}
		guide, err := s.store.GetGuideByID(r.Context(), guideID)
		if err != nil {
			writeStoreError(w, err, "guide_not_found", "no tour guide with this id")
			return
		}
		booking.GuideID = guide.ID
		booking.GuideName = guide.Name
	}

	id, err := s.store.CreateBooking(r.Context(), booking)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "failed to create booking")
		return
	}
	booking.ID = id
	writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
		return
	}
	email := r.URL.Query().Get("email")
	if email == "" {
		email = claims.Email
	}
	if !strings.EqualFold(email, claims.Email) && !s.isAdmin(r.Context(), claims.Email) {
		writeError(w, http.StatusForbidden, "forbidden", "cannot read another identity's bookings")
		return
	}
	bookings, err := s.store.ListBookingsByTourist(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "failed to list bookings")
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// handleListAssignedBookings lists the bookings assigned to the calling tour
// guide.
func (s *Server) handleListAssignedBookings(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
		return
	}
	user, err := s.store.GetUserByEmail(r.Context(), claims.Email)
	if err != nil || user.Role != model.RoleTourGuide {
		writeError(w, http.StatusForbidden, "forbidden", "tour guide access required")
		return
	}
	bookings, err := s.store.ListBookingsByGuide(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "failed to list bookings")
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

type bookingStatusRequest struct {
	Status string `json:"status"`
}

// handleUpdateBookingStatus lets the assigned guide or an admin accept or
// reject a booking.
func (s *Server) handleUpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
		return
	}
	bookingID, err := parseObjectID(chi.URLParam(r, "bookingId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "booking id is not a valid identifier")
		return
	}
	var req bookingStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON object")
		return
	}
	status := model.BookingStatus(req.Status)
	if status != model.BookingAccepted && status != model.BookingRejected {
		writeError(w, http.StatusBadRequest, "invalid_status", "status must be accepted or rejected")
		return
	}

	booking, err := s.store.GetBooking(r.Context(), bookingID)
	if err != nil {
		writeStoreError(w, err, "booking_not_found", "no booking with this id")
		return
	}
	user, err := s.store.GetUserByEmail(r.Context(), claims.Email)
	if err != nil {
		writeError(w, http.StatusForbidden, "forbidden", "not allowed to decide this booking")
		return
	}
	assignedGuide := user.Role == model.RoleTourGuide && booking.GuideID != primitive.NilObjectID && booking.GuideID == user.ID
	if !assignedGuide && user.Role != model.RoleAdmin {
		writeError(w, http.StatusForbidden, "forbidden", "not allowed to decide this booking")
		return
	}

	if err := s.store.UpdateBookingStatus(r.Context(), bookingID, status); err != nil {
		writeStoreError(w, err, "booking_not_found", "no booking with this id")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
		return
	}
	bookingID, err := parseObjectID(chi.URLParam(r, "bookingId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "booking id is not a valid identifier")
		return
	}
	booking, err := s.store.GetBooking(r.Context(), bookingID)
	if err != nil {
		writeStoreError(w, err, "booking_not_found", "no booking with this id")
		return
	}
	if !strings.EqualFold(booking.TouristEmail, claims.Email) && !s.isAdmin(r.Context(), claims.Email) {
		writeError(w, http.StatusForbidden, "forbidden", "cannot cancel another identity's booking")
		return
	}
	if err := s.store.DeleteBooking(r.Context(), bookingID); err != nil {
		writeStoreError(w, err, "booking_not_found", "no booking with this id")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
