package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/az00102/EpicEscape-Server/internal/model"
)

type paymentIntentRequest struct {
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

// handleCreatePaymentIntent converts the decimal price to integer minor
// currency units and asks the payment collaborator for a client-side
// confirmation secret.
func (s *Server) handleCreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
		return
	}
	var req paymentIntentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON object")
		return
	}
	if req.Price <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_price", "price must be a positive decimal")
		return
	}
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "usd"
	}

	intent, err := s.payments.CreateIntent(r.Context(), toMinorUnits(req.Price), currency)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "payment_error", "payment provider rejected the intent")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"clientSecret": intent.ClientSecret})
}

type recordPaymentRequest struct {
	BookingID     string  `json:"bookingId"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	TransactionID string  `json:"transactionId"`
}

// handleRecordPayment stores a client-submitted payment confirmation. The
// settlement itself is trusted, not re-verified; the owner is always the
// verified identity.
func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
		return
	}
	var req recordPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON object")
		return
	}
	if req.Price <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_price", "price must be a positive decimal")
		return
	}
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "usd"
	}

	payment := model.Payment{
		Email:         claims.Email,
		Amount:        toMinorUnits(req.Price),
		Currency:      currency,
		TransactionID: strings.TrimSpace(req.TransactionID),
		PaidAt:        time.Now().UTC(),
	}
	if payment.TransactionID == "" {
		payment.TransactionID = uuid.NewString()
	}
	if strings.TrimSpace(req.BookingID) != "" {
		bookingID, err := parseObjectID(req.BookingID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "booking id is not a valid identifier")
			return
		}
		payment.BookingID = bookingID
	}

	id, err := s.store.CreatePayment(r.Context(), payment)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "failed to record payment")
		return
	}
	payment.ID = id
	writeJSON(w, http.StatusCreated, payment)
}

// handleListPayments returns a payment history. Only the owner of the history
// (or an admin) may read it.
func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
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
		writeError(w, http.StatusForbidden, "forbidden", "cannot read another identity's payments")
		return
	}
	payments, err := s.store.ListPaymentsByEmail(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "failed to list payments")
		return
	}
	writeJSON(w, http.StatusOK, payments)
}
