package http

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/az00102/EpicEscape-Server/internal/auth"
	"github.com/az00102/EpicEscape-Server/internal/clients"
	"github.com/az00102/EpicEscape-Server/internal/config"
	"github.com/az00102/EpicEscape-Server/internal/model"
	"github.com/az00102/EpicEscape-Server/internal/repository"
)

// PaymentIntents is the slice of the payment collaborator the handlers use.
type PaymentIntents interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (clients.PaymentIntent, error)
}

type Server struct {
	cfg      config.Config
	store    *repository.Store
	payments PaymentIntents
}

func NewServer(cfg config.Config, store *repository.Store, payments PaymentIntents) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		payments: payments,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/jwt", s.handleIssueToken)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.handleRegisterUser)
		r.With(s.authMiddleware, s.requireAdmin).Get("/", s.handleListUsers)
		r.With(s.authMiddleware).Get("/me", s.handleGetOwnProfile)
		r.With(s.authMiddleware).Get("/admin/{email}", s.handleCheckAdmin)
		r.With(s.authMiddleware).Patch("/request-role", s.handleRequestRole)
		r.With(s.authMiddleware, s.requireAdmin).Patch("/{userId}/role", s.handleDecideRole)
		r.With(s.authMiddleware).Patch("/{email}", s.handleUpdateProfile)
	})

	r.Route("/guides", func(r chi.Router) {
		r.Get("/", s.handleListGuides)
		r.Get("/{guideId}", s.handleGetGuide)
		r.With(s.authMiddleware).Post("/{guideId}/reviews", s.handleAddGuideReview)
	})

	r.Route("/packages", func(r chi.Router) {
		r.Get("/", s.handleListPackages)
		r.Get("/sample", s.handleSamplePackages)
		r.Get("/{packageId}", s.handleGetPackage)
		r.Get("/{packageId}/images/{index}", s.handleGetPackageImage)
		r.With(s.authMiddleware, s.requireAdmin).Post("/", s.handleCreatePackage)
		r.With(s.authMiddleware, s.requireAdmin).Delete("/{packageId}", s.handleDeletePackage)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.With(s.authMiddleware).Post("/", s.handleCreateBooking)
		r.With(s.authMiddleware).Get("/", s.handleListBookings)
		r.With(s.authMiddleware).Get("/assigned", s.handleListAssignedBookings)
		r.With(s.authMiddleware).Patch("/{bookingId}/status", s.handleUpdateBookingStatus)
		r.With(s.authMiddleware).Delete("/{bookingId}", s.handleDeleteBooking)
	})

	r.Route("/wishlist", func(r chi.Router) {
		r.With(s.authMiddleware).Post("/", s.handleAddWishlistItem)
		r.With(s.authMiddleware).Get("/", s.handleListWishlist)
		r.With(s.authMiddleware).Delete("/", s.handleRemoveWishlistItems)
	})

	r.Route("/payments", func(r chi.Router) {
		r.With(s.authMiddleware).Post("/intent", s.handleCreatePaymentIntent)
		r.With(s.authMiddleware).Post("/", s.handleRecordPayment)
		r.With(s.authMiddleware).Get("/", s.handleListPayments)
	})

	r.Route("/stories", func(r chi.Router) {
		r.Get("/", s.handleListStories)
		r.Get("/{storyId}", s.handleGetStory)
		r.With(s.authMiddleware).Post("/", s.handleCreateStory)
		r.With(s.authMiddleware).Patch("/{storyId}", s.handleUpdateStory)
		r.With(s.authMiddleware).Delete("/{storyId}", s.handleDeleteStory)
	})

	r.Route("/community", func(r chi.Router) {
		r.Get("/", s.handleListCommunityPosts)
		r.With(s.authMiddleware).Post("/", s.handleCreateCommunityPost)
	})

	r.Route("/blogs", func(r chi.Router) {
		r.Get("/", s.handleListBlogPosts)
		r.Get("/{blogId}", s.handleGetBlogPost)
		r.With(s.authMiddleware, s.requireAdmin).Post("/", s.handleCreateBlogPost)
		r.With(s.authMiddleware, s.requireAdmin).Patch("/{blogId}", s.handleUpdateBlogPost)
		r.With(s.authMiddleware, s.requireAdmin).Delete("/{blogId}", s.handleDeleteBlogPost)
	})

	return r
}

// Auth

type claimsKey struct{}

// authMiddleware is the credential gate for every protected route: it either
// rejects the request or attaches the decoded identity to the context. It
// runs before any repository access that depends on identity.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
			return
		}
		claims, err := auth.ParseToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token", "token is malformed, expired, or not issued by this server")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

// requireAdmin resolves the verified identity against the user collection and
// permits only role == admin. A missing user record means not admin, never an
// error.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
			return
		}
		user, err := s.store.GetUserByEmail(r.Context(), claims.Email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusForbidden, "forbidden", "admin access required")
				return
			}
			writeError(w, http.StatusInternalServerError, "server_error", "failed to resolve requester")
			return
		}
		if user.Role != model.RoleAdmin {
			writeError(w, http.StatusForbidden, "forbidden", "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// isAdmin is the read-path variant of the admin policy for handlers that let
// admins bypass the ownership check. Any failure counts as not admin.
func (s *Server) isAdmin(ctx context.Context, email string) bool {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return false
	}
	return user.Role == model.RoleAdmin
}

// Helpers

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func writeStoreError(w http.ResponseWriter, err error, notFoundCode, notFoundMessage string) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, notFoundCode, notFoundMessage)
		return
	}
	writeError(w, http.StatusInternalServerError, "server_error", "unexpected repository failure")
}

func parseObjectID(raw string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(strings.TrimSpace(raw))
}

func parseLimit(r *http.Request, fallback int) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

// toMinorUnits converts a decimal price to integer minor currency units,
// rounding half away from zero.
func toMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
