package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/az00102/EpicEscape-Server/internal/config"
	"github.com/az00102/EpicEscape-Server/internal/db"
	"github.com/az00102/EpicEscape-Server/internal/model"
	"github.com/az00102/EpicEscape-Server/internal/repository"
)

// openTestStore connects to the database named by EPICESCAPE_TEST_DB and
// starts from a dropped database so runs do not leak into each other.
func openTestStore(t *testing.T) *repository.Store {
	t.Helper()
	uri := os.Getenv("EPICESCAPE_TEST_DB")
	if uri == "" {
		t.Skip("EPICESCAPE_TEST_DB not set")
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := db.Connect(ctx, uri)
	if err != nil {
		t.Skipf("mongo unavailable: %v", err)
		return nil
	}
	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
	})

	database := client.Database("epicescape_test")
	if err := database.Drop(ctx); err != nil {
		t.Fatalf("drop test database: %v", err)
	}
	store := repository.NewStore(database)
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	return store
}

func newTestApp(t *testing.T) (*httptest.Server, *repository.Store, config.Config) {
	t.Helper()
	store := openTestStore(t)
	if store == nil {
		return nil, nil, config.Config{}
	}
	cfg := testConfig()
	server := NewServer(cfg, store, &stubPayments{})
	app := httptest.NewServer(server.Router())
	t.Cleanup(app.Close)
	return app, store, cfg
}

func seedUser(t *testing.T, store *repository.Store, email, name string, role model.Role) model.User {
	t.Helper()
	user := model.User{Email: email, Name: name, Role: role, CreatedAt: time.Now().UTC()}
	id, err := store.CreateUser(context.Background(), user)
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	user.ID = id
	return user
}

func httpDo(t *testing.T, method, url, tok string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		payload = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, payload)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, buf
}

func TestRegistrationConflict(t *testing.T) {
	app, _, _ := newTestApp(t)
	if app == nil {
		return
	}

	body := map[string]string{"email": "a@x.com", "name": "A", "role": "tourist"}
	resp, _ := httpDo(t, http.MethodPost, app.URL+"/users", "", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp, raw := httpDo(t, http.MethodPost, app.URL+"/users", "", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 on duplicate, got %d", resp.StatusCode)
	}
	var errResp errorResponse
	if err := json.Unmarshal(raw, &errResp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if errResp.Error != "user_exists" {
		t.Fatalf("expected user_exists, got %s", errResp.Error)
	}
}

func TestRegistrationDefaultsToTourist(t *testing.T) {
	app, _, _ := newTestApp(t)
	if app == nil {
		return
	}

	resp, raw := httpDo(t, http.MethodPost, app.URL+"/users", "", map[string]string{
		"email": "b@x.com", "name": "B",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Role != model.RoleTourist {
		t.Fatalf("expected default role tourist, got %s", user.Role)
	}
}

func TestAdminGateFailsClosed(t *testing.T) {
	app, store, cfg := newTestApp(t)
	if app == nil {
		return
	}
	seedUser(t, store, "tourist@x.com", "Tourist", model.RoleTourist)

	// Verified identity without admin role.
	resp, _ := httpDo(t, http.MethodGet, app.URL+"/users/", mustToken(t, cfg, "tourist@x.com", time.Hour), nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for tourist, got %d", resp.StatusCode)
	}

	// Verified identity with no user record at all.
	resp, _ = httpDo(t, http.MethodGet, app.URL+"/users/", mustToken(t, cfg, "ghost@x.com", time.Hour), nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown identity, got %d", resp.StatusCode)
	}

	seedUser(t, store, "admin@x.com", "Admin", model.RoleAdmin)
	resp, _ = httpDo(t, http.MethodGet, app.URL+"/users/", mustToken(t, cfg, "admin@x.com", time.Hour), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", resp.StatusCode)
	}
}

func TestRoleElevationWorkflow(t *testing.T) {
	app, store, cfg := newTestApp(t)
	if app == nil {
		return
	}
	seedUser(t, store, "admin@x.com", "Admin", model.RoleAdmin)
	applicant := seedUser(t, store, "c@x.com", "C", model.RoleTourist)

	// none -> requested
	resp, _ := httpDo(t, http.MethodPatch, app.URL+"/users/request-role", mustToken(t, cfg, "c@x.com", time.Hour), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on request, got %d", resp.StatusCode)
	}

	// requested -> approved: role becomes the requested value, request cleared
	resp, _ = httpDo(t, http.MethodPatch, app.URL+"/users/"+applicant.ID.Hex()+"/role",
		mustToken(t, cfg, "admin@x.com", time.Hour), map[string]string{"decision": "approved"})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 on approval, got %d", resp.StatusCode)
	}
	updated, err := store.GetUserByEmail(context.Background(), "c@x.com")
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if updated.Role != model.RoleTourGuide {
		t.Fatalf("expected role tourguide after approval, got %s", updated.Role)
	}
	if updated.RequestRole != nil {
		t.Fatalf("expected requestRole cleared after approval, got %v", *updated.RequestRole)
	}

	// rejected: role unchanged, request cleared
	rejectee := seedUser(t, store, "d@x.com", "D", model.RoleTourist)
	resp, _ = httpDo(t, http.MethodPatch, app.URL+"/users/request-role", mustToken(t, cfg, "d@x.com", time.Hour), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on request, got %d", resp.StatusCode)
	}
	resp, _ = httpDo(t, http.MethodPatch, app.URL+"/users/"+rejectee.ID.Hex()+"/role",
		mustToken(t, cfg, "admin@x.com", time.Hour), map[string]string{"decision": "rejected"})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 on rejection, got %d", resp.StatusCode)
	}
	updated, err = store.GetUserByEmail(context.Background(), "d@x.com")
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if updated.Role != model.RoleTourist {
		t.Fatalf("expected role unchanged after rejection, got %s", updated.Role)
	}
	if updated.RequestRole != nil {
		t.Fatalf("expected requestRole cleared after rejection")
	}

	// decision without a pending request is a conflict
	resp, _ = httpDo(t, http.MethodPatch, app.URL+"/users/"+rejectee.ID.Hex()+"/role",
		mustToken(t, cfg, "admin@x.com", time.Hour), map[string]string{"decision": "approved"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without pending request, got %d", resp.StatusCode)
	}
}

func TestWishlistDuplicate(t *testing.T) {
	app, store, cfg := newTestApp(t)
	if app == nil {
		return
	}
	seedUser(t, store, "a@x.com", "A", model.RoleTourist)
	pkgID, err := store.CreatePackage(context.Background(), model.Package{
		Title: "Sundarbans", TourType: "wildlife", Price: 120, CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed package: %v", err)
	}

	body := map[string]interface{}{"packageId": pkgID.Hex(), "packageTitle": "Sundarbans", "price": 120}
	resp, _ := httpDo(t, http.MethodPost, app.URL+"/wishlist/", mustToken(t, cfg, "a@x.com", time.Hour), body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	resp, raw := httpDo(t, http.MethodPost, app.URL+"/wishlist/", mustToken(t, cfg, "a@x.com", time.Hour), body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 on duplicate, got %d", resp.StatusCode)
	}
	var errResp errorResponse
	if err := json.Unmarshal(raw, &errResp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if errResp.Error != "already_in_wishlist" {
		t.Fatalf("expected already_in_wishlist, got %s", errResp.Error)
	}

	items, err := store.ListWishlist(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("list wishlist: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(items))
	}
}

func TestBookingMissingPackage(t *testing.T) {
	app, store, cfg := newTestApp(t)
	if app == nil {
		return
	}
	seedUser(t, store, "a@x.com", "A", model.RoleTourist)

	resp, raw := httpDo(t, http.MethodPost, app.URL+"/bookings/", mustToken(t, cfg, "a@x.com", time.Hour), map[string]string{
		"packageId": "65b2f0a1c4e8a93f2b000000",
		"date":      time.Now().UTC().Format(time.RFC3339),
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.StatusCode, raw)
	}
	var errResp errorResponse
	if err := json.Unmarshal(raw, &errResp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if errResp.Error != "package_not_found" {
		t.Fatalf("expected package_not_found, got %s", errResp.Error)
	}

	bookings, err := store.ListBookingsByTourist(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	if len(bookings) != 0 {
		t.Fatalf("expected no booking written, got %d", len(bookings))
	}
}

func TestBookingStatusDecision(t *testing.T) {
	app, store, cfg := newTestApp(t)
	if app == nil {
		return
	}
	seedUser(t, store, "a@x.com", "A", model.RoleTourist)
	guide := seedUser(t, store, "guide@x.com", "Guide", model.RoleTourGuide)
	pkgID, err := store.CreatePackage(context.Background(), model.Package{
		Title: "Cox's Bazar", TourType: "beach", Price: 80, CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed package: %v", err)
	}

	resp, raw := httpDo(t, http.MethodPost, app.URL+"/bookings/", mustToken(t, cfg, "a@x.com", time.Hour), map[string]string{
		"packageId": pkgID.Hex(),
		"guideId":   guide.ID.Hex(),
		"date":      time.Now().UTC().Format(time.RFC3339),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, raw)
	}
	var booking model.Booking
	if err := json.Unmarshal(raw, &booking); err != nil {
		t.Fatalf("decode booking: %v", err)
	}
	if booking.Status != model.BookingInReview {
		t.Fatalf("expected in-review status, got %s", booking.Status)
	}

	// Tourist cannot decide their own booking.
	resp, _ = httpDo(t, http.MethodPatch, app.URL+"/bookings/"+booking.ID.Hex()+"/status",
		mustToken(t, cfg, "a@x.com", time.Hour), map[string]string{"status": "accepted"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for tourist decision, got %d", resp.StatusCode)
	}

	// The assigned guide can.
	resp, _ = httpDo(t, http.MethodPatch, app.URL+"/bookings/"+booking.ID.Hex()+"/status",
		mustToken(t, cfg, "guide@x.com", time.Hour), map[string]string{"status": "accepted"})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 for guide decision, got %d", resp.StatusCode)
	}

	assigned, err := store.ListBookingsByGuide(context.Background(), guide.ID)
	if err != nil {
		t.Fatalf("list assigned: %v", err)
	}
	if len(assigned) != 1 || assigned[0].Status != model.BookingAccepted {
		t.Fatalf("expected one accepted booking, got %+v", assigned)
	}
}

func TestPaymentHistoryOwnership(t *testing.T) {
	app, store, cfg := newTestApp(t)
	if app == nil {
		return
	}
	seedUser(t, store, "a@x.com", "A", model.RoleTourist)
	seedUser(t, store, "b@x.com", "B", model.RoleTourist)

	resp, _ := httpDo(t, http.MethodPost, app.URL+"/payments/", mustToken(t, cfg, "b@x.com", time.Hour), map[string]interface{}{
		"price":    120.0,
		"currency": "usd",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	// a@x.com asking for b@x.com's history is forbidden.
	resp, _ = httpDo(t, http.MethodGet, app.URL+"/payments/?email=b@x.com", mustToken(t, cfg, "a@x.com", time.Hour), nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}

	// The owner can read it.
	resp, raw := httpDo(t, http.MethodGet, app.URL+"/payments/?email=b@x.com", mustToken(t, cfg, "b@x.com", time.Hour), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var payments []model.Payment
	if err := json.Unmarshal(raw, &payments); err != nil {
		t.Fatalf("decode payments: %v", err)
	}
	if len(payments) != 1 || payments[0].Amount != 12000 {
		t.Fatalf("expected one payment of 12000 minor units, got %+v", payments)
	}

	// An admin can read anyone's history.
	seedUser(t, store, "admin@x.com", "Admin", model.RoleAdmin)
	resp, _ = httpDo(t, http.MethodGet, app.URL+"/payments/?email=b@x.com", mustToken(t, cfg, "admin@x.com", time.Hour), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", resp.StatusCode)
	}
}

func TestProfileOwnership(t *testing.T) {
	app, store, cfg := newTestApp(t)
	if app == nil {
		return
	}
	seedUser(t, store, "a@x.com", "A", model.RoleTourist)
	seedUser(t, store, "b@x.com", "B", model.RoleTourist)

	resp, _ := httpDo(t, http.MethodPatch, app.URL+"/users/b@x.com", mustToken(t, cfg, "a@x.com", time.Hour),
		map[string]string{"name": "Mallory"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}

	resp, _ = httpDo(t, http.MethodPatch, app.URL+"/users/a@x.com", mustToken(t, cfg, "a@x.com", time.Hour),
		map[string]string{"name": "Alice"})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	updated, err := store.GetUserByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if updated.Name != "Alice" {
		t.Fatalf("expected updated name, got %s", updated.Name)
	}
}

func TestGuideReview(t *testing.T) {
	app, store, cfg := newTestApp(t)
	if app == nil {
		return
	}
	seedUser(t, store, "a@x.com", "A", model.RoleTourist)
	guide := seedUser(t, store, "guide@x.com", "Guide", model.RoleTourGuide)

	resp, _ := httpDo(t, http.MethodPost, app.URL+"/guides/"+guide.ID.Hex()+"/reviews",
		mustToken(t, cfg, "a@x.com", time.Hour), map[string]interface{}{"rating": 5, "comment": "great trip"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp, raw := httpDo(t, http.MethodGet, app.URL+"/guides/"+guide.ID.Hex(), "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var reloaded model.User
	if err := json.Unmarshal(raw, &reloaded); err != nil {
		t.Fatalf("decode guide: %v", err)
	}
	if len(reloaded.Reviews) != 1 || reloaded.Reviews[0].Email != "a@x.com" {
		t.Fatalf("expected one review from a@x.com, got %+v", reloaded.Reviews)
	}

	// Rating outside 1..5 is rejected at the boundary.
	resp, _ = httpDo(t, http.MethodPost, app.URL+"/guides/"+guide.ID.Hex()+"/reviews",
		mustToken(t, cfg, "a@x.com", time.Hour), map[string]interface{}{"rating": 9, "comment": "x"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestStoryAuthorOrAdminMutation(t *testing.T) {
	app, store, cfg := newTestApp(t)
	if app == nil {
		return
	}
	seedUser(t, store, "a@x.com", "A", model.RoleTourist)
	seedUser(t, store, "b@x.com", "B", model.RoleTourist)
	seedUser(t, store, "admin@x.com", "Admin", model.RoleAdmin)

	resp, raw := httpDo(t, http.MethodPost, app.URL+"/stories/", mustToken(t, cfg, "a@x.com", time.Hour),
		map[string]string{"title": "My trip", "content": "It rained."})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var story model.Story
	if err := json.Unmarshal(raw, &story); err != nil {
		t.Fatalf("decode story: %v", err)
	}

	resp, _ = httpDo(t, http.MethodPatch, app.URL+"/stories/"+story.ID.Hex(), mustToken(t, cfg, "b@x.com", time.Hour),
		map[string]string{"title": "Hijacked"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-author, got %d", resp.StatusCode)
	}

	resp, _ = httpDo(t, http.MethodPatch, app.URL+"/stories/"+story.ID.Hex(), mustToken(t, cfg, "a@x.com", time.Hour),
		map[string]string{"title": "My wet trip"})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 for author, got %d", resp.StatusCode)
	}

	resp, _ = httpDo(t, http.MethodDelete, app.URL+"/stories/"+story.ID.Hex(), mustToken(t, cfg, "admin@x.com", time.Hour), nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 for admin delete, got %d", resp.StatusCode)
	}
}
