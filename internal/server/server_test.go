package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	authdomain "github.com/jadeswanstrom/ioweyou/internal/auth/domain"
	"github.com/jadeswanstrom/ioweyou/internal/config"
	invoicedomain "github.com/jadeswanstrom/ioweyou/internal/invoice/domain"
	publicdomain "github.com/jadeswanstrom/ioweyou/internal/publicinvoice/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type stubPublicService struct {
	views map[string]*publicdomain.View
}

func (s *stubPublicService) GetByToken(_ context.Context, token string) (*publicdomain.View, error) {
	if view, ok := s.views[token]; ok {
		return view, nil
	}
	return nil, publicdomain.ErrNotFoundOrUnshared
}

type stubAuthService struct {
	userID string
}

func (s *stubAuthService) Register(context.Context, authdomain.RegisterRequest) (*authdomain.AuthResponse, error) {
	return nil, authdomain.ErrInvalidRequest
}

func (s *stubAuthService) Login(context.Context, authdomain.LoginRequest) (*authdomain.AuthResponse, error) {
	return nil, authdomain.ErrInvalidCredentials
}

func (s *stubAuthService) VerifyToken(_ context.Context, raw string) (string, error) {
	if raw == "good-token" {
		return s.userID, nil
	}
	return "", authdomain.ErrInvalidToken
}

func (s *stubAuthService) GetByID(_ context.Context, userID string) (*authdomain.UserResponse, error) {
	if userID != s.userID {
		return nil, authdomain.ErrUserNotFound
	}
	return &authdomain.UserResponse{ID: userID, Email: "jane@example.com"}, nil
}

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		log: zap.NewNop(),
		cfg: config.Config{},
		authSvc: &stubAuthService{
			userID: "1234567890",
		},
		publicSvc: &stubPublicService{
			views: map[string]*publicdomain.View{
				"tok-shared": {
					Title:       "Logo design",
					Client:      "ACME",
					Total:       decimal.RequireFromString("42.5"),
					Currency:    "USD",
					Date:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
					Status:      invoicedomain.StatusUnpaid,
					PayableLink: "https://paypal.me/jdoe/42.50USD",
				},
			},
		},
		publicLimiter: newRateLimiter(0, time.Minute),
		authLimiter:   newRateLimiter(0, time.Minute),
	}

	engine := gin.New()
	engine.GET("/public/invoices/:token", s.RateLimit(s.publicLimiter), s.GetPublicInvoice)
	engine.GET("/auth/me", s.AuthRequired(), s.Me)
	return s, engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for key, value := range header {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestPublicInvoiceEndpoint(t *testing.T) {
	_, engine := newTestServer(t)

	rec := doRequest(t, engine, http.MethodGet, "/public/invoices/tok-shared", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var body struct {
		Data publicdomain.View `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Data.Title != "Logo design" || body.Data.PayableLink != "https://paypal.me/jdoe/42.50USD" {
		t.Fatalf("unexpected view %+v", body.Data)
	}

	raw := rec.Body.String()
	for _, leaked := range []string{"ownerId", "owner_id", "recipientEmails", "shareToken"} {
		if jsonHasKey(raw, leaked) {
			t.Fatalf("public view leaks %q: %s", leaked, raw)
		}
	}
}

func jsonHasKey(body, field string) bool {
	var decoded map[string]any
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return false
	}
	data, _ := decoded["data"].(map[string]any)
	_, ok := data[field]
	return ok
}

func TestPublicInvoiceEndpointNotFound(t *testing.T) {
	_, engine := newTestServer(t)

	rec := doRequest(t, engine, http.MethodGet, "/public/invoices/tok-unknown", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Code != "invoice_not_found_or_unshared" {
		t.Fatalf("unexpected error code %q", body.Error.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	_, engine := newTestServer(t)

	rec := doRequest(t, engine, http.MethodGet, "/auth/me", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: expected 401, got %d", rec.Code)
	}

	rec = doRequest(t, engine, http.MethodGet, "/auth/me", map[string]string{"Authorization": "Bearer bad-token"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", rec.Code)
	}

	rec = doRequest(t, engine, http.MethodGet, "/auth/me", map[string]string{"Authorization": "Bearer good-token"})
	if rec.Code != http.StatusOK {
		t.Fatalf("good token: expected 200, got %d: %s", rec.Code, rec.Body)
	}
}

func TestPublicRateLimit(t *testing.T) {
	s, _ := newTestServer(t)
	s.publicLimiter = newRateLimiter(2, time.Minute)

	engine := gin.New()
	engine.GET("/public/invoices/:token", s.RateLimit(s.publicLimiter), s.GetPublicInvoice)

	for i := 0; i < 2; i++ {
		rec := doRequest(t, engine, http.MethodGet, "/public/invoices/tok-shared", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
	rec := doRequest(t, engine, http.MethodGet, "/public/invoices/tok-shared", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}
