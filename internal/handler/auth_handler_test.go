package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/halcyonlabs/portfolio-api/internal/middleware"
	"github.com/halcyonlabs/portfolio-api/internal/models"
	"github.com/halcyonlabs/portfolio-api/internal/utils"
)

type stubAuthService struct {
	token    string
	identity models.Identity
	err      error
}

func (s *stubAuthService) Login(identifier, password string) (string, models.Identity, error) {
	if s.err != nil {
		return "", models.Identity{}, s.err
	}
	return s.token, s.identity, nil
}

type stubSetupService struct {
	needsSetup bool
	err        error
}

func (s *stubSetupService) NeedsSetup() (bool, error) {
	return s.needsSetup, s.err
}

func newAuthRouter(auth *stubAuthService, setup *stubSetupService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(auth, setup, middleware.NewFailedLoginRateLimiter(), false)

	router := gin.New()
	router.POST("/api/admin/auth/login", h.Login)
	router.POST("/api/admin/auth/logout", h.Logout)
	router.GET("/api/admin/setup-status", h.SetupStatus)
	router.POST("/api/admin/setup", h.Setup)
	return router
}

type envelope struct {
	Success bool `json:"success"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Data json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestLoginHandler_SetsSessionCookie(t *testing.T) {
	auth := &stubAuthService{
		token:    "signed-token",
		identity: models.Identity{ID: 1, Username: "ana", Email: "ana@x.com", Role: models.RoleAdmin},
	}
	router := newAuthRouter(auth, &stubSetupService{})

	rr := postJSON(router, "/api/admin/auth/login", gin.H{"identifier": "ana", "password": "abcdef"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var sessionCookie *http.Cookie
	for _, ck := range rr.Result().Cookies() {
		if ck.Name == middleware.SessionCookieName {
			sessionCookie = ck
		}
	}
	if sessionCookie == nil {
		t.Fatal("session cookie not set")
	}
	if sessionCookie.Value != "signed-token" {
		t.Errorf("cookie value = %q", sessionCookie.Value)
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie is not HttpOnly")
	}
	if want := int(utils.SessionTTL.Seconds()); sessionCookie.MaxAge != want {
		t.Errorf("cookie MaxAge = %d, want %d", sessionCookie.MaxAge, want)
	}
}

func TestLoginHandler_FailureShapeIsUniform(t *testing.T) {
	// Wrong password and unknown account must produce the same status,
	// code, and message so responses cannot be used to probe for accounts.
	responses := make([]envelope, 0, 2)
	for i, cause := range []error{utils.ErrInvalidCredentials, utils.ErrInvalidCredentials} {
		router := newAuthRouter(&stubAuthService{err: cause}, &stubSetupService{})
		rr := postJSON(router, "/api/admin/auth/login", gin.H{"identifier": fmt.Sprintf("user%d", i), "password": "x"})
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
		responses = append(responses, decodeEnvelope(t, rr))
	}

	for _, env := range responses {
		if env.Error == nil {
			t.Fatal("missing error payload")
		}
		if env.Error.Code != "INVALID_CREDENTIALS" || env.Error.Message != "Invalid credentials" {
			t.Errorf("unexpected error payload: %+v", env.Error)
		}
	}
}

func TestLoginHandler_InternalErrorStaysGeneric(t *testing.T) {
	router := newAuthRouter(&stubAuthService{err: errors.New("token signing failed")}, &stubSetupService{})

	rr := postJSON(router, "/api/admin/auth/login", gin.H{"identifier": "ana", "password": "abcdef"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	if env.Error == nil || env.Error.Code != "INVALID_CREDENTIALS" {
		t.Errorf("unexpected error payload: %+v", env.Error)
	}
}

func TestLoginHandler_MissingFields(t *testing.T) {
	router := newAuthRouter(&stubAuthService{}, &stubSetupService{})

	rr := postJSON(router, "/api/admin/auth/login", gin.H{"identifier": "ana"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestLoginHandler_RateLimitsFailedAttempts(t *testing.T) {
	router := newAuthRouter(&stubAuthService{err: utils.ErrInvalidCredentials}, &stubSetupService{})

	body := gin.H{"identifier": "ana", "password": "wrong"}
	for i := 0; i < 5; i++ {
		if rr := postJSON(router, "/api/admin/auth/login", body); rr.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i, rr.Code)
		}
	}

	rr := postJSON(router, "/api/admin/auth/login", body)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after repeated failures, got %d", rr.Code)
	}
}

func TestLogoutHandler_ClearsCookie(t *testing.T) {
	router := newAuthRouter(&stubAuthService{}, &stubSetupService{})

	rr := postJSON(router, "/api/admin/auth/logout", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var sessionCookie *http.Cookie
	for _, ck := range rr.Result().Cookies() {
		if ck.Name == middleware.SessionCookieName {
			sessionCookie = ck
		}
	}
	if sessionCookie == nil {
		t.Fatal("session cookie not touched")
	}
	if sessionCookie.Value != "" || sessionCookie.MaxAge >= 0 {
		t.Errorf("cookie not cleared: value=%q maxAge=%d", sessionCookie.Value, sessionCookie.MaxAge)
	}
}

func TestSetupStatusHandler(t *testing.T) {
	router := newAuthRouter(&stubAuthService{}, &stubSetupService{needsSetup: true})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/setup-status", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var data struct {
		NeedsSetup bool `json:"needsSetup"`
	}
	env := decodeEnvelope(t, rr)
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if !data.NeedsSetup {
		t.Error("expected needsSetup=true")
	}
}

func TestSetupHandler_AlwaysForbidden(t *testing.T) {
	// Even when no accounts exist the endpoint refuses; provisioning is
	// command-line only.
	for _, needsSetup := range []bool{true, false} {
		router := newAuthRouter(&stubAuthService{}, &stubSetupService{needsSetup: needsSetup})

		rr := postJSON(router, "/api/admin/setup", gin.H{"username": "ana", "email": "ana@x.com", "password": "abcdef"})
		if rr.Code != http.StatusForbidden {
			t.Fatalf("needsSetup=%v: expected 403, got %d", needsSetup, rr.Code)
		}
		env := decodeEnvelope(t, rr)
		if env.Error == nil || env.Error.Code != "SETUP_DISABLED" {
			t.Errorf("unexpected error payload: %+v", env.Error)
		}
		if env.Error.Message != setupDisabledMessage {
			t.Errorf("unexpected message: %q", env.Error.Message)
		}
	}
}
