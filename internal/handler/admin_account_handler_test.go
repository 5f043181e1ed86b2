package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/halcyonlabs/portfolio-api/internal/models"
	"github.com/halcyonlabs/portfolio-api/internal/service"
	"github.com/halcyonlabs/portfolio-api/internal/utils"
)

type stubAccountService struct {
	users  []models.AdminUser
	err    error
	result *service.UpdateResult

	lastCallerID int
	lastTargetID int
}

func (s *stubAccountService) List() ([]models.AdminUser, error) {
	return s.users, s.err
}

func (s *stubAccountService) Create(in service.AccountInput) (*models.AdminUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.AdminUser{ID: 1, Username: in.Username, Email: in.Email, Role: models.RoleAdmin, IsActive: true}, nil
}

func (s *stubAccountService) Update(callerID, targetID int, in service.AccountInput) (*service.UpdateResult, error) {
	s.lastCallerID, s.lastTargetID = callerID, targetID
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubAccountService) Delete(callerID, targetID int) error {
	s.lastCallerID, s.lastTargetID = callerID, targetID
	return s.err
}

// newAccountRouter injects the caller identity the way the JWT middleware
// would, so self-targeting decisions see a real caller id.
func newAccountRouter(svc *stubAccountService, callerID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAdminAccountHandler(svc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", callerID)
		c.Next()
	})
	router.GET("/api/admin/accounts", h.List)
	router.POST("/api/admin/accounts", h.Create)
	router.PUT("/api/admin/accounts/:id", h.Update)
	router.DELETE("/api/admin/accounts/:id", h.Delete)
	return router
}

func TestAccountHandler_Create(t *testing.T) {
	router := newAccountRouter(&stubAccountService{}, 1)

	rr := postJSON(router, "/api/admin/accounts", gin.H{"username": "ana", "email": "ana@x.com", "password": "abcdef"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
}

func TestAccountHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", utils.Validationf("password", "must be at least 6 characters"), 400, "VALIDATION_ERROR"},
		{"duplicate username", utils.ErrDuplicateUsername, 400, "DUPLICATE_USERNAME"},
		{"duplicate email", utils.ErrDuplicateEmail, 400, "DUPLICATE_EMAIL"},
		{"duplicate account", utils.ErrDuplicateAccount, 400, "DUPLICATE_ACCOUNT"},
		{"not found", utils.ErrAccountNotFound, 404, "ACCOUNT_NOT_FOUND"},
		{"store failure", errors.New("connection refused"), 500, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newAccountRouter(&stubAccountService{err: tc.err}, 1)

			rr := postJSON(router, "/api/admin/accounts", gin.H{"username": "ana", "email": "ana@x.com", "password": "abcdef"})
			if rr.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rr.Code)
			}
			env := decodeEnvelope(t, rr)
			if env.Error == nil || env.Error.Code != tc.wantCode {
				t.Errorf("unexpected error payload: %+v", env.Error)
			}
		})
	}
}

func TestAccountHandler_UpdatePassesCallerIdentity(t *testing.T) {
	svc := &stubAccountService{result: &service.UpdateResult{IsUpdatingSelf: true}}
	router := newAccountRouter(svc, 7)

	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(gin.H{"username": "ana", "email": "ana@x.com"})
	req := httptest.NewRequest(http.MethodPut, "/api/admin/accounts/7", &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if svc.lastCallerID != 7 || svc.lastTargetID != 7 {
		t.Errorf("caller/target = %d/%d, want 7/7", svc.lastCallerID, svc.lastTargetID)
	}

	var data struct {
		IsUpdatingSelf bool `json:"isUpdatingSelf"`
	}
	env := decodeEnvelope(t, rr)
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if !data.IsUpdatingSelf {
		t.Error("isUpdatingSelf flag not surfaced to the client")
	}
}

func TestAccountHandler_DeleteDenials(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"self delete", utils.ErrSelfDelete, "SELF_DELETE"},
		{"last active admin", utils.ErrLastActiveAdmin, "LAST_ACTIVE_ADMIN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newAccountRouter(&stubAccountService{err: tc.err}, 1)

			req := httptest.NewRequest(http.MethodDelete, "/api/admin/accounts/2", nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rr.Code)
			}
			env := decodeEnvelope(t, rr)
			if env.Error == nil || env.Error.Code != tc.wantCode {
				t.Errorf("unexpected error payload: %+v", env.Error)
			}
		})
	}
}

func TestAccountHandler_InvalidID(t *testing.T) {
	router := newAccountRouter(&stubAccountService{}, 1)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/accounts/abc", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
