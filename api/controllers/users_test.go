package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/YodaBikarbona/school-book-server/api/middleware"
	"github.com/YodaBikarbona/school-book-server/internal/accounts"
	"github.com/YodaBikarbona/school-book-server/internal/authz"
	"github.com/YodaBikarbona/school-book-server/pkg/db/models"
	"github.com/YodaBikarbona/school-book-server/pkg/enums"
	pkgerrors "github.com/YodaBikarbona/school-book-server/pkg/errors"
	"github.com/YodaBikarbona/school-book-server/pkg/logger"
)

// stubAccounts satisfies accounts.Service with canned responses.
type stubAccounts struct {
	loginResult *accounts.LoginResult
	loginErr    error
	users       []models.User
	getErr      error
	resent      []string
}

func (s *stubAccounts) Authenticate(ctx context.Context, req accounts.LoginRequest) (*accounts.LoginResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAccounts) ActivateByCode(ctx context.Context, req accounts.ActivateByCodeRequest) error {
	return nil
}

func (s *stubAccounts) ResendActivation(ctx context.Context, email string) error {
	s.resent = append(s.resent, email)
	return nil
}

func (s *stubAccounts) Create(ctx context.Context, req accounts.CreateAccountRequest) (*models.User, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not wired")
}

func (s *stubAccounts) Edit(ctx context.Context, userID int64, req accounts.EditAccountRequest) (*models.User, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not wired")
}

func (s *stubAccounts) ChangePassword(ctx context.Context, userID int64, req accounts.ChangePasswordRequest) error {
	return nil
}

func (s *stubAccounts) SetActive(ctx context.Context, p authz.Principal, userID int64, active bool) error {
	return nil
}

func (s *stubAccounts) SoftDelete(ctx context.Context, p authz.Principal, userID int64) error {
	return nil
}

func (s *stubAccounts) GetByID(ctx context.Context, p authz.Principal, userID int64) (*models.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	for i := range s.users {
		if s.users[i].ID == userID {
			return &s.users[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Not found!")
}

func (s *stubAccounts) List(ctx context.Context, p authz.Principal, filter accounts.ListFilter) ([]models.User, error) {
	return s.users, nil
}

func (s *stubAccounts) Count(ctx context.Context, p authz.Principal, filter accounts.ListFilter) (int64, error) {
	return int64(len(s.users)), nil
}

func (s *stubAccounts) Children(ctx context.Context, p authz.Principal) ([]models.User, error) {
	return s.users, nil
}

var _ accounts.Service = (*stubAccounts)(nil)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func adminUser() *models.User {
	email := "admin@example.com"
	return &models.User{
		ID:       1,
		Email:    &email,
		IsActive: true,
		Role:     &models.Role{ID: 1, Name: string(enums.RoleAdministrator)},
	}
}

func withAdmin(r *http.Request) *http.Request {
	p := authz.Principal{User: adminUser(), Role: enums.RoleAdministrator, TokenBound: true}
	return r.WithContext(middleware.WithPrincipal(r.Context(), p))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	return body
}

func TestListUsersEmptyPageIs404(t *testing.T) {
	h := ListUsers(&stubAccounts{}, testLogger())

	req := withAdmin(httptest.NewRequest(http.MethodGet, "/school_book/users", nil))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	body := decodeEnvelope(t, rec)
	if body["message"] != "Not found!" {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestListUsersReturnsRowsAndTotal(t *testing.T) {
	svc := &stubAccounts{users: []models.User{*adminUser()}}
	h := ListUsers(svc, testLogger())

	req := withAdmin(httptest.NewRequest(http.MethodGet, "/school_book/users?limit=10", nil))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("X-Total-Count"); got != "1" {
		t.Fatalf("X-Total-Count = %q, want 1", got)
	}
	body := decodeEnvelope(t, rec)
	results, ok := body["results"].([]any)
	if !ok || len(results) != 1 {
		t.Fatalf("results = %v", body["results"])
	}
	row := results[0].(map[string]any)
	if _, leaked := row["password"]; leaked {
		t.Fatal("credential column leaked into the listing")
	}
}

func TestListUsersWithoutPrincipalIs401(t *testing.T) {
	h := ListUsers(&stubAccounts{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/school_book/users", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestLoginEnvelope(t *testing.T) {
	svc := &stubAccounts{loginResult: &accounts.LoginResult{Token: "signed"}}
	h := Login(svc, nil, testLogger())

	payload := `{"email":"admin@example.com","password":"Str0ng@pass"}`
	req := httptest.NewRequest(http.MethodPost, "/school_book/login", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := decodeEnvelope(t, rec)
	if body["message"] != "User is successfully logged!" {
		t.Fatalf("message = %v", body["message"])
	}
	result := body["result"].(map[string]any)
	if result["token"] != "signed" {
		t.Fatalf("token = %v", result["token"])
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	svc := &stubAccounts{loginErr: pkgerrors.New(pkgerrors.CodeWrongCreds, "User or password is wrong!")}
	h := Login(svc, nil, testLogger())

	payload := `{"email":"admin@example.com","password":"nope-Aa1@"}`
	req := httptest.NewRequest(http.MethodPost, "/school_book/login", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	body := decodeEnvelope(t, rec)
	if body["message"] != "User or password is wrong!" {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestGetUserPathParamValidation(t *testing.T) {
	h := GetUser(&stubAccounts{}, testLogger())

	// A non-numeric id addresses no resource and reads as absent.
	req := withAdmin(httptest.NewRequest(http.MethodGet, "/school_book/users/user/abc", nil))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	body := decodeEnvelope(t, rec)
	if body["message"] != "Not found!" {
		t.Fatalf("message = %v", body["message"])
	}
}
