package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type stubCooldowns struct {
	held map[string]bool
}

func (s *stubCooldowns) AcquireCooldown(ctx context.Context, scope string, ttl time.Duration) (bool, error) {
	if s.held == nil {
		s.held = map[string]bool{}
	}
	if s.held[scope] {
		return false, nil
	}
	s.held[scope] = true
	return true, nil
}

func resendRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/school_book/users/user/activate/resend", strings.NewReader(body))
}

func TestResendActivationCodeCooldown(t *testing.T) {
	svc := &stubAccounts{}
	h := ResendActivationCode(svc, &stubCooldowns{}, time.Minute, testLogger())

	payload := `{"email":"prof@example.com"}`

	rec := httptest.NewRecorder()
	h(rec, resendRequest(payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := decodeEnvelope(t, rec)
	if body["message"] != "Mail is successfully sent!" {
		t.Fatalf("message = %v", body["message"])
	}

	// The second request inside the window never reaches the service.
	rec = httptest.NewRecorder()
	h(rec, resendRequest(payload))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	body = decodeEnvelope(t, rec)
	if body["message"] != "Too many attempts!" {
		t.Fatalf("message = %v", body["message"])
	}
	if len(svc.resent) != 1 {
		t.Fatalf("expected one resend reaching the service, got %d", len(svc.resent))
	}
}

func TestResendActivationCodeCasingSharesTheCooldown(t *testing.T) {
	svc := &stubAccounts{}
	h := ResendActivationCode(svc, &stubCooldowns{}, time.Minute, testLogger())

	rec := httptest.NewRecorder()
	h(rec, resendRequest(`{"email":"prof@example.com"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = httptest.NewRecorder()
	h(rec, resendRequest(`{"email":"PROF@example.com"}`))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("letter case must not dodge the cooldown, got %d", rec.Code)
	}
}

func TestResendActivationCodeWithoutStorePassesThrough(t *testing.T) {
	svc := &stubAccounts{}
	h := ResendActivationCode(svc, nil, time.Minute, testLogger())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h(rec, resendRequest(`{"email":"prof@example.com"}`))
		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}
	if len(svc.resent) != 2 {
		t.Fatalf("expected both resends served, got %d", len(svc.resent))
	}
}
