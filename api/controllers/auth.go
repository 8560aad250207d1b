package controllers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/YodaBikarbona/school-book-server/api/responses"
	"github.com/YodaBikarbona/school-book-server/api/validators"
	"github.com/YodaBikarbona/school-book-server/internal/accounts"
	pkgerrors "github.com/YodaBikarbona/school-book-server/pkg/errors"
	"github.com/YodaBikarbona/school-book-server/pkg/logger"
	"github.com/YodaBikarbona/school-book-server/pkg/metrics"
)

// CooldownStore throttles replacement-code requests. Backed by Redis SETNX
// markers in production.
type CooldownStore interface {
	AcquireCooldown(ctx context.Context, scope string, ttl time.Duration) (bool, error)
}

// Login exchanges a credential pair for a token. The rate limit middleware
// sits in front of this handler on the router.
func Login(svc accounts.Service, m *metrics.HTTPMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req accounts.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			m.IncLogin("invalid")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Authenticate(r.Context(), req)
		if err != nil {
			m.IncLogin("failure")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		m.IncLogin("success")
		responses.WriteSuccess(w, "User is successfully logged!", result)
	}
}

// ActivateAccount consumes an activation code submitted from the login
// screen. No token is required, the code itself is the proof.
func ActivateAccount(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req accounts.ActivateByCodeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ActivateByCode(r.Context(), req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "User is successfully activated!", nil)
	}
}

// ResendActivationCode mints and mails a replacement activation code for a
// user whose code expired before they consumed it. Each email sits behind a
// cooldown marker so the mailbox cannot be flooded.
func ResendActivationCode(svc accounts.Service, cooldowns CooldownStore, cooldown time.Duration, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req accounts.ResendActivationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if cooldowns != nil && cooldown > 0 {
			acquired, err := cooldowns.AcquireCooldown(r.Context(), resendScope(req.Email), cooldown)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "acquire resend cooldown"))
				return
			}
			if !acquired {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeRateLimited, "Too many attempts!"))
				return
			}
		}

		if err := svc.ResendActivation(r.Context(), req.Email); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Mail is successfully sent!", nil)
	}
}

// resendScope hashes the address so the raw email never lands in a Redis key.
func resendScope(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "resend:" + hex.EncodeToString(sum[:])
}
