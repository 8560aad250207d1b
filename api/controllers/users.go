package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/YodaBikarbona/school-book-server/api/responses"
	"github.com/YodaBikarbona/school-book-server/api/validators"
	"github.com/YodaBikarbona/school-book-server/internal/accounts"
	"github.com/YodaBikarbona/school-book-server/internal/authz"
	pkgerrors "github.com/YodaBikarbona/school-book-server/pkg/errors"
	"github.com/YodaBikarbona/school-book-server/pkg/logger"
	"github.com/YodaBikarbona/school-book-server/pkg/pagination"
)

// parseUserFilter maps the listing query values onto a filter. Bad values
// are skipped rather than rejected, a listing never fails on filter input.
func parseUserFilter(r *http.Request) accounts.ListFilter {
	q := r.URL.Query()
	var filter accounts.ListFilter

	if v, err := strconv.Atoi(q.Get("is_deleted")); err == nil && (v == 0 || v == 1) {
		deleted := v == 1
		filter.IsDeleted = &deleted
	}
	if v, err := strconv.Atoi(q.Get("is_active")); err == nil && (v == 0 || v == 1) {
		active := v == 1
		filter.IsActive = &active
	}
	if v, err := strconv.ParseInt(q.Get("roleId"), 10, 64); err == nil && v > 0 {
		filter.RoleID = v
	}
	if v, err := strconv.ParseInt(q.Get("genderId"), 10, 64); err == nil && v > 0 {
		filter.GenderID = v
	}
	if raw := q.Get("birthDate"); raw != "" {
		if _, err := time.Parse("2006-01-02", raw); err == nil {
			filter.BirthDate = raw
		}
	}
	filter.Search = strings.TrimSpace(q.Get("search"))
	filter.Page = pagination.ParseParams(q.Get("limit"), q.Get("offset"))
	return filter
}

// ListUsers returns the accounts visible to the caller. An empty page is a
// 404, the frontend treats "no rows" as a missing resource.
func ListUsers(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := parseUserFilter(r)
		rows, err := svc.List(r.Context(), p, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(rows) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "Not found!"))
			return
		}

		total, err := svc.Count(r.Context(), p, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
		responses.WriteList(w, "Users", accounts.FromModels(rows))
	}
}

// GetUser returns one account inside the caller's visibility scope.
func GetUser(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := validators.ParseURLInt64(r, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.GetByID(r.Context(), p, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "User", accounts.FromModel(user))
	}
}

// CreateUser onboards a new account. Administrators only.
func CreateUser(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := authz.RequireAdministrator(p); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req accounts.CreateAccountRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Create(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := accounts.FromModel(user)
		responses.WriteSuccess(w, "User is successfully added!", view)
	}
}

// EditUser rewrites an account's profile. Administrators only.
func EditUser(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := authz.RequireAdministrator(p); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := validators.ParseURLInt64(r, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req accounts.EditAccountRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Edit(r.Context(), userID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "User is successfully updated!", accounts.FromModel(user))
	}
}

// ChangeUserPassword rotates an account's credential and sends a fresh
// activation code. Administrators only.
func ChangeUserPassword(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := authz.RequireAdministrator(p); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := validators.ParseURLInt64(r, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req accounts.ChangePasswordRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ChangePassword(r.Context(), userID, req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Password is successfully changed!", nil)
	}
}

// SetUserActive flips the active flag in the given direction. Activation
// through this surface still requires a pending code on the row.
func SetUserActive(svc accounts.Service, active bool, logg *logger.Logger) http.HandlerFunc {
	message := "User is successfully deactivated!"
	if active {
		message = "User is successfully activated!"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := validators.ParseURLInt64(r, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetActive(r.Context(), p, userID, active); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, message, nil)
	}
}

// DeleteUser tombstones an account. The row never leaves the database.
func DeleteUser(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := validators.ParseURLInt64(r, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SoftDelete(r.Context(), p, userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "User is successfully deleted!", nil)
	}
}

// ParentChildren lists the caller's children. Parents only.
func ParentChildren(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		children, err := svc.Children(r.Context(), p)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteList(w, "Children", accounts.FromModels(children))
	}
}
