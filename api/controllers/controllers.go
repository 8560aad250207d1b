// Package controllers holds the HTTP handlers. Each handler is a closure
// over its service and logger so the router wires dependencies explicitly.
package controllers

import (
	"context"

	"github.com/YodaBikarbona/school-book-server/api/middleware"
	"github.com/YodaBikarbona/school-book-server/internal/authz"
	pkgerrors "github.com/YodaBikarbona/school-book-server/pkg/errors"
)

const missingTokenMessage = "Security token is missing!"

// principal pulls the authenticated caller out of the request context. The
// auth middleware always seeds it on protected routes, so a miss means the
// route was wired without the middleware.
func principal(ctx context.Context) (authz.Principal, error) {
	p, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		return authz.Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, missingTokenMessage)
	}
	return p, nil
}
