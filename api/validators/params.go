package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/YodaBikarbona/school-book-server/pkg/errors"
	"github.com/go-chi/chi/v5"
)

// ParseURLInt64 reads a positive integer path parameter. A segment that is
// not a positive integer addresses no resource, so the caller sees the same
// 404 a missing row would produce.
func ParseURLInt64(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "Not found!").
			WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParseURLBool reads a boolean path parameter. The route layer uses textual
// true/false segments for justification filters.
func ParseURLBool(r *http.Request, key string) (bool, error) {
	raw := strings.ToLower(strings.TrimSpace(chi.URLParam(r, key)))
	switch raw {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be a boolean").
		WithDetails(map[string]any{"field": key})
}
