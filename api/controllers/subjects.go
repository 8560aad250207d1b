package controllers

import (
	"net/http"

	"github.com/YodaBikarbona/school-book-server/api/responses"
	"github.com/YodaBikarbona/school-book-server/api/validators"
	"github.com/YodaBikarbona/school-book-server/internal/subjects"
	"github.com/YodaBikarbona/school-book-server/pkg/logger"
)

// ListSubjects returns every subject. Any authenticated role may read the
// catalog, the auth middleware already gated the route.
func ListSubjects(svc *subjects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, "School subjects", rows)
	}
}

// CreateSubject adds a subject to the catalog. Administrators only.
func CreateSubject(svc *subjects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req subjects.SubjectRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subject, err := svc.Create(r.Context(), p, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "School subject is successfully added!", subject)
	}
}

// EditSubject renames a subject or flips its active flag.
func EditSubject(svc *subjects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subjectID, err := validators.ParseURLInt64(r, "school_subject_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req subjects.SubjectRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subject, err := svc.Edit(r.Context(), p, subjectID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "School subject is successfully updated!", subject)
	}
}

// DeleteSubject removes an unused subject from the catalog.
func DeleteSubject(svc *subjects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subjectID, err := validators.ParseURLInt64(r, "school_subject_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), p, subjectID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "School subject is successfully deleted!", nil)
	}
}
