package controllers

import (
	"net/http"

	"github.com/YodaBikarbona/school-book-server/api/responses"
	"github.com/YodaBikarbona/school-book-server/api/validators"
	"github.com/YodaBikarbona/school-book-server/internal/classes"
	"github.com/YodaBikarbona/school-book-server/pkg/logger"
)

// ListClasses returns every class for any authenticated caller.
func ListClasses(svc *classes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, "School classes", rows)
	}
}

// CreateClass opens a new class for a school year. Administrators only.
func CreateClass(svc *classes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req classes.ClassRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		class, err := svc.Create(r.Context(), p, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "School class is successfully added!", class)
	}
}

// EditClass renames a class or flips its active flag.
func EditClass(svc *classes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		classID, err := validators.ParseURLInt64(r, "school_class_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req classes.ClassRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		class, err := svc.Edit(r.Context(), p, classID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "School class is successfully updated!", class)
	}
}

// ClassMembers lists both sides of a class roster.
func ClassMembers(svc *classes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		classID, err := validators.ParseURLInt64(r, "school_class_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		members, err := svc.Members(r.Context(), p, classID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Members", members)
	}
}

// AddClassMember places a professor or a student onto a class roster.
func AddClassMember(svc *classes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		classID, err := validators.ParseURLInt64(r, "school_class_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req classes.MemberRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AddMember(r.Context(), p, classID, req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Member is successfully added!", nil)
	}
}

// AssignClassSubject puts a professor in front of a subject in one class.
func AssignClassSubject(svc *classes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		classID, err := validators.ParseURLInt64(r, "school_class_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req classes.AssignSubjectRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AssignSubject(r.Context(), p, classID, req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "School subject is successfully assigned!", nil)
	}
}
