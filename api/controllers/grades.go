package controllers

import (
	"net/http"

	"github.com/YodaBikarbona/school-book-server/api/responses"
	"github.com/YodaBikarbona/school-book-server/api/validators"
	"github.com/YodaBikarbona/school-book-server/internal/grades"
	"github.com/YodaBikarbona/school-book-server/pkg/logger"
)

// ChildGrades lists a student's grades in one subject, scoped to the
// caller's right to read that student's records.
func ChildGrades(svc *grades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		studentID, err := validators.ParseURLInt64(r, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		subjectID, err := validators.ParseURLInt64(r, "school_subject_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListForStudent(r.Context(), p, studentID, subjectID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteList(w, "Grades", rows)
	}
}

// AddGrade records a mark for a student in a subject and class.
func AddGrade(svc *grades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req grades.AddGradeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		grade, err := svc.Add(r.Context(), p, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Grade is successfully added!", grade)
	}
}
