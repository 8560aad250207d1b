package controllers

import (
	"net/http"

	"github.com/YodaBikarbona/school-book-server/api/responses"
	"github.com/YodaBikarbona/school-book-server/api/validators"
	"github.com/YodaBikarbona/school-book-server/internal/absences"
	"github.com/YodaBikarbona/school-book-server/pkg/logger"
)

// ChildAbsences lists a student's absences in one subject, split by the
// justification flag carried in the path.
func ChildAbsences(svc *absences.Service, logg *logger.Logger) http.HandlerFunc {
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
		isJustified, err := validators.ParseURLBool(r, "is_justified")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListForStudent(r.Context(), p, studentID, subjectID, &isJustified)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteList(w, "Absences", rows)
	}
}

// ChildAbsenceCounts returns the justified and unjustified totals for a
// student in one subject.
func ChildAbsenceCounts(svc *absences.Service, logg *logger.Logger) http.HandlerFunc {
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

		counts, err := svc.CountsForStudent(r.Context(), p, studentID, subjectID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Absences", counts)
	}
}

// AddAbsence records an absence for a student.
func AddAbsence(svc *absences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req absences.AddAbsenceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		absence, err := svc.Add(r.Context(), p, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Absence is successfully added!", absence)
	}
}

// EditAbsence updates an absence, typically to mark it justified. Only the
// recording professor or an administrator may touch it.
func EditAbsence(svc *absences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		absenceID, err := validators.ParseURLInt64(r, "absence_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req absences.EditAbsenceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		absence, err := svc.Edit(r.Context(), p, absenceID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Absence is successfully updated!", absence)
	}
}
