package controllers

import (
	"net/http"

	"github.com/YodaBikarbona/school-book-server/api/responses"
	"github.com/YodaBikarbona/school-book-server/api/validators"
	"github.com/YodaBikarbona/school-book-server/internal/events"
	"github.com/YodaBikarbona/school-book-server/pkg/logger"
)

// ParentEvents lists events for the classes the caller's children sit in.
func ParentEvents(svc *events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListForParent(r.Context(), p)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteList(w, "Events", rows)
	}
}

// AddEvent publishes an event to a class.
func AddEvent(svc *events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req events.AddEventRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.Add(r.Context(), p, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Event is successfully added!", event)
	}
}
