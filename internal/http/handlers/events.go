package handlers

import (
	"fmt"
	"net/http"

	"panelkit/internal/domain/event"
	"panelkit/internal/services/data"
	"panelkit/internal/store/repositories"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ListEvents handles GET /api/panel/events/
func ListEvents(svc *data.Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := parseListRequest(r, baseURL)
		if err != nil {
			WriteDetail(w, http.StatusBadRequest, err.Error())
			return
		}

		f, err := eventFilter(r)
		if err != nil {
			WriteDetail(w, http.StatusBadRequest, err.Error())
			return
		}

		resp, err := svc.ListEvents(r.Context(), f, req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func eventFilter(r *http.Request) (repositories.EventFilter, error) {
	q := r.URL.Query()
	f := repositories.EventFilter{User: stringFilter(q, "user")}

	if v := q.Get("type"); v != "" {
		t := event.Type(v)
		if !t.Valid() {
			return f, fmt.Errorf("unknown event type %q", v)
		}
		f.Type = &t
	}

	var err error
	if f.IsPublic, err = boolFilter(q, "is_public"); err != nil {
		return f, err
	}
	if f.Since, err = dateFilter(q, "date_since"); err != nil {
		return f, err
	}
	if f.Until, err = dateFilter(q, "date_until"); err != nil {
		return f, err
	}
	return f, nil
}

// UpdateEvent handles PATCH /api/panel/events/{id}/
func UpdateEvent(svc *data.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			WriteDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		field, value, err := decodeSingleField(r)
		if err != nil {
			WriteDetail(w, http.StatusBadRequest, err.Error())
			return
		}

		e, err := svc.UpdateEvent(r.Context(), id, field, value)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}
