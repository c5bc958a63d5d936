package handlers

import (
	"net/http"
	"strconv"

	"panelkit/internal/domain/notification"
	"panelkit/internal/services/data"
	"panelkit/internal/store/repositories"

	"github.com/go-chi/chi/v5"
)

// ListNotifications handles GET /api/panel/notifications/
func ListNotifications(svc *data.Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := parseListRequest(r, baseURL)
		if err != nil {
			WriteDetail(w, http.StatusBadRequest, err.Error())
			return
		}

		q := r.URL.Query()
		f := repositories.NotificationFilter{Recipient: stringFilter(q, "recipient")}
		if f.IsRead, err = boolFilter(q, "is_read"); err != nil {
			WriteDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		if v := q.Get("level"); v != "" {
			lvl := notification.Level(v)
			if !lvl.Valid() {
				WriteDetail(w, http.StatusBadRequest, "unknown level "+strconv.Quote(v))
				return
			}
			f.Level = &lvl
		}

		resp, err := svc.ListNotifications(r.Context(), f, req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// UpdateNotification handles PATCH /api/panel/notifications/{id}/
func UpdateNotification(svc *data.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := notificationID(w, r)
		if !ok {
			return
		}
		field, value, err := decodeSingleField(r)
		if err != nil {
			WriteDetail(w, http.StatusBadRequest, err.Error())
			return
		}

		n, err := svc.UpdateNotification(r.Context(), id, field, value)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, n)
	}
}

// SetNotificationRead handles POST /api/panel/notifications/{id}/set-read/
func SetNotificationRead(svc *data.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := notificationID(w, r)
		if !ok {
			return
		}
		n, err := svc.SetNotificationRead(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, n)
	}
}

// SetAllNotificationsRead handles POST /api/panel/notifications/set-all-read/
func SetAllNotificationsRead(svc *data.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipient := stringFilter(r.URL.Query(), "recipient")
		count, err := svc.SetAllNotificationsRead(r.Context(), recipient)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"updated": count})
	}
}

func notificationID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteDetail(w, http.StatusNotFound, "Not found.")
		return 0, false
	}
	return id, true
}
