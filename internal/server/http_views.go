package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ANUPAM4545/taskboard-pro/internal/model"
	"github.com/ANUPAM4545/taskboard-pro/internal/reminder"
	"github.com/ANUPAM4545/taskboard-pro/internal/view"
)

// handleGetBoard handles GET /v1/board.
func (s *BoardServer) handleGetBoard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Board())
}

// handleGetView handles GET /v1/board/view. Without query parameters the
// active filter applies; any of search, priority or labels builds an ad-hoc
// filter instead.
func (s *BoardServer) handleGetView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := s.Filter()
	if q.Has("search") || q.Has("priority") || q.Has("labels") {
		mask, err := view.ParsePriorityMask(q.Get("priority"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		f = view.Filter{Search: q.Get("search"), Priorities: mask, Labels: splitList(q.Get("labels"))}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"filter": f,
		"board":  view.FilterBoard(s.Board(), f),
	})
}

// handleGetStats handles GET /v1/stats.
func (s *BoardServer) handleGetStats(w http.ResponseWriter, r *http.Request) {
	top := 0
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "top must be a positive integer")
			return
		}
		top = n
	}
	writeJSON(w, http.StatusOK, s.Statistics(top))
}

// handleGetReminders handles GET /v1/reminders.
func (s *BoardServer) handleGetReminders(w http.ResponseWriter, _ *http.Request) {
	today := s.Today()
	writeJSON(w, http.StatusOK, map[string]any{
		"today":     today,
		"reminders": reminder.Scan(s.Board(), today),
	})
}

// handleGetCalendar handles GET /v1/calendar?year=&month=. Both default to
// the current month.
func (s *BoardServer) handleGetCalendar(w http.ResponseWriter, r *http.Request) {
	today := s.Today()
	year, month := today.Year, today.Month
	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 9999 {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = n
	}
	if v := q.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			writeError(w, http.StatusBadRequest, "invalid month")
			return
		}
		month = time.Month(n)
	}
	writeJSON(w, http.StatusOK, view.Calendar(s.Board(), year, month, today))
}

// handleGetFilter handles GET /v1/filter.
func (s *BoardServer) handleGetFilter(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Filter())
}

// handleSetFilter handles PUT /v1/filter. Missing priorities mean all.
func (s *BoardServer) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	f := view.DefaultFilter()
	if err := decodeBody(r, &f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	writeJSON(w, http.StatusOK, s.SetFilter(f))
}

// handleListEvents handles GET /v1/events.
func (s *BoardServer) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.EventFilter{
		TopicPrefix: q.Get("topic"),
		TaskID:      q.Get("task_id"),
	}
	if v := q.Get("after"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid after")
			return
		}
		filter.AfterID = n
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}

	evts, err := s.store.ListEvents(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list events", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if evts == nil {
		evts = []*model.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": evts})
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
