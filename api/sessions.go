package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/wricardo/klondike/game/service"
)

func sessionID(r *http.Request) string { return mux.Vars(r)["id"] }

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID   string `json:"config_id,omitempty"`
		ConfigName string `json:"config_name,omitempty"` // deprecated alias of config_id
	}
	// an empty body selects the default table
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	configID := req.ConfigID
	if configID == "" {
		configID = req.ConfigName
	}

	info, err := s.service.CreateSession(r.Context(), configID)
	if err != nil {
		fail(w, err)
		return
	}

	s.log.WithFields(logrus.Fields{"session": info.ID, "config": info.ConfigName}).Info("session created")
	respondJSON(w, http.StatusCreated, info)
}

// listOptions is the query of GET /api/sessions
type listOptions struct {
	sort  string // "accessed" or "created"
	order string // "asc" or "desc"
	limit int    // 0 means all
}

func parseListOptions(q url.Values) listOptions {
	opts := listOptions{sort: "accessed", order: "desc"}
	if q.Get("sort") == "created" {
		opts.sort = "created"
	}
	if q.Get("order") == "asc" {
		opts.order = "asc"
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		opts.limit = n
	}
	return opts
}

func (o listOptions) apply(sessions []*service.SessionInfo) []*service.SessionInfo {
	stamp := func(i int) time.Time {
		if o.sort == "created" {
			return sessions[i].CreatedAt
		}
		return sessions[i].LastAccessedAt
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		if o.order == "asc" {
			return stamp(i).Before(stamp(j))
		}
		return stamp(i).After(stamp(j))
	})
	if o.limit > 0 && o.limit < len(sessions) {
		sessions = sessions[:o.limit]
	}
	return sessions
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		fail(w, err)
		return
	}

	opts := parseListOptions(r.URL.Query())
	total := len(sessions)
	sessions = opts.apply(sessions)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     opts.sort,
		"order":    opts.order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetSession(r.Context(), sessionID(r))
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if err := s.service.DeleteSession(r.Context(), id); err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Session %s deleted", id)})
}

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetGameState(r.Context(), sessionID(r))
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// parseHistoryOptions reads page, limit and order, ignoring bad values
func parseHistoryOptions(q url.Values) service.HistoryOptions {
	opts := service.HistoryOptions{Page: 1, Limit: service.DefaultHistoryLimit, Order: "desc"}
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		opts.Page = p
	}
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		opts.Limit = l
	}
	if o := q.Get("order"); o == "asc" || o == "desc" {
		opts.Order = o
	}
	return opts
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.service.GetMoveHistory(r.Context(), sessionID(r), parseHistoryOptions(r.URL.Query()))
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}
