package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gmllt/organizeu/internal/dashboard"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type rowsResponse struct {
	Rows []dashboard.Row `json:"rows"`
}

type creditsResponse struct {
	Rows       []dashboard.Row `json:"rows"`
	Total      int             `json:"total"`
	TotalLabel string          `json:"totalLabel"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Snapshot())
}

func (s *Server) getCalendar(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Calendar())
}

func (s *Server) listModules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rowsResponse{Rows: s.app.Modules.Rows()})
}

func (s *Server) addModule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	row, err := s.app.Modules.Add(r.Context(), req.Name)
	s.created(w, r, row, err)
}

func (s *Server) removeModule(w http.ResponseWriter, r *http.Request) {
	index, ok := s.index(w, r)
	if !ok {
		return
	}
	_, err := s.app.Modules.Remove(r.Context(), index)
	s.noContent(w, r, err)
}

func (s *Server) listTodos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rowsResponse{Rows: s.app.Todos.Rows()})
}

func (s *Server) addTodo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	row, err := s.app.Todos.Add(r.Context(), req.Text)
	s.created(w, r, row, err)
}

func (s *Server) removeTodo(w http.ResponseWriter, r *http.Request) {
	index, ok := s.index(w, r)
	if !ok {
		return
	}
	_, err := s.app.Todos.Remove(r.Context(), index)
	s.noContent(w, r, err)
}

func (s *Server) toggleTodo(w http.ResponseWriter, r *http.Request) {
	index, ok := s.index(w, r)
	if !ok {
		return
	}
	_, err := s.app.Todos.Toggle(r.Context(), index)
	s.noContent(w, r, err)
}

func (s *Server) listCredits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, creditsResponse{
		Rows:       s.app.Credits.Rows(),
		Total:      s.app.Credits.Total(),
		TotalLabel: s.app.Credits.TotalLabel(),
	})
}

func (s *Server) addCredit(w http.ResponseWriter, r *http.Request) {
	// input is the raw text typed into the credit field.
	var req struct {
		Input string `json:"input"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	row, err := s.app.Credits.Add(r.Context(), req.Input)
	s.created(w, r, row, err)
}

func (s *Server) removeCredit(w http.ResponseWriter, r *http.Request) {
	index, ok := s.index(w, r)
	if !ok {
		return
	}
	_, err := s.app.Credits.Remove(r.Context(), index)
	s.noContent(w, r, err)
}

func (s *Server) listAssignments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rowsResponse{Rows: s.app.Assignments.Rows()})
}

func (s *Server) addAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Date string `json:"date"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	row, err := s.app.Assignments.Add(r.Context(), req.Name, req.Date)
	s.created(w, r, row, err)
}

func (s *Server) removeAssignment(w http.ResponseWriter, r *http.Request) {
	index, ok := s.index(w, r)
	if !ok {
		return
	}
	_, err := s.app.Assignments.Remove(r.Context(), index)
	s.noContent(w, r, err)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger(r).Debug("Error decoding payload", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid row index"})
		return 0, false
	}
	return index, true
}

func (s *Server) created(w http.ResponseWriter, r *http.Request, row dashboard.Row, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (s *Server) noContent(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, dashboard.ErrInvalidEntry):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, dashboard.ErrNoSuchRow):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		s.logger(r).Error("Request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to save dashboard"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
