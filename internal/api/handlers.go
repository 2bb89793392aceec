package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/idilsaglam/taskhub/internal/errors"
	"github.com/idilsaglam/taskhub/internal/logging"
	"github.com/idilsaglam/taskhub/internal/model"
)

const maxBodyBytes = 1 << 20

// -------------- tasks ----------------

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	all, err := s.tasks.List(r.Context())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}
	task, err := s.tasks.Get(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTaskRequest
	if !s.decode(w, r, &req) {
		return
	}
	task, err := s.tasks.Create(r.Context(), req.Title)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}
	var req model.UpdateTaskRequest
	if !s.decode(w, r, &req) {
		return
	}
	task, err := s.tasks.Update(r.Context(), id, req.Title, req.Done)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}
	task, err := s.tasks.Toggle(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}
	if err := s.tasks.Delete(r.Context(), id); err != nil {
		s.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// -------------- persons ----------------

func (s *Server) handleListPersons(w http.ResponseWriter, r *http.Request) {
	all, err := s.persons.List(r.Context())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	id, ok := s.personID(w, r)
	if !ok {
		return
	}
	p, err := s.persons.Get(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreatePerson(root string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p model.Person
		if !s.decode(w, r, &p) {
			return
		}
		created, err := s.persons.Create(r.Context(), p)
		if err != nil {
			s.writeErr(w, r, err)
			return
		}
		w.Header().Set("Location", root+"/"+created.ID.String())
		writeJSON(w, http.StatusCreated, created)
	}
}

func (s *Server) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := s.personID(w, r)
	if !ok {
		return
	}
	var p model.Person
	if !s.decode(w, r, &p) {
		return
	}
	updated, err := s.persons.Update(r.Context(), id, p)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := s.personID(w, r)
	if !ok {
		return
	}
	if err := s.persons.Delete(r.Context(), id); err != nil {
		s.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// -------------- helpers ----------------

func (s *Server) taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeErr(w, r, errors.Invalid("invalid task id"))
		return 0, false
	}
	return id, true
}

func (s *Server) personID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeErr(w, r, errors.Invalid("invalid person id"))
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeErr(w, r, errors.Invalid("invalid request body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps domain error kinds to status codes. Anything else is a 500
// whose details stay in the log.
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	msg := "internal server error"
	switch {
	case errors.Is(err, errors.ErrValidation):
		code, msg = http.StatusBadRequest, errors.Message(err)
	case errors.Is(err, errors.ErrNotFound):
		code, msg = http.StatusNotFound, errors.Message(err)
	case errors.Is(err, errors.ErrConflict):
		code, msg = http.StatusConflict, errors.Message(err)
	default:
		s.log.ErrorContext(r.Context(), "request failed", logging.KeyPath, r.URL.Path, logging.KeyError, err)
	}
	writeJSON(w, code, model.ErrorBody{Message: msg})
}
