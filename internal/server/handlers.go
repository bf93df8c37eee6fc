package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/julianstephens/dailyhabits/internal/constants"
	"github.com/julianstephens/dailyhabits/internal/errors"
	"github.com/julianstephens/dailyhabits/internal/logger"
)

const maxBodyBytes = 1 << 20

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.Error("Request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "error", err)
		respondWithError(w, code, "internal server error")
		return
	}
	respondWithError(w, code, err.Error())
}

// call runs a named operation and writes {"result": ...}.
func (s *Server) call(w http.ResponseWriter, r *http.Request, op string, args json.RawMessage, code int) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	result, err := s.dispatcher.Call(ctx, op, args)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, code, map[string]interface{}{"result": result})
}

func readBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Invalidf("failed to read request body: %v", err)
	}
	return body, nil
}

func habitIDArgs(r *http.Request) (json.RawMessage, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return nil, errors.Invalidf("invalid habit id %q", mux.Vars(r)["id"])
	}
	return json.RawMessage(fmt.Sprintf(`{"habit_id":%d}`, id)), nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	if err := s.svc.EnsureReady(ctx); err != nil {
		logger.Warn("Health check failed", "error", err)
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": "database initialization failed"})
		return
	}
	if err := s.svc.Store().Ping(ctx); err != nil {
		logger.Warn("Health check failed", "error", err)
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": "database connection failed"})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": constants.AppName})
}

func (s *Server) handleListOperations(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"operations": s.dispatcher.Operations()})
}

func (s *Server) handleCallOperation(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.call(w, r, mux.Vars(r)["name"], body, http.StatusOK)
}

func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	s.call(w, r, "list_habits", nil, http.StatusOK)
}

func (s *Server) handleAddHabit(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.call(w, r, "add_habit", body, http.StatusCreated)
}

func (s *Server) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	args, err := habitIDArgs(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.call(w, r, "delete_habit", args, http.StatusOK)
}

func (s *Server) handleCompleteHabit(w http.ResponseWriter, r *http.Request) {
	args, err := habitIDArgs(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.call(w, r, "complete_habit", args, http.StatusOK)
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	args, err := habitIDArgs(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.call(w, r, "get_current_streak", args, http.StatusOK)
}

func (s *Server) handleListCompletions(w http.ResponseWriter, r *http.Request) {
	s.call(w, r, "list_completions", nil, http.StatusOK)
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	board, err := s.svc.Board(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"result": board})
}
