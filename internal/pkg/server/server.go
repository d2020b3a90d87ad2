package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/anicoll/mhihvac-integration/internal/pkg/model"
	"go.uber.org/zap"
)

type hvacService interface {
	RawGroupData(ctx context.Context) (map[string]any, error)
	SetGroupProperty(ctx context.Context, groupNo string, properties map[string]any) (map[string]any, error)
	SetAllProperty(ctx context.Context, properties map[string]any) (map[string]any, error)
}

type stateStore interface {
	GetLatestStates(ctx context.Context) ([]model.GroupState, error)
}

type server struct {
	hvac   hvacService
	db     stateStore
	logger *zap.Logger
}

func New(hvac hvacService, db stateStore) *server {
	return &server{hvac: hvac, db: db, logger: zap.L()}
}

// Handler builds the control API routes. The database-backed state route
// is only mounted when a store is configured.
func (s *server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /groups/{group}", s.postGroup)
	mux.HandleFunc("POST /groups", s.postAllGroups)
	mux.HandleFunc("GET /state", s.getState)
	if s.db != nil {
		mux.HandleFunc("GET /state/latest", s.getLatestStoredState)
	}
	return mux
}

func (s *server) postGroup(w http.ResponseWriter, r *http.Request) {
	properties, err := unmarshalPayload[map[string]any](r)
	if err != nil {
		handleError(w, err)
		return
	}

	group := r.PathValue("group")
	result, err := s.hvac.SetGroupProperty(r.Context(), group, properties)
	if err != nil {
		handleError(w, err)
		return
	}
	s.logger.Info("group properties changed", zap.String("group", group))
	writeJSON(w, result)
}

func (s *server) postAllGroups(w http.ResponseWriter, r *http.Request) {
	properties, err := unmarshalPayload[map[string]any](r)
	if err != nil {
		handleError(w, err)
		return
	}

	result, err := s.hvac.SetAllProperty(r.Context(), properties)
	if err != nil {
		handleError(w, err)
		return
	}
	s.logger.Info("properties changed on all groups")
	writeJSON(w, result)
}

func (s *server) getState(w http.ResponseWriter, r *http.Request) {
	data, err := s.hvac.RawGroupData(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, data)
}

func (s *server) getLatestStoredState(w http.ResponseWriter, r *http.Request) {
	states, err := s.db.GetLatestStates(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, states)
}

func unmarshalPayload[T any](r *http.Request) (T, error) {
	var payload T
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return payload, err
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func handleError(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte(err.Error()))
}
