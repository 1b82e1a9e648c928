package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/karrito/internal/errors"
	"github.com/vytor/karrito/internal/logger"
	"github.com/vytor/karrito/internal/services"
)

// HealthChecker reports whether the store answers queries. *db.Manager
// satisfies it.
type HealthChecker interface {
	TestConnection(ctx context.Context) bool
}

type Server struct {
	Profiles services.ProfileService
	Settings services.SettingsService
	Health   HealthChecker
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Warn("failed to encode response: %v", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return nil
}

func parseID(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewBadRequestError("invalid profile id: " + idStr)
	}
	return id, nil
}
