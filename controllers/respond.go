package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/services"
	"go-storefront/stores"
	"go-storefront/utils"
)

// userResolver resolves the authenticated principal to a stored user.
type userResolver interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps each error kind to its own status code so clients can
// tell "gone" from "already consumed" from "bad input".
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, stores.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, stores.ErrConflict):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, services.ErrCouponInvalid):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	default:
		slog.Error("request failed",
			"trace_id", middleware.TraceID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}

	writeJSON(w, status, map[string]string{"error": message})
}

// currentUser loads the user behind the request's JWT claims.
func currentUser(r *http.Request, users userResolver) (models.User, error) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		return models.User{}, errors.New("no claims in context")
	}
	return users.FindByEmail(r.Context(), claims.Email)
}
