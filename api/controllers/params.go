package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aurumid/goldpos-backend/api/middleware"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
	"github.com/aurumid/goldpos-backend/pkg/outbox"
)

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

func intQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// actorFromContext rebuilds the acting operator from the auth claims seeded
// by the middleware. Returns nil when the route is unauthenticated.
func actorFromContext(r *http.Request) *outbox.ActorRef {
	userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return nil
	}
	branchID, err := uuid.Parse(middleware.BranchIDFromContext(r.Context()))
	if err != nil {
		return nil
	}
	return &outbox.ActorRef{
		UserID:   userID,
		BranchID: branchID,
		Role:     middleware.RoleFromContext(r.Context()),
	}
}

func branchIDFromContext(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(middleware.BranchIDFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "branch context missing")
	}
	return id, nil
}

func userIDFromContext(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return id, nil
}
