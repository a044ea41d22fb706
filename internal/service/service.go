// Package service implements the Connect handlers that expose the ledger.
// Handlers validate wire requests, resolve the caller's Actor from the
// request context and translate domain errors into Connect codes.
package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/roomledger/internal/api"
	apperrors "github.com/mmynk/roomledger/internal/errors"
	"github.com/mmynk/roomledger/internal/middleware"
	"github.com/mmynk/roomledger/internal/models"
)

// fail logs a failed request and converts err for the wire. Rejections the
// caller can fix are logged at warn, everything else at error.
func fail(op string, err error, attrs ...any) *connect.Error {
	attrs = append(attrs, "code", apperrors.CodeOf(err), "error", err)
	switch apperrors.CodeOf(err) {
	case apperrors.CodeInternal, apperrors.CodeUnknown:
		slog.Error(op+" failed", attrs...)
	default:
		slog.Warn(op+" rejected", attrs...)
	}
	return apperrors.ToConnect(err)
}

// actor returns the authenticated caller placed in ctx by middleware.RequireAuth.
func actor(ctx context.Context) (models.Actor, error) {
	a, ok := middleware.ActorFrom(ctx)
	if !ok || a.UserID == "" {
		return models.Actor{}, apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
	}
	return a, nil
}

// validate runs the request through v; a nil validator accepts everything.
func validate(v *api.Validator, msg any) error {
	if v == nil {
		return nil
	}
	return v.Validate(msg)
}
