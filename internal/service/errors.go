package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/republica/internal/auth"
	"github.com/mmynk/republica/internal/ledger"
	"github.com/mmynk/republica/internal/middleware"
	"github.com/mmynk/republica/pkg/api"
)

// Redirect targets returned after mutations.
const (
	dashboardPath = "/dashboard"
	loginPath     = "/login"
)

var ledgerCodes = []struct {
	kind error
	code connect.Code
}{
	{ledger.ErrUnauthorized, connect.CodePermissionDenied},
	{ledger.ErrInvalidTransition, connect.CodeFailedPrecondition},
	{ledger.ErrAlreadyMember, connect.CodeAlreadyExists},
	{ledger.ErrNotFound, connect.CodeNotFound},
	{ledger.ErrInvalidArgument, connect.CodeInvalidArgument},
	{ledger.ErrProtected, connect.CodeFailedPrecondition},
}

// toConnectError maps a ledger or auth error to a Connect error carrying the
// notice level the client should display it with.
func toConnectError(err error) error {
	code := connect.CodeInternal
	for _, c := range ledgerCodes {
		if errors.Is(err, c.kind) {
			code = c.code
			break
		}
	}
	switch {
	case errors.Is(err, auth.ErrUsernameTaken):
		code = connect.CodeAlreadyExists
	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidUsername),
		errors.Is(err, auth.ErrInvalidEmail):
		code = connect.CodeInvalidArgument
	case errors.Is(err, auth.ErrInvalidCredentials):
		code = connect.CodeUnauthenticated
	}

	connectErr := connect.NewError(code, err)
	connectErr.Meta().Set(api.NoticeLevelHeader, string(ledger.LevelOf(err)))
	return connectErr
}

func invalidArgument(msg string) error {
	connectErr := connect.NewError(connect.CodeInvalidArgument, errors.New(msg))
	connectErr.Meta().Set(api.NoticeLevelHeader, string(ledger.LevelError))
	return connectErr
}

// actor returns the authenticated user ID placed on ctx by middleware.RequireAuth.
func actor(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}
