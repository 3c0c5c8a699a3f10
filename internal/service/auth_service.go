package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/republica/internal/auth"
	"github.com/mmynk/republica/internal/ledger"
	"github.com/mmynk/republica/internal/storage"
	"github.com/mmynk/republica/pkg/api"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	ledger        *ledger.Service
	store         storage.Store
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, svc *ledger.Service, store storage.Store, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		ledger:        svc,
		store:         store,
		logger:        logger,
	}
}

// Register creates a new account and signs the resident in.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	s.logger.Info("Register request", "username", req.Msg.Username)

	user, err := s.authenticator.Register(ctx, req.Msg.Username, req.Msg.Email, req.Msg.Nickname, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Registration failed", "username", req.Msg.Username, "error", err)
		return nil, toConnectError(err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "username", user.Username)
	return connect.NewResponse(&api.RegisterResponse{
		User:  toUser(user),
		Token: token,
		Notice: api.Notice{
			Level:   string(ledger.LevelSuccess),
			Message: "Welcome, " + user.DisplayName() + "! Create a household or ask to join one.",
		},
		Redirect: dashboardPath,
	}), nil
}

// Login authenticates a resident and returns a session token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "username", req.Msg.Username)

	if req.Msg.Username == "" || req.Msg.Password == "" {
		return nil, invalidArgument("Username and password are required.")
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Username, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "username", req.Msg.Username, "error", err)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, toConnectError(err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID)
	return connect.NewResponse(&api.LoginResponse{
		User:      toUser(user),
		Token:     token,
		ExpiresAt: time.Now().Add(s.jwtManager.TokenDuration()).Unix(),
		Redirect:  dashboardPath,
	}), nil
}

// GetCurrentUser returns the signed-in resident and their household, if any.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("GetCurrentUser request", "user_id", userID)

	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		// The token outlived the account.
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	resp := &api.GetCurrentUserResponse{User: toUser(user)}
	if user.HasHousehold() {
		household, err := s.store.GetHousehold(ctx, user.HouseholdID)
		if err != nil {
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		resp.Household = toHousehold(household)
	}
	return connect.NewResponse(resp), nil
}

// DeleteAccount deletes the signed-in resident's account.
func (s *AuthService) DeleteAccount(ctx context.Context, req *connect.Request[api.DeleteAccountRequest]) (*connect.Response[api.NoticeResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("DeleteAccount request", "user_id", userID)

	notice, err := s.ledger.DeleteAccount(ctx, userID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.NoticeResponse{Notice: toNotice(notice), Redirect: loginPath}), nil
}
