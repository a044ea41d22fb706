package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/roomledger/internal/api"
	"github.com/mmynk/roomledger/internal/auth"
	apperrors "github.com/mmynk/roomledger/internal/errors"
	"github.com/mmynk/roomledger/internal/storage"
)

var _ api.AuthServiceHandler = (*AuthService)(nil)

// AuthService implements the Connect AuthService.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	validator     *api.Validator
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users storage.UserStore, v *api.Validator) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		validator:     v,
	}
}

// Register creates a new user account and returns a session token.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.AuthResponse], error) {
	slog.Info("Register request", "email", req.Msg.Email)

	if err := validate(s.validator, req.Msg); err != nil {
		return nil, fail("Register", err, "email", req.Msg.Email)
	}

	user, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.DisplayName, req.Msg.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			err = apperrors.New(apperrors.CodeAlreadyExists, err.Error())
		case errors.Is(err, auth.ErrWeakPassword):
			err = apperrors.New(apperrors.CodeInvalidArgument, err.Error())
		default:
			err = apperrors.Wrap(apperrors.CodeInternal, "failed to register user", err)
		}
		return nil, fail("Register", err, "email", req.Msg.Email)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, fail("Register", apperrors.Wrap(apperrors.CodeInternal, "failed to generate token", err), "user_id", user.ID)
	}

	return connect.NewResponse(&api.AuthResponse{User: api.ToUser(user), Token: token}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.AuthResponse], error) {
	slog.Info("Login request", "email", req.Msg.Email)

	if err := validate(s.validator, req.Msg); err != nil {
		return nil, fail("Login", err)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		return nil, fail("Login", apperrors.New(apperrors.CodeUnauthenticated, auth.ErrInvalidCredentials.Error()), "email", req.Msg.Email)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, fail("Login", apperrors.Wrap(apperrors.CodeInternal, "failed to generate token", err), "user_id", user.ID)
	}

	slog.Info("User logged in", "user_id", user.ID)
	return connect.NewResponse(&api.AuthResponse{User: api.ToUser(user), Token: token}), nil
}

// GetCurrentUser returns the account behind the request's token.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	caller, err := actor(ctx)
	if err != nil {
		return nil, fail("GetCurrentUser", err)
	}

	user, err := s.users.GetUserByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Token outlived its account.
			err = apperrors.New(apperrors.CodeUnauthenticated, "user no longer exists")
		} else {
			err = apperrors.Wrap(apperrors.CodeInternal, "failed to get user", err)
		}
		return nil, fail("GetCurrentUser", err, "user_id", caller.UserID)
	}

	return connect.NewResponse(&api.GetCurrentUserResponse{User: api.ToUser(user)}), nil
}
