package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"foodapi/internal/apperr"
	"foodapi/internal/auth"
	"foodapi/internal/models"
	"foodapi/internal/repository"
)

// SessionState tracks where a client is in the login flow.
type SessionState int

const (
	StateAnonymous SessionState = iota
	StateAuthenticating
	StateAuthenticated
	StateLoggedOut
)

func (s SessionState) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateLoggedOut:
		return "logged_out"
	}
	return "unknown"
}

// allowedTransitions lists every legal state change. Authenticated to
// Authenticated is a refresh-token rotation.
var allowedTransitions = map[SessionState][]SessionState{
	StateAnonymous:      {StateAuthenticating},
	StateAuthenticating: {StateAuthenticated, StateAnonymous},
	StateAuthenticated:  {StateAuthenticated, StateLoggedOut},
	StateLoggedOut:      {StateAuthenticating},
}

// CanTransition reports whether moving from s to next is legal.
func (s SessionState) CanTransition(next SessionState) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

const (
	EventRegister      = "register"
	EventLogin         = "login"
	EventLoginFailed   = "login_failed"
	EventRefresh       = "refresh"
	EventRefreshFailed = "refresh_failed"
	EventLogout        = "logout"
)

const msgInvalidCredentials = "invalid user credentials"

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is the result of a successful login or rotation.
type Session struct {
	User   *models.User
	Tokens auth.TokenPair
	State  SessionState
}

type AuthService struct {
	users    repository.UserRepository
	tokens   *auth.TokenIssuer
	denylist auth.Denylist
	events   EventRecorder
	logger   *slog.Logger
	now      func() time.Time
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenIssuer, denylist auth.Denylist, events EventRecorder, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		denylist: denylist,
		events:   recorderOrNop(events),
		logger:   loggerOrDefault(logger, "auth"),
		now:      time.Now,
	}
}

// Register creates a new identity. It never issues tokens; the client logs
// in afterwards.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.ToLower(strings.TrimSpace(in.Name))
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	// max counts runes; bcrypt limits bytes.
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, apperr.Validation("validation failed", "password must be at most 72 bytes")
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, s.infra("register: lookup failed", err)
	}
	if exists {
		return nil, apperr.Conflict("user already exists")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, s.infra("register: hash failed", err)
	}

	now := s.now().UTC()
	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("user already exists")
		}
		return nil, s.infra("register: insert failed", err)
	}

	s.events.AuthEvent(EventRegister)
	s.logger.Info("user registered", slog.String("user_id", user.ID.Hex()))
	return sanitizeUser(user), nil
}

// Login verifies credentials and starts a session. The freshly minted
// refresh token replaces whatever was stored before.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	state := StateAnonymous
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	state = s.transition(state, StateAuthenticating)

	user, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		auth.BurnPasswordCheck(in.Password)
		s.transition(state, StateAnonymous)
		s.events.AuthEvent(EventLoginFailed)
		return nil, apperr.Auth(msgInvalidCredentials)
	case err != nil:
		return nil, s.infra("login: lookup failed", err)
	}

	if !auth.VerifyPassword(in.Password, user.PasswordHash) {
		s.transition(state, StateAnonymous)
		s.events.AuthEvent(EventLoginFailed)
		s.logger.Info("login rejected", slog.String("user_id", user.ID.Hex()))
		return nil, apperr.Auth(msgInvalidCredentials)
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		return nil, s.infra("login: token issue failed", err)
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, auth.HashToken(pair.RefreshToken)); err != nil {
		return nil, s.infra("login: store refresh token failed", err)
	}

	state = s.transition(state, StateAuthenticated)
	s.events.AuthEvent(EventLogin)
	s.logger.Info("user logged in", slog.String("user_id", user.ID.Hex()))
	return &Session{User: sanitizeUser(user), Tokens: pair, State: state}, nil
}

// Rotate exchanges a refresh token for a new pair. The swap is a single
// conditional update, so of two concurrent rotations with the same token at
// most one succeeds.
func (s *AuthService) Rotate(ctx context.Context, refreshToken string) (*Session, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, apperr.Auth("refresh token is required")
	}

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		s.events.AuthEvent(EventRefreshFailed)
		return nil, apperr.Auth("invalid refresh token")
	}
	userID, ok := parseID(claims.UserID())
	if !ok {
		s.events.AuthEvent(EventRefreshFailed)
		return nil, apperr.Auth("invalid refresh token")
	}

	user, err := s.users.FindByID(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.events.AuthEvent(EventRefreshFailed)
		return nil, apperr.Auth("invalid refresh token")
	case err != nil:
		return nil, s.infra("rotate: lookup failed", err)
	}

	oldHash := auth.HashToken(refreshToken)
	if user.RefreshToken == "" || user.RefreshToken != oldHash {
		s.events.AuthEvent(EventRefreshFailed)
		s.logger.Warn("stale refresh token presented", slog.String("user_id", userID.Hex()))
		return nil, apperr.Auth("refresh token is expired or used")
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		return nil, s.infra("rotate: token issue failed", err)
	}

	err = s.users.SwapRefreshToken(ctx, userID, oldHash, auth.HashToken(pair.RefreshToken))
	switch {
	case errors.Is(err, repository.ErrTokenMismatch):
		s.events.AuthEvent(EventRefreshFailed)
		s.logger.Warn("refresh token rotated concurrently", slog.String("user_id", userID.Hex()))
		return nil, apperr.Auth("refresh token is expired or used")
	case err != nil:
		return nil, s.infra("rotate: swap failed", err)
	}

	state := s.transition(StateAuthenticated, StateAuthenticated)
	s.events.AuthEvent(EventRefresh)
	return &Session{User: sanitizeUser(user), Tokens: pair, State: state}, nil
}

// Logout ends the session identified by the verified access-token claims:
// the stored refresh token is removed and the access token is denylisted
// for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return apperr.Auth("unauthorized request")
	}
	userID, ok := parseID(claims.UserID())
	if !ok {
		return apperr.Auth("unauthorized request")
	}

	if err := s.users.ClearRefreshToken(ctx, userID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return s.infra("logout: clear refresh token failed", err)
	}

	if claims.ID != "" && claims.ExpiresAt != nil {
		remaining := claims.ExpiresAt.Time.Sub(s.now())
		if err := s.denylist.Revoke(ctx, claims.ID, remaining); err != nil {
			return s.infra("logout: revoke access token failed", err)
		}
	}

	s.transition(StateAuthenticated, StateLoggedOut)
	s.events.AuthEvent(EventLogout)
	s.logger.Info("user logged out", slog.String("user_id", userID.Hex()))
	return nil
}

// Authenticate verifies an access token and checks it has not been revoked.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := s.tokens.VerifyAccess(accessToken)
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return nil, apperr.Auth("access token expired")
	case err != nil:
		return nil, apperr.Auth("unauthorized request")
	}
	if _, ok := parseID(claims.UserID()); !ok {
		return nil, apperr.Auth("unauthorized request")
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, s.infra("authenticate: denylist lookup failed", err)
	}
	if revoked {
		return nil, apperr.Auth("access token revoked")
	}
	return claims, nil
}

func (s *AuthService) Me(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperr.NotFound("user not found")
	case err != nil:
		return nil, s.infra("me: lookup failed", err)
	}
	return sanitizeUser(user), nil
}

func (s *AuthService) transition(from, to SessionState) SessionState {
	if !from.CanTransition(to) {
		s.logger.Error("illegal session transition",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
		return from
	}
	s.logger.Debug("session transition",
		slog.String("from", from.String()),
		slog.String("to", to.String()),
	)
	return to
}

func (s *AuthService) infra(msg string, err error) error {
	s.logger.Error(msg, slog.String("error", err.Error()))
	return apperr.Infrastructure("something went wrong", fmt.Errorf("%s: %w", msg, err))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// sanitizeUser returns a copy without secrets or cart state.
func sanitizeUser(u *models.User) *models.User {
	out := *u
	out.PasswordHash = ""
	out.RefreshToken = ""
	out.CartData = nil
	return &out
}
