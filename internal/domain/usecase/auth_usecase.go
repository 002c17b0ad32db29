package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"allgecare/internal/domain/entity"
	"allgecare/pkg/client/upstream"
)

type AuthUseCase struct {
	API      AccountsAPI
	Sessions SessionRepo
}

func NewAuthUseCase(api AccountsAPI, sessions SessionRepo) *AuthUseCase {
	return &AuthUseCase{API: api, Sessions: sessions}
}

// Login exchanges credentials for the monitoring API token and remembers
// which email it belongs to.
func (u *AuthUseCase) Login(ctx context.Context, email, password string) (*entity.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	token, err := u.API.Login(ctx, email, password)
	if err != nil {
		var se *upstream.StatusError
		if errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusBadRequest) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	now := time.Now()
	s := &entity.Session{Token: token, Email: email, CreatedAt: now, UpdatedAt: now}
	if err := u.Sessions.SaveSession(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

func (u *AuthUseCase) Logout(ctx context.Context, token string) error {
	return u.Sessions.DeleteSession(ctx, token)
}

// Authenticate resolves a bearer token to its session.
func (u *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	s, err := u.Sessions.GetSession(ctx, token)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Me returns the profile of the first user registered under email.
func (u *AuthUseCase) Me(ctx context.Context, email string) (*entity.Profile, error) {
	users, err := u.API.UsersByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNoData
	}
	p := users[0].Profile()
	return &p, nil
}
