package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"allgecare/internal/domain/entity"
	"allgecare/pkg/client/upstream"
)

func TestLoginStoresSession(t *testing.T) {
	sessions := newFakeSessions()
	uc := NewAuthUseCase(&fakeAccounts{token: "tok-1"}, sessions)

	s, err := uc.Login(context.Background(), " ana@example.com ", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.Token != "tok-1" || s.Email != "ana@example.com" {
		t.Fatalf("session=%+v", s)
	}

	got, err := uc.Authenticate(context.Background(), "tok-1")
	if err != nil || got.Email != "ana@example.com" {
		t.Fatalf("Authenticate: %+v, %v", got, err)
	}

	if err := uc.Logout(context.Background(), "tok-1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := uc.Authenticate(context.Background(), "tok-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("got %v want ErrSessionNotFound", err)
	}
}

func TestLoginRejected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "unauthorized", err: &upstream.StatusError{Code: http.StatusUnauthorized, Message: "Credenciales inválidas"}, want: ErrInvalidCredentials},
		{name: "bad request", err: &upstream.StatusError{Code: http.StatusBadRequest}, want: ErrInvalidCredentials},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			uc := NewAuthUseCase(&fakeAccounts{err: tc.err}, newFakeSessions())
			if _, err := uc.Login(context.Background(), "ana@example.com", "x"); !errors.Is(err, tc.want) {
				t.Fatalf("got %v want %v", err, tc.want)
			}
		})
	}

	uc := NewAuthUseCase(&fakeAccounts{err: &upstream.StatusError{Code: http.StatusBadGateway}}, newFakeSessions())
	_, err := uc.Login(context.Background(), "ana@example.com", "x")
	var se *upstream.StatusError
	if !errors.As(err, &se) || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("upstream outage must surface as status error, got %v", err)
	}

	if _, err := uc.Login(context.Background(), "", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("blank email: got %v", err)
	}
}

func TestMe(t *testing.T) {
	uc := NewAuthUseCase(&fakeAccounts{users: []entity.User{
		{Name: "Ana", Email: "ana@example.com", Role: "admin", CreatedAt: "2023-01-02T00:00:00Z"},
	}}, newFakeSessions())

	p, err := uc.Me(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if p.Name != "Ana" || p.CreatedAt != "2023-01-02" {
		t.Fatalf("profile=%+v", p)
	}

	uc.API = &fakeAccounts{}
	if _, err := uc.Me(context.Background(), "nobody@example.com"); !errors.Is(err, ErrNoData) {
		t.Fatalf("got %v want ErrNoData", err)
	}
}
