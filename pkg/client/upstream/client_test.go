package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"allgecare/pkg/fetch"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{BaseURL: srv.URL + "/", MaxAttempts: 3, BaseDelay: time.Millisecond})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestGetDecodesAndSendsQuery(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/usuario" || r.URL.Query().Get("email") != "a@b.c" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		w.Write([]byte(`[{"nombre":"Ana"}]`))
	}))

	var out []map[string]string
	if err := c.Get(context.Background(), "usuario", "/data/usuario", url.Values{"email": {"a@b.c"}}, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(out) != 1 || out[0]["nombre"] != "Ana" {
		t.Fatalf("unexpected body %v", out)
	}
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))

	var out map[string]bool
	if err := c.Get(context.Background(), "mediciones", "/data/mediciones", nil, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if atomic.LoadInt32(&calls) != 3 || !out["ok"] {
		t.Fatalf("calls=%d out=%v", calls, out)
	}
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"sin datos"}`))
	}))

	err := c.Get(context.Background(), "alertas", "/data/alertas", nil, nil)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusNotFound || se.Message != "sin datos" {
		t.Fatalf("unexpected status error %+v", se)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("calls=%d want 1", calls)
	}
}

func TestPostSendsJSON(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"echo": body["id"]})
	}))

	var out map[string]float64
	if err := c.Post(context.Background(), "configuraciones", "/data/configuraciones", map[string]any{"id": 1}, &out); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if out["echo"] != 1 {
		t.Fatalf("unexpected reply %v", out)
	}
}

func TestNewerRequestSupersedesOlder(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 2)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		if r.URL.Query().Get("n") == "1" {
			select {
			case <-release:
			case <-r.Context().Done():
			}
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer close(release)

	ctx := fetch.WithView(fetch.WithCaller(context.Background(), "client:device-1"), "GET /api/v1/alerts/latest")
	errCh := make(chan error, 1)
	go func() {
		errCh <- c.Get(ctx, "alertas", "/data/alertas", url.Values{"n": {"1"}}, nil)
	}()
	<-started

	if err := c.Get(ctx, "alertas", "/data/alertas", url.Values{"n": {"2"}}, nil); err != nil {
		t.Fatalf("second Get: %v", err)
	}
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("first Get err=%v want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("first request was not canceled")
	}
}

func TestViewsSharingAnEndpointDoNotCancelEachOther(t *testing.T) {
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-release
		w.Write([]byte(`{}`))
	}))

	caller := fetch.WithCaller(context.Background(), "client:phone-1")
	views := []string{"GET /api/v1/summary", "GET /api/v1/charts"}
	errCh := make(chan error, len(views))
	for _, v := range views {
		ctx := fetch.WithView(caller, v)
		go func() {
			errCh <- c.Get(ctx, "mediciones", "/data/mediciones", nil, nil)
		}()
	}
	<-started
	<-started
	close(release)

	for range views {
		select {
		case err := <-errCh:
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("request did not finish")
		}
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	if _, err := NewClient(Config{BaseURL: "not a url"}); err == nil {
		t.Fatalf("expected error for invalid base url")
	}
}

func TestUnreachableIsRetriedThenReported(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewClient(Config{BaseURL: base, MaxAttempts: 2, BaseDelay: time.Millisecond})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	err = c.Get(context.Background(), "mediciones", "/data/mediciones", nil, nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("got %v want ErrUnavailable", err)
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Fatalf("transport failure must not look like a status error")
	}
}
