package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fourheat/internal/service"
)

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthHandlers_SignUpAndSignIn(t *testing.T) {
	auth := &mockAuth{signUpID: 42, genTokenToken: "tok123", parseID: 1}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	// sign-up success
	w := httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("/auth/sign-up", `{"username":"u","password":"p"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("sign-up status=%d, body=%s", w.Code, w.Body.String())
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if int(m["id"].(float64)) != 42 {
		t.Fatalf("expected id=42, got %v", m["id"])
	}
	if auth.lastSignUpUsername != "u" || auth.lastSignUpPassword != "p" {
		t.Fatalf("unexpected sign-up args: %q %q", auth.lastSignUpUsername, auth.lastSignUpPassword)
	}

	// sign-in success
	w = httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("/auth/sign-in", `{"username":"u","password":"p"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in status=%d, body=%s", w.Code, w.Body.String())
	}
	m = nil
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["token"] != "tok123" {
		t.Fatalf("expected token tok123, got %v", m["token"])
	}

	// sign-in invalid body → 400
	w = httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("/auth/sign-in", `{"username":1}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", w.Code)
	}
}

func TestAuthHandlers_SignInErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unknown user", service.ErrUserNotFound, http.StatusUnauthorized},
		{"wrong password", service.ErrInvalidPassword, http.StatusUnauthorized},
		{"repository failure", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{Authorization: &mockAuth{genTokenErr: tc.err}})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, postJSON("/auth/sign-in", `{"username":"u","password":"p"}`))
			if w.Code != tc.want {
				t.Fatalf("status=%d, want %d", w.Code, tc.want)
			}
		})
	}
}

func TestAuthHandlers_SignUpError(t *testing.T) {
	r := newTestRouter(&service.Service{Authorization: &mockAuth{signUpErr: errors.New("username taken")}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("/auth/sign-up", `{"username":"u","password":"p"}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandlers_SignUpTaken(t *testing.T) {
	err := fmt.Errorf("insert user %q: %w", "u", service.ErrUsernameTaken)
	r := newTestRouter(&service.Service{Authorization: &mockAuth{signUpErr: err}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("/auth/sign-up", `{"username":"u","password":"p"}`))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}
