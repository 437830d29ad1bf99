package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/authbase/identity-api/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHTTPErrorHandler(zerolog.Nop())
	h(err, c)

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error envelope: %v", err)
	}
	return rec.Code, resp.Error
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
		wantMsg  string
	}{
		{domain.ErrUserExists, http.StatusConflict, "USER_ALREADY_REGISTERED"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{domain.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{domain.ErrInvalidRole, http.StatusBadRequest, "INVALID_ROLE"},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS"},
		{domain.ErrVersionConflict, http.StatusConflict, "CONFLICT"},
	}

	for _, tc := range cases {
		code, msg := renderError(t, tc.err)
		if code != tc.wantCode || msg != tc.wantMsg {
			t.Fatalf("%v: got %d %q, want %d %q", tc.err, code, msg, tc.wantCode, tc.wantMsg)
		}
	}
}

func TestHTTPErrorHandler_WrappedDomainError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), domain.ErrUserNotFound)
	code, msg := renderError(t, wrapped)
	if code != http.StatusNotFound || msg != "USER_NOT_FOUND" {
		t.Fatalf("wrapped error not unwrapped: got %d %q", code, msg)
	}
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	code, msg := renderError(t, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"))
	if code != http.StatusUnauthorized || msg != "missing authorization header" {
		t.Fatalf("got %d %q", code, msg)
	}
}

func TestHTTPErrorHandler_UnexpectedError(t *testing.T) {
	code, msg := renderError(t, errors.New("boom"))
	if code != http.StatusInternalServerError || msg != "INTERNAL_SERVER_ERROR" {
		t.Fatalf("got %d %q", code, msg)
	}
}
