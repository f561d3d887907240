package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"sitescope/backend/internal/apperr"
)

func TestMapError(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid argument", apperr.ErrInvalidArgument, http.StatusBadRequest},
		{"unauthenticated", apperr.ErrUnauthenticated, http.StatusUnauthorized},
		{"forbidden", apperr.ErrForbidden, http.StatusForbidden},
		{"not found", apperr.ErrNotFound, http.StatusNotFound},
		{"conflict", apperr.ErrConflict, http.StatusConflict},
		{"expired", apperr.ErrExpired, http.StatusGone},
		{"invalid role", apperr.ErrInvalidRole, http.StatusUnprocessableEntity},
		{"unavailable", apperr.ErrUnavailable, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			he := mapError(fmt.Errorf("%w: details", tc.err))
			if he.Code != tc.want {
				t.Errorf("mapError(%v) = %d, want %d", tc.err, he.Code, tc.want)
			}
		})
	}
}

func TestMapErrorHidesAuthDetails(t *testing.T) {
	he := mapError(fmt.Errorf("%w: user bob is disabled", apperr.ErrUnauthenticated))
	if msg, ok := he.Message.(string); !ok || msg != "authentication required" {
		t.Errorf("auth error must not leak detail, got %v", he.Message)
	}
}
