package httpapi

import (
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"github.com/gfmartins/bolao-brasileirao/internal/usecase"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid input", usecase.ErrInvalidInput, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"not found", usecase.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"conflict", usecase.ErrConflict, http.StatusConflict, "ALREADY_EXISTS"},
		{"unauthorized", usecase.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"forbidden", usecase.ErrForbidden, http.StatusForbidden, "PERMISSION_DENIED"},
		{"upstream down", usecase.ErrUpstreamUnavailable, http.StatusBadGateway, "BAD_GATEWAY"},
		{"protection floor", usecase.ErrProtectionViolated, http.StatusBadGateway, "BAD_GATEWAY"},
		{"wrapped sentinel", errors.Wrap(usecase.ErrProtectionViolated, "upstream returned 3 teams"), http.StatusBadGateway, "BAD_GATEWAY"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mapped := mapError(tc.err)
			assert.Equal(t, tc.wantStatus, mapped.HTTPStatus)
			assert.Equal(t, tc.wantCode, mapped.Status)
		})
	}
}
