package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassesThroughWrappedDomainErrors(t *testing.T) {
	wrapped := fmt.Errorf("create card: %w", NewInvalidAmount())

	got := ToDomainError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, CodeInvalidAmount, got.Code)
	assert.Equal(t, http.StatusBadRequest, got.HTTPStatus)
}

func TestToDomainErrorMapsNoRowsToNotFound(t *testing.T) {
	got := ToDomainError(fmt.Errorf("lookup: %w", pgx.ErrNoRows))
	assert.Equal(t, CodeNotFound, got.Code)
	assert.Equal(t, http.StatusNotFound, got.HTTPStatus)
}

func TestToDomainErrorHidesUnknownErrors(t *testing.T) {
	cause := errors.New("connection reset by peer")
	got := ToDomainError(cause)

	assert.Equal(t, CodeInternal, got.Code)
	assert.Equal(t, "internal server error", got.Message)
	assert.ErrorIs(t, got, cause)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestStatusMapping(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		CodeUnauthenticated:    {NewUnauthenticated("login required"), http.StatusUnauthorized},
		CodeInvalidCredentials: {NewInvalidCredentials(), http.StatusUnauthorized},
		CodeInvalidInput:       {NewInvalidInput("bad", nil), http.StatusBadRequest},
		CodeInvalidAmount:      {NewInvalidAmount(), http.StatusBadRequest},
		CodeDuplicateUsername:  {NewDuplicateUsername(), http.StatusBadRequest},
		CodeNotFound:           {NewNotFound("gift card"), http.StatusNotFound},
		CodeIssuerError:        {NewIssuerError(errors.New("upstream")), http.StatusInternalServerError},
		CodeInternal:           {NewInternalError(nil), http.StatusInternalServerError},
	}
	for code, tc := range cases {
		t.Run(code, func(t *testing.T) {
			got := ToDomainError(tc.err)
			assert.Equal(t, code, got.Code)
			assert.Equal(t, tc.status, got.HTTPStatus)
			assert.True(t, HasCode(tc.err, code))
		})
	}
}
