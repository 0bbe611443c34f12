package usecase

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPError_KindAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapHTTPError(ErrPersistence, cause, "db.error")

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestHTTPError_Statuses(t *testing.T) {
	cases := map[error]int{
		ErrInvalidInput:      http.StatusBadRequest,
		ErrNotFound:          http.StatusBadRequest,
		ErrInvalidCustomer:   http.StatusBadRequest,
		ErrInsufficientStock: http.StatusBadRequest,
		ErrAlreadyFinished:   http.StatusBadRequest,
		ErrRollbackFailed:    http.StatusInternalServerError,
		ErrUnauthorized:      http.StatusUnauthorized,
		ErrConflict:          http.StatusConflict,
		errors.New("other"):  http.StatusInternalServerError,
	}
	for kind, want := range cases {
		he, ok := AsHTTPError(NewHTTPError(kind, "x"))
		require.True(t, ok)
		assert.Equal(t, want, he.Status, kind.Error())
	}
}
