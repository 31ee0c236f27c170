package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConstraint struct{}

func (fakeConstraint) Error() string      { return "unique constraint failed" }
func (fakeConstraint) Constraint() string { return "users(email)" }

func TestHTTPStatusFromError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{InvalidField("title", "must not be empty"), http.StatusBadRequest},
		{fmt.Errorf("decode: %w", ErrBadRequest), http.StatusBadRequest},
		{fmt.Errorf("meme not found: %w", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("tag not found: %w", ErrConflict), http.StatusConflict},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrTooManyRequests, http.StatusTooManyRequests},
		{&pgconn.PgError{Code: "23505"}, http.StatusConflict},
		{&pgconn.PgError{Code: "23503"}, http.StatusConflict},
		{&pgconn.PgError{Code: "42P01"}, http.StatusInternalServerError},
		{fakeConstraint{}, http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatusFromError(tc.err), "%v", tc.err)
	}
}

func TestValidationErrorUnwrapsToInvalidArgument(t *testing.T) {
	err := fmt.Errorf("create meme: %w", InvalidField("title", "must not be empty"))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
}

func TestRespondWithErrHidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithErr(rec, errors.New("dial tcp 10.0.0.3:5432: refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrInternalServer.Error(), body.Error)

	rec = httptest.NewRecorder()
	RespondWithErr(rec, fmt.Errorf("collection Favs already exists: %w", ErrConflict))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Favs")
}
