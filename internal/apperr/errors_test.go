package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindUnavailable, http.StatusServiceUnavailable},
		{KindMapping, http.StatusInternalServerError},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Status(New(c.kind, "x")), "kind %s", c.kind)
	}
	require.Equal(t, http.StatusInternalServerError, Status(errors.New("plain")))
}

func TestKindSurvivesWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindUnavailable, "identity provider is unreachable", cause)

	wrapped := fmt.Errorf("create user: %w", err)
	require.Equal(t, KindUnavailable, KindOf(wrapped))
	require.ErrorIs(t, wrapped, cause)
}

func TestValidationCarriesViolations(t *testing.T) {
	err := Validation([]FieldViolation{
		{Field: "username", Message: "must not be blank"},
		{Field: "email", Message: "must be a well-formed email address"},
	})
	require.Equal(t, KindValidation, KindOf(err))
	require.Len(t, err.Violations, 2)
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := Wrap(KindUnavailable, "identity provider is unreachable", errors.New("dial tcp: timeout"))
	require.Contains(t, err.Error(), "dial tcp: timeout")
	require.Contains(t, New(KindNotFound, "user does not exist").Error(), "not_found")
}
