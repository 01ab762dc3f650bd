package status

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodes(t *testing.T) {
	t.Run("string code", func(t *testing.T) {
		for _, code := range KnownCodes {
			require.Equal(t, strconv.Itoa(int(code)), StringCode(code))
		}
	})

	t.Run("every known code has a reason", func(t *testing.T) {
		for _, code := range KnownCodes {
			require.NotEmpty(t, Text(code), "code %d", code)
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		require.Empty(t, Text(Code(799)))
	})
}

func TestHTTPError(t *testing.T) {
	var httpErr HTTPError
	require.True(t, errors.As(ErrMethodNotAllowed, &httpErr))
	require.Equal(t, MethodNotAllowed, httpErr.Code)
	require.Equal(t, "method not allowed", ErrMethodNotAllowed.Error())
	require.ErrorIs(t, ErrNotFound, ErrNotFound)
	require.NotErrorIs(t, ErrMissingBody, ErrMalformedRequest)
}
