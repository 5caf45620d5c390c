package errs_test

import (
	"errors"
	"testing"

	"tableside/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	t.Run("NewValidationError", func(t *testing.T) {
		err := errs.NewValidationError("quantity")

		assert.Equal(t, "quantity", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "validation failed: quantity", err.Error())
		assert.Equal(t, errs.ErrValidation, err.Unwrap())
	})

	t.Run("NewValidationErrorWithCause", func(t *testing.T) {
		cause := errors.New("-2 is not greater than 0")
		err := errs.NewValidationErrorWithCause("quantity", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "validation failed: quantity (cause: -2 is not greater than 0)", err.Error())
		assert.Equal(t, errs.ErrValidation, err.Unwrap())
	})
}

func TestNotFoundError(t *testing.T) {
	t.Run("NewNotFoundError", func(t *testing.T) {
		err := errs.NewNotFoundError("lineId", "123")

		assert.Equal(t, "lineId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "not found: 123", err.Error())
		assert.Equal(t, errs.ErrNotFound, err.Unwrap())
	})

	t.Run("NewNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("row missing")
		err := errs.NewNotFoundErrorWithCause("orderId", "abc", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"not found: param is: orderId, ID is: abc (cause: row missing)",
			err.Error())
	})
}

func TestInvalidStateError(t *testing.T) {
	t.Run("NewInvalidStateError", func(t *testing.T) {
		err := errs.NewInvalidStateError("no valid pending items to hold")

		assert.Equal(t, "no valid pending items to hold", err.Reason)
		assert.Equal(t, "invalid state: no valid pending items to hold", err.Error())
		assert.Equal(t, errs.ErrInvalidState, err.Unwrap())
	})

	t.Run("NewInvalidStateErrorWithCause", func(t *testing.T) {
		cause := errors.New("status is Voided")
		err := errs.NewInvalidStateErrorWithCause("cannot discount line", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "invalid state: cannot discount line (cause: status is Voided)", err.Error())
	})
}

func TestAlreadyExistsError(t *testing.T) {
	t.Run("NewAlreadyExistsError", func(t *testing.T) {
		err := errs.NewAlreadyExistsError("orderId", "42")

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "already exists: 42", err.Error())
		assert.Equal(t, errs.ErrAlreadyExists, err.Unwrap())
	})
}

func TestSentinelErrors(t *testing.T) {
	t.Run("sentinel errors are defined", func(t *testing.T) {
		require.Error(t, errs.ErrValidation)
		require.Error(t, errs.ErrNotFound)
		require.Error(t, errs.ErrInvalidState)
		require.Error(t, errs.ErrAlreadyExists)
	})

	t.Run("error messages match expectations", func(t *testing.T) {
		assert.Equal(t, "validation failed", errs.ErrValidation.Error())
		assert.Equal(t, "not found", errs.ErrNotFound.Error())
		assert.Equal(t, "invalid state", errs.ErrInvalidState.Error())
		assert.Equal(t, "already exists", errs.ErrAlreadyExists.Error())
	})
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	t.Run("errors.Is works with custom errors", func(t *testing.T) {
		require.ErrorIs(t, errs.NewValidationError("name"), errs.ErrValidation)
		require.ErrorIs(t, errs.NewNotFoundError("lineId", "9"), errs.ErrNotFound)
		require.ErrorIs(t, errs.NewInvalidStateError("closed"), errs.ErrInvalidState)
		require.ErrorIs(t, errs.NewAlreadyExistsError("orderId", "1"), errs.ErrAlreadyExists)
	})

	t.Run("sanitize flattens newlines", func(t *testing.T) {
		err := errs.NewInvalidStateError("first line\nsecond line")
		assert.Contains(t, err.Error(), "first line second line")
		assert.NotContains(t, err.Error(), "\n")
	})
}
