package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf_WrappedChain(t *testing.T) {
	base := NotFound("blog not found")
	wrapped := fmt.Errorf("read blog: %w", base)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestValidation_CarriesFields(t *testing.T) {
	err := Validation(
		Field("whatsappNumber", "Please enter a valid Indian mobile number"),
		Field("city", "Please enter your city"),
	)

	fields := FieldsOf(fmt.Errorf("create: %w", err))
	require.Len(t, fields, 2)
	assert.Equal(t, "whatsappNumber", fields[0].Field)
	assert.Contains(t, err.Error(), "city: Please enter your city")
}

func TestPersistence_UnwrapsCause(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := Persistence("insert lead", cause)

	assert.ErrorIs(t, err, cause)
	assert.NotEmpty(t, err.StackTrace())
	assert.Equal(t, "persistence: insert lead: disk I/O error", err.Error())
}
