package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(CodeValidation, "discount must be non-negative")

	assert.Equal(t, CodeValidation, err.Code())
	assert.Equal(t, "discount must be non-negative", err.Message())
	assert.Equal(t, "VALIDATION_ERROR: discount must be non-negative", err.Error())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "recording payment")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, CodeDependency, err.Code())
}

func TestAsUnwrapsThroughFmt(t *testing.T) {
	inner := New(CodeNotFound, "inventory item not found")
	wrapped := fmt.Errorf("lookup: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeNotFound, typed.Code())
}

func TestAsReturnsNilForPlainErrors(t *testing.T) {
	assert.Nil(t, As(stdErrors.New("plain")))
	assert.Nil(t, As(nil))
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("root")
	err := Wrap(CodeInternal, cause, "outer")

	dump := Dump(err)
	assert.Equal(t, CodeInternal, dump.Code)
	assert.Len(t, dump.Chain, 2)
}
