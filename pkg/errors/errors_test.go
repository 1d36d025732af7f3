package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrProductNotFound, "product afw not found")
	assert.Equal(t, ErrProductNotFound, err.Code)
	assert.Equal(t, "[PRODUCT_NOT_FOUND] product afw not found", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(ErrFragmentMissing, "no fragment for %s %s", "afw", "1.2.3")
	assert.Equal(t, "[FRAGMENT_MISSING] no fragment for afw 1.2.3", err.Error())
}

func TestWrap(t *testing.T) {
	inner := fmt.Errorf("read failed")
	err := Wrap(inner, ErrConfigParse, "cannot parse fragment")
	assert.Equal(t, "[CONFIG_PARSE] cannot parse fragment: read failed", err.Error())
	assert.Equal(t, inner, errors.Unwrap(err))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrConfigParse, "nope"))
	assert.Nil(t, Wrapf(nil, ErrConfigParse, "nope %d", 1))
}

func TestIs(t *testing.T) {
	err := New(ErrProductNotFound, "a")
	other := New(ErrProductNotFound, "b")
	assert.True(t, errors.Is(err, other))
	assert.False(t, errors.Is(err, New(ErrFragmentMissing, "c")))
}

func TestIsErrorCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(ErrEupsExec, "eups died"))
	assert.True(t, IsErrorCode(err, ErrEupsExec))
	assert.False(t, IsErrorCode(err, ErrInternal))
	assert.False(t, IsErrorCode(fmt.Errorf("plain"), ErrEupsExec))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrTagfileInvalid, GetErrorCode(New(ErrTagfileInvalid, "bad xml")))
	assert.Equal(t, ErrUnknown, GetErrorCode(fmt.Errorf("plain")))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrFragmentMissing, "missing").WithDetail("product", "afw")
	assert.Equal(t, "afw", err.Details["product"])
}
