// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and classification helpers

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/glyphkit/glyphkit/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "icon_exists_error",
			code:    errors.ErrIconExists,
			message: "icon already present",
			wantStr: "[ICON_EXISTS] icon already present",
		},
		{
			name:    "brand_not_found_error",
			code:    errors.ErrBrandNotFound,
			message: "no such brand",
			wantStr: "[BRAND_NOT_FOUND] no such brand",
		},
		{
			name:    "config_missing_error",
			code:    errors.ErrConfigMissing,
			message: "access token is not set",
			wantStr: "[CONFIG_MISSING] access token is not set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.wantStr, err.Error())
			assert.NotNil(t, err.Details)
		})
	}
}

func TestWrap(t *testing.T) {
	inner := stderrors.New("connection refused")
	err := errors.Wrap(inner, errors.ErrRemoteProtocol, "export request failed")

	assert.Equal(t, "[REMOTE_PROTOCOL] export request failed: connection refused", err.Error())
	assert.Equal(t, inner, stderrors.Unwrap(err))
	assert.Nil(t, errors.Wrap(nil, errors.ErrRemoteProtocol, "ignored"))
}

func TestWrapf(t *testing.T) {
	inner := stderrors.New("boom")
	err := errors.Wrapf(inner, errors.ErrStageFailed, "raster stage for brand %q", "global")
	assert.Equal(t, `[STAGE_FAILED] raster stage for brand "global": boom`, err.Error())
}

func TestIs(t *testing.T) {
	err := errors.Newf(errors.ErrIconExists, "icon %q already exists", "hamburger")
	assert.True(t, stderrors.Is(err, errors.New(errors.ErrIconExists, "")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrIconNotFound, "")))
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	inner := errors.New(errors.ErrUnauthorized, "bad token")
	outer := errors.Wrap(inner, errors.ErrRemoteProtocol, "fetch failed")

	// The outer code wins for classification, but the inner code is still
	// discoverable through the chain.
	assert.Equal(t, errors.ErrRemoteProtocol, errors.GetErrorCode(outer))
	assert.True(t, stderrors.Is(outer, errors.New(errors.ErrRemoteProtocol, "")))
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrIconNotFound, "not found").
		WithDetail("brand", "global").
		WithDetail("icon", "hamburger")

	details := errors.GetErrorDetails(err)
	assert.Equal(t, "global", details["brand"])
	assert.Equal(t, "hamburger", details["icon"])
}

func TestIsErrorCode(t *testing.T) {
	err := errors.New(errors.ErrInvalidFileKey, "must be 22 alphanumeric characters")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidFileKey))
	assert.False(t, errors.IsErrorCode(err, errors.ErrInvalidFormat))
	assert.False(t, errors.IsErrorCode(stderrors.New("plain"), errors.ErrInvalidFileKey))
	assert.False(t, errors.IsErrorCode(nil, errors.ErrInvalidFileKey))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, errors.ErrNoIcons, errors.GetErrorCode(errors.New(errors.ErrNoIcons, "empty brand")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(nil))
}
