package errors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "COMMON_001", ErrCodeInternal.String())
}

func TestHTTPStatusForCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeInternal, 500},
		{ErrCodeBadRequest, 400},
		{ErrCodeNotFound, 404},
		{ErrCodeConflict, 409},
		{ErrCodeValidation, 422},
		{ErrCodePatentNotFound, 404},
		{ErrCodeStageNotFound, 404},
		{ErrCodeTitleTooShort, 422},
		{ErrCodeVersionConflict, 409},
		{ErrCodeTemplateExists, 409},
		{ErrorCode("UNKNOWN"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatusForCode(tt.code), tt.code)
	}
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "internal server error", DefaultMessageForCode(ErrCodeInternal))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("UNKNOWN")))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeBadRequest))
	assert.True(t, IsClientError(ErrCodeNoJurisdiction))
	assert.False(t, IsClientError(ErrCodeInternal))
}

func TestIsServerError(t *testing.T) {
	assert.True(t, IsServerError(ErrCodeInternal))
	assert.True(t, IsServerError(ErrCodePatentInvalid))
	assert.False(t, IsServerError(ErrCodeBadRequest))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "LC", ModuleForCode(ErrCodePatentNotFound))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
}

func TestCatalogue_CodesAreWellFormed(t *testing.T) {
	format := regexp.MustCompile(`^(COMMON|LC)_\d{3}$`)
	for _, code := range Codes() {
		assert.Regexp(t, format, string(code))
		assert.NotEqual(t, "unknown error", DefaultMessageForCode(code), code)
	}
}

func TestKindForCode(t *testing.T) {
	tests := map[ErrorCode]Kind{
		ErrCodeTitleTooShort:    KindValidation,
		ErrCodeBadRequest:       KindValidation,
		ErrCodeTemplateNotFound: KindNotFound,
		ErrCodeLockNotAcquired:  KindConflict,
		ErrCodeMessagingError:   KindOther,
		ErrorCode("LC_999"):     KindOther,
	}
	for code, want := range tests {
		assert.Equal(t, want, KindForCode(code), code)
	}
	assert.Equal(t, "not_found", KindNotFound.String())
}

// Every validation code answers 4xx and every conflict 409.
func TestKind_AgreesWithStatus(t *testing.T) {
	for _, code := range Codes() {
		switch KindForCode(code) {
		case KindValidation:
			assert.True(t, IsClientError(code), code)
		case KindNotFound:
			assert.Equal(t, 404, HTTPStatusForCode(code), code)
		case KindConflict:
			assert.Equal(t, 409, HTTPStatusForCode(code), code)
		}
	}
}

//Personal.AI order the ending
