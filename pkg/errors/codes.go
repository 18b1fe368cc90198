package errors

import (
	"net/http"
	"strings"
)

// ErrorCode identifies one failure condition. Codes are "<MODULE>_<nnn>".
type ErrorCode string

// String returns the code as written on the wire, e.g. "LC_009".
func (c ErrorCode) String() string {
	return string(c)
}

// Common codes shared by every module.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeMessagingError     ErrorCode = "COMMON_014"
)

// Short names used at call sites.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeValidation   = ErrCodeValidation
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// Lifecycle codes.
const (
	ErrCodePatentNotFound   ErrorCode = "LC_001"
	ErrCodeStageNotFound    ErrorCode = "LC_002"
	ErrCodeTemplateNotFound ErrorCode = "LC_003"
	ErrCodeTemplateExists   ErrorCode = "LC_004"
	ErrCodeTemplateInvalid  ErrorCode = "LC_005"
	ErrCodeTitleTooShort    ErrorCode = "LC_006"
	ErrCodeNoJurisdiction   ErrorCode = "LC_007"
	ErrCodeNoStageSelected  ErrorCode = "LC_008"
	ErrCodeVersionConflict  ErrorCode = "LC_009"
	ErrCodeLockNotAcquired  ErrorCode = "LC_010"
	ErrCodeInvalidStatus    ErrorCode = "LC_011"
	ErrCodeInvalidRole      ErrorCode = "LC_012"
	ErrCodePatentInvalid    ErrorCode = "LC_013"
)

// Kind groups codes into the three failures callers are expected to handle.
// Everything else is KindOther.
type Kind int

const (
	// KindOther covers infrastructure and invariant failures.
	KindOther Kind = iota
	KindValidation
	KindNotFound
	KindConflict
)

// String returns the lower-case name used in logs.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "other"
	}
}

// codeInfo is one catalogue row.
type codeInfo struct {
	status  int
	message string
	kind    Kind
}

var catalogue = map[ErrorCode]codeInfo{
	ErrCodeInternal:           {http.StatusInternalServerError, "internal server error", KindOther},
	ErrCodeBadRequest:         {http.StatusBadRequest, "bad request", KindValidation},
	ErrCodeNotFound:           {http.StatusNotFound, "resource not found", KindNotFound},
	ErrCodeConflict:           {http.StatusConflict, "resource conflict", KindConflict},
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, "service unavailable", KindOther},
	ErrCodeTimeout:            {http.StatusGatewayTimeout, "request timeout", KindOther},
	ErrCodeValidation:         {http.StatusUnprocessableEntity, "validation failed", KindValidation},
	ErrCodeSerialization:      {http.StatusBadRequest, "serialization error", KindOther},
	ErrCodeCacheError:         {http.StatusInternalServerError, "cache error", KindOther},
	ErrCodeMessagingError:     {http.StatusInternalServerError, "messaging error", KindOther},

	ErrCodePatentNotFound:   {http.StatusNotFound, "patent not found", KindNotFound},
	ErrCodeStageNotFound:    {http.StatusNotFound, "stage not found", KindNotFound},
	ErrCodeTemplateNotFound: {http.StatusNotFound, "stage template not found", KindNotFound},
	ErrCodeTemplateExists:   {http.StatusConflict, "stage template already exists", KindConflict},
	ErrCodeTemplateInvalid:  {http.StatusUnprocessableEntity, "invalid stage template", KindValidation},
	ErrCodeTitleTooShort:    {http.StatusUnprocessableEntity, "title must be longer than 3 characters", KindValidation},
	ErrCodeNoJurisdiction:   {http.StatusUnprocessableEntity, "at least one jurisdiction is required", KindValidation},
	ErrCodeNoStageSelected:  {http.StatusUnprocessableEntity, "at least one stage must be selected", KindValidation},
	ErrCodeVersionConflict:  {http.StatusConflict, "patent was modified concurrently", KindConflict},
	ErrCodeLockNotAcquired:  {http.StatusConflict, "patent is locked by another writer", KindConflict},
	ErrCodeInvalidStatus:    {http.StatusUnprocessableEntity, "invalid stage status", KindValidation},
	ErrCodeInvalidRole:      {http.StatusUnprocessableEntity, "invalid role", KindValidation},
	ErrCodePatentInvalid:    {http.StatusInternalServerError, "patent invariant violated", KindOther},
}

// Codes returns every catalogued code in no particular order. Tests use it to
// check that each code maps to a status and a message.
func Codes() []ErrorCode {
	out := make([]ErrorCode, 0, len(catalogue))
	for c := range catalogue {
		out = append(out, c)
	}
	return out
}

// KindForCode reports the caller-facing kind of code. Unknown codes are
// KindOther.
func KindForCode(code ErrorCode) Kind {
	return catalogue[code].kind
}

// HTTPStatusForCode returns the response status for code, 500 when unknown.
func HTTPStatusForCode(code ErrorCode) int {
	if info, ok := catalogue[code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the message shown when the real one must not
// leave the process.
func DefaultMessageForCode(code ErrorCode) string {
	if info, ok := catalogue[code]; ok {
		return info.message
	}
	return "unknown error"
}

// IsClientError reports whether code maps to a 4xx status. The HTTP layer
// returns Detail to the client only for these codes.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError reports whether code maps to a 5xx status. Unknown codes
// count as server errors.
func IsServerError(code ErrorCode) bool {
	return HTTPStatusForCode(code) >= 500
}

// ModuleForCode returns the prefix before the first underscore.
func ModuleForCode(code ErrorCode) string {
	module, _, _ := strings.Cut(string(code), "_")
	if module == "" {
		return "UNKNOWN"
	}
	return module
}

//Personal.AI order the ending
