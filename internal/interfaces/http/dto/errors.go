package dto

import "net/http"

// Error codes returned by the API. Domain errors carry short codes like
// NOT_FOUND; NormalizeErrorCode translates them before status lookup.
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation = "ERR_VALIDATION"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState       = "ERR_INVALID_STATE"
	ErrCodeBusinessRule       = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientCredit = "ERR_INSUFFICIENT_CREDIT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeBadRequest: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:       http.StatusUnprocessableEntity,
	ErrCodeInsufficientCredit: http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting
// to 500 for anything unrecognized
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain error codes to API error codes
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"INVALID_STATE":        ErrCodeInvalidState,
	"INSUFFICIENT_CREDIT":  ErrCodeInsufficientCredit,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,

	// creation-time domain validation codes
	"INVALID_LANDLORD":       ErrCodeValidation,
	"INVALID_UNIT":           ErrCodeValidation,
	"INVALID_AMOUNT":         ErrCodeValidation,
	"INVALID_MONTHS":         ErrCodeValidation,
	"INVALID_PAYMENT_TYPE":   ErrCodeValidation,
	"INVALID_FLOW_DIRECTION": ErrCodeValidation,
	"INVALID_STATUS":         ErrCodeValidation,
	"INVALID_PAYMENT_METHOD": ErrCodeValidation,
	"INVALID_LINK":           ErrCodeValidation,
	"INVALID_INVOICE_NUMBER": ErrCodeValidation,
	"INVALID_CURRENCY":       ErrCodeValidation,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the API format, or unknown, pass through unchanged.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
