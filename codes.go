package baaskit

import (
	"fmt"
	"net/http"
)

// ErrorCode is the machine-readable failure code carried in the errorCode
// field of a FAIL envelope.
//
// The set of codes is closed. Each code has a fixed canonical HTTP status and
// belongs to exactly one [Kind]; see [AllErrorCodes] for the full table.
type ErrorCode string

const (
	// Authentication and authorization.
	CodeInvalidUser  ErrorCode = "INVALID_USER"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeInvalidToken ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
	CodeForbidden    ErrorCode = "FORBIDDEN"

	// Request shape.
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeInvalidRequest  ErrorCode = "INVALID_REQUEST"
	CodeBadRequest      ErrorCode = "BAD_REQUEST"
	CodeInvalidCode     ErrorCode = "INVALID_CODE"

	// Resource state.
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeAlreadyCompleted ErrorCode = "ALREADY_COMPLETED"
	CodeExpired          ErrorCode = "EXPIRED"
	CodeNotFound         ErrorCode = "NOT_FOUND"

	// Rate and attempt limits.
	CodeRateLimitExceeded   ErrorCode = "RATE_LIMIT_EXCEEDED"
	CodeMaxAttemptsExceeded ErrorCode = "MAX_ATTEMPTS_EXCEEDED"

	// Server and vendor.
	CodeInternalServerError ErrorCode = "INTERNAL_SERVER_ERROR"
	CodeNotImplemented      ErrorCode = "NOT_IMPLEMENTED"
	CodeExternalServerError ErrorCode = "EXTERNAL_SERVER_ERROR"
	CodeWebhookError        ErrorCode = "WEBHOOK_ERROR"
	CodeFCMSubscribeFailed  ErrorCode = "FCM_SUBSCRIBE_FAILED"
	CodeUnsupportedVendor   ErrorCode = "UNSUPPORTED_VENDOR"
	CodeUnsupportedMethod   ErrorCode = "UNSUPPORTED_METHOD"
)

// codeRow is one row of the wire-level error table.
type codeRow struct {
	code   ErrorCode
	status int
	kind   Kind
}

// codeTable is part of the wire contract: do not reorder.
var codeTable = []codeRow{
	{CodeInvalidUser, http.StatusBadRequest, KindAuth},
	{CodeUnauthorized, http.StatusUnauthorized, KindAuth},
	{CodeInvalidToken, http.StatusUnauthorized, KindAuth},
	{CodeTokenExpired, http.StatusUnauthorized, KindAuth},
	{CodeForbidden, http.StatusForbidden, KindAuth},
	{CodeValidationError, http.StatusUnprocessableEntity, KindValidation},
	{CodeInvalidRequest, http.StatusBadRequest, KindValidation},
	{CodeBadRequest, http.StatusBadRequest, KindValidation},
	{CodeInvalidCode, http.StatusBadRequest, KindValidation},
	{CodeAlreadyExists, http.StatusConflict, KindConflict},
	{CodeAlreadyCompleted, http.StatusConflict, KindConflict},
	{CodeExpired, http.StatusGone, KindExpired},
	{CodeRateLimitExceeded, http.StatusTooManyRequests, KindRateLimit},
	{CodeMaxAttemptsExceeded, http.StatusTooManyRequests, KindRateLimit},
	{CodeNotFound, http.StatusNotFound, KindNotFound},
	{CodeInternalServerError, http.StatusInternalServerError, KindServer},
	{CodeNotImplemented, http.StatusNotImplemented, KindServer},
	{CodeExternalServerError, http.StatusBadGateway, KindServer},
	{CodeWebhookError, http.StatusBadGateway, KindServer},
	{CodeFCMSubscribeFailed, http.StatusBadGateway, KindServer},
	{CodeUnsupportedVendor, http.StatusBadRequest, KindServer},
	{CodeUnsupportedMethod, http.StatusMethodNotAllowed, KindServer},
}

// codeCount is the size of the closed enumeration.
const codeCount = 22

var codeIndex map[ErrorCode]codeRow

func init() {
	index, err := buildCodeIndex(codeTable)
	if err != nil {
		panic(err)
	}
	codeIndex = index
}

// buildCodeIndex checks the table is complete and unambiguous: every code
// appears once, has a status, and maps to a known kind.
func buildCodeIndex(table []codeRow) (map[ErrorCode]codeRow, error) {
	if len(table) != codeCount {
		return nil, fmt.Errorf("baaskit: error code table has %d entries, want %d", len(table), codeCount)
	}
	index := make(map[ErrorCode]codeRow, len(table))
	for _, row := range table {
		if _, dup := index[row.code]; dup {
			return nil, fmt.Errorf("baaskit: error code %s mapped twice", row.code)
		}
		if row.status < 400 || row.status > 599 {
			return nil, fmt.Errorf("baaskit: error code %s has invalid status %d", row.code, row.status)
		}
		if !row.kind.valid() {
			return nil, fmt.Errorf("baaskit: error code %s has no kind", row.code)
		}
		index[row.code] = row
	}
	return index, nil
}

// AllErrorCodes returns every declared [ErrorCode] in wire-table order.
func AllErrorCodes() []ErrorCode {
	codes := make([]ErrorCode, len(codeTable))
	for i, row := range codeTable {
		codes[i] = row.code
	}
	return codes
}

// Known reports whether c is one of the declared codes.
func (c ErrorCode) Known() bool {
	_, ok := codeIndex[c]
	return ok
}

// HTTPStatus returns the canonical HTTP status for c, or 0 for unknown codes.
func (c ErrorCode) HTTPStatus() int {
	return codeIndex[c].status
}

// Kind returns the semantic kind of c. Unknown codes report [KindUnknown].
func (c ErrorCode) Kind() Kind {
	row, ok := codeIndex[c]
	if !ok {
		return KindUnknown
	}
	return row.kind
}

// String implements fmt.Stringer.
func (c ErrorCode) String() string {
	return string(c)
}
