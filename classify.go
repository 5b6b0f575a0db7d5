package baaskit

import "net/http"

// Classify maps a FAIL envelope to an [*APIError].
//
// Declared codes use the static code table. A code the table does not know,
// which a newer server might send, is classified from the HTTP status so the
// caller still gets a usable kind; the original code is kept verbatim.
func Classify(env *Envelope, httpStatus int) *APIError {
	kind := env.ErrorCode.Kind()
	if kind == KindUnknown {
		kind = kindForStatus(httpStatus)
	}

	// detail belongs to VALIDATION_ERROR only
	var detail []ValidationDetail
	if len(env.Detail) > 0 && env.ErrorCode == CodeValidationError {
		detail = make([]ValidationDetail, len(env.Detail))
		copy(detail, env.Detail)
	}

	return &APIError{
		Kind:       kind,
		Code:       env.ErrorCode,
		Message:    env.Message,
		HTTPStatus: httpStatus,
		RequestID:  env.RequestID,
		Timestamp:  env.Timestamp,
		Path:       env.Path,
		Detail:     detail,
	}
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusGone:
		return KindExpired
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindServer
	}
}
