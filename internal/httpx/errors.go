package httpx

import "net/http"

type ErrorCode string

const (
	ErrInvalidJSON      ErrorCode = "invalid_json"
	ErrUnsupportedMedia ErrorCode = "unsupported_media_type"
	ErrTooLarge         ErrorCode = "request_too_large"
	ErrUnauthorized     ErrorCode = "unauthorized"
	ErrInvalidToken     ErrorCode = "invalid_token"
	ErrForbidden        ErrorCode = "forbidden"
	ErrInternal         ErrorCode = "internal_error"
)

// StatusInvalidToken is returned for a present but unverifiable credential.
// Clients of this API branch on 402, so it stays.
const StatusInvalidToken = http.StatusPaymentRequired

// ErrorResponse keeps the {error, message} shape existing clients read and
// adds a machine-readable code.
type ErrorResponse[T any] struct {
	Error   bool      `json:"error"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details T         `json:"details,omitempty"`
}

func WriteInternal(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, ErrorResponse[any]{
		Code:    ErrInternal,
		Message: "internal server error",
	})
}
