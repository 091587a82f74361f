package dto

import (
	"net/http"

	"github.com/agrotrace/backend/internal/domain/shared"
)

// InternalErrorMessage is the only detail a client sees for a 500
const InternalErrorMessage = "An internal error occurred"

// errorCodeToHTTPStatus maps domain error codes to HTTP status codes
var errorCodeToHTTPStatus = map[string]int{
	shared.CodeValidation: http.StatusUnprocessableEntity,
	shared.CodeNotFound:   http.StatusNotFound,
	shared.CodeBadRequest: http.StatusBadRequest,
	shared.CodeInternal:   http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code. Unknown codes are
// internal errors.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeToHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
