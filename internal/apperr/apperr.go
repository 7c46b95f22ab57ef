package apperr

import (
	"fmt"
	"net/http"
)

// Error is a structured service failure. The HTTP layer renders it as
// {"message": ..., "errors": {field: reason}} with the carried status code.
type Error struct {
	Status  int               `json:"-"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"errors,omitempty"`
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Fields)
}

// NotUnique reports a duplicate username/email at registration time.
func NotUnique() *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Message: "input data validation failed",
		Fields:  map[string]string{"username": "username and email must be unique"},
	}
}

// InvalidInput reports a structural validation failure on an inbound DTO.
func InvalidInput(field, reason string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Message: "input data validation failed",
		Fields:  map[string]string{field: reason},
	}
}

// Unauthorized is the id-lookup miss. The upstream API signals 401 here while
// email lookups signal 404; the asymmetry is part of the contract.
func Unauthorized() *Error {
	return &Error{
		Status:  http.StatusUnauthorized,
		Message: "user not found",
		Fields:  map[string]string{"user": "not found"},
	}
}

// NotFound is the email-lookup (and credentials-lookup) miss.
func NotFound(resource string) *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Message: resource + " not found",
	}
}

func Internal(msg string) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Message: msg,
	}
}
