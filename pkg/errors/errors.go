package errors

import "fmt"

var (
	// Tokens
	ErrInvalidSigningMethod = fmt.Errorf("unexpected token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token has expired")

	// Authorization
	ErrEmptyAuthHeader   = fmt.Errorf("authorization header is missing")
	ErrInvalidAuthHeader = fmt.Errorf("authorization header must be 'Bearer <token>'")
	ErrUnauthorized      = fmt.Errorf("unauthorized")

	// Common
	ErrNotFound      = fmt.Errorf("record not found")
	ErrAlreadyExists = fmt.Errorf("record already exists")
	ErrBadRequest    = fmt.Errorf("bad request")
)

// HttpError carries a status code for errors that leave the action envelope,
// such as middleware rejections and plain REST endpoints.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}
