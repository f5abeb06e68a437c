package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/slidegen/internal/domain/auth"
	apperrors "github.com/yanqian/slidegen/pkg/errors"
)

// HTTPError is the transport form of a failure; errorHandlingMiddleware renders it as {"error":{code,message}}.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError builds an HTTPError with an explicit status.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// domainError derives status, code and message from an apperrors.AppError.
// fallback names the code used when err carries none.
func domainError(err error, fallback string) *HTTPError {
	code := apperrors.CodeOf(err)
	if code == "" {
		code = fallback
	}
	return &HTTPError{
		Status:  statusFor(err),
		Code:    code,
		Message: apperrors.MessageOf(err),
		Err:     err,
	}
}

func statusFor(err error) int {
	switch apperrors.CodeOf(err) {
	case auth.CodeInvalidInput, auth.CodeEmailExists:
		return http.StatusBadRequest
	case auth.CodeInvalidCredentials, auth.CodeInvalidToken:
		return http.StatusUnauthorized
	case auth.CodeUserNotFound:
		return http.StatusNotFound
	case auth.CodeAuthDisabled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	if apperrors.CodeOf(err) != "" {
		return domainError(err, "")
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
