package errors

import "net/http"

// Token errors surfaced by the bearer authentication middleware.
const (
	ErrorTypeTokenExpired ErrorType = "token_expired"
	ErrorTypeTokenInvalid ErrorType = "token_invalid"
)

func NewTokenExpiredError() *AppError {
	return newAppError(ErrorTypeTokenExpired, http.StatusUnauthorized, "access token has expired", nil)
}

func NewTokenInvalidError(details ...string) *AppError {
	return newAppError(ErrorTypeTokenInvalid, http.StatusUnauthorized, "access token is invalid", details)
}
