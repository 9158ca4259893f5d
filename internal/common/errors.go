// Package common defines shared constants and sentinel errors used across
// the newsroom server layers. Callers should use errors.Is / errors.As to
// match these values.
package common

import (
	"errors"
	"net/http"
)

// APIError is an error that carries the HTTP status and the client-facing
// message it should be rendered with.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is matches any APIError with the same status and message, so freshly
// constructed errors compare equal to the sentinels below.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Status == t.Status && e.Message == t.Message
}

func NewBadRequest(msg string) *APIError   { return &APIError{Status: http.StatusBadRequest, Message: msg} }
func NewUnauthorized(msg string) *APIError { return &APIError{Status: http.StatusUnauthorized, Message: msg} }
func NewForbidden(msg string) *APIError    { return &APIError{Status: http.StatusForbidden, Message: msg} }
func NewNotFound(msg string) *APIError     { return &APIError{Status: http.StatusNotFound, Message: msg} }
func NewConflict(msg string) *APIError     { return &APIError{Status: http.StatusConflict, Message: msg} }

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Guard errors.
	ErrNoToken        = NewUnauthorized("No token provided")
	ErrInvalidToken   = NewUnauthorized("Invalid token")
	ErrUserNotFound   = NewUnauthorized("User not found")
	ErrAccountDeleted = NewForbidden("Account deleted")
	ErrForbidden      = NewForbidden("Forbidden")

	// Account lifecycle errors.
	ErrInvalidCredentials = NewUnauthorized("Invalid credentials")
	ErrUsernameTaken      = NewConflict("Username already taken")
	ErrAlreadyLoggedIn    = NewBadRequest("Already logged in")
	ErrNoFieldsProvided   = NewBadRequest("Request body must contain at least one of the following fields: username, name, password, avatar_url, is_private.")
	ErrMalformedBody      = NewBadRequest("Request body must be a valid JSON object")

	// Content errors.
	ErrArticleNotFound = NewNotFound("Article not found")
	ErrCommentNotFound = NewNotFound("Comment not found")
	ErrRouteNotFound   = NewNotFound("Route not found")
)

// InternalServerErrorMessage is the only message unclassified failures are
// rendered with.
const InternalServerErrorMessage = "Internal Server Error"
