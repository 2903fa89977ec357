package models

import "errors"

// Application-wide standard errors
var (
	// Common resource/DB errors
	ErrNotFound = errors.New("resource not found")

	// Account & authentication errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrNicknameTaken      = errors.New("account with this nickname already exists")
	ErrEmailTaken         = errors.New("account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized") // Authentication required or failed
	ErrForbidden          = errors.New("forbidden")    // Authenticated, but lacks permission

	// Token errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenNotFound  = errors.New("token not found in storage")

	// Narrative graph errors
	ErrStoryNotFound         = errors.New("story not found")
	ErrChapterNotFound       = errors.New("chapter not found")
	ErrChapterStoryMismatch  = errors.New("source and target chapters belong to different stories")
	ErrReferencedRowNotFound = errors.New("referenced record does not exist")

	// General request/server errors
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
	ErrInvalidInput   = errors.New("invalid input data")
)
