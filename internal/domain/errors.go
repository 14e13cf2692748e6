package domain

import "errors"

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrAccountNotBound    = errors.New("account is not bound")
	ErrWeakPassword       = errors.New("password is too weak")
)

// Verification code errors
var (
	ErrCodeNotFound    = errors.New("verification code not found")
	ErrCodeExpired     = errors.New("verification code expired")
	ErrCodeInvalid     = errors.New("verification code invalid")
	ErrTooManyAttempts = errors.New("too many verification attempts")
	ErrDeliveryFailed  = errors.New("email delivery failed")
)

// Plaza and moderation errors
var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadyModerated   = errors.New("submission already moderated")
	ErrAlreadyLiked       = errors.New("already liked")
	ErrDuplicateReport    = errors.New("target already reported")
)
