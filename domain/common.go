package domain

import "errors"

var (
	MessageFailedBodyRequest = "failed to parse request body"
	MessageMethodNotAllowed  = "method not allowed"
	MessageEndpointNotFound  = "endpoint not found"

	ErrRateLimited        = errors.New("rate limit exceeded, please try again later")
	ErrVerificationFailed = errors.New("turnstile verification failed")
	ErrInvalidAction      = errors.New("invalid action")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
