package api

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel and typed errors for transport-level reporting.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrOffline      = errors.New("offline")
)

// RateLimitedError includes optional retry-after seconds.
type RateLimitedError struct {
	RetryAfterSeconds int
	Remote            Error
}

func (e RateLimitedError) Error() string {
	if e.RetryAfterSeconds > 0 {
		return fmt.Sprintf("rate limited, retry after %ds: %s", e.RetryAfterSeconds, e.Remote.Message)
	}
	return "rate limited: " + e.Remote.Message
}

// RemoteError wraps non-specific remote errors with status code and optional request ID.
type RemoteError struct {
	StatusCode int
	Remote     Error
}

func (e RemoteError) Error() string {
	if e.Remote.RequestID != nil && *e.Remote.RequestID != "" {
		return fmt.Sprintf("remote error %d (%s): %s [request_id=%s]", e.StatusCode, e.Remote.Error, e.Remote.Message, *e.Remote.RequestID)
	}
	if e.Remote.Error != "" {
		return fmt.Sprintf("remote error %d (%s): %s", e.StatusCode, e.Remote.Error, e.Remote.Message)
	}
	return fmt.Sprintf("remote error %d", e.StatusCode)
}

// GraphQLError is one entry of the errors array of a GraphQL reply.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e GraphQLError) Error() string {
	if code := e.Code(); code != "" {
		return fmt.Sprintf("graphql: %s (%s)", e.Message, code)
	}
	return "graphql: " + e.Message
}

// Code returns extensions.code, if any.
func (e GraphQLError) Code() string {
	code, _ := e.Extensions["code"].(string)
	return code
}

// Unwrap maps well-known codes onto the sentinel errors.
func (e GraphQLError) Unwrap() error {
	switch strings.ToUpper(e.Code()) {
	case "UNAUTHENTICATED", "FORBIDDEN":
		return ErrUnauthorized
	case "NOT_FOUND":
		return ErrNotFound
	case "BAD_USER_INPUT", "GRAPHQL_VALIDATION_FAILED":
		return ErrValidation
	}
	return nil
}

// graphQLErrors joins every entry of a reply.
func graphQLErrors(errs []GraphQLError) error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return errors.Join(out...)
}
