package errors

import (
	"errors"
	"fmt"
)

var (
	ErrPlanNotFound            = errors.New("campaign plan not found")
	ErrPlanNotApproved         = errors.New("plan must be approved before launching")
	ErrInvalidPlanTransition   = errors.New("plan status can only move forward")
	ErrInvalidPlan             = errors.New("invalid campaign plan")
	ErrBusinessNotFound        = errors.New("business not found")
	ErrConnectionNotFound      = errors.New("platform is not connected")
	ErrTokenRefreshFailed      = errors.New("token refresh failed, connection marked as expired")
	ErrEntityNotFound          = errors.New("campaign entity not found")
	ErrInvalidEntityChange     = errors.New("invalid campaign entity change")
	ErrGuardrailBlocked        = errors.New("change blocked by guardrails")
	ErrPlatformNotSupported    = errors.New("platform not supported")
	ErrPlanOperationInProgress = errors.New("another launch or retry is running for this plan")
	ErrInvalidRequest          = errors.New("invalid request")
	ErrDriveNotConfigured      = errors.New("file storage platform is not connected")
	ErrUnknownEventType        = errors.New("unknown event type")
	ErrMalformedEvent          = errors.New("malformed event payload")
)

type ErrorCategory string

const (
	// CategoryDefinitive failures will fail again with the same input.
	CategoryDefinitive ErrorCategory = "definitive"
	// CategoryTemporary failures (rate limits, platform outages) may succeed on retry.
	CategoryTemporary ErrorCategory = "temporary"
)

// PlatformAPIError is the structured failure returned by every adapter call.
type PlatformAPIError struct {
	Platform    string
	Message     string
	Code        int
	Category    ErrorCategory
	Type        string
	Subcode     int
	UserTitle   string
	UserMessage string
}

func (e *PlatformAPIError) Error() string {
	if e.Subcode != 0 {
		return fmt.Sprintf("%s api error %d/%d: %s", e.Platform, e.Code, e.Subcode, e.Message)
	}
	return fmt.Sprintf("%s api error %d: %s", e.Platform, e.Code, e.Message)
}

func (e *PlatformAPIError) Temporary() bool {
	return e.Category == CategoryTemporary
}

// ConnectionError means the adapter could not establish an account context.
type ConnectionError struct {
	Platform string
	Reason   string
	Err      error
}

func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s connection: %s: %v", e.Platform, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s connection: %s", e.Platform, e.Reason)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// FailureTitle and FailureMessage render an adapter error for end users.
func FailureTitle(err error) string {
	var apiErr *PlatformAPIError
	if errors.As(err, &apiErr) {
		if apiErr.UserTitle != "" {
			return apiErr.UserTitle
		}
		return fmt.Sprintf("Error %d", apiErr.Code)
	}
	return "Error unknown"
}

func FailureMessage(err error) string {
	var apiErr *PlatformAPIError
	if errors.As(err, &apiErr) {
		if apiErr.UserMessage != "" {
			return apiErr.UserMessage
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return "An unknown error occurred."
}
