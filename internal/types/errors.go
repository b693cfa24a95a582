package types

import "fmt"

// ErrUnauthorized indicates the request carries no verified identity
type ErrUnauthorized struct{}

func (e *ErrUnauthorized) Error() string {
	return "Unauthorized"
}

// ErrValidation indicates request validation failure. Error returns only the
// user-facing message; Field names the offending input for logs.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Message == "" {
		return InvalidInputMessage
	}
	return e.Message
}

// ErrUserNotFound indicates no user exists for an external identity
type ErrUserNotFound struct {
	ClerkUserID string
}

func (e *ErrUserNotFound) Error() string {
	return "User not found"
}

// ErrUpstream is a failure of the AI model or storage. Message is safe to
// show to clients; Err keeps the cause for logging.
type ErrUpstream struct {
	Message string
	Err     error
}

func (e *ErrUpstream) Error() string {
	return e.Message
}

func (e *ErrUpstream) Unwrap() error {
	return e.Err
}

// Cause returns the underlying error text, or the message when there is none.
func (e *ErrUpstream) Cause() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// User-facing messages shared by services and handlers.
const (
	InvalidInputMessage   = "Invalid input data"
	QuizGenerationFailed  = "Failed to generate quiz. Please try again."
	SaveResultsFailed     = "Failed to save quiz results"
	ProfileUpdateFailed   = "Failed to update profile"
	FetchAssessmentFailed = "Failed to fetch assessments"
	InsightsFailed        = "Failed to load industry insights"
	UserSyncFailed        = "Failed to sync user"
)
