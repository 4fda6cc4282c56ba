package errors

import "fmt"

// ErrorCode represents a Redline error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404
	ErrProposalPending  ErrorCode = "PROPOSAL_PENDING"  // 409
	ErrNoProposal       ErrorCode = "NO_PROPOSAL"       // 409
	ErrDocumentTooLarge ErrorCode = "DOCUMENT_TOO_LARGE" // 413
	ErrUnsupportedAsset ErrorCode = "UNSUPPORTED_ASSET" // 415
	ErrGatewayFailed    ErrorCode = "GATEWAY_FAILED"    // 502
	ErrInternal         ErrorCode = "INTERNAL"          // 500
)

// RedlineError represents a structured error with code, status, and details.
type RedlineError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *RedlineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *RedlineError {
	return &RedlineError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a document cannot be found.
func NewNotFound(identifier string) *RedlineError {
	return &RedlineError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("document not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewProposalPending creates a 409 error for a transform request issued
// while an unreconciled proposal is still awaiting accept/reject.
func NewProposalPending() *RedlineError {
	return &RedlineError{
		Code:    ErrProposalPending,
		Status:  409,
		Message: "a proposal is already pending; accept or reject it first",
	}
}

// NewNoProposal creates a 409 error for accept/reject/edit calls made
// while no proposal is under review.
func NewNoProposal() *RedlineError {
	return &RedlineError{
		Code:    ErrNoProposal,
		Status:  409,
		Message: "no proposal is under review",
	}
}

// NewDocumentTooLarge creates a 413 error when content exceeds the size limit.
func NewDocumentTooLarge(max, actual int) *RedlineError {
	return &RedlineError{
		Code:    ErrDocumentTooLarge,
		Status:  413,
		Message: fmt.Sprintf("document exceeds maximum size: %d chars (max %d)", actual, max),
		Details: map[string]any{"max_chars": max, "actual_chars": actual},
	}
}

// NewUnsupportedAsset creates a 415 error for disallowed asset uploads.
func NewUnsupportedAsset(ext string, allowed []string) *RedlineError {
	return &RedlineError{
		Code:    ErrUnsupportedAsset,
		Status:  415,
		Message: fmt.Sprintf("asset extension %q is not allowed", ext),
		Details: map[string]any{"extension": ext, "allowed": allowed},
	}
}

// NewGatewayFailed creates a 502 error for AI collaborator failures.
// These are recoverable: the caller surfaces them as an error-flagged
// chat message and the user may retry.
func NewGatewayFailed(err error) *RedlineError {
	msg := "transform request failed"
	if err != nil {
		msg = err.Error()
	}
	return &RedlineError{
		Code:    ErrGatewayFailed,
		Status:  502,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *RedlineError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &RedlineError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a RedlineError with the given code.
func Is(err error, code ErrorCode) bool {
	if rErr, ok := err.(*RedlineError); ok {
		return rErr.Code == code
	}
	return false
}
