package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Session errors
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidSession   = errors.New("invalid session token")

	// Input errors
	ErrInvalidHealthLog = errors.New("invalid health log")
	ErrInsufficientData = errors.New("insufficient data for recommendations")
	ErrInvalidLimit     = errors.New("limit must be positive")

	// Store errors
	ErrWriteFailed = errors.New("write to document store failed")

	// Recommendation errors
	ErrRecommendationFailed = errors.New("recommendation generation failed")
)

// User-visible messages surfaced through RecommendationState.Error
const (
	MessageNotAuthenticated     = "User not authenticated to generate recommendations. Please wait for authentication."
	MessageInsufficientData     = "Please log some health data and fill out your profile before generating recommendations."
	MessageRecommendationFailed = "Failed to generate recommendations. Please try again."
)

// Context keys for error values
const (
	IdentityKey = "identity"
	SequenceKey = "sequence"
)
