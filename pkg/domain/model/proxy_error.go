package model

import (
	"errors"

	"github.com/healthnav/healthnav/pkg/domain/types"
)

// ProxyError is a classified failure of the recommendation proxy. Message is
// safe to show to end users; Detail is diagnostic only.
type ProxyError struct {
	Kind    types.ErrorKind
	Message string
	Detail  string
}

func (x *ProxyError) Error() string {
	if x.Detail != "" {
		return string(x.Kind) + ": " + x.Message + " (" + x.Detail + ")"
	}
	return string(x.Kind) + ": " + x.Message
}

// NewProxyError creates a ProxyError
func NewProxyError(kind types.ErrorKind, message, detail string) *ProxyError {
	return &ProxyError{Kind: kind, Message: message, Detail: detail}
}

// ProxyErrorKind extracts the classification of err. Errors that are not
// ProxyErrors are internal.
func ProxyErrorKind(err error) types.ErrorKind {
	var pe *ProxyError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return types.ErrorKindInternal
}

// CallableRequest is the request envelope of the callable wire format
type CallableRequest struct {
	Data *GenerationRequest `json:"data"`
}

// CallableResponse is the response envelope of the callable wire format.
// Exactly one of Result and Error is set.
type CallableResponse struct {
	Result *RecommendationResult `json:"result,omitempty"`
	Error  *CallableError        `json:"error,omitempty"`
}

// CallableError is the error body of the callable wire format
type CallableError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// NewCallableError converts err into the wire error. Non-proxy errors become
// an opaque internal error.
func NewCallableError(err error) *CallableError {
	var pe *ProxyError
	if !errors.As(err, &pe) {
		pe = NewProxyError(types.ErrorKindInternal, "internal error", "")
	}
	return &CallableError{
		Status:  pe.Kind.Status(),
		Message: pe.Message,
		Details: pe.Detail,
	}
}

// ProxyError converts the wire error back into a ProxyError
func (x *CallableError) ProxyError() *ProxyError {
	return NewProxyError(types.ErrorKindFromStatus(x.Status), x.Message, x.Details)
}
