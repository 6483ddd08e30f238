package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound    = errors.New("domain: not found")
	ErrEmptyPolicy = errors.New("domain: policy text empty or unreadable")
	ErrNotPolicy   = errors.New("domain: document is not a policy")
	ErrNoModels    = errors.New("domain: no model documentation available")
)
