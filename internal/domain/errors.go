package domain

import "errors"

// Sentinels carry no stack of their own; call sites wrap them with
// github.com/pkg/errors so the trace points at the failure.
var (
	// ErrConfiguration reports unusable or missing identifier arguments.
	ErrConfiguration = errors.New("configuration error")

	// ErrTypeMismatch reports an argument of the wrong model type.
	ErrTypeMismatch = errors.New("type mismatch")
)
