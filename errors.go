package lister

import "errors"

var (
	// ErrEncode wraps codec serialization failures.
	ErrEncode = errors.New("lister: encode failed")
	// ErrDecode wraps malformed tokens and payloads.
	ErrDecode = errors.New("lister: decode failed")
	// ErrNoEvaluator indicates filter rules were configured without a usable engine.
	ErrNoEvaluator = errors.New("lister: evaluator not configured")
)
