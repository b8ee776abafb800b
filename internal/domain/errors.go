package domain

import "errors"

var (
	// ErrValidation marks caller mistakes detected before any outbound call:
	// an empty image list, a missing request field, an unsupported size.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a referenced input or record that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDecode marks image bytes that no supported codec can read.
	ErrDecode = errors.New("image decode failed")
	// ErrUpstreamParse marks a model response that is not valid structured data.
	// It is recovered inside the element extractor and never aborts a run.
	ErrUpstreamParse = errors.New("upstream response unparseable")
	// ErrUpstreamCall marks a failed outbound capability call.
	ErrUpstreamCall = errors.New("upstream call failed")
)
