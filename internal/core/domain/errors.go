package domain

import "errors"

var (
	// ErrNoFace means the locator found no face region. It is a legitimate
	// outcome of single-image inference, not a processing failure.
	ErrNoFace = errors.New("domain: no face detected")

	// ErrModelUnavailable means no scoring artifact is loaded. Classification
	// cannot proceed and must not fall back to a default distribution.
	ErrModelUnavailable = errors.New("domain: emotion model unavailable")

	// ErrMalformedInput means an image or frame could not be decoded into the
	// expected raster shape.
	ErrMalformedInput = errors.New("domain: malformed image input")

	// ErrNotFound is returned by repositories when a row does not exist.
	ErrNotFound = errors.New("domain: not found")
)
