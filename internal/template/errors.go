package template

import "errors"

var (
	// ErrTemplateNotFound is returned when the named template does not exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrMissingTemplateKey is returned when template data lacks a referenced key.
	ErrMissingTemplateKey = errors.New("missing template key")

	// ErrUnexpandedToken is returned when rendered output still contains a
	// template or variable token.
	ErrUnexpandedToken = errors.New("unexpanded token in rendered output")

	// ErrInvalidJSON is returned when a JSON template renders to invalid JSON.
	ErrInvalidJSON = errors.New("rendered template is not valid JSON")

	// ErrInvalidCatalog is returned when catalog.yaml is malformed.
	ErrInvalidCatalog = errors.New("invalid component catalog")
)
