package providers

import "errors"

var (
	ErrInvalidID        = errors.New("invalid composite id")
	ErrParse            = errors.New("required field missing from page")
	ErrMalformedPayload = errors.New("malformed payload")
)
