package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidEntityID   = errors.New("invalid entity ID")
	ErrInvalidUserID     = errors.New("invalid user ID")
	ErrEmptyAttributes   = errors.New("attributes are required")
	ErrMalformedJSON     = errors.New("attributes must be a JSON object")
	ErrEmptyURL          = errors.New("url is required")
	ErrInvalidURL        = errors.New("url must be an absolute http(s) URL")
	ErrEmptyName         = errors.New("name is required")
	ErrFieldTooLong      = errors.New("field exceeds maximum length")
	ErrInvalidColor      = errors.New("color must be a #rrggbb hex value")
	ErrInvalidCollection = errors.New("invalid collection reference")
	ErrTooManyTags       = errors.New("too many tags")
	ErrEmptyTag          = errors.New("tags cannot be empty")
)
