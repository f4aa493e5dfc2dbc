package tui

import "errors"

var (
	ErrURLRequired  = errors.New("a link needs a URL")
	ErrNameRequired = errors.New("a collection needs a name")
)
