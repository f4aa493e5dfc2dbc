package client

import "errors"

var ErrSessionRevoked = errors.New("session was rejected by the remote store")
