package service

import "errors"

// ErrInvalidCredentials is returned when the identity provider refuses a login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrIdentityUnavailable is returned when the identity provider cannot be reached or is not configured.
var ErrIdentityUnavailable = errors.New("identity provider unavailable")

// ErrInvalidSession is returned for unknown or expired session tokens.
var ErrInvalidSession = errors.New("invalid_session")
