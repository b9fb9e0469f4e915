package conversion

import "errors"

var (
	ErrLeadNotFound       = errors.New("lead not found")
	ErrNotMonitoringOwner = errors.New("only the monitoring owner may convert")
	ErrLeadNotWon         = errors.New("only a won lead can be converted")
	ErrAlreadyConverted   = errors.New("lead already converted")
	ErrEmailRequired      = errors.New("no usable email for the client")
	ErrPasswordTooShort   = errors.New("password is too short")
)
