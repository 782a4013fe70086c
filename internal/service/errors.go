package service

import "errors"

var (
	ErrInvalidToken          = errors.New("invalid token")
	ErrInvalidDataProvided   = errors.New("invalid data provided")
	ErrTokenSigningDisabled  = errors.New("token sign key is not configured")
	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
