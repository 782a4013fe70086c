package mount

import "errors"

var (
	// ErrMalformedModule is returned for descriptors that cannot be decoded
	// or lack a factory, and for modules that fail to register their routes.
	ErrMalformedModule = errors.New("malformed module")

	// ErrUnknownFactory is returned when a descriptor names a factory that
	// was never registered.
	ErrUnknownFactory = errors.New("unknown module factory")
)
