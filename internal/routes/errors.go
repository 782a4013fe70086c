package routes

import "errors"

var (
	ErrNoSession  = errors.New("no session attached to the request")
	ErrNoMetrics  = errors.New("metrics are not configured")
	ErrNoAppInfo  = errors.New("build info is not configured")
	ErrNoTokens   = errors.New("token issuer is not configured")
	ErrBadPayload = errors.New("payload must be a JSON object or a form")
)
