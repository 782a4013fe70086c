package config

import "errors"

// Errors returned while loading and validating [StructuredConfig].
var (
	// ErrInvalidFlags indicates that the command line could not be parsed.
	ErrInvalidFlags = errors.New("invalid command line flags")
	// ErrUnsupportedFileFormat indicates a config file whose extension is
	// neither .json, .yaml nor .yml.
	ErrUnsupportedFileFormat = errors.New("unsupported config file format")
	// ErrInvalidPort indicates a port outside 0..65535.
	ErrInvalidPort = errors.New("invalid port")
	// ErrInvalidLoggingFormat indicates an unknown request log format.
	ErrInvalidLoggingFormat = errors.New("invalid logging format")
	// ErrInvalidRateLimit indicates a negative rate limit or window.
	ErrInvalidRateLimit = errors.New("invalid rate limit configuration")
	// ErrInvalidBodyLimit indicates a negative request body limit.
	ErrInvalidBodyLimit = errors.New("invalid body limit")
)
