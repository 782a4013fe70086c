package session

import "errors"

var (
	// ErrNotFound is returned by a [Store] when the id is unknown or expired.
	ErrNotFound = errors.New("session not found")

	// ErrUnknownStore is returned by [NewStore] for an unregistered name.
	ErrUnknownStore = errors.New("unknown session store")

	// ErrStoreNotMigrated is returned by the SQL stores when the sessions
	// table does not exist.
	ErrStoreNotMigrated = errors.New("session table does not exist")

	// ErrEncodingValues is returned when a payload cannot be serialised.
	ErrEncodingValues = errors.New("error encoding session values")

	// ErrDecodingValues is returned when a stored payload cannot be read back.
	ErrDecodingValues = errors.New("error decoding session values")
)
