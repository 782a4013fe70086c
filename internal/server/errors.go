// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	// ErrInvalidTransition is wrapped by the panic of a lifecycle method
	// called in the wrong state.
	ErrInvalidTransition = errors.New("invalid server state transition")

	// ErrInvalidPort is returned when PORT or the port key is not a valid
	// TCP port.
	ErrInvalidPort = errors.New("invalid port")

	errEmptyName = errors.New("server name is empty")
)
