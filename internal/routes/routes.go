// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package routes

import (
	"github.com/MKhiriev/go-web-server/internal/mount"
)

// Registered module names.
const (
	HealthModule  = "health"
	WhoAmIModule  = "whoami"
	SessionModule = "session"
	TokenModule   = "token"
	MetricsModule = "metrics"
	VersionModule = "version"
)

func init() {
	mount.RegisterRoutes(HealthModule, Health)
	mount.RegisterRoutes(WhoAmIModule, WhoAmI)
	mount.RegisterRoutes(SessionModule, Session)
	mount.RegisterRoutes(TokenModule, Token)
	mount.RegisterRoutes(MetricsModule, Metrics)
	mount.RegisterRoutes(VersionModule, Version)
}
