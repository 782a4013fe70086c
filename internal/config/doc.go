// Package config provides configuration loading, merging, and lookup
// facilities for the web server.
//
// Configuration is assembled from multiple sources in the following priority
// order (earlier sources win for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON or YAML config file
//
// The merged [StructuredConfig] is consumed through the [Provider] interface,
// a key-path lookup ("logging:format", "http:cors", ...). [MapProvider] is a
// map-backed Provider for tests and embedding.
package config
