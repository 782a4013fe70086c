package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNetAddress_String tests the String method of NetAddress
func TestNetAddress_String(t *testing.T) {
	tests := []struct {
		name     string
		addr     NetAddress
		expected string
	}{
		{
			name:     "empty address",
			addr:     NetAddress{},
			expected: "",
		},
		{
			name:     "localhost with port",
			addr:     NetAddress{Host: "localhost", Port: 6379},
			expected: "localhost:6379",
		},
		{
			name:     "IP address with port",
			addr:     NetAddress{Host: "127.0.0.1", Port: 6380},
			expected: "127.0.0.1:6380",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.addr.String())
		})
	}
}

// TestNetAddress_Set tests the Set method of NetAddress
func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectedAddr NetAddress
		expectError  bool
		errorMsg     string
	}{
		{
			name:         "valid localhost",
			input:        "localhost:6379",
			expectedAddr: NetAddress{Host: "localhost", Port: 6379},
		},
		{
			name:         "valid IP",
			input:        "10.0.0.5:6379",
			expectedAddr: NetAddress{Host: "10.0.0.5", Port: 6379},
		},
		{
			name:        "zero port",
			input:       "localhost:0",
			expectError: true,
			errorMsg:    "port number must be in range",
		},
		{
			name:        "port out of range",
			input:       "localhost:70000",
			expectError: true,
			errorMsg:    "port number must be in range",
		},
		{
			name:        "invalid IP address",
			input:       "invalid.host:6379",
			expectError: true,
			errorMsg:    "incorrect IP-address provided",
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
			errorMsg:    "need address in a form `host:port`",
		},
		{
			name:        "only colon",
			input:       ":",
			expectError: true,
			errorMsg:    "invalid syntax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := &NetAddress{}
			err := addr.Set(tt.input)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedAddr, *addr)
			}
		})
	}
}

// TestParseFlags tests the parseFlags function
func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		validate func(t *testing.T, cfg *StructuredConfig)
	}{
		{
			name: "all flags set",
			args: []string{
				"-p", "4000",
				"-env", "production",
				"-routes", "/srv/routes",
				"-c", "/path/to/config.json",
				"-log-format", "tiny",
				"-log-stack",
				"-session-store", "sqlite",
				"-session-dsn", "file:sessions.db",
				"-redis-addr", "localhost:6379",
				"-token-sign-key", "jwt_secret",
				"-token-issuer", "test_issuer",
				"-token-duration", "1h",
			},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, 4000, cfg.Port)
				assert.Equal(t, "production", cfg.Environment)
				assert.Equal(t, "/srv/routes", cfg.Routes)
				assert.Equal(t, "/path/to/config.json", cfg.FilePath)
				assert.Equal(t, "tiny", cfg.Logging.Format)
				assert.True(t, cfg.Logging.Stack)
				assert.Equal(t, "sqlite", cfg.Session.Store)
				assert.Equal(t, "file:sessions.db", cfg.Session.DSN)
				assert.Equal(t, "localhost:6379", cfg.Session.Redis.Addr)
				assert.Equal(t, "jwt_secret", cfg.Auth.TokenSignKey)
				assert.Equal(t, "test_issuer", cfg.Auth.TokenIssuer)
				assert.Equal(t, time.Hour, cfg.Auth.TokenDuration)
			},
		},
		{
			name: "config alias flag",
			args: []string{"-config", "/path/to/config.yaml"},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "/path/to/config.yaml", cfg.FilePath)
			},
		},
		{
			name: "no flags",
			args: nil,
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, &StructuredConfig{}, cfg)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseFlags(tt.args)
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

func TestParseFlags_InvalidFlag(t *testing.T) {
	cfg, err := parseFlags([]string{"-redis-addr", "nowhere"})
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFlags)
}
