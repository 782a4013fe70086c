package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses all configuration flags from args.
//
// Flags:
//
//	-p listening port
//	-env environment label
//	-routes route descriptor folder
//	-c/-config json or yaml config file path
//	-log-format request log format (dev, combined, common, short, tiny)
//	-log-stack log full error detail
//	-session-store session store name
//	-session-dsn SQL session store DSN
//	-redis-addr redis address in format [host]:[port]
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	var redisAddress NetAddress
	var port int
	var environment, routes, configPath string
	var logFormat string
	var logStack bool
	var sessionStore, sessionDSN string
	var tokenSignKey, tokenIssuer string
	var tokenDuration time.Duration

	fs.IntVar(&port, "p", 0, "Listening port")
	fs.StringVar(&environment, "env", "", "Environment label")
	fs.StringVar(&routes, "routes", "", "Route descriptor folder")
	fs.StringVar(&configPath, "c", "", "Config file path")
	fs.StringVar(&configPath, "config", "", "Config file path (alias)")
	fs.StringVar(&logFormat, "log-format", "", "Request log format")
	fs.BoolVar(&logStack, "log-stack", false, "Log full error detail")
	fs.StringVar(&sessionStore, "session-store", "", "Session store name")
	fs.StringVar(&sessionDSN, "session-dsn", "", "SQL session store DSN")
	fs.Var(&redisAddress, "redis-addr", "Redis address host:port")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")

	if err := fs.Parse(args); err != nil {
		return nil, errors.Join(ErrInvalidFlags, err)
	}

	return &StructuredConfig{
		Environment: environment,
		Port:        port,
		Routes:      routes,
		Logging: Logging{
			Format: logFormat,
			Stack:  logStack,
		},
		Session: Session{
			Store: sessionStore,
			DSN:   sessionDSN,
			Redis: Redis{
				Addr: redisAddress.String(),
			},
		},
		Auth: Auth{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
		},
		FilePath: configPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
