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

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-b encrypted blob directory
//	-c/-config json file path with configs
//	-key-ref wrapping key reference
//	-signing-key-version signing key version reference
//	-signing-key-path PEM signing key path
//	-keys-remote-address remote key service base URL
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-sweep-interval cache sweep interval (e.g., "5m")
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var blobDir string
	var jsonConfigPath string
	var keyRef string
	var signingKeyVersion string
	var signingKeyPath string
	var keysRemoteAddress string
	var tokenSignKey string
	var tokenIssuer string
	var requestTimeout time.Duration
	var sweepInterval time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&blobDir, "b", "", "Encrypted blob directory")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&keyRef, "key-ref", "", "Wrapping key reference")
	flag.StringVar(&signingKeyVersion, "signing-key-version", "", "Signing key version reference")
	flag.StringVar(&signingKeyPath, "signing-key-path", "", "PEM signing key path")
	flag.StringVar(&keysRemoteAddress, "keys-remote-address", "", "Remote key service base URL")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&sweepInterval, "sweep-interval", 0, "Cache sweep interval (e.g., 5m)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			TokenSignKey: tokenSignKey,
			TokenIssuer:  tokenIssuer,
		},
		Keys: Keys{
			KeyRef:            keyRef,
			SigningKeyVersion: signingKeyVersion,
			SigningKeyPath:    signingKeyPath,
			RemoteAddress:     keysRemoteAddress,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			Blobs: Blobs{
				Dir: blobDir,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			SweepInterval: sweepInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the empty string.
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

	if port < 1 {
		return errors.New("port number is a positive integer")
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
