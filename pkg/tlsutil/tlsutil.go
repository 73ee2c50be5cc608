// Package tlsutil loads TLS credentials for the gRPC server.
package tlsutil

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"time"

	"google.golang.org/grpc/credentials"
)

// ServerTLSConfig loads gRPC server credentials from cert and key files.
func ServerTLSConfig(certFile, keyFile string) (credentials.TransportCredentials, error) {
	cfg, err := LoadServerConfig(certFile, keyFile, time.Now())
	if err != nil {
		return nil, err
	}
	return credentials.NewTLS(cfg), nil
}

// LoadServerConfig loads a key pair and rejects a certificate that is not
// valid at now, so a stale deployment fails at startup instead of on the
// first handshake.
func LoadServerConfig(certFile, keyFile string, now time.Time) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: load server key pair: %w", err)
	}

	leaf := cert.Leaf
	if leaf == nil {
		if leaf, err = x509.ParseCertificate(cert.Certificate[0]); err != nil {
			return nil, fmt.Errorf("tlsutil: parse certificate: %w", err)
		}
	}
	if now.After(leaf.NotAfter) {
		return nil, fmt.Errorf("tlsutil: certificate expired at %s", leaf.NotAfter.UTC().Format(time.RFC3339))
	}
	if now.Before(leaf.NotBefore) {
		return nil, fmt.Errorf("tlsutil: certificate not valid before %s", leaf.NotBefore.UTC().Format(time.RFC3339))
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
