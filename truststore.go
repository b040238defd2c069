package securepay

import (
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pkcs12 "software.sslmate.com/src/go-pkcs12"
)

// loadCertPool reads the CA roots used to verify the gateway. A .p12 or .pfx
// file is decoded as a Java-style trust store, first with the conventional
// "changeit" password and then with none. Anything else is read as PEM.
func loadCertPool(path string) (*x509.CertPool, error) {
	path = expandHome(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("securepay: read CA bundle %s: %w", path, err)
	}

	pool := x509.NewCertPool()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".p12", ".pfx":
		certs, err := pkcs12.DecodeTrustStore(data, pkcs12.DefaultPassword)
		if err != nil {
			certs, err = pkcs12.DecodeTrustStore(data, "")
		}
		if err != nil {
			return nil, fmt.Errorf("securepay: decode trust store %s: %w", path, err)
		}
		for _, c := range certs {
			pool.AddCert(c)
		}
	default:
		if !pool.AppendCertsFromPEM(data) {
			return nil, fmt.Errorf("securepay: no certificates found in %s", path)
		}
	}
	return pool, nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
