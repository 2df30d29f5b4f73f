package config

import (
	"crypto/tls"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// TLSVersion represents supported TLS protocol versions
type TLSVersion string

const (
	TLSVersion12 TLSVersion = "1.2"
	TLSVersion13 TLSVersion = "1.3"
)

// ParseTLSVersion converts a version string to its crypto/tls constant. An
// empty string means TLS 1.2.
func ParseTLSVersion(version string) (uint16, error) {
	switch TLSVersion(strings.TrimSpace(version)) {
	case "", TLSVersion12:
		return tls.VersionTLS12, nil
	case TLSVersion13:
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported TLS version %q", version)
	}
}

// TLSConfig enables HTTPS termination on the icon server.
type TLSConfig struct {
	Enabled    bool   `yaml:"enabled" env:"SKILLICONS_TLS_ENABLED"`
	CertFile   string `yaml:"cert_file" env:"SKILLICONS_TLS_CERT_FILE"`
	KeyFile    string `yaml:"key_file" env:"SKILLICONS_TLS_KEY_FILE"`
	MinVersion string `yaml:"min_version" env:"SKILLICONS_TLS_MIN_VERSION"`
}

// Validate requires certificate material when TLS is enabled.
func (t TLSConfig) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.CertFile, validation.When(t.Enabled, validation.Required)),
		validation.Field(&t.KeyFile, validation.When(t.Enabled, validation.Required)),
		validation.Field(&t.MinVersion, validation.By(func(value any) error {
			s, _ := value.(string)
			_, err := ParseTLSVersion(s)
			return err
		})),
	)
}

// ServerTLSConfig builds the crypto/tls configuration, or nil when TLS is disabled.
func (t TLSConfig) ServerTLSConfig() (*tls.Config, error) {
	if !t.Enabled {
		return nil, nil
	}
	minVersion, err := ParseTLSVersion(t.MinVersion)
	if err != nil {
		return nil, err
	}
	return &tls.Config{MinVersion: minVersion}, nil
}
