// Package config holds FriendCore's construction-time configuration,
// adapted from httpserver.ServerConfig down to the fields the spec's
// FriendCoreInstance data model (§3) actually names: port, buffer size,
// worker ceiling, and TLS material. It is validated with
// github.com/go-playground/validator/v10 and tagged for
// github.com/spf13/viper the same way the teacher's ServerConfig is.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/friendup/friendcore/internal/ferr"
)

func init() {
	ferr.RegisterMessage(ferr.MinPkgConfig, getMessage)
}

const (
	ErrorValidate ferr.CodeError = ferr.MinPkgConfig + iota
)

func getMessage(code ferr.CodeError) string {
	switch code {
	case ErrorValidate:
		return "configuration failed validation"
	}
	return ""
}

// Config is the construction-time configuration for one FriendCore
// Instance (spec §3/§4.H).
type Config struct {
	// Port is the numeric TCP port this instance binds to.
	Port int `mapstructure:"port" json:"port" yaml:"port" toml:"port" validate:"required,min=1,max=65535"`

	// Listen is the bind address, "host:port" — if empty it is derived
	// from Port alone (":<port>").
	Listen string `mapstructure:"listen" json:"listen" yaml:"listen" toml:"listen"`

	// TLSEnabled mirrors spec §3's "TLS-enabled flag"; it is fixed at
	// construction and does not change (spec §6).
	TLSEnabled bool `mapstructure:"tls_enabled" json:"tls_enabled" yaml:"tls_enabled" toml:"tls_enabled"`

	// TLSCertFile/TLSKeyFile locate the server certificate pair used to
	// build the TLS Context (§4.B) when TLSEnabled is true.
	TLSCertFile string `mapstructure:"tls_cert_file" json:"tls_cert_file" yaml:"tls_cert_file" toml:"tls_cert_file" validate:"required_if=TLSEnabled true"`
	TLSKeyFile  string `mapstructure:"tls_key_file" json:"tls_key_file" yaml:"tls_key_file" toml:"tls_key_file" validate:"required_if=TLSEnabled true"`

	// BufferSize is the fixed scratch-buffer size used by every Worker's
	// read loop (spec §4.E.1).
	BufferSize int `mapstructure:"buffer_size" json:"buffer_size" yaml:"buffer_size" toml:"buffer_size" validate:"min=0"`

	// MaxWorkers is the concurrent-connection ceiling (spec §5); zero
	// means "use the package default" (wpool.DefaultCeiling).
	MaxWorkers int `mapstructure:"max_workers" json:"max_workers" yaml:"max_workers" toml:"max_workers" validate:"min=0"`

	// Hostname is carried in the configuration only: the plaintext-on-TLS
	// redirect path does not read it, and falls back to the peer's address
	// when a request carries no Host header.
	Hostname string `mapstructure:"hostname" json:"hostname" yaml:"hostname" toml:"hostname"`
}

// Validate runs struct-tag validation the same way
// httpserver.ServerConfig.Validate does, converting validator.
// ValidationErrors into a ferr.Error with one parent per failed field.
func (c Config) Validate() ferr.Error {
	v := validator.New()
	err := v.Struct(c)
	if err == nil {
		return nil
	}

	if _, ok := err.(*validator.InvalidValidationError); ok {
		return ErrorValidate.ErrorParent(err)
	}

	out := ErrorValidate.Error(nil)
	for _, fe := range err.(validator.ValidationErrors) {
		out.AddParent(fmt.Errorf("config field '%s' failed constraint '%s'", fe.Field(), fe.ActualTag()))
	}

	return out
}

// Addr renders the bind address for net.Listen, deriving ":<port>" when
// Listen is unset.
func (c Config) Addr() string {
	if c.Listen != "" {
		return c.Listen
	}
	return fmt.Sprintf(":%d", c.Port)
}
