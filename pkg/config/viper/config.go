// Package viper adapts keys of a *viper.Viper to config.Config, so values
// from config files, environment variables and bound flags can back the
// typed wrappers.
package viper

import (
	"context"
	"crypto/ed25519"

	"github.com/spf13/viper"

	"github.com/code-payments/code-solana-sdk/pkg/config"
	"github.com/code-payments/code-solana-sdk/pkg/config/wrapper"
)

type conf struct {
	v   *viper.Viper
	key string
}

func NewConfig(v *viper.Viper, key string) config.Config {
	return &conf{
		v:   v,
		key: key,
	}
}

// Get implements Config.Get
func (c *conf) Get(_ context.Context) (interface{}, error) {
	if !c.v.IsSet(c.key) {
		return nil, config.ErrNoValue
	}

	val := c.v.Get(c.key)
	if s, ok := val.(string); ok && len(s) == 0 {
		return nil, config.ErrNoValue
	}
	return val, nil
}

// Shutdown implements Config.Shutdown
func (c *conf) Shutdown() {
}

// NewStringConfig creates a viper-based string config
func NewStringConfig(v *viper.Viper, key string, defaultValue string) config.String {
	return wrapper.NewStringConfig(NewConfig(v, key), defaultValue)
}

// NewBoolConfig creates a viper-based bool config
func NewBoolConfig(v *viper.Viper, key string, defaultValue bool) config.Bool {
	return wrapper.NewBoolConfig(NewConfig(v, key), defaultValue)
}

// NewPublicKeyConfig creates a viper-based base58 public key config
func NewPublicKeyConfig(v *viper.Viper, key string, defaultValue ed25519.PublicKey) config.PublicKey {
	return wrapper.NewPublicKeyConfig(NewConfig(v, key), defaultValue)
}
