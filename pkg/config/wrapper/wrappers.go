package wrapper

import (
	"context"
	"crypto/ed25519"
	"strconv"
	"sync"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/code-solana-sdk/pkg/config"
)

var (
	// ErrUnsuportedConversion indicates the wrapper does not implement conversion from the source type
	ErrUnsuportedConversion = errors.New("config: wrapper conversion from source type not implemented")

	// ErrInvalidPublicKey indicates the source value is not a 32 byte key
	ErrInvalidPublicKey = errors.New("config: invalid public key")
)

// valueConfig converts the values of an underlying config.Config to T. It
// falls back to the default value when the source has no value, and to the
// last known value when the source fails.
type valueConfig[T any] struct {
	source       config.Config
	defaultValue T
	convert      func(interface{}) (T, error)

	stateMu   sync.RWMutex
	lastValue T
}

func newValueConfig[T any](source config.Config, defaultValue T, convert func(interface{}) (T, error)) *valueConfig[T] {
	return &valueConfig[T]{
		source:       source,
		defaultValue: defaultValue,
		convert:      convert,
		lastValue:    defaultValue,
	}
}

// GetSafe gets a config value and propagates any errors that arise. A best-effort
// attempt is made to return the last known value
func (c *valueConfig[T]) GetSafe(ctx context.Context) (T, error) {
	raw, err := c.source.Get(ctx)

	c.stateMu.RLock()
	lastValue := c.lastValue
	c.stateMu.RUnlock()

	if err == config.ErrNoValue {
		c.stateMu.Lock()
		c.lastValue = c.defaultValue
		c.stateMu.Unlock()
		return c.defaultValue, nil
	} else if err != nil {
		return lastValue, err
	}

	newValue, err := c.convert(raw)
	if err != nil {
		return lastValue, err
	}

	c.stateMu.Lock()
	c.lastValue = newValue
	c.stateMu.Unlock()
	return newValue, nil
}

// Get is a wrapper for GetSafe that ignores the returned error
func (c *valueConfig[T]) Get(ctx context.Context) T {
	val, _ := c.GetSafe(ctx)
	return val
}

// Shutdown signals the config to stop all underlying resources
func (c *valueConfig[T]) Shutdown() {
	c.source.Shutdown()
}

// NewStringConfig returns a new string config utility wrapper
func NewStringConfig(source config.Config, defaultValue string) config.String {
	return newValueConfig(source, defaultValue, func(raw interface{}) (string, error) {
		switch v := raw.(type) {
		case []byte:
			return string(v), nil
		case string:
			return v, nil
		default:
			return "", ErrUnsuportedConversion
		}
	})
}

// NewBoolConfig returns a new bool config utility wrapper
func NewBoolConfig(source config.Config, defaultValue bool) config.Bool {
	return newValueConfig(source, defaultValue, func(raw interface{}) (bool, error) {
		switch v := raw.(type) {
		case []byte:
			return strconv.ParseBool(string(v))
		case string:
			return strconv.ParseBool(v)
		case bool:
			return v, nil
		default:
			return false, ErrUnsuportedConversion
		}
	})
}

// NewPublicKeyConfig returns a new public key config utility wrapper. Byte
// and string sources hold base58 text.
func NewPublicKeyConfig(source config.Config, defaultValue ed25519.PublicKey) config.PublicKey {
	return newValueConfig(source, defaultValue, func(raw interface{}) (ed25519.PublicKey, error) {
		var decoded []byte
		switch v := raw.(type) {
		case ed25519.PublicKey:
			decoded = v
		case []byte:
			key, err := base58.Decode(string(v))
			if err != nil {
				return nil, errors.Wrap(ErrInvalidPublicKey, err.Error())
			}
			decoded = key
		case string:
			key, err := base58.Decode(v)
			if err != nil {
				return nil, errors.Wrap(ErrInvalidPublicKey, err.Error())
			}
			decoded = key
		default:
			return nil, ErrUnsuportedConversion
		}

		if len(decoded) != ed25519.PublicKeySize {
			return nil, errors.Wrapf(ErrInvalidPublicKey, "got %d bytes", len(decoded))
		}
		return ed25519.PublicKey(decoded), nil
	})
}
