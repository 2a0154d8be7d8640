package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/code-payments/code-solana-sdk/pkg/config"
)

var errDeveloperInduced = errors.New("in memory config: developer induced error")

// Store is an in memory set of keyed values used for testing. Every Config
// returned by a Store observes its latest state.
type Store struct {
	stateMu  sync.RWMutex
	values   map[string]interface{}
	err      error
	shutdown bool
}

func NewStore() *Store {
	return &Store{
		values: make(map[string]interface{}),
	}
}

// Config returns a config.Config for key.
func (s *Store) Config(key string) *Config {
	return &Config{store: s, key: key}
}

// Set sets the value of key. A nil value indicates no value is set.
func (s *Store) Set(key string, value interface{}) {
	s.stateMu.Lock()
	if value == nil {
		delete(s.values, key)
	} else {
		s.values[key] = value
	}
	s.stateMu.Unlock()
}

func (s *Store) get(key string) (interface{}, error) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	if s.shutdown {
		return nil, config.ErrShutdown
	}
	if s.err != nil {
		return nil, s.err
	}

	value, ok := s.values[key]
	if !ok {
		return nil, config.ErrNoValue
	}
	return value, nil
}

func (s *Store) setErr(err error) {
	s.stateMu.Lock()
	s.err = err
	s.stateMu.Unlock()
}

// Config is a single key of a Store.
type Config struct {
	store *Store
	key   string
}

// NewConfig returns a new in memory config backed by its own store. Use an
// initial nil value to indicate no value is set
func NewConfig(value interface{}) *Config {
	s := NewStore()
	s.Set("", value)
	return s.Config("")
}

// Get implements Config.Get
func (c *Config) Get(_ context.Context) (interface{}, error) {
	return c.store.get(c.key)
}

// Shutdown implements Config.Shutdown. It shuts down the whole store.
func (c *Config) Shutdown() {
	c.store.stateMu.Lock()
	c.store.shutdown = true
	c.store.stateMu.Unlock()
}

// SetValue sets the value that should be returned on subsequent Get calls
func (c *Config) SetValue(value interface{}) {
	c.store.Set(c.key, value)
}

// ClearValue sets up the config as if no value has been set, resulting in
// ErrNoValue being returned on subsequent Get Calls
func (c *Config) ClearValue() {
	c.store.Set(c.key, nil)
}

// InduceErrors instructs the store to simulate an error getting a config value
func (c *Config) InduceErrors() {
	c.store.setErr(errDeveloperInduced)
}

// StopInducingErrors stops the store from simulating an error getting a config value
func (c *Config) StopInducingErrors() {
	c.store.setErr(nil)
}
