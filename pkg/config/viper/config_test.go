package viper

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-solana-sdk/pkg/config"
	"github.com/code-payments/code-solana-sdk/pkg/solana/token"
)

func TestConfig(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
output: json
verbose: true
token_program: TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb
empty: ""
`)))

	val, err := NewConfig(v, "output").Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "json", val)

	_, err = NewConfig(v, "missing").Get(context.Background())
	assert.Equal(t, config.ErrNoValue, err)

	_, err = NewConfig(v, "empty").Get(context.Background())
	assert.Equal(t, config.ErrNoValue, err)

	assert.Equal(t, "json", NewStringConfig(v, "output", "text").Get(context.Background()))
	assert.Equal(t, "text", NewStringConfig(v, "missing", "text").Get(context.Background()))
	assert.True(t, NewBoolConfig(v, "verbose", false).Get(context.Background()))

	key, err := NewPublicKeyConfig(v, "token_program", token.ProgramKey).GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, token.Token2022ProgramKey, key)
}

func TestConfig_Env(t *testing.T) {
	t.Setenv("VIPERTEST_OUTPUT", "json")

	v := viper.New()
	v.SetEnvPrefix("vipertest")
	v.AutomaticEnv()

	assert.Equal(t, "json", NewStringConfig(v, "output", "text").Get(context.Background()))

	v.Set("output", "text")
	assert.Equal(t, "text", NewStringConfig(v, "output", "json").Get(context.Background()))
}
