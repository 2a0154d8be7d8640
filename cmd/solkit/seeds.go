package main

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/code-solana-sdk/pkg/solana/binary"
)

var errInvalidSeed = errors.New("invalid seed")

// parseSeed parses a "<kind>:<value>" seed. Supported kinds are str, hex,
// b58, u8 and u64. Integers are encoded little endian.
func parseSeed(s string) ([]byte, error) {
	kind, value, ok := strings.Cut(s, ":")
	if !ok {
		return nil, errors.Wrapf(errInvalidSeed, "%q is missing a kind", s)
	}

	switch kind {
	case "str":
		return []byte(value), nil
	case "hex":
		seed, err := hex.DecodeString(value)
		if err != nil {
			return nil, errors.Wrapf(errInvalidSeed, "%q: %v", s, err)
		}
		return seed, nil
	case "b58":
		seed, err := base58.Decode(value)
		if err != nil {
			return nil, errors.Wrapf(errInvalidSeed, "%q: %v", s, err)
		}
		return seed, nil
	case "u8":
		v, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return nil, errors.Wrapf(errInvalidSeed, "%q: %v", s, err)
		}
		return []byte{byte(v)}, nil
	case "u64":
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(errInvalidSeed, "%q: %v", s, err)
		}
		return binary.NewEncoder(8).Uint64(v).MustBytes(), nil
	default:
		return nil, errors.Wrapf(errInvalidSeed, "unknown kind %q", kind)
	}
}

func parseSeeds(raw []string) ([][]byte, error) {
	seeds := make([][]byte, len(raw))
	for i, s := range raw {
		seed, err := parseSeed(s)
		if err != nil {
			return nil, err
		}
		seeds[i] = seed
	}
	return seeds, nil
}
