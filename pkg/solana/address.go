package solana

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"hash"
	"math"

	"github.com/jdgcs/ed25519/edwards25519"
	"github.com/pkg/errors"
)

const (
	MaxSeeds      = 16
	MaxSeedLength = 32
)

var pdaMarker = []byte("ProgramDerivedAddress")

var (
	// ErrSeedConstraintViolation is matched (via errors.Is) by every seed
	// count or seed length violation.
	ErrSeedConstraintViolation = errors.New("seed constraint violation")

	ErrTooManySeeds          = errors.Wrap(ErrSeedConstraintViolation, "too many seeds")
	ErrMaxSeedLengthExceeded = errors.Wrap(ErrSeedConstraintViolation, "max seed length exceeded")

	ErrInvalidPublicKey  = errors.New("invalid public key")
	ErrInvalidProgramKey = errors.New("invalid program key")
	ErrIllegalOwner      = errors.New("illegal owner")

	// ErrNoValidAddress is returned when no bump seed in [0, 255] yields an
	// off-curve address. Retrying with the same inputs always fails again.
	ErrNoValidAddress = errors.New("unable to find a viable program address bump seed")
)

var (
	programHashCtor = sha256.New
)

// ProgramDerivedAddress is an off-curve address along with the bump seed that
// was used to push it off the curve.
type ProgramDerivedAddress struct {
	Address ed25519.PublicKey
	Bump    uint8
}

// IsOnCurve reports whether key decodes to a valid ed25519 curve point.
//
// We don't have a _direct_ equivalent of curve25519-dalek's decompression in Go,
// but the edwards25519.ExtendedGroupElement decoding used by ed25519.Verify()
// performs the same check.
func IsOnCurve(key []byte) bool {
	if len(key) != ed25519.PublicKeySize {
		return false
	}

	var raw [32]byte
	copy(raw[:], key)
	return isOnCurve(&raw)
}

func isOnCurve(raw *[32]byte) bool {
	var A edwards25519.ExtendedGroupElement
	return A.FromBytes(raw)
}

// CreateProgramAddress mirrors the implementation of the Solana SDK's CreateProgramAddress.
//
// ProgramAddresses are public keys that _do not_ lie on the ed25519 curve to ensure that
// there is no associated private key. In the event that the program and seed parameters
// result in a valid public key, ErrInvalidPublicKey is returned.
//
// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L158
func CreateProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, error) {
	if err := validateSeeds(program, seeds); err != nil {
		return nil, err
	}

	var digest [32]byte
	h := programHashCtor()
	if err := hashSeeds(h, &digest, program, seeds, nil); err != nil {
		return nil, err
	}

	if isOnCurve(&digest) {
		return nil, ErrInvalidPublicKey
	}

	pub := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(pub, digest[:])
	return pub, nil
}

// DeriveAddress searches bump seeds from 255 down to 0 and returns the first
// (seeds || bump) combination that produces an off-curve address.
//
// The hasher and digest buffer are reused across the search, so the loop does
// not allocate.
//
// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L234
func DeriveAddress(program ed25519.PublicKey, seeds ...[]byte) (ProgramDerivedAddress, error) {
	if err := validateSeeds(program, seeds); err != nil {
		return ProgramDerivedAddress{}, err
	}

	var digest [32]byte
	var bump [1]byte
	h := programHashCtor()

	for candidate := math.MaxUint8; candidate >= 0; candidate-- {
		bump[0] = uint8(candidate)

		h.Reset()
		if err := hashSeeds(h, &digest, program, seeds, bump[:]); err != nil {
			return ProgramDerivedAddress{}, err
		}

		if !isOnCurve(&digest) {
			address := make(ed25519.PublicKey, ed25519.PublicKeySize)
			copy(address, digest[:])

			return ProgramDerivedAddress{
				Address: address,
				Bump:    bump[0],
			}, nil
		}
	}

	return ProgramDerivedAddress{}, ErrNoValidAddress
}

// FindProgramAddressAndBump mirrors the implementation of the Solana SDK's
// FindProgramAddress. It returns the address and bump seed.
func FindProgramAddressAndBump(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, uint8, error) {
	pda, err := DeriveAddress(program, seeds...)
	if err != nil {
		return nil, 0, err
	}

	return pda.Address, pda.Bump, nil
}

// FindProgramAddress mirrors the implementation of the Solana SDK's FindProgramAddress.
// It only returns the address.
func FindProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, error) {
	pda, err := DeriveAddress(program, seeds...)
	return pda.Address, err
}

// CreateWithSeed derives an address from a base key, a string seed and the
// owning program. Unlike program addresses, these may lie on the curve.
//
// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L139
func CreateWithSeed(base ed25519.PublicKey, seed string, owner ed25519.PublicKey) (ed25519.PublicKey, error) {
	if len(seed) > MaxSeedLength {
		return nil, ErrMaxSeedLengthExceeded
	}
	if len(owner) != ed25519.PublicKeySize || len(base) != ed25519.PublicKeySize {
		return nil, ErrInvalidPublicKey
	}
	if bytes.HasSuffix(owner, pdaMarker) {
		return nil, ErrIllegalOwner
	}

	h := sha256.New()
	for _, v := range [][]byte{base, []byte(seed), owner} {
		if _, err := h.Write(v); err != nil {
			return nil, errors.Wrap(err, "failed to hash seed")
		}
	}

	return h.Sum(nil), nil
}

func validateSeeds(program ed25519.PublicKey, seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return ErrTooManySeeds
	}
	for _, s := range seeds {
		if len(s) > MaxSeedLength {
			return ErrMaxSeedLengthExceeded
		}
	}
	if len(program) != ed25519.PublicKeySize {
		return ErrInvalidProgramKey
	}
	return nil
}

func hashSeeds(h hash.Hash, digest *[32]byte, program ed25519.PublicKey, seeds [][]byte, bump []byte) error {
	for _, s := range seeds {
		if _, err := h.Write(s); err != nil {
			return errors.Wrap(err, "failed to hash seed")
		}
	}
	if bump != nil {
		if _, err := h.Write(bump); err != nil {
			return errors.Wrap(err, "failed to hash bump seed")
		}
	}
	if _, err := h.Write(program); err != nil {
		return errors.Wrap(err, "failed to hash program")
	}
	if _, err := h.Write(pdaMarker); err != nil {
		return errors.Wrap(err, "failed to hash marker")
	}

	sum := h.Sum(digest[:0])
	if len(sum) != len(digest) {
		return errors.Errorf("unexpected digest size: %d", len(sum))
	}
	copy(digest[:], sum)
	return nil
}
