package system

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/code-solana-sdk/pkg/solana/binary"
)

type NonceVersion uint32

const (
	NonceAccountSize = 80
)

const (
	NonceVersion0 NonceVersion = iota
	NonceVersion1
)

var (
	ErrInvalidAccountSize    = errors.New("invalid nonce account size")
	ErrInvalidAccountVersion = errors.New("invalid nonce account version")
	ErrInvalidAccountOwner   = errors.New("invalid nonce account owner")
)

// NonceAccount is the state of a durable nonce account.
//
// https://github.com/solana-labs/solana/blob/da00b39f4f92fb16417bd2d8bd218a04a34527b8/sdk/program/src/nonce/state/current.rs#L8
type NonceAccount struct {
	Version       uint32
	State         uint32
	Authority     ed25519.PublicKey
	Blockhash     ed25519.PublicKey
	FeeCalculator FeeCalculator
}

type FeeCalculator struct {
	LamportsPerSignature uint64
}

func (obj NonceAccount) Marshal() ([]byte, error) {
	return binary.NewEncoder(NonceAccountSize).
		Uint32(obj.Version).
		Uint32(obj.State).
		Key(obj.Authority).
		Key(obj.Blockhash).
		Uint64(obj.FeeCalculator.LamportsPerSignature).
		Bytes()
}

func (obj *NonceAccount) Unmarshal(data []byte) (err error) {
	if len(data) != NonceAccountSize {
		return ErrInvalidAccountSize
	}

	dec := binary.NewDecoder(data)
	if obj.Version, err = dec.Uint32(); err != nil {
		return err
	}
	if obj.State, err = dec.Uint32(); err != nil {
		return err
	}
	if obj.Authority, err = dec.Key(); err != nil {
		return err
	}
	if obj.Blockhash, err = dec.Key(); err != nil {
		return err
	}
	if obj.FeeCalculator.LamportsPerSignature, err = dec.Uint64(); err != nil {
		return err
	}

	if NonceVersion(obj.Version) != NonceVersion1 {
		return ErrInvalidAccountVersion
	}

	return nil
}

// GetNonceValueFromAccount returns the stored nonce of an account owned by
// the system program.
func GetNonceValueFromAccount(owner ed25519.PublicKey, data []byte) (ed25519.PublicKey, error) {
	if !bytes.Equal(owner, ProgramKey) {
		return nil, ErrInvalidAccountOwner
	}

	var account NonceAccount
	if err := account.Unmarshal(data); err != nil {
		return nil, err
	}
	return account.Blockhash, nil
}
