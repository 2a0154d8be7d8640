package token

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/code-solana-sdk/pkg/solana/binary"
)

type AccountState byte

const (
	AccountStateUninitialized AccountState = iota
	AccountStateInitialized
	AccountStateFrozen
)

// Reference: https://github.com/solana-labs/solana-program-library/blob/11b1e3eefdd4e523768d63f7c70a7aa391ea0d02/token/program/src/state.rs#L125
const AccountSize = 165

// Token-2022 accounts with extensions carry an account type byte right after
// the base layout, followed by TLV extension data.
const accountTypeAccount = 2

var ErrInvalidAccountSize = errors.New("invalid token account size")

// Account is the state of a token account.
type Account struct {
	// The mint associated with this account
	Mint ed25519.PublicKey
	// The owner of this account.
	Owner ed25519.PublicKey
	// The amount of tokens this account holds.
	Amount uint64
	// If set, then the 'DelegatedAmount' represents the amount
	// authorized by the delegate.
	Delegate ed25519.PublicKey
	/// The account's state
	State AccountState
	// If set, this is a native token, and the value logs the rent-exempt reserve.
	IsNative *uint64
	// The amount delegated
	DelegatedAmount uint64
	// Optional authority to close the account.
	CloseAuthority ed25519.PublicKey
	// Token-2022 TLV extension data following the account type byte. Nil for
	// accounts in the base layout.
	Extensions []byte
}

func (a *Account) Marshal() ([]byte, error) {
	e := binary.NewEncoder(AccountSize + 1 + len(a.Extensions)).
		Key(a.Mint).
		Key(a.Owner).
		Uint64(a.Amount).
		FixedOptionalKey(a.Delegate).
		Uint8(byte(a.State)).
		FixedOptionalUint64(a.IsNative).
		Uint64(a.DelegatedAmount).
		FixedOptionalKey(a.CloseAuthority)

	if a.Extensions != nil {
		e.Uint8(accountTypeAccount).Raw(a.Extensions)
	}
	return e.Bytes()
}

func (a *Account) Unmarshal(b []byte) (err error) {
	if len(b) < AccountSize {
		return errors.Wrapf(ErrInvalidAccountSize, "%d", len(b))
	}

	a.Extensions = nil
	if len(b) > AccountSize {
		if b[AccountSize] != accountTypeAccount {
			return errors.Errorf("invalid account type: %d", b[AccountSize])
		}
		a.Extensions = append([]byte{}, b[AccountSize+1:]...)
	}

	dec := binary.NewDecoder(b[:AccountSize])
	if a.Mint, err = dec.Key(); err != nil {
		return errors.Wrap(err, "invalid mint")
	}
	if a.Owner, err = dec.Key(); err != nil {
		return errors.Wrap(err, "invalid owner")
	}
	if a.Amount, err = dec.Uint64(); err != nil {
		return errors.Wrap(err, "invalid amount")
	}
	if a.Delegate, err = dec.FixedOptionalKey(); err != nil {
		return errors.Wrap(err, "invalid delegate")
	}
	state, err := dec.Uint8()
	if err != nil {
		return errors.Wrap(err, "invalid state")
	}
	a.State = AccountState(state)
	if a.IsNative, err = dec.FixedOptionalUint64(); err != nil {
		return errors.Wrap(err, "invalid native flag")
	}
	if a.DelegatedAmount, err = dec.Uint64(); err != nil {
		return errors.Wrap(err, "invalid delegated amount")
	}
	if a.CloseAuthority, err = dec.FixedOptionalKey(); err != nil {
		return errors.Wrap(err, "invalid close authority")
	}

	return dec.Done()
}
