package address_lookup_table

import (
	"crypto/ed25519"
	"fmt"
	"math"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/code-solana-sdk/pkg/solana/binary"
)

var (
	ErrInvalidAccountSize = errors.New("invalid address lookup table account size")
	ErrInvalidAccountType = errors.New("invalid account type")
)

const (
	altDescriminator = 1

	metadataSize = 56
	maxAddresses = 256

	// ActiveSlot is the deactivation slot of a table that was never
	// deactivated.
	ActiveSlot = math.MaxUint64
)

// AddressLookupTableAccount is the state of an initialized lookup table.
//
// Reference: https://github.com/solana-program/address-lookup-table/blob/main/program/src/state.rs
type AddressLookupTableAccount struct {
	DeactivationSlot           uint64
	LastExtendedSlot           uint64
	LastExtendedSlotStartIndex uint8
	// Authority is nil once the table is frozen.
	Authority ed25519.PublicKey
	Addresses []ed25519.PublicKey
}

func (obj *AddressLookupTableAccount) IsActive() bool {
	return obj.DeactivationSlot == ActiveSlot
}

func (obj *AddressLookupTableAccount) IsFrozen() bool {
	return obj.Authority == nil
}

func (obj AddressLookupTableAccount) Marshal() ([]byte, error) {
	if len(obj.Addresses) > maxAddresses {
		return nil, ErrInvalidAccountSize
	}

	meta, err := binary.NewEncoder(metadataSize).
		Uint32(altDescriminator).
		Uint64(obj.DeactivationSlot).
		Uint64(obj.LastExtendedSlot).
		Uint8(obj.LastExtendedSlotStartIndex).
		OptionalKey(obj.Authority).
		Bytes()
	if err != nil {
		return nil, err
	}

	e := binary.NewEncoder(metadataSize + len(obj.Addresses)*ed25519.PublicKeySize).
		Raw(meta).
		Raw(make([]byte, metadataSize-len(meta)))
	for _, address := range obj.Addresses {
		e.Key(address)
	}
	return e.Bytes()
}

func (obj *AddressLookupTableAccount) Unmarshal(data []byte) (err error) {
	if len(data) < metadataSize {
		return ErrInvalidAccountSize
	}

	addressBufferSize := len(data) - metadataSize
	addressCount := addressBufferSize / ed25519.PublicKeySize
	if addressBufferSize%ed25519.PublicKeySize != 0 {
		return ErrInvalidAccountSize
	} else if addressCount > maxAddresses {
		return ErrInvalidAccountSize
	}

	meta := binary.NewDecoder(data[:metadataSize])

	descriminator, err := meta.Uint32()
	if err != nil {
		return err
	}
	if descriminator != altDescriminator {
		return ErrInvalidAccountType
	}

	if obj.DeactivationSlot, err = meta.Uint64(); err != nil {
		return err
	}
	if obj.LastExtendedSlot, err = meta.Uint64(); err != nil {
		return err
	}
	if obj.LastExtendedSlotStartIndex, err = meta.Uint8(); err != nil {
		return err
	}
	if obj.Authority, err = meta.OptionalKey(); err != nil {
		return err
	}

	addresses := binary.NewDecoder(data[metadataSize:])
	obj.Addresses = make([]ed25519.PublicKey, addressCount)
	for i := range obj.Addresses {
		if obj.Addresses[i], err = addresses.Key(); err != nil {
			return err
		}
	}

	return nil
}

func (obj *AddressLookupTableAccount) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, address := range obj.Addresses {
		fmt.Fprintf(&sb, "%d:%s,", i, base58.Encode(address))
	}
	sb.WriteString("}")

	return fmt.Sprintf(
		"AddressLookupTable{deactivation_slot=%d,last_extended_slot=%d,last_extended_slot_start_index=%d,authority=%s,addresses=%s}",
		obj.DeactivationSlot,
		obj.LastExtendedSlot,
		obj.LastExtendedSlotStartIndex,
		base58.Encode(obj.Authority),
		sb.String(),
	)
}
