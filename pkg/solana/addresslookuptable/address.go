package address_lookup_table

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/code-payments/code-solana-sdk/pkg/solana"
)

// DeriveAddress returns the lookup table address created by authority at
// recentSlot, along with its bump seed.
func DeriveAddress(authority ed25519.PublicKey, recentSlot uint64) (solana.ProgramDerivedAddress, error) {
	var recentSlotBytes [8]byte
	binary.LittleEndian.PutUint64(recentSlotBytes[:], recentSlot)

	return solana.DeriveAddress(
		ProgramKey,
		authority,
		recentSlotBytes[:],
	)
}

func GetAddress(authority ed25519.PublicKey, recentSlot uint64) (ed25519.PublicKey, uint8, error) {
	pda, err := DeriveAddress(authority, recentSlot)
	if err != nil {
		return nil, 0, err
	}
	return pda.Address, pda.Bump, nil
}
