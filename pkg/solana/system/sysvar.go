package system

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58/base58"
)

// ClockSysVar points to the system variable "Clock"
var ClockSysVar ed25519.PublicKey

// RentSysVar points to the system variable "Rent"
//
// Source: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/sysvar/rent.rs#L11
var RentSysVar ed25519.PublicKey

// RecentBlockhashesSysVar points to the system variable "Recent Blockhashes"
//
// Source: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/sysvar/recent_blockhashes.rs#L12-L15
var RecentBlockhashesSysVar ed25519.PublicKey

// InstructionsSysVar points to the system variable "Instructions", which
// exposes the instructions of the executing transaction.
var InstructionsSysVar ed25519.PublicKey

func init() {
	for _, sysvar := range []struct {
		dst     *ed25519.PublicKey
		encoded string
	}{
		{&ClockSysVar, "SysvarC1ock11111111111111111111111111111111"},
		{&RentSysVar, "SysvarRent111111111111111111111111111111111"},
		{&RecentBlockhashesSysVar, "SysvarRecentB1ockHashes11111111111111111111"},
		{&InstructionsSysVar, "Sysvar1nstructions1111111111111111111111111"},
	} {
		decoded, err := base58.Decode(sysvar.encoded)
		if err != nil {
			panic(err)
		}
		if len(decoded) != ed25519.PublicKeySize {
			panic("invalid sysvar key: " + sysvar.encoded)
		}
		*sysvar.dst = decoded
	}
}
