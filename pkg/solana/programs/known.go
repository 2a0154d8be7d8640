package programs

import (
	"github.com/pkg/errors"

	address_lookup_table "github.com/code-payments/code-solana-sdk/pkg/solana/addresslookuptable"
	"github.com/code-payments/code-solana-sdk/pkg/solana/binary"
	sigverify "github.com/code-payments/code-solana-sdk/pkg/solana/ed25519"
	compute_budget "github.com/code-payments/code-solana-sdk/pkg/solana/computebudget"
	"github.com/code-payments/code-solana-sdk/pkg/solana/memo"
	"github.com/code-payments/code-solana-sdk/pkg/solana/system"
	"github.com/code-payments/code-solana-sdk/pkg/solana/token"
)

const (
	NameSystem                 = "system"
	NameToken                  = "spl-token"
	NameToken2022              = "spl-token-2022"
	NameAssociatedTokenAccount = "spl-associated-token-account"
	NameMemo                   = "spl-memo"
	NameMemoLegacy             = "spl-memo-legacy"
	NameComputeBudget          = "compute-budget"
	NameAddressLookupTable     = "address-lookup-table"
	NameEd25519                = "ed25519"
)

var errMissingData = errors.New("missing instruction data")

func defaultPrograms() []Program {
	return []Program{
		{
			Name:   NameSystem,
			Key:    system.ProgramKey,
			Errors: system.Errors,
			Namer:  u32Namer(func(c uint32) string { return system.Command(c).String() }),
		},
		{
			Name:   NameToken,
			Key:    token.ProgramKey,
			Errors: token.Errors,
			Namer:  u8Namer(func(c uint8) string { return token.Command(c).String() }),
		},
		{
			Name:   NameToken2022,
			Key:    token.Token2022ProgramKey,
			Errors: token.Errors,
			Namer:  u8Namer(func(c uint8) string { return token.Command(c).String() }),
		},
		{
			Name:   NameAssociatedTokenAccount,
			Key:    token.AssociatedTokenAccountProgramKey,
			Errors: token.AssociatedErrors,
			Namer:  associatedNamer,
		},
		{
			Name:  NameMemo,
			Key:   memo.ProgramKey,
			Namer: memoNamer,
		},
		{
			Name:  NameMemoLegacy,
			Key:   memo.LegacyProgramKey,
			Namer: memoNamer,
		},
		{
			Name:  NameComputeBudget,
			Key:   compute_budget.ProgramKey,
			Namer: u8Namer(func(c uint8) string { return compute_budget.Command(c).String() }),
		},
		{
			Name:  NameAddressLookupTable,
			Key:   address_lookup_table.ProgramKey,
			Namer: u32Namer(func(c uint32) string { return address_lookup_table.Command(c).String() }),
		},
		{
			Name:   NameEd25519,
			Key:    sigverify.ProgramKey,
			Errors: sigverify.Errors,
			Namer:  verifyNamer,
		},
	}
}

func u8Namer(name func(uint8) string) InstructionNamer {
	return func(data []byte) (string, error) {
		c, err := binary.NewDecoder(data).Uint8()
		if err != nil {
			return "", errMissingData
		}
		return name(c), nil
	}
}

func u32Namer(name func(uint32) string) InstructionNamer {
	return func(data []byte) (string, error) {
		c, err := binary.NewDecoder(data).Uint32()
		if err != nil {
			return "", errMissingData
		}
		return name(c), nil
	}
}

// Create predates the discriminator, so it may be sent without data.
func associatedNamer(data []byte) (string, error) {
	if len(data) == 0 {
		return token.AssociatedCommandCreate.String(), nil
	}
	return token.AssociatedCommand(data[0]).String(), nil
}

func memoNamer([]byte) (string, error) {
	return "Memo", nil
}

func verifyNamer([]byte) (string, error) {
	return "Verify", nil
}
