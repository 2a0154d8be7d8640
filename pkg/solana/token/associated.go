package token

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/code-solana-sdk/pkg/solana"
	"github.com/code-payments/code-solana-sdk/pkg/solana/system"
)

// AssociatedTokenAccountProgramKey  is the address of the associated token account program that should be used.
//
// Current key: ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL
var AssociatedTokenAccountProgramKey = ed25519.PublicKey{140, 151, 37, 143, 78, 36, 137, 241, 187, 61, 16, 41, 20, 142, 13, 131, 11, 90, 19, 153, 218, 255, 16, 132, 4, 142, 123, 216, 219, 233, 248, 89}

type AssociatedCommand byte

const (
	AssociatedCommandCreate AssociatedCommand = iota
	AssociatedCommandCreateIdempotent
	AssociatedCommandRecoverNested
)

func (c AssociatedCommand) String() string {
	switch c {
	case AssociatedCommandCreate:
		return "Create"
	case AssociatedCommandCreateIdempotent:
		return "CreateIdempotent"
	case AssociatedCommandRecoverNested:
		return "RecoverNested"
	default:
		return "Unknown"
	}
}

const (
	AssociatedErrorInvalidOwner solana.CustomError = iota
)

// AssociatedErrors is the catalog of associated token account program errors.
var AssociatedErrors = solana.NewErrorCatalog(
	"spl-associated-token-account",
	solana.ErrorDefinition{
		Code:    AssociatedErrorInvalidOwner,
		Name:    "InvalidOwner",
		Message: "Associated token account owner does not match address derivation",
	},
)

// DeriveAssociatedAccount derives the associated account of wallet for mint,
// owned by tokenProgram.
//
// Reference: https://spl.solana.com/associated-token-account#finding-the-associated-token-account-address
func DeriveAssociatedAccount(wallet, mint, tokenProgram ed25519.PublicKey) (solana.ProgramDerivedAddress, error) {
	return solana.DeriveAddress(
		AssociatedTokenAccountProgramKey,
		wallet,
		tokenProgram,
		mint,
	)
}

// GetAssociatedAccount returns the associated account address for an SPL token.
func GetAssociatedAccount(wallet, mint ed25519.PublicKey) (ed25519.PublicKey, error) {
	return GetAssociatedAccountWithProgram(wallet, mint, ProgramKey)
}

// GetAssociatedAccountWithProgram returns the associated account address for
// a mint owned by tokenProgram.
func GetAssociatedAccountWithProgram(wallet, mint, tokenProgram ed25519.PublicKey) (ed25519.PublicKey, error) {
	pda, err := DeriveAssociatedAccount(wallet, mint, tokenProgram)
	if err != nil {
		return nil, err
	}
	return pda.Address, nil
}

// CreateAssociatedTokenAccount returns an instruction that creates the
// associated account of wallet, failing if it already exists.
//
//	0. `[writeable,signer]` Funding account (must be a system account)
//	1. `[writeable]` Associated token account address to be created
//	2. `[]` Wallet address for the new associated token account
//	3. `[]` The token mint for the new associated token account
//	4. `[]` System program
//	5. `[]` SPL Token program
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/master/associated-token-account/program/src/instruction.rs
func CreateAssociatedTokenAccount(subsidizer, wallet, mint ed25519.PublicKey) (solana.Instruction, ed25519.PublicKey, error) {
	return createAssociated(AssociatedCommandCreate, subsidizer, wallet, mint, ProgramKey)
}

// CreateAssociatedTokenAccountIdempotent is CreateAssociatedTokenAccount, but
// succeeds if the account already exists with the expected owner.
func CreateAssociatedTokenAccountIdempotent(subsidizer, wallet, mint ed25519.PublicKey) (solana.Instruction, ed25519.PublicKey, error) {
	return createAssociated(AssociatedCommandCreateIdempotent, subsidizer, wallet, mint, ProgramKey)
}

func CreateAssociatedTokenAccountWithProgram(subsidizer, wallet, mint, tokenProgram ed25519.PublicKey) (solana.Instruction, ed25519.PublicKey, error) {
	return createAssociated(AssociatedCommandCreate, subsidizer, wallet, mint, tokenProgram)
}

func CreateAssociatedTokenAccountIdempotentWithProgram(subsidizer, wallet, mint, tokenProgram ed25519.PublicKey) (solana.Instruction, ed25519.PublicKey, error) {
	return createAssociated(AssociatedCommandCreateIdempotent, subsidizer, wallet, mint, tokenProgram)
}

func createAssociated(cmd AssociatedCommand, subsidizer, wallet, mint, tokenProgram ed25519.PublicKey) (solana.Instruction, ed25519.PublicKey, error) {
	addr, err := GetAssociatedAccountWithProgram(wallet, mint, tokenProgram)
	if err != nil {
		return solana.Instruction{}, nil, err
	}

	return solana.NewInstruction(
		AssociatedTokenAccountProgramKey,
		[]byte{byte(cmd)},
		solana.NewAccountMeta(subsidizer, true),
		solana.NewAccountMeta(addr, false),
		solana.NewReadonlyAccountMeta(wallet, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey, false),
		solana.NewReadonlyAccountMeta(tokenProgram, false),
	), addr, nil
}

// RecoverNestedAssociatedTokenAccount transfers tokens out of an associated
// account that is itself owned by one of wallet's associated accounts, and
// closes it.
//
//	0. `[writeable]` Nested associated token account, must be owned by `3`
//	1. `[]` Token mint for the nested associated token account
//	2. `[writeable]` Wallet's associated token account
//	3. `[]` Owner associated token account address, must be owned by `5`
//	4. `[]` Token mint for the owner associated token account
//	5. `[writeable, signer]` Wallet address for the owner associated token account
//	6. `[]` SPL Token program
func RecoverNestedAssociatedTokenAccount(wallet, ownerMint, nestedMint ed25519.PublicKey) (solana.Instruction, error) {
	return RecoverNestedAssociatedTokenAccountWithProgram(wallet, ownerMint, nestedMint, ProgramKey)
}

func RecoverNestedAssociatedTokenAccountWithProgram(wallet, ownerMint, nestedMint, tokenProgram ed25519.PublicKey) (solana.Instruction, error) {
	ownerAccount, err := GetAssociatedAccountWithProgram(wallet, ownerMint, tokenProgram)
	if err != nil {
		return solana.Instruction{}, errors.Wrap(err, "failed to derive owner associated account")
	}
	destination, err := GetAssociatedAccountWithProgram(wallet, nestedMint, tokenProgram)
	if err != nil {
		return solana.Instruction{}, errors.Wrap(err, "failed to derive destination associated account")
	}
	nested, err := GetAssociatedAccountWithProgram(ownerAccount, nestedMint, tokenProgram)
	if err != nil {
		return solana.Instruction{}, errors.Wrap(err, "failed to derive nested associated account")
	}

	return solana.NewInstruction(
		AssociatedTokenAccountProgramKey,
		[]byte{byte(AssociatedCommandRecoverNested)},
		solana.NewAccountMeta(nested, false),
		solana.NewReadonlyAccountMeta(nestedMint, false),
		solana.NewAccountMeta(destination, false),
		solana.NewReadonlyAccountMeta(ownerAccount, false),
		solana.NewReadonlyAccountMeta(ownerMint, false),
		solana.NewAccountMeta(wallet, true),
		solana.NewReadonlyAccountMeta(tokenProgram, false),
	), nil
}

type DecompiledCreateAssociatedAccount struct {
	Subsidizer   ed25519.PublicKey
	Address      ed25519.PublicKey
	Owner        ed25519.PublicKey
	Mint         ed25519.PublicKey
	TokenProgram ed25519.PublicKey
	Idempotent   bool
}

// DecompileCreateAssociatedAccount decompiles either create instruction. An
// empty data field is treated as Create, which is how older clients encode it.
func DecompileCreateAssociatedAccount(ix solana.Instruction) (*DecompiledCreateAssociatedAccount, error) {
	if !bytes.Equal(ix.Program, AssociatedTokenAccountProgramKey) {
		return nil, solana.ErrIncorrectProgram
	}

	var idempotent bool
	switch {
	case len(ix.Data) == 0:
	case len(ix.Data) == 1 && ix.Data[0] == byte(AssociatedCommandCreate):
	case len(ix.Data) == 1 && ix.Data[0] == byte(AssociatedCommandCreateIdempotent):
		idempotent = true
	default:
		return nil, solana.ErrIncorrectInstruction
	}

	if len(ix.Accounts) != 6 {
		return nil, errors.Errorf("invalid number of accounts: %d (expected %d)", len(ix.Accounts), 6)
	}
	if !bytes.Equal(ix.Accounts[4].PublicKey, system.ProgramKey) {
		return nil, errors.Errorf("system program key mismatch")
	}

	decompiled := &DecompiledCreateAssociatedAccount{
		Subsidizer:   ix.Accounts[0].PublicKey,
		Address:      ix.Accounts[1].PublicKey,
		Owner:        ix.Accounts[2].PublicKey,
		Mint:         ix.Accounts[3].PublicKey,
		TokenProgram: ix.Accounts[5].PublicKey,
		Idempotent:   idempotent,
	}

	expected, err := GetAssociatedAccountWithProgram(decompiled.Owner, decompiled.Mint, decompiled.TokenProgram)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive associated account")
	}
	if !bytes.Equal(expected, decompiled.Address) {
		return nil, errors.Errorf("associated account address mismatch")
	}

	return decompiled, nil
}
