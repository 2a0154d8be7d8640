package token

import (
	"bytes"
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-solana-sdk/pkg/solana"
	"github.com/code-payments/code-solana-sdk/pkg/solana/system"
)

func TestGetAssociatedAccount(t *testing.T) {
	// Values generated from taken from spl code.
	wallet, err := base58.Decode("4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWCJziofM")
	require.NoError(t, err)
	mint, err := base58.Decode("8opHzTAnfzRpPEx21XtnrVTX28YQuCpAjcn1PczScKh")
	require.NoError(t, err)
	addr, err := base58.Decode("H7MQwEzt97tUJryocn3qaEoy2ymWstwyEk1i9Yv3EmuZ")
	require.NoError(t, err)

	actual, err := GetAssociatedAccount(wallet, mint)
	require.NoError(t, err)
	assert.EqualValues(t, addr, actual)

	pda, err := DeriveAssociatedAccount(wallet, mint, ProgramKey)
	require.NoError(t, err)
	assert.EqualValues(t, addr, pda.Address)
	assert.EqualValues(t, 255, pda.Bump)

	actual, err = GetAssociatedAccountWithProgram(wallet, mint, Token2022ProgramKey)
	require.NoError(t, err)
	assert.Equal(t, "GgE1rq4ADpizGra5cPqLaHe79udKuKXK1cWD7qg7uV8w", base58.Encode(actual))
}

func TestGetAssociatedAccount_Deterministic(t *testing.T) {
	wallet1 := ed25519.PublicKey(bytes.Repeat([]byte{1}, 32))
	wallet2 := ed25519.PublicKey(bytes.Repeat([]byte{2}, 32))
	mint := ed25519.PublicKey(bytes.Repeat([]byte{2}, 32))

	first, err := DeriveAssociatedAccount(wallet1, mint, ProgramKey)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := DeriveAssociatedAccount(wallet1, mint, ProgramKey)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, "CsYkfSfTUTWwnoeRkGchtai5kkYz2SC33kKJwA99wVr3", base58.Encode(first.Address))
	assert.EqualValues(t, 255, first.Bump)
	assert.False(t, solana.IsOnCurve(first.Address))

	other, err := DeriveAssociatedAccount(wallet2, mint, ProgramKey)
	require.NoError(t, err)
	assert.NotEqual(t, first.Address, other.Address)
	assert.Equal(t, "ABdX8MiN8T6Eu8sbqiynJVb62DDUhpuijc7nLH1ryEL7", base58.Encode(other.Address))

	custom, err := DeriveAssociatedAccount(wallet1, mint, Token2022ProgramKey)
	require.NoError(t, err)
	assert.Equal(t, "DyaUQ3JTcmWApDibKtBvxLBhUPjvA4KEM99t45qz3bfh", base58.Encode(custom.Address))
	assert.EqualValues(t, 254, custom.Bump)
}

func TestCreateAssociatedAccount(t *testing.T) {
	keys := generateKeys(t, 3)

	expectedAddr, err := GetAssociatedAccount(keys[1], keys[2])
	require.NoError(t, err)

	instruction, addr, err := CreateAssociatedTokenAccount(keys[0], keys[1], keys[2])
	require.NoError(t, err)
	assert.Equal(t, expectedAddr, addr)
	assert.Equal(t, AssociatedTokenAccountProgramKey, instruction.Program)

	assert.Equal(t, []byte{byte(AssociatedCommandCreate)}, instruction.Data)
	require.Len(t, instruction.Accounts, 6)
	assert.True(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.False(t, instruction.Accounts[1].IsSigner)
	assert.True(t, instruction.Accounts[1].IsWritable)
	for i := 2; i < len(instruction.Accounts); i++ {
		assert.False(t, instruction.Accounts[i].IsSigner)
		assert.False(t, instruction.Accounts[i].IsWritable)
	}

	assert.EqualValues(t, keys[0], instruction.Accounts[0].PublicKey)
	assert.EqualValues(t, addr, instruction.Accounts[1].PublicKey)
	assert.EqualValues(t, keys[1], instruction.Accounts[2].PublicKey)
	assert.EqualValues(t, keys[2], instruction.Accounts[3].PublicKey)
	assert.EqualValues(t, system.ProgramKey, instruction.Accounts[4].PublicKey)
	assert.EqualValues(t, ProgramKey, instruction.Accounts[5].PublicKey)

	decompiled, err := DecompileCreateAssociatedAccount(instruction)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Subsidizer)
	assert.Equal(t, addr, decompiled.Address)
	assert.Equal(t, keys[1], decompiled.Owner)
	assert.Equal(t, keys[2], decompiled.Mint)
	assert.Equal(t, ProgramKey, decompiled.TokenProgram)
	assert.False(t, decompiled.Idempotent)

	// Older clients send no data at all.
	instruction.Data = nil
	decompiled, err = DecompileCreateAssociatedAccount(instruction)
	require.NoError(t, err)
	assert.False(t, decompiled.Idempotent)
}

func TestCreateAssociatedAccountIdempotent(t *testing.T) {
	keys := generateKeys(t, 3)

	create, _, err := CreateAssociatedTokenAccount(keys[0], keys[1], keys[2])
	require.NoError(t, err)
	idempotent, addr, err := CreateAssociatedTokenAccountIdempotent(keys[0], keys[1], keys[2])
	require.NoError(t, err)

	// Only the discriminator differs.
	assert.Equal(t, create.Program, idempotent.Program)
	assert.Equal(t, create.Accounts, idempotent.Accounts)
	assert.Equal(t, []byte{0}, create.Data)
	assert.Equal(t, []byte{1}, idempotent.Data)

	decompiled, err := DecompileCreateAssociatedAccount(idempotent)
	require.NoError(t, err)
	assert.True(t, decompiled.Idempotent)
	assert.Equal(t, addr, decompiled.Address)
}

func TestCreateAssociatedAccountWithProgram(t *testing.T) {
	keys := generateKeys(t, 3)

	legacy, legacyAddr, err := CreateAssociatedTokenAccountIdempotent(keys[0], keys[1], keys[2])
	require.NoError(t, err)
	custom, customAddr, err := CreateAssociatedTokenAccountIdempotentWithProgram(keys[0], keys[1], keys[2], Token2022ProgramKey)
	require.NoError(t, err)

	expected, err := GetAssociatedAccountWithProgram(keys[1], keys[2], Token2022ProgramKey)
	require.NoError(t, err)
	assert.Equal(t, expected, customAddr)
	assert.NotEqual(t, legacyAddr, customAddr)

	assert.Equal(t, legacy.Program, custom.Program)
	assert.Equal(t, legacy.Data, custom.Data)
	require.Len(t, custom.Accounts, len(legacy.Accounts))
	for i := range legacy.Accounts {
		switch i {
		case 1:
			assert.Equal(t, customAddr, custom.Accounts[i].PublicKey)
		case 5:
			assert.Equal(t, Token2022ProgramKey, custom.Accounts[i].PublicKey)
		default:
			assert.Equal(t, legacy.Accounts[i], custom.Accounts[i])
		}
		assert.Equal(t, legacy.Accounts[i].IsSigner, custom.Accounts[i].IsSigner)
		assert.Equal(t, legacy.Accounts[i].IsWritable, custom.Accounts[i].IsWritable)
	}

	create, _, err := CreateAssociatedTokenAccountWithProgram(keys[0], keys[1], keys[2], Token2022ProgramKey)
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, create.Data)

	decompiled, err := DecompileCreateAssociatedAccount(custom)
	require.NoError(t, err)
	assert.Equal(t, Token2022ProgramKey, decompiled.TokenProgram)
	assert.True(t, decompiled.Idempotent)
}

func TestDecompileCreateAssociatedAccount_Invalid(t *testing.T) {
	keys := generateKeys(t, 4)

	instruction, _, err := CreateAssociatedTokenAccount(keys[0], keys[1], keys[2])
	require.NoError(t, err)

	bad := instruction
	bad.Data = []byte{byte(AssociatedCommandRecoverNested)}
	_, err = DecompileCreateAssociatedAccount(bad)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	bad = instruction
	bad.Program = keys[3]
	_, err = DecompileCreateAssociatedAccount(bad)
	assert.Equal(t, solana.ErrIncorrectProgram, err)

	bad = instruction
	bad.Accounts = instruction.Accounts[:5]
	_, err = DecompileCreateAssociatedAccount(bad)
	assert.Error(t, err)

	bad = solana.NewInstruction(instruction.Program, instruction.Data, append([]solana.AccountMeta{}, instruction.Accounts...)...)
	bad.Accounts[1].PublicKey = keys[3]
	_, err = DecompileCreateAssociatedAccount(bad)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "address mismatch")
}

func TestRecoverNestedAssociatedTokenAccount(t *testing.T) {
	keys := generateKeys(t, 3)
	wallet, ownerMint, nestedMint := keys[0], keys[1], keys[2]

	instruction, err := RecoverNestedAssociatedTokenAccount(wallet, ownerMint, nestedMint)
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(AssociatedCommandRecoverNested)}, instruction.Data)
	require.Len(t, instruction.Accounts, 7)

	ownerAccount, err := GetAssociatedAccount(wallet, ownerMint)
	require.NoError(t, err)
	destination, err := GetAssociatedAccount(wallet, nestedMint)
	require.NoError(t, err)
	nested, err := GetAssociatedAccount(ownerAccount, nestedMint)
	require.NoError(t, err)

	expected := []solana.AccountMeta{
		solana.NewAccountMeta(nested, false),
		solana.NewReadonlyAccountMeta(nestedMint, false),
		solana.NewAccountMeta(destination, false),
		solana.NewReadonlyAccountMeta(ownerAccount, false),
		solana.NewReadonlyAccountMeta(ownerMint, false),
		solana.NewAccountMeta(wallet, true),
		solana.NewReadonlyAccountMeta(ProgramKey, false),
	}
	assert.Equal(t, expected, instruction.Accounts)

	custom, err := RecoverNestedAssociatedTokenAccountWithProgram(wallet, ownerMint, nestedMint, Token2022ProgramKey)
	require.NoError(t, err)
	assert.Equal(t, Token2022ProgramKey, custom.Accounts[6].PublicKey)
	assert.NotEqual(t, instruction.Accounts[0].PublicKey, custom.Accounts[0].PublicKey)
}

func TestAssociatedErrors(t *testing.T) {
	e, ok := AssociatedErrors.FromCode(0)
	require.True(t, ok)
	assert.Equal(t, AssociatedErrorInvalidOwner, e)
	assert.Equal(t, "InvalidOwner", AssociatedErrors.Name(e))

	_, ok = AssociatedErrors.FromCode(1)
	assert.False(t, ok)
}
