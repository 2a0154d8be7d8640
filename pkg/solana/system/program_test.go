package system

import (
	"crypto/ed25519"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/mr-tron/base58/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-solana-sdk/pkg/solana"
	solbin "github.com/code-payments/code-solana-sdk/pkg/solana/binary"
)

func TestProgramKey(t *testing.T) {
	assert.Equal(t, "11111111111111111111111111111111", base58.Encode(ProgramKey))
	assert.Equal(t, "SysvarRent111111111111111111111111111111111", base58.Encode(RentSysVar))
	assert.Equal(t, "SysvarRecentB1ockHashes11111111111111111111", base58.Encode(RecentBlockhashesSysVar))
	assert.Equal(t, "SysvarC1ock11111111111111111111111111111111", base58.Encode(ClockSysVar))
	assert.Equal(t, "Sysvar1nstructions1111111111111111111111111", base58.Encode(InstructionsSysVar))
}

func TestCreateAccount(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction, err := CreateAccount(keys[0], keys[1], keys[2], 12345, 67890)
	require.NoError(t, err)

	command := make([]byte, 4)
	lamports := make([]byte, 8)
	binary.LittleEndian.PutUint64(lamports, 12345)
	size := make([]byte, 8)
	binary.LittleEndian.PutUint64(size, 67890)

	require.Len(t, instruction.Data, 52)
	assert.Equal(t, command, instruction.Data[0:4])
	assert.Equal(t, lamports, instruction.Data[4:12])
	assert.Equal(t, size, instruction.Data[12:20])
	assert.Equal(t, []byte(keys[2]), instruction.Data[20:52])

	require.Len(t, instruction.Accounts, 2)
	for _, a := range instruction.Accounts {
		assert.True(t, a.IsSigner)
		assert.True(t, a.IsWritable)
	}

	decompiled, err := DecompileCreateAccount(instruction)
	require.NoError(t, err)
	assert.Equal(t, decompiled.Funder, keys[0])
	assert.Equal(t, decompiled.Address, keys[1])
	assert.Equal(t, decompiled.Owner, keys[2])
	assert.EqualValues(t, decompiled.Lamports, 12345)
	assert.EqualValues(t, decompiled.Size, 67890)
}

func TestDecompileNonCreate(t *testing.T) {
	keys := generateKeys(t, 4)

	instruction, err := CreateAccount(keys[0], keys[1], keys[2], 12345, 67890)
	require.NoError(t, err)

	instruction.Accounts = instruction.Accounts[:1]
	_, err = DecompileCreateAccount(instruction)
	assert.NotNil(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid number of accounts"), err)

	binary.BigEndian.PutUint32(instruction.Data, uint32(CommandAllocate))
	_, err = DecompileCreateAccount(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	binary.LittleEndian.PutUint32(instruction.Data, uint32(CommandAllocate))
	_, err = DecompileCreateAccount(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Data = make([]byte, 3)
	_, err = DecompileCreateAccount(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Program = keys[3]
	_, err = DecompileCreateAccount(instruction)
	assert.Equal(t, solana.ErrIncorrectProgram, err)
}

func TestTransfer(t *testing.T) {
	keys := generateKeys(t, 2)

	instruction, err := Transfer(keys[0], keys[1], 1_000_000)
	require.NoError(t, err)
	assert.EqualValues(t, ProgramKey, instruction.Program)
	assert.Equal(t, []byte{2, 0, 0, 0, 0x40, 0x42, 0x0f, 0, 0, 0, 0, 0}, instruction.Data)

	require.Len(t, instruction.Accounts, 2)
	assert.True(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.False(t, instruction.Accounts[1].IsSigner)
	assert.True(t, instruction.Accounts[1].IsWritable)

	decompiled, err := DecompileTransfer(instruction)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.From)
	assert.Equal(t, keys[1], decompiled.To)
	assert.EqualValues(t, 1_000_000, decompiled.Lamports)

	_, err = DecompileCreateAccount(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)
}

func TestAdvanceNonceAccount(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction, err := AdvanceNonce(keys[0], keys[1])
	require.NoError(t, err)

	command := make([]byte, 4)
	binary.LittleEndian.PutUint32(command, uint32(CommandAdvanceNonceAccount))
	assert.EqualValues(t, command, instruction.Data)
	assert.EqualValues(t, ProgramKey, instruction.Program)

	require.Len(t, instruction.Accounts, 3)

	assert.EqualValues(t, keys[0], instruction.Accounts[0].PublicKey)
	assert.False(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)

	assert.EqualValues(t, RecentBlockhashesSysVar, instruction.Accounts[1].PublicKey)
	assert.False(t, instruction.Accounts[1].IsSigner)
	assert.False(t, instruction.Accounts[1].IsWritable)

	assert.EqualValues(t, keys[1], instruction.Accounts[2].PublicKey)
	assert.True(t, instruction.Accounts[2].IsSigner)

	decompiled, err := DecompileAdvanceNonce(instruction)
	assert.NoError(t, err)
	assert.EqualValues(t, keys[0], decompiled.Nonce)
	assert.EqualValues(t, keys[1], decompiled.Authority)

	instruction.Accounts[1].PublicKey = keys[2]
	_, err = DecompileAdvanceNonce(instruction)
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid RecentBlockhashesSysVar"))

	instruction.Accounts = instruction.Accounts[:1]
	_, err = DecompileAdvanceNonce(instruction)
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid number of accounts"))

	binary.LittleEndian.PutUint32(instruction.Data, uint32(CommandCreateAccount))
	_, err = DecompileAdvanceNonce(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Data = nil
	_, err = DecompileAdvanceNonce(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Program = keys[2]
	_, err = DecompileAdvanceNonce(instruction)
	assert.Equal(t, solana.ErrIncorrectProgram, err)
}

func TestWithdrawNonce(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction, err := WithdrawNonce(keys[0], keys[1], keys[2], 42)
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 0, 0, 0, 42, 0, 0, 0, 0, 0, 0, 0}, instruction.Data)
	require.Len(t, instruction.Accounts, 5)
	assert.True(t, instruction.Accounts[4].IsSigner)
	assert.False(t, instruction.Accounts[4].IsWritable)

	decompiled, err := DecompileWithdrawNonce(instruction)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Nonce)
	assert.Equal(t, keys[1], decompiled.Authority)
	assert.Equal(t, keys[2], decompiled.Recipient)
	assert.EqualValues(t, 42, decompiled.Amount)
}

func TestCreateAccountWithSeed(t *testing.T) {
	keys := generateKeys(t, 3)

	address, err := solana.CreateWithSeed(keys[0], "vault", keys[2])
	require.NoError(t, err)

	// Base is the funder, so it is not repeated.
	instruction, err := CreateAccountWithSeed(keys[0], address, keys[0], "vault", 10, 20, keys[2])
	require.NoError(t, err)
	require.Len(t, instruction.Accounts, 2)
	assert.False(t, instruction.Accounts[1].IsSigner)

	expected := []byte{3, 0, 0, 0}
	expected = append(expected, keys[0]...)
	expected = append(expected, 5, 0, 0, 0, 0, 0, 0, 0)
	expected = append(expected, "vault"...)
	expected = append(expected, 10, 0, 0, 0, 0, 0, 0, 0)
	expected = append(expected, 20, 0, 0, 0, 0, 0, 0, 0)
	expected = append(expected, keys[2]...)
	assert.Equal(t, expected, instruction.Data)

	instruction, err = CreateAccountWithSeed(keys[0], address, keys[1], "vault", 10, 20, keys[2])
	require.NoError(t, err)
	require.Len(t, instruction.Accounts, 3)
	assert.Equal(t, keys[1], instruction.Accounts[2].PublicKey)
	assert.True(t, instruction.Accounts[2].IsSigner)
	assert.False(t, instruction.Accounts[2].IsWritable)
}

func TestInstructionData_RoundTrip(t *testing.T) {
	keys := generateKeys(t, 4)
	must := func(ix solana.Instruction, err error) solana.Instruction {
		require.NoError(t, err)
		return ix
	}

	for _, instruction := range []solana.Instruction{
		must(CreateAccount(keys[0], keys[1], keys[2], 1, 2)),
		must(Assign(keys[0], keys[1])),
		must(Transfer(keys[0], keys[1], 3)),
		must(CreateAccountWithSeed(keys[0], keys[1], keys[2], "seed", 4, 5, keys[3])),
		must(AdvanceNonce(keys[0], keys[1])),
		must(WithdrawNonce(keys[0], keys[1], keys[2], 6)),
		must(InitializeNonce(keys[0], keys[1])),
		must(AuthorizeNonce(keys[0], keys[1], keys[2])),
		must(Allocate(keys[0], 7)),
		must(AllocateWithSeed(keys[0], keys[1], "seed", 8, keys[2])),
		must(AssignWithSeed(keys[0], keys[1], "seed", keys[2])),
		must(TransferWithSeed(keys[0], keys[1], "seed", keys[2], keys[3], 9)),
		must(UpgradeNonce(keys[0])),
	} {
		parsed, err := ParseInstructionData(instruction.Data)
		require.NoError(t, err)
		assert.EqualValues(t, binary.LittleEndian.Uint32(instruction.Data), parsed.Command)

		encoded, err := parsed.Marshal()
		require.NoError(t, err)
		assert.Equal(t, instruction.Data, encoded, parsed.Command.String())
	}

	parsed, err := ParseInstructionData(must(TransferWithSeed(keys[0], keys[1], "from", keys[2], keys[3], 9)).Data)
	require.NoError(t, err)
	assert.Equal(t, CommandTransferWithSeed, parsed.Command)
	assert.EqualValues(t, 9, parsed.Lamports)
	assert.Equal(t, "from", parsed.Seed)
	assert.Equal(t, keys[2], parsed.Owner)

	_, err = ParseInstructionData(append(must(Transfer(keys[0], keys[1], 3)).Data, 0))
	assert.Error(t, err)

	_, err = ParseInstructionData([]byte{13, 0, 0, 0})
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	_, err = InstructionData{Command: 13}.Marshal()
	assert.Error(t, err)
}

func TestBuilders_InvalidKeys(t *testing.T) {
	keys := generateKeys(t, 3)

	_, err := CreateAccount(keys[0], keys[1], nil, 1, 2)
	assert.ErrorIs(t, err, solbin.ErrInvalidKey)
	assert.Contains(t, err.Error(), "invalid CreateAccount instruction")
	_, err = Assign(keys[0], keys[1][:31])
	assert.ErrorIs(t, err, solbin.ErrInvalidKey)
	_, err = InitializeNonce(keys[0], []byte{1, 2, 3})
	assert.ErrorIs(t, err, solbin.ErrInvalidKey)
	_, err = AllocateWithSeed(keys[0], nil, "seed", 8, keys[2])
	assert.ErrorIs(t, err, solbin.ErrInvalidKey)

	_, err = Transfer(keys[0], nil, 1)
	assert.ErrorIs(t, err, solana.ErrInvalidAccountKey)
	_, err = AdvanceNonce(keys[0][:16], keys[1])
	assert.ErrorIs(t, err, solana.ErrInvalidAccountKey)
	_, err = UpgradeNonce(nil)
	assert.ErrorIs(t, err, solana.ErrInvalidAccountKey)
	_, err = Allocate(append(keys[0], 0), 7)
	assert.ErrorIs(t, err, solana.ErrInvalidAccountKey)
}

func TestNonceAccount(t *testing.T) {
	keys := generateKeys(t, 2)

	account := NonceAccount{
		Version:       uint32(NonceVersion1),
		State:         1,
		Authority:     keys[0],
		Blockhash:     keys[1],
		FeeCalculator: FeeCalculator{LamportsPerSignature: 5000},
	}
	data, err := account.Marshal()
	require.NoError(t, err)
	require.Len(t, data, NonceAccountSize)

	// (4)     u32: version
	// (4)     u32: state
	// (32) pubKey: authority
	// (32) pubkey: blockhash/value
	assert.Equal(t, []byte(keys[1]), data[4+4+32:4+4+64])

	var actual NonceAccount
	require.NoError(t, actual.Unmarshal(data))
	assert.Equal(t, account, actual)

	value, err := GetNonceValueFromAccount(ProgramKey, data)
	require.NoError(t, err)
	assert.Equal(t, keys[1], value)

	_, err = GetNonceValueFromAccount(keys[0], data)
	assert.Equal(t, ErrInvalidAccountOwner, err)

	_, err = GetNonceValueFromAccount(ProgramKey, data[:79])
	assert.Equal(t, ErrInvalidAccountSize, err)

	data[0] = 0
	_, err = GetNonceValueFromAccount(ProgramKey, data)
	assert.Equal(t, ErrInvalidAccountVersion, err)
}

func TestErrors(t *testing.T) {
	e, ok := Errors.FromCode(1)
	require.True(t, ok)
	assert.Equal(t, ErrorResultWithNegativeLamports, e)
	assert.Equal(t, "ResultWithNegativeLamports", Errors.Name(e))

	_, ok = Errors.FromCode(9)
	assert.False(t, ok)
	assert.Len(t, Errors.Definitions(), 9)
}

func generateKeys(t *testing.T, amount int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, amount)

	for i := 0; i < amount; i++ {
		pub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = pub
	}

	return keys
}

func TestGetCommand(t *testing.T) {
	keys := generateKeys(t, 2)

	transfer, err := Transfer(keys[0], keys[1], 10)
	require.NoError(t, err)

	cmd, err := GetCommand(transfer)
	require.NoError(t, err)
	assert.Equal(t, CommandTransfer, cmd)
	assert.Equal(t, "Transfer", cmd.String())

	_, err = GetCommand(solana.NewInstruction(ProgramKey, []byte{2, 0}))
	assert.Error(t, err)

	_, err = GetCommand(solana.NewInstruction(keys[0], []byte{2, 0, 0, 0}))
	assert.Equal(t, solana.ErrIncorrectProgram, err)
}
