package memo

import (
	"bytes"
	"crypto/ed25519"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/code-payments/code-solana-sdk/pkg/solana"
)

// ProgramKey is the address of the memo program that should be used.
//
// Current key: MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr
var ProgramKey = ed25519.PublicKey{5, 74, 83, 90, 153, 41, 33, 6, 77, 36, 232, 113, 96, 218, 56, 124, 124, 53, 181, 221, 188, 146, 187, 129, 228, 31, 168, 64, 65, 5, 68, 141}

// LegacyProgramKey is the address of the first memo program, which ignores
// signer accounts.
//
// Current key: Memo1UhkJRfHyvLMcVucJwxXeuD728EqVDDwQDxFMNo
var LegacyProgramKey = ed25519.PublicKey{5, 74, 83, 80, 248, 93, 200, 130, 214, 20, 165, 86, 114, 120, 138, 41, 109, 223, 30, 171, 171, 208, 166, 6, 120, 136, 73, 50, 244, 238, 246, 160}

var ErrInvalidMemo = errors.New("memo is not valid utf-8")

// Instruction returns a memo instruction. The program fails the transaction
// unless every signer account has signed it.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/master/memo/program/src/lib.rs
func Instruction(data string, signers ...ed25519.PublicKey) solana.Instruction {
	accounts := make([]solana.AccountMeta, len(signers))
	for i, signer := range signers {
		accounts[i] = solana.NewReadonlyAccountMeta(signer, true)
	}

	return solana.NewInstruction(
		ProgramKey,
		[]byte(data),
		accounts...,
	)
}

type DecompiledMemo struct {
	Data    []byte
	Signers []ed25519.PublicKey
}

// DecompileMemo decompiles a memo instruction of either memo program.
func DecompileMemo(ix solana.Instruction) (*DecompiledMemo, error) {
	if !bytes.Equal(ix.Program, ProgramKey) && !bytes.Equal(ix.Program, LegacyProgramKey) {
		return nil, solana.ErrIncorrectProgram
	}
	if !utf8.Valid(ix.Data) {
		return nil, ErrInvalidMemo
	}

	decompiled := &DecompiledMemo{Data: ix.Data}
	for _, a := range ix.Accounts {
		if a.IsSigner {
			decompiled.Signers = append(decompiled.Signers, a.PublicKey)
		}
	}
	return decompiled, nil
}
