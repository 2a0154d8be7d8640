package token

import (
	"github.com/code-payments/code-solana-sdk/pkg/solana"
)

// Reference: https://github.com/solana-labs/solana-program-library/blob/master/token/program/src/error.rs
const (
	ErrorNotRentExempt solana.CustomError = iota
	ErrorInsufficientFunds
	ErrorInvalidMint
	ErrorMintMismatch
	ErrorOwnerMismatch
	ErrorFixedSupply
	ErrorAlreadyInUse
	ErrorInvalidNumberOfProvidedSigners
	ErrorInvalidNumberOfRequiredSigners
	ErrorUninitializedState
	ErrorNativeNotSupported
	ErrorNonNativeHasBalance
	ErrorInvalidInstruction
	ErrorInvalidState
	ErrorOverflow
	ErrorAuthorityTypeNotSupported
	ErrorMintCannotFreeze
	ErrorAccountFrozen
	ErrorMintDecimalsMismatch
	ErrorNonNativeNotSupported
)

// Errors is the catalog of token program errors. Codes are shared by the
// token extensions program.
var Errors = solana.NewErrorCatalog(
	"spl-token",
	solana.ErrorDefinition{Code: ErrorNotRentExempt, Name: "NotRentExempt", Message: "Lamport balance below rent-exempt threshold"},
	solana.ErrorDefinition{Code: ErrorInsufficientFunds, Name: "InsufficientFunds", Message: "Insufficient funds"},
	solana.ErrorDefinition{Code: ErrorInvalidMint, Name: "InvalidMint", Message: "Invalid Mint"},
	solana.ErrorDefinition{Code: ErrorMintMismatch, Name: "MintMismatch", Message: "Account not associated with this Mint"},
	solana.ErrorDefinition{Code: ErrorOwnerMismatch, Name: "OwnerMismatch", Message: "Owner does not match"},
	solana.ErrorDefinition{Code: ErrorFixedSupply, Name: "FixedSupply", Message: "Fixed supply"},
	solana.ErrorDefinition{Code: ErrorAlreadyInUse, Name: "AlreadyInUse", Message: "Already in use"},
	solana.ErrorDefinition{Code: ErrorInvalidNumberOfProvidedSigners, Name: "InvalidNumberOfProvidedSigners", Message: "Invalid number of provided signers"},
	solana.ErrorDefinition{Code: ErrorInvalidNumberOfRequiredSigners, Name: "InvalidNumberOfRequiredSigners", Message: "Invalid number of required signers"},
	solana.ErrorDefinition{Code: ErrorUninitializedState, Name: "UninitializedState", Message: "State is unititialized"},
	solana.ErrorDefinition{Code: ErrorNativeNotSupported, Name: "NativeNotSupported", Message: "Instruction does not support native tokens"},
	solana.ErrorDefinition{Code: ErrorNonNativeHasBalance, Name: "NonNativeHasBalance", Message: "Non-native account can only be closed if its balance is zero"},
	solana.ErrorDefinition{Code: ErrorInvalidInstruction, Name: "InvalidInstruction", Message: "Invalid instruction"},
	solana.ErrorDefinition{Code: ErrorInvalidState, Name: "InvalidState", Message: "State is invalid for requested operation"},
	solana.ErrorDefinition{Code: ErrorOverflow, Name: "Overflow", Message: "Operation overflowed"},
	solana.ErrorDefinition{Code: ErrorAuthorityTypeNotSupported, Name: "AuthorityTypeNotSupported", Message: "Account does not support specified authority type"},
	solana.ErrorDefinition{Code: ErrorMintCannotFreeze, Name: "MintCannotFreeze", Message: "This token mint cannot freeze accounts"},
	solana.ErrorDefinition{Code: ErrorAccountFrozen, Name: "AccountFrozen", Message: "Account is frozen"},
	solana.ErrorDefinition{Code: ErrorMintDecimalsMismatch, Name: "MintDecimalsMismatch", Message: "The provided decimals value different from the Mint decimals"},
	solana.ErrorDefinition{Code: ErrorNonNativeNotSupported, Name: "NonNativeNotSupported", Message: "Instruction does not support non-native tokens"},
)
