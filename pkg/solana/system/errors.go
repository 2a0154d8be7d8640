package system

import (
	"github.com/code-payments/code-solana-sdk/pkg/solana"
)

// Reference: https://github.com/solana-labs/solana/blob/master/sdk/program/src/system_instruction.rs
const (
	ErrorAccountAlreadyInUse solana.CustomError = iota
	ErrorResultWithNegativeLamports
	ErrorInvalidProgramID
	ErrorInvalidAccountDataLength
	ErrorMaxSeedLengthExceeded
	ErrorAddressWithSeedMismatch
	ErrorNonceNoRecentBlockhashes
	ErrorNonceBlockhashNotExpired
	ErrorNonceUnexpectedBlockhashValue
)

// Errors is the catalog of system program errors.
var Errors = solana.NewErrorCatalog(
	"system",
	solana.ErrorDefinition{Code: ErrorAccountAlreadyInUse, Name: "AccountAlreadyInUse", Message: "an account with the same address already exists"},
	solana.ErrorDefinition{Code: ErrorResultWithNegativeLamports, Name: "ResultWithNegativeLamports", Message: "account does not have enough SOL to perform the operation"},
	solana.ErrorDefinition{Code: ErrorInvalidProgramID, Name: "InvalidProgramId", Message: "cannot assign account to this program id"},
	solana.ErrorDefinition{Code: ErrorInvalidAccountDataLength, Name: "InvalidAccountDataLength", Message: "cannot allocate account data of this length"},
	solana.ErrorDefinition{Code: ErrorMaxSeedLengthExceeded, Name: "MaxSeedLengthExceeded", Message: "length of requested seed is too long"},
	solana.ErrorDefinition{Code: ErrorAddressWithSeedMismatch, Name: "AddressWithSeedMismatch", Message: "provided address does not match addressed derived from seed"},
	solana.ErrorDefinition{Code: ErrorNonceNoRecentBlockhashes, Name: "NonceNoRecentBlockhashes", Message: "advancing stored nonce requires a populated RecentBlockhashes sysvar"},
	solana.ErrorDefinition{Code: ErrorNonceBlockhashNotExpired, Name: "NonceBlockhashNotExpired", Message: "stored nonce is still in recent_blockhashes"},
	solana.ErrorDefinition{Code: ErrorNonceUnexpectedBlockhashValue, Name: "NonceUnexpectedBlockhashValue", Message: "specified nonce does not match stored nonce"},
)
