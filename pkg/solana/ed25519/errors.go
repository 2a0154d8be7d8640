package ed25519

import (
	"github.com/code-payments/code-solana-sdk/pkg/solana"
)

// Precompile failures are reported as custom instruction errors.
//
// Reference: https://github.com/anza-xyz/agave/blob/master/sdk/precompile-error/src/lib.rs
const (
	ErrorInvalidPublicKey solana.CustomError = iota
	ErrorInvalidRecoveryID
	ErrorInvalidSignature
	ErrorInvalidDataOffsets
	ErrorInvalidInstructionDataSize
)

var Errors = solana.NewErrorCatalog(
	"ed25519",
	solana.ErrorDefinition{Code: ErrorInvalidPublicKey, Name: "InvalidPublicKey", Message: "public key is not valid"},
	solana.ErrorDefinition{Code: ErrorInvalidRecoveryID, Name: "InvalidRecoveryId", Message: "id is not valid"},
	solana.ErrorDefinition{Code: ErrorInvalidSignature, Name: "InvalidSignature", Message: "signature is not valid"},
	solana.ErrorDefinition{Code: ErrorInvalidDataOffsets, Name: "InvalidDataOffsets", Message: "offset not valid"},
	solana.ErrorDefinition{Code: ErrorInvalidInstructionDataSize, Name: "InvalidInstructionDataSize", Message: "instruction is incorrect size"},
)
