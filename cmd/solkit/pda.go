package main

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/code-payments/code-solana-sdk/pkg/solana"
)

var errInvalidKey = errors.New("invalid public key")

type pdaResult struct {
	Program string   `json:"program"`
	Seeds   []string `json:"seeds"`
	Address string   `json:"address"`
	Bump    uint8    `json:"bump"`
}

func (a *app) newPDACmd() *cobra.Command {
	var program string
	var seeds []string

	cmd := &cobra.Command{
		Use:   "pda",
		Short: "Derive a program address",
		Example: "  solkit pda --program ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL \\\n" +
			"    --seed b58:<wallet> --seed b58:TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA --seed b58:<mint>",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			programKey, err := a.parseProgram(program)
			if err != nil {
				return err
			}
			parsed, err := parseSeeds(seeds)
			if err != nil {
				return err
			}

			log := a.log.WithFields(logrus.Fields{
				"method":  "pda",
				"program": base58.Encode(programKey),
				"seeds":   len(parsed),
			})

			pda, err := solana.DeriveAddress(programKey, parsed...)
			if err != nil {
				log.WithError(err).Warn("failure deriving program address")
				return err
			}
			log.WithField("address", base58.Encode(pda.Address)).Debug("derived program address")

			result := pdaResult{
				Program: base58.Encode(programKey),
				Seeds:   make([]string, len(parsed)),
				Address: base58.Encode(pda.Address),
				Bump:    pda.Bump,
			}
			for i, seed := range parsed {
				result.Seeds[i] = hex.EncodeToString(seed)
			}

			return a.write(cmd.Context(), result, func(w io.Writer) error {
				return writeLines(w, fmt.Sprintf("%s %d", result.Address, result.Bump))
			})
		},
	}

	cmd.Flags().StringVar(&program, "program", "", "program name or base58 program id")
	cmd.Flags().StringArrayVar(&seeds, "seed", nil, "seed as <kind>:<value>, kinds: str, hex, b58, u8, u64")
	_ = cmd.MarkFlagRequired("program")

	return cmd
}

// parseProgram accepts a registered program name or any base58 program id.
func (a *app) parseProgram(nameOrKey string) (ed25519.PublicKey, error) {
	if p, ok := a.registry.LookupByName(nameOrKey); ok {
		return p.Key, nil
	}
	return parseKey("program", nameOrKey)
}

func parseKey(name, value string) (ed25519.PublicKey, error) {
	key, err := base58.Decode(value)
	if err != nil {
		return nil, errors.Wrapf(errInvalidKey, "%s: %v", name, err)
	}
	if len(key) != ed25519.PublicKeySize {
		return nil, errors.Wrapf(errInvalidKey, "%s: got %d bytes", name, len(key))
	}
	return key, nil
}
