package main

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/code-payments/code-solana-sdk/pkg/solana"
	"github.com/code-payments/code-solana-sdk/pkg/solana/token"
)

type ataResult struct {
	Wallet       string `json:"wallet"`
	Mint         string `json:"mint"`
	TokenProgram string `json:"token_program"`
	Address      string `json:"address"`
	Bump         uint8  `json:"bump"`
}

type accountResult struct {
	PublicKey  string `json:"pubkey"`
	IsSigner   bool   `json:"is_signer"`
	IsWritable bool   `json:"is_writable"`
}

type instructionResult struct {
	Name     string          `json:"name"`
	Program  string          `json:"program"`
	Accounts []accountResult `json:"accounts"`
	Data     string          `json:"data"`
	Address  string          `json:"address,omitempty"`
}

func (a *app) newATACmd() *cobra.Command {
	var wallet, mint string

	cmd := &cobra.Command{
		Use:   "ata",
		Short: "Derive an associated token account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			walletKey, mintKey, tokenProgram, err := a.parseATAFlags(cmd, wallet, mint)
			if err != nil {
				return err
			}

			log := a.log.WithFields(logrus.Fields{
				"method":        "ata",
				"wallet":        wallet,
				"mint":          mint,
				"token_program": base58.Encode(tokenProgram),
			})

			pda, err := token.DeriveAssociatedAccount(walletKey, mintKey, tokenProgram)
			if err != nil {
				log.WithError(err).Warn("failure deriving associated account")
				return err
			}
			log.WithField("address", base58.Encode(pda.Address)).Debug("derived associated account")

			result := ataResult{
				Wallet:       base58.Encode(walletKey),
				Mint:         base58.Encode(mintKey),
				TokenProgram: base58.Encode(tokenProgram),
				Address:      base58.Encode(pda.Address),
				Bump:         pda.Bump,
			}
			return a.write(cmd.Context(), result, func(w io.Writer) error {
				return writeLines(w, fmt.Sprintf("%s %d", result.Address, result.Bump))
			})
		},
	}

	a.addATAFlags(cmd, &wallet, &mint)
	cmd.AddCommand(a.newATACreateCmd())

	return cmd
}

func (a *app) newATACreateCmd() *cobra.Command {
	var payer, wallet, mint string
	var idempotent bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Encode an instruction that creates an associated token account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payerKey, err := parseKey("payer", payer)
			if err != nil {
				return err
			}
			walletKey, mintKey, tokenProgram, err := a.parseATAFlags(cmd, wallet, mint)
			if err != nil {
				return err
			}

			log := a.log.WithFields(logrus.Fields{
				"method":     "ata create",
				"payer":      payer,
				"wallet":     wallet,
				"mint":       mint,
				"idempotent": idempotent,
			})

			create := token.CreateAssociatedTokenAccountWithProgram
			if idempotent {
				create = token.CreateAssociatedTokenAccountIdempotentWithProgram
			}
			ix, address, err := create(payerKey, walletKey, mintKey, tokenProgram)
			if err != nil {
				log.WithError(err).Warn("failure encoding create instruction")
				return err
			}

			result, err := a.describeInstruction(ix)
			if err != nil {
				return err
			}
			result.Address = base58.Encode(address)
			log.WithField("address", result.Address).Debug("encoded create instruction")

			return a.write(cmd.Context(), result, func(w io.Writer) error {
				lines := []string{
					fmt.Sprintf("instruction: %s", result.Name),
					fmt.Sprintf("program:     %s", result.Program),
					fmt.Sprintf("address:     %s", result.Address),
					fmt.Sprintf("data:        %s", result.Data),
					"accounts:",
				}
				for i, account := range ix.Accounts {
					lines = append(lines, fmt.Sprintf("  %d. %s", i, account))
				}
				return writeLines(w, lines...)
			})
		},
	}

	cmd.Flags().StringVar(&payer, "payer", "", "base58 funding account")
	cmd.Flags().BoolVar(&idempotent, "idempotent", false, "succeed if the account already exists")
	_ = cmd.MarkFlagRequired("payer")
	a.addATAFlags(cmd, &wallet, &mint)

	return cmd
}

func (a *app) addATAFlags(cmd *cobra.Command, wallet, mint *string) {
	cmd.Flags().StringVar(wallet, "wallet", "", "base58 wallet address")
	cmd.Flags().StringVar(mint, "mint", "", "base58 mint address")
	cmd.Flags().String("token-program", "", "token program name or base58 id (default spl-token)")
	_ = cmd.MarkFlagRequired("wallet")
	_ = cmd.MarkFlagRequired("mint")
}

// parseATAFlags parses the wallet and mint, and resolves the token program
// from the flag, falling back to the token_program setting.
func (a *app) parseATAFlags(cmd *cobra.Command, wallet, mint string) (ed25519.PublicKey, ed25519.PublicKey, ed25519.PublicKey, error) {
	walletKey, err := parseKey("wallet", wallet)
	if err != nil {
		return nil, nil, nil, err
	}
	mintKey, err := parseKey("mint", mint)
	if err != nil {
		return nil, nil, nil, err
	}

	if flag, _ := cmd.Flags().GetString("token-program"); flag != "" {
		tokenProgram, err := a.parseProgram(flag)
		if err != nil {
			return nil, nil, nil, err
		}
		return walletKey, mintKey, tokenProgram, nil
	}

	tokenProgram, err := a.tokenProgram.GetSafe(cmd.Context())
	if err != nil {
		return nil, nil, nil, err
	}
	return walletKey, mintKey, tokenProgram, nil
}

func (a *app) describeInstruction(ix solana.Instruction) (instructionResult, error) {
	name, err := a.registry.InstructionName(ix)
	if err != nil {
		return instructionResult{}, err
	}

	result := instructionResult{
		Name:     name,
		Program:  base58.Encode(ix.Program),
		Accounts: make([]accountResult, len(ix.Accounts)),
		Data:     hex.EncodeToString(ix.Data),
	}
	for i, account := range ix.Accounts {
		result.Accounts[i] = accountResult{
			PublicKey:  base58.Encode(account.PublicKey),
			IsSigner:   account.IsSigner,
			IsWritable: account.IsWritable,
		}
	}
	return result, nil
}
