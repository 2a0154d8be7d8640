package main

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/code-payments/code-solana-sdk/pkg/config"
	"github.com/code-payments/code-solana-sdk/pkg/config/env"
	viperconfig "github.com/code-payments/code-solana-sdk/pkg/config/viper"
	"github.com/code-payments/code-solana-sdk/pkg/solana/programs"
	"github.com/code-payments/code-solana-sdk/pkg/solana/token"
)

const (
	envPrefix = "solkit"

	logLevelConfigEnvName     = "log_level"
	outputConfigEnvName       = "output"
	tokenProgramConfigEnvName = "token_program"

	defaultLogLevel = "info"
	defaultOutput   = outputText

	outputText = "text"
	outputJSON = "json"
)

var errInvalidOutput = errors.New("output must be text or json")

type app struct {
	v        *viper.Viper
	out      io.Writer
	logger   *logrus.Logger
	log      *logrus.Entry
	registry *programs.Registry

	configFile   string
	logLevel     config.String
	output       config.String
	tokenProgram config.PublicKey
}

func newRootCmd(out io.Writer, logger *logrus.Logger) *cobra.Command {
	v := viper.New()
	a := &app{
		v:        v,
		out:      out,
		logger:   logger,
		log:      logger.WithField("type", "cmd/solkit"),
		registry: programs.Default(),

		logLevel:     viperconfig.NewStringConfig(v, logLevelConfigEnvName, defaultLogLevel),
		output:       viperconfig.NewStringConfig(v, outputConfigEnvName, defaultOutput),
		tokenProgram: viperconfig.NewPublicKeyConfig(v, tokenProgramConfigEnvName, token.ProgramKey),
	}

	cmd := &cobra.Command{
		Use:           "solkit",
		Short:         "Derive program addresses and encode Solana instructions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	cmd.SetOut(out)

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", env.NewStringConfig(envPrefix+"_config", "").Get(context.Background()), "config file (yaml, json or toml)")
	flags.String("output", defaultOutput, "output format: text or json")
	flags.String("log-level", defaultLogLevel, "log level")

	_ = v.BindPFlag(outputConfigEnvName, flags.Lookup("output"))
	_ = v.BindPFlag(logLevelConfigEnvName, flags.Lookup("log-level"))

	cmd.AddCommand(
		a.newPDACmd(),
		a.newATACmd(),
		a.newErrorCmd(),
	)

	return cmd
}

// load resolves settings from, in order of precedence, flags, SOLKIT_*
// environment variables and the config file.
func (a *app) load(cmd *cobra.Command) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
		if err := a.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config file %s", a.configFile)
		}
	}

	a.configureLogger(cmd.Context())

	output := a.output.Get(cmd.Context())
	if output != outputText && output != outputJSON {
		return errors.Wrap(errInvalidOutput, output)
	}

	a.log.WithFields(logrus.Fields{
		"command": cmd.CommandPath(),
		"config":  a.configFile,
		"output":  output,
	}).Debug("loaded config")
	return nil
}

func (a *app) configureLogger(ctx context.Context) {
	logLevel := a.logLevel.Get(ctx)
	level, err := logrus.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		a.log.WithField("log_level", logLevel).Warn("unknown log level, ignoring")
		return
	}
	a.logger.SetLevel(level)
}
