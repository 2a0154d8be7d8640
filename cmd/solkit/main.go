package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	logger := logrus.StandardLogger()
	os.Exit(execute(newRootCmd(os.Stdout, logger), logger))
}

// execute runs cmd and returns the process exit code. Errors are logged, since
// the root command silences cobra's own error output.
func execute(cmd *cobra.Command, logger *logrus.Logger) int {
	if err := cmd.Execute(); err != nil {
		logger.WithError(err).Error("command failed")
		return 1
	}
	return 0
}
