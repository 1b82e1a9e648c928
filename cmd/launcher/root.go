package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vytor/karrito/internal/errors"
)

// Exit codes.
const (
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagDataDir  string
	flagLogLevel string
	flagOutput   string
)

var rootCmd = &cobra.Command{
	Use:           "launcher",
	Short:         "Manage launcher profiles and settings",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch flagOutput {
		case outputJSON, outputYAML:
			return nil
		default:
			return fmt.Errorf("--output must be %q or %q (got %q)", outputJSON, outputYAML, flagOutput)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $LAUNCHER_DATA_DIR or ~/.karrito)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: DEBUG, INFO, WARN, ERROR (default: $LOG_LEVEL or INFO)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", outputJSON, "output format: json or yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(settingCmd)
}

// exitCode maps validation-style failures to 1 and everything else to 2.
func exitCode(err error) int {
	appErr, ok := errors.As(err)
	if !ok {
		return exitUserError
	}
	if appErr.Status >= 500 {
		return exitSysError
	}
	return exitUserError
}
