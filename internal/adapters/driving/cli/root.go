// Package cli implements the casechain command-line interface.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/casechain-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/casechain-cli/internal/core/domain"
	"github.com/custodia-labs/casechain-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "casechain",
	Short: "Content chain maintenance for case document databases",
	Long: `casechain maintains the dedup chain of a case document database:
document chunks, unified content rows, and their embeddings.

Batch commands report findings through their exit code so they can run
unattended from cron or CI:
  0  success
  1  partial pass or warning-level findings
  2  unresolved inputs or structural corruption
  3  infrastructure failure`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// exitError carries a process exit code through cobra's error return.
// A nil inner error means the command ran but its report demands a
// non-zero exit; nothing extra is printed for those.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit status %d", e.code)
}

func (e *exitError) Unwrap() error { return e.err }

// systemErr wraps an infrastructure failure with the system exit code.
func systemErr(err error) error {
	return &exitError{code: domain.ExitSystem, err: err}
}

// reportExit converts a report exit code to the command's return value.
func reportExit(code int) error {
	if code == domain.ExitOK {
		return nil
	}
	return &exitError{code: code}
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", ee.err)
			}
			return ee.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return domain.ExitSystem
	}
	return domain.ExitOK
}

// resolveDBPath picks the database path: the flag wins, then the
// CASECHAIN_DB_PATH environment variable, then the configured value,
// then the standard location under the home directory.
func resolveDBPath(flagVal string) string {
	if flagVal != "" {
		return flagVal
	}
	if env := os.Getenv("CASECHAIN_DB_PATH"); env != "" {
		return env
	}
	if cfg, err := file.NewConfigStore(""); err == nil {
		if p := cfg.GetString(file.KeyDatabasePath); p != "" {
			return p
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".casechain", "data", "case.db")
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
