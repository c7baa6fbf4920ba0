package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/casechain-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/casechain-cli/internal/core/domain"
)

// setupTestDB creates a migrated database and points CASECHAIN_DB_PATH
// at it for the duration of the test.
func setupTestDB(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "case.db")
	store, err := sqlite.NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	t.Setenv("CASECHAIN_DB_PATH", dbPath)
	return dbPath
}

// runCommand executes the root command with args and captures stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestExitError_CodeMapping(t *testing.T) {
	inner := errors.New("cannot open")

	ee := &exitError{code: domain.ExitSystem, err: inner}
	assert.Equal(t, "cannot open", ee.Error())
	assert.ErrorIs(t, ee, inner)

	bare := &exitError{code: domain.ExitPartial}
	assert.Equal(t, "exit status 1", bare.Error())
}

func TestReportExit(t *testing.T) {
	assert.NoError(t, reportExit(domain.ExitOK))

	err := reportExit(domain.ExitUnresolved)
	var ee *exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, domain.ExitUnresolved, ee.code)
}

func TestResolveDBPath_Precedence(t *testing.T) {
	t.Setenv("CASECHAIN_DB_PATH", "/env/case.db")

	// Flag wins over environment
	assert.Equal(t, "/flag/case.db", resolveDBPath("/flag/case.db"))

	// Environment wins over config and default
	assert.Equal(t, "/env/case.db", resolveDBPath(""))
}

func TestResolveDBPath_DefaultLocation(t *testing.T) {
	t.Setenv("CASECHAIN_DB_PATH", "")
	os.Unsetenv("CASECHAIN_DB_PATH")

	path := resolveDBPath("")
	assert.Contains(t, path, ".casechain")
}

func TestBackfillCmd_MissingDatabase(t *testing.T) {
	t.Setenv("CASECHAIN_DB_PATH", filepath.Join(t.TempDir(), "nope.db"))

	_, err := runCommand(t, "backfill")

	var ee *exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, domain.ExitSystem, ee.code)
	assert.ErrorIs(t, ee, domain.ErrDatabaseNotFound)
}

func TestBackfillCmd_EmptyDatabase(t *testing.T) {
	setupTestDB(t)

	out, err := runCommand(t, "backfill")
	require.NoError(t, err)

	assert.Contains(t, out, `"remaining_gaps": 0`)
	assert.Contains(t, out, `"unresolved": 0`)
}

func TestVerifyCmd_EmptyDatabasePasses(t *testing.T) {
	setupTestDB(t)

	out, err := runCommand(t, "verify")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "pass"`)
}

func TestVerifyCmd_DefaultOutputIsJSON(t *testing.T) {
	setupTestDB(t)

	out, err := runCommand(t, "verify")
	require.NoError(t, err)

	var report domain.VerifyReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, domain.StatusPass, report.Status)
}

func TestVerifyCmd_TableOutput(t *testing.T) {
	setupTestDB(t)

	out, err := runCommand(t, "verify", "--table")
	require.NoError(t, err)
	assert.Contains(t, out, "Chain verification: pass")
}

func TestVerifyCmd_MissingDatabase(t *testing.T) {
	t.Setenv("CASECHAIN_DB_PATH", filepath.Join(t.TempDir(), "nope.db"))

	_, err := runCommand(t, "verify")

	var ee *exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, domain.ExitSystem, ee.code)
}

func TestSearchCmd_EmptyDatabase(t *testing.T) {
	setupTestDB(t)

	out, err := runCommand(t, "search", "anything")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "casechain version test-version-1.0.0")
}

func TestBackfillCmd_Flags(t *testing.T) {
	for _, name := range []string{"db", "source-type", "limit", "dry-run"} {
		assert.NotNil(t, backfillCmd.Flags().Lookup(name), "flag %s should exist", name)
	}
}

func TestEmbedCmd_Flags(t *testing.T) {
	for _, name := range []string{"db", "model", "base-url", "limit", "rate", "index"} {
		assert.NotNil(t, embedCmd.Flags().Lookup(name), "flag %s should exist", name)
	}
}
