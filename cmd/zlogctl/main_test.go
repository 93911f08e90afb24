package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zlogcls/zlog/internal/host"
	"github.com/zlogcls/zlog/pkg/client"
)

func Test_ParseU64_Returns_Error_When_Argument_Missing_Or_Invalid(t *testing.T) {
	t.Parallel()

	_, err := parseU64([]string{"write"}, 1, "epoch")
	require.Error(t, err)

	_, err = parseU64([]string{"write", "not-a-number"}, 1, "epoch")
	require.Error(t, err)

	v, err := parseU64([]string{"write", "42"}, 1, "epoch")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)
}

func Test_RunCommand_Drives_Seal_Write_Read_Through_A_Client(t *testing.T) {
	t.Parallel()

	obj := host.NewMemMap()
	c := client.New(obj)
	var stdout bytes.Buffer

	status, err := runCommand(c, []string{"seal", "1"}, nullFile(t, &stdout))
	require.NoError(t, err)
	assert.Equal(t, "ok", status.String())

	status, err = runCommand(c, []string{"write", "1", "0", "hello"}, nullFile(t, &stdout))
	require.NoError(t, err)
	assert.Equal(t, "ok", status.String())

	status, err = runCommand(c, []string{"read", "1", "0"}, nullFile(t, &stdout))
	require.NoError(t, err)
	assert.Equal(t, "ok", status.String())
}

func Test_RunCommand_Returns_Error_For_Unknown_Command(t *testing.T) {
	t.Parallel()

	c := client.New(host.NewMemMap())
	var stdout bytes.Buffer

	_, err := runCommand(c, []string{"frobnicate"}, nullFile(t, &stdout))
	assert.Error(t, err)
}

func Test_Run_Executes_One_Command_Against_A_Configured_Snapshot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	snapshotPath := filepath.Join(dir, "snap")

	code := run([]string{"-s", snapshotPath, "seal", "1"}, mustTempOutputFile(t, dir, "out"), mustTempOutputFile(t, dir, "err"))
	assert.Equal(t, 0, code)

	if _, err := os.Stat(snapshotPath); err != nil {
		t.Fatalf("expected snapshot file to exist after flush: %v", err)
	}
}

// nullFile adapts runCommand's *os.File-typed stdout parameter for tests
// that only care about the returned status, not captured output.
func nullFile(t *testing.T, _ *bytes.Buffer) *os.File {
	t.Helper()
	f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func mustTempOutputFile(t *testing.T, dir, name string) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}
