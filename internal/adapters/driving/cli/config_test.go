package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/normabundle/internal/core/domain"
)

func TestConfigCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0, len(configCmd.Commands()))
	for _, cmd := range configCmd.Commands() {
		names = append(names, cmd.Name())
	}

	assert.ElementsMatch(t, []string{"list", "get", "set", "path"}, names)
}

func TestConfigGetCmd_Defaults(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "", "config", "get", "bundle.file_mode")
	require.NoError(t, err)
	assert.Equal(t, "0644\n", out)

	out, err = runCommand(t, "", "config", "get", "catalog.backend")
	require.NoError(t, err)
	assert.Equal(t, "sqlite\n", out)
}

func TestConfigSetCmd(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "", "config", "set", "bundle.dir_mode", "0700")
	require.NoError(t, err)
	assert.Contains(t, out, "Set bundle.dir_mode = 0700")

	out, err = runCommand(t, "", "config", "get", "bundle.dir_mode")
	require.NoError(t, err)
	assert.Equal(t, "0700\n", out)
}

func TestConfigSetCmd_Invalid(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCommand(t, "", "config", "set", "bundle.file_mode", "rw-r--r--")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = runCommand(t, "", "config", "set", "catalog.backend", "postgres")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = runCommand(t, "", "config", "set", "no.such.key", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfigListCmd(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "", "config", "list")

	require.NoError(t, err)
	for _, key := range settingsService.Keys() {
		assert.Contains(t, out, key)
	}
}

func TestConfigPathCmd(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "", "config", "path")

	require.NoError(t, err)
	assert.Equal(t, configStore.Path()+"\n", out)
}

func TestBundleModesFromConfig(t *testing.T) {
	memFs, cleanup := setupTestServices()
	defer cleanup()
	_, err := runCommand(t, "", "config", "set", "bundle.file_mode", "0600")
	require.NoError(t, err)

	_, err = runCommand(t, "secret", "write", "/bundles/b1", "notes.txt")
	require.NoError(t, err)

	info, err := memFs.Stat("/bundles/b1/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode().Perm().String())
}
