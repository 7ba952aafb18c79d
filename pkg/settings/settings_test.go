package settings_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/archx/pkg/backends/symlink"
	"github.com/arthur-debert/archx/pkg/errors"
	"github.com/arthur-debert/archx/pkg/paths"
	"github.com/arthur-debert/archx/pkg/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the default config and state directories at a temp dir
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, filepath.Join(dir, "config"))
	t.Setenv(paths.EnvStateDir, filepath.Join(dir, "state"))
	return dir
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	dir := isolate(t)

	opts, err := settings.Load(settings.LoadOptions{Terminal: true})
	require.NoError(t, err)

	assert.False(t, opts.DryRun)
	assert.False(t, opts.NonInteractive)
	assert.False(t, opts.StopOnError)
	assert.Equal(t, symlink.ModeAsk, opts.SymlinkConflict)
	assert.Equal(t, filepath.Join(dir, "state", paths.DecisionsFileName), opts.DecisionsPath)
	assert.Equal(t, os.Geteuid() != 0, opts.Sudo)
	assert.Empty(t, opts.DisabledPlugins)
	assert.Empty(t, opts.JUnitPath)
}

func TestNoTerminalForcesNonInteractive(t *testing.T) {
	isolate(t)

	opts, err := settings.Load(settings.LoadOptions{Terminal: false})
	require.NoError(t, err)
	assert.True(t, opts.NonInteractive)
}

func TestDefaultSettingsFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config", paths.SettingsFileName), `
dry_run = true
stop_on_error = true

[symlink]
conflict = "replace"

[plugins]
disabled = ["yay"]
`)

	opts, err := settings.Load(settings.LoadOptions{Terminal: true})
	require.NoError(t, err)

	assert.True(t, opts.DryRun)
	assert.True(t, opts.StopOnError)
	assert.Equal(t, symlink.ModeReplace, opts.SymlinkConflict)
	assert.Equal(t, []string{"yay"}, opts.DisabledPlugins)
}

func TestExplicitYAMLSettings(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, filepath.Join(dir, "custom.yml"), `
symlink:
  conflict: skip
report:
  junit: /tmp/archx.xml
`)

	opts, err := settings.Load(settings.LoadOptions{File: path, Terminal: true})
	require.NoError(t, err)
	assert.Equal(t, symlink.ModeSkip, opts.SymlinkConflict)
	assert.Equal(t, "/tmp/archx.xml", opts.JUnitPath)
}

func TestPrecedence(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config", paths.SettingsFileName), `
[symlink]
conflict = "replace"
`)
	t.Setenv("ARCHX_SYMLINK__CONFLICT", "skip")
	t.Setenv("ARCHX_PLUGINS__DISABLED", "echo, yay")
	t.Setenv("ARCHX_DRY_RUN", "true")

	opts, err := settings.Load(settings.LoadOptions{Terminal: true})
	require.NoError(t, err)
	assert.Equal(t, symlink.ModeSkip, opts.SymlinkConflict, "env beats file")
	assert.Equal(t, []string{"echo", "yay"}, opts.DisabledPlugins)
	assert.True(t, opts.DryRun)

	opts, err = settings.Load(settings.LoadOptions{
		Terminal: true,
		Flags: map[string]interface{}{
			settings.KeySymlinkConflict: "ask",
			settings.KeyDryRun:          false,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, symlink.ModeAsk, opts.SymlinkConflict, "flags beat env")
	assert.False(t, opts.DryRun)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    errors.ErrorCode
	}{
		{"invalid_mode", "bad.toml", "[symlink]\nconflict = \"overwrite\"\n", errors.ErrConfigValid},
		{"unsupported_format", "settings.ini", "dry_run=1\n", errors.ErrConfigLoad},
		{"malformed_toml", "broken.toml", "dry_run = \n", errors.ErrConfigParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := writeFile(t, filepath.Join(dir, tt.file), tt.content)

			_, err := settings.Load(settings.LoadOptions{File: path, Terminal: true})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
			assert.True(t, errors.IsConfigError(err))
		})
	}
}

func TestMissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := settings.Load(settings.LoadOptions{File: filepath.Join(dir, "nope.toml"), Terminal: true})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}
