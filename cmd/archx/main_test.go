package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/archx/pkg/decisions"
	"github.com/arthur-debert/archx/pkg/errors"
	"github.com/arthur-debert/archx/pkg/filesystem"
	"github.com/arthur-debert/archx/pkg/paths"
	"github.com/arthur-debert/archx/pkg/testutil"
	"github.com/beevik/etree"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliEnv struct {
	t     *testing.T
	dir   string
	repo  string
	home  string
	state string
	exec  *testutil.FakeExec
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	env := &cliEnv{
		t:     t,
		dir:   dir,
		repo:  filepath.Join(dir, "repo"),
		home:  filepath.Join(dir, "home"),
		state: filepath.Join(dir, "state"),
		exec:  testutil.NewFakeExec(),
	}
	require.NoError(t, os.MkdirAll(filepath.Join(env.repo, "dotfiles"), 0755))
	require.NoError(t, os.MkdirAll(env.home, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(env.repo, "dotfiles", "zshrc"), []byte("# zsh"), 0644))

	t.Setenv(paths.EnvStateDir, env.state)
	t.Setenv(paths.EnvConfigDir, filepath.Join(dir, "config"))
	t.Setenv(paths.EnvRepoRoot, "")
	t.Setenv("ARCHX_SUDO", "false")

	oldExec, oldLook, oldTTY := execFunc, lookPathFunc, stdinIsTTY
	execFunc, lookPathFunc = env.exec.Exec, env.exec.LookPath
	stdinIsTTY = func() bool { return false }
	t.Cleanup(func() {
		execFunc, lookPathFunc, stdinIsTTY = oldExec, oldLook, oldTTY
	})
	return env
}

func (e *cliEnv) writeConfig(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.repo, name)
	require.NoError(e.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (e *cliEnv) run(args ...string) (string, error) {
	e.t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func (e *cliEnv) link() string {
	return filepath.Join(e.home, ".zshrc")
}

func (e *cliEnv) basicConfig() string {
	return e.writeConfig("setup.yaml", `
- kind: package
  name: git
- kind: symlink
  source: dotfiles/zshrc
  target: `+e.link()+`
`)
}

func TestApplyIsIdempotent(t *testing.T) {
	env := newCLIEnv(t)
	env.exec.Exit("pacman -Q git", 1)
	config := env.basicConfig()

	out, err := env.run("apply", "-c", config)
	require.NoError(t, err)
	assert.Contains(t, out, "Installed Git package.")
	assert.Contains(t, out, "Linked "+env.link())
	assert.Contains(t, out, "2 applied, 0 failed, 0 not run")
	assert.True(t, env.exec.Called("pacman -S --needed --noconfirm git"))

	dest, err := os.Readlink(env.link())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.repo, "dotfiles", "zshrc"), dest)

	env.exec.Exit("pacman -Q git", 0)
	out, err = env.run("apply", "-c", config)
	require.NoError(t, err)
	assert.Contains(t, out, "Git package is already installed.")
	assert.Contains(t, out, "already linked")
}

func TestApplyDryRunChangesNothing(t *testing.T) {
	env := newCLIEnv(t)
	env.exec.Exit("pacman -Q git", 1)

	out, err := env.run("apply", "--dry-run", "-c", env.basicConfig())
	require.NoError(t, err)
	assert.Contains(t, out, "(dry run)")
	assert.False(t, env.exec.Called("pacman -S --needed --noconfirm git"))

	_, err = os.Lstat(env.link())
	assert.True(t, os.IsNotExist(err))
}

func TestApplyReportsFailures(t *testing.T) {
	env := newCLIEnv(t)
	env.exec.Exit("systemctl is-enabled --quiet sshd", 1)
	env.exec.Exit("systemctl enable sshd", 1)
	config := env.writeConfig("setup.yaml", `
- kind: service
  name: sshd
- kind: echo
  message: hello
`)

	out, err := env.run("apply", "-c", config)
	require.Error(t, err)
	assert.Equal(t, "1 of 2 commands failed", err.Error())
	assert.Contains(t, out, "Echoed: hello")
	assert.Contains(t, out, "1 applied, 1 failed, 0 not run")
}

func TestApplyStopOnError(t *testing.T) {
	env := newCLIEnv(t)
	env.exec.Exit("pacman -Q git", 1)
	env.exec.Exit("pacman -S --needed --noconfirm git", 1)

	out, err := env.run("apply", "--stop-on-error", "-c", env.basicConfig())
	require.Error(t, err)
	assert.Contains(t, out, "0 applied, 1 failed, 1 not run")
}

func TestApplyRejectsInvalidConfigBeforeApplying(t *testing.T) {
	env := newCLIEnv(t)
	config := env.writeConfig("setup.yaml", `
- kind: echo
  message: first
- kind: frobnicate
`)

	out, err := env.run("apply", "-c", config)
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.Contains(t, err.Error(), "invalid command #2 in "+config)
	assert.Empty(t, out)
}

func TestApplyPluginBackend(t *testing.T) {
	env := newCLIEnv(t)
	config := env.writeConfig("setup.yaml", `
- kind: package
  name: paru
  backend: yay
`)

	_, err := env.run("apply", "-c", config)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupportedBackend), "yay is not installed: %v", err)

	env.exec.Installed("yay").Exit("yay -Q paru", 1)
	out, err := env.run("apply", "-c", config)
	require.NoError(t, err)
	assert.Contains(t, out, "Installed Paru package.")
	assert.True(t, env.exec.Called("yay -S --needed --noconfirm paru"))
}

func TestApplyConflictDecisions(t *testing.T) {
	env := newCLIEnv(t)
	env.exec.Exit("pacman -Q git", 0)
	config := env.basicConfig()
	require.NoError(t, os.WriteFile(env.link(), []byte("local"), 0644))

	// Without a terminal conflicts are skipped
	out, err := env.run("apply", "-c", config)
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped "+env.link())

	out, err = env.run("apply", "--symlink-conflict", "replace", "-c", config)
	require.NoError(t, err)
	assert.Contains(t, out, "Replaced "+env.link())
	info, err := os.Lstat(env.link())
	require.NoError(t, err)
	assert.True(t, filesystem.IsSymlink(info))
}

func TestApplyFindsDefaultConfig(t *testing.T) {
	env := newCLIEnv(t)
	env.exec.Exit("pacman -Q git", 0)
	env.writeConfig(filepath.Join(paths.SetupDirName, paths.DefaultConfigFile), `
- kind: symlink
  source: dotfiles/zshrc
  target: `+env.link()+`
`)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(env.repo))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	out, err := env.run("apply")
	require.NoError(t, err)
	assert.Contains(t, out, "Linked")

	// setup/ is a subdirectory of the repo, so sources resolve from its parent
	dest, err := os.Readlink(env.link())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.repo, "dotfiles", "zshrc"), dest)
}

func TestApplyWithoutConfig(t *testing.T) {
	env := newCLIEnv(t)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(env.dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, err = env.run("apply")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	assert.Contains(t, err.Error(), "setup.yaml")
}

func TestApplyJSONAndJUnit(t *testing.T) {
	env := newCLIEnv(t)
	env.exec.Exit("pacman -Q git", 0)
	junit := filepath.Join(env.dir, "out", "archx.xml")

	out, err := env.run("apply", "--format", "json", "--junit", junit, "-c", env.basicConfig())
	require.NoError(t, err)

	var decoded struct {
		OK       bool `json:"ok"`
		Outcomes []struct {
			Kind string `json:"kind"`
		} `json:"outcomes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.True(t, decoded.OK)
	require.Len(t, decoded.Outcomes, 2)
	assert.Equal(t, "symlink", decoded.Outcomes[1].Kind)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromFile(junit))
	assert.Len(t, doc.FindElements("//testcase"), 2)
}

func TestApplyRejectsUnknownFormat(t *testing.T) {
	env := newCLIEnv(t)
	_, err := env.run("apply", "--format", "xml", "-c", env.basicConfig())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestKinds(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run("kinds")
	require.NoError(t, err)
	assert.Contains(t, out, "| package | pacman | builtin |")
	assert.Contains(t, out, "| echo | *(default)* | echo |")
	assert.Contains(t, out, "Unavailable plugins")
	assert.Contains(t, out, "yay: yay not found on PATH")

	env.exec.Installed("yay")
	out, err = env.run("kinds")
	require.NoError(t, err)
	assert.Contains(t, out, "| package | yay | yay |")
	assert.NotContains(t, out, "Unavailable plugins")
}

func TestKindsHonoursDisabledPlugins(t *testing.T) {
	env := newCLIEnv(t)
	t.Setenv("ARCHX_PLUGINS__DISABLED", "echo")

	out, err := env.run("kinds")
	require.NoError(t, err)
	assert.NotContains(t, out, "| echo |")
}

func TestDecisionsCommands(t *testing.T) {
	env := newCLIEnv(t)
	path := filepath.Join(env.state, paths.DecisionsFileName)

	store, err := decisions.Open(filesystem.NewOS(), path)
	require.NoError(t, err)
	require.NoError(t, store.Record(decisions.SymlinkKey(env.link()), decisions.Replace, false))
	require.NoError(t, store.Record(decisions.SymlinkKey("/etc/x"), decisions.Skip, true))

	out, err := env.run("decisions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "symlink:"+env.link())
	assert.Contains(t, out, "symlink:*")

	out, err = env.run("decisions", "forget", env.link())
	require.NoError(t, err)
	assert.Contains(t, out, "Forgot symlink:"+env.link())

	out, err = env.run("decisions", "forget", env.link())
	require.NoError(t, err)
	assert.Contains(t, out, "No decision recorded")

	out, err = env.run("decisions", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 1 decision(s)")

	out, err = env.run("decisions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No decisions recorded.")
}

func TestDecisionsAlternateStore(t *testing.T) {
	env := newCLIEnv(t)
	path := filepath.Join(env.dir, "elsewhere.json")

	store, err := decisions.Open(filesystem.NewOS(), path)
	require.NoError(t, err)
	require.NoError(t, store.Record("symlink:/raw", decisions.Skip, false))

	out, err := env.run("decisions", "list", "--decisions", path)
	require.NoError(t, err)
	assert.Contains(t, out, "symlink:/raw")

	out, err = env.run("decisions", "forget", "symlink:/raw", "--decisions", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Forgot symlink:/raw")
}

func TestVersion(t *testing.T) {
	env := newCLIEnv(t)
	out, err := env.run("version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "archx dev"))
}

func TestCompletionAndMan(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run("completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "archx")

	out, err = env.run("man")
	require.NoError(t, err)
	assert.Contains(t, out, "ARCHX")
}

func TestHelpTopics(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run("help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "config")
	assert.Contains(t, out, "--symlink-conflict")

	out, err = env.run("help", "decisions")
	require.NoError(t, err)
	assert.Contains(t, out, "# Conflict decisions")

	out, err = env.run("help", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "decision store")
}
