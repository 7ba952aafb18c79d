// Package paths provides centralized path handling for archx.
// Default locations follow the XDG Base Directory specification; every
// default can be overridden through an ARCHX_* environment variable.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/archx/pkg/errors"
)

// Environment variable names
const (
	// EnvRepoRoot overrides repo root discovery
	EnvRepoRoot = "ARCHX_REPO_ROOT"

	// EnvStateDir overrides the XDG state directory for archx
	EnvStateDir = "ARCHX_STATE_DIR"

	// EnvConfigDir overrides the XDG config directory for archx
	EnvConfigDir = "ARCHX_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name used below each XDG base directory
	AppDirName = "archx"

	// SetupDirName is the conventional directory holding the config file
	// inside a machine repo. Its parent is the repo root.
	SetupDirName = "setup"

	// DecisionsFileName is the name of the decision store file
	DecisionsFileName = "decisions.json"

	// SettingsFileName is the name of the settings file
	SettingsFileName = "settings.toml"

	// LogFileName is the name of the log file
	LogFileName = "archx.log"

	// DefaultConfigFile is looked up in the working directory when no
	// config file is given
	DefaultConfigFile = "setup.yaml"
)

// StateDir returns the directory for persistent state (decisions, logs).
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdg.StateHome, AppDirName)
}

// ConfigDir returns the directory for user settings.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// DecisionsPath returns the default decision store location.
func DecisionsPath() string {
	return filepath.Join(StateDir(), DecisionsFileName)
}

// SettingsPath returns the default settings file location.
func SettingsPath() string {
	return filepath.Join(ConfigDir(), SettingsFileName)
}

// LogFilePath returns the path of the log file.
func LogFilePath() string {
	return filepath.Join(StateDir(), LogFileName)
}

// IsHomeRelative reports whether path starts with ~.
func IsHomeRelative(path string) bool {
	return strings.HasPrefix(path, "~")
}

// ExpandHome expands a leading ~ or ~/ to the home directory.
// ~user forms are returned unchanged.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// ResolveSource anchors a relative, non home-relative source path at the
// repo root. Absolute and ~ paths are returned untouched.
func ResolveSource(repoRoot, source string) string {
	if filepath.IsAbs(source) || IsHomeRelative(source) {
		return source
	}
	return filepath.Join(repoRoot, source)
}

// RepoRoot determines the repo root using the following priority:
//  1. explicit (the --repo-root flag), if non-empty
//  2. the ARCHX_REPO_ROOT environment variable
//  3. the parent of the config file's directory when that directory is
//     named "setup"
//  4. the config file's directory
//
// The returned path is absolute.
func RepoRoot(explicit, configPath string) (string, error) {
	root := explicit
	if root == "" {
		root = os.Getenv(EnvRepoRoot)
	}
	if root == "" {
		dir := filepath.Dir(configPath)
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to resolve directory of %s", configPath)
		}
		if filepath.Base(absDir) == SetupDirName {
			absDir = filepath.Dir(absDir)
		}
		return absDir, nil
	}

	abs, err := filepath.Abs(ExpandHome(root))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for repo root %s", root)
	}
	return abs, nil
}
