package testutil

import (
	"bytes"
	"testing"

	"github.com/arthur-debert/archx/pkg/filesystem"
	"github.com/arthur-debert/archx/pkg/runner"
	"github.com/rs/zerolog"
)

// NewLogger returns a debug-level logger writing into the returned buffer
func NewLogger(t *testing.T) (zerolog.Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	return zerolog.New(buf).Level(zerolog.DebugLevel), buf
}

// NewRunner creates a runner backed by exec. The returned buffer captures
// the runner's log output.
func NewRunner(t *testing.T, exec *FakeExec, dryRun bool) (*runner.Runner, *bytes.Buffer) {
	t.Helper()
	logger, buf := NewLogger(t)
	r := runner.New(runner.Options{
		DryRun:   dryRun,
		Sudo:     true,
		Exec:     exec.Exec,
		LookPath: exec.LookPath,
		Logger:   &logger,
	})
	return r, buf
}

// NewTempFS returns an OS filesystem together with a fresh temporary
// directory to work in.
func NewTempFS(t *testing.T) (filesystem.FS, string) {
	t.Helper()
	return filesystem.NewOS(), t.TempDir()
}
