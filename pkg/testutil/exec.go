package testutil

import (
	"errors"
	"strings"
	"sync"
)

// FakeResult is the canned outcome of one command line
type FakeResult struct {
	Output   string
	ExitCode int
	// StartErr simulates a process that could not be started
	StartErr error
}

// FakeExec records command lines and answers them from a script.
// Unscripted commands succeed with exit status 0.
type FakeExec struct {
	mu      sync.Mutex
	results map[string]FakeResult
	calls   []string
	paths   map[string]bool
}

// NewFakeExec creates an empty FakeExec
func NewFakeExec() *FakeExec {
	return &FakeExec{
		results: make(map[string]FakeResult),
		paths:   make(map[string]bool),
	}
}

// On scripts the result for an exact command line such as "pacman -Q git"
func (f *FakeExec) On(commandLine string, result FakeResult) *FakeExec {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[commandLine] = result
	return f
}

// Exit scripts an exit status for a command line
func (f *FakeExec) Exit(commandLine string, code int) *FakeExec {
	return f.On(commandLine, FakeResult{ExitCode: code})
}

// Installed marks an executable as present on PATH
func (f *FakeExec) Installed(names ...string) *FakeExec {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range names {
		f.paths[n] = true
	}
	return f
}

// Exec satisfies runner.ExecFunc
func (f *FakeExec) Exec(name string, args []string) ([]byte, int, error) {
	line := strings.Join(append([]string{name}, args...), " ")

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, line)

	r := f.results[line]
	if r.StartErr != nil {
		return nil, -1, r.StartErr
	}
	return []byte(r.Output), r.ExitCode, nil
}

// LookPath satisfies runner.LookPathFunc
func (f *FakeExec) LookPath(file string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.paths[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("executable file not found in $PATH")
}

// Calls returns every command line executed, in order
func (f *FakeExec) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// Called reports whether commandLine was executed
func (f *FakeExec) Called(commandLine string) bool {
	for _, c := range f.Calls() {
		if c == commandLine {
			return true
		}
	}
	return false
}
