// Package testutil provides utilities for testing archx components.
//
// Key components:
//   - FakeExec: scripted process results with call recording, so backend
//     tests never run pacman, systemctl or sudo
//   - NewRunner: a runner wired to a FakeExec and a captured logger
//   - NewTempFS: a real filesystem rooted in t.TempDir(), for symlink tests
//
// All test data should be defined inline, not in external files.
package testutil
