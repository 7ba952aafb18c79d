// Package backends groups the resource backends archx drives. Each backend
// pairs a read-only idempotency check with a mutating action, and routes
// every mutation through the runner so dry-run is honoured uniformly.
//
//   - pacman: packages via pacman -Q / pacman -S
//   - systemctl: unit enablement via systemctl is-enabled / enable
//   - symlink: links with conflict resolution backed by the decision store
package backends
