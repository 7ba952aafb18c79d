// Package filesystem provides the filesystem abstraction used by the
// decision store and the symlink backend.
//
// Implementations sit on top of afero: the OS filesystem in production and
// afero.MemMapFs in tests that do not need symlinks.
package filesystem
