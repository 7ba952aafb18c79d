// Package commands defines the desired-state commands archx applies.
//
// A Command is built once from a config Entry by the Factory, which
// validates every field up front, and is then applied against a Context.
// Apply reports what it did as a human-readable message. Commands are
// idempotent: a second Apply against the same machine state changes
// nothing and says so.
//
// The Factory dispatches on (kind, backend) through a handler Table. The
// built-in kinds are registered first so that plugins can add kinds and
// backends but never shadow a built-in handler.
package commands
