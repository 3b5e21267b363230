// Package repository implements the data access layer on top of
// database/sql.  Repositories are thin wrappers around *sql.DB; methods
// with a Tx suffix run inside a caller-owned transaction and leave
// commit/rollback to the caller.
package repository

import "errors"

// ErrNotFound is returned when a referenced row does not exist.  It is
// used instead of sql.ErrNoRows where a repository method already knows
// which entity is missing.
var ErrNotFound = errors.New("not found")
