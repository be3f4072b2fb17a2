// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrUserExists signals a duplicate username or email on
// registration, while ErrForeignKey reports an insert referencing a
// user that no longer exists.  Absent rows are reported with
// sql.ErrNoRows so handlers can treat "not found" and "not owned by
// the caller" identically.
package repository

import "errors"

// ErrUserExists is returned when an INSERT into users violates the
// unique constraint on username or email. Handlers should translate
// this into an HTTP 409 response.
var ErrUserExists = errors.New("username or email already exists")

// ErrForeignKey is returned when a saved result references a user_id
// that does not exist. With authentication upstream this should not
// happen, but the constraint failure is still mapped so handlers can
// answer with a 500 instead of leaking a raw driver error.
var ErrForeignKey = errors.New("user does not exist")
