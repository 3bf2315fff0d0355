package userapi

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCreds    = "invalid_credentials"
	TextCodeTokenExpired    = "token_expired"
	TextCodeTokenMalformed  = "token_malformed"
	TextCodeEmailTaken      = "email_taken"
	TextCodeUserNotFound    = "user_not_found"
	TextCodeNotOwner        = "not_resource_owner"
	TextCodeEmptyPassword   = "empty_password"
	TextCodeEmptyUpdate     = "empty_update"
	TextCodeInvalidIdentity = "invalid_identity"
)

// ErrNoEmptyString is returned when an empty password reaches the hasher.
// Upstream validation guarantees non-empty input, so hitting this is a
// programming error rather than a user-facing condition.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is returned for any credential mismatch. The
// message deliberately does not say whether the email or the password failed.
var ErrMismatchedHashAndPassword = errors.New("invalid email or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a token's exp claim is in the past.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for any token that fails parsing or
// signature verification.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrEmailTaken is returned when a registration or email change collides
// with an existing account, whether caught by the pre-check or by the
// store's unique constraint.
var ErrEmailTaken = errors.New("Email already in use", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeConflict)

// ErrNotResourceOwner is returned when an authenticated caller attempts to
// mutate a record that is not their own.
var ErrNotResourceOwner = errors.New("Forbidden", errors.CategoryAuthz).
	WithTextCode(TextCodeNotOwner).
	WithCode(errors.CodeForbidden)

// ErrEmptyUpdate is returned when an update payload carries no fields.
var ErrEmptyUpdate = errors.New("At least one field must be provided", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyUpdate).
	WithCode(errors.CodeBadRequest)

// ErrMissingIdentity is returned when a protected handler runs without an
// authenticated identity in the request context.
var ErrMissingIdentity = errors.New("Unauthorized", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidIdentity).
	WithCode(errors.CodeUnauthorized)

// errUserNotFound builds the not-found error for a specific user id.
func errUserNotFound(id int64) *errors.Error {
	return errors.New(fmt.Sprintf("User with ID %d not found", id), errors.CategoryNotFound).
		WithTextCode(TextCodeUserNotFound).
		WithCode(errors.CodeNotFound).
		WithMetadata(map[string]any{"user_id": id})
}

// IsRecordNotFound will check for missing-row signals from the store
func IsRecordNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, sql.ErrNoRows) || errors.IsNotFound(err)
}

// IsUniqueViolation will check for unique-constraint violations across the
// dialects the service runs on.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}
