// Package userapi implements a small HTTP API over a single user resource:
// password-based registration, JWT bearer authentication, and CRUD handlers
// backed by Bun.
//
// Components:
//   - TokenService issues and validates HS256 tokens embedding the
//     authenticated identity (user id + email). Tokens are stateless; validity
//     is signature plus expiry, there is no revocation list.
//   - Users is the persistence boundary. It translates store signals (missing
//     rows, unique-constraint violations) into the shared error taxonomy so
//     handlers never inspect driver errors.
//   - UsersController binds the lifecycle handlers to fiber routes. Protected
//     routes run the jwtware guard; mutation of a user record is gated by an
//     injectable OwnershipPolicy (self-only by default).
package userapi
