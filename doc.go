// Package boards implements a small multi-user content backend: account
// registration and login, board CRUD with ownership checks, and fuzzy board
// search.
//
// The core of the package is the session subsystem: bcrypt credential
// hashing, dual-secret JWT issuance (access + refresh pairs signed with
// independent secrets and lifetimes), a single hashed-at-rest refresh
// credential per account with rotation on every use, and route-level
// authorization strategies (public, access required, refresh required).
//
// The package exposes interfaces for its collaborators (Users, Boards,
// Config, Logger) and returns concrete types from constructors. HTTP
// handlers are written against goliatone/go-router so the same controllers
// run on any supported adapter; persistence goes through uptrace/bun.
package boards
