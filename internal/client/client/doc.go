// Package client contains the transport side of the shipmarket terminal client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering the
//     wallet login handshake, marketplace reads and the few order mutations
//     the terminal exposes.
//  2. A gRPC implementation (see GRPCClient) that speaks the JSON codec,
//     injects the access token through an interceptor, refreshes an expired
//     token once and maps status codes to sentinel errors.
//  3. InitDatabase and RunMigrations, which open the SQLite offline cache and
//     apply its embedded goose migrations.
//
// # Error Handling
//
// Callers match ErrUnavailable, ErrUnauthorized, ErrNotFound and
// ErrLocalDataNotAvailable with errors.Is.
package client
