// Package cli provides the interactive shipmarket terminal client.
//
// It wires configuration, the offline cache, API services and a REPL that
// keeps working read-only while the marketplace is unreachable. A background
// watcher pings the server and flips the prompt between online and offline.
//
// Commands:
//   - login: sign the server challenge with a wallet key
//   - market: public listing, served from the local snapshot when offline
//   - portfolio: the caller's orders, journeys, policies and matches
//   - templates, contracts: platform directories
//   - order <id> [status <s> | insure <template-id> | risk]
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
