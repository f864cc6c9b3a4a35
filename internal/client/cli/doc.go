// Package cli provides the interactive SugarLog command-line client.
//
// It wires configuration, local storage, the session-aware gateway and the
// application services, then runs a REPL. On launch the previous session is
// resumed, or an anonymous one is opened for this device, and a background
// watcher keeps the online/offline indicator current.
//
// Every failure reaching the user goes through gateway.MessageFor, so the
// REPL shows the same short texts for the same kinds of failures.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
