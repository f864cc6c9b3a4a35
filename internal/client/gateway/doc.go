// Package gateway is the session-aware HTTP gateway to the SugarLog API.
//
// # Overview
//
// A Gateway issues JSON requests against a fixed base address:
//  1. The credential is read from a session.Store on every call and sent
//     as "Authorization: Bearer <token>" when present.
//  2. The response body is parsed as JSON and returned unchanged on 2xx.
//     A top-level "token" field in a successful body replaces the stored
//     credential before Do returns.
//  3. A 401 clears the stored credential before the error is returned, so
//     the next call starts unauthenticated.
//
// # Error Handling
//
// Every failure is a *Error. Status 0 marks a transport-level failure (no
// HTTP status, or a body that is not JSON); otherwise Status is the HTTP
// status and Data the parsed body. errors.Is matches ErrUnavailable and
// ErrUnauthorized against it. MessageFor turns any error into user-facing
// text.
//
// There is no retry and no timeout at this level: the injected *http.Client
// owns timeouts and callers decide whether to try again.
//
// # Concurrency
//
// A Gateway is safe for concurrent use. Concurrent calls are independent;
// overlapping 401s all converge to an empty store.
package gateway
