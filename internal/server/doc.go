// Package server implements the loopback status server that exposes the bank
// open flag to overlay applications.
//
// # Endpoint
//
//	GET /state  ->  200 {"bankOpen":true}
//
// Responses carry "Content-Type: application/json; charset=utf-8" and
// "Cache-Control: no-store". The flag is read from the StateSource on every
// request. A failure while building the response yields a 500 with a short
// category, e.g. {"error":"encode_failed"} or {"error":"panic"}. Unknown paths
// get {"error":"not_found"}.
//
// # Lifecycle
//
// A Server is either stopped or running one listener on 127.0.0.1. The bind
// address is fixed; only the port comes from configuration.
//
//	srv := server.New(reader, bus, log, server.DefaultOptions())
//	if err := srv.Start(cfg); err != nil {
//		// invalid port or bind failure: the server stays stopped
//	}
//	defer srv.Stop()
//
// Start, Stop and Restart share one mutex. Restart is stop-then-start under that
// mutex, so concurrent configuration changes cannot leave two listeners bound or
// reorder a stop after a start. Stop closes the listener and open connections
// immediately and waits for the serve goroutine, so the port is free on return.
//
// Every listener gets a ULID that appears in logs and in the
// event.ServerListening and event.ServerStopped events.
package server
