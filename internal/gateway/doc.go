// Package gateway wires the store, intent router, and notification
// dispatcher into a single HTTP server.
//
// Two kinds of surface live here with different error contracts:
//
//   - POST /webhook: the dialog platform fulfillment endpoint. It always
//     returns HTTP 200 with a well-formed envelope; malformed bodies,
//     collaborator failures, and even panics inside routing are absorbed
//     and converted to a safe reply.
//   - /api/*: operator endpoints for the client-managed knowledge base and
//     the audit log. These behave like a normal JSON API and surface real
//     status codes.
//
// Health probes are at /health and /health/ready; /metrics is registered
// when enabled in config.
package gateway
