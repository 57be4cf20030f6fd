// Package server exposes editing sessions over HTTP.
//
// It is a render surface: clients send typed commands and receive the
// session state after each one. All routes live under /api/v1.
//
//	POST   /api/v1/sessions                 create from {"text": ..., "direction": ...}
//	GET    /api/v1/sessions/{id}            current state
//	DELETE /api/v1/sessions/{id}            drop the session
//	PUT    /api/v1/sessions/{id}/text       replace the source text
//	POST   /api/v1/sessions/{id}/commands   run one command
//	GET    /api/v1/sessions/{id}/export     ?format=dot|svg|png|json&detailed=true
//	GET    /api/v1/sessions/{id}/types      TypeScript declarations
//	GET    /healthz
//	GET    /metrics                         when a metrics handler is set
//
// # Commands
//
// The command body names the command and carries its arguments:
//
//	{"command": "edit", "node_id": "root.config.retries", "value": "4"}
//	{"command": "toggle", "node_id": "root.modules"}
//	{"command": "set_direction", "direction": "TB"}
//	{"command": "search", "query": "database"}
//
// # Errors
//
// Failures the session recovers from (invalid JSON, a value that does not
// coerce, a layout fallback) are reported with status 200 alongside the
// unchanged state, in an "error" object carrying the code and message.
// Everything else uses the status from [errors.HTTPStatus].
package server
