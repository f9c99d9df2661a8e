// Package connection provides the HTTP client tokclaim-cli uses to talk
// to tokclaim-server.
//
// The server API only uses GET and POST, and wraps every JSON payload in
// the {code, message, request_id, timestamp, data} envelope. ParseResponse
// unwraps it and turns error envelopes into *APIError.
package connection
